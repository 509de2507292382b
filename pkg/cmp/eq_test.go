package cmp_test

import (
	"testing"

	"github.com/mindgarden/consultation/pkg/cmp"
)

func TestSliceContentEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b []string
		then bool
	}{
		"same ordering":          {a: []string{"a", "b", "c"}, b: []string{"a", "b", "c"}, then: true},
		"different ordering":     {a: []string{"a", "b", "c"}, b: []string{"c", "b", "a"}, then: true},
		"extra item":             {a: []string{"a", "b", "c"}, b: []string{"c", "b", "a", "z"}, then: false},
		"different item":         {a: []string{"a", "b", "c"}, b: []string{"c", "b", "z"}, then: false},
		"duplicated in one side": {a: []string{"a", "b", "c", "c"}, b: []string{"a", "b", "b", "c"}, then: false},
		"duplicated in both":     {a: []string{"c", "a", "c"}, b: []string{"c", "c", "a"}, then: true},
		"empty":                  {a: []string{}, b: nil, then: true},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := cmp.SliceContentEq(testcase.a, testcase.b); actual != testcase.then {
				t.Errorf("(actual, expected) = (%v, %v)", actual, testcase.then)
			}
		})
	}
}

func TestSliceEq(t *testing.T) {
	if !cmp.SliceEq([]int{1, 2, 3}, []int{1, 2, 3}) {
		t.Error("same slices should be equal")
	}
	if cmp.SliceEq([]int{1, 2, 3}, []int{3, 2, 1}) {
		t.Error("ordering should matter")
	}
	if cmp.SliceEq([]int{1, 2}, []int{1, 2, 3}) {
		t.Error("length should matter")
	}
}

func TestMapEqWith(t *testing.T) {
	a := map[string]int{"x": 1, "y": 2}
	if !cmp.MapEqWith(a, map[string]int{"y": 2, "x": 1}, cmp.EqEq[int]) {
		t.Error("same maps should be equal")
	}
	if cmp.MapEqWith(a, map[string]int{"x": 1, "y": 3}, cmp.EqEq[int]) {
		t.Error("values should matter")
	}
	if cmp.MapEqWith(a, map[string]int{"x": 1, "z": 2}, cmp.EqEq[int]) {
		t.Error("keys should matter")
	}
}

func TestPEqEq(t *testing.T) {
	one, another := 1, 1
	two := 2
	if !cmp.PEqEq[int](nil, nil) {
		t.Error("nils should be equal")
	}
	if !cmp.PEqEq(&one, &another) {
		t.Error("pointers to same values should be equal")
	}
	if cmp.PEqEq(&one, &two) || cmp.PEqEq(&one, nil) {
		t.Error("different values should not be equal")
	}
}
