// Package cmp has equality helpers for slices, maps and pointers.
package cmp

type BiPredicator[V any, U any] func(a V, b U) bool

// a == b as BiPredicator function
func EqEq[T comparable](a, b T) bool {
	return a == b
}

// *a == *b as BiPredicator function. Two nils are equal.
func PEqEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, EqEq[T])
}

func SliceEqWith[T any, U any](a []T, b []U, pred BiPredicator[T, U]) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// SliceContentEqWith checks two slices have equivalent contents, ignoring ordering.
//
// Slices are compared as multi-sets:
//
//	SliceContentEqWith([]int{1, 2, 2}, []int{2, 1, 2}, EqEq[int])  // => true
//	SliceContentEqWith([]int{1, 2, 2}, []int{1, 1, 2}, EqEq[int])  // => false
func SliceContentEqWith[S, T any](a []S, b []T, equiv BiPredicator[S, T]) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))
NEXT_A:
	for _, va := range a {
		for i := range b {
			if used[i] || !equiv(va, b[i]) {
				continue
			}
			used[i] = true
			continue NEXT_A
		}
		return false
	}
	return true
}

func SliceContentEq[T comparable](a, b []T) bool {
	return SliceContentEqWith(a, b, EqEq[T])
}

// MapEqWith checks two maps have the same keys and equivalent values.
func MapEqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred BiPredicator[V, U]) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}
