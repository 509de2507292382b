package rfctime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mindgarden/consultation/pkg/utils/rfctime"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func TestRFC3339(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	t.Run("it marshals with numeric offset", func(t *testing.T) {
		ts := rfctime.RFC3339(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
		actual := string(try.To(json.Marshal(ts)).OrFatal(t))
		if expected := `"2024-05-01T09:30:00+00:00"`; actual != expected {
			t.Errorf("(actual, expected) = (%s, %s)", actual, expected)
		}
	})

	t.Run("it unmarshals with Z and offset", func(t *testing.T) {
		for in, expected := range map[string]time.Time{
			`"2024-05-01T09:30:00Z"`:          time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			`"2024-05-01T18:30:00.123+09:00"`: time.Date(2024, 5, 1, 18, 30, 0, 123_000_000, kst),
		} {
			var actual rfctime.RFC3339
			if err := json.Unmarshal([]byte(in), &actual); err != nil {
				t.Fatal(err)
			}
			if !actual.Time().Equal(expected) {
				t.Errorf("%s: (actual, expected) = (%s, %s)", in, actual, expected)
			}
		}
	})

	t.Run("null keeps the value", func(t *testing.T) {
		orig := rfctime.RFC3339(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		actual := orig
		if err := json.Unmarshal([]byte(`null`), &actual); err != nil {
			t.Fatal(err)
		}
		if !actual.Equal(&orig) {
			t.Errorf("value is changed: %s", actual)
		}
	})

	t.Run("Equal treats nils", func(t *testing.T) {
		var a, b *rfctime.RFC3339
		if !a.Equal(b) {
			t.Error("nils should be equal")
		}
		x := rfctime.RFC3339(time.Now())
		if a.Equal(&x) || (&x).Equal(a) {
			t.Error("nil and non-nil should not be equal")
		}
	})
}
