package rfctime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Format for date-time in RFC3339, always with numeric offset (never "Z").
const RFC3339DateTimeFormat string = "2006-01-02T15:04:05.999-07:00"

// RFC3339 is a timestamp which is marshalled into JSON as RFC3339 string.
type RFC3339 time.Time

func (t RFC3339) Time() time.Time {
	return time.Time(t)
}

func (t *RFC3339) Equal(other *RFC3339) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}
	return t.Time().Equal(other.Time())
}

func (t RFC3339) String() string {
	return time.Time(t).Format(RFC3339DateTimeFormat)
}

// In converts the timestamp into loc.
func (t RFC3339) In(loc *time.Location) RFC3339 {
	return RFC3339(time.Time(t).In(loc))
}

// ParseRFC3339DateTime parses RFC3339 string. "Z" is accepted as offset.
func ParseRFC3339DateTime(s string) (RFC3339, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return RFC3339{}, err
	}
	return RFC3339(t), nil
}

// Ref converts *time.Time into *RFC3339.
func Ref(t *time.Time) *RFC3339 {
	if t == nil {
		return nil
	}
	r := RFC3339(*t)
	return &r
}

func (t RFC3339) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, t)), nil
}

func (t *RFC3339) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	ret, err := ParseRFC3339DateTime(s)
	if err != nil {
		return err
	}
	*t = ret
	return nil
}
