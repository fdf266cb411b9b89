package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the calendar-date layout used for due dates and purchase dates.
const DayLayout = "2006-01-02"

// Day is a calendar date. The zero Day means "not set" and encodes as "".
type Day struct {
	time.Time
}

// NewDay truncates t to its calendar date in UTC.
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a date in DayLayout or RFC 3339 form.
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return NewDay(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDay(t), nil
}

// IsSet reports whether the day carries a date.
func (d Day) IsSet() bool {
	return !d.IsZero()
}

// FirstOfMonthAfter returns the first day of the month n months after d's month.
func (d Day) FirstOfMonthAfter(n int) Day {
	return Day{Time: time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)}
}

func (d Day) String() string {
	if !d.IsSet() {
		return ""
	}
	return d.Format(DayLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Empty strings and null decode to the zero Day.
func (d *Day) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Timestamp is the instant a transaction is dated at. It decodes from RFC 3339
// timestamps and from bare YYYY-MM-DD dates, and encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

// At converts t to a UTC Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler. A bare date decodes to midnight UTC.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	if t, err := time.Parse(DayLayout, s); err == nil {
		*ts = At(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	*ts = At(t)
	return nil
}
