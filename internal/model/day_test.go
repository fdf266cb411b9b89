package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: "2026-03-15", want: "2026-03-15"},
		{name: "ISO timestamp", input: "2026-03-15T22:10:00.000Z", want: "2026-03-15"},
		{name: "garbage", input: "15/03/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDay(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDay(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDay_FirstOfMonthAfter(t *testing.T) {
	d := NewDay(time.Date(2026, time.November, 30, 18, 0, 0, 0, time.UTC))

	for n, want := range map[int]string{1: "2026-12-01", 2: "2027-01-01", 14: "2028-01-01"} {
		if got := d.FirstOfMonthAfter(n).String(); got != want {
			t.Errorf("FirstOfMonthAfter(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestDay_JSON(t *testing.T) {
	var holder struct {
		Due Day `json:"due"`
	}

	for _, input := range []string{`{"due":""}`, `{"due":null}`, `{}`} {
		holder.Due = NewDay(time.Now())
		if input == `{}` {
			holder.Due = Day{}
		}
		if err := json.Unmarshal([]byte(input), &holder); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", input, err)
		}
		if holder.Due.IsSet() {
			t.Errorf("Unmarshal(%s) set the day to %s", input, holder.Due)
		}
	}

	holder.Due = NewDay(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	data, err := json.Marshal(holder)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"due":"2026-02-01"}` {
		t.Errorf("Marshal = %s", data)
	}

	if err := json.Unmarshal([]byte(`{"due":"soon"}`), &holder); err == nil {
		t.Error("Unmarshal accepted an invalid date")
	}
}

func TestTimestamp_JSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "bare date", input: `"2024-03-10"`, want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "ISO timestamp", input: `"2024-03-12T14:22:05.123Z"`, want: time.Date(2024, 3, 12, 14, 22, 5, 123e6, time.UTC)},
		{name: "offset timestamp", input: `"2024-03-12T11:00:00-03:00"`, want: time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)},
		{name: "empty", input: `""`},
		{name: "null", input: `null`},
		{name: "garbage", input: `"10/03/2024"`, wantErr: true},
		{name: "number", input: `20240310`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Timestamp
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %s, want %s", tt.input, got.Time, tt.want)
			}
		})
	}

	data, err := json.Marshal(At(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-03-10T00:00:00Z"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil || !back.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("round trip gave %s, %v", back.Time, err)
	}
}
