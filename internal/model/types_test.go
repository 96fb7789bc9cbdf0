package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestGroupSizeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want GroupSize
	}{
		{`"all"`, WholePopulation()},
		{`"ALL"`, WholePopulation()},
		{`"3"`, GroupsOf(3)},
		{`3`, GroupsOf(3)},
		{` 12 `, GroupsOf(12)},
	}
	for _, tt := range tests {
		var got GroupSize
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("unmarshal %s = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestGroupSizeUnmarshalJSONRejectsNonIntegers(t *testing.T) {
	for _, in := range []string{`2.5`, `"some"`, `true`, `"2.5"`} {
		var got GroupSize
		err := json.Unmarshal([]byte(in), &got)
		if !errors.Is(err, ErrInvalidGroupSize) {
			t.Fatalf("unmarshal %s: err=%v, want ErrInvalidGroupSize", in, err)
		}
	}
}

func TestParamsDecodeNumericGroupSize(t *testing.T) {
	var p Params
	if err := json.Unmarshal([]byte(`{"rule":"social","population_size":6,"group_size":3}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.GroupSize != GroupsOf(3) {
		t.Fatalf("group size=%+v", p.GroupSize)
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Params
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if back.GroupSize != p.GroupSize {
		t.Fatalf("round trip group size=%+v", back.GroupSize)
	}
}

func TestTimestampIsFixedWidth(t *testing.T) {
	onSecond := Timestamp(time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC))
	halfPast := Timestamp(time.Date(2026, 1, 1, 0, 0, 5, 500_000_000, time.UTC))
	if onSecond != "2026-01-01T00:00:05.000000000Z" {
		t.Fatalf("onSecond=%s", onSecond)
	}
	if len(onSecond) != len(halfPast) || !(halfPast > onSecond) {
		t.Fatalf("string order disagrees with time order: %s vs %s", onSecond, halfPast)
	}
}

func TestNewerThanParsesMixedPrecision(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2026-01-01T00:00:05.5Z", "2026-01-01T00:00:05Z", true},
		{"2026-01-01T00:00:05Z", "2026-01-01T00:00:05.5Z", false},
		{"2026-01-01T00:00:05Z", "2026-01-01T00:00:05.000000000Z", false},
		{"2026-01-02T00:00:00Z", "2026-01-01T23:59:59.999Z", true},
	}
	for _, tt := range tests {
		if got := NewerThan(tt.a, tt.b); got != tt.want {
			t.Fatalf("NewerThan(%s, %s)=%v want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
