package middleware

import (
	"testing"
	"time"
)

func TestParseAxRequestAt(t *testing.T) {
	sec := int64(1756461600) // 2025-08-29T10:00:00Z
	cases := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"epoch seconds", "1756461600", time.Unix(sec, 0).UTC(), true},
		{"epoch millis", "1756461600123", time.UnixMilli(sec*1000 + 123).UTC(), true},
		{"rfc3339 zulu", "2025-08-29T10:00:00Z", time.Unix(sec, 0).UTC(), true},
		{"rfc3339 offset", "2025-08-29T12:00:00+02:00", time.Unix(sec, 0).UTC(), true},
		{"rfc3339 nano", "2025-08-29T10:00:00.5Z", time.Unix(sec, 0).Add(500 * time.Millisecond).UTC(), true},
		{"naive local", "2025-08-29 10:00:00", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAxRequestAt(tc.raw)
			if tc.ok != (err == nil) {
				t.Fatalf("err = %v, ok = %v", err, tc.ok)
			}
			if tc.ok && !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidReqID(t *testing.T) {
	valid := []string{
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		"123e4567-e89b-12d3-a456-426614174000",
		"  123E4567-E89B-12D3-A456-426614174000  ", // trimmed + lowered
	}
	for _, id := range valid {
		if !validReqID(id) {
			t.Errorf("validReqID(%q) = false, want true", id)
		}
	}
	invalid := []string{"", "short", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbg", "123e4567e89b12d3a456426614174000-"}
	for _, id := range invalid {
		if validReqID(id) {
			t.Errorf("validReqID(%q) = true, want false", id)
		}
	}
}

func TestBuildKey(t *testing.T) {
	got := buildKey("POST", "/loans/:loan_id/approve", testUserID, testReqID)
	want := "idemp:ax:post:/loans/:loan_id/approve:" + testUserID + ":" + testReqID
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
