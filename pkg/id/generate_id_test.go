package id

import (
	"regexp"
	"testing"
)

var reID = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := NewID32(); !reID.MatchString(got) {
			t.Fatalf("NewID32() = %q, want 32-char lowercase hex", got)
		}
	}
}

func TestNewID32_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID32()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
}
