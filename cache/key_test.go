package cache

import (
	"regexp"
	"testing"
)

func TestDeriveKey_Format(t *testing.T) {
	key := DeriveKey("Hello, how are you?", "en", "hi")

	pattern := regexp.MustCompile(`^trans:en:hi:[0-9a-f]{16}$`)
	if !pattern.MatchString(key) {
		t.Errorf("DeriveKey() = %q, want match for %q", key, pattern)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey("Hello world", "en", "hi")
	b := DeriveKey("Hello world", "en", "hi")
	if a != b {
		t.Errorf("same input produced different keys: %q vs %q", a, b)
	}
}

func TestDeriveKey_DistinctInputs(t *testing.T) {
	base := DeriveKey("Hello world", "en", "hi")

	tests := []struct {
		name string
		key  string
	}{
		{"different text", DeriveKey("Hello worlds", "en", "hi")},
		{"different source", DeriveKey("Hello world", "de", "hi")},
		{"different target", DeriveKey("Hello world", "en", "es")},
		{"swapped direction", DeriveKey("Hello world", "hi", "en")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Errorf("key %q collides with base key", tt.key)
			}
		})
	}
}

func TestDeriveKey_RawTextNotTrimmed(t *testing.T) {
	a := DeriveKey("Hello", "en", "hi")
	b := DeriveKey(" Hello ", "en", "hi")
	if a == b {
		t.Error("surrounding whitespace should change the derived key")
	}
}
