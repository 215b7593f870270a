package textproc

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already normal", "Hello world", "Hello world"},
		{"collapse spaces", "Hello    world", "Hello world"},
		{"collapse mixed whitespace", "Hello\t\n  world", "Hello world"},
		{"trim surrounding", "  Hello world  ", "Hello world"},
		{"collapse punctuation run", "Hello!!!", "Hello!"},
		{"punctuation run keeps last mark", "Really?!", "Really!"},
		{"run and whitespace together", "Hello!!!  world", "Hello! world"},
		{"dots collapse", "Wait...", "Wait."},
		{"single marks untouched", "One. Two! Three?", "One. Two! Three?"},
		{"whitespace only", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello!!!  world",
		"  Really?!  sure...  ",
		"Plain sentence with no oddities.",
		"नमस्ते   दुनिया!!",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestDenormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"space before punctuation", "hello , world", "Hello, world"},
		{"space before period", "done .", "Done."},
		{"punctuation glued to letter", "first.second", "First. second"},
		{"uppercase first rune", "hello world", "Hello world"},
		{"already capitalized", "Hello world.", "Hello world."},
		{"trims surrounding", "  hello  ", "Hello"},
		{"devanagari first rune unchanged", "नमस्ते दुनिया", "नमस्ते दुनिया"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Denormalize(tt.input)
			if result != tt.expected {
				t.Errorf("Denormalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "unknown"},
		{"english", "Hello, how are you today?", "en"},
		{"hindi", "नमस्ते आप कैसे हैं", "hi"},
		{"mixed leaning hindi", "Hello नमस्ते दुनिया कैसे", "hi"},
		{"digits only", "12345 67890", "unknown"},
		{"spaces only", "     ", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
