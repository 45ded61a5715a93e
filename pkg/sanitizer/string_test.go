package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already clean", input: "John Doe", want: "John Doe"},
		{name: "leading and trailing spaces", input: "  John Doe  ", want: "John Doe"},
		{name: "internal runs collapsed", input: "John   \t Doe", want: "John Doe"},
		{name: "newlines collapsed", input: "John\nDoe", want: "John Doe"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "asha patel", want: "Asha Patel"},
		{name: "all caps from OCR", input: "ASHA PATEL", want: "Asha Patel"},
		{name: "messy whitespace", input: "  asha   patel ", want: "Asha Patel"},
		{name: "single token", input: "asha", want: "Asha"},
		{name: "already clean", input: "Asha Patel", want: "Asha Patel"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstNameToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "full name", input: "Priya Sharma", want: "Priya"},
		{name: "single token", input: "Priya", want: "Priya"},
		{name: "messy whitespace", input: "  Priya   Sharma ", want: "Priya"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstNameToken(tt.input); got != tt.want {
				t.Errorf("FirstNameToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
