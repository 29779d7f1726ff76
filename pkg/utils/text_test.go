package utils

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"trims whitespace", "  plumber  ", 100, "plumber"},
		{"strips tags", `plumber <script>alert("x")</script>now`, 100, `plumber alert("x")now`},
		{"strips lone tag", "electrician<br>", 100, "electrician"},
		{"caps length", "abcdefghij", 5, "abcde"},
		{"cap then trim", "abcd efghij", 5, "abcd"},
		{"empty", "   ", 100, ""},
		{"control chars removed", "plom\x00ero\n", 100, "plomero"},
		{"accents preserved", "fontanería", 100, "fontanería"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeText(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.449, 4.4},
		{4.45, 4.5},
		{0, 0},
		{3.0, 3.0},
		{-1.26, -1.3},
	}
	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
