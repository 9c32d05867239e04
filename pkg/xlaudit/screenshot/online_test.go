package screenshot

import (
	"strings"
	"testing"
)

func TestImageFilename(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"Sheet1", "Sheet1.png"},
		{"Q1/Q2 Plan", "Q1_Q2 Plan.png"},
		{`Data:2024`, "Data_2024.png"},
	}
	for _, c := range cases {
		if got := imageFilename(c.name); got != c.expected {
			t.Errorf("imageFilename(%q): expected %q, got %q", c.name, c.expected, got)
		}
	}

	long := imageFilename(strings.Repeat("x", 150))
	if len(long) != 104 {
		t.Errorf("Expected capped name of 104 characters, got %d", len(long))
	}
}
