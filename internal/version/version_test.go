package version

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"patch older", "1.0.0", "1.0.1", -1},
		{"minor newer", "2.1.0", "2.0.9", 1},
		{"equal", "1.2.3", "1.2.3", 0},
		{"trailing zeros equal", "1.2", "1.2.0", 0},
		{"single segment equal", "2", "2.0.0", 0},
		{"single segment older", "2", "2.0.1", -1},
		{"major newer", "10.0.0", "9.9.9", 1},
		{"two-digit segment", "1.10.0", "1.9.0", 1},
		{"four segments", "1.2.3.4", "1.2.3", 1},
		{"v prefix", "v1.2.3", "1.2.3", 0},
		{"leading zeros", "1.02", "1.2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compare(%q, %q) error: %v", tt.a, tt.b, err)
			}
			if got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}

			// Antisymmetry must hold for every valid pair.
			flipped, err := Compare(tt.b, tt.a)
			if err != nil {
				t.Fatalf("Compare(%q, %q) error: %v", tt.b, tt.a, err)
			}
			if flipped != -got {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, flipped, -got)
			}
		})
	}
}

func TestCompareReflexive(t *testing.T) {
	for _, s := range []string{"0", "1.0.0", "1.2", "10.20.30.40"} {
		got, err := Compare(s, s)
		if err != nil {
			t.Fatalf("Compare(%q, %q) error: %v", s, s, err)
		}
		if got != 0 {
			t.Errorf("Compare(%q, %q) = %d, want 0", s, s, got)
		}
	}
}

func TestCompareTransitive(t *testing.T) {
	// Every adjacent pair is ascending, so every ordered triple must be too.
	chain := []string{"0.9", "1.0.0", "1.2.0", "1.2.1", "2.0.0", "10.0"}
	for i := 0; i < len(chain); i++ {
		for j := i + 1; j < len(chain); j++ {
			got, err := Compare(chain[i], chain[j])
			if err != nil {
				t.Fatalf("Compare(%q, %q) error: %v", chain[i], chain[j], err)
			}
			if got != -1 {
				t.Errorf("Compare(%q, %q) = %d, want -1", chain[i], chain[j], got)
			}
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"",
		" ",
		"abc",
		"1.x.3",
		"1..3",
		"1.2.3-beta",
		"1.2.3+build.7",
		"-1.0.0",
		"1.-2",
		"1.+2",
		"+1.0",
	}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			if _, err := Parse(s); !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformed", s, err)
			}
		})
	}
}

func TestCompareMalformedFailsWhole(t *testing.T) {
	if _, err := Compare("1.0.0", "1.0.x"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Compare error = %v, want ErrMalformed", err)
	}
	if _, err := Compare("oops", "1.0.0"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Compare error = %v, want ErrMalformed", err)
	}
}

func TestIsUpdateRequired(t *testing.T) {
	tests := []struct {
		current string
		minimum string
		want    bool
	}{
		{"1.0.0", "1.1.0", true},
		{"1.1.0", "1.1.0", false},
		{"1.2.0", "1.1.0", false},
		{"0.9", "1.0.0", true},
		{"2", "2.0.0", false},
	}

	for _, tt := range tests {
		got, err := IsUpdateRequired(tt.current, tt.minimum)
		if err != nil {
			t.Fatalf("IsUpdateRequired(%q, %q) error: %v", tt.current, tt.minimum, err)
		}
		if got != tt.want {
			t.Errorf("IsUpdateRequired(%q, %q) = %v, want %v", tt.current, tt.minimum, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	v, err := Parse("v1.02.3")
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "1.2.3" {
		t.Errorf("String() = %q, want %q", got, "1.2.3")
	}
}
