package feature

import (
	"testing"
)

func TestCanonicalOrder(t *testing.T) {
	want := []string{"fob", "lea", "rea", "lbd", "rbd", "hnc", "vnc", "lcw", "rcw", "ma"}
	if len(All) != len(want) {
		t.Fatalf("Expected %d features, got %d", len(want), len(All))
	}
	for i, f := range All {
		if f.Code() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], f.Code())
		}
		parsed, err := Parse(want[i])
		if err != nil || parsed != f {
			t.Errorf("Parse(%q) = %v, %v", want[i], parsed, err)
		}
	}
	if _, err := Parse("nose"); err == nil {
		t.Error("Expected error for unknown feature code")
	}
}

func TestParseNames(t *testing.T) {
	for in, want := range map[string]Feature{
		"Left Eye Aperture": LeftEyeAperture,
		"mouth_aperture":    MouthAperture,
		"furrowing-of-brow": BrowFurrowing,
		" VNC ":             VerticalNoseCrinkles,
	} {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"s": Small, "M": Medium, "large": Large, " l ": Large}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	// "h" is not a level code; the discretizer never produces it.
	if _, err := ParseLevel("h"); err == nil {
		t.Error("Expected error for level code h")
	}
}

func TestLevelSet(t *testing.T) {
	s := NewLevelSet(Large, Medium)
	if !s.Contains(Medium) || !s.Contains(Large) || s.Contains(Small) {
		t.Errorf("unexpected membership for %s", s)
	}
	if s.String() != "m,l" {
		t.Errorf("Expected m,l, got %s", s)
	}
	if !NewLevelSet().IsEmpty() || NewLevelSet().String() != "-" {
		t.Error("empty level set should mean no evidence")
	}
	if NewLevelSet(Level(7)) != 0 {
		t.Error("invalid levels must be ignored")
	}
}
