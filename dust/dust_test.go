package dust

import (
	"errors"
	"testing"
)

func TestSetSublimation(t *testing.T) {
	table := []struct {
		mode        string
		temperature float64
		valid       bool
	}{
		{"none", 0, true},
		{"none", 1600, true},
		{"cap", 1600, true},
		{"slow", 1200, true},
		{"fast", 1600, true},
		{"fast", 0, false},
		{"cap", -5, false},
		{"bogus", 1600, false},
		{"", 1600, false},
	}

	for i, test := range table {
		r := NewReference("kmh.dst")
		err := r.SetSublimation(test.mode, test.temperature)
		if test.valid && err != nil {
			t.Errorf("%d) Expected mode %q to be accepted, got error: %v",
				i, test.mode, err)
		} else if !test.valid {
			modeErr := &SublimationModeError{}
			if !errors.As(err, &modeErr) {
				t.Errorf("%d) Expected a SublimationModeError, got %v.",
					i, err)
			}
		}
	}
}

func TestSublimationNoneDropsTemperature(t *testing.T) {
	r := NewReference("kmh.dst")
	if err := r.SetSublimation("fast", 1600); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := r.SetSublimation("none", 0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mode, temperature := r.Sublimation()
	if mode != None || temperature != 0 {
		t.Errorf("Expected (none, 0), got (%s, %g).", mode, temperature)
	}
}

func TestFreeze(t *testing.T) {
	r := NewReference("kmh.dst")
	if err := r.SetSublimation("fast", 1600); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	r.Freeze()
	if err := r.SetSublimation("slow", 1200); err == nil {
		t.Errorf("Expected a frozen reference to reject mutation.")
	}

	mode, temperature := r.Sublimation()
	if mode != Fast || temperature != 1600 {
		t.Errorf("Expected (fast, 1600), got (%s, %g).", mode, temperature)
	}
}

func TestDescriptorReference(t *testing.T) {
	obj := struct{ name string }{"custom"}
	r := NewDescriptor(obj)

	if r.Path() != "" {
		t.Errorf("Expected an empty path, got %q.", r.Path())
	}
	if r.Descriptor() == nil {
		t.Errorf("Expected the descriptor to be retained.")
	}
}
