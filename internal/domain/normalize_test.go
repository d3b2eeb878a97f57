package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bûcheron", "bucheron"},
		{"bucheron", "bucheron"},
		{"  PÊCHEUR  ", "pecheur"},
		{"Pécheur", "pecheur"},
		{"Façonneur", "faconneur"},
		{"joaillomage", "joaillomage"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Bûcheron", "PÊCHEUR", " Façonneur ", "alchimiste", "Cordomage"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_VariantsCollapse(t *testing.T) {
	variants := []string{"Bûcheron", "bûcheron", "BUCHERON", " bucheron "}
	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := Normalize(v); got != want {
			t.Errorf("expected %q and %q to normalize identically, got %q vs %q", variants[0], v, want, got)
		}
	}
}
