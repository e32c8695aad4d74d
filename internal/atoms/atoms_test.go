package atoms

import (
	"math"
	"testing"
)

func mustFromSymbols(t *testing.T, syms []string) Atoms {
	t.Helper()
	positions := make([][3]float64, len(syms))
	a, err := FromSymbols(syms, positions, [3][3]float64{}, [3]bool{})
	if err != nil {
		t.Fatalf("FromSymbols(%v): %v", syms, err)
	}
	return a
}

func TestFormula(t *testing.T) {
	tests := []struct {
		name string
		syms []string
		want string
	}{
		{"UnitCell", []string{"Li", "F"}, "LiF"},
		{"Doubled", []string{"Li", "F", "Li", "F"}, "Li2F2"},
		{"Interleaved", []string{"Li", "Li", "F", "F"}, "Li2F2"},
		{"Vacancy", []string{"Li", "F", "F"}, "LiF2"},
		{"Single", []string{"F"}, "F"},
		{"Empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustFromSymbols(t, tt.syms)
			if got := a.Formula(); got != tt.want {
				t.Errorf("Formula() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromSymbolsUnknown(t *testing.T) {
	_, err := FromSymbols([]string{"Qq"}, make([][3]float64, 1), [3][3]float64{}, [3]bool{})
	if err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestSymbolNumberRoundTrip(t *testing.T) {
	for _, sym := range []string{"H", "Li", "F", "Og"} {
		z, ok := Number(sym)
		if !ok {
			t.Fatalf("Number(%q) not found", sym)
		}
		if got := Symbol(z); got != sym {
			t.Errorf("Symbol(%d) = %q, want %q", z, got, sym)
		}
	}
	if _, ok := Number("X"); ok {
		t.Error("placeholder symbol should not resolve")
	}
}

func TestVolume(t *testing.T) {
	a := Atoms{Cell: [3][3]float64{{4.06, 0, 0}, {0, 4.06, 0}, {0, 0, 4.06}}}
	want := 4.06 * 4.06 * 4.06
	if got := a.Volume(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Volume() = %v, want %v", got, want)
	}

	empty := Atoms{}
	if got := empty.Volume(); got != 0 {
		t.Errorf("Volume() of cell-less atoms = %v, want 0", got)
	}
}

func TestMass(t *testing.T) {
	a := mustFromSymbols(t, []string{"Li", "F"})
	want := 6.94 + 18.998403163
	if got := a.Mass(); math.Abs(got-want) > 1e-6 {
		t.Errorf("Mass() = %v, want %v", got, want)
	}
}

func TestSpeciesCounts(t *testing.T) {
	a := mustFromSymbols(t, []string{"Li", "F", "Li", "F", "F"})
	counts := a.SpeciesCounts()
	if counts[3] != 2 || counts[9] != 3 {
		t.Errorf("SpeciesCounts() = %v, want Li:2 F:3", counts)
	}
}

func TestPBCBits(t *testing.T) {
	tests := []struct {
		pbc  [3]bool
		bits int
	}{
		{[3]bool{false, false, false}, 0},
		{[3]bool{true, false, false}, 1},
		{[3]bool{false, true, false}, 2},
		{[3]bool{true, true, true}, 7},
	}
	for _, tt := range tests {
		a := Atoms{PBC: tt.pbc}
		if got := a.PBCBits(); got != tt.bits {
			t.Errorf("PBCBits(%v) = %d, want %d", tt.pbc, got, tt.bits)
		}
		if got := PBCFromBits(tt.bits); got != tt.pbc {
			t.Errorf("PBCFromBits(%d) = %v, want %v", tt.bits, got, tt.pbc)
		}
	}
}
