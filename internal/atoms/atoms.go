// Package atoms holds the in-memory representation of an atomic
// configuration as it is stored in the database: atomic numbers, positions,
// unit cell and periodic boundary conditions, plus the derived quantities
// the systems table keeps alongside them.
package atoms

import (
	"fmt"
	"math"
	"strings"
)

// Atoms is one configuration. Positions are in angstrom, the cell is a
// 3x3 matrix of row vectors in angstrom.
type Atoms struct {
	Numbers   []int
	Positions [][3]float64
	Cell      [3][3]float64
	PBC       [3]bool
}

// FromSymbols builds an Atoms from chemical symbols.
func FromSymbols(syms []string, positions [][3]float64, cell [3][3]float64, pbc [3]bool) (Atoms, error) {
	if len(syms) != len(positions) {
		return Atoms{}, fmt.Errorf("symbol/position length mismatch: %d != %d", len(syms), len(positions))
	}
	numbers := make([]int, len(syms))
	for i, s := range syms {
		z, ok := Number(s)
		if !ok {
			return Atoms{}, fmt.Errorf("unknown chemical symbol %q", s)
		}
		numbers[i] = z
	}
	return Atoms{Numbers: numbers, Positions: positions, Cell: cell, PBC: pbc}, nil
}

// NAtoms returns the number of atoms.
func (a Atoms) NAtoms() int { return len(a.Numbers) }

// Formula returns the chemical formula with elements in order of first
// appearance, counts omitted when one ("LiF", "Li2F2").
func (a Atoms) Formula() string {
	var order []int
	counts := map[int]int{}
	for _, z := range a.Numbers {
		if counts[z] == 0 {
			order = append(order, z)
		}
		counts[z]++
	}
	var b strings.Builder
	for _, z := range order {
		b.WriteString(Symbol(z))
		if counts[z] > 1 {
			fmt.Fprintf(&b, "%d", counts[z])
		}
	}
	return b.String()
}

// SpeciesCounts returns the number of atoms per atomic number.
func (a Atoms) SpeciesCounts() map[int]int {
	counts := make(map[int]int)
	for _, z := range a.Numbers {
		counts[z]++
	}
	return counts
}

// Volume returns the cell volume in angstrom^3, 0 when no cell is set.
func (a Atoms) Volume() float64 {
	c := a.Cell
	det := c[0][0]*(c[1][1]*c[2][2]-c[1][2]*c[2][1]) -
		c[0][1]*(c[1][0]*c[2][2]-c[1][2]*c[2][0]) +
		c[0][2]*(c[1][0]*c[2][1]-c[1][1]*c[2][0])
	return math.Abs(det)
}

// Mass returns the total mass in amu.
func (a Atoms) Mass() float64 {
	var m float64
	for _, z := range a.Numbers {
		m += MassOf(z)
	}
	return m
}

// PBCBits packs the periodic boundary flags into the integer encoding the
// database uses (x=1, y=2, z=4).
func (a Atoms) PBCBits() int {
	bits := 0
	for i, on := range a.PBC {
		if on {
			bits |= 1 << i
		}
	}
	return bits
}

// PBCFromBits is the inverse of PBCBits.
func PBCFromBits(bits int) [3]bool {
	var pbc [3]bool
	for i := range pbc {
		pbc[i] = bits&(1<<i) != 0
	}
	return pbc
}
