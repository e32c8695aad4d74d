// Package units converts between the atomic units used in AMS result files
// and the eV/angstrom units stored in the database.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// CODATA 2018 recommended values.
const (
	HartreeToEV    = 27.211386245988
	BohrToAngstrom = 0.529177210903
)

// aliases maps the unit spellings found in AMS files to canonical names.
var aliases = map[string]string{
	"au":       "hartree",
	"a.u.":     "hartree",
	"ha":       "hartree",
	"hartree":  "hartree",
	"ev":       "eV",
	"bohr":     "bohr",
	"a":        "angstrom",
	"ang":      "angstrom",
	"angstrom": "angstrom",
}

// factors expresses every canonical unit in the storage base
// (energies in eV, lengths in angstrom).
var factors = map[string]float64{
	"hartree":  HartreeToEV,
	"eV":       1.0,
	"bohr":     BohrToAngstrom,
	"angstrom": 1.0,
}

// Convert converts v from one unit to another. Composite units of the form
// "num/den" or "num/den^p" are supported, e.g. "hartree/bohr^3" to
// "eV/angstrom^3". Both sides must reduce to the same dimension.
func Convert(v float64, from, to string) (float64, error) {
	ff, err := factor(from)
	if err != nil {
		return 0, err
	}
	ft, err := factor(to)
	if err != nil {
		return 0, err
	}
	return v * ff / ft, nil
}

// MustConvert is Convert for unit pairs known at compile time.
func MustConvert(v float64, from, to string) float64 {
	out, err := Convert(v, from, to)
	if err != nil {
		panic(err)
	}
	return out
}

func factor(unit string) (float64, error) {
	num, den, found := strings.Cut(unit, "/")
	f, err := simpleFactor(num)
	if err != nil {
		return 0, fmt.Errorf("unit %q: %w", unit, err)
	}
	if !found {
		return f, nil
	}
	base, pow, err := splitPower(den)
	if err != nil {
		return 0, fmt.Errorf("unit %q: %w", unit, err)
	}
	df, err := simpleFactor(base)
	if err != nil {
		return 0, fmt.Errorf("unit %q: %w", unit, err)
	}
	for i := 0; i < pow; i++ {
		f /= df
	}
	return f, nil
}

func simpleFactor(unit string) (float64, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	return factors[canonical], nil
}

func splitPower(unit string) (string, int, error) {
	base, exp, found := strings.Cut(unit, "^")
	if !found {
		return base, 1, nil
	}
	p, err := strconv.Atoi(exp)
	if err != nil || p < 1 {
		return "", 0, fmt.Errorf("bad exponent %q", exp)
	}
	return base, p, nil
}
