package store

import (
	"math"
	"time"

	"lifdb/internal/atoms"
)

// Timestamps are stored the way the existing files store them: fractional
// years since 2000-01-01 UTC, one year being 31557600 seconds.
const secondsPerYear = 31557600.0

var epoch2000 = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// YearsSince2000 converts a wall-clock time to the stored representation.
func YearsSince2000(t time.Time) float64 {
	return t.Sub(epoch2000).Seconds() / secondsPerYear
}

// NowYears returns the current time in the stored representation.
func NowYears() float64 {
	return YearsSince2000(time.Now().UTC())
}

// TimeFromYears is the inverse of YearsSince2000.
func TimeFromYears(y float64) time.Time {
	return epoch2000.Add(time.Duration(y * secondsPerYear * float64(time.Second)))
}

// Row is one stored configuration. Result fields are pointers or slices so
// an unavailable result stays NULL in the database instead of becoming a
// zero sentinel.
type Row struct {
	ID       int64
	UniqueID string
	Ctime    float64
	Mtime    float64
	User     string

	Atoms atoms.Atoms

	Calculator           string
	CalculatorParameters map[string]any

	Energy     *float64     // eV
	FreeEnergy *float64     // eV
	Forces     [][3]float64 // eV/angstrom
	Stress     *[6]float64  // eV/angstrom^3, Voigt order
	Dipole     *[3]float64
	Magmom     *float64

	// KeyValuePairs holds the searchable scalar keys (subset_name, task,
	// used_in, space_group, band energies, scripts, ...).
	KeyValuePairs map[string]any

	// Data holds the array blobs (DOS, optimization history).
	Data map[string]any
}

// Key returns a key-value pair, or nil when the key is absent.
func (r *Row) Key(key string) any {
	if r.KeyValuePairs == nil {
		return nil
	}
	return r.KeyValuePairs[key]
}

// StringKey returns a key-value pair as a string, "" when absent or not a
// string.
func (r *Row) StringKey(key string) string {
	s, _ := r.Key(key).(string)
	return s
}

// Formula returns the chemical formula of the configuration.
func (r *Row) Formula() string {
	return r.Atoms.Formula()
}

// fmax returns the magnitude of the largest force, or nil without forces.
func (r *Row) fmax() *float64 {
	if len(r.Forces) == 0 {
		return nil
	}
	var worst float64
	for _, f := range r.Forces {
		norm2 := f[0]*f[0] + f[1]*f[1] + f[2]*f[2]
		if norm2 > worst {
			worst = norm2
		}
	}
	v := math.Sqrt(worst)
	return &v
}

// smax returns the largest stress component magnitude, or nil without
// stress.
func (r *Row) smax() *float64 {
	if r.Stress == nil {
		return nil
	}
	var worst float64
	for _, s := range r.Stress {
		if a := math.Abs(s); a > worst {
			worst = a
		}
	}
	return &worst
}
