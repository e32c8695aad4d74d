package sim

import (
	"fmt"
	"sort"

	"lifdb/internal/atoms"
	"lifdb/internal/units"
)

// Results is the result payload of a finished job. The simulation engine
// itself is external; its pipeline exports this payload as results.json
// next to the log file. Energetic quantities arrive in atomic units, the
// same unit system the engine's own result sections use.
type Results struct {
	Success  bool           `json:"success"`
	Engines  []string       `json:"engines"`
	Timings  Timings        `json:"timings"`
	Settings map[string]any `json:"settings,omitempty"`

	Structure      *Structure `json:"structure,omitempty"`
	InputStructure *Structure `json:"input_structure,omitempty"`

	Energy *float64     `json:"energy,omitempty"` // hartree
	Forces [][3]float64 `json:"forces,omitempty"` // hartree/bohr
	Stress *[6]float64  `json:"stress,omitempty"` // hartree/bohr^3, Voigt

	Band    *BandSection    `json:"band_structure,omitempty"`
	DOS     *DOSSection     `json:"dos,omitempty"`
	History *HistorySection `json:"history,omitempty"`
}

// Timings mirrors the engine's timing report.
type Timings struct {
	Elapsed float64 `json:"elapsed"` // wall seconds
	System  float64 `json:"system,omitempty"`
	CPU     float64 `json:"cpu,omitempty"`
}

// Structure is a configuration in the export: symbols with positions in
// angstrom and a row-vector cell.
type Structure struct {
	Symbols   []string      `json:"symbols"`
	Positions [][3]float64  `json:"positions"`
	Cell      [3][3]float64 `json:"cell"`
	PBC       [3]bool       `json:"pbc"`
}

// Atoms converts the structure to the database representation.
func (s *Structure) Atoms() (atoms.Atoms, error) {
	if s == nil {
		return atoms.Atoms{}, fmt.Errorf("no structure in results")
	}
	return atoms.FromSymbols(s.Symbols, s.Positions, s.Cell, s.PBC)
}

// BandSection is the electronic band structure section, in hartree.
type BandSection struct {
	FermiEnergy      float64   `json:"fermi_energy"`
	BandGap          float64   `json:"band_gap"`
	BandsEnergyRange []float64 `json:"bands_energy_range"`
}

// DOSSection is the density of states section, in hartree-based units.
type DOSSection struct {
	Energies []float64 `json:"energies"`
	Total    []float64 `json:"total"`
}

// HistorySection is the geometry optimization history, in atomic units.
type HistorySection struct {
	Energy                 []float64 `json:"energy"`
	MaxGradient            []float64 `json:"max_gradient"`
	RMSGradient            []float64 `json:"rms_gradient"`
	MaxStep                []float64 `json:"max_step"`
	RMSStep                []float64 `json:"rms_step"`
	MaxStressEnergyPerAtom []float64 `json:"max_stress_energy_per_atom"`
}

// BandInfo holds the band edges in eV.
type BandInfo struct {
	FermiEnergy float64
	HOMOEnergy  float64
	LUMOEnergy  float64
	BandGap     float64
}

// BandInfo converts the band section to eV and locates the band edges
// around the Fermi level. The index convention matches the code that
// produced the existing dataset.
func (r *Results) BandInfo() (*BandInfo, error) {
	if r.Band == nil {
		return nil, nil
	}
	if len(r.Band.BandsEnergyRange) < 2 {
		return nil, fmt.Errorf("band structure has %d band energies, need at least 2", len(r.Band.BandsEnergyRange))
	}

	fermi := units.MustConvert(r.Band.FermiEnergy, "au", "eV")
	gap := units.MustConvert(r.Band.BandGap, "au", "eV")

	bands := make([]float64, len(r.Band.BandsEnergyRange))
	for i, e := range r.Band.BandsEnergyRange {
		bands[i] = units.MustConvert(e, "au", "eV")
	}
	sort.Float64s(bands)

	idx := -1
	for i, e := range bands {
		if e < fermi {
			idx = i
		}
	}
	if idx < 0 || idx+1 >= len(bands) {
		return nil, fmt.Errorf("fermi energy %.6f eV outside band energy range", fermi)
	}
	return &BandInfo{
		FermiEnergy: fermi,
		HOMOEnergy:  bands[idx+1],
		LUMOEnergy:  bands[idx],
		BandGap:     gap,
	}, nil
}

// DOSCurves holds the density of states in storage units.
type DOSCurves struct {
	Energies []float64 // eV
	Total    []float64 // 1/eV
}

// DOSCurves converts the DOS section to eV. Returns nil when the job has
// no DOS section.
func (r *Results) DOSCurves() *DOSCurves {
	if r.DOS == nil {
		return nil
	}
	k := units.MustConvert(1, "au", "eV")
	out := &DOSCurves{
		Energies: make([]float64, len(r.DOS.Energies)),
		Total:    make([]float64, len(r.DOS.Total)),
	}
	for i, e := range r.DOS.Energies {
		out.Energies[i] = e * k
	}
	for i, d := range r.DOS.Total {
		out.Total[i] = d / k
	}
	return out
}

// HistoryCurves holds the optimization history in storage units.
type HistoryCurves struct {
	Energy           []float64 // eV
	MaxForce         []float64 // eV/angstrom
	RMSForce         []float64 // eV/angstrom
	MaxStep          []float64 // angstrom
	RMSStep          []float64 // angstrom
	MaxStressPerAtom []float64 // eV/angstrom^3
}

// HistoryCurves converts the optimization history. Returns nil when the
// job stored no history (single point runs).
func (r *Results) HistoryCurves() *HistoryCurves {
	if r.History == nil || len(r.History.Energy) == 0 {
		return nil
	}
	conv := func(values []float64, from, to string) []float64 {
		if values == nil {
			return nil
		}
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = units.MustConvert(v, from, to)
		}
		return out
	}
	return &HistoryCurves{
		Energy:           conv(r.History.Energy, "au", "eV"),
		MaxForce:         conv(r.History.MaxGradient, "hartree/bohr", "eV/angstrom"),
		RMSForce:         conv(r.History.RMSGradient, "hartree/bohr", "eV/angstrom"),
		MaxStep:          conv(r.History.MaxStep, "bohr", "angstrom"),
		RMSStep:          conv(r.History.RMSStep, "bohr", "angstrom"),
		MaxStressPerAtom: conv(r.History.MaxStressEnergyPerAtom, "hartree/bohr^3", "eV/angstrom^3"),
	}
}
