// Package ingest converts finished simulation jobs into database rows.
// This is the only place that knows how result fields map onto row
// columns and key-value pairs; unavailable results are left out of the
// row instead of being written as zero sentinels.
package ingest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"lifdb/internal/logging"
	"lifdb/internal/sim"
	"lifdb/internal/store"
	"lifdb/internal/units"
)

// Options controls how a job is turned into rows.
type Options struct {
	Subset string // subset_name key, mandatory
	Task   string // task key, mandatory for simulation rows
	User   string // data point author; $USER when empty

	// UseRuntime stores the job's start time as the row creation time.
	// Without it (or without a parsed runtime) the wall clock is used.
	UseRuntime bool

	// AddInitial also stores the input configuration as its own row.
	AddInitial bool

	// Dataset list files for the used_in key; both must be set to tag
	// membership, otherwise used_in is "none".
	DatasetPath     string
	TrainingSetPath string
}

func (o Options) user() string {
	if o.User != "" {
		return o.User
	}
	return os.Getenv("USER")
}

func (o Options) usedIn(jobName string) (string, error) {
	if o.DatasetPath == "" || o.TrainingSetPath == "" {
		return sim.UsedInNone, nil
	}
	return sim.UsedIn(jobName, o.DatasetPath, o.TrainingSetPath)
}

// ShortName strips the leading index segment of a job name:
// "2-LiF_Pm-3m_-2.89" becomes "LiF_Pm-3m_-2.89".
func ShortName(jobName string) string {
	if _, rest, found := strings.Cut(jobName, "-"); found {
		return rest
	}
	return jobName
}

func ctime(job *sim.Job, opts Options) float64 {
	if t, ok := job.Runtime(); ok && opts.UseRuntime {
		return store.YearsSince2000(t)
	}
	return store.NowYears()
}

// BuildSimRow builds the row for a finished simulation.
func BuildSimRow(job *sim.Job, opts Options) (*store.Row, error) {
	if job.Results == nil {
		return nil, fmt.Errorf("job %s has no results", job.Name)
	}
	a, err := job.Results.Structure.Atoms()
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", job.Name, err)
	}

	usedIn, err := opts.usedIn(job.Name)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", job.Name, err)
	}

	t, ok := job.Runtime()
	row := &store.Row{
		User:                 opts.user(),
		Atoms:                a,
		Calculator:           calculatorName(job.Results.Engines),
		CalculatorParameters: job.Results.Settings,
		Ctime:                ctime(job, opts),
		KeyValuePairs: map[string]any{
			"sim_name":    job.Name,
			"name":        ShortName(job.Name),
			"success":     job.Results.Success,
			"subset_name": opts.Subset,
			"task":        opts.Task,
			"used_in":     usedIn,
			"runtime":     sim.FormatRuntime(t, ok),
			"elapsed":     job.Results.Timings.Elapsed,
		},
	}

	if job.InputScript != "" {
		row.KeyValuePairs["input_script"] = job.InputScript
	}
	if job.RunScript != "" {
		row.KeyValuePairs["run_script"] = job.RunScript
	}
	if sg := job.SpaceGroup(); sg != "" {
		row.KeyValuePairs["space_group"] = sg
	}
	if fn := functional(job.Results); fn != "" {
		row.KeyValuePairs["functional"] = fn
	}

	if job.Results.Energy != nil {
		e := units.MustConvert(*job.Results.Energy, "au", "eV")
		row.Energy = &e
	}
	if len(job.Results.Forces) > 0 {
		k := units.MustConvert(1, "hartree/bohr", "eV/angstrom")
		row.Forces = make([][3]float64, len(job.Results.Forces))
		for i, f := range job.Results.Forces {
			for j := range f {
				row.Forces[i][j] = f[j] * k
			}
		}
	}
	if job.Results.Stress != nil {
		k := units.MustConvert(1, "hartree/bohr^3", "eV/angstrom^3")
		var s [6]float64
		for i, v := range job.Results.Stress {
			s[i] = v * k
		}
		row.Stress = &s
	}

	band, err := job.Results.BandInfo()
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", job.Name, err)
	}
	if band != nil {
		row.KeyValuePairs["fermi_energy"] = band.FermiEnergy
		row.KeyValuePairs["homo_energy"] = band.HOMOEnergy
		row.KeyValuePairs["lumo_energy"] = band.LUMOEnergy
		row.KeyValuePairs["band_gap"] = band.BandGap
	}

	data := map[string]any{}
	if dos := job.Results.DOSCurves(); dos != nil {
		data["DOS"] = map[string]any{
			"Energy [eV]":      dos.Energies,
			"Total DOS [1/eV]": dos.Total,
		}
	}
	if h := job.Results.HistoryCurves(); h != nil {
		data["History"] = map[string]any{
			"Energy [eV]":                  h.Energy,
			"Max force [eV/A]":             h.MaxForce,
			"RMS force [eV/A]":             h.RMSForce,
			"Max step [A]":                 h.MaxStep,
			"RMS step [A]":                 h.RMSStep,
			"Max stress per atom [eV/A^3]": h.MaxStressPerAtom,
		}
	}
	if len(data) > 0 {
		row.Data = data
	}

	return row, nil
}

// BuildInitialRow builds the reduced row storing a job's input
// configuration before any calculation.
func BuildInitialRow(job *sim.Job, opts Options) (*store.Row, error) {
	if job.Results == nil {
		return nil, fmt.Errorf("job %s has no results", job.Name)
	}
	structure := job.Results.InputStructure
	if structure == nil {
		structure = job.Results.Structure
	}
	a, err := structure.Atoms()
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", job.Name, err)
	}

	t, ok := job.Runtime()
	row := &store.Row{
		User:  opts.user(),
		Atoms: a,
		Ctime: ctime(job, opts),
		KeyValuePairs: map[string]any{
			"sim_name":    job.Name,
			"name":        ShortName(job.Name),
			"subset_name": opts.Subset,
			"task":        "initial configuration",
			"used_in":     sim.UsedInNone,
			"runtime":     sim.FormatRuntime(t, ok),
		},
	}
	if sg := job.SpaceGroup(); sg != "" {
		row.KeyValuePairs["space_group"] = sg
	}
	return row, nil
}

// Add stores a job in the database: optionally the initial configuration
// first, then the simulation row. The written rows are returned with
// their ids assigned.
func Add(st *store.Store, job *sim.Job, opts Options) ([]*store.Row, error) {
	var rows []*store.Row

	if opts.AddInitial {
		initial, err := BuildInitialRow(job, opts)
		if err != nil {
			return nil, err
		}
		if _, err := st.Write(initial); err != nil {
			return nil, fmt.Errorf("write initial configuration of %s: %w", job.Name, err)
		}
		rows = append(rows, initial)
	}

	row, err := BuildSimRow(job, opts)
	if err != nil {
		return nil, err
	}
	if _, err := st.Write(row); err != nil {
		return nil, fmt.Errorf("write simulation %s: %w", job.Name, err)
	}
	rows = append(rows, row)

	logging.Get(logging.CategoryIngest).Infof("added job %s as %d row(s)", job.Name, len(rows))
	return rows, nil
}

func calculatorName(engines []string) string {
	return strings.Join(append([]string{"ams"}, engines...), "/")
}

// functional assembles the exchange-correlation description from the
// engine settings, e.g. "GGA/PBE". Settings follow the engine's input
// layout: settings["input"][engine]["xc"] maps functional class to name.
func functional(r *sim.Results) string {
	if len(r.Engines) == 0 {
		return ""
	}
	input, ok := r.Settings["input"].(map[string]any)
	if !ok {
		return ""
	}
	engine, ok := input[r.Engines[0]].(map[string]any)
	if !ok {
		return ""
	}
	xc, ok := engine["xc"].(map[string]any)
	if !ok {
		return ""
	}

	classes := make([]string, 0, len(xc))
	for class := range xc {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	parts := make([]string, 0, len(classes))
	for _, class := range classes {
		if name, ok := xc[class].(string); ok {
			parts = append(parts, class+"/"+name)
		}
	}
	return strings.Join(parts, ", ")
}
