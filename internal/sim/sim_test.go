package sim

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lifdb/internal/units"
)

func TestReadRuntime(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ams.log")
	line := "<Mar24-2023 10:30:15> AMS 2022.103 RunTime: Mar24-2023\n<Mar24-2023 10:30:15> license check\n"
	if err := os.WriteFile(logPath, []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	got, ok := ReadRuntime(logPath)
	if !ok {
		t.Fatal("expected runtime to parse")
	}
	want := time.Date(2023, time.March, 24, 10, 30, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("runtime = %v, want %v", got, want)
	}
}

func TestReadRuntimeNotStarted(t *testing.T) {
	dir := t.TempDir()

	if _, ok := ReadRuntime(filepath.Join(dir, "ams.log")); ok {
		t.Error("missing log must report no runtime")
	}

	logPath := filepath.Join(dir, "ams.log")
	if err := os.WriteFile(logPath, []byte("no timestamp here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := ReadRuntime(logPath); ok {
		t.Error("log without stamp must report no runtime")
	}
}

func TestFormatRuntime(t *testing.T) {
	stamp := time.Date(2023, time.March, 24, 10, 30, 15, 0, time.UTC)
	if got := FormatRuntime(stamp, true); got != "Fri 24 Mar 2023, 10:30:15" {
		t.Errorf("FormatRuntime = %q", got)
	}
	if got := FormatRuntime(time.Time{}, false); got != "Not Started" {
		t.Errorf("FormatRuntime(not ok) = %q", got)
	}
}

func TestSpaceGroupFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"GO-1.0-2-LiF_Pm-3m_-2.89_2x1x1", "Pm-3m"},
		{"0-LiF_Fm-3m_-3.0", "Fm-3m"},
		{"1-LiF_P6_3mc_-3.1", "P6_3mc"},
		{"SP-2-F_Pm-3m_2.9", "Pm-3m"},
		{"GO-3-Li_Im-3m_-1.9", "Im-3m"},
		{"no space group here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SpaceGroupFromName(tt.name); got != tt.want {
			t.Errorf("SpaceGroupFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBandInfo(t *testing.T) {
	r := &Results{
		Band: &BandSection{
			FermiEnergy:      -0.2765,
			BandGap:          0.3218,
			BandsEnergyRange: []float64{-0.1769, -0.4988}, // deliberately unsorted
		},
	}
	info, err := r.BandInfo()
	if err != nil {
		t.Fatalf("BandInfo: %v", err)
	}
	approx := func(got, wantAU float64) bool {
		return math.Abs(got-units.MustConvert(wantAU, "au", "eV")) < 1e-9
	}
	if !approx(info.FermiEnergy, -0.2765) {
		t.Errorf("fermi = %v", info.FermiEnergy)
	}
	if !approx(info.BandGap, 0.3218) {
		t.Errorf("gap = %v", info.BandGap)
	}
	// The band edge convention matches the code that produced the dataset:
	// the level below the Fermi energy is reported as LUMO.
	if !approx(info.LUMOEnergy, -0.4988) {
		t.Errorf("lumo = %v", info.LUMOEnergy)
	}
	if !approx(info.HOMOEnergy, -0.1769) {
		t.Errorf("homo = %v", info.HOMOEnergy)
	}
}

func TestBandInfoEdgeCases(t *testing.T) {
	var r Results
	if info, err := r.BandInfo(); err != nil || info != nil {
		t.Errorf("no band section: got (%v, %v), want (nil, nil)", info, err)
	}

	r.Band = &BandSection{FermiEnergy: -1.0, BandsEnergyRange: []float64{-0.4, -0.2}}
	if _, err := r.BandInfo(); err == nil {
		t.Error("fermi below all bands must error")
	}

	r.Band = &BandSection{FermiEnergy: 0.0, BandsEnergyRange: []float64{-0.4}}
	if _, err := r.BandInfo(); err == nil {
		t.Error("single band energy must error")
	}
}

func TestDOSCurves(t *testing.T) {
	r := &Results{DOS: &DOSSection{
		Energies: []float64{-0.1, 0, 0.1},
		Total:    []float64{1, 2, 1},
	}}
	dos := r.DOSCurves()
	if dos == nil {
		t.Fatal("expected DOS curves")
	}
	k := units.MustConvert(1, "au", "eV")
	if math.Abs(dos.Energies[0]+0.1*k) > 1e-12 {
		t.Errorf("energies[0] = %v", dos.Energies[0])
	}
	if math.Abs(dos.Total[1]-2/k) > 1e-12 {
		t.Errorf("total[1] = %v", dos.Total[1])
	}

	var empty Results
	if empty.DOSCurves() != nil {
		t.Error("no DOS section must yield nil")
	}
}

func TestHistoryCurves(t *testing.T) {
	r := &Results{History: &HistorySection{
		Energy:      []float64{-7.0, -7.1},
		MaxGradient: []float64{0.02, 0.001},
		RMSGradient: []float64{0.01, 0.0005},
		MaxStep:     []float64{0.3, 0.05},
		RMSStep:     []float64{0.2, 0.02},
	}}
	h := r.HistoryCurves()
	if h == nil {
		t.Fatal("expected history curves")
	}
	if len(h.Energy) != 2 || len(h.MaxForce) != 2 {
		t.Fatalf("unexpected lengths: %+v", h)
	}
	wantForce := units.MustConvert(0.02, "hartree/bohr", "eV/angstrom")
	if math.Abs(h.MaxForce[0]-wantForce) > 1e-12 {
		t.Errorf("max force = %v, want %v", h.MaxForce[0], wantForce)
	}
	if h.MaxStressPerAtom != nil {
		t.Error("absent stress history must stay nil")
	}

	var empty Results
	if empty.HistoryCurves() != nil {
		t.Error("no history section must yield nil")
	}
}

func TestUsedIn(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "fulldataset.yaml")
	training := filepath.Join(dir, "trainingset.yaml")
	writeFile(t, full, "- 0-LiF_Fm-3m_-3.0\n- 1-LiF_P6_3mc_-3.1\n- 2-LiF_Pm-3m_-2.89\n")
	writeFile(t, training, "- 0-LiF_Fm-3m_-3.0\n")

	tests := []struct {
		job  string
		want string
	}{
		{"0-LiF_Fm-3m_-3.0", UsedInTraining},
		{"1-LiF_P6_3mc_-3.1", UsedInTest},
		{"9-LiF_Cmcm_-2.5", UsedInNone},
	}
	for _, tt := range tests {
		got, err := UsedIn(tt.job, full, training)
		if err != nil {
			t.Fatalf("UsedIn(%q): %v", tt.job, err)
		}
		if got != tt.want {
			t.Errorf("UsedIn(%q) = %q, want %q", tt.job, got, tt.want)
		}
	}

	if _, err := UsedIn("x", filepath.Join(dir, "missing.yaml"), training); err == nil {
		t.Error("missing dataset list must error")
	}
}

func TestLoadJob(t *testing.T) {
	dir := t.TempDir()
	jobDir := filepath.Join(dir, "GO-1.0-2-LiF_Pm-3m_-2.89_2x1x1")
	if err := os.Mkdir(jobDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(jobDir, "ams.log"), "<Mar24-2023 10:30:15> AMS job started\n")
	writeFile(t, filepath.Join(jobDir, "ams.in"), "Task GeometryOptimization\n")
	writeFile(t, filepath.Join(jobDir, "ams.run"), "#!/bin/sh\n$AMSBIN/ams < ams.in\n")
	writeFile(t, filepath.Join(jobDir, ResultsFile), `{
		"success": true,
		"engines": ["band"],
		"timings": {"elapsed": 1234.5},
		"energy": -0.706,
		"structure": {
			"symbols": ["Li", "F"],
			"positions": [[0, 0, 0], [2.03, 2.03, 2.03]],
			"cell": [[4.06, 0, 0], [0, 4.06, 0], [0, 0, 4.06]],
			"pbc": [true, true, true]
		}
	}`)

	job, err := LoadJob(jobDir)
	if err != nil {
		t.Fatalf("LoadJob: %v", err)
	}
	if job.Name != "GO-1.0-2-LiF_Pm-3m_-2.89_2x1x1" {
		t.Errorf("name = %q", job.Name)
	}
	if job.SpaceGroup() != "Pm-3m" {
		t.Errorf("space group = %q", job.SpaceGroup())
	}
	if _, ok := job.Runtime(); !ok {
		t.Error("runtime should parse from ams.log")
	}
	if !job.Results.Success {
		t.Error("success should be true")
	}
	if job.Results.Timings.Elapsed != 1234.5 {
		t.Errorf("elapsed = %v", job.Results.Timings.Elapsed)
	}
	if job.InputScript == "" || job.RunScript == "" {
		t.Error("scripts should load from the job directory")
	}
	a, err := job.Results.Structure.Atoms()
	if err != nil {
		t.Fatalf("Atoms: %v", err)
	}
	if a.Formula() != "LiF" {
		t.Errorf("formula = %q", a.Formula())
	}
}

func TestLoadJobMissingResults(t *testing.T) {
	dir := t.TempDir()
	jobDir := filepath.Join(dir, "0-LiF_Fm-3m_-3.0")
	if err := os.Mkdir(jobDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJob(jobDir); err == nil {
		t.Error("job without results.json must error")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
