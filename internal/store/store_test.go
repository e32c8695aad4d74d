package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"lifdb/internal/atoms"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Connect(filepath.Join(t.TempDir(), "LiF.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRow(t *testing.T) *Row {
	t.Helper()
	a, err := atoms.FromSymbols(
		[]string{"Li", "F"},
		[][3]float64{{0, 0, 0}, {2.03, 2.03, 2.03}},
		[3][3]float64{{4.06, 0, 0}, {0, 4.06, 0}, {0, 0, 4.06}},
		[3]bool{true, true, true},
	)
	if err != nil {
		t.Fatal(err)
	}
	energy := -19.209
	stress := [6]float64{-0.01, -0.01, -0.01, 0, 0, 0}
	return &Row{
		User:       "Paolo De Angelis",
		Atoms:      a,
		Calculator: "ams/band",
		CalculatorParameters: map[string]any{
			"input": map[string]any{"band": map[string]any{"basis": map[string]any{"type": "TZP"}}},
		},
		Energy: &energy,
		Forces: [][3]float64{{0, 0, 0.01}, {0, 0, -0.01}},
		Stress: &stress,
		KeyValuePairs: map[string]any{
			"name":        "LiF_Fm-3m_-3.0",
			"subset_name": "unit cell",
			"task":        "geometry optimization",
			"used_in":     "training",
			"success":     true,
			"band_gap":    8.756982177442497,
		},
		Data: map[string]any{
			"DOS": map[string]any{
				"Energy [eV]":      []any{-1.0, 0.0, 1.0},
				"Total DOS [1/eV]": []any{0.1, 0.2, 0.1},
			},
		},
	}
}

func TestWriteAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	row := testRow(t)

	id, err := s.Write(row)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if row.UniqueID == "" {
		t.Error("Write did not assign a unique id")
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(row.Atoms, got.Atoms); diff != "" {
		t.Errorf("atoms mismatch (-want +got):\n%s", diff)
	}
	if got.Energy == nil || *got.Energy != *row.Energy {
		t.Errorf("energy = %v, want %v", got.Energy, row.Energy)
	}
	if diff := cmp.Diff(row.Forces, got.Forces); diff != "" {
		t.Errorf("forces mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(row.Stress, got.Stress); diff != "" {
		t.Errorf("stress mismatch (-want +got):\n%s", diff)
	}
	if got.StringKey("subset_name") != "unit cell" {
		t.Errorf("subset_name = %q", got.StringKey("subset_name"))
	}
	if got.Key("success") != true {
		t.Errorf("success = %v, want true", got.Key("success"))
	}
	if got.User != row.User {
		t.Errorf("user = %q, want %q", got.User, row.User)
	}
	if got.Formula() != "LiF" {
		t.Errorf("formula = %q, want LiF", got.Formula())
	}
	dos, ok := got.Data["DOS"].(map[string]any)
	if !ok {
		t.Fatalf("DOS data missing: %v", got.Data)
	}
	if _, ok := dos["Energy [eV]"]; !ok {
		t.Error("DOS energies missing")
	}
}

func TestWriteAssignsDistinctUniqueIDs(t *testing.T) {
	s := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		row := testRow(t)
		if _, err := s.Write(row); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if seen[row.UniqueID] {
			t.Fatalf("duplicate unique id %q", row.UniqueID)
		}
		seen[row.UniqueID] = true
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 5 {
		t.Errorf("Count = %d, want 5", n)
	}
}

func TestNullColumnsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	a, err := atoms.FromSymbols([]string{"Li", "F"}, make([][3]float64, 2), [3][3]float64{}, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	// Initial configuration: no calculation results at all.
	row := &Row{
		User:  "Paolo De Angelis",
		Atoms: a,
		KeyValuePairs: map[string]any{
			"task":    "initial configuration",
			"used_in": "none",
		},
	}
	id, err := s.Write(row)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Energy != nil || got.FreeEnergy != nil || got.Stress != nil || got.Magmom != nil {
		t.Error("absent results must stay nil after round trip")
	}
	if len(got.Forces) != 0 {
		t.Errorf("forces = %v, want none", got.Forces)
	}
	if got.Calculator != "" {
		t.Errorf("calculator = %q, want empty", got.Calculator)
	}
	if _, ok := got.KeyValuePairs["energy"]; ok {
		t.Error("no sentinel keys expected")
	}

	// Absent JSON columns must be SQL NULL, not the text "null".
	var dataNull, paramsNull bool
	err = s.DB().QueryRow(
		"SELECT data IS NULL, calculator_parameters IS NULL FROM systems WHERE id = ?", id,
	).Scan(&dataNull, &paramsNull)
	if err != nil {
		t.Fatalf("query null columns: %v", err)
	}
	if !dataNull || !paramsNull {
		t.Errorf("data NULL = %v, calculator_parameters NULL = %v, want both true", dataNull, paramsNull)
	}
}

func TestSelectByKey(t *testing.T) {
	s := newTestStore(t)

	for i, subset := range []string{"unit cell", "unit cell", "vacancy defects"} {
		row := testRow(t)
		row.KeyValuePairs["subset_name"] = subset
		if i == 2 {
			row.User = "someone else"
		}
		if _, err := s.Write(row); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	rows, err := s.Select(Selection{Keys: map[string]string{"subset_name": "unit cell"}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Select returned %d rows, want 2", len(rows))
	}
	if rows[0].ID >= rows[1].ID {
		t.Error("rows not ordered by id")
	}

	rows, err = s.Select(Selection{User: "someone else"})
	if err != nil {
		t.Fatalf("Select by user: %v", err)
	}
	if len(rows) != 1 || rows[0].StringKey("subset_name") != "vacancy defects" {
		t.Errorf("unexpected rows for user selection: %v", rows)
	}

	rows, err = s.Select(Selection{MaxID: 2})
	if err != nil {
		t.Fatalf("Select by id bound: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("MaxID=2 returned %d rows, want 1", len(rows))
	}
}

func TestUniqueValues(t *testing.T) {
	s := newTestStore(t)

	subsets := []string{"unit cell", "vacancy defects", "unit cell", "slab"}
	users := []string{"Paolo De Angelis", "Paolo De Angelis", "someone else", "someone else"}
	for i := range subsets {
		row := testRow(t)
		row.User = users[i]
		row.KeyValuePairs["subset_name"] = subsets[i]
		if _, err := s.Write(row); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	got, err := s.UniqueValues("subset_name")
	if err != nil {
		t.Fatalf("UniqueValues: %v", err)
	}
	want := []string{"slab", "unit cell", "vacancy defects"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subset_name values (-want +got):\n%s", diff)
	}

	got, err = s.UniqueValues("user")
	if err != nil {
		t.Fatalf("UniqueValues(user): %v", err)
	}
	want = []string{"Paolo De Angelis", "someone else"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("user values (-want +got):\n%s", diff)
	}

	got, err = s.UniqueValues("no_such_key")
	if err != nil {
		t.Fatalf("UniqueValues(no_such_key): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unexpected values for unknown key: %v", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LiF.db")
	s, err := Connect(path)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	row := testRow(t)
	if _, err := s.Write(row); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Connect(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	n, err := s2.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count after reopen = %d, want 1", n)
	}
	got, err := s2.Get(row.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.UniqueID != row.UniqueID {
		t.Errorf("unique id changed across reopen: %q != %q", got.UniqueID, row.UniqueID)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Write(testRow(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["systems"] != 1 {
		t.Errorf("systems count = %d, want 1", stats["systems"])
	}
	if stats["species"] != 2 { // Li and F
		t.Errorf("species count = %d, want 2", stats["species"])
	}
	if stats["keys"] != 6 {
		t.Errorf("keys count = %d, want 6", stats["keys"])
	}
}

func TestTimeConversion(t *testing.T) {
	y := YearsSince2000(epoch2000)
	if y != 0 {
		t.Errorf("epoch maps to %v, want 0", y)
	}
	round := TimeFromYears(YearsSince2000(epoch2000.AddDate(23, 5, 12)))
	if d := round.Sub(epoch2000.AddDate(23, 5, 12)); d > 1e6 || d < -1e6 {
		t.Errorf("round trip drifted by %v", d)
	}
}
