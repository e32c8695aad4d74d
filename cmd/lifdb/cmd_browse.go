package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"lifdb/internal/ingest"
	"lifdb/internal/store"
)

var (
	lsSubset string
	lsTask   string
	lsUser   string
	lsLimit  int
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List rows of the dataset",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one row in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-table row counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	lsCmd.Flags().StringVar(&lsSubset, "subset", "", "filter by subset_name")
	lsCmd.Flags().StringVar(&lsTask, "task", "", "filter by task")
	lsCmd.Flags().StringVar(&lsUser, "user", "", "filter by user")
	lsCmd.Flags().IntVar(&lsLimit, "limit", 0, "maximum number of rows (0 = all)")
}

func runLs(cmd *cobra.Command, args []string) error {
	st, err := store.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	sel := store.Selection{User: lsUser, Limit: lsLimit}
	keys := map[string]string{}
	if lsSubset != "" {
		keys["subset_name"] = lsSubset
	}
	if lsTask != "" {
		keys["task"] = lsTask
	}
	if len(keys) > 0 {
		sel.Keys = keys
	}

	rows, err := st.Select(sel)
	if err != nil {
		return err
	}

	printer.Plain("%s", ingest.SummaryHeader())
	for _, row := range rows {
		printer.Plain("%s", ingest.SummaryLine(row))
	}
	printer.Info("%d row(s)", len(rows))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	st, err := store.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	row, err := st.Get(id)
	if err != nil {
		return err
	}

	printer.Plain("id:         %d", row.ID)
	printer.Plain("unique_id:  %s", row.UniqueID)
	printer.Plain("formula:    %s", row.Formula())
	printer.Plain("natoms:     %d", row.Atoms.NAtoms())
	printer.Plain("user:       %s", row.User)
	printer.Plain("created:    %s", store.TimeFromYears(row.Ctime).Format("2006-01-02 15:04:05"))
	if row.Calculator != "" {
		printer.Plain("calculator: %s", row.Calculator)
	}
	if row.Energy != nil {
		printer.Plain("energy:     %.6f eV", *row.Energy)
	}
	if len(row.Forces) > 0 {
		printer.Plain("forces:     %d vectors", len(row.Forces))
	}
	if row.Stress != nil {
		printer.Plain("stress:     %v eV/A^3", *row.Stress)
	}

	if len(row.KeyValuePairs) > 0 {
		printer.Plain("key-value pairs:")
		keys := make([]string, 0, len(row.KeyValuePairs))
		for k := range row.KeyValuePairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := row.KeyValuePairs[k]
			if s, ok := v.(string); ok && len(s) > 60 {
				v = s[:60] + "..."
			}
			printer.Plain("    %-14s %v", k, v)
		}
	}
	if len(row.Data) > 0 {
		names := make([]string, 0, len(row.Data))
		for k := range row.Data {
			names = append(names, k)
		}
		sort.Strings(names)
		printer.Plain("data:       %v", names)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := store.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats()
	if err != nil {
		return err
	}
	tables := make([]string, 0, len(stats))
	for t := range stats {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	printer.Plain("%s", cfg.Database)
	for _, t := range tables {
		printer.Plain("    %-20s %d", t, stats[t])
	}
	return nil
}
