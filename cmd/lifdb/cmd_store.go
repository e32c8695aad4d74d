package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lifdb/internal/ingest"
	"lifdb/internal/sim"
	"lifdb/internal/store"
)

var (
	storeSubset      string
	storeTask        string
	storeUser        string
	storeInitial     bool
	storeUseRuntime  bool
	storeDataset     string
	storeTrainingSet string
)

var storeCmd = &cobra.Command{
	Use:   "store [job-dir...]",
	Short: "Store finished simulation jobs in the dataset",
	Long: `Reads each job directory (results.json, ams.log, input and run
scripts) and appends the simulation as a database row. With --initial the
input configuration is stored as its own row first.

Example:
  lifdb store --subset "unit cell" --task "geometry optimization" jobs/GO-*`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStore,
}

func init() {
	storeCmd.Flags().StringVar(&storeSubset, "subset", "", "subset_name value for the new rows (required)")
	storeCmd.Flags().StringVar(&storeTask, "task", "", "task value for the new rows (required)")
	storeCmd.Flags().StringVar(&storeUser, "user", "", "data point author (default from config, then $USER)")
	storeCmd.Flags().BoolVar(&storeInitial, "initial", false, "also store the input configuration as its own row")
	storeCmd.Flags().BoolVar(&storeUseRuntime, "use-runtime", false, "use the job start time as row creation time")
	storeCmd.Flags().StringVar(&storeDataset, "dataset", "", "full dataset list for used_in tagging")
	storeCmd.Flags().StringVar(&storeTrainingSet, "training-set", "", "training set list for used_in tagging")
	_ = storeCmd.MarkFlagRequired("subset")
	_ = storeCmd.MarkFlagRequired("task")
}

func runStore(cmd *cobra.Command, args []string) error {
	opts := ingest.Options{
		Subset:          storeSubset,
		Task:            storeTask,
		User:            storeUser,
		UseRuntime:      storeUseRuntime,
		AddInitial:      storeInitial,
		DatasetPath:     storeDataset,
		TrainingSetPath: storeTrainingSet,
	}
	if opts.User == "" {
		opts.User = cfg.User
	}
	if opts.DatasetPath == "" {
		opts.DatasetPath = cfg.Dataset.Full
	}
	if opts.TrainingSetPath == "" {
		opts.TrainingSetPath = cfg.Dataset.Training
	}

	// Parse the job directories in parallel; the writes below stay
	// sequential so ids follow the argument order.
	jobs := make([]*sim.Job, len(args))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for i, dir := range args {
		i, dir := i, dir
		g.Go(func() error {
			job, err := sim.LoadJob(dir)
			if err != nil {
				return err
			}
			jobs[i] = job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	st, err := store.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	total := 0
	printer.Plain("%s", ingest.SummaryHeader())
	for _, job := range jobs {
		rows, err := ingest.Add(st, job, opts)
		if err != nil {
			return err
		}
		for _, row := range rows {
			printer.Plain("%s", ingest.SummaryLine(row))
		}
		total += len(rows)
	}

	printer.Success("Stored %d row(s) from %d job(s) in %s", total, len(jobs), cfg.Database)
	return nil
}
