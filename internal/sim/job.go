// Package sim reads finished simulation jobs from disk: the engine log,
// the input and run scripts, and the exported result payload. Running
// simulations is out of scope; this package only consumes what a finished
// job leaves behind.
package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"lifdb/internal/logging"
)

// ResultsFile is the exported result payload the pipeline writes into
// every finished job directory.
const ResultsFile = "results.json"

// Job is one finished simulation job.
type Job struct {
	Name string
	Path string

	InputScript string
	RunScript   string

	Results *Results

	runtime    time.Time
	hasRuntime bool
}

// LoadJob reads a finished job from its directory.
func LoadJob(dir string) (*Job, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("job directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("job path %s is not a directory", dir)
	}

	job := &Job{
		Name: filepath.Base(filepath.Clean(dir)),
		Path: dir,
	}
	job.runtime, job.hasRuntime = ReadRuntime(filepath.Join(dir, "ams.log"))

	raw, err := os.ReadFile(filepath.Join(dir, ResultsFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ResultsFile, err)
	}
	var results Results
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ResultsFile, err)
	}
	job.Results = &results

	job.InputScript = firstFile(dir, job.Name+".in", "ams.in", "input")
	job.RunScript = firstFile(dir, job.Name+".run", "ams.run", "run")

	logging.Sim("loaded job %s (success=%v, runtime known=%v)", job.Name, results.Success, job.hasRuntime)
	return job, nil
}

// Runtime returns the start time parsed from the engine log. ok is false
// when the job never started or left no log.
func (j *Job) Runtime() (t time.Time, ok bool) {
	return j.runtime, j.hasRuntime
}

// SetRuntime overrides the parsed runtime; used when jobs are constructed
// in memory rather than loaded from disk.
func (j *Job) SetRuntime(t time.Time) {
	j.runtime = t
	j.hasRuntime = true
}

// SpaceGroup extracts the space group symbol from the job name.
func (j *Job) SpaceGroup() string {
	return SpaceGroupFromName(j.Name)
}

func firstFile(dir string, names ...string) string {
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(raw)
		}
	}
	return ""
}
