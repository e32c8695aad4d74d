package sim

import (
	"fmt"
	"os"
	"strings"
)

// Dataset membership values stored under the used_in key.
const (
	UsedInTraining = "training"
	UsedInTest     = "test"
	UsedInNone     = "none"
)

// UsedIn reports whether a job belongs to the training set, the test set,
// or neither, by looking the job name up in the dataset list files. A job
// listed in the full dataset but not in the training set is a test point.
func UsedIn(jobName, fullDatasetPath, trainingSetPath string) (string, error) {
	full, err := os.ReadFile(fullDatasetPath)
	if err != nil {
		return "", fmt.Errorf("read full dataset list: %w", err)
	}
	training, err := os.ReadFile(trainingSetPath)
	if err != nil {
		return "", fmt.Errorf("read training set list: %w", err)
	}

	if !strings.Contains(string(full), jobName) {
		return UsedInNone, nil
	}
	if strings.Contains(string(training), jobName) {
		return UsedInTraining, nil
	}
	return UsedInTest, nil
}
