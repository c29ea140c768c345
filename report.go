package karabo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// AppendRunReport appends a one-line run summary to the benchmark report
// file for the given worker and item counts.
//
// The report file is named "output_{workers}_nodes_{items}_items.txt" so
// repeated runs of the same shape accumulate in one file, and each line
// reads "Number of items: {items}. Time taken: {minutes} min.".
//
// Parameters:
//   - dir: Output directory
//   - workers: Worker count the run executed with
//   - items: Total number of dispatched work items
//   - elapsed: Wall-clock run duration
//
// Returns:
//   - error: I/O failure
func AppendRunReport(dir string, workers, items int, elapsed time.Duration) error {
	name := fmt.Sprintf("output_%d_nodes_%d_items.txt", workers, items)
	line := fmt.Sprintf("Number of items: %d. Time taken: %g min.\n", items, roundMinutes(elapsed))

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run report: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}

	return nil
}

// roundMinutes reports the elapsed time in minutes with two-decimal
// precision.
func roundMinutes(elapsed time.Duration) float64 {
	return math.Round(elapsed.Minutes()*100) / 100
}
