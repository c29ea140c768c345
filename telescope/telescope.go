package telescope

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anawas/Karabo-Pipeline/types"
)

// positionFile is the station position listing every OSKAR telescope model
// directory must contain.
const positionFile = "position.txt"

// Telescope is an on-disk telescope model snapshot.
//
// The snapshot is identified by its directory path. Loading validates that
// the directory holds the required model state; it does not parse station
// layouts, which are consumed by the simulator directly.
type Telescope struct {
	path string
}

// Load opens the telescope model at path and validates its state.
//
// Campaigns call Load once per observation day so that every day starts from
// the pristine model on disk rather than from state mutated by the previous
// day's run.
//
// Parameters:
//   - path: Telescope model directory (OSKAR .tm layout)
//
// Returns:
//   - *Telescope: The validated snapshot
//   - error: types.ErrTelescopeStateMissing when the directory or its
//     required state files are absent
func Load(path string) (*Telescope, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrTelescopeStateMissing, path)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrTelescopeStateMissing, path)
	}

	if _, err := os.Stat(filepath.Join(path, positionFile)); err != nil {
		return nil, fmt.Errorf("%w: %s lacks %s", types.ErrTelescopeStateMissing, path, positionFile)
	}

	return &Telescope{path: path}, nil
}

// Path returns the telescope model directory.
func (t *Telescope) Path() string {
	return t.path
}

// Reload re-validates the model on disk and returns a fresh snapshot.
//
// Returns:
//   - *Telescope: A new snapshot of the same directory
//   - error: types.ErrTelescopeStateMissing if the state disappeared
func (t *Telescope) Reload() (*Telescope, error) {
	return Load(t.path)
}

// PurgeDerived removes derived beam state (*.bin files) from the model
// directory.
//
// Fitted beam coefficients are written next to the model files and leak into
// subsequent runs if left in place. Purging is idempotent: a directory with
// no derived files is not an error.
//
// Returns:
//   - int: Number of files removed
//   - error: The first removal failure, or a glob error
func (t *Telescope) PurgeDerived() (int, error) {
	matches, err := filepath.Glob(filepath.Join(t.path, "*.bin"))
	if err != nil {
		return 0, fmt.Errorf("list derived beam files: %w", err)
	}

	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return removed, fmt.Errorf("remove derived beam file %s: %w", m, err)
		}
		removed++
	}

	return removed, nil
}

// SettingsSection returns the telescope contribution to a settings tree.
//
// Returns:
//   - types.Section: Keys for the simulator's telescope group
func (t *Telescope) SettingsSection() types.Section {
	return types.Section{
		"input_directory": t.path,
	}
}
