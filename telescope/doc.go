// Package telescope manages on-disk telescope model snapshots.
//
// A telescope model is a directory of station layout and position files in
// the OSKAR telescope-model format. Simulation runs derive additional state
// inside that directory (fitted beam coefficients stored as *.bin files), so
// campaigns that reuse one model across days must load a fresh snapshot and
// purge the derived files before each day begins.
package telescope
