// Package types defines the shared data types and interfaces used across the
// Karabo pipeline packages.
//
// It is a leaf package: it depends only on the standard library and small
// hashing utilities, which allows the partition, dispatch, and telescope
// packages to share types without import cycles, while the root karabo
// package re-exports the most common ones for convenience.
package types
