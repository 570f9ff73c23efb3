// Package types defines the core types shared across dotback packages.
//
// It holds the filesystem abstraction, the snapshot and candidate data
// model, and the low-level operation type that restore and prune plans
// are expressed in. Keeping these here avoids import cycles between the
// snapshot manager, the executor, and the CLI layer.
package types
