// Package testutil provides shared helpers for dotback tests:
// isolated test environments with their own home and data
// directories, and an in-memory filesystem for tests that never
// need to touch disk.
package testutil
