// Package snapshot implements the backup/restore manager.
//
// A snapshot is an immutable, timestamp-named directory under the
// backups root containing flat copies of every candidate file (under
// files/), every candidate directory tree (under dirs/), a TOML
// manifest describing what was captured, and a YAML environment
// metadata record. A marker file next to the snapshots always points
// at the newest one.
//
// The manager is constructed from explicit values - candidate
// enumeration, retention policy, filesystem, paths - and never reads
// global state at operation time. Restore is a pure interpreter over
// the manifest: it builds a list of delete/copy operations and hands
// them to the synthfs executor. Paths the manifest never mentions are
// not touched.
//
// Create is fail-fast once the snapshot directory exists: a partial
// snapshot is left in place on error and superseded by the next
// successful run. Prune is best-effort across snapshots.
package snapshot
