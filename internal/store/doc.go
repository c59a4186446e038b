// Package store provides a SQLite-backed catalog of render runs.
//
// Every raster the CLI or a scene run produces can be recorded with the
// digest of the graph that produced it, the digest of its pixels, and the
// mapping parameters. The catalog answers "when did this graph last render
// and did the output change".
//
// # Ordering
//
// Rows carry a logical seq assigned by a Clock that resumes from the
// highest stored value on Open. Every query orders by seq, then id, so
// listings are stable regardless of wall time.
//
// # Identity
//
// Run IDs are UUIDv7 strings by default. Tests inject a FixedGenerator for
// reproducible IDs. Recording an ID twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - Single connection: SQLite allows one writer
package store
