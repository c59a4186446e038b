// Package harness runs scene files and checks their outputs.
//
// A run compiles the scene's bindings into a fresh session, renders every
// raster, evaluates every probe, and collects the results with their
// content digests. Failed probes and digest mismatches are recorded on the
// Result rather than returned as errors, so one run reports every problem.
//
// # Digests
//
// Each render reports two digests:
//   - graph: the canonical digest of the subgraph the root depends on
//   - raster: the digest of the packed pixels and their layout
//
// Both are deterministic across runs, machines and worker counts, which
// makes them suitable for golden comparison.
//
// # Golden Snapshots
//
// Snapshot renders a Result as stable text (no timings, no paths).
// RunWithGolden compares it against testdata/golden/<scene>.golden:
//
//	go test ./internal/harness -update
//
// regenerates the golden files.
//
// # Catalog
//
// When a store is attached with WithStore, every render is recorded in the
// render catalog.
package harness
