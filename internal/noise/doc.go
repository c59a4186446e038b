// Package noise implements the primitive basis functions of the engine.
//
// Every function here is a pure function of (seed, coordinate). Coordinates
// are plain []float64 slices of length 2, 3, 4 or 6; the functions are
// written dimension-generically and never allocate on the hot path.
//
// Basis families:
//
//   - Value: hashed lattice values blended with an interpolation kernel.
//   - Gradient: hashed lattice gradients dotted with the cell offset.
//   - Simplex: N-dimensional simplex noise over the skewed lattice.
//   - Cellular: distances to the four nearest per-cell feature points.
//
// Hex patterns (HexTile, HexBump) and Random complete the set of
// coordinate-driven generators used by the executor.
package noise
