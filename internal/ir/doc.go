// Package ir provides the node model for noisegraph.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the node model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Node is a sealed interface: one struct per operation kind, each
//     carrying only the fields it needs
//   - Nodes reference each other by Index, never by pointer
//   - Every input Index of a node is strictly less than the node's own Index
//   - Enumerations (interpolation, distance, basis, easing) are closed sets
package ir
