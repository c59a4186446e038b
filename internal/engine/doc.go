// Package engine implements the noise graph executor.
//
// The executor answers point queries: given a node index and a coordinate
// of 2, 3, 4 or 6 components it computes the node's scalar or color value
// by walking the subgraph below it.
//
// PURITY:
//
// Evaluate is a pure function of (kernel nodes, index, coordinate). All
// randomness comes from seed nodes hashed together with lattice
// coordinates, so repeated queries are bit-identical regardless of call
// order or goroutine.
//
// EVALUATION:
//
// Evaluation is a recursive post-order walk. Each query draws a private
// frame from a sync.Pool; the frame caches every node result together with
// the coordinate and seed override it was computed under. A node shared by
// several consumers at the same coordinate is computed once, while a node
// re-entered under a domain transform or a different seed recomputes.
//
// NUMERIC POLICY:
//
// Division by exact zero never fails: 0/0 is 0 and x/0 is ±MaxFloat64 with
// the sign of x. A NaN quotient is replaced by 0.
//
// CONCURRENCY:
//
// An Executor is safe for concurrent use as long as the kernel is not
// being mutated. Build the whole graph before fanning out queries.
package engine
