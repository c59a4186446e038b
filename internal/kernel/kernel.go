// Package kernel owns the noise graph: an append-only arena of ir.Node
// values addressed by ir.Index.
//
// Every builder validates its references before appending, so a Kernel can
// only ever hold a DAG. Inputs must name existing nodes (INVALID_REFERENCE)
// and must produce scalars (TYPE_MISMATCH). Nodes are never removed or
// rewritten.
//
// A Kernel has a single writer. Once construction is finished it may be
// read concurrently by any number of executors.
package kernel

import (
	"fmt"
	"io"
	"math"

	"github.com/roach88/noisegraph/internal/ir"
)

// Kernel is an append-only list of nodes.
//
// A fork holds only the nodes appended to it; indices below base resolve
// through parent, so taking and merging a fork never copies the arena.
type Kernel struct {
	nodes []ir.Node

	// parent and base are set on forks: base is the parent's length when
	// the fork was taken. nodes[0] is index base.
	parent *Kernel
	base   int
}

// New returns an empty kernel.
func New() *Kernel {
	return &Kernel{}
}

// Len returns the number of nodes.
func (k *Kernel) Len() int {
	return k.base + len(k.nodes)
}

// Node returns the node at i.
func (k *Kernel) Node(i ir.Index) (ir.Node, bool) {
	if int(i) >= k.Len() {
		return nil, false
	}
	return k.at(i), true
}

// at resolves an index known to be in range, walking up through parents.
func (k *Kernel) at(i ir.Index) ir.Node {
	for int(i) < k.base {
		k = k.parent
	}
	return k.nodes[int(i)-k.base]
}

// Nodes returns a read-only view of the node list. The returned slice has
// its capacity clipped, so appends by the caller never reach the kernel.
// On a fork the view is a copy that includes the parent's prefix.
func (k *Kernel) Nodes() []ir.Node {
	if k.parent == nil {
		return k.nodes[:len(k.nodes):len(k.nodes)]
	}
	out := make([]ir.Node, 0, k.Len())
	out = append(out, k.parent.Nodes()[:k.base]...)
	return append(out, k.nodes...)
}

// LastIndex returns the most recently appended index.
// ok is false on an empty kernel.
func (k *Kernel) LastIndex() (idx ir.Index, ok bool) {
	if k.Len() == 0 {
		return 0, false
	}
	return ir.Index(k.Len() - 1), true
}

// push validates n against the current node list and appends it.
func (k *Kernel) push(n ir.Node) (ir.Index, error) {
	if k.Len() >= math.MaxUint32 {
		return 0, fmt.Errorf("kernel full: %d nodes", k.Len())
	}
	next := ir.Index(k.Len())
	for _, in := range n.Inputs() {
		if in >= next {
			return 0, ir.NewInvalidReference(in, "%s references node %d, kernel has %d nodes", n.Op(), in, k.Len())
		}
		if got := k.at(in).Produces(); got != ir.Scalar {
			return 0, ir.NewTypeMismatch(in, ir.Scalar, got)
		}
	}
	k.nodes = append(k.nodes, n)
	return next, nil
}

// mustPush appends a node that has no inputs and cannot fail.
func (k *Kernel) mustPush(n ir.Node) ir.Index {
	idx, err := k.push(n)
	if err != nil {
		panic(err)
	}
	return idx
}

// Fork returns a kernel that shares this kernel's nodes and appends
// privately. Nothing built on the fork is visible here until Merge.
func (k *Kernel) Fork() *Kernel {
	return &Kernel{
		parent: k,
		base:   k.Len(),
	}
}

// Merge commits the nodes appended to fork. It fails with
// CONCURRENT_MUTATION if this kernel grew after the fork was taken, and
// leaves this kernel unchanged in that case.
func (k *Kernel) Merge(fork *Kernel) error {
	if fork.parent != k {
		return &ir.Error{Code: ir.ErrCodeConcurrentMutation, Message: "fork was not taken from this kernel"}
	}
	if k.Len() != fork.base {
		return &ir.Error{
			Code:    ir.ErrCodeConcurrentMutation,
			Message: fmt.Sprintf("kernel grew from %d to %d nodes since fork", fork.base, k.Len()),
		}
	}
	k.nodes = append(k.nodes, fork.nodes...)
	fork.parent = nil
	fork.nodes = nil
	return nil
}

// Dump writes one line per node: the index, a tab and the node's canonical
// rendering. The listing is stable across runs.
func (k *Kernel) Dump(w io.Writer) error {
	for i, n := range k.Nodes() {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", i, ir.CanonicalLine(n)); err != nil {
			return err
		}
	}
	return nil
}

// Digest returns the content digest of the subgraph root depends on.
func (k *Kernel) Digest(root ir.Index) (string, error) {
	if int(root) >= k.Len() {
		return "", ir.NewInvalidReference(root, "digest of node %d, kernel has %d nodes", root, k.Len())
	}
	return ir.GraphDigest(k.Nodes(), root), nil
}
