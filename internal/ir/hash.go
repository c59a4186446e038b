package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainGraph  = "noisegraph/graph/v1"
	DomainRaster = "noisegraph/raster/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GraphDigest computes the content digest of the subgraph a root depends on.
//
// Only nodes reachable from root contribute. They are numbered densely in
// index order and every input is written as that local number, so the
// digest depends on the subgraph's shape and never on where it sits in the
// kernel. Two kernels that differ only in unrelated nodes give the same
// digest for the same root, as does the same expression compiled twice.
func GraphDigest(nodes []Node, root Index) string {
	if int(root) >= len(nodes) {
		return hashWithDomain(DomainGraph)
	}

	reachable := make([]bool, root+1)
	reachable[root] = true
	// Inputs always precede their consumer, so one backward sweep suffices.
	for i := int(root); i >= 0; i-- {
		if !reachable[i] {
			continue
		}
		for _, in := range nodes[i].Inputs() {
			if int(in) < len(reachable) {
				reachable[in] = true
			}
		}
	}

	local := make(map[Index]int)
	for i, ok := range reachable {
		if ok {
			local[Index(i)] = len(local)
		}
	}

	parts := make([][]byte, 0, 2*len(local))
	for i, ok := range reachable {
		if !ok {
			continue
		}
		parts = append(parts,
			[]byte(strconv.Itoa(local[Index(i)])+":"),
			[]byte(canonicalLine(nodes[i], local)+"\n"),
		)
	}
	return hashWithDomain(DomainGraph, parts...)
}

// RasterDigest computes the content digest of encoded raster bytes together
// with the describing header (dimensions and format).
func RasterDigest(header string, pix []byte) string {
	return hashWithDomain(DomainRaster, []byte(header), []byte{0x00}, pix)
}
