package noise

const (
	fnvOffset = 2166136261
	fnvPrime  = 16777619

	// golden is the 32-bit golden-ratio increment used to derive
	// independent streams from one hash.
	golden = 0x9e3779b9
)

// mix is the MurmurHash3 32-bit finalizer.
func mix(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// hashCell hashes a lattice cell together with a seed.
// FNV-1a over the little-endian bytes of each coordinate, then finalized.
func hashCell(seed uint32, cell []int) uint32 {
	h := uint32(fnvOffset)
	h = fnvWord(h, seed)
	for _, c := range cell {
		h = fnvWord(h, uint32(int32(c)))
	}
	return mix(h)
}

func fnvWord(h, w uint32) uint32 {
	for i := 0; i < 4; i++ {
		h ^= w & 0xff
		h *= fnvPrime
		w >>= 8
	}
	return h
}

// stream derives the k-th independent hash from h.
func stream(h uint32, k int) uint32 {
	return mix(h + uint32(k+1)*golden)
}

// unit maps a hash onto [0,1).
func unit(h uint32) float64 {
	return float64(h) / 4294967296.0
}

// signed maps a hash onto [-1,1).
func signed(h uint32) float64 {
	return unit(h)*2 - 1
}

// Random returns a coordinate-independent value in [0,1) picked by seed.
func Random(seed uint32) float64 {
	return unit(mix(seed ^ fnvOffset))
}
