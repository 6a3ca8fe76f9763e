package transform

// DiffEncode replaces each symbol with its signed difference (mod 2^64,
// stored as the wraparound uint64 bit pattern) from the previous symbol.
func DiffEncode(symbols []uint64) []uint64 {
	out := make([]uint64, len(symbols))
	var previous uint64
	for i, symbol := range symbols {
		out[i] = symbol - previous
		previous = symbol
	}
	return out
}

// DiffDecode reverses DiffEncode.
func DiffDecode(diffs []uint64) []uint64 {
	out := make([]uint64, len(diffs))
	var previous uint64
	for i, d := range diffs {
		previous += d
		out[i] = previous
	}
	return out
}
