package transform

// MatchEncode performs LZ77-style match finding over symbols using a
// lookback window of windowSize: at each position it greedily extends the
// longest match found against any earlier position within the window, and
// a match of length 2 or more is replaced by a (pointer, length) pair
// referencing how many symbols back it starts. Runs shorter than 2 are
// passed through as raw values with a zero length marker. windowSize == 0
// disables matching entirely (every symbol becomes a zero-length raw
// value), matching the original's degenerate case.
func MatchEncode(windowSize int, symbols []uint64) (rawValues []uint64, pointers []uint64, lengths []uint64) {
	n := len(symbols)
	if windowSize == 0 {
		lengths = make([]uint64, n)
		rawValues = append([]uint64(nil), symbols...)
		return rawValues, nil, lengths
	}

	for i := 0; i < n; {
		var bestPointer, bestLength int
		windowStart := i - windowSize
		if windowStart < 0 {
			windowStart = 0
		}
		for w := windowStart; w < i; w++ {
			offset := 0
			for i+offset < n && symbols[i+offset] == symbols[w+offset] {
				offset++
			}
			if offset >= bestLength {
				bestLength = offset
				bestPointer = w
			}
		}
		if bestLength < 2 {
			lengths = append(lengths, 0)
			rawValues = append(rawValues, symbols[i])
			i++
		} else {
			pointers = append(pointers, uint64(i-bestPointer))
			lengths = append(lengths, uint64(bestLength))
			i += bestLength
		}
	}
	return rawValues, pointers, lengths
}

// MatchDecode reverses MatchEncode.
func MatchDecode(rawValues []uint64, pointers []uint64, lengths []uint64) []uint64 {
	symbols := make([]uint64, 0, len(lengths))
	rvIdx, ptrIdx := 0, 0
	for _, length := range lengths {
		if length == 0 {
			symbols = append(symbols, rawValues[rvIdx])
			rvIdx++
			continue
		}
		pointer := pointers[ptrIdx]
		ptrIdx++
		n := uint64(len(symbols))
		for l := uint64(0); l < length; l++ {
			symbols = append(symbols, symbols[n-pointer])
			n++
		}
	}
	return symbols
}
