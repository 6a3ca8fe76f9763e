// Package transform implements the stream preprocessing steps that sit
// between the raw symbol stream and the entropy-coding layer: equality
// coding, match (LZ77-style) coding, run-length coding, frequency-sorted
// LUT remapping, and difference coding. Each transform is reversible and
// operates on plain []uint64 symbol slices, ported from the original
// gabac equality_coding.cpp / match_coding.cpp / rle_coding.cpp /
// lut_transform.cpp / diff_coding.cpp.
package transform

// EqualityEncode splits symbols into a flag stream (1 where a symbol
// repeats the previous distinct symbol, 0 otherwise) and a values stream
// holding one entry per non-repeating symbol. A value strictly greater
// than the running previous symbol is stored decremented by one, since it
// can never equal it (that case would have set the flag instead) -- this
// matches the original's space-saving encoding.
func EqualityEncode(symbols []uint64) (flags []uint64, values []uint64) {
	flags = make([]uint64, len(symbols))
	var previous uint64
	for i, symbol := range symbols {
		if symbol == previous {
			flags[i] = 1
			continue
		}
		flags[i] = 0
		if symbol > previous {
			values = append(values, symbol-1)
		} else {
			values = append(values, symbol)
		}
		previous = symbol
	}
	return flags, values
}

// EqualityDecode reverses EqualityEncode.
func EqualityDecode(flags []uint64, values []uint64) []uint64 {
	symbols := make([]uint64, len(flags))
	var previous uint64
	vi := 0
	for i, flag := range flags {
		if flag == 0 {
			val := values[vi]
			vi++
			if val >= previous {
				previous = val + 1
			} else {
				previous = val
			}
		}
		symbols[i] = previous
	}
	return symbols
}
