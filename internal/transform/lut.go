package transform

import "sort"

// LUT0 is an order-0 frequency-sorted remap table: Forward maps a raw
// symbol to its rank (most frequent symbol gets rank 0), Inverse maps a
// rank back to its original symbol.
type LUT0 struct {
	Forward map[uint64]uint64
	Inverse []uint64
}

// BuildLUT0 infers a frequency-sorted remap table from symbols, ranking
// more frequent symbols first and breaking ties by ascending symbol value
// -- a direct port of the original's inferLut0.
func BuildLUT0(symbols []uint64) *LUT0 {
	lut := &LUT0{Forward: make(map[uint64]uint64)}
	if len(symbols) == 0 {
		return lut
	}

	freq := make(map[uint64]uint64, len(symbols))
	for _, s := range symbols {
		freq[s]++
	}

	type entry struct {
		symbol uint64
		count  uint64
	}
	entries := make([]entry, 0, len(freq))
	for s, c := range freq {
		entries = append(entries, entry{s, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].symbol < entries[j].symbol
	})

	lut.Inverse = make([]uint64, len(entries))
	for rank, e := range entries {
		lut.Forward[e.symbol] = uint64(rank)
		lut.Inverse[rank] = e.symbol
	}
	return lut
}

// LUTOrder holds the full set of tables needed for an order-N LUT
// transform: the base order-0 remap plus, for order > 0, one
// frequency-sorted permutation per (history-of-N-ranks) context.
// Supplementing gabac's order-0-only retrieved transform, each context's
// permutation is built the same way BuildLUT0 builds the base table --
// frequent symbols in that context first, ties by ascending rank -- with
// unseen symbols for a given context appended in ascending rank order so
// every context's table remains a total permutation of the alphabet (see
// DESIGN.md: the original's order>0 table-construction source was not
// retrieved, only its lookup-time indexing scheme in
// transformLutTransform_core).
type LUTOrder struct {
	Order   int
	Base    *LUT0
	Table   []uint64 // size len(Base.Inverse)^(Order+1); Table[ctx*K+rank] = transformed rank
	Inverse []uint64 // inverse of Table, same shape
}

// BuildLUTOrder builds the order-0 table plus, for order > 0, the
// context-conditioned permutation tables.
func BuildLUTOrder(order int, symbols []uint64) *LUTOrder {
	base := BuildLUT0(symbols)
	lo := &LUTOrder{Order: order, Base: base}
	if order == 0 || len(symbols) == 0 {
		return lo
	}

	k := len(base.Inverse)
	ranks := make([]int, len(symbols))
	for i, s := range symbols {
		ranks[i] = int(base.Forward[s])
	}

	numContexts := 1
	for i := 0; i < order; i++ {
		numContexts *= k
	}

	counts := make([][]uint64, numContexts)
	for i := range counts {
		counts[i] = make([]uint64, k)
	}

	history := make([]int, order)
	for _, r := range ranks {
		ctx := contextIndex(history, k)
		counts[ctx][r]++
		pushHistory(history, r)
	}

	lo.Table = make([]uint64, numContexts*k)
	lo.Inverse = make([]uint64, numContexts*k)
	for ctx := 0; ctx < numContexts; ctx++ {
		perm := rankByFrequency(counts[ctx])
		for symRank, transformed := range perm {
			lo.Table[ctx*k+symRank] = uint64(transformed)
			lo.Inverse[ctx*k+transformed] = uint64(symRank)
		}
	}
	return lo
}

// rankByFrequency returns, for each index i, the rank assigned to symbol i
// when symbols are ordered by descending count then ascending index.
func rankByFrequency(counts []uint64) []int {
	idx := make([]int, len(counts))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if counts[idx[a]] != counts[idx[b]] {
			return counts[idx[a]] > counts[idx[b]]
		}
		return idx[a] < idx[b]
	})
	rank := make([]int, len(counts))
	for r, symbol := range idx {
		rank[symbol] = r
	}
	return rank
}

func contextIndex(history []int, k int) int {
	idx := 0
	for i := len(history) - 1; i >= 0; i-- {
		idx = idx*k + history[i]
	}
	return idx
}

func pushHistory(history []int, newest int) {
	for i := len(history) - 1; i > 0; i-- {
		history[i] = history[i-1]
	}
	if len(history) > 0 {
		history[0] = newest
	}
}

// LUTEncode applies the order-0 remap (order 0) or the full context-aware
// transform (order > 0) to symbols.
func LUTEncode(lo *LUTOrder, symbols []uint64) []uint64 {
	out := make([]uint64, len(symbols))
	if lo.Order == 0 {
		for i, s := range symbols {
			out[i] = lo.Base.Forward[s]
		}
		return out
	}

	k := len(lo.Base.Inverse)
	history := make([]int, lo.Order)
	for i, s := range symbols {
		rank := int(lo.Base.Forward[s])
		ctx := contextIndex(history, k)
		out[i] = lo.Table[ctx*k+rank]
		pushHistory(history, rank)
	}
	return out
}

// LUTDecode reverses LUTEncode.
func LUTDecode(lo *LUTOrder, transformed []uint64) []uint64 {
	out := make([]uint64, len(transformed))
	if lo.Order == 0 {
		for i, t := range transformed {
			out[i] = lo.Base.Inverse[t]
		}
		return out
	}

	k := len(lo.Base.Inverse)
	history := make([]int, lo.Order)
	for i, t := range transformed {
		ctx := contextIndex(history, k)
		rank := int(lo.Inverse[ctx*k+int(t)])
		out[i] = lo.Base.Inverse[rank]
		pushHistory(history, rank)
	}
	return out
}
