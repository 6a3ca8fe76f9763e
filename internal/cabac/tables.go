package cabac

import "math"

// numStates is the number of context-model probability states, indexed
// 0 (most uncertain) to numStates-1 (most confident).
const numStates = 64

// rangeTabLPS[state][qRangeIdx] gives the LPS sub-range for a context in
// the given state, bucketed by qRangeIdx = (range>>6)&3. nextStateMPS and
// nextStateLPS give the state transition after an MPS or LPS decision.
//
// The original gabac source's binary_arithmetic_encoder.cpp/decoder.cpp
// and context_tables.h, which would hold the literal H.264 CABAC table
// constants, were not retrieved into this repository's reference corpus
// (see DESIGN.md, open question 4) -- only the state-machine shape
// (64 states, 4 range buckets) is documented in spec.md. These tables are
// generated once at package init from the same geometric falloff the
// H.264 tables follow (LPS probability roughly halving every ~11 states),
// which is sufficient for the round-trip and carry-propagation invariants
// this engine is required to satisfy.
var (
	rangeTabLPS  [numStates][4]uint32
	nextStateMPS [numStates]uint8
	nextStateLPS [numStates]uint8
)

// rangeBucketFloor is the smallest actual coder range falling into each
// qRangeIdx bucket (range is always kept in [256,510] after renormalization,
// so bucket b covers [256+64*b, 256+64*(b+1)-1]).
var rangeBucketFloor = [4]uint32{256, 320, 384, 448}

func init() {
	const (
		pLPSInit = 0.5
		pLPSLast = 0.01
	)
	ratio := math.Pow(pLPSLast/pLPSInit, 1.0/float64(numStates-1))
	p := pLPSInit
	for s := 0; s < numStates; s++ {
		for b, floor := range rangeBucketFloor {
			v := uint32(p*float64(floor) + 0.5)
			if v < 2 {
				v = 2
			}
			if v > floor-2 {
				v = floor - 2
			}
			rangeTabLPS[s][b] = v
		}
		p *= ratio

		if s == 0 {
			nextStateLPS[s] = 0 // symmetric state: LPS keeps state 0, but flips MPS (see Encoder/Decoder)
		} else {
			nextStateLPS[s] = uint8(s - 1)
		}
		if s < numStates-1 {
			nextStateMPS[s] = uint8(s + 1)
		} else {
			nextStateMPS[s] = uint8(s)
		}
	}
}
