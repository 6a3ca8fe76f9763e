package gabac

import (
	"io"

	"github.com/go-gabac/gabac/internal/binarization"
	"github.com/go-gabac/gabac/internal/bio"
	"github.com/go-gabac/gabac/internal/logging"
	"github.com/go-gabac/gabac/internal/metrics"
	"github.com/go-gabac/gabac/internal/transform"
)

// Decode reads an encoded block stream from r, reverses every block's
// sub-stream entropy coding, diff transform, LUT remap and sequence
// transform, and writes the reconstructed raw bytes to w.
func Decode(cfg *Config, r io.Reader, w io.Writer) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	wordSize := bio.WordSize(cfg.WordSize)
	for {
		symbols, err := decodeBlock(cfg, r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		raw := bio.SymbolsToBytes(wordSize, symbols)
		if _, err := w.Write(raw); err != nil {
			return newError(Io, "writing decoded block", err)
		}
		metrics.BlocksDecoded.Inc()
		metrics.Bytes.WithLabelValues("out").Add(float64(len(raw)))
		logging.L().Debug("block_decoded", "symbols", len(symbols))
	}
}

// decodeBlock reads and reverses one block's sub-streams, then reverses the
// block's top-level sequence transform. A clean io.EOF on the very first
// length prefix of the block (no sub-stream bytes read at all) signals the
// end of the stream; any other short read mid-block is a Truncated error.
func decodeBlock(cfg *Config, r io.Reader) ([]uint64, error) {
	n := cfg.SequenceTransformationID.numSubstreams()
	decodedSeqs := make([][]uint64, n)
	for i := 0; i < n; i++ {
		tsc := &cfg.TransformedSequenceConfigs[i]
		seq, err := decodeSingleSequence(r, tsc, i == 0)
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		decodedSeqs[i] = seq
	}
	return joinSequence(cfg, decodedSeqs), nil
}

// decodeSingleSequence reverses one sub-stream's wire representation: the
// optional LUT table(s), the main entropy-coded payload, then the diff
// transform and LUT remap, in that order. tolerateFirstEOF lets the caller
// detect end-of-stream at the very first framed read of a block.
func decodeSingleSequence(r io.Reader, tsc *TransformedSequenceConfig, tolerateFirstEOF bool) ([]uint64, error) {
	var lo *transform.LUTOrder
	first := tolerateFirstEOF

	if tsc.LUTTransformEnabled {
		payload, err := readFramed(r, first)
		if err != nil {
			return nil, err
		}
		first = false
		baseInverse, err := decodeLUTValues(payload, tsc.LUTBits)
		if err != nil {
			return nil, err
		}
		lo = &transform.LUTOrder{Order: int(tsc.LUTOrder), Base: &transform.LUT0{Inverse: baseInverse}}

		if tsc.LUTOrder > 0 {
			k := len(baseInverse)
			bits1 := uint(1)
			if k > 1 {
				bits1 = bitsFor(uint64(k - 1))
			}
			payload2, err := readFramed(r, false)
			if err != nil {
				return nil, err
			}
			table, err := decodeLUTValues(payload2, bits1)
			if err != nil {
				return nil, err
			}
			lo.Table = table
			lo.Inverse = invertLUTTable(table, k)
		}
	}

	payload, err := readFramed(r, first)
	if err != nil {
		return nil, err
	}
	working, err := decodeEntropyPayload(tsc, payload)
	if err != nil {
		return nil, err
	}

	if tsc.DiffCodingEnabled {
		working = transform.DiffDecode(working)
	}
	if tsc.LUTTransformEnabled {
		working = transform.LUTDecode(lo, working)
	}
	return working, nil
}

// invertLUTTable builds the per-context inverse permutation LUTDecode needs
// from the forward table encodeSingleSequence wrote: for each context, the
// rank->transformed mapping is inverted to transformed->rank.
func invertLUTTable(table []uint64, k int) []uint64 {
	if k == 0 {
		return nil
	}
	inv := make([]uint64, len(table))
	numContexts := len(table) / k
	for ctx := 0; ctx < numContexts; ctx++ {
		base := ctx * k
		for rank := 0; rank < k; rank++ {
			inv[base+int(table[base+rank])] = uint64(rank)
		}
	}
	return inv
}

func decodeLUTValues(payload []byte, bits uint) ([]uint64, error) {
	fixed := &TransformedSequenceConfig{
		BinarizationID:     binarization.BI,
		BinarizationParams: []uint{bits},
		ContextSelectionID: ContextBypass,
	}
	return decodeEntropyPayload(fixed, payload)
}
