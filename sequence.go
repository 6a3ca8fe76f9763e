package gabac

import (
	"github.com/go-gabac/gabac/internal/binarization"
	"github.com/go-gabac/gabac/internal/bio"
	"github.com/go-gabac/gabac/internal/transform"
)

// validateConfig rejects a Config whose shape could never produce a
// decodable stream: unknown enums, a transformed-sequence count that
// doesn't match the sequence transform's arity, or a binarization whose
// parameter count doesn't match what it expects.
func validateConfig(cfg *Config) error {
	if !bio.WordSize(cfg.WordSize).Valid() {
		return newError(ConfigInvalid, "word_size must be one of 1, 2, 4, 8", nil)
	}
	if cfg.SequenceTransformationID < SeqTransformNone || cfg.SequenceTransformationID > SeqTransformRLE {
		return newError(ConfigInvalid, "unknown sequence_transformation_id", nil)
	}
	want := cfg.SequenceTransformationID.numSubstreams()
	if len(cfg.TransformedSequenceConfigs) != want {
		return newError(ConfigInvalid, "transformed_sequences count does not match sequence transform", nil)
	}
	for _, tsc := range cfg.TransformedSequenceConfigs {
		if tsc.BinarizationID < binarization.BI || tsc.BinarizationID > binarization.STEG {
			return newError(ConfigInvalid, "unknown binarization_id", nil)
		}
		if tsc.ContextSelectionID < ContextBypass || tsc.ContextSelectionID > ContextAdaptiveOrder2 {
			return newError(ConfigInvalid, "unknown context_selection_id", nil)
		}
		if len(tsc.BinarizationParams) != paramCounts[tsc.BinarizationID] {
			return newError(ConfigInvalid, "binarization_parameters count does not match binarization_id", nil)
		}
		if tsc.LUTTransformEnabled && tsc.LUTBits == 0 {
			return newError(ConfigInvalid, "lut_transformation_bits must be set when the LUT transform is enabled", nil)
		}
	}
	return nil
}

// splitSequence applies the block's top-level sequence transform,
// producing one []uint64 per TransformedSequenceConfig. Sub-stream order
// matches Config.Generalize/Optimize's special-case indexing (see
// DESIGN.md): equality [values, flags], match [rawValues, pointers,
// lengths], RLE [rawValues, lengths].
func splitSequence(cfg *Config, symbols []uint64) [][]uint64 {
	switch cfg.SequenceTransformationID {
	case SeqTransformEquality:
		flags, values := transform.EqualityEncode(symbols)
		return [][]uint64{values, flags}
	case SeqTransformMatch:
		rawValues, pointers, lengths := transform.MatchEncode(int(cfg.SequenceTransformationParameter), symbols)
		return [][]uint64{rawValues, pointers, lengths}
	case SeqTransformRLE:
		rawValues, lengths := transform.RLEEncode(cfg.SequenceTransformationParameter, symbols)
		return [][]uint64{rawValues, lengths}
	default:
		return [][]uint64{symbols}
	}
}

// joinSequence reverses splitSequence.
func joinSequence(cfg *Config, seqs [][]uint64) []uint64 {
	switch cfg.SequenceTransformationID {
	case SeqTransformEquality:
		values, flags := seqs[0], seqs[1]
		return transform.EqualityDecode(flags, values)
	case SeqTransformMatch:
		rawValues, pointers, lengths := seqs[0], seqs[1], seqs[2]
		return transform.MatchDecode(rawValues, pointers, lengths)
	case SeqTransformRLE:
		rawValues, lengths := seqs[0], seqs[1]
		return transform.RLEDecode(cfg.SequenceTransformationParameter, rawValues, lengths)
	default:
		return seqs[0]
	}
}
