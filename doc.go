// Package gabac provides a general-purpose entropy compression engine for
// integer symbol streams.
//
// It ingests a sequence of unsigned integers (1, 2, 4, or 8 bytes each),
// applies a configurable chain of reversible pre-transformations to expose
// compressible structure, and entropy-codes each resulting sub-stream with
// a context-adaptive binary arithmetic coder.
//
// Basic usage for encoding:
//
//	cfg := &gabac.Config{WordSize: 4, TransformedSequenceConfigs: []gabac.TransformedSequenceConfig{{
//	    BinarizationID:     binarization.EG,
//	    ContextSelectionID: gabac.ContextAdaptiveOrder0,
//	}}}
//	err := gabac.Encode(cfg, 0, r, w)
//
// Basic usage for decoding:
//
//	err := gabac.Decode(cfg, r, w)
//
// Analyze searches the configuration space for the smallest encoding of a
// given stream:
//
//	cfg, err := gabac.Analyze(symbols, wordSize)
package gabac
