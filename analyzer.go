package gabac

import (
	"bytes"

	"github.com/go-gabac/gabac/internal/binarization"
	"github.com/go-gabac/gabac/internal/bio"
	"github.com/go-gabac/gabac/internal/logging"
	"github.com/go-gabac/gabac/internal/metrics"
)

// rleGuard bounds a single RLE run-length segment for every candidate the
// analyzer tries; it only affects how a long run is chopped into segments,
// never correctness.
const rleGuard = 1<<16 - 1

// substreamPreset is one candidate TransformedSequenceConfig shape the
// analyzer tries for a given sub-stream, before Generalize/Optimize tighten
// its parameters to the observed data.
type substreamPreset struct {
	lut     bool
	lutOrd  uint
	diff    bool
	binID   binarization.ID
	ctxID   ContextSelectionID
}

var presets = []substreamPreset{
	{binID: binarization.EG, ctxID: ContextBypass},
	{binID: binarization.EG, ctxID: ContextAdaptiveOrder0},
	{binID: binarization.BI, ctxID: ContextBypass},
	{binID: binarization.TU, ctxID: ContextAdaptiveOrder1},
	{diff: true, binID: binarization.SEG, ctxID: ContextAdaptiveOrder0},
	{lut: true, lutOrd: 0, binID: binarization.EG, ctxID: ContextAdaptiveOrder1},
}

// Analyze searches the configuration space for the smallest encoding of
// symbols, following spec.md §4.8: enumerate a Cartesian product of
// candidate configurations, Generalize/Optimize each to the observed data,
// encode the block under it, and keep the smallest valid payload (ties
// broken by first-encountered).
func Analyze(symbols []uint64, wordSize uint8) (*Config, error) {
	if len(symbols) == 0 {
		return nil, newError(ConfigInvalid, "cannot analyze an empty symbol stream", nil)
	}
	var max uint64
	for _, s := range symbols {
		if s > max {
			max = s
		}
	}

	raw := bio.SymbolsToBytes(bio.WordSize(wordSize), symbols)

	var best *Config
	bestSize := -1

	for _, skeleton := range seedSkeletons(wordSize) {
		for _, cfg := range expandPresets(skeleton) {
			metrics.AnalyzerCandidatesTried.Inc()
			tuned := cfg.Generalize(max, wordSize).Optimize(max)

			var buf bytes.Buffer
			if err := Encode(tuned, 0, bytes.NewReader(raw), &buf); err != nil {
				reason := metrics.ReasonConfigInvalid
				if e, ok := err.(*Error); ok && e.Kind == OutOfRange {
					reason = metrics.ReasonOutOfRange
				}
				metrics.AnalyzerCandidatesRejected.WithLabelValues(reason).Inc()
				continue
			}
			if bestSize < 0 || buf.Len() < bestSize {
				best = tuned
				bestSize = buf.Len()
			}
		}
	}

	if best == nil {
		return nil, newError(Internal, "no candidate configuration could encode this stream", nil)
	}
	logging.L().Debug("analyze_done", "best_bytes", bestSize)
	return best, nil
}

// seedSkeletons builds one base Config per SequenceTransformationID, with
// placeholder TransformedSequenceConfigs that expandPresets fills in.
func seedSkeletons(wordSize uint8) []*Config {
	blank := func(n int) []TransformedSequenceConfig {
		return make([]TransformedSequenceConfig, n)
	}
	return []*Config{
		{WordSize: wordSize, SequenceTransformationID: SeqTransformNone, TransformedSequenceConfigs: blank(1)},
		{WordSize: wordSize, SequenceTransformationID: SeqTransformEquality, TransformedSequenceConfigs: blank(2)},
		{WordSize: wordSize, SequenceTransformationID: SeqTransformMatch, SequenceTransformationParameter: 32, TransformedSequenceConfigs: blank(3)},
		{WordSize: wordSize, SequenceTransformationID: SeqTransformRLE, SequenceTransformationParameter: rleGuard, TransformedSequenceConfigs: blank(2)},
	}
}

// expandPresets fans skeleton's sub-streams out across the preset table,
// producing every combination -- the Cartesian product spec.md §4.8 calls for.
func expandPresets(skeleton *Config) []*Config {
	n := len(skeleton.TransformedSequenceConfigs)
	combos := []*Config{skeleton}
	for i := 0; i < n; i++ {
		var next []*Config
		for _, c := range combos {
			for _, p := range presets {
				clone := c.clone()
				clone.TransformedSequenceConfigs[i] = TransformedSequenceConfig{
					LUTTransformEnabled: p.lut,
					LUTOrder:            p.lutOrd,
					DiffCodingEnabled:   p.diff,
					BinarizationID:      p.binID,
					BinarizationParams:  make([]uint, paramCounts[p.binID]),
					ContextSelectionID:  p.ctxID,
				}
				if p.lut {
					clone.TransformedSequenceConfigs[i].LUTBits = 1
				}
				next = append(next, clone)
			}
		}
		combos = next
	}
	return combos
}
