package gabac

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-gabac/gabac/internal/binarization"
)

// SequenceTransformationID selects the top-level reversible transform
// applied to a block's raw symbol stream before it is split into
// sub-streams for entropy coding.
type SequenceTransformationID int

const (
	SeqTransformNone SequenceTransformationID = iota
	SeqTransformEquality
	SeqTransformMatch
	SeqTransformRLE
)

func (id SequenceTransformationID) String() string {
	switch id {
	case SeqTransformNone:
		return "no_transform"
	case SeqTransformEquality:
		return "equality_coding"
	case SeqTransformMatch:
		return "match_coding"
	case SeqTransformRLE:
		return "rle_coding"
	default:
		return "unknown"
	}
}

// numSubstreams reports how many sub-streams this transform decomposes a
// block into: none (the raw values), equality (values, flags), match (raw
// values, pointers, lengths) and RLE (raw values, lengths).
func (id SequenceTransformationID) numSubstreams() int {
	switch id {
	case SeqTransformEquality:
		return 2
	case SeqTransformMatch:
		return 3
	case SeqTransformRLE:
		return 2
	default:
		return 1
	}
}

// ContextSelectionID selects how a sub-stream's bins address CABAC context
// models: not at all (bypass), or adaptively with 0, 1 or 2 symbols of
// preceding context folded into the context-set offset.
type ContextSelectionID int

const (
	ContextBypass ContextSelectionID = iota
	ContextAdaptiveOrder0
	ContextAdaptiveOrder1
	ContextAdaptiveOrder2
)

func (id ContextSelectionID) String() string {
	switch id {
	case ContextBypass:
		return "bypass"
	case ContextAdaptiveOrder0:
		return "adaptive_coding_order_0"
	case ContextAdaptiveOrder1:
		return "adaptive_coding_order_1"
	case ContextAdaptiveOrder2:
		return "adaptive_coding_order_2"
	default:
		return "unknown"
	}
}

// TransformedSequenceConfig configures how a single sub-stream is coded:
// an optional LUT remap, an optional diff transform, then a binarization
// driven by a context-selection scheme.
type TransformedSequenceConfig struct {
	LUTTransformEnabled bool   `json:"lut_transformation_enabled"`
	LUTBits             uint   `json:"lut_transformation_bits,omitempty"`
	LUTOrder            uint   `json:"lut_transformation_order,omitempty"`
	DiffCodingEnabled   bool   `json:"diff_coding_enabled"`
	BinarizationID      binarization.ID `json:"binarization_id"`
	BinarizationParams  []uint `json:"binarization_parameters"`
	ContextSelectionID  ContextSelectionID `json:"context_selection_id"`
}

// Config is the complete, serializable description of how one block is
// encoded: a word size, a top-level sequence transform, and one
// TransformedSequenceConfig per resulting sub-stream.
type Config struct {
	WordSize                        uint8                       `json:"word_size"`
	SequenceTransformationID        SequenceTransformationID     `json:"sequence_transformation_id"`
	SequenceTransformationParameter uint64                       `json:"sequence_transformation_parameter"`
	TransformedSequenceConfigs      []TransformedSequenceConfig  `json:"transformed_sequences"`
}

// ToJSON serializes c, matching the original's toJsonString (4-space
// indent for human readability).
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "    ")
}

// FromJSON parses a Config from its JSON wire form.
func FromJSON(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &Error{Kind: ConfigInvalid, Message: "parsing configuration JSON", Cause: err}
	}
	return &c, nil
}

// String renders a compact, human-readable summary, mirroring the
// original's toPrintableString pipe-delimited layout.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d  |  %d  |  %d  |  ", c.WordSize, c.SequenceTransformationID, c.SequenceTransformationParameter)
	for _, tsc := range c.TransformedSequenceConfigs {
		b.WriteString(tsc.String())
	}
	return b.String()
}

// String renders one sub-stream config in the original's pipe-delimited form.
func (tsc *TransformedSequenceConfig) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d  |  %d  |  %d  |  %d  |  %d  |  [ ",
		boolToInt(tsc.LUTTransformEnabled), tsc.LUTBits, tsc.LUTOrder, boolToInt(tsc.DiffCodingEnabled), tsc.BinarizationID)
	for _, p := range tsc.BinarizationParams {
		fmt.Fprintf(&b, "%d ", p)
	}
	fmt.Fprintf(&b, "]  |  %d]", tsc.ContextSelectionID)
	return b.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func bitsFor(max uint64) uint {
	if max == 0 {
		return 1
	}
	return uint(math.Ceil(math.Log2(float64(max) + 1)))
}

// tuParamMax is the largest cMax value TU binarization may use before a
// generalized config must fall back to TEG, mirroring the original's
// getBinarization(EG).paramMax cross-reference (EG's own param range has
// no upper parameter, so the original reuses its paramMax constant as the
// practical TU/TEG cutover point).
const tuParamMax = 32

// Generalize returns a copy of c adjusted so it remains valid for any
// stream whose values are bounded by max and whose word size is at most
// wordSize -- widening binarizations and LUT bit-widths as needed and
// switching to a wider binarization scheme when a value would overflow
// the current one, following generalizeBin/generalizeLUT.
func (c *Config) Generalize(max uint64, wordSize uint8) *Config {
	ret := c.clone()
	if ret.WordSize > wordSize {
		ret.WordSize = wordSize
	}

	generalizeLUT(ret, max, 0)
	generalizeBin(ret, max, 0)

	switch ret.SequenceTransformationID {
	case SeqTransformEquality:
		if ret.TransformedSequenceConfigs[1].LUTBits < 1 {
			ret.TransformedSequenceConfigs[1].LUTBits = 1
		}
		generalizeLUT(ret, 1, 1)
		generalizeBin(ret, 1, 1)
	case SeqTransformMatch:
		tsc := &ret.TransformedSequenceConfigs[1]
		need := bitsFor(ret.SequenceTransformationParameter)
		if tsc.LUTBits < need {
			tsc.LUTBits = need
		}
		generalizeLUT(ret, ret.SequenceTransformationParameter, 1)
		generalizeBin(ret, ret.SequenceTransformationParameter, 1)

		tsc2 := &ret.TransformedSequenceConfigs[2]
		if tsc2.LUTBits < 32 {
			tsc2.LUTBits = 32
		}
		generalizeLUT(ret, math.MaxUint32, 2)
		generalizeBin(ret, math.MaxUint32, 2)
	case SeqTransformRLE:
		tsc := &ret.TransformedSequenceConfigs[1]
		if tsc.LUTBits < 32 {
			tsc.LUTBits = 32
		}
		generalizeLUT(ret, math.MaxUint32, 1)
		generalizeBin(ret, math.MaxUint32, 1)
	}

	return ret
}

// Optimize returns a copy of c re-tuned to the tightest valid parameters
// for a stream whose values are bounded by max, following
// optimizeBin/optimizeLUT -- unlike Generalize, it may narrow parameters.
func (c *Config) Optimize(max uint64) *Config {
	ret := c.clone()

	optimizeLUT(ret, max, 0)
	optimizeBin(ret, max, 0)

	switch ret.SequenceTransformationID {
	case SeqTransformEquality:
		ret.TransformedSequenceConfigs[1].LUTBits = 1
		optimizeLUT(ret, 1, 1)
		optimizeBin(ret, 1, 1)
	case SeqTransformMatch:
		ret.TransformedSequenceConfigs[1].LUTBits = bitsFor(ret.SequenceTransformationParameter)
		optimizeLUT(ret, ret.SequenceTransformationParameter, 1)
		optimizeBin(ret, ret.SequenceTransformationParameter, 1)

		ret.TransformedSequenceConfigs[2].LUTBits = 32
		optimizeLUT(ret, math.MaxUint32, 2)
		optimizeBin(ret, math.MaxUint32, 2)
	case SeqTransformRLE:
		ret.TransformedSequenceConfigs[1].LUTBits = 32
		optimizeLUT(ret, math.MaxUint32, 1)
		optimizeBin(ret, math.MaxUint32, 1)
	}

	return ret
}

// IsGeneral reports whether c is already in its generalized form for the
// given bound and word size.
func (c *Config) IsGeneral(max uint64, wordSize uint8) bool {
	return configsEqual(c, c.Generalize(max, wordSize))
}

// IsOptimal reports whether c is already in its optimized form for the
// given bound.
func (c *Config) IsOptimal(max uint64) bool {
	return configsEqual(c, c.Optimize(max))
}

func (c *Config) clone() *Config {
	ret := *c
	ret.TransformedSequenceConfigs = make([]TransformedSequenceConfig, len(c.TransformedSequenceConfigs))
	for i, tsc := range c.TransformedSequenceConfigs {
		ret.TransformedSequenceConfigs[i] = tsc
		ret.TransformedSequenceConfigs[i].BinarizationParams = append([]uint(nil), tsc.BinarizationParams...)
	}
	return &ret
}

func configsEqual(a, b *Config) bool {
	if a.WordSize != b.WordSize || a.SequenceTransformationID != b.SequenceTransformationID ||
		a.SequenceTransformationParameter != b.SequenceTransformationParameter ||
		len(a.TransformedSequenceConfigs) != len(b.TransformedSequenceConfigs) {
		return false
	}
	for i := range a.TransformedSequenceConfigs {
		ta, tb := a.TransformedSequenceConfigs[i], b.TransformedSequenceConfigs[i]
		if ta.LUTTransformEnabled != tb.LUTTransformEnabled || ta.LUTBits != tb.LUTBits ||
			ta.LUTOrder != tb.LUTOrder || ta.DiffCodingEnabled != tb.DiffCodingEnabled ||
			ta.BinarizationID != tb.BinarizationID || ta.ContextSelectionID != tb.ContextSelectionID ||
			len(ta.BinarizationParams) != len(tb.BinarizationParams) {
			return false
		}
		for j := range ta.BinarizationParams {
			if ta.BinarizationParams[j] != tb.BinarizationParams[j] {
				return false
			}
		}
	}
	return true
}

const maxLUTSize = 1 << 20

func generalizeLUT(c *Config, max uint64, index int) {
	tsc := &c.TransformedSequenceConfigs[index]
	if !tsc.LUTTransformEnabled {
		return
	}
	bits := bitsFor(max)
	if bits > tsc.LUTBits {
		tsc.LUTBits = bits
	}

	switch {
	case max > maxLUTSize && index == 0:
		tsc.LUTTransformEnabled = false
	case max > uint64(math.Sqrt(maxLUTSize)):
		tsc.LUTOrder = 0
	case max > uint64(math.Cbrt(maxLUTSize)):
		if tsc.LUTOrder > 1 {
			tsc.LUTOrder = 1
		}
	}
}

func optimizeLUT(c *Config, max uint64, index int) {
	tsc := &c.TransformedSequenceConfigs[index]
	if !tsc.LUTTransformEnabled {
		return
	}
	tsc.LUTBits = bitsFor(max)
}

func generalizeBin(c *Config, max uint64, index int) {
	tsc := &c.TransformedSequenceConfigs[index]
	switch tsc.BinarizationID {
	case binarization.BI:
		bits := bitsFor(max)
		if len(tsc.BinarizationParams) > 0 && tsc.BinarizationParams[0] > bits {
			bits = tsc.BinarizationParams[0]
		}
		tsc.BinarizationParams = []uint{bits}
	case binarization.TU:
		if max > tuParamMax {
			tsc.BinarizationID = binarization.TEG
			tsc.BinarizationParams = []uint{32}
			generalizeBin(c, max, index)
		}
	case binarization.EG:
		if max > math.MaxUint32 {
			tsc.BinarizationParams = []uint{0}
			tsc.BinarizationID = binarization.BI
			generalizeBin(c, max, index)
		}
	case binarization.SEG:
		if max > math.MaxUint32/2 {
			tsc.BinarizationParams = []uint{0}
			tsc.BinarizationID = binarization.BI
			generalizeBin(c, max, index)
		}
	case binarization.TEG:
		if len(tsc.BinarizationParams) > 0 && tsc.BinarizationParams[0] > tuParamMax {
			tsc.BinarizationParams = []uint{tuParamMax}
		}
		if max > math.MaxUint32 {
			tsc.BinarizationParams = []uint{0}
			tsc.BinarizationID = binarization.BI
			generalizeBin(c, max, index)
		}
	case binarization.STEG:
		if len(tsc.BinarizationParams) > 0 && tsc.BinarizationParams[0] > tuParamMax {
			tsc.BinarizationParams = []uint{tuParamMax}
		}
		if max > math.MaxUint32/2 {
			tsc.BinarizationParams = []uint{0}
			tsc.BinarizationID = binarization.BI
			generalizeBin(c, max, index)
		}
	}
}

func optimizeBin(c *Config, max uint64, index int) {
	tsc := &c.TransformedSequenceConfigs[index]
	switch tsc.BinarizationID {
	case binarization.BI:
		tsc.BinarizationParams = []uint{bitsFor(max)}
	case binarization.TEG:
		if len(tsc.BinarizationParams) > 0 && tsc.BinarizationParams[0] == 0 {
			tsc.BinarizationParams = []uint{}
			tsc.BinarizationID = binarization.EG
			optimizeBin(c, max, index)
		} else if len(tsc.BinarizationParams) > 0 && uint64(tsc.BinarizationParams[0]) > max {
			tsc.BinarizationParams = []uint{uint(max)}
		}
	case binarization.STEG:
		if len(tsc.BinarizationParams) > 0 && tsc.BinarizationParams[0] == 0 {
			tsc.BinarizationParams = []uint{}
			tsc.BinarizationID = binarization.SEG
			optimizeBin(c, max, index)
		} else if len(tsc.BinarizationParams) > 0 && uint64(tsc.BinarizationParams[0]) > max {
			tsc.BinarizationParams = []uint{uint(max)}
		}
	}
}
