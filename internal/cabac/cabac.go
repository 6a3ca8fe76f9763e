// Package cabac implements a context-adaptive binary arithmetic coder: a
// table-driven range coder with per-bin probability context models and a
// bypass (equiprobable) mode, structured after the teacher's MQ-coder
// (internal/entropy/mqc.go in the retrieval pack's go-jpeg2000 repo) --
// flat context-state storage, table-driven renormalization, a small buffered
// carry state -- generalized from JPEG2000's MQ numerics to the H.264-style
// CABAC shape spec.md §4.2 describes (64-state rangeTabLPS/nextStateMPS/
// nextStateLPS tables, initial range 510).
package cabac

import (
	"io"

	"github.com/go-gabac/gabac/internal/bio"
)

const (
	initRange        = 510
	topHalf          = 512
	topQuarter       = 256
	rangeRenormFloor = 256

	// valueBits is the width of the position space low/value live in
	// (TOP = 1<<valueBits); it must be large enough that initRange fits
	// comfortably below TOP, per the textbook Witten-Neal-Cleary coder
	// this engine's carry handling follows.
	valueBits = 10
)

// Encoder is a binary arithmetic encoder. Context-coded bins (EncodeBin) use
// the adaptive range-splitting engine; bypass bins (EncodeBinEP/EncodeBinsEP)
// write literal bits directly through the underlying bio.Writer, which is
// exact for an equiprobable bin and avoids carry-propagation entirely for
// the bypass path. The two paths may precede one another on the same
// Encoder (e.g. a bypass-coded symbol-count prefix ahead of an
// adaptively-coded body): bypass bits never touch low/codRange, so they
// interleave safely so long as adaptive decoding is primed (see
// Decoder.PrimeAdaptive) at the exact point adaptive bins begin.
type Encoder struct {
	w           *bio.Writer
	low         uint32
	codRange    uint32
	pendingBits int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w *bio.Writer) *Encoder {
	return &Encoder{w: w, codRange: initRange}
}

// EncodeBin encodes one context-coded bin and updates ctx's adaptive state.
func (e *Encoder) EncodeBin(ctx *Context, bin int) error {
	qi := (e.codRange >> 6) & 3
	rLPS := rangeTabLPS[ctx.state][qi]
	if uint8(bin) == ctx.mps {
		e.codRange -= rLPS
		ctx.state = nextStateMPS[ctx.state]
	} else {
		e.low += e.codRange - rLPS
		e.codRange = rLPS
		if ctx.state == 0 {
			ctx.mps ^= 1
		}
		ctx.state = nextStateLPS[ctx.state]
	}
	return e.renorm()
}

// renorm restores codRange to [256,510], emitting one output bit (plus any
// bits the carry-resolution logic had been holding back) per doubling. Since
// codRange < 256 implies the active interval [low, low+codRange) fits
// entirely in one of the three bands {below 512, above 512, straddling 512
// within [256,768)}, exactly one of the three cases below always applies --
// this is the standard carry-counting ("pending bits") technique.
func (e *Encoder) renorm() error {
	for e.codRange < rangeRenormFloor {
		high := e.low + e.codRange - 1
		switch {
		case high < topHalf:
			if err := e.putBit(0); err != nil {
				return err
			}
		case e.low >= topHalf:
			if err := e.putBit(1); err != nil {
				return err
			}
			e.low -= topHalf
		default:
			e.pendingBits++
			e.low -= topQuarter
		}
		e.low <<= 1
		e.codRange <<= 1
	}
	return nil
}

func (e *Encoder) putBit(b int) error {
	if err := e.w.WriteBit(b); err != nil {
		return err
	}
	for ; e.pendingBits > 0; e.pendingBits-- {
		if err := e.w.WriteBit(1 - b); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBinEP writes one equiprobable bin, bypassing context modeling.
func (e *Encoder) EncodeBinEP(bin int) error {
	return e.w.WriteBit(bin)
}

// EncodeBinsEP writes the n (<=32) least-significant bits of v, MSB first.
func (e *Encoder) EncodeBinsEP(v uint32, n uint) error {
	return e.w.WriteBits(v, n)
}

// Finish resolves any carry still held back by renorm and byte-aligns the
// output. Every context-coded sub-stream must call Finish exactly once,
// after its last bin, before the payload is framed (spec.md §4.6).
// Termination via a dedicated encodeBinTrm bin is not used by this format:
// the decoder already knows the exact symbol count from the framing, so no
// in-band end marker is needed (spec.md §4.2, §9 design note 3).
//
// Finish writes all valueBits bits of low (the first one through putBit, so
// any held-back carry bits follow it), which names a point inside the final
// interval and always leaves valueBits bits available for the decoder's
// priming read, even for a sub-stream short enough that the natural output
// would otherwise be shorter than that.
func (e *Encoder) Finish() error {
	if err := e.putBit(int(e.low>>(valueBits-1)) & 1); err != nil {
		return err
	}
	for i := valueBits - 2; i >= 0; i-- {
		if err := e.w.WriteBit(int(e.low>>uint(i)) & 1); err != nil {
			return err
		}
	}
	return e.w.Flush()
}

// Decoder mirrors Encoder exactly: it keeps its own low register alongside
// codRange, performing the identical three-way renorm split Encoder does,
// so that value -- a sliding window of actual stream bits the same width as
// low -- can be compared against low-relative boundaries. It needs no
// pending-bit counter of its own: by the time decoding starts the encoder's
// carry resolution has already settled every output bit into its final
// value, so the decoder only has to replay the same low/codRange arithmetic
// and consume one fresh bit per renormalization step.
type Decoder struct {
	r        *bio.Reader
	low      uint32
	codRange uint32
	value    uint32
}

// NewDecoder creates a decoder reading from r. Call PrimeAdaptive once,
// after any leading bypass reads (e.g. a BI-bypass symbol count prefix)
// and before the first DecodeBin call, since a substream's bypass prefix
// and its adaptive body share one underlying bit reader.
func NewDecoder(r *bio.Reader) *Decoder {
	return &Decoder{r: r, codRange: initRange}
}

// PrimeAdaptive preloads value with the next valueBits bits of the stream
// (low starts at 0, matching the encoder). Must be called exactly once,
// immediately before the first DecodeBin call on this Decoder.
func (d *Decoder) PrimeAdaptive() error {
	v, err := d.r.ReadBits(valueBits)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return errTruncated
		}
		return err
	}
	d.value = v
	return nil
}

// DecodeBin decodes one context-coded bin and updates ctx's adaptive state.
func (d *Decoder) DecodeBin(ctx *Context) (int, error) {
	qi := (d.codRange >> 6) & 3
	rLPS := rangeTabLPS[ctx.state][qi]
	mpsRange := d.codRange - rLPS

	var bin int
	if d.value < d.low+mpsRange {
		bin = int(ctx.mps)
		d.codRange = mpsRange
		ctx.state = nextStateMPS[ctx.state]
	} else {
		d.low += mpsRange
		d.codRange = rLPS
		bin = 1 - int(ctx.mps)
		if ctx.state == 0 {
			ctx.mps ^= 1
		}
		ctx.state = nextStateLPS[ctx.state]
	}
	if err := d.renorm(); err != nil {
		return 0, err
	}
	return bin, nil
}

// renorm replays Encoder.renorm's case split on low, applying the same
// subtraction to value before shifting both left and folding in one newly
// read bit at value's low end.
func (d *Decoder) renorm() error {
	for d.codRange < rangeRenormFloor {
		high := d.low + d.codRange - 1
		switch {
		case high < topHalf:
		case d.low >= topHalf:
			d.low -= topHalf
			d.value -= topHalf
		default:
			d.low -= topQuarter
			d.value -= topQuarter
		}

		bit, err := d.r.ReadBit()
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return errTruncated
			}
			return err
		}
		d.low <<= 1
		d.value = (d.value << 1) | uint32(bit)
		d.codRange <<= 1
	}
	return nil
}

// DecodeBinEP reads one equiprobable bin.
func (d *Decoder) DecodeBinEP() (int, error) {
	return d.r.ReadBit()
}

// DecodeBinsEP reads n (<=32) equiprobable bins, MSB first.
func (d *Decoder) DecodeBinsEP(n uint) (uint32, error) {
	return d.r.ReadBits(n)
}

// Finish aligns to the next byte boundary, dropping the zero padding of the
// final byte; the bits Encoder.Finish wrote have already been consumed by
// the priming read and the renormalization steps.
func (d *Decoder) Finish() {
	d.r.Align()
}
