package gabac

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-gabac/gabac/internal/binarization"
	"github.com/go-gabac/gabac/internal/bio"
	"github.com/go-gabac/gabac/internal/cabac"
)

// paramCounts gives the number of binarization parameters each
// BinarizationID expects, matching encoding.cpp's paramSize assertion
// table ({1, 1, 0, 0, 1, 1} for BI, TU, EG, SEG, TEG, STEG).
var paramCounts = [...]int{
	binarization.BI:   1,
	binarization.TU:   1,
	binarization.EG:   0,
	binarization.SEG:  0,
	binarization.TEG:  1,
	binarization.STEG: 1,
}

func binParam(tsc *TransformedSequenceConfig) (uint64, error) {
	if len(tsc.BinarizationParams) == 0 {
		return 0, newError(ConfigInvalid, "binarization requires a parameter", nil)
	}
	return uint64(tsc.BinarizationParams[0]), nil
}

// clampAbs3 clips the two's-complement magnitude of v to [0,3], the
// context-history quantization encode_cabac uses for its adaptive-order
// context offsets.
func clampAbs3(v uint64) int {
	s := int64(v)
	if s < 0 {
		s = -s
	}
	if s > 3 {
		return 3
	}
	return int(s)
}

// contextOffset computes the context-set offset for the symbol about to be
// coded, given the symbols already processed (encoded or decoded) in this
// sub-stream. Offsets fall in [0,16) regardless of scheme, matching the
// BI/EG context pools' 16-set width.
func contextOffset(csID ContextSelectionID, history []uint64) int {
	n := len(history)
	var prev, prevPrev uint64
	if n >= 1 {
		prev = history[n-1]
	}
	if n >= 2 {
		prevPrev = history[n-2]
	}
	switch csID {
	case ContextAdaptiveOrder1:
		return clampAbs3(prev) << 2
	case ContextAdaptiveOrder2:
		return (clampAbs3(prev) << 2) + clampAbs3(prevPrev)
	default:
		return 0
	}
}

func encodeSymbolBin(enc *cabac.Encoder, cs *cabac.ContextSet, tsc *TransformedSequenceConfig, ctxIdx int, v uint64) error {
	bypass := tsc.ContextSelectionID == ContextBypass
	switch tsc.BinarizationID {
	case binarization.BI:
		p, err := binParam(tsc)
		if err != nil {
			return err
		}
		if p < 64 && v >= uint64(1)<<p {
			return newError(OutOfRange, "value exceeds BI width", nil)
		}
		if bypass {
			return binarization.EncodeBIBypass(enc, v, uint(p))
		}
		return binarization.EncodeBICabac(enc, cs, ctxIdx, v, uint(p))
	case binarization.TU:
		cMax, err := binParam(tsc)
		if err != nil {
			return err
		}
		if v > cMax {
			return newError(OutOfRange, "value exceeds TU cMax", nil)
		}
		if bypass {
			return binarization.EncodeTUBypass(enc, v, cMax)
		}
		return binarization.EncodeTUCabac(enc, cs, ctxIdx, v, cMax)
	case binarization.EG:
		if bypass {
			return binarization.EncodeEGBypass(enc, v)
		}
		return binarization.EncodeEGCabac(enc, cs, ctxIdx, v)
	case binarization.SEG:
		sv := int64(v)
		if bypass {
			return binarization.EncodeSEGBypass(enc, sv)
		}
		return binarization.EncodeSEGCabac(enc, cs, ctxIdx, sv)
	case binarization.TEG:
		param, err := binParam(tsc)
		if err != nil {
			return err
		}
		if bypass {
			return binarization.EncodeTEGBypass(enc, v, param)
		}
		return binarization.EncodeTEGCabac(enc, cs, ctxIdx, v, param)
	case binarization.STEG:
		param, err := binParam(tsc)
		if err != nil {
			return err
		}
		sv := int64(v)
		if bypass {
			return binarization.EncodeSTEGBypass(enc, sv, param)
		}
		return binarization.EncodeSTEGCabac(enc, cs, ctxIdx, sv, param)
	default:
		return newError(ConfigInvalid, "unknown binarization id", nil)
	}
}

func decodeSymbolBin(dec *cabac.Decoder, cs *cabac.ContextSet, tsc *TransformedSequenceConfig, ctxIdx int) (uint64, error) {
	bypass := tsc.ContextSelectionID == ContextBypass
	switch tsc.BinarizationID {
	case binarization.BI:
		p, err := binParam(tsc)
		if err != nil {
			return 0, err
		}
		if bypass {
			return binarization.DecodeBIBypass(dec, uint(p))
		}
		return binarization.DecodeBICabac(dec, cs, ctxIdx, uint(p))
	case binarization.TU:
		cMax, err := binParam(tsc)
		if err != nil {
			return 0, err
		}
		if bypass {
			return binarization.DecodeTUBypass(dec, cMax)
		}
		return binarization.DecodeTUCabac(dec, cs, ctxIdx, cMax)
	case binarization.EG:
		if bypass {
			return binarization.DecodeEGBypass(dec)
		}
		return binarization.DecodeEGCabac(dec, cs, ctxIdx)
	case binarization.SEG:
		var sv int64
		var err error
		if bypass {
			sv, err = binarization.DecodeSEGBypass(dec)
		} else {
			sv, err = binarization.DecodeSEGCabac(dec, cs, ctxIdx)
		}
		return uint64(sv), err
	case binarization.TEG:
		param, err := binParam(tsc)
		if err != nil {
			return 0, err
		}
		if bypass {
			return binarization.DecodeTEGBypass(dec, param)
		}
		return binarization.DecodeTEGCabac(dec, cs, ctxIdx, param)
	case binarization.STEG:
		param, err := binParam(tsc)
		if err != nil {
			return 0, err
		}
		var sv int64
		if bypass {
			sv, err = binarization.DecodeSTEGBypass(dec, param)
		} else {
			sv, err = binarization.DecodeSTEGCabac(dec, cs, ctxIdx, param)
		}
		return uint64(sv), err
	default:
		return 0, newError(ConfigInvalid, "unknown binarization id", nil)
	}
}

// encodeEntropyPayload writes the sub-stream's 32-bit EP symbol count
// followed by the binarized/context-coded bins, matching encode_cabac's
// writer.start(symbols->size()) plus per-symbol write loop.
func encodeEntropyPayload(tsc *TransformedSequenceConfig, values []uint64) ([]byte, error) {
	var buf bytes.Buffer
	bw := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(bw)
	if err := enc.EncodeBinsEP(uint32(len(values)), 32); err != nil {
		return nil, newError(Io, "writing sub-stream symbol count", err)
	}
	cs := cabac.NewContextSet()
	for i, v := range values {
		ctxIdx := contextOffset(tsc.ContextSelectionID, values[:i])
		if err := encodeSymbolBin(enc, cs, tsc, ctxIdx, v); err != nil {
			return nil, err
		}
	}
	if err := enc.Finish(); err != nil {
		return nil, newError(Io, "finishing sub-stream bitstream", err)
	}
	return buf.Bytes(), nil
}

// decodeEntropyPayload is the inverse of encodeEntropyPayload: it primes
// adaptive decoding at the exact seam between the bypass-coded count
// prefix and the (possibly context-coded) symbol body.
func decodeEntropyPayload(tsc *TransformedSequenceConfig, payload []byte) ([]uint64, error) {
	r := bio.NewReader(bytes.NewReader(payload))
	dec := cabac.NewDecoder(r)
	count, err := dec.DecodeBinsEP(32)
	if err != nil {
		return nil, wrapCabacErr(err)
	}
	if tsc.ContextSelectionID != ContextBypass {
		if err := dec.PrimeAdaptive(); err != nil {
			return nil, wrapCabacErr(err)
		}
	}
	cs := cabac.NewContextSet()
	values := make([]uint64, 0, count)
	for i := uint32(0); i < count; i++ {
		ctxIdx := contextOffset(tsc.ContextSelectionID, values)
		v, err := decodeSymbolBin(dec, cs, tsc, ctxIdx)
		if err != nil {
			return nil, wrapCabacErr(err)
		}
		values = append(values, v)
	}
	return values, nil
}

func wrapCabacErr(err error) error {
	if errors.Is(err, cabac.ErrTruncated) {
		return newError(Truncated, "entropy-coded stream ended early", err)
	}
	return newError(Io, "reading entropy-coded stream", err)
}

// writeFramed writes payload prefixed with its u32-LE length, the
// sub-stream framing spec.md §6 defines.
func writeFramed(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return newError(Io, "writing sub-stream length prefix", err)
	}
	if _, err := w.Write(payload); err != nil {
		return newError(Io, "writing sub-stream payload", err)
	}
	return nil
}

// readFramed reads one length-prefixed sub-stream payload. When
// tolerateEOF is true, a clean EOF on the length prefix itself (no bytes
// read) is reported as io.EOF rather than wrapped as a Truncated error --
// the caller uses this to distinguish "no more blocks" from a block that
// was cut short mid-way through its sub-streams.
func readFramed(r io.Reader, tolerateEOF bool) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF && tolerateEOF {
			return nil, io.EOF
		}
		return nil, newError(Truncated, "reading sub-stream length prefix", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, newError(Truncated, "reading sub-stream payload", err)
	}
	return payload, nil
}
