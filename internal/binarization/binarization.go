// Package binarization implements the six integer-to-bin mappings gabac
// uses to feed values through the CABAC engine: binary (BI), truncated
// unary (TU), exponential Golomb (EG), signed EG (SEG), truncated EG (TEG)
// and signed truncated EG (STEG). Each has a bypass (equiprobable) and a
// CABAC-adaptive encoding, ported from the original gabac writer.cpp and
// reader.cpp onto internal/cabac's Encoder/Decoder.
package binarization

import (
	"math/bits"

	"github.com/go-gabac/gabac/internal/cabac"
)

// ID identifies a binarization scheme.
type ID int

const (
	BI ID = iota
	TU
	EG
	SEG
	TEG
	STEG
)

func (id ID) String() string {
	switch id {
	case BI:
		return "BI"
	case TU:
		return "TU"
	case EG:
		return "EG"
	case SEG:
		return "SEG"
	case TEG:
		return "TEG"
	case STEG:
		return "STEG"
	default:
		return "unknown"
	}
}

// egPrefixSuffixLen returns the combined prefix+suffix bit length Exp-Golomb
// uses to represent input+1, matching writer.cpp's bitLength-derived formula.
func egPrefixSuffixLen(v uint64) int {
	return (bits.Len64(v)-1)<<1 + 1
}

// --- BI: fixed-width binary ---

// EncodeBIBypass writes the cLength low bits of v, MSB first, as equiprobable bins.
func EncodeBIBypass(e *cabac.Encoder, v uint64, cLength uint) error {
	return e.EncodeBinsEP(uint32(v), cLength)
}

// DecodeBIBypass reads cLength equiprobable bins as an unsigned integer.
func DecodeBIBypass(d *cabac.Decoder, cLength uint) (uint64, error) {
	v, err := d.DecodeBinsEP(cLength)
	return uint64(v), err
}

// EncodeBICabac writes the cLength low bits of v through adaptive contexts
// cs.ForBI(contextSetIdx, 0..cLength-1).
func EncodeBICabac(e *cabac.Encoder, cs *cabac.ContextSet, contextSetIdx int, v uint64, cLength uint) error {
	for i := uint(0); i < cLength; i++ {
		bin := int((v >> (cLength - i - 1)) & 1)
		if err := e.EncodeBin(cs.ForBI(contextSetIdx, int(i)), bin); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBICabac is the adaptive-context counterpart of DecodeBIBypass.
func DecodeBICabac(d *cabac.Decoder, cs *cabac.ContextSet, contextSetIdx int, cLength uint) (uint64, error) {
	var v uint64
	for i := uint(0); i < cLength; i++ {
		bin, err := d.DecodeBin(cs.ForBI(contextSetIdx, int(i)))
		if err != nil {
			return 0, err
		}
		v = (v << 1) | uint64(bin)
	}
	return v, nil
}

// --- TU: truncated unary ---

// EncodeTUBypass writes input ones followed by a terminating zero, omitted
// when input reaches cMax.
func EncodeTUBypass(e *cabac.Encoder, input uint64, cMax uint64) error {
	for i := uint64(0); i < input; i++ {
		if err := e.EncodeBinEP(1); err != nil {
			return err
		}
	}
	if input != cMax {
		return e.EncodeBinEP(0)
	}
	return nil
}

// DecodeTUBypass reads a truncated-unary value bounded by cMax.
func DecodeTUBypass(d *cabac.Decoder, cMax uint64) (uint64, error) {
	var i uint64
	if cMax == 0 {
		return 0, nil
	}
	for {
		bit, err := d.DecodeBinEP()
		if err != nil {
			return 0, err
		}
		if bit != 1 {
			return i, nil
		}
		i++
		if i == cMax {
			return i, nil
		}
	}
}

// EncodeTUCabac writes a truncated-unary value using one adaptive context
// per unary position (cs.ForTU(contextSetIdx, i)).
func EncodeTUCabac(e *cabac.Encoder, cs *cabac.ContextSet, contextSetIdx int, input uint64, cMax uint64) error {
	i := 0
	for uint64(i) < input {
		if err := e.EncodeBin(cs.ForTU(contextSetIdx, i), 1); err != nil {
			return err
		}
		i++
	}
	if input != cMax {
		return e.EncodeBin(cs.ForTU(contextSetIdx, i), 0)
	}
	return nil
}

// DecodeTUCabac is the adaptive-context counterpart of DecodeTUBypass.
func DecodeTUCabac(d *cabac.Decoder, cs *cabac.ContextSet, contextSetIdx int, cMax uint64) (uint64, error) {
	i := 0
	if cMax == 0 {
		return 0, nil
	}
	for {
		bin, err := d.DecodeBin(cs.ForTU(contextSetIdx, i))
		if err != nil {
			return 0, err
		}
		if bin != 1 {
			return uint64(i), nil
		}
		i++
		if uint64(i) == cMax {
			return uint64(i), nil
		}
	}
}

// --- EG: exponential Golomb ---

// EncodeEGBypass writes input via unsigned Exp-Golomb coding.
func EncodeEGBypass(e *cabac.Encoder, input uint64) error {
	input++
	length := egPrefixSuffixLen(input)
	return e.EncodeBinsEP(uint32(input), uint(length))
}

// DecodeEGBypass reads an unsigned Exp-Golomb-coded value.
func DecodeEGBypass(d *cabac.Decoder) (uint64, error) {
	var i uint
	for {
		bit, err := d.DecodeBinEP()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			break
		}
		i++
	}
	if i == 0 {
		return 0, nil
	}
	suffix, err := d.DecodeBinsEP(i)
	if err != nil {
		return 0, err
	}
	bins := (uint64(1) << i) | uint64(suffix)
	return bins - 1, nil
}

// EncodeEGCabac writes the unary prefix through adaptive contexts
// (cs.ForEG(contextSetIdx, i)) and the suffix as bypass bins.
func EncodeEGCabac(e *cabac.Encoder, cs *cabac.ContextSet, contextSetIdx int, input uint64) error {
	input++
	length := egPrefixSuffixLen(input)
	suffixSizeMinus1 := length >> 1

	i := 0
	for ; i < suffixSizeMinus1; i++ {
		if err := e.EncodeBin(cs.ForEG(contextSetIdx, i), 0); err != nil {
			return err
		}
	}
	if i < length {
		if err := e.EncodeBin(cs.ForEG(contextSetIdx, i), 1); err != nil {
			return err
		}
		length -= i + 1
		if length != 0 {
			input -= uint64(1) << uint(length)
			return e.EncodeBinsEP(uint32(input), uint(length))
		}
	}
	return nil
}

// DecodeEGCabac is the adaptive-context counterpart of DecodeEGBypass.
func DecodeEGCabac(d *cabac.Decoder, cs *cabac.ContextSet, contextSetIdx int) (uint64, error) {
	i := 0
	for {
		bin, err := d.DecodeBin(cs.ForEG(contextSetIdx, i))
		if err != nil {
			return 0, err
		}
		if bin != 0 {
			break
		}
		i++
	}
	if i == 0 {
		return 0, nil
	}
	suffix, err := d.DecodeBinsEP(uint(i))
	if err != nil {
		return 0, err
	}
	bins := (uint64(1) << uint(i)) | uint64(suffix)
	return bins - 1, nil
}

// --- SEG: signed exponential Golomb, zig-zag mapped onto EG ---

func segZigZag(input int64) uint64 {
	if input <= 0 {
		return uint64(-input) << 1
	}
	return (uint64(input) << 1) - 1
}

func segUnZigZag(tmp uint64) int64 {
	if tmp&1 == 0 {
		if tmp == 0 {
			return 0
		}
		return -int64(tmp >> 1)
	}
	return int64((tmp + 1) >> 1)
}

// EncodeSEGBypass writes a signed value via zig-zag-mapped Exp-Golomb coding.
func EncodeSEGBypass(e *cabac.Encoder, input int64) error {
	return EncodeEGBypass(e, segZigZag(input))
}

// DecodeSEGBypass reads a signed Exp-Golomb-coded value.
func DecodeSEGBypass(d *cabac.Decoder) (int64, error) {
	tmp, err := DecodeEGBypass(d)
	if err != nil {
		return 0, err
	}
	return segUnZigZag(tmp), nil
}

// EncodeSEGCabac is the adaptive-context counterpart of EncodeSEGBypass.
func EncodeSEGCabac(e *cabac.Encoder, cs *cabac.ContextSet, contextSetIdx int, input int64) error {
	return EncodeEGCabac(e, cs, contextSetIdx, segZigZag(input))
}

// DecodeSEGCabac is the adaptive-context counterpart of DecodeSEGBypass.
func DecodeSEGCabac(d *cabac.Decoder, cs *cabac.ContextSet, contextSetIdx int) (int64, error) {
	tmp, err := DecodeEGCabac(d, cs, contextSetIdx)
	if err != nil {
		return 0, err
	}
	return segUnZigZag(tmp), nil
}

// --- TEG: truncated exponential Golomb (TU prefix, EG overflow) ---

// EncodeTEGBypass writes input as a truncated-unary value capped at param,
// following up with an Exp-Golomb-coded remainder if the cap was reached.
func EncodeTEGBypass(e *cabac.Encoder, input uint64, param uint64) error {
	if input < param {
		return EncodeTUBypass(e, input, param)
	}
	if err := EncodeTUBypass(e, param, param); err != nil {
		return err
	}
	return EncodeEGBypass(e, input-param)
}

// DecodeTEGBypass is the inverse of EncodeTEGBypass.
func DecodeTEGBypass(d *cabac.Decoder, param uint64) (uint64, error) {
	value, err := DecodeTUBypass(d, param)
	if err != nil {
		return 0, err
	}
	if value == param {
		rest, err := DecodeEGBypass(d)
		if err != nil {
			return 0, err
		}
		value += rest
	}
	return value, nil
}

// EncodeTEGCabac is the adaptive-context counterpart of EncodeTEGBypass.
func EncodeTEGCabac(e *cabac.Encoder, cs *cabac.ContextSet, contextSetIdx int, input uint64, param uint64) error {
	if input < param {
		return EncodeTUCabac(e, cs, contextSetIdx, input, param)
	}
	if err := EncodeTUCabac(e, cs, contextSetIdx, param, param); err != nil {
		return err
	}
	return EncodeEGCabac(e, cs, contextSetIdx, input-param)
}

// DecodeTEGCabac is the adaptive-context counterpart of DecodeTEGBypass.
func DecodeTEGCabac(d *cabac.Decoder, cs *cabac.ContextSet, contextSetIdx int, param uint64) (uint64, error) {
	value, err := DecodeTUCabac(d, cs, contextSetIdx, param)
	if err != nil {
		return 0, err
	}
	if value == param {
		rest, err := DecodeEGCabac(d, cs, contextSetIdx)
		if err != nil {
			return 0, err
		}
		value += rest
	}
	return value, nil
}

// --- STEG: signed truncated exponential Golomb (TEG magnitude + sign bit) ---

// EncodeSTEGBypass writes a signed value as a TEG-coded magnitude followed
// by a bypass sign bin, omitted for a zero magnitude.
func EncodeSTEGBypass(e *cabac.Encoder, input int64, param uint64) error {
	switch {
	case input < 0:
		if err := EncodeTEGBypass(e, uint64(-input), param); err != nil {
			return err
		}
		return EncodeBIBypass(e, 1, 1)
	case input > 0:
		if err := EncodeTEGBypass(e, uint64(input), param); err != nil {
			return err
		}
		return EncodeBIBypass(e, 0, 1)
	default:
		return EncodeTEGBypass(e, 0, param)
	}
}

// DecodeSTEGBypass is the inverse of EncodeSTEGBypass.
func DecodeSTEGBypass(d *cabac.Decoder, param uint64) (int64, error) {
	value, err := DecodeTEGBypass(d, param)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, nil
	}
	sign, err := DecodeBIBypass(d, 1)
	if err != nil {
		return 0, err
	}
	if sign == 1 {
		return -int64(value), nil
	}
	return int64(value), nil
}

// EncodeSTEGCabac is the adaptive-context counterpart of EncodeSTEGBypass.
func EncodeSTEGCabac(e *cabac.Encoder, cs *cabac.ContextSet, contextSetIdx int, input int64, param uint64) error {
	switch {
	case input < 0:
		if err := EncodeTEGCabac(e, cs, contextSetIdx, uint64(-input), param); err != nil {
			return err
		}
		return EncodeBICabac(e, cs, contextSetIdx, 1, 1)
	case input > 0:
		if err := EncodeTEGCabac(e, cs, contextSetIdx, uint64(input), param); err != nil {
			return err
		}
		return EncodeBICabac(e, cs, contextSetIdx, 0, 1)
	default:
		return EncodeTEGCabac(e, cs, contextSetIdx, 0, param)
	}
}

// DecodeSTEGCabac is the adaptive-context counterpart of DecodeSTEGBypass.
func DecodeSTEGCabac(d *cabac.Decoder, cs *cabac.ContextSet, contextSetIdx int, param uint64) (int64, error) {
	value, err := DecodeTEGCabac(d, cs, contextSetIdx, param)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, nil
	}
	sign, err := DecodeBICabac(d, cs, contextSetIdx, 1)
	if err != nil {
		return 0, err
	}
	if sign == 1 {
		return -int64(value), nil
	}
	return int64(value), nil
}
