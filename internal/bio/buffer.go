package bio

import "encoding/binary"

// WordSize is the byte width of one symbol in a SymbolBuffer: 1, 2, 4, or 8.
type WordSize uint8

// Valid reports whether w is one of the four permitted word sizes.
func (w WordSize) Valid() bool {
	switch w {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// SymbolBuffer is a word-size-aware, little-endian byte buffer: a flat
// []byte viewed as a sequence of fixed-width unsigned integers. It is the
// single word-size-aware buffer type in this repository (see DESIGN.md open
// question #2: the original carries two divergent DataBlock/DataStream
// types; this repository uses one). The driver and the transforms work on
// plain []uint64 slices; BytesToSymbols and SymbolsToBytes use a
// SymbolBuffer to convert between those slices and raw block bytes.
//
// Aliasing an external []byte at WordSize 1 is zero-copy:
// NewSymbolBufferBytes just wraps it.
type SymbolBuffer struct {
	data []byte
	w    WordSize
}

// NewSymbolBuffer creates an empty buffer with the given word size.
func NewSymbolBuffer(w WordSize) *SymbolBuffer {
	return &SymbolBuffer{w: w}
}

// NewSymbolBufferBytes wraps raw bytes as a WordSize(1) buffer with no copy.
func NewSymbolBufferBytes(b []byte) *SymbolBuffer {
	return &SymbolBuffer{data: b, w: 1}
}

// WordSize returns the buffer's word size.
func (b *SymbolBuffer) WordSize() WordSize { return b.w }

// Len returns the number of symbols stored.
func (b *SymbolBuffer) Len() int {
	if b.w == 0 {
		return 0
	}
	return len(b.data) / int(b.w)
}

// Bytes returns the raw backing bytes.
func (b *SymbolBuffer) Bytes() []byte { return b.data }

// Get returns the symbol at index i as a u64.
func (b *SymbolBuffer) Get(i int) uint64 {
	off := i * int(b.w)
	switch b.w {
	case 1:
		return uint64(b.data[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b.data[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b.data[off:]))
	default:
		return binary.LittleEndian.Uint64(b.data[off:])
	}
}

// Set overwrites the symbol at index i.
func (b *SymbolBuffer) Set(i int, v uint64) {
	off := i * int(b.w)
	switch b.w {
	case 1:
		b.data[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b.data[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b.data[off:], uint32(v))
	default:
		binary.LittleEndian.PutUint64(b.data[off:], v)
	}
}

// Push appends one symbol, growing the buffer by one word.
func (b *SymbolBuffer) Push(v uint64) {
	var tmp [8]byte
	switch b.w {
	case 1:
		b.data = append(b.data, byte(v))
		return
	case 2:
		binary.LittleEndian.PutUint16(tmp[:2], uint16(v))
		b.data = append(b.data, tmp[:2]...)
		return
	case 4:
		binary.LittleEndian.PutUint32(tmp[:4], uint32(v))
		b.data = append(b.data, tmp[:4]...)
		return
	default:
		binary.LittleEndian.PutUint64(tmp[:8], v)
		b.data = append(b.data, tmp[:8]...)
		return
	}
}

// Resize grows or shrinks the buffer to hold exactly n symbols, zero-filling
// any newly added space.
func (b *SymbolBuffer) Resize(n int) {
	want := n * int(b.w)
	if want <= len(b.data) {
		b.data = b.data[:want]
		return
	}
	b.data = append(b.data, make([]byte, want-len(b.data))...)
}

// Swap exchanges the contents (including word size) of b and other.
func (b *SymbolBuffer) Swap(other *SymbolBuffer) {
	b.data, other.data = other.data, b.data
	b.w, other.w = other.w, b.w
}

// Max returns the largest symbol value in the buffer, or 0 if empty.
func (b *SymbolBuffer) Max() uint64 {
	var max uint64
	for i := 0; i < b.Len(); i++ {
		if v := b.Get(i); v > max {
			max = v
		}
	}
	return max
}

// BytesToSymbols reinterprets raw as a sequence of little-endian unsigned
// integers of width w, the driver's block-ingestion step.
func BytesToSymbols(w WordSize, raw []byte) []uint64 {
	b := &SymbolBuffer{data: raw, w: w}
	out := make([]uint64, b.Len())
	for i := range out {
		out[i] = b.Get(i)
	}
	return out
}

// SymbolsToBytes is the inverse of BytesToSymbols.
func SymbolsToBytes(w WordSize, symbols []uint64) []byte {
	b := NewSymbolBuffer(w)
	for _, s := range symbols {
		b.Push(s)
	}
	return b.Bytes()
}
