package bio

import (
	"bytes"
	"io"
	"testing"
)

func TestWriterReaderRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		bits []struct {
			val uint32
			n   uint
		}
	}{
		{
			name: "single_bits",
			bits: []struct {
				val uint32
				n   uint
			}{{1, 1}, {0, 1}, {1, 1}},
		},
		{
			name: "byte_aligned",
			bits: []struct {
				val uint32
				n   uint
			}{{0xAB, 8}, {0xCD, 8}},
		},
		{
			name: "unaligned_32",
			bits: []struct {
				val uint32
				n   uint
			}{{0x2A, 8}, {0x1, 1}, {0xFFFFFFFF, 32}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			for _, b := range tt.bits {
				if err := w.WriteBits(b.val, b.n); err != nil {
					t.Fatalf("WriteBits: %v", err)
				}
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}

			r := NewReader(&buf)
			for i, b := range tt.bits {
				mask := uint32(1)<<b.n - 1
				if b.n == 32 {
					mask = 0xFFFFFFFF
				}
				got, err := r.ReadBits(b.n)
				if err != nil {
					t.Fatalf("bit group %d: ReadBits: %v", i, err)
				}
				if got != b.val&mask {
					t.Errorf("bit group %d: got %#x, want %#x", i, got, b.val&mask)
				}
			}
		})
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if _, err := r.ReadBit(); err != io.ErrUnexpectedEOF {
		t.Fatalf("got err=%v, want io.ErrUnexpectedEOF", err)
	}
}

func TestWriterAlign(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBits(0x3, 2); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.Bytes()[0]; got != 0xC0 {
		t.Errorf("got %#x, want %#x", got, 0xC0)
	}
}
