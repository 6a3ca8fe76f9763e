package binarization

import (
	"bytes"
	"testing"

	"github.com/go-gabac/gabac/internal/bio"
	"github.com/go-gabac/gabac/internal/cabac"
)

// newAdaptiveDecoder returns a Decoder primed to read context-coded bins,
// mirroring how a real sub-stream's adaptive body is entered: there is no
// bypass prefix in these tests, so PrimeAdaptive runs at offset zero.
func newAdaptiveDecoder(t *testing.T, buf *bytes.Buffer) *cabac.Decoder {
	t.Helper()
	r := bio.NewReader(buf)
	dec := cabac.NewDecoder(r)
	if err := dec.PrimeAdaptive(); err != nil {
		t.Fatalf("PrimeAdaptive: %v", err)
	}
	return dec
}

func TestBIRoundtrip(t *testing.T) {
	for cLength := uint(1); cLength <= 16; cLength++ {
		var buf bytes.Buffer
		w := bio.NewWriter(&buf)
		enc := cabac.NewEncoder(w)
		cs := cabac.NewContextSet()
		values := []uint64{0, 1, (uint64(1) << cLength) - 1}
		for _, v := range values {
			if err := EncodeBICabac(enc, cs, 0, v, cLength); err != nil {
				t.Fatalf("cLength=%d: EncodeBICabac: %v", cLength, err)
			}
		}
		if err := enc.Finish(); err != nil {
			t.Fatal(err)
		}

		dec := newAdaptiveDecoder(t, &buf)
		cs2 := cabac.NewContextSet()
		for i, want := range values {
			got, err := DecodeBICabac(dec, cs2, 0, cLength)
			if err != nil {
				t.Fatalf("cLength=%d value %d: DecodeBICabac: %v", cLength, i, err)
			}
			if got != want {
				t.Errorf("cLength=%d value %d: got %d, want %d", cLength, i, got, want)
			}
		}
	}
}

func TestBIBypassRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	values := []uint64{0, 1, 0xFFFFFFFF}
	for _, v := range values {
		if err := EncodeBIBypass(enc, v, 32); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	r := bio.NewReader(&buf)
	dec := cabac.NewDecoder(r)
	for i, want := range values {
		got, err := DecodeBIBypass(dec, 32)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestTURoundtrip(t *testing.T) {
	const cMax = 10
	values := []uint64{0, 1, 5, cMax}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	cs := cabac.NewContextSet()
	for _, v := range values {
		if err := EncodeTUCabac(enc, cs, 0, v, cMax); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	dec := newAdaptiveDecoder(t, &buf)
	cs2 := cabac.NewContextSet()
	for i, want := range values {
		got, err := DecodeTUCabac(dec, cs2, 0, cMax)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestEGRoundtrip(t *testing.T) {
	values := []uint64{0, 1, 2, 7, 8, 255, 1000, 1 << 20}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	cs := cabac.NewContextSet()
	for _, v := range values {
		if err := EncodeEGCabac(enc, cs, 0, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	dec := newAdaptiveDecoder(t, &buf)
	cs2 := cabac.NewContextSet()
	for i, want := range values {
		got, err := DecodeEGCabac(dec, cs2, 0)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestEGBypassRoundtrip(t *testing.T) {
	values := []uint64{0, 1, 2, 7, 8, 255, 1000}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	for _, v := range values {
		if err := EncodeEGBypass(enc, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	r := bio.NewReader(&buf)
	dec := cabac.NewDecoder(r)
	for i, want := range values {
		got, err := DecodeEGBypass(dec)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestSEGRoundtrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 100, -100}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	cs := cabac.NewContextSet()
	for _, v := range values {
		if err := EncodeSEGCabac(enc, cs, 0, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	dec := newAdaptiveDecoder(t, &buf)
	cs2 := cabac.NewContextSet()
	for i, want := range values {
		got, err := DecodeSEGCabac(dec, cs2, 0)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestTEGRoundtrip(t *testing.T) {
	const param = 4
	values := []uint64{0, 1, 3, 4, 5, 100}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	cs := cabac.NewContextSet()
	for _, v := range values {
		if err := EncodeTEGCabac(enc, cs, 0, v, param); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	dec := newAdaptiveDecoder(t, &buf)
	cs2 := cabac.NewContextSet()
	for i, want := range values {
		got, err := DecodeTEGCabac(dec, cs2, 0, param)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestSTEGRoundtrip(t *testing.T) {
	const param = 4
	values := []int64{0, 1, -1, 3, -3, 4, -4, 100, -100}

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	enc := cabac.NewEncoder(w)
	cs := cabac.NewContextSet()
	for _, v := range values {
		if err := EncodeSTEGCabac(enc, cs, 0, v, param); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finish(); err != nil {
		t.Fatal(err)
	}

	dec := newAdaptiveDecoder(t, &buf)
	cs2 := cabac.NewContextSet()
	for i, want := range values {
		got, err := DecodeSTEGCabac(dec, cs2, 0, param)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Errorf("value %d: got %d, want %d", i, got, want)
		}
	}
}
