package gabac

import (
	"bytes"
	"testing"

	"github.com/go-gabac/gabac/internal/binarization"
)

func noTransformConfig(binID binarization.ID, params []uint, ctx ContextSelectionID) *Config {
	return &Config{
		WordSize:                 1,
		SequenceTransformationID: SeqTransformNone,
		TransformedSequenceConfigs: []TransformedSequenceConfig{{
			BinarizationID:     binID,
			BinarizationParams: params,
			ContextSelectionID: ctx,
		}},
	}
}

func roundTrip(t *testing.T, cfg *Config, input []byte) []byte {
	t.Helper()
	var encoded bytes.Buffer
	if err := Encode(cfg, 0, bytes.NewReader(input), &encoded); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded bytes.Buffer
	if err := Decode(cfg, bytes.NewReader(encoded.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return decoded.Bytes()
}

// Seed scenario 1: empty stream round-trips to nothing, with no byte output
// for an empty input block (Encode treats a zero-length input as "no
// blocks", matching decode's clean-EOF detection).
func TestEmptyStream(t *testing.T) {
	cfg := noTransformConfig(binarization.EG, nil, ContextBypass)
	got := roundTrip(t, cfg, []byte{})
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

// Seed scenario 2: a single BI-bypass symbol round-trips, and its entropy
// payload is exactly a 32-bit count of 1 followed by the 8-bit pattern of
// 0x2A.
func TestSingleSymbolBIBypass(t *testing.T) {
	cfg := noTransformConfig(binarization.BI, []uint{8}, ContextBypass)
	got := roundTrip(t, cfg, []byte{0x2A})
	if !bytes.Equal(got, []byte{0x2A}) {
		t.Fatalf("got %v, want [0x2A]", got)
	}

	tsc := &cfg.TransformedSequenceConfigs[0]
	payload, err := encodeEntropyPayload(tsc, []uint64{0x2A})
	if err != nil {
		t.Fatalf("encodeEntropyPayload: %v", err)
	}
	// 32-bit EP count (1) + 8 EP bits for 0x2A, packed MSB-first: the first
	// 4 bytes are the count, the 5th byte holds the 8-bit value itself.
	if len(payload) < 5 {
		t.Fatalf("payload too short: %d bytes", len(payload))
	}
	if payload[4] != 0x2A {
		t.Fatalf("payload[4] = %#x, want 0x2a", payload[4])
	}
}

// Seed scenario 3: an equality-coded run. flags=[0,1,1,0,1] in all sources;
// raw values follow the equality.go/original C++ decrement rule (4,6), not
// the spec's worked example (5,6) -- see DESIGN.md.
func TestEqualityRun(t *testing.T) {
	cfg := &Config{
		WordSize:                 1,
		SequenceTransformationID: SeqTransformEquality,
		TransformedSequenceConfigs: []TransformedSequenceConfig{
			{BinarizationID: binarization.EG, ContextSelectionID: ContextBypass},
			{BinarizationID: binarization.BI, BinarizationParams: []uint{1}, ContextSelectionID: ContextBypass},
		},
	}
	input := []byte{5, 5, 5, 7, 7}
	seqs := splitSequence(cfg, bytesToUint64(input))
	values, flags := seqs[0], seqs[1]
	wantValues := []uint64{4, 6}
	wantFlags := []uint64{0, 1, 1, 0, 1}
	if !equalUint64(values, wantValues) {
		t.Fatalf("values = %v, want %v", values, wantValues)
	}
	if !equalUint64(flags, wantFlags) {
		t.Fatalf("flags = %v, want %v", flags, wantFlags)
	}

	got := roundTrip(t, cfg, input)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip got %v, want %v", got, input)
	}
}

// Seed scenario 4: RLE with guard=2 over five equal symbols.
func TestRLEWithGuard(t *testing.T) {
	cfg := &Config{
		WordSize:                        1,
		SequenceTransformationID:        SeqTransformRLE,
		SequenceTransformationParameter: 2,
		TransformedSequenceConfigs: []TransformedSequenceConfig{
			{BinarizationID: binarization.EG, ContextSelectionID: ContextBypass},
			{BinarizationID: binarization.TU, BinarizationParams: []uint{2}, ContextSelectionID: ContextBypass},
		},
	}
	input := []byte{3, 3, 3, 3, 3}
	seqs := splitSequence(cfg, bytesToUint64(input))
	rawValues, lengths := seqs[0], seqs[1]
	if !equalUint64(rawValues, []uint64{3}) {
		t.Fatalf("rawValues = %v, want [3]", rawValues)
	}
	if !equalUint64(lengths, []uint64{2, 2, 0}) {
		t.Fatalf("lengths = %v, want [2,2,0]", lengths)
	}

	got := roundTrip(t, cfg, input)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip got %v, want %v", got, input)
	}
}

// Seed scenario 5: match coding with window=4.
func TestMatchWithWindow(t *testing.T) {
	cfg := &Config{
		WordSize:                        1,
		SequenceTransformationID:        SeqTransformMatch,
		SequenceTransformationParameter: 4,
		TransformedSequenceConfigs: []TransformedSequenceConfig{
			{BinarizationID: binarization.EG, ContextSelectionID: ContextBypass},
			{BinarizationID: binarization.BI, BinarizationParams: []uint{4}, ContextSelectionID: ContextBypass},
			{BinarizationID: binarization.BI, BinarizationParams: []uint{4}, ContextSelectionID: ContextBypass},
		},
	}
	input := []byte{255, 2, 253, 4, 2, 253, 4, 255}
	seqs := splitSequence(cfg, bytesToUint64(input))
	rawValues, pointers, lengths := seqs[0], seqs[1], seqs[2]
	if !equalUint64(rawValues, []uint64{255, 2, 253, 4, 255}) {
		t.Fatalf("rawValues = %v", rawValues)
	}
	if !equalUint64(pointers, []uint64{3}) {
		t.Fatalf("pointers = %v", pointers)
	}
	if !equalUint64(lengths, []uint64{0, 0, 0, 0, 3, 0}) {
		t.Fatalf("lengths = %v", lengths)
	}

	got := roundTrip(t, cfg, input)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip got %v, want %v", got, input)
	}
}

// Seed scenario 6: BI round-trip for every p in 1..16 and a sample of nine
// v values per p, bypass and AdaptiveOrder0, as a single-symbol stream.
func TestBIRoundTripAllParams(t *testing.T) {
	for p := uint(1); p <= 16; p++ {
		for _, ctx := range []ContextSelectionID{ContextBypass, ContextAdaptiveOrder0} {
			cfg := noTransformConfig(binarization.BI, []uint{p}, ctx)
			max := uint64(1) << p
			for v := uint64(0); v < max; v += max / 8 + 1 {
				tsc := &cfg.TransformedSequenceConfigs[0]
				payload, err := encodeEntropyPayload(tsc, []uint64{v})
				if err != nil {
					t.Fatalf("p=%d ctx=%v v=%d encode: %v", p, ctx, v, err)
				}
				got, err := decodeEntropyPayload(tsc, payload)
				if err != nil {
					t.Fatalf("p=%d ctx=%v v=%d decode: %v", p, ctx, v, err)
				}
				if len(got) != 1 || got[0] != v {
					t.Fatalf("p=%d ctx=%v v=%d got %v", p, ctx, v, got)
				}
			}
		}
	}
}

// LUT order 1/2 round-trip (SPEC_FULL.md §8 scenario 9): a representative
// symbol stream survives the LUT transform at both orders.
func TestLUTOrderRoundTrip(t *testing.T) {
	for _, order := range []uint{1, 2} {
		cfg := &Config{
			WordSize:                 1,
			SequenceTransformationID: SeqTransformNone,
			TransformedSequenceConfigs: []TransformedSequenceConfig{{
				LUTTransformEnabled: true,
				LUTBits:             8,
				LUTOrder:            order,
				BinarizationID:      binarization.EG,
				ContextSelectionID:  ContextAdaptiveOrder0,
			}},
		}
		input := []byte{1, 2, 3, 1, 2, 4, 1, 2, 3, 1, 2, 4, 5, 5, 5}
		got := roundTrip(t, cfg, input)
		if !bytes.Equal(got, input) {
			t.Fatalf("order %d: got %v, want %v", order, got, input)
		}
	}
}

func bytesToUint64(b []byte) []uint64 {
	out := make([]uint64, len(b))
	for i, v := range b {
		out[i] = uint64(v)
	}
	return out
}

func equalUint64(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
