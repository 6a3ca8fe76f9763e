package gabac

import (
	"bytes"
	"testing"
)

// FuzzDecode feeds arbitrary bytes to Decode under a handful of fixed
// Configs: Decode must never panic, regardless of input, only return an
// error.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{}, 0)
	f.Add([]byte{0x01, 0x00, 0x00, 0x00, 0x2A}, 0)
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 1)
	f.Add([]byte{0x00}, 2)

	cfgs := []*Config{
		noTransformConfig(2 /* EG */, nil, ContextBypass),
		noTransformConfig(0 /* BI */, []uint{8}, ContextBypass),
		noTransformConfig(0 /* BI */, []uint{8}, ContextAdaptiveOrder0),
	}

	f.Fuzz(func(t *testing.T, data []byte, cfgIdx int) {
		cfg := cfgs[((cfgIdx%len(cfgs))+len(cfgs))%len(cfgs)]
		var out bytes.Buffer
		_ = Decode(cfg, bytes.NewReader(data), &out)
	})
}

// FuzzFromJSON feeds arbitrary bytes to FromJSON: malformed configuration
// JSON must produce an error, never a panic.
func FuzzFromJSON(f *testing.F) {
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"word_size": 1}`))
	f.Add([]byte(``))
	f.Add([]byte(`not json`))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = FromJSON(data)
	})
}

// FuzzEncodeDecodeRoundTrip checks that any byte slice, treated as a stream
// of single-byte symbols under a fixed BI-bypass config, round-trips
// exactly through Encode then Decode.
func FuzzEncodeDecodeRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0x01, 0x02, 0x03, 0xFF, 0xFE})

	cfg := noTransformConfig(0 /* BI */, []uint{8}, ContextBypass)

	f.Fuzz(func(t *testing.T, data []byte) {
		var encoded bytes.Buffer
		if err := Encode(cfg, 0, bytes.NewReader(data), &encoded); err != nil {
			t.Skip()
		}
		var decoded bytes.Buffer
		if err := Decode(cfg, bytes.NewReader(encoded.Bytes()), &decoded); err != nil {
			t.Fatalf("decode failed after successful encode: %v", err)
		}
		if !bytes.Equal(decoded.Bytes(), data) {
			t.Fatalf("round trip mismatch: got %v, want %v", decoded.Bytes(), data)
		}
	})
}
