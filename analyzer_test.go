package gabac

import (
	"bytes"
	"testing"
)

func TestAnalyzeRejectsEmptyStream(t *testing.T) {
	if _, err := Analyze(nil, 1); err == nil {
		t.Fatal("expected an error analyzing an empty stream")
	}
}

// TestAnalyzeConfigJSONRoundTrip checks property 7 from SPEC_FULL.md §8:
// every Config the analyzer produces survives a JSON round trip unchanged.
func TestAnalyzeConfigJSONRoundTrip(t *testing.T) {
	streams := [][]uint64{
		{7, 7, 7, 7, 7, 7, 7, 7},
		{0, 1, 2, 3, 4, 5, 6, 7},
		{1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3},
	}
	for _, symbols := range streams {
		cfg, err := Analyze(symbols, 1)
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		data, err := cfg.ToJSON()
		if err != nil {
			t.Fatalf("ToJSON: %v", err)
		}
		got, err := FromJSON(data)
		if err != nil {
			t.Fatalf("FromJSON: %v", err)
		}
		if !configsEqual(cfg, got) {
			t.Fatalf("analyzer config did not round-trip through JSON: %s vs %s", cfg, got)
		}
	}
}

// TestAnalyzePicksADecodableConfig exercises the analyzer end to end: the
// chosen configuration must actually round-trip the input it was tuned on.
func TestAnalyzePicksADecodableConfig(t *testing.T) {
	cases := []struct {
		name    string
		symbols []uint64
	}{
		{"constant_run", []uint64{7, 7, 7, 7, 7, 7, 7, 7}},
		{"ramp", []uint64{0, 1, 2, 3, 4, 5, 6, 7}},
		{"repeating_pattern", []uint64{1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Analyze(tc.symbols, 1)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}

			input := make([]byte, len(tc.symbols))
			for i, s := range tc.symbols {
				input[i] = byte(s)
			}

			got := roundTrip(t, cfg, input)
			if !bytes.Equal(got, input) {
				t.Fatalf("analyzed config did not round-trip: got %v, want %v", got, input)
			}
		})
	}
}
