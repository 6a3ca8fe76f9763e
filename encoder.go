package gabac

import (
	"io"
	"time"

	"github.com/go-gabac/gabac/internal/binarization"
	"github.com/go-gabac/gabac/internal/bio"
	"github.com/go-gabac/gabac/internal/logging"
	"github.com/go-gabac/gabac/internal/metrics"
	"github.com/go-gabac/gabac/internal/transform"
)

// Encode reads raw from r in blockSize-byte chunks (blockSize <= 0 means
// "one block, the whole stream"), reinterprets each chunk as a sequence of
// WordSize-byte symbols, and writes the encoded block stream to w. It
// mirrors the original's block loop: read bytes, transform the sequence
// once, encode each resulting sub-stream, repeat until the input is
// exhausted.
func Encode(cfg *Config, blockSize int, r io.Reader, w io.Writer) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	wordSize := bio.WordSize(cfg.WordSize)
	for {
		raw, err := readBlockBytes(r, blockSize, int(wordSize))
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		symbols := bio.BytesToSymbols(wordSize, raw)
		start := time.Now()
		err = encodeBlock(cfg, symbols, w)
		metrics.BlockEncodeSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		metrics.BlocksEncoded.Inc()
		metrics.Bytes.WithLabelValues("in").Add(float64(len(raw)))
		logging.L().Debug("block_encoded", "symbols", len(symbols))
		if blockSize <= 0 {
			return nil
		}
	}
}

// readBlockBytes reads the next block's raw bytes. With blockSize <= 0 the
// whole reader is drained as a single block. With blockSize > 0, a clean
// zero-byte read reports io.EOF; a short final read is accepted as the
// stream's last, partial block so long as it is still word-aligned.
func readBlockBytes(r io.Reader, blockSize, wordSize int) ([]byte, error) {
	if blockSize <= 0 {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, newError(Io, "reading input stream", err)
		}
		if len(raw) == 0 {
			return nil, io.EOF
		}
		if len(raw)%wordSize != 0 {
			return nil, newError(ConfigInvalid, "input length is not a multiple of word_size", nil)
		}
		return raw, nil
	}

	buf := make([]byte, blockSize)
	n, err := io.ReadFull(r, buf)
	if n == 0 && err == io.EOF {
		return nil, io.EOF
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, newError(Io, "reading input block", err)
	}
	buf = buf[:n]
	if len(buf)%wordSize != 0 {
		return nil, newError(ConfigInvalid, "final block length is not a multiple of word_size", nil)
	}
	return buf, nil
}

// encodeBlock applies the block's sequence transform and writes each
// resulting sub-stream in TransformedSequenceConfigs order.
func encodeBlock(cfg *Config, symbols []uint64, w io.Writer) error {
	sequences := splitSequence(cfg, symbols)
	if len(sequences) != len(cfg.TransformedSequenceConfigs) {
		return newError(Internal, "sequence transform produced an unexpected sub-stream count", nil)
	}
	for i, seq := range sequences {
		tsc := &cfg.TransformedSequenceConfigs[i]
		if err := encodeSingleSequence(w, tsc, seq); err != nil {
			return err
		}
	}
	return nil
}

// encodeSingleSequence runs one sub-stream through its LUT remap, its diff
// transform, and finally entropy coding, writing each framed payload as it
// is produced -- the LUT table(s) precede the main transformed-sequence
// payload on the wire.
func encodeSingleSequence(w io.Writer, tsc *TransformedSequenceConfig, seq []uint64) error {
	working := seq
	if tsc.LUTTransformEnabled {
		lo := transform.BuildLUTOrder(int(tsc.LUTOrder), working)
		transformed := transform.LUTEncode(lo, working)

		if err := writeLUTValues(w, lo.Base.Inverse, tsc.LUTBits); err != nil {
			return err
		}

		if tsc.LUTOrder > 0 {
			k := len(lo.Base.Inverse)
			bits1 := uint(1)
			if k > 1 {
				bits1 = bitsFor(uint64(k - 1))
			}
			if err := writeLUTValues(w, lo.Table, bits1); err != nil {
				return err
			}
		}

		working = transformed
	}

	if tsc.DiffCodingEnabled {
		working = transform.DiffEncode(working)
	}

	payload, err := encodeEntropyPayload(tsc, working)
	if err != nil {
		return err
	}
	return writeFramed(w, payload)
}

// writeLUTValues frames one LUT table as its own sub-stream, entropy coded
// bypass-BI at a fixed bit width -- the table payload(s) encodeSingleSequence
// writes ahead of the main transformed-sequence payload.
func writeLUTValues(w io.Writer, values []uint64, bits uint) error {
	fixed := &TransformedSequenceConfig{
		BinarizationID:     binarization.BI,
		BinarizationParams: []uint{bits},
		ContextSelectionID: ContextBypass,
	}
	payload, err := encodeEntropyPayload(fixed, values)
	if err != nil {
		return err
	}
	return writeFramed(w, payload)
}
