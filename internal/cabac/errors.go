package cabac

import "errors"

// ErrTruncated is returned when the bit stream ends before a renormalization
// step can complete -- the entropy payload's declared symbol count promised
// more bins than the stream actually contains.
var ErrTruncated = errors.New("cabac: truncated stream")

// errTruncated is kept as the internal name every call site already uses.
var errTruncated = ErrTruncated
