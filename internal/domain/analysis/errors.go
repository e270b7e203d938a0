package analysis

import "errors"

// ErrInvalidInput indicates a caller mistake (missing image and text, or an
// empty follow-up question). Mapped to HTTP 400 and not logged as an error.
var ErrInvalidInput = errors.New("invalid input")

// ErrUpstreamFormat indicates the inference provider returned a payload that
// does not conform to the requested schema. The analysis path never retries
// this: structured-output generation failing to parse means the call is lost.
var ErrUpstreamFormat = errors.New("upstream returned non-conforming payload")
