package tempo

import "errors"

// Error kinds reported by tempo map operations. Callers dispatch on these
// with errors.Is.
var (
	// ErrMalformedTempoEvent is reported when a tempo meta event carries a
	// payload that cannot encode a positive microseconds-per-quarter value.
	ErrMalformedTempoEvent = errors.New("malformed tempo event")

	// ErrUnsupportedDivision is reported for SMPTE-based time divisions.
	// Only ticks-per-quarter-note files are supported.
	ErrUnsupportedDivision = errors.New("unsupported time division")

	// ErrInvalidTempo is reported when a target tempo is zero or negative.
	ErrInvalidTempo = errors.New("invalid target tempo")

	// ErrEmptyDocument is reported when an operation needs a nonzero piece
	// length but the document has no events.
	ErrEmptyDocument = errors.New("empty document")
)
