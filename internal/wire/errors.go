package wire

import "errors"

var (
	// ErrOutOfBounds is returned by any buffer access that would touch
	// an offset at or beyond the 512-octet capacity.
	ErrOutOfBounds = errors.New("wire: access out of bounds")

	// ErrJumpLimit is returned when a chain of name compression pointers
	// exceeds the jump limit. Required to stop circular pointer chains
	// from looping forever.
	ErrJumpLimit = errors.New("wire: compression jump limit exceeded")

	// ErrNameTooLong is returned when an outbound domain name encodes to
	// more than 255 octets (RFC 1035 Section 2.3.4).
	ErrNameTooLong = errors.New("wire: domain name too long")

	// ErrLabelTooLong is returned when a single label exceeds 63 octets
	// (RFC 1035 Section 2.3.4). The wrapping error names the offending
	// label index and length.
	ErrLabelTooLong = errors.New("wire: label too long")

	// ErrUnhandledType signals a record type reaching a context that
	// requires full interpretation with no handling beyond the generic
	// opaque fallback.
	ErrUnhandledType = errors.New("wire: unhandled record type")
)
