package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors, compared with errors.Is. Every error this package returns
// for malformed input or a malformed stream wraps one of these; I/O failures
// are propagated straight from the os/io call that produced them instead.
var (
	ErrEmptyInput      = errors.New("codec: empty input")
	ErrInvalidSymbol   = errors.New("codec: invalid symbol")
	ErrInvalidTopology = errors.New("codec: invalid topology id")
	ErrTruncated       = errors.New("codec: truncated stream")
	ErrInvalidCode     = errors.New("codec: invalid code (corrupt stream)")
)

func invalidSymbolErr(b byte, offset int) error {
	return fmt.Errorf("%w: byte 0x%02x at offset %d", ErrInvalidSymbol, b, offset)
}

func invalidTopologyErr(b byte) error {
	return fmt.Errorf("%w: %d", ErrInvalidTopology, b)
}

func truncatedErr(context string) error {
	return fmt.Errorf("%w: %s", ErrTruncated, context)
}
