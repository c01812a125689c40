package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"hsf/topology"
)

// StripTrailing drops a single trailing byte from input if that byte is not
// itself a valid symbol (the common case being a lone newline). It never
// strips more than one byte: a multi-byte trailer (e.g. CRLF) is not
// tolerated, matching the reference encoder's behavior.
func StripTrailing(input []byte) []byte {
	if len(input) == 0 {
		return input
	}
	if !topology.IsSymbol(input[len(input)-1]) {
		return input[:len(input)-1]
	}
	return input
}

// Compress strips a trailing non-symbol byte if present, plans a minimum-cost
// segmentation of what remains, and writes the framed segments to w. It
// returns the chosen segments so callers (such as validate.RoundTrip) can
// reuse the plan without re-running the DP.
func Compress(w io.Writer, input []byte) ([]Segment, error) {
	stripped := StripTrailing(input)
	if len(stripped) == 0 {
		return nil, ErrEmptyInput
	}
	segments, err := Plan(stripped)
	if err != nil {
		return nil, err
	}
	if err := Emit(w, stripped, segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// Emit writes segments (as chosen by Plan over input) to w in the on-disk
// frame format: InfoByte, little-endian 32-bit length, then packed payload
// bits (omitted for single-symbol topologies).
func Emit(w io.Writer, input []byte, segments []Segment) error {
	for _, seg := range segments {
		if err := writeSegment(w, seg.Topology, input[seg.Start:seg.End]); err != nil {
			return err
		}
	}
	return nil
}

func writeSegment(w io.Writer, top int, syms []byte) error {
	var hdr [5]byte
	hdr[0] = byte(top)
	binary.LittleEndian.PutUint32(hdr[1:], uint32(len(syms)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("codec: writing segment header: %w", err)
	}
	if top < 5 {
		return nil
	}
	bw := &bitWriter{}
	for _, sym := range syms {
		code, ok := topology.Code(top, sym)
		if !ok {
			return fmt.Errorf("codec: topology %d does not cover symbol %q (planner invariant violated)", top, sym)
		}
		bw.writeCode(code)
	}
	if _, err := w.Write(bw.flush()); err != nil {
		return fmt.Errorf("codec: writing segment payload: %w", err)
	}
	return nil
}
