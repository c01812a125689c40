// Package validate round-trips input through the codec and reports exactly
// where the result diverges, if it does. It plays the role the teacher's
// cmd/compress/vm6502.go MemoryValidator plays for its 6502 decompressor —
// an in-repo checker that runs the real decode path and pinpoints a
// mismatch — without an emulated target machine, since this domain's
// decoder has no hardware to emulate.
package validate

import (
	"bytes"
	"fmt"

	"hsf/codec"
)

// RoundTrip compresses input, decompresses the result, and compares against
// the (post-strip) input. It returns nil on a clean round trip, or an error
// naming the first byte offset where the decoded output diverges.
func RoundTrip(input []byte) error {
	var compressed bytes.Buffer
	segments, err := codec.Compress(&compressed, input)
	if err != nil {
		return fmt.Errorf("validate: compress: %w", err)
	}

	var decoded bytes.Buffer
	if err := codec.Decompress(bytes.NewReader(compressed.Bytes()), &decoded); err != nil {
		return fmt.Errorf("validate: decompress: %w", err)
	}

	want := codec.StripTrailing(input)
	got := decoded.Bytes()
	return Diff(want, got, segments)
}

// Diff compares want against got and, on the first mismatch, reports the
// byte offset, the expected and actual symbol, and which segment topology
// was in force there. segments may be nil if that context isn't available;
// the topology is then reported as -1.
func Diff(want, got []byte, segments []codec.Segment) error {
	if len(want) != len(got) {
		return fmt.Errorf("validate: length mismatch: decoded %d symbols, expected %d", len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			top := topologyAt(segments, i)
			return fmt.Errorf("validate: mismatch at offset %d: want %q, got %q (segment topology %d)", i, want[i], got[i], top)
		}
	}
	return nil
}

func topologyAt(segments []codec.Segment, offset int) int {
	for _, seg := range segments {
		if offset >= seg.Start && offset < seg.End {
			return seg.Topology
		}
	}
	return -1
}
