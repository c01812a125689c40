package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecompressEmptyStreamIsCleanEOF(t *testing.T) {
	if err := Decompress(bytes.NewReader(nil), &bytes.Buffer{}); err != nil {
		t.Fatalf("Decompress of an empty stream should be a clean EOF, got %v", err)
	}
}

func TestDecompressSentinelTerminatesCleanly(t *testing.T) {
	var out bytes.Buffer
	stream := bytes.NewReader([]byte{0xFF})
	if err := Decompress(stream, &out); err != nil {
		t.Fatalf("Decompress with a leading sentinel should terminate cleanly, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestDecompressInvalidTopologyFails(t *testing.T) {
	stream := bytes.NewReader([]byte{200, 0, 0, 0, 0})
	var out bytes.Buffer
	err := Decompress(stream, &out)
	if !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("Decompress with InfoByte=200 should fail with ErrInvalidTopology, got %v", err)
	}
}

func TestDecompressTruncatedHeaderFails(t *testing.T) {
	stream := bytes.NewReader([]byte{5, 0, 0})
	var out bytes.Buffer
	err := Decompress(stream, &out)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Decompress with a truncated length field should fail with ErrTruncated, got %v", err)
	}
}

func TestDecompressTruncatedPayloadFails(t *testing.T) {
	// topology 5, length 4, but no payload byte at all.
	stream := bytes.NewReader([]byte{5, 4, 0, 0, 0})
	var out bytes.Buffer
	err := Decompress(stream, &out)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Decompress with a missing payload should fail with ErrTruncated, got %v", err)
	}
}

func TestDecompressSingleSymbolTopologies(t *testing.T) {
	symbols := []byte{'A', 'C', 'G', 'T', 'N'}
	for top, sym := range symbols {
		stream := bytes.NewReader([]byte{byte(top), 3, 0, 0, 0})
		var out bytes.Buffer
		if err := Decompress(stream, &out); err != nil {
			t.Fatalf("Decompress(topology %d): %v", top, err)
		}
		want := bytes.Repeat([]byte{sym}, 3)
		if !bytes.Equal(out.Bytes(), want) {
			t.Errorf("Decompress(topology %d) = %q, want %q", top, out.Bytes(), want)
		}
	}
}

func TestScanSegmentsMatchesDecodedLengths(t *testing.T) {
	input := []byte("AAAACCCCGGGGTTTTNNNNACGTACGTNNNNNNNNNN")
	var compressed bytes.Buffer
	if _, err := Compress(&compressed, input); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	segments, err := ScanSegments(bytes.NewReader(compressed.Bytes()))
	if err != nil {
		t.Fatalf("ScanSegments: %v", err)
	}
	total := 0
	for _, seg := range segments {
		total += seg.Len()
	}
	if total != len(input) {
		t.Fatalf("ScanSegments total length = %d, want %d", total, len(input))
	}
}

func TestSegmentOffsetsMatchesScanSegments(t *testing.T) {
	input := []byte("AAAACCCCGGGGTTTTNNNNACGTACGTNNNNNNNNNN")
	var compressed bytes.Buffer
	if _, err := Compress(&compressed, input); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	raw := compressed.Bytes()

	segments, err := ScanSegments(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ScanSegments: %v", err)
	}
	offsets, err := SegmentOffsets(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("SegmentOffsets: %v", err)
	}
	if len(offsets) != len(segments) {
		t.Fatalf("SegmentOffsets returned %d frames, ScanSegments returned %d", len(offsets), len(segments))
	}

	prevByteEnd := 0
	for i, off := range offsets {
		if off.Segment != segments[i] {
			t.Fatalf("offsets[%d].Segment = %+v, want %+v", i, off.Segment, segments[i])
		}
		if off.ByteStart != prevByteEnd {
			t.Fatalf("offsets[%d].ByteStart = %d, want %d (contiguous with previous frame)", i, off.ByteStart, prevByteEnd)
		}
		if off.ByteEnd <= off.ByteStart {
			t.Fatalf("offsets[%d] has non-positive byte span [%d,%d)", i, off.ByteStart, off.ByteEnd)
		}
		// Each frame's byte range, sliced directly out of raw, must be
		// independently re-decodable: a fresh header read at ByteStart sees
		// the same topology id this frame recorded.
		if raw[off.ByteStart] != byte(off.Topology) {
			t.Fatalf("offsets[%d]: byte at ByteStart is InfoByte %d, want topology %d", i, raw[off.ByteStart], off.Topology)
		}
		prevByteEnd = off.ByteEnd
	}
	if prevByteEnd != len(raw) {
		t.Fatalf("last offset ends at byte %d, stream is %d bytes (sentinel not counted)", prevByteEnd, len(raw))
	}
}
