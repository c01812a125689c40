package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"hsf/topology"
)

// Decompress reads framed segments from r until it sees the end-of-stream
// sentinel (InfoByte == 255) or a clean EOF at a segment boundary, writing
// decoded symbols to w.
//
// Grounded on the reference decoder's per-segment state machine
// (NEED_HEADER -> NEED_LENGTH -> RUN_FILL|DECODE_TREE -> NEED_HEADER). EOF is
// checked explicitly before a byte is interpreted as a topology id; a byte
// of 255 read at a segment boundary ends decoding cleanly, and a byte in
// [165, 254] is reported as ErrInvalidTopology.
func Decompress(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		infoByte, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("codec: reading InfoByte: %w", err)
		}
		if infoByte == topology.SentinelEOF {
			return nil
		}
		top := int(infoByte)
		if top >= topology.NumTopologies {
			return invalidTopologyErr(infoByte)
		}

		n, err := readLength(br, top)
		if err != nil {
			return err
		}

		if top < 5 {
			sym, _ := topology.SingleSymbol(top)
			if err := writeRepeated(w, sym, n); err != nil {
				return fmt.Errorf("codec: writing run for topology %d: %w", top, err)
			}
			continue
		}
		if err := decodeTreeSegment(br, w, top, n); err != nil {
			return err
		}
	}
}

func readLength(r io.Reader, top int) (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, truncatedErr(fmt.Sprintf("reading length for topology %d", top))
	}
	n := int32(binary.LittleEndian.Uint32(buf[:]))
	if n < 0 {
		return 0, truncatedErr(fmt.Sprintf("negative length %d for topology %d", n, top))
	}
	return int(n), nil
}

func decodeTreeSegment(br *bufio.Reader, w io.Writer, top int, numSyms int) error {
	cur := treeFor(top).NewCursor()
	out := make([]byte, 0, numSyms)
	for len(out) < numSyms {
		b, err := br.ReadByte()
		if err != nil {
			return truncatedErr(fmt.Sprintf("payload byte for topology %d (%d/%d symbols)", top, len(out), numSyms))
		}
		for i := 7; i >= 0 && len(out) < numSyms; i-- {
			bit := (b >> uint(i)) & 1
			sym, done, ok := cur.Step(bit)
			if !ok {
				return fmt.Errorf("%w: topology %d", ErrInvalidCode, top)
			}
			if done {
				out = append(out, sym)
			}
		}
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("codec: writing decoded symbols: %w", err)
	}
	return nil
}

func writeRepeated(w io.Writer, sym byte, n int) error {
	const chunkSize = 4096
	size := n
	if size > chunkSize {
		size = chunkSize
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = sym
	}
	for remaining := n; remaining > 0; {
		k := remaining
		if k > len(buf) {
			k = len(buf)
		}
		if _, err := w.Write(buf[:k]); err != nil {
			return err
		}
		remaining -= k
	}
	return nil
}

// ScanSegments reads the framing of a compressed stream and returns the
// Segment for each frame, without materializing decoded symbols. It still
// has to walk a tree-coded segment's payload bits one at a time to find the
// next header, because variable-length codes make a segment's payload byte
// count a function of its actual symbol frequencies, not just its declared
// length; it just discards the symbols instead of writing them, which is
// what report.Histogram and similar tooling need.
func ScanSegments(r io.Reader) ([]Segment, error) {
	br := bufio.NewReader(r)
	var segments []Segment
	offset := 0
	for {
		infoByte, err := br.ReadByte()
		if err == io.EOF {
			return segments, nil
		}
		if err != nil {
			return segments, fmt.Errorf("codec: reading InfoByte: %w", err)
		}
		if infoByte == topology.SentinelEOF {
			return segments, nil
		}
		top := int(infoByte)
		if top >= topology.NumTopologies {
			return segments, invalidTopologyErr(infoByte)
		}
		n, err := readLength(br, top)
		if err != nil {
			return segments, err
		}
		if top >= 5 {
			if _, err := skipTreeSegment(br, top, n); err != nil {
				return segments, err
			}
		}
		segments = append(segments, Segment{Topology: top, Start: offset, End: offset + n})
		offset += n
	}
}

// skipTreeSegment walks a tree-coded segment's payload without materializing
// symbols and returns the number of payload bytes it consumed.
func skipTreeSegment(br *bufio.Reader, top int, numSyms int) (int, error) {
	cur := treeFor(top).NewCursor()
	emitted := 0
	payloadBytes := 0
	for emitted < numSyms {
		b, err := br.ReadByte()
		if err != nil {
			return 0, truncatedErr(fmt.Sprintf("payload byte for topology %d (%d/%d symbols)", top, emitted, numSyms))
		}
		payloadBytes++
		for i := 7; i >= 0 && emitted < numSyms; i-- {
			bit := (b >> uint(i)) & 1
			_, done, ok := cur.Step(bit)
			if !ok {
				return 0, fmt.Errorf("%w: topology %d", ErrInvalidCode, top)
			}
			if done {
				emitted++
			}
		}
	}
	return payloadBytes, nil
}

// SegmentOffset is one frame's location in both symbol space (Segment) and
// byte space within the compressed stream: [ByteStart, ByteEnd) spans the
// frame's InfoByte, length field, and payload together.
type SegmentOffset struct {
	Segment
	ByteStart int
	ByteEnd   int
}

// segmentHeaderBytes is the on-disk size of a frame's InfoByte + length
// field, before any payload.
const segmentHeaderBytes = 1 + 4

// SegmentOffsets parses a compressed stream's framing the way ScanSegments
// does, additionally recording each frame's byte range in the stream. This
// is exactly the table a segment-parallel decoder would need to seek
// directly to a chosen segment's payload instead of scanning from the start
// — the core decoder doesn't do that (§5), but the byte-offset table it
// would need is available here without changing the on-disk format.
func SegmentOffsets(r io.Reader) ([]SegmentOffset, error) {
	br := bufio.NewReader(r)
	var offsets []SegmentOffset
	symOffset := 0
	byteOffset := 0
	for {
		infoByte, err := br.ReadByte()
		if err == io.EOF {
			return offsets, nil
		}
		if err != nil {
			return offsets, fmt.Errorf("codec: reading InfoByte: %w", err)
		}
		if infoByte == topology.SentinelEOF {
			return offsets, nil
		}
		top := int(infoByte)
		if top >= topology.NumTopologies {
			return offsets, invalidTopologyErr(infoByte)
		}
		n, err := readLength(br, top)
		if err != nil {
			return offsets, err
		}
		frameBytes := segmentHeaderBytes
		if top >= 5 {
			payloadBytes, err := skipTreeSegment(br, top, n)
			if err != nil {
				return offsets, err
			}
			frameBytes += payloadBytes
		}
		offsets = append(offsets, SegmentOffset{
			Segment:   Segment{Topology: top, Start: symOffset, End: symOffset + n},
			ByteStart: byteOffset,
			ByteEnd:   byteOffset + frameBytes,
		})
		symOffset += n
		byteOffset += frameBytes
	}
}
