package codec

import (
	"bytes"
	"math/rand"
	"testing"

	"hsf/topology"
)

// singleTopologyFileSize returns the file size in bytes if input were
// encoded as one segment under topology t, or -1 if t does not cover every
// symbol in input.
func singleTopologyFileSize(t int, input []byte) int {
	bits := 0
	for _, sym := range input {
		n, ok := topology.CodeLen(t, sym)
		if !ok {
			return -1
		}
		bits += n
	}
	return 5 + (bits+7)/8
}

func bestSingleTopologyFileSize(input []byte) int {
	best := -1
	for top := 0; top < topology.NumTopologies; top++ {
		size := singleTopologyFileSize(top, input)
		if size == -1 {
			continue
		}
		if best == -1 || size < best {
			best = size
		}
	}
	return best
}

func TestPlannerNeverWorseThanBestSingleTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte{'A', 'C', 'G', 'T', 'N'}
	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(500)
		input := make([]byte, n)
		for i := range input {
			input[i] = alphabet[rng.Intn(len(alphabet))]
		}
		var buf bytes.Buffer
		if _, err := Compress(&buf, input); err != nil {
			t.Fatalf("Compress: %v", err)
		}
		want := bestSingleTopologyFileSize(input)
		if buf.Len() > want {
			t.Fatalf("planner produced %d bytes, worse than best single-topology encoding %d bytes (input %q)", buf.Len(), want, input)
		}
	}
}

func TestPlannerKeepsSingleRunInOneSegment(t *testing.T) {
	// A run long enough that a single topology is clearly optimal: the
	// planner should never introduce a gratuitous extra cut.
	input := bytes.Repeat([]byte("A"), 100)
	segments, err := Plan(input)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Plan(100 As) produced %d segments, want 1", len(segments))
	}
	if segments[0].Topology != 0 {
		t.Fatalf("Plan(100 As) chose topology %d, want 0", segments[0].Topology)
	}
}

func TestPlanSegmentsAreCoveredByTheirTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	alphabet := []byte{'A', 'C', 'G', 'T', 'N'}
	input := make([]byte, 300)
	for i := range input {
		input[i] = alphabet[rng.Intn(len(alphabet))]
	}
	segments, err := Plan(input)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, seg := range segments {
		syms := make(map[byte]bool)
		for i := seg.Start; i < seg.End; i++ {
			syms[input[i]] = true
		}
		if !topology.Covers(seg.Topology, syms) {
			t.Fatalf("segment [%d,%d) chose topology %d, which does not cover its symbols", seg.Start, seg.End, seg.Topology)
		}
	}
}

func TestStripTrailing(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ACGT\n", "ACGT"},
		{"ACGTA", "ACGTA"},
		{"\n", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := string(StripTrailing([]byte(c.in))); got != c.want {
			t.Errorf("StripTrailing(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
