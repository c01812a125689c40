package codec

import (
	"fmt"

	"hsf/topology"
)

// backtrackRow is one row of the L×165 backtrack table: for each topology,
// the predecessor topology that achieved the minimum cost at this position,
// or 255 if this topology cannot encode the symbol at this position at all.
// A byte-wide row (rather than int) keeps the table's memory footprint to
// L*165 bytes, as the distilled spec's "Memory layout" note recommends.
type backtrackRow [topology.NumTopologies]byte

const noPredecessor = 255

// Plan runs the dynamic-programming segmentation described in the
// component design: for each position it tracks, per topology, the minimum
// total bits to encode the input so far ending in a segment of that
// topology, and records enough to backtrack the optimal cut sequence.
//
// input must already have any trailing non-symbol byte stripped (see
// StripTrailing); Plan validates every remaining byte and fails on the
// first invalid symbol it finds, mirroring the reference encoder's
// walk-and-abort behavior.
//
// Grounded on cmd/stream_compress/optimal.go's CrossChannelCompressor.Compress
// (rolling cost arrays, a parallel choice/backtrack array, bit-cost
// accounting) and on the distilled spec's own recurrence; the rolling
// two-column cost array follows the "Memory layout" note directly.
func Plan(input []byte) ([]Segment, error) {
	L := len(input)
	if L == 0 {
		return nil, ErrEmptyInput
	}

	backtrack := make([]backtrackRow, L)

	costPrev := make([]int, topology.NumTopologies)
	if err := planBase(input[0], costPrev, &backtrack[0]); err != nil {
		return nil, err
	}

	costCur := make([]int, topology.NumTopologies)
	for i := 1; i < L; i++ {
		sym := input[i]
		if !topology.IsSymbol(sym) {
			return nil, invalidSymbolErr(sym, i)
		}
		bestPrevT, bestPrevC := argminFeasible(costPrev)
		for t := 0; t < topology.NumTopologies; t++ {
			n, ok := topology.CodeLen(t, sym)
			if !ok {
				costCur[t] = infeasible
				backtrack[i][t] = noPredecessor
				continue
			}
			switchCost := roundUp8(bestPrevC) + headerBits + n
			if costPrev[t] < infeasible {
				extendCost := costPrev[t] + n
				if extendCost <= switchCost {
					costCur[t] = extendCost
					backtrack[i][t] = byte(t)
					continue
				}
			}
			costCur[t] = switchCost
			backtrack[i][t] = byte(bestPrevT)
		}
		costPrev, costCur = costCur, costPrev
	}

	finalT, _ := argminFeasible(costPrev)
	path := make([]int, L)
	path[L-1] = finalT
	for i := L - 1; i >= 1; i-- {
		path[i-1] = int(backtrack[i][path[i]])
	}

	segments := cutsFromPath(path)
	assertCovers(input, segments)
	return segments, nil
}

// assertCovers re-checks, per segment, that the topology the DP chose
// actually covers every distinct symbol in that segment's range —
// topology.Covers expressed against whole segments rather than one symbol
// at a time, the shape the catalog's contract describes. A violation here
// means the recurrence above has a bug, not that the input is malformed
// (every step already validated each symbol via CodeLen), so it panics
// rather than returning an error.
func assertCovers(input []byte, segments []Segment) {
	for _, seg := range segments {
		syms := make(map[byte]bool, 5)
		for i := seg.Start; i < seg.End; i++ {
			syms[input[i]] = true
		}
		if !topology.Covers(seg.Topology, syms) {
			panic(fmt.Sprintf("codec: planner invariant violated: topology %d does not cover segment [%d,%d)", seg.Topology, seg.Start, seg.End))
		}
	}
}

func planBase(sym byte, cost []int, row *backtrackRow) error {
	if !topology.IsSymbol(sym) {
		return invalidSymbolErr(sym, 0)
	}
	for t := 0; t < topology.NumTopologies; t++ {
		if n, ok := topology.CodeLen(t, sym); ok {
			cost[t] = headerBits + n
			row[t] = byte(t)
		} else {
			cost[t] = infeasible
			row[t] = noPredecessor
		}
	}
	return nil
}

// argminFeasible returns the topology with minimum cost and that cost. It
// always finds a feasible entry because every legal symbol is covered by at
// least its own single-symbol topology (0-4).
func argminFeasible(cost []int) (int, int) {
	bestT, bestC := -1, infeasible
	for t, c := range cost {
		if c < bestC {
			bestT, bestC = t, c
		}
	}
	return bestT, bestC
}

// cutsFromPath turns a per-position topology assignment into the minimal
// set of contiguous segments: a new segment starts wherever the topology
// changes.
func cutsFromPath(path []int) []Segment {
	segments := make([]Segment, 0, 8)
	start := 0
	for i := 1; i < len(path); i++ {
		if path[i] != path[i-1] {
			segments = append(segments, Segment{Topology: path[start], Start: start, End: i})
			start = i
		}
	}
	segments = append(segments, Segment{Topology: path[start], Start: start, End: len(path)})
	return segments
}
