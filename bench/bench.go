// Package bench compares this repository's topology codec against a few
// general-purpose compressors on the same input, side by side, mirroring the
// teacher's cmd/compress/compress.go pattern of fanning independent per-unit
// work out across goroutines with a sync.WaitGroup. Each goroutine writes
// only its own slot of the result and error slices, so no mutex is used.
package bench

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"hsf/codec"
)

// Result is one codec's outcome: how many bytes it produced and how long it
// took to produce them.
type Result struct {
	Name     string
	Bytes    int
	Duration time.Duration
}

// Report is the side-by-side outcome of running every candidate codec over
// the same input.
type Report struct {
	InputBytes int
	Results    []Result
}

// Run compresses input with this repository's planner and, in parallel,
// with flate, zstd, and brotli, recording output size and wall-clock
// duration for each. It only returns an error on an actual encoder/I-O
// failure — one candidate producing a larger file than another is not an
// error, it's the point of the comparison.
func Run(input []byte) (Report, error) {
	names := []string{"hsf", "flate", "zstd", "brotli"}
	runners := []func([]byte) (int, error){runHSF, runFlate, runZstd, runBrotli}

	results := make([]Result, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			n, err := runners[i](input)
			elapsed := time.Since(start)
			if err != nil {
				errs[i] = fmt.Errorf("bench: %s: %w", names[i], err)
				return
			}
			results[i] = Result{Name: names[i], Bytes: n, Duration: elapsed}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Report{}, err
		}
	}
	return Report{InputBytes: len(input), Results: results}, nil
}

func runHSF(input []byte) (int, error) {
	var buf bytes.Buffer
	if _, err := codec.Compress(&buf, input); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

func runFlate(input []byte) (int, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(input); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

func runZstd(input []byte) (int, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	return len(enc.EncodeAll(input, nil)), nil
}

func runBrotli(input []byte) (int, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := w.Write(input); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// WriteTable prints a small comparison table to w, in the order Run produced
// results (hsf first, then the generic baselines).
func WriteTable(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w, "input: %d bytes\n", r.InputBytes)
	if err != nil {
		return err
	}
	for _, res := range r.Results {
		ratio := float64(res.Bytes) / float64(r.InputBytes)
		if _, err := fmt.Fprintf(w, "%-8s %10d bytes  ratio %.4f  %v\n", res.Name, res.Bytes, ratio, res.Duration); err != nil {
			return err
		}
	}
	return nil
}
