// Command hsf compresses and decompresses DNA sequences with the topology
// codec, and offers a few ambient diagnostics (report, bench, verify) on top
// of it. Dispatch follows the teacher's cmd/compress/compress.go: a plain
// os.Args[1] switch, usage printed to stderr, os.Exit(1) on bad usage.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"hsf/bench"
	"hsf/codec"
	"hsf/internal/validate"
	"hsf/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compress":
		err = runCompress(os.Args[2:])
	case "decompress":
		err = runDecompress(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "hsf: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "hsf: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <subcommand> [args...]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Subcommands:")
	fmt.Fprintln(os.Stderr, "  compress <in_file>                  write <in_file>.hsf")
	fmt.Fprintln(os.Stderr, "  decompress <in_file.hsf>            write <in_file> with .hsf stripped")
	fmt.Fprintln(os.Stderr, "  report <in_file.hsf> <out_file.png> write a topology-usage histogram PNG")
	fmt.Fprintln(os.Stderr, "  bench <in_file>                     compare against flate/zstd/brotli")
	fmt.Fprintln(os.Stderr, "  verify <in_file> <in_file.hsf>      round-trip and diff against plaintext")
}

func runCompress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hsf compress <in_file>")
	}
	input, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	out, err := os.Create(args[0] + ".hsf")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()
	if _, err := codec.Compress(out, input); err != nil {
		return fmt.Errorf("compressing %s: %w", args[0], err)
	}
	return nil
}

func runDecompress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hsf decompress <in_file.hsf>")
	}
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer in.Close()

	dest := strings.TrimSuffix(args[0], ".hsf")
	if dest == args[0] {
		return fmt.Errorf("%s does not have a .hsf suffix", args[0])
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()
	if err := codec.Decompress(in, out); err != nil {
		return fmt.Errorf("decompressing %s: %w", args[0], err)
	}
	return nil
}

func runReport(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: hsf report <in_file.hsf> <out_file.png>")
	}
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer in.Close()

	fileInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", args[0], err)
	}
	segments, err := codec.ScanSegments(in)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}
	stats := report.Histogram(segments, int(fileInfo.Size()))

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[1], err)
	}
	defer out.Close()
	if err := report.RenderPNG(stats, out); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func runBench(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hsf bench <in_file>")
	}
	input, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	result, err := bench.Run(input)
	if err != nil {
		return fmt.Errorf("benchmarking %s: %w", args[0], err)
	}
	return bench.WriteTable(os.Stdout, result)
}

func runVerify(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: hsf verify <in_file> <in_file.hsf>")
	}
	plain, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	compressed, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	var decoded bytes.Buffer
	if err := codec.Decompress(bytes.NewReader(compressed), &decoded); err != nil {
		return fmt.Errorf("decompressing %s: %w", args[1], err)
	}
	segments, err := codec.ScanSegments(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[1], err)
	}
	want := codec.StripTrailing(plain)
	if err := validate.Diff(want, decoded.Bytes(), segments); err != nil {
		return err
	}
	fmt.Println("verify: ok")
	return nil
}
