// Command cram-encode converts a SAM text stream into a CRAM file.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/Schaudge/cram/cram"
	"github.com/Schaudge/cram/sam"
	"github.com/grailbio/base/grail"
	"v.io/x/lib/vlog"
)

var (
	referencePath        = flag.String("reference", "", "path to the FASTA reference the input is aligned against")
	readsPerSlice        = flag.Int("reads-per-slice", 0, "override EncodingStrategy.ReadsPerSlice (0 keeps the default)")
	slicesPerContainer   = flag.Int("slices-per-container", 0, "override EncodingStrategy.SlicesPerContainer (0 keeps the default)")
	preserveReadNames    = flag.Bool("preserve-read-names", true, "keep unnamed records unnamed instead of synthesizing a name")
	coordinateSorted     = flag.Bool("coordinate-sorted", true, "whether the input is coordinate-sorted")
	parallelism          = flag.Int("parallelism", runtime.NumCPU(), "accepted but not used: the compressor-choice trial always sizes its worker pool by runtime.NumCPU()")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: cram-encode --reference R [--reads-per-slice N] [--slices-per-container N] <input.sam> <output.cram>")
		os.Exit(2)
	}
	_ = *parallelism // the compressor worker pool reads runtime.NumCPU() itself; flag retained for operator visibility

	if err := encode(args[0], args[1]); err != nil {
		vlog.Errorf("cram-encode: %v", err)
		os.Exit(exitCodeFor(err))
	}
}

func encode(inputPath, outputPath string) error {
	if *referencePath == "" {
		return &cram.Error{Kind: cram.InvalidArgument, Context: "--reference is required"}
	}

	refFile, err := os.Open(*referencePath)
	if err != nil {
		return &cram.Error{Kind: cram.ReferenceUnavailable, Context: *referencePath, Err: err}
	}
	defer refFile.Close()
	source, err := cram.NewFastaReferenceSource(refFile)
	if err != nil {
		return &cram.Error{Kind: cram.ReferenceUnavailable, Context: *referencePath, Err: err}
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return &cram.Error{Kind: cram.IoFailure, Context: inputPath, Err: err}
	}
	defer in.Close()
	samReader, err := sam.NewReader(in)
	if err != nil {
		return &cram.Error{Kind: cram.InvalidArgument, Context: inputPath, Err: err}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return &cram.Error{Kind: cram.IoFailure, Context: outputPath, Err: err}
	}
	defer out.Close()

	opts := []cram.Opt{cram.OptPreserveReadNames(*preserveReadNames)}
	if *readsPerSlice > 0 {
		opts = append(opts, cram.OptReadsPerSlice(*readsPerSlice))
	}
	if *slicesPerContainer > 0 {
		opts = append(opts, cram.OptSlicesPerContainer(*slicesPerContainer))
	}
	strategy := cram.NewEncodingStrategy(opts...)

	var fileID [20]byte
	copy(fileID[:], filepathBase(outputPath))

	writer, err := cram.NewWriter(out, cram.Version3, samReader.Header(), source, strategy, *coordinateSorted, fileID)
	if err != nil {
		return err
	}

	for samReader.Next() {
		if err := writer.PushRecord(samReader.Record()); err != nil {
			return err
		}
	}
	if err := samReader.Err(); err != nil {
		return &cram.Error{Kind: cram.InvalidArgument, Context: inputPath, Err: err}
	}

	return writer.Finish()
}

func filepathBase(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

func exitCodeFor(err error) int {
	cerr, ok := err.(*cram.Error)
	if !ok {
		return 4
	}
	switch cerr.Kind {
	case cram.InvalidArgument, cram.OutOfOrder, cram.EncodingFailure:
		return 2
	case cram.ReferenceUnavailable, cram.UnknownContig:
		return 3
	default:
		return 4
	}
}
