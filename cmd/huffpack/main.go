// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../../LICENSE.md.

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/op/go-logging"

	"github.com/textpack/huffpack"
	"github.com/textpack/huffpack/bench"
	"github.com/textpack/huffpack/codec"
	"github.com/textpack/huffpack/config"
	"github.com/textpack/huffpack/container"
	"github.com/textpack/huffpack/digest"
	"github.com/textpack/huffpack/service"
	"github.com/textpack/huffpack/stats"
	"github.com/textpack/huffpack/textgen"
)

const progName = "huffpack"
const usageMessageRaw = `
Usage: huffpack OPTIONS SUBCOMMAND...

Options:
  --debug, -d
	Log debugging messages.

Subcommands:
  generate SIZE -o FILE [--seed N] [--alphabet CHARS] [--dist uniform|exponential] [--skew X]
	Write SIZE random characters to FILE.  SIZE may carry a K, KB, M or MB
	suffix.  CHARS lists characters and ranges, as in A-Z or a-z0-9.

  encode IN -o OUT [--codec NAME]
	Compress IN with the named codec (default huffman) and write a
	container file to OUT.

  decode IN -o OUT
	Read a container file from IN and write the decompressed data to OUT.

  codes IN [--limit N]
	Print the Huffman frequency and codeword of each character in IN.

  bench [PARAMS-FILE] [KEY=VALUE...]
	Generate test files, run each codec over them, print a results table
	and save it as CSV.  Parameters are read from PARAMS-FILE, then
	overridden by KEY=VALUE arguments.  Keys: sizes, alphabet, dist, seed,
	dir, csv, codecs, codes.

  serve [--listen HOST:PORT] [--cache N]
	Serve the codecs over HTTP.
`

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

var leveledLogBackend logging.LeveledBackend

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

func usageErrorf(detailFmt string, detailArgs ...interface{}) {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(os.Stderr, "%s: %s\n%s", progName, detail, usageMessage())
	os.Exit(64)
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err.Error())
	os.Exit(1)
}

var ourArgs []string
var argI int = 0

func nextArg(expected string) string {
	if !(argI < len(ourArgs)) {
		usageErrorf("not enough arguments; expected %s", expected)
	}
	arg := ourArgs[argI]
	argI++
	return arg
}

func remainingArgs() []string {
	slice := ourArgs[argI:]
	argI = len(ourArgs)
	return slice
}

func endOfArgs() {
	if argI < len(ourArgs) {
		usageErrorf("too many arguments at %d (\"%s\")", argI, ourArgs[argI])
	}
}

func newSubFlags() *flag.FlagSet {
	subFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	subFlags.Usage = func() {}
	subFlags.SetOutput(&nullWriter{})
	return subFlags
}

// parseSubFlags parses the remaining arguments with flags allowed before, between and after positional
// arguments, and makes the positional ones the new argument list.
func parseSubFlags(subFlags *flag.FlagSet) {
	args := remainingArgs()
	var positional []string
	for {
		argErr := subFlags.Parse(args)
		if argErr == flag.ErrHelp {
			io.WriteString(os.Stdout, usageMessage())
			os.Exit(0)
		} else if argErr != nil {
			usageErrorf("%s", argErr.Error())
		}

		args = subFlags.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	ourArgs = positional
	argI = 0
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func generateFromArgs() (func() error, error) {
	subFlags := newSubFlags()
	outputPath := subFlags.String("o", "", "")
	seed := subFlags.Int64("seed", 1, "")
	alphabet := subFlags.String("alphabet", "A-Z", "")
	distName := subFlags.String("dist", textgen.DistUniform, "")
	skew := subFlags.Float64("skew", textgen.DefaultSkew, "")
	parseSubFlags(subFlags)

	sizeArg := nextArg("SIZE")
	endOfArgs()

	size, err := config.ParseSize(sizeArg)
	if err != nil {
		usageErrorf("%s", err.Error())
	}
	if *outputPath == "" {
		usageErrorf("output file must be specified")
	}

	return func() error {
		content, err := textgen.Generate(size, textgen.Options{
			Alphabet:     *alphabet,
			Distribution: *distName,
			Skew:         *skew,
			Seed:         *seed,
		})
		if err != nil {
			return err
		}
		return textgen.SaveFile(*outputPath, content)
	}, nil
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(file)
}

func encodeFile(inPath, outPath, codecName string) error {
	c, err := codec.Lookup(codecName)
	if err != nil {
		return err
	}

	input, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	result, err := c.Compress(input)
	if err != nil {
		return err
	}
	f, err := container.Pack(result, input)
	if err != nil {
		return err
	}

	var packed bytes.Buffer
	if err := container.Write(&packed, f); err != nil {
		return err
	}
	if err := writeFile(outPath, func(w io.Writer) error {
		_, err := w.Write(packed.Bytes())
		return err
	}); err != nil {
		return err
	}

	st, err := stats.Compute(int64(len(input)), int64(result.Bits.BitLength))
	if err != nil && !errors.Is(err, stats.ErrZeroLength) {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: %d bytes, %d payload bytes (ratio %s), %d bytes on disk, digest %s\n",
		inPath, len(input), st.CompressedBytes, st.RatioString(), packed.Len(), digest.Hex(input))
	return nil
}

func encodeFromArgs() (func() error, error) {
	subFlags := newSubFlags()
	outputPath := subFlags.String("o", "", "")
	codecName := subFlags.String("codec", codec.HuffmanName, "")
	parseSubFlags(subFlags)

	inputPath := nextArg("IN")
	endOfArgs()

	if *outputPath == "" {
		usageErrorf("output file must be specified")
	}

	return func() error {
		return encodeFile(inputPath, *outputPath, *codecName)
	}, nil
}

func decodeFile(inPath, outPath string) error {
	file, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer file.Close()

	f, err := container.Read(file)
	if err != nil {
		return err
	}
	output, err := f.Unpack()
	if err != nil {
		return err
	}

	return writeFile(outPath, func(w io.Writer) error {
		_, err := w.Write(output)
		return err
	})
}

func decodeFromArgs() (func() error, error) {
	subFlags := newSubFlags()
	outputPath := subFlags.String("o", "", "")
	parseSubFlags(subFlags)

	inputPath := nextArg("IN")
	endOfArgs()

	if *outputPath == "" {
		usageErrorf("output file must be specified")
	}

	return func() error {
		return decodeFile(inputPath, *outputPath)
	}, nil
}

func showCodes(inPath string, limit int) error {
	input, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	c, err := codec.Lookup(codec.HuffmanName)
	if err != nil {
		return err
	}
	result, err := c.Compress(input)
	if err != nil {
		return err
	}
	if result.Codes.Len() == 0 {
		return fmt.Errorf("%s is empty", inPath)
	}

	fmt.Fprintf(os.Stdout, "------- Huffman Code Table for %s -------\n", inPath)
	return bench.WriteCodeTable(os.Stdout, result, limit)
}

func codesFromArgs() (func() error, error) {
	subFlags := newSubFlags()
	limit := subFlags.Int("limit", 0, "")
	parseSubFlags(subFlags)

	inputPath := nextArg("IN")
	endOfArgs()

	return func() error {
		return showCodes(inputPath, *limit)
	}, nil
}

func runBench(bp *config.BenchParams) error {
	ctx, cancel := signalContext()
	defer cancel()

	report, runErr := bench.Run(ctx, bp)
	if report == nil {
		return runErr
	}

	fmt.Fprintf(os.Stdout, "\n==================== Final Results Table =====================\n")
	if err := bench.WriteTable(os.Stdout, report.Rows); err != nil {
		return err
	}

	for _, sample := range report.Samples {
		fmt.Fprintf(os.Stdout, "\n------- Huffman Code Table for %s -------\n", sample.File)
		if err := bench.WriteCodeTable(os.Stdout, sample.Result, bp.ShowCodes); err != nil {
			return err
		}
	}

	if bp.CSVPath != config.NoCSV && len(report.Rows) > 0 {
		if err := bench.SaveCSV(bp.CSVPath, report.Rows); err != nil {
			return err
		}
	}
	return runErr
}

func benchFromArgs() (func() error, error) {
	subFlags := newSubFlags()
	parseSubFlags(subFlags)

	var paramsPath string
	paramArgs := remainingArgs()
	if len(paramArgs) > 0 && !strings.ContainsRune(paramArgs[0], '=') {
		paramsPath, paramArgs = paramArgs[0], paramArgs[1:]
	}

	overrides, err := config.ParseArgs(paramArgs)
	if err != nil {
		usageErrorf("%s", err.Error())
	}

	var bp *config.BenchParams
	if paramsPath != "" {
		bp, err = config.LoadParamsFile(paramsPath, overrides)
	} else {
		bp, err = config.ParseBenchParams(overrides)
	}
	if err != nil {
		return nil, err
	}

	return func() error {
		return runBench(bp)
	}, nil
}

func serveFromArgs() (func() error, error) {
	subFlags := newSubFlags()
	listenAddr := subFlags.String("listen", "127.0.0.1:8080", "")
	subFlags.StringVar(listenAddr, "l", "127.0.0.1:8080", "")
	cacheSize := subFlags.Int("cache", service.DefaultCacheSize, "")
	parseSubFlags(subFlags)
	endOfArgs()

	return func() error {
		ctx, cancel := signalContext()
		defer cancel()
		return service.ListenAndServe(ctx, *listenAddr, service.Options{CacheSize: *cacheSize})
	}, nil
}

func startLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatSpec := "%{level:8s} %{module:-20s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

func main() {
	startLogging()

	var err error
	ourFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.Usage = func() {}
	ourFlags.SetOutput(&nullWriter{})

	// Usage strings are hardcoded above.

	var debugLogging bool
	ourFlags.BoolVar(&debugLogging, "debug", false, "")
	ourFlags.BoolVar(&debugLogging, "d", false, "")

	argErr := ourFlags.Parse(os.Args[1:])
	if argErr == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if argErr != nil {
		usageErrorf("%s", argErr.Error())
	}

	if debugLogging {
		for _, module := range huffpack.LogModules {
			leveledLogBackend.SetLevel(logging.DEBUG, module)
		}
	}

	ourArgs = ourFlags.Args()
	argI = 0

	var requestedCommand func() error
	subcommandArg := nextArg("SUBCOMMAND")
	switch subcommandArg {
	default:
		usageErrorf("unrecognized subcommand \"%s\"", subcommandArg)
	case "generate":
		requestedCommand, err = generateFromArgs()
	case "encode":
		requestedCommand, err = encodeFromArgs()
	case "decode":
		requestedCommand, err = decodeFromArgs()
	case "codes":
		requestedCommand, err = codesFromArgs()
	case "bench":
		requestedCommand, err = benchFromArgs()
	case "serve":
		requestedCommand, err = serveFromArgs()
	}

	if err != nil {
		exitError(err)
	}

	err = requestedCommand()
	if err != nil {
		exitError(err)
	}
}
