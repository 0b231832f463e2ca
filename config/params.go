// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package config holds the benchmark parameters and their key=value text form.

A parameter record is a flat map from keys to values.  Files hold one key=value pair per line; lines starting
with '#' are comments.  On the command line, the same pairs appear as KEY=VALUE words.  Keys ending in '?'
are optional and ignored when not understood; any other unknown key is an error.

Recognized keys:

	sizes     comma-separated input sizes, with optional K/KB/M/MB suffixes (1024-based)
	alphabet  symbol ranges such as A-Z or a-z0-9
	dist      uniform or exponential
	seed      generator seed, decimal
	dir       directory for generated inputs
	csv       path of the CSV report, or "-" for none
	codecs    comma-separated codec names
	codes     number of code table rows to print per input, 0 for none
*/
package config

import (
	"errors"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"github.com/textpack/huffpack/codec"
)

var log = logging.MustGetLogger("huffpack/config")

const (
	paramSizes     = "sizes"
	paramAlphabet  = "alphabet"
	paramDist      = "dist"
	paramSeed      = "seed"
	paramDir       = "dir"
	paramCSV       = "csv"
	paramCodecs    = "codecs"
	paramShowCodes = "codes"

	suffixOptional = "?"

	DistUniform     = "uniform"
	DistExponential = "exponential"

	// NoCSV as the csv parameter disables the CSV report.
	NoCSV = "-"
)

var (
	ErrNoSizes      = &ParameterError{ParameterMissing, "input sizes", ""}
	ErrInvalidSize  = &ParameterError{ParameterInvalid, "input size", ""}
	ErrInvalidDist  = &ParameterError{ParameterInvalid, "distribution", ""}
	ErrNoAlphabet   = &ParameterError{ParameterMissing, "alphabet", ""}
	ErrNoCodecs     = &ParameterError{ParameterMissing, "codec list", ""}
	ErrInvalidCodec = &ParameterError{ParameterInvalid, "codec", ""}
	ErrSyntax       = errors.New("config: bad parameter record syntax")
)

// BenchParams configures one benchmark run.
type BenchParams struct {
	Sizes        []int
	Alphabet     string
	Distribution string
	Seed         int64
	Dir          string
	CSVPath      string
	Codecs       []string
	ShowCodes    int
}

var defBenchParams = BenchParams{
	Sizes:        []int{50 * 1024, 200 * 1024, 1024 * 1024},
	Alphabet:     "A-Z",
	Distribution: DistUniform,
	Seed:         1,
	Dir:          ".",
	CSVPath:      "compression_results.csv",
	Codecs:       []string{codec.HuffmanName, codec.FixedName},
	ShowCodes:    0,
}

// DefaultBenchParams returns a fresh copy of the defaults.
func DefaultBenchParams() BenchParams {
	bp := defBenchParams
	bp.Sizes = append([]int(nil), defBenchParams.Sizes...)
	bp.Codecs = append([]string(nil), defBenchParams.Codecs...)
	return bp
}

// CheckUnackedParams ensures that all parameters in params are either acknowledged by being associated
// with a true value in ackedParams or are optional due to being suffixed with a question mark.  If any
// unacknowledged requisite parameters are present, it returns an appropriate error.
func CheckUnackedParams(params map[string]string, ackedParams map[string]bool) error {
	for key := range params {
		if !ackedParams[key] && !strings.HasSuffix(key, suffixOptional) {
			return &ParameterError{ParameterUnexpected, "parameter", key}
		}
	}

	return nil
}

// ParseFrom overrides fields of bp with the parameters present in unparsed, marking each consumed key in
// acked.  Absent keys leave the field unchanged.
func (bp *BenchParams) ParseFrom(unparsed map[string]string, acked map[string]bool) (err error) {
	if val, present := unparsed[paramSizes]; present {
		if bp.Sizes, err = parseSizeList(val); err != nil {
			return
		}
		acked[paramSizes] = true
	}

	if val, present := unparsed[paramAlphabet]; present {
		bp.Alphabet = val
		acked[paramAlphabet] = true
	}

	if val, present := unparsed[paramDist]; present {
		bp.Distribution = val
		acked[paramDist] = true
	}

	if val, present := unparsed[paramSeed]; present {
		if bp.Seed, err = strconv.ParseInt(val, 10, 64); err != nil {
			return &ParameterError{ParameterInvalid, "seed", val}
		}
		acked[paramSeed] = true
	}

	if val, present := unparsed[paramDir]; present {
		bp.Dir = val
		acked[paramDir] = true
	}

	if val, present := unparsed[paramCSV]; present {
		bp.CSVPath = val
		acked[paramCSV] = true
	}

	if val, present := unparsed[paramCodecs]; present {
		bp.Codecs = splitList(val)
		acked[paramCodecs] = true
	}

	if val, present := unparsed[paramShowCodes]; present {
		var n uint64
		if n, err = strconv.ParseUint(val, 10, 16); err != nil {
			return &ParameterError{ParameterInvalid, "code table limit", val}
		}
		bp.ShowCodes = int(n)
		acked[paramShowCodes] = true
	}

	return bp.Validate()
}

// Validate checks the parameters for consistency.
func (bp *BenchParams) Validate() error {
	if len(bp.Sizes) == 0 {
		return ErrNoSizes
	}
	for _, size := range bp.Sizes {
		if size <= 0 {
			return &ParameterError{ParameterInvalid, "input size", strconv.Itoa(size)}
		}
	}

	if bp.Alphabet == "" {
		return ErrNoAlphabet
	}

	switch bp.Distribution {
	case DistUniform, DistExponential:
	default:
		return &ParameterError{ParameterInvalid, "distribution", bp.Distribution}
	}

	if len(bp.Codecs) == 0 {
		return ErrNoCodecs
	}
	for _, name := range bp.Codecs {
		if _, err := codec.Lookup(name); err != nil {
			return &ParameterError{ParameterInvalid, "codec", name}
		}
	}

	return nil
}

// ParseBenchParams builds parameters from the defaults overridden by unparsed.
func ParseBenchParams(unparsed map[string]string) (*BenchParams, error) {
	bp := DefaultBenchParams()
	acked := make(map[string]bool)
	if err := bp.ParseFrom(unparsed, acked); err != nil {
		return nil, err
	}

	if err := CheckUnackedParams(unparsed, acked); err != nil {
		return nil, err
	}

	return &bp, nil
}

// UnparseInto writes the parameters that differ from the defaults into unparsed.
func (bp *BenchParams) UnparseInto(unparsed map[string]string) {
	def := &defBenchParams

	if !equalInts(bp.Sizes, def.Sizes) {
		strs := make([]string, len(bp.Sizes))
		for i, size := range bp.Sizes {
			strs[i] = FormatSize(size)
		}
		unparsed[paramSizes] = strings.Join(strs, ",")
	}
	if bp.Alphabet != def.Alphabet {
		unparsed[paramAlphabet] = bp.Alphabet
	}
	if bp.Distribution != def.Distribution {
		unparsed[paramDist] = bp.Distribution
	}
	if bp.Seed != def.Seed {
		unparsed[paramSeed] = strconv.FormatInt(bp.Seed, 10)
	}
	if bp.Dir != def.Dir {
		unparsed[paramDir] = bp.Dir
	}
	if bp.CSVPath != def.CSVPath {
		unparsed[paramCSV] = bp.CSVPath
	}
	if strings.Join(bp.Codecs, ",") != strings.Join(def.Codecs, ",") {
		unparsed[paramCodecs] = strings.Join(bp.Codecs, ",")
	}
	if bp.ShowCodes != def.ShowCodes {
		unparsed[paramShowCodes] = strconv.Itoa(bp.ShowCodes)
	}
}

func (bp *BenchParams) Unparse() (unparsed map[string]string) {
	unparsed = make(map[string]string)
	bp.UnparseInto(unparsed)
	return
}

// ParseArgs reads KEY=VALUE words, as given on a command line.
func ParseArgs(args []string) (map[string]string, error) {
	unparsed := make(map[string]string)
	for _, arg := range args {
		equals := strings.IndexRune(arg, '=')
		if equals <= 0 {
			return nil, &ParameterError{ParameterInvalid, "argument", arg}
		}
		unparsed[arg[:equals]] = arg[equals+1:]
	}
	return unparsed, nil
}

// ParseSize reads a size such as 4096, 50K, 50KB or 1MB.
func ParseSize(s string) (int, error) {
	str := strings.ToUpper(strings.TrimSpace(s))
	mult := 1
	switch {
	case strings.HasSuffix(str, "KB"):
		mult, str = 1024, str[:len(str)-2]
	case strings.HasSuffix(str, "K"):
		mult, str = 1024, str[:len(str)-1]
	case strings.HasSuffix(str, "MB"):
		mult, str = 1024*1024, str[:len(str)-2]
	case strings.HasSuffix(str, "M"):
		mult, str = 1024*1024, str[:len(str)-1]
	case strings.HasSuffix(str, "B"):
		str = str[:len(str)-1]
	}

	n, err := strconv.ParseUint(str, 10, 31)
	if err != nil || n == 0 || n*uint64(mult) > 1<<31-1 {
		return 0, &ParameterError{ParameterInvalid, "input size", s}
	}
	return int(n) * mult, nil
}

// FormatSize renders size the way ParseSize reads it, using the largest exact suffix.
func FormatSize(size int) string {
	switch {
	case size >= 1024*1024 && size%(1024*1024) == 0:
		return strconv.Itoa(size/(1024*1024)) + "MB"
	case size >= 1024 && size%1024 == 0:
		return strconv.Itoa(size/1024) + "KB"
	default:
		return strconv.Itoa(size)
	}
}

func parseSizeList(val string) ([]int, error) {
	var sizes []int
	for _, item := range splitList(val) {
		size, err := ParseSize(item)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return nil, ErrNoSizes
	}
	return sizes, nil
}

func splitList(val string) []string {
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
