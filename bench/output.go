// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/textpack/huffpack/codec"
	"github.com/textpack/huffpack/huffman"
	"github.com/textpack/huffpack/stats"
)

const rowFormat = "%-15s | %-10s | %-18s | %-22s | %-20s | %-18s | %-20s\n"

var header = []string{
	"File Name",
	"Method",
	"Original Size (B)",
	"Compressed Size (B)",
	"Compression Ratio",
	"Encode Time (ms)",
	"Decode Time (ms)",
}

var methodLabels = map[string]string{
	codec.HuffmanName: "Huffman",
	codec.FixedName:   "Baseline",
}

func methodLabel(name string) string {
	if label, ok := methodLabels[name]; ok {
		return label
	}
	return name
}

func (row *Row) fields() []string {
	return []string{
		row.File,
		methodLabel(row.Method),
		strconv.FormatInt(row.OriginalBytes, 10),
		strconv.FormatInt(row.CompressedBytes, 10),
		row.RatioString(),
		strconv.FormatFloat(stats.Millis(row.Timing.Encode), 'f', 3, 64),
		strconv.FormatFloat(stats.Millis(row.Timing.Decode), 'f', 3, 64),
	}
}

func writeFixedWidth(w io.Writer, fields []string) error {
	args := make([]interface{}, len(fields))
	for i, field := range fields {
		args[i] = field
	}
	_, err := fmt.Fprintf(w, rowFormat, args...)
	return err
}

// WriteTable prints rows as a fixed-width table with a header line.
func WriteTable(w io.Writer, rows []Row) error {
	if err := writeFixedWidth(w, header); err != nil {
		return err
	}
	for i := range rows {
		if err := writeFixedWidth(w, rows[i].fields()); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes rows as semicolon-separated values with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range rows {
		if err := cw.Write(rows[i].fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes rows to a file at path, replacing any existing file.
func SaveCSV(path string, rows []Row) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err = WriteCSV(file, rows); err != nil {
		return
	}
	log.Infof("results saved to %s", path)
	return nil
}

// SymbolLabel renders a symbol for display: printable ASCII as itself, anything else as an escape.
func SymbolLabel(s huffman.Symbol) string {
	switch {
	case s == ' ':
		return "' '"
	case s > ' ' && s < 0x7f:
		return string(rune(s))
	default:
		return fmt.Sprintf("\\x%02x", s)
	}
}

// WriteCodeTable prints the frequency and codeword of each symbol in result, in symbol order.  At most limit
// rows are printed when limit is positive; the rest are summarized on one line.
func WriteCodeTable(w io.Writer, result *codec.Result, limit int) error {
	if result.Codes == nil || result.Freqs == nil {
		return fmt.Errorf("bench: %s result carries no code table", result.Codec)
	}

	var sb strings.Builder
	sb.WriteString("Char\t| Freq\t\t| Codeword\n")
	sb.WriteString("-------------------------------------\n")

	shown := 0
	symbols := result.Codes.Symbols()
	for _, s := range symbols {
		if limit > 0 && shown >= limit {
			break
		}
		count, _ := result.Freqs.Count(s)
		code, _ := result.Codes.Code(s)
		fmt.Fprintf(&sb, "%s\t| %d\t\t| %s\n", SymbolLabel(s), count, code.Digits())
		shown++
	}
	if rest := len(symbols) - shown; rest > 0 {
		fmt.Fprintf(&sb, "...(%d other symbols)...\n", rest)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
