// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package config

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	horizontalWhitespace = " \t"
	keyBadChars          = "\r\n \t=#"
	valBadChars          = "\r\n"

	friendlyHeader = "# This is a huffpack benchmark parameter file."
)

// ReadParams reads key=value lines from r.  Blank lines and lines starting with '#' are skipped.
func ReadParams(r io.Reader) (map[string]string, error) {
	lines := bufio.NewScanner(r)
	unparsed := make(map[string]string)

	for lines.Scan() {
		line := strings.Trim(lines.Text(), horizontalWhitespace)
		if line == "" || line[0] == '#' {
			continue
		}

		equals := strings.IndexRune(line, '=')
		if equals <= 0 {
			return nil, ErrSyntax
		}

		key := strings.Trim(line[:equals], horizontalWhitespace)
		val := strings.Trim(line[equals+1:], horizontalWhitespace)
		unparsed[key] = val
	}

	if scanError := lines.Err(); scanError != nil {
		return nil, scanError
	}
	return unparsed, nil
}

// LoadParamsFile loads benchmark parameters from path, starting from the defaults.  Entries in overrides
// replace those read from the file.
func LoadParamsFile(path string, overrides map[string]string) (result *BenchParams, err error) {
	var file *os.File
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	if file, err = os.Open(path); err != nil {
		return
	}

	unparsed, err := ReadParams(file)
	if err != nil {
		return nil, err
	}

	log.Debugf("loaded %d parameters from %s", len(unparsed), path)
	for key, val := range overrides {
		unparsed[key] = val
	}
	return ParseBenchParams(unparsed)
}

// WriteParams writes unparsed as key=value lines in key order, after a comment header.
func WriteParams(w io.Writer, unparsed map[string]string) error {
	keys := make([]string, 0, len(unparsed))
	for key := range unparsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, 2+len(keys))
	lines = append(lines, friendlyHeader)
	for _, key := range keys {
		val := unparsed[key]
		if key == "" || strings.IndexAny(key, keyBadChars) != -1 || strings.IndexAny(val, valBadChars) != -1 {
			return ErrSyntax
		}
		lines = append(lines, key+"="+val)
	}
	lines = append(lines, "")

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// SaveParamsFile saves bp to a new file named path.  The file must not already exist.
func (bp *BenchParams) SaveParamsFile(path string) (err error) {
	var file *os.File
	defer func() {
		if file != nil {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = closeErr
			}

			if err != nil {
				_ = os.Remove(path)
			}
		}
	}()

	if file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644); err != nil {
		return
	}

	if err = WriteParams(file, bp.Unparse()); err != nil {
		return
	}

	if err = file.Sync(); err != nil {
		return
	}

	// Close happens in defer above.
	return nil
}
