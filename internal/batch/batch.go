// Package batch decodes keypad sequences read line by line from a stream.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"oldphonepad/internal/keypad"
)

// Format selects how decoded records are written.
type Format int

const (
	// FormatText writes one decoded string per line.
	FormatText Format = iota
	// FormatJSON writes one JSON Record per line.
	FormatJSON
)

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown batch format: %s", s)
	}
}

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Record is a single decoded line.
type Record struct {
	Line   int    `json:"line"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Summary reports what Process did.
type Summary struct {
	Decoded int
	Skipped int
}

// Process decodes every non-blank line of r and writes one record per line
// to w. Line numbers in records are 1-based positions in r. Lines have no
// length limit. Records written before an error are flushed to w, so the
// output always matches the returned Summary.
func Process(ctx context.Context, r io.Reader, w io.Writer, format Format) (sum Summary, err error) {
	bw := bufio.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", ferr)
		}
	}()

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		line, rerr := br.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return sum, fmt.Errorf("read input: %w", rerr)
		}
		if rerr != nil && line == "" {
			return sum, nil
		}
		lineNo++

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.TrimSpace(line) == "" {
			sum.Skipped++
		} else {
			rec := Record{Line: lineNo, Input: line, Output: keypad.Decode(line)}
			if err := writeRecord(bw, enc, format, rec); err != nil {
				return sum, fmt.Errorf("write record %d: %w", lineNo, err)
			}
			sum.Decoded++
		}

		if rerr != nil {
			return sum, nil
		}
	}
}

func writeRecord(w io.Writer, enc *json.Encoder, format Format, rec Record) error {
	if format == FormatJSON {
		return enc.Encode(rec)
	}
	_, err := fmt.Fprintln(w, rec.Output)
	return err
}
