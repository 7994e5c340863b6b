// Package console runs the interactive read-decode-print loop.
//
// Each line read is decoded independently. A blank line or end of input
// ends the session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"oldphonepad/internal/keypad"
	"oldphonepad/internal/logging"
)

// Banner lines printed when Options.Banner is set.
const (
	bannerTitle   = "=== OldPhonePad Decoder ==="
	bannerExample = "Enter keypad sequence (end with #). Example: 4433555 555666#"
	bannerExit    = "Press Enter without input to exit."
)

// Options configures a console session.
type Options struct {
	// Prompt is printed before each line is read.
	Prompt string

	// Banner prints the title and usage hint before the first prompt.
	Banner bool

	// Logger receives per-line debug records. Nil uses the default logger.
	Logger *logging.Logger
}

// Stats summarizes a finished session.
type Stats struct {
	Lines int
}

// Session is a console loop whose prompt can be changed while it runs.
type Session struct {
	mu     sync.RWMutex
	opts   Options
	logger *logging.Logger
}

// NewSession creates a session with the given options.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		opts:   opts,
		logger: logger.WithComponent("console"),
	}
}

// SetPrompt replaces the prompt used for subsequent lines.
func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Prompt = prompt
}

func (s *Session) prompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Prompt
}

// Run reads lines from in, writing decoded results to out, until a blank
// line, end of input, or ctx is done.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats
	w := bufio.NewWriter(out)
	defer w.Flush()

	if s.opts.Banner {
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n", bannerTitle, bannerExample, bannerExit); err != nil {
			return stats, fmt.Errorf("write banner: %w", err)
		}
	}

	br := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if _, err := io.WriteString(w, s.prompt()); err != nil {
			return stats, fmt.Errorf("write prompt: %w", err)
		}
		if err := w.Flush(); err != nil {
			return stats, fmt.Errorf("flush prompt: %w", err)
		}

		line, rerr := br.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return stats, fmt.Errorf("read input: %w", rerr)
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.TrimSpace(line) == "" {
			break
		}

		result := keypad.Decode(line)
		stats.Lines++
		s.logger.Debug("decoded line",
			"line", stats.Lines,
			"input_len", len(line),
			"output_len", len(result),
		)

		if _, err := fmt.Fprintf(w, "Output: %s\n\n", result); err != nil {
			return stats, fmt.Errorf("write output: %w", err)
		}

		// A final line without a newline ends the session.
		if rerr != nil {
			break
		}
	}

	if _, err := io.WriteString(w, "\nDone.\n"); err != nil {
		return stats, fmt.Errorf("write footer: %w", err)
	}
	return stats, nil
}

// Run is a convenience wrapper for a single session.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (Stats, error) {
	return NewSession(opts).Run(ctx, in, out)
}
