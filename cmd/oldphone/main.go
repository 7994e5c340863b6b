// oldphone decodes multi-tap telephone keypad sequences.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"oldphonepad/internal/batch"
	"oldphonepad/internal/config"
	"oldphonepad/internal/console"
	"oldphonepad/internal/keypad"
	"oldphonepad/internal/logging"
)

// app carries the process streams so commands can be exercised in tests.
type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	isTerminal func() bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
	os.Exit(a.run(ctx, os.Args[1:]))
}

func (a *app) run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("oldphone", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath := fs.String("config", "", "path to config file")
	logLevel := fs.String("log-level", "", "override log level (debug, info, warn, error)")
	fs.Usage = func() { a.usage() }

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		a.usage()
		return 1
	}

	cmd := fs.Arg(0)
	if cmd == "help" {
		a.usage()
		return 0
	}

	loader := config.NewLoader(*configPath)
	defer loader.Close()

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error configuring logging: %v\n", err)
		return 1
	}
	defer logger.Close()
	logging.SetDefault(logger)
	logging.Debug("configuration loaded", "path", loader.Path(), "level", logging.LevelString(logger.Level()))

	rest := fs.Args()[1:]
	switch cmd {
	case "decode":
		return a.cmdDecode(rest)
	case "console":
		return a.cmdConsole(ctx, loader, cfg, logger, *logLevel)
	case "batch":
		return a.cmdBatch(ctx, cfg, rest)
	default:
		fmt.Fprintf(a.stderr, "Unknown command: %s\n", cmd)
		a.usage()
		return 1
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, `oldphone - multi-tap keypad decoder

Usage: oldphone [options] <command> [args]

Commands:
  decode <seq>...   Decode each sequence and print one result per line
  console           Interactive mode; a blank line exits
  batch [file]      Decode every line of file (or stdin)
  help              Show this help message

Options:
  -config <path>     Path to config file (default: ~/.oldphonepad/config.toml)
  -log-level <lvl>   Override the configured log level

Batch options:
  -format text|json  Record format (default from config)`)
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc, err := cfg.LoggerConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(lc)
}

func (a *app) cmdDecode(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, "Usage: oldphone decode <seq>...")
		return 1
	}
	for _, seq := range args {
		fmt.Fprintln(a.stdout, keypad.Decode(seq))
	}
	return 0
}

func (a *app) cmdConsole(ctx context.Context, loader *config.Loader, cfg *config.Config, logger *logging.Logger, levelOverride string) int {
	interactive := a.isTerminal != nil && a.isTerminal()

	opts := console.Options{Logger: logger}
	if interactive {
		opts.Prompt = cfg.Console.Prompt
		opts.Banner = cfg.Console.Banner
	}
	session := console.NewSession(opts)

	if interactive {
		loader.OnChange(applyReload(session, logger, loader.Path(), levelOverride))
		if err := loader.Watch(); err != nil {
			logging.Warn("config hot reload disabled", "error", err)
		}
	}

	stats, err := session.Run(ctx, a.stdin, a.stdout)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	logging.Debug("console finished", "lines", stats.Lines)
	return 0
}

// applyReload returns the hot-reload callback for a console session.
// levelOverride, when set, is re-applied instead of the reloaded level.
func applyReload(session *console.Session, logger *logging.Logger, path, levelOverride string) func(*config.Config) {
	return func(c *config.Config) {
		session.SetPrompt(c.Console.Prompt)

		levelName := c.Logging.Level
		if levelOverride != "" {
			levelName = levelOverride
		}
		if level, err := logging.ParseLevel(levelName); err == nil {
			logger.SetLevel(level)
		}
		logging.Info("configuration reloaded",
			"path", path,
			"level", logging.LevelString(logger.Level()),
		)
	}
}

func (a *app) cmdBatch(ctx context.Context, cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	formatName := fs.String("format", cfg.Batch.Format, "record format: text or json")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	format, err := batch.ParseFormat(*formatName)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}

	in := a.stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(a.stderr, "Error opening input: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	sum, err := batch.Process(ctx, in, a.stdout, format)
	if err != nil {
		logging.Error("batch failed", "decoded", sum.Decoded, "error", err)
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	logging.Info("batch complete", "decoded", sum.Decoded, "skipped", sum.Skipped, "format", format.String())
	return 0
}
