// Command mathstep solves equations and expressions and prints the worked steps.
//
//	mathstep "2x+3=7"
//	mathstep -format json solve "x^2-5x+6=0"
//	mathstep -file problems.txt -workers 8
//	mathstep            # interactive
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"mathstep/internal/buildinfo"
	"mathstep/mathcore/solve"
)

type config struct {
	format   string
	file     string
	workers  int
	decimals int
	angle    string
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fatalf("mathstep: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config
	fs := flag.NewFlagSet("mathstep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.format, "format", "text", "text|json.")
	fs.StringVar(&cfg.file, "file", "", "Solve every line of a file ('-' for stdin).")
	fs.IntVar(&cfg.workers, "workers", 4, "Parallel solvers in -file mode.")
	fs.IntVar(&cfg.decimals, "decimals", 4, "Decimal places for approximations.")
	fs.StringVar(&cfg.angle, "angle", "deg", "deg|rad for bare trigonometric arguments.")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging.")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "usage: mathstep [flags] [command] [input]\n\ncommands:\n")
		for _, line := range newRegistry().usage() {
			_, _ = fmt.Fprintf(stderr, "  %s\n", line)
		}
		_, _ = fmt.Fprintf(stderr, "\nflags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(cfg, stdout, stderr)
	if err != nil {
		return err
	}

	switch {
	case cfg.file != "":
		in := stdin
		if cfg.file != "-" {
			f, err := os.Open(cfg.file)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return a.batch(ctx, in, cfg.workers)
	case fs.NArg() == 0:
		return a.repl(ctx, stdin)
	}
	return a.dispatch(fs.Args())
}

// app holds everything a command needs.
type app struct {
	solver *solve.Solver
	format string
	out    io.Writer
	log    *slog.Logger
	cmds   *registry
}

func newApp(cfg config, stdout, stderr io.Writer) (*app, error) {
	switch cfg.format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown format %q", cfg.format)
	}
	unit, err := solve.ParseAngleUnit(cfg.angle)
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	sc := solve.DefaultConfig()
	sc.DecimalPlaces = cfg.decimals
	sc.AngleUnit = unit
	s := solve.New(sc)
	logger.Debug("solver ready", "version", buildinfo.Short(), "decimals", s.Config().DecimalPlaces, "angle", s.Config().AngleUnit)

	return &app{
		solver: s,
		format: cfg.format,
		out:    stdout,
		log:    logger,
		cmds:   newRegistry(),
	}, nil
}

// dispatch runs a named command, or solves the arguments when the first word is
// not a command.
func (a *app) dispatch(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if cmd, ok := a.cmds.resolve(args[0]); ok {
		if err := cmd.Run(a, args[1:]); !errors.Is(err, errQuit) {
			return err
		}
		return nil
	}
	return cmdSolve(a, args)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
