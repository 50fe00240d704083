package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

const prompt = "mathstep> "

// repl reads one command or input per line until EOF or quit.
func (a *app) repl(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		if _, err := fmt.Fprint(a.out, prompt); err != nil {
			return err
		}
		if !sc.Scan() {
			_, _ = fmt.Fprintln(a.out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := a.replLine(sc.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			_, _ = fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *app) replLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	words, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("split %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil
	}
	if cmd, ok := a.cmds.resolve(words[0]); ok {
		return cmd.Run(a, words[1:])
	}
	// Anything else is a problem to solve; keep the raw line so quotes and
	// spacing in the math survive.
	return cmdSolve(a, []string{line})
}
