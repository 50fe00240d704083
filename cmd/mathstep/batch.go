package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mathstep/mathcore/solve"
)

type batchItem struct {
	line  int
	input string
	res   solve.CalculationResult
	err   error
}

// readInputs returns the non-blank, non-comment lines of r.
func readInputs(r io.Reader) ([]batchItem, error) {
	var items []batchItem
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, batchItem{line: n, input: line})
	}
	return items, sc.Err()
}

// batch solves every input of r with at most workers goroutines and prints the
// results in input order. A failing input is reported, not fatal.
func (a *app) batch(ctx context.Context, r io.Reader, workers int) error {
	items, err := readInputs(r)
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range items {
		it := &items[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			it.res, it.err = a.solver.Solve(it.input)
			if it.err != nil {
				a.log.Warn("input failed", "line", it.line, "input", it.input, "err", it.err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Debug("batch done", "inputs", len(items), "workers", workers, "elapsed", time.Since(start))

	if a.format == "json" {
		out := make([]jsonResult, len(items))
		for i, it := range items {
			out[i] = jsonResult{Input: it.input}
			if it.err != nil {
				out[i].Error = it.err.Error()
				continue
			}
			res := it.res
			out[i].Result = &res
		}
		return a.printJSON(out)
	}

	for _, it := range items {
		if it.err != nil {
			if _, err := fmt.Fprintf(a.out, "%s\n=> error: %v\n\n", it.input, it.err); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(a.out, formatText(it.input, it.res)); err != nil {
			return err
		}
	}
	return nil
}
