package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"mathstep/internal/buildinfo"
	"mathstep/mathcore/expr"
	"mathstep/mathcore/solve"
)

var errQuit = errors.New("quit")

type cmdFunc func(a *app, args []string) error

type command struct {
	Name    string
	Aliases []string
	Usage   string
	Desc    string
	Run     cmdFunc
}

type registry struct {
	primary map[string]command
	lookup  map[string]string
}

func newRegistry() *registry {
	r := &registry{
		primary: make(map[string]command),
		lookup:  make(map[string]string),
	}
	for _, cmd := range []command{
		{Name: "solve", Aliases: []string{"s"}, Usage: "solve <input>", Desc: "Solve an equation, system or expression.", Run: cmdSolve},
		{Name: "parse", Aliases: []string{"p"}, Usage: "parse <expr>", Desc: "Show the expression tree.", Run: cmdParse},
		{Name: "eval", Usage: "eval <expr>", Desc: "Simplify and evaluate an expression.", Run: cmdEval},
		{Name: "graph", Aliases: []string{"g"}, Usage: "graph <y=f(x)>", Desc: "Prepare a function of x for plotting.", Run: cmdGraph},
		{Name: "version", Usage: "version", Desc: "Print build information.", Run: cmdVersion},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Desc: "List commands.", Run: cmdHelp},
		{Name: "quit", Aliases: []string{"exit"}, Usage: "quit", Desc: "Leave interactive mode.", Run: cmdQuit},
	} {
		if err := r.register(cmd); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *registry) register(cmd command) error {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("registry: empty command name")
	}
	if cmd.Run == nil {
		return fmt.Errorf("registry: %q has no handler", cmd.Name)
	}
	if _, ok := r.lookup[cmd.Name]; ok {
		return fmt.Errorf("registry: duplicate command %q", cmd.Name)
	}

	r.primary[cmd.Name] = cmd
	r.lookup[cmd.Name] = cmd.Name
	for _, alias := range cmd.Aliases {
		if _, ok := r.lookup[alias]; ok {
			return fmt.Errorf("registry: duplicate alias %q", alias)
		}
		r.lookup[alias] = cmd.Name
	}
	return nil
}

func (r *registry) resolve(name string) (command, bool) {
	primary, ok := r.lookup[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return command{}, false
	}
	cmd, ok := r.primary[primary]
	return cmd, ok
}

func (r *registry) names() []string {
	out := maps.Keys(r.primary)
	slices.Sort(out)
	return out
}

func (r *registry) usage() []string {
	return lo.Map(r.names(), func(name string, _ int) string {
		cmd := r.primary[name]
		return fmt.Sprintf("%-16s %s", cmd.Usage, cmd.Desc)
	})
}

func cmdSolve(a *app, args []string) error {
	input := joinArgs(args)
	if input == "" {
		return fmt.Errorf("usage: solve <input>")
	}
	res, err := a.solver.Solve(input)
	if err != nil {
		a.log.Debug("solve failed", "input", input, "err", err)
		return err
	}
	a.log.Debug("solved", "input", input, "steps", len(res.Steps))
	return a.printResult(input, res)
}

func cmdParse(a *app, args []string) error {
	e, err := expr.Parse(solve.Normalize(joinArgs(args)))
	if err != nil {
		return err
	}
	if a.format == "json" {
		return a.printJSON(map[string]string{
			"tree":  repr.String(e),
			"text":  e.String(),
			"latex": e.LaTeX(),
		})
	}
	_, err = fmt.Fprintf(a.out, "%s\ntext:  %s\nlatex: %s\n", repr.String(e, repr.Indent("  ")), e.String(), e.LaTeX())
	return err
}

func cmdEval(a *app, args []string) error {
	e, err := expr.Parse(solve.Normalize(joinArgs(args)))
	if err != nil {
		return err
	}
	v := e.Evaluate()
	line := v.String()
	if f, ok := expr.Float64(v); ok && !expr.IsExact(v) {
		line = fmt.Sprintf("%s ≈ %g", v.String(), f)
	}
	if a.format == "json" {
		return a.printJSON(map[string]string{"input": e.String(), "value": v.String(), "latex": v.LaTeX()})
	}
	_, err = fmt.Fprintln(a.out, line)
	return err
}

func cmdGraph(a *app, args []string) error {
	input := joinArgs(args)
	if !solve.IsGraphableExpression(input) {
		return fmt.Errorf("%q is not a function of x", input)
	}
	fn := solve.PrepareFunctionForGraphing(input)
	if a.format == "json" {
		return a.printJSON(map[string]string{"input": input, "function": fn})
	}
	_, err := fmt.Fprintf(a.out, "y = %s\n", fn)
	return err
}

func cmdVersion(a *app, _ []string) error {
	_, err := fmt.Fprintf(a.out, "mathstep %s\n", buildinfo.String())
	return err
}

func cmdHelp(a *app, _ []string) error {
	for _, line := range a.cmds.usage() {
		if _, err := fmt.Fprintln(a.out, line); err != nil {
			return err
		}
	}
	return nil
}

func cmdQuit(*app, []string) error { return errQuit }
