package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mathstep/mathcore/solve"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func TestOneShotSolve(t *testing.T) {
	out, err := runCLI(t, "", "2x+3=7")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x = 2") || !strings.Contains(out, solve.TitleMoveTerms) {
		t.Fatalf("out=%q", out)
	}

	out, err = runCLI(t, "", "solve", "x^2-5x+6=0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x_1 = 2") {
		t.Fatalf("out=%q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	out, err := runCLI(t, "", "-format", "json", "sin(30)")
	if err != nil {
		t.Fatal(err)
	}
	var got jsonResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if got.Result == nil || !strings.Contains(got.Result.FinalAnswer, `\frac{1}{2}`) {
		t.Fatalf("got=%+v", got)
	}
}

func TestBatchKeepsOrder(t *testing.T) {
	in := "# comment\n2x=4\n\nx^2=9\n1/0\n3x=9\n"
	out, err := runCLI(t, in, "-file", "-", "-workers", "3", "-format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var got []jsonResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	want := []string{"2x=4", "x^2=9", "1/0", "3x=9"}
	if len(got) != len(want) {
		t.Fatalf("got %d results want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Input != w {
			t.Fatalf("result %d input=%q want=%q", i, got[i].Input, w)
		}
	}
	if got[2].Error == "" || got[2].Result != nil {
		t.Fatalf("expected an error for 1/0, got %+v", got[2])
	}
	if !strings.Contains(got[3].Result.FinalAnswer, "x = 3") {
		t.Fatalf("got=%+v", got[3].Result)
	}
}

func TestREPL(t *testing.T) {
	in := "2x=6\ngraph y=(x-1)(x+3)\nbogus(\nquit\n2x=8\n"
	out, err := runCLI(t, in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x = 3") || !strings.Contains(out, "y = x^2+2x-3") {
		t.Fatalf("out=%q", out)
	}
	if !strings.Contains(out, "error:") {
		t.Fatalf("expected an error line, out=%q", out)
	}
	if strings.Contains(out, "x = 4") {
		t.Fatalf("input after quit was solved: %q", out)
	}
}

func TestCommands(t *testing.T) {
	out, err := runCLI(t, "", "parse", "2x+1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "expr.Binary") || !strings.Contains(out, "latex: 2x + 1") {
		t.Fatalf("out=%q", out)
	}

	out, err = runCLI(t, "", "eval", "1/3+1/6")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1/2" {
		t.Fatalf("out=%q", out)
	}

	out, err = runCLI(t, "", "version")
	if err != nil || !strings.HasPrefix(out, "mathstep dev") {
		t.Fatalf("out=%q err=%v", out, err)
	}

	if _, err := runCLI(t, "", "graph", "x^2=4"); err == nil {
		t.Fatal("expected graph error")
	}
}

func TestFlagErrors(t *testing.T) {
	if _, err := runCLI(t, "", "-format", "xml", "1+1"); err == nil {
		t.Fatal("expected format error")
	}
	if _, err := runCLI(t, "", "-angle", "grad", "1+1"); err == nil {
		t.Fatal("expected angle error")
	}
	if _, err := runCLI(t, "", "-nope"); err == nil || errors.Is(err, errQuit) {
		t.Fatalf("err=%v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	cmd, ok := r.resolve("S")
	if !ok || cmd.Name != "solve" {
		t.Fatalf("resolve(S)=%v,%v", cmd.Name, ok)
	}
	if err := r.register(command{Name: "solve", Run: cmdSolve}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if names := r.names(); names[0] != "eval" {
		t.Fatalf("names=%v", names)
	}
}
