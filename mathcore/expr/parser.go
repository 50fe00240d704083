package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrParse = errors.New("parse error")

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokPipe
	tokPercent
	tokIllegal
)

type token struct {
	kind tokenKind
	text string
	pos  int
	val  Expr
}

// knownNames are matched greedily inside a run of letters, longest first, so
// "sinx" lexes as sin x and "2pi" as 2 pi. Any other letter is its own identifier.
var knownNames = []string{
	"arcsin", "arccos", "arctan",
	"sqrt", "root", "asin", "acos", "atan",
	"sin", "cos", "tan", "log", "exp", "abs",
	"ln", "pi",
}

var funcByName = map[string]Fn{
	"sin":    FnSin,
	"cos":    FnCos,
	"tan":    FnTan,
	"asin":   FnAsin,
	"acos":   FnAcos,
	"atan":   FnAtan,
	"arcsin": FnAsin,
	"arccos": FnAcos,
	"arctan": FnAtan,
	"log":    FnLog,
	"ln":     FnLn,
	"exp":    FnExp,
	"abs":    FnAbs,
}

var inputReplacer = strings.NewReplacer(
	"²", "^2",
	"³", "^3",
	"×", "*",
	"·", "*",
	"÷", "/",
	"−", "-",
	"π", "pi",
	"√", "sqrt",
	"°", "",
	"[", "(",
	"]", ")",
	"{", "(",
	"}", ")",
)

// Normalize rewrites the unicode math symbols a keyboard or UI may produce into
// the ASCII forms the lexer understands.
func Normalize(s string) string {
	return inputReplacer.Replace(s)
}

type lexer struct {
	s string
	i int
}

func (l *lexer) next() token {
	for l.i < len(l.s) && unicode.IsSpace(rune(l.s[l.i])) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}

	start := l.i
	single := func(kind tokenKind) token {
		l.i++
		return token{kind: kind, text: l.s[start:l.i], pos: start}
	}
	switch l.s[l.i] {
	case '+':
		return single(tokPlus)
	case '-':
		return single(tokMinus)
	case '*':
		return single(tokStar)
	case '/':
		return single(tokSlash)
	case '^':
		return single(tokCaret)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	case '|':
		return single(tokPipe)
	case '%':
		return single(tokPercent)
	}

	ch := rune(l.s[l.i])
	if isLetter(ch) {
		rest := l.s[l.i:]
		for _, name := range knownNames {
			if strings.HasPrefix(rest, name) {
				l.i += len(name)
				return token{kind: tokIdent, text: name, pos: start}
			}
		}
		l.i++
		return token{kind: tokIdent, text: l.s[start:l.i], pos: start}
	}
	if ch == '.' || isDigit(ch) {
		l.i = scanNumber(l.s, l.i)
		txt := l.s[start:l.i]
		v, ok := parseNumber(txt)
		if !ok {
			return token{kind: tokIllegal, text: txt, pos: start}
		}
		return token{kind: tokNumber, text: txt, pos: start, val: v}
	}

	l.i++
	return token{kind: tokIllegal, text: string(ch), pos: start}
}

func isLetter(r rune) bool { return r < 0x80 && unicode.IsLetter(r) }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

func scanNumber(s string, i int) int {
	start := i
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
		// A second point makes the whole run one malformed number.
		for i < len(s) && (s[i] == '.' || isDigit(rune(s[i]))) {
			i++
		}
	}
	if i == start {
		return start + 1
	}
	return i
}

// parseNumber returns Integer for plain digit runs that fit in int64 and Float otherwise.
func parseNumber(txt string) (Expr, bool) {
	if txt == "." {
		return nil, false
	}
	if !strings.Contains(txt, ".") {
		if n, err := strconv.ParseInt(txt, 10, 64); err == nil {
			return Integer{Value: n}, true
		}
	}
	f, err := strconv.ParseFloat(txt, 64)
	if err != nil {
		return nil, false
	}
	return Float{Value: f}, true
}

type parser struct {
	l   lexer
	cur token
}

// Parse reads a complete expression. Trailing input after a valid prefix is an error.
func Parse(s string) (Expr, error) {
	p := &parser{l: lexer{s: Normalize(s)}}
	p.next()
	if p.cur.kind == tokEOF {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}
	ex, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.unexpected()
	}
	return ex, nil
}

// MustParse is Parse for expressions known to be valid.
func MustParse(s string) Expr {
	ex, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("expr: MustParse(%q): %v", s, err))
	}
	return ex
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) unexpected() error {
	switch p.cur.kind {
	case tokEOF:
		return fmt.Errorf("%w: unexpected end of input", ErrParse)
	case tokIllegal:
		return fmt.Errorf("%w: illegal character %q at %d", ErrParse, p.cur.text, p.cur.pos)
	}
	return fmt.Errorf("%w: unexpected %q at %d", ErrParse, p.cur.text, p.cur.pos)
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.cur.kind != kind {
		if p.cur.kind == tokEOF {
			return fmt.Errorf("%w: expected %s", ErrParse, what)
		}
		return fmt.Errorf("%w: expected %s at %d, got %q", ErrParse, what, p.cur.pos, p.cur.text)
	}
	p.next()
	return nil
}

func (p *parser) parseExpr() (Expr, error) {
	ex, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokPercent {
		p.next()
		ex = Percent{Inner: ex}
	}
	return ex, nil
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := Op(p.cur.text[0])
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.kind {
		case tokStar, tokSlash:
			op := Op(p.cur.text[0])
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Binary{Op: op, Left: left, Right: right}
		case tokPercent:
			p.next()
			left = Percent{Inner: left}
		case tokNumber, tokIdent, tokLParen:
			// Implicit multiplication: 2x, x(x+1), (x+1)(x-1), 3sqrt(2).
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = Binary{Op: OpMul, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.cur.kind {
	case tokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(x), nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokCaret {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.val
		p.next()
		return v, nil
	case tokIdent:
		return p.parseIdent()
	case tokLParen:
		p.next()
		ex, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return ex, nil
	case tokPipe:
		p.next()
		ex, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokPipe, "'|'"); err != nil {
			return nil, err
		}
		return Func{Fn: FnAbs, Arg: ex}, nil
	}
	return nil, p.unexpected()
}

func (p *parser) parseIdent() (Expr, error) {
	name := p.cur.text
	p.next()
	switch name {
	case "pi":
		return Constant{Name: ConstPi}, nil
	case "e":
		return Constant{Name: ConstE}, nil
	case "root":
		return p.parseRootCall()
	case "sqrt":
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return Sqrt(arg), nil
	}
	if fn, ok := funcByName[name]; ok {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		return Func{Fn: fn, Arg: arg}, nil
	}
	return Variable{Name: name}, nil
}

// parseArgument reads a function argument: a parenthesised expression or, as in
// "sin30" or "sqrt2", the following power.
func (p *parser) parseArgument() (Expr, error) {
	if p.cur.kind != tokLParen {
		return p.parsePower()
	}
	p.next()
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return arg, nil
}

func (p *parser) parseRootCall() (Expr, error) {
	if err := p.expect(tokLParen, "'(' after root"); err != nil {
		return nil, err
	}
	idxTok := p.cur
	idx, ok := idxTok.val.(Integer)
	if idxTok.kind != tokNumber || !ok || idx.Value < 2 || idx.Value > 64 {
		return nil, fmt.Errorf("%w: root index must be an integer between 2 and 64", ErrParse)
	}
	p.next()
	if err := p.expect(tokComma, "','"); err != nil {
		return nil, err
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return Root{Radicand: arg, Index: int(idx.Value)}, nil
}
