// Package texdebug renders the token-stack trace spec §7 asks
// diagnostics to carry, and ad hoc dumps of single tokens and token
// lists for interactive debugging. Grounded on database/mysql/parser.go's
// use of github.com/k0kubun/pp/v3 to pretty-print a parsed AST for
// debugging; same library, now aimed at tex.Token values instead of a
// MySQL AST.
package texdebug

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp/v3"

	"github.com/texcore/texcore/tex"
)

// Dumper pretty-prints tex values to an underlying writer, sharing one
// pp.PrettyPrinter configuration (no color codes, since diagnostic
// output is as likely to land in a log file as a terminal).
type Dumper struct {
	pp *pp.PrettyPrinter
}

// NewDumper returns a Dumper writing to w.
func NewDumper(w io.Writer) *Dumper {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	printer.SetOutput(w)
	return &Dumper{pp: printer}
}

// Token dumps a single token's full struct shape (catcode, name,
// source, expand flag) — the teacher's pp.Println(root) used on a
// parsed AST node, here used on one lexed unit.
func (d *Dumper) Token(t tex.Token) {
	d.pp.Println(t)
}

// Tokens dumps an ordered token list, one pp.Println per element so
// long macro bodies don't collapse into an unreadable single line.
func (d *Dumper) Tokens(toks []tex.Token) {
	for _, t := range toks {
		d.pp.Println(t)
	}
}

// Trace renders err's derivation chain (spec §7's token-stack trace)
// by delegating to tex.Error.Trace when err carries one, falling back
// to a bare Error() line otherwise.
func Trace(w io.Writer, err error) {
	if te, ok := err.(*tex.Error); ok {
		fmt.Fprint(w, te.Trace())
		return
	}
	fmt.Fprintln(w, err.Error())
}
