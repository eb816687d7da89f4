package tex

import (
	"strings"
	"testing"

	"github.com/texcore/texcore/params"
)

// newTestInterpreter builds an Interpreter over plain TeX's default
// catcodes with synthetic end-of-line character tokens disabled, so
// test sources can be written as a single logical line without a
// trailing space/\par showing up in Emitted.
func newTestInterpreter() *Interpreter {
	scheme := NewPlainTeXScheme()
	scheme.Endline = -1
	return NewInterpreter(scheme, &params.Params{Fatal: true}, nil)
}

// runAll drives Step until the Mouth is exhausted, treating
// end-of-input as success.
func runAll(in *Interpreter) error {
	for {
		if err := in.Step(); err != nil {
			if IsEndOfInput(err) {
				return nil
			}
			return err
		}
	}
}

func emittedString(in *Interpreter) string {
	var b strings.Builder
	for _, t := range in.Emitted {
		b.WriteByte(t.Char)
	}
	return b.String()
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"count register plus \\the", `\count0=42 \the\count0`, "42"},
		{"dimen register plus \\the", `\dimen0=1.5pt \the\dimen0`, "1.5pt"},
		{"macro with undelimited argument", `\def\a#1{<#1>}\a{hi}`, "<hi>"},
		{"macro with delimited argument", `\def\a#1,{(#1)}\a{x,y},`, "(x,y)"},
		{"## doubles to a literal # in the body", `\def\a#1{#1##}\a{Z}`, "Z#"},
		{"ifnum true branch", `\ifnum 3>2 Y\else N\fi`, "Y"},
		{"ifnum false branch", `\ifnum 1>2 Y\else N\fi`, "N"},
		{"ifx equal macros", `\def\a{x}\def\b{x}\ifx\a\b Y\else N\fi`, "Y"},
		{"ifx unequal macros", `\def\a{x}\def\b{y}\ifx\a\b Y\else N\fi`, "N"},
		{"ifx both undefined", `\ifx\undefa\undefb Y\else N\fi`, "Y"},
		{"ifcase lands on second or", `\ifcase 2 A\or B\or C\fi`, "C"},
		{"ifcase first branch skips remaining or bodies", `\ifcase0 A\or B\or C\fi`, "A"},
		{"ifodd", `\ifodd 3 Y\else N\fi`, "Y"},
		{"unless negates", `\unless\ifodd 3 Y\else N\fi`, "N"},
		{"catcode change scoped to its group", "{\\catcode`\\@=11 \\the\\catcode`\\@}\\the\\catcode`\\@", "1112"},
		{"let aliases a primitive", `\let\a=\relax \a X`, "X"},
		{"edef captures value at definition time", `\def\n{5}\edef\m{\n}\let\n=\relax \m`, "5"},
		{"def defers expansion to call time", `\def\n{5}\def\m{\n}\let\n=\relax \m`, ""},
		{"csname binds to relax by default", `\csname foo\endcsname X`, "X"},
		{"string primitive", `\string\foo`, `\foo`},
		{"meaning of an undefined name", `\meaning\neverdefined`, "undefined"},
		{"global survives its group", `{\global\count0=7 }\the\count0`, "7"},
		{"local does not survive its group", `{\count0=7 }\the\count0`, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := newTestInterpreter()
			in.Mouth.PushString(tc.src)
			if err := runAll(in); err != nil {
				t.Fatalf("run(%q): %v", tc.src, err)
			}
			got := emittedString(in)
			if got != tc.want {
				t.Errorf("run(%q) emitted %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

func TestRunawayMacroCapacityExceeded(t *testing.T) {
	in := newTestInterpreter()
	in.Mouth.PushString(`\def\x{\x}\x`)
	err := runAll(in)
	if err == nil {
		t.Fatal("expected a CapacityExceeded error for infinite macro recursion")
	}
	te, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %T, want *Error", err)
	}
	if te.Kind != CapacityExceeded {
		t.Errorf("got error kind %v, want CapacityExceeded", te.Kind)
	}
}

func TestUnknownControlSequenceErrors(t *testing.T) {
	in := newTestInterpreter()
	in.Mouth.PushString(`\thisIsNotDefined`)
	err := runAll(in)
	if err == nil {
		t.Fatal("expected an UnknownControlSequence error")
	}
	te, ok := err.(*Error)
	if !ok || te.Kind != UnknownControlSequence {
		t.Errorf("got %v, want UnknownControlSequence", err)
	}
}

func TestExtraFiErrors(t *testing.T) {
	in := newTestInterpreter()
	in.Mouth.PushString(`\fi`)
	err := runAll(in)
	if err == nil {
		t.Fatal("expected an ExtraElseOrFi error")
	}
	te, ok := err.(*Error)
	if !ok || te.Kind != ExtraElseOrFi {
		t.Errorf("got %v, want ExtraElseOrFi", err)
	}
}

func TestMismatchedGroupErrors(t *testing.T) {
	in := newTestInterpreter()
	in.Mouth.PushString(`{\begingroup}`)
	err := runAll(in)
	if err == nil {
		t.Fatal("expected a GroupMismatch error closing a \\begingroup semantic group with a brace")
	}
	te, ok := err.(*Error)
	if !ok || te.Kind != GroupMismatch {
		t.Errorf("got %v, want GroupMismatch", err)
	}
}

func TestRunStopsAtFirstErrorWhenFatal(t *testing.T) {
	in := newTestInterpreter()
	in.Mouth.PushString(`a\undefined b`)
	err := in.Run()
	if err == nil {
		t.Fatal("expected Run to surface the UnknownControlSequence error")
	}
	if got := emittedString(in); got != "a" {
		t.Errorf("emitted %q before the error, want %q", got, "a")
	}
}

func TestRunContinuesWhenNotFatal(t *testing.T) {
	scheme := NewPlainTeXScheme()
	scheme.Endline = -1
	in := NewInterpreter(scheme, &params.Params{Fatal: false}, nil)
	in.Mouth.PushString(`a\undefined b`)
	if err := in.Run(); err != nil {
		t.Fatalf("Run with Fatal=false should not return an error, got %v", err)
	}
	if got := emittedString(in); got != "ab" {
		t.Errorf("emitted %q, want %q", got, "ab")
	}
}

func TestProtectedMacroReachesDispatcherUnexpanded(t *testing.T) {
	in := newTestInterpreter()
	in.Mouth.PushString(`\protected\def\x{SHOULD NOT EXPAND}\x`)
	if err := runAll(in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(in.Emitted) == 0 {
		t.Fatal("expected \\x itself to reach Emitted")
	}
	last := in.Emitted[len(in.Emitted)-1]
	if !last.IsControlSequence() || last.Name != "x" {
		t.Errorf("last emitted token = %+v, want unexpanded control sequence \\x", last)
	}
	cmd := in.State.GetCommand("x")
	if cmd == nil || cmd.Macro == nil || !cmd.Macro.Protected {
		t.Fatal("\\x should be defined as a protected macro")
	}
}
