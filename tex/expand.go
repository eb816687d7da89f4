package tex

import "fmt"

// This file implements spec §4.5: the expansion-seeking token reader,
// user-macro invocation (parameter matching and substitution), and
// the handful of built-in expandable primitives that need direct
// Mouth access rather than fitting the simpler ExpandFunc/Apply
// shapes (\csname, \noexpand, \expandafter, \string, \meaning).
// Grounded on the control-sequence dispatch loop in
// original_source/rustex/src/engine/mouth.rs's get_next, reworked
// around this package's Mouth/State split.

// expandNext returns the next token that is not itself subject to
// further expansion: it repeatedly reads from the Mouth and, each
// time the token is an expandable control sequence with its Expand
// flag set, performs one expansion and retries.
func (in *Interpreter) expandNext() (Token, error) {
	for {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return Token{}, err
		}
		if !tok.Expand || !tok.IsControlSequence() {
			return tok, nil
		}
		cmd := in.State.GetCommand(tok.Name)
		if cmd == nil {
			return Token{}, newErr(UnknownControlSequence, tok.Source, "undefined control sequence %s", tok)
		}
		if !cmd.IsExpandable() {
			return tok, nil
		}
		exp, err := in.expandOnce(tok, cmd)
		if err != nil {
			return Token{}, err
		}
		if len(exp.Replacement) > 0 {
			in.Mouth.PushTokens(exp.Replacement)
		}
	}
}

// expandOnce performs exactly one level of expansion of tok/cmd,
// tracking recursion depth so a runaway macro (spec §5, scenario 7)
// is caught rather than looping forever.
func (in *Interpreter) expandOnce(tok Token, cmd *Command) (Expansion, error) {
	if err := in.enterRecursion(tok.Source); err != nil {
		return Expansion{}, err
	}
	defer in.exitRecursion()

	switch cmd.Kind {
	case KindMacro:
		return in.expandMacro(tok, cmd)
	case KindConditional:
		id := in.State.PushCondition()
		if err := cmd.CondApply(in, id, false); err != nil {
			return Expansion{}, err
		}
		return Expansion{Cause: tok, Command: cmd}, nil
	case KindExpandable:
		return cmd.Expand(tok, in)
	case KindPrimitive:
		exp, err := cmd.Apply(tok, in)
		if err != nil {
			return Expansion{}, err
		}
		if exp == nil {
			return Expansion{Cause: tok, Command: cmd}, nil
		}
		return *exp, nil
	default:
		return Expansion{}, newErr(ArgumentMismatch, tok.Source, "%s is not expandable", tok)
	}
}

func wrapIfEOF(err error, tok Token) error {
	if IsEndOfInput(err) {
		return newErr(UnexpectedEndOfInput, tok.Source, "file ended while scanning the use of %s", tok)
	}
	return err
}

// expandMacro matches cmd.Macro.Pattern against the upcoming input,
// capturing one argument per parameter token, then substitutes the
// captured arguments into the replacement text (spec §4.5's
// delimited/undelimited parameter matching).
func (in *Interpreter) expandMacro(tok Token, cmd *Command) (Expansion, error) {
	m := cmd.Macro
	args := make([][]Token, m.NumParams)
	pi := 0
	for pi < len(m.Pattern) {
		pat := m.Pattern[pi]
		if pat.Catcode == Parameter && pat.Char >= '1' && pat.Char <= '9' {
			paramNum := int(pat.Char - '1')
			pi++
			var delim []Token
			for pi < len(m.Pattern) && !(m.Pattern[pi].Catcode == Parameter && m.Pattern[pi].Char >= '1' && m.Pattern[pi].Char <= '9') {
				delim = append(delim, m.Pattern[pi])
				pi++
			}
			arg, err := in.readMacroArg(delim)
			if err != nil {
				return Expansion{}, err
			}
			if paramNum < len(args) {
				args[paramNum] = arg
			}
			continue
		}
		next, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return Expansion{}, wrapIfEOF(err, tok)
		}
		if !next.Equal(pat) {
			return Expansion{}, newErr(ArgumentMismatch, next.Source, "use of %s doesn't match its definition", tok)
		}
		pi++
	}
	replacement := substituteParams(m.Replacement, args)
	return Expansion{Cause: tok, Command: cmd, Replacement: replacement}, nil
}

// readMacroArg reads one macro argument. An empty delim means an
// undelimited parameter: a single token, or a balanced brace group
// with its outer braces stripped. A non-empty delim means a delimited
// parameter: tokens are collected, with brace groups kept intact as
// literal content, until the upcoming input matches delim.
func (in *Interpreter) readMacroArg(delim []Token) ([]Token, error) {
	if len(delim) == 0 {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return nil, wrapIfEOF(err, Token{})
		}
		if tok.Catcode == BeginGroup {
			return in.readBalancedGroup()
		}
		return []Token{tok}, nil
	}
	var collected []Token
	for {
		if in.upcomingMatches(delim) {
			for range delim {
				if _, err := in.Mouth.Next(in.State.Scheme()); err != nil {
					return nil, wrapIfEOF(err, Token{})
				}
			}
			break
		}
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return nil, wrapIfEOF(err, Token{})
		}
		if tok.Catcode == BeginGroup {
			grp, err := in.readBalancedGroupFrom(tok)
			if err != nil {
				return nil, err
			}
			collected = append(collected, grp...)
			continue
		}
		collected = append(collected, tok)
	}
	return stripOuterBraces(collected), nil
}

// upcomingMatches peeks len(delim) tokens and reports whether they
// equal delim, restoring every peeked token regardless of outcome.
func (in *Interpreter) upcomingMatches(delim []Token) bool {
	var read []Token
	matched := true
	for _, want := range delim {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			matched = false
			break
		}
		read = append(read, tok)
		if !tok.Equal(want) {
			matched = false
			break
		}
	}
	for i := len(read) - 1; i >= 0; i-- {
		in.Mouth.Requeue(read[i])
	}
	return matched
}

// readBalancedGroup reads tokens after an already-consumed opening
// brace up to and including its matching closing brace, returning the
// inner tokens only.
func (in *Interpreter) readBalancedGroup() ([]Token, error) {
	depth := 1
	var toks []Token
	for {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return nil, wrapIfEOF(err, Token{})
		}
		if tok.Catcode == BeginGroup {
			depth++
		}
		if tok.Catcode == EndGroup {
			depth--
			if depth == 0 {
				return toks, nil
			}
		}
		toks = append(toks, tok)
	}
}

// readBalancedGroupFrom is readBalancedGroup for a delimited-argument
// scan, where the brace pair is part of the captured content rather
// than a parameter boundary, so both braces are kept.
func (in *Interpreter) readBalancedGroupFrom(open Token) ([]Token, error) {
	inner, err := in.readBalancedGroup()
	if err != nil {
		return nil, err
	}
	closing := CharToken('}', EndGroup, open.Source)
	out := make([]Token, 0, len(inner)+2)
	out = append(out, open)
	out = append(out, inner...)
	out = append(out, closing)
	return out, nil
}

// stripOuterBraces removes a single enclosing brace pair from a
// delimited argument's captured tokens, TeX's convention that
// "\def\a#1,{<#1>}  \a{x,y},"  yields #1 = "x,y" rather than "{x,y}".
func stripOuterBraces(toks []Token) []Token {
	if len(toks) < 2 || toks[0].Catcode != BeginGroup || toks[len(toks)-1].Catcode != EndGroup {
		return toks
	}
	depth := 0
	for i, t := range toks {
		if t.Catcode == BeginGroup {
			depth++
		}
		if t.Catcode == EndGroup {
			depth--
			if depth == 0 {
				if i == len(toks)-1 {
					return toks[1 : len(toks)-1]
				}
				return toks
			}
		}
	}
	return toks
}

// substituteParams splices captured arguments into replacement text:
// a Parameter-catcode token with Char '1'..'9' is replaced by that
// argument's tokens; a Parameter-catcode token with Char '#' (from a
// "##" in the macro's definition) becomes one literal '#' token.
func substituteParams(replacement []Token, args [][]Token) []Token {
	out := make([]Token, 0, len(replacement))
	for _, t := range replacement {
		if t.Catcode == Parameter {
			if t.Char >= '1' && t.Char <= '9' {
				idx := int(t.Char - '1')
				if idx < len(args) {
					out = append(out, args[idx]...)
				}
				continue
			}
			out = append(out, CharToken('#', Other, t.Source))
			continue
		}
		out = append(out, t)
	}
	return out
}

// csnameExpand implements \csname...\endcsname: the tokens between
// are fully expanded, their characters concatenated into a name, and
// the result replaced by a single control-sequence token of that
// name. An unused name is bound to \relax, matching classical TeX's
// "\csname creates its target if one doesn't already exist" rule.
func csnameExpand(tok Token, in *Interpreter) (Expansion, error) {
	var name []byte
	for {
		t, err := in.expandNext()
		if err != nil {
			if IsEndOfInput(err) {
				return Expansion{}, newErr(UnexpectedEndOfInput, tok.Source, "file ended inside \\csname")
			}
			return Expansion{}, err
		}
		if t.IsControlSequence() {
			if t.Name == "endcsname" {
				break
			}
			return Expansion{}, newErr(ArgumentMismatch, t.Source, "misplaced control sequence %s inside \\csname", t)
		}
		name = append(name, t.Char)
	}
	csname := string(name)
	if in.State.GetCommand(csname) == nil {
		in.State.Change(StateChange{Kind: ChangeCommand, Name: csname, Command: cmdRelax}, false)
	}
	newTok := ControlSequenceToken(csname, Escape, tok.Source)
	return Expansion{Cause: tok, Replacement: []Token{newTok}}, nil
}

// noexpandExpand implements \noexpand: the following token is read
// without expanding it, and reinserted with its Expand flag cleared,
// so one more pass through expandNext will pass it through untouched
// (e.g. inside \edef capturing literal control sequences).
func noexpandExpand(tok Token, in *Interpreter) (Expansion, error) {
	next, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return Expansion{}, wrapIfEOF(err, tok)
	}
	next.Expand = false
	return Expansion{Cause: tok, Replacement: []Token{next}}, nil
}

// expandafterExpand implements \expandafter: reads one token verbatim,
// then expands the following token exactly once, then reinserts the
// first token ahead of that expansion's result.
func expandafterExpand(tok Token, in *Interpreter) (Expansion, error) {
	a, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return Expansion{}, wrapIfEOF(err, tok)
	}
	b, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return Expansion{}, wrapIfEOF(err, tok)
	}
	var expanded []Token
	if b.Expand && b.IsControlSequence() {
		cmd := in.State.GetCommand(b.Name)
		if cmd == nil {
			return Expansion{}, newErr(UnknownControlSequence, b.Source, "undefined control sequence %s", b)
		}
		if cmd.IsExpandable() {
			exp, err := in.expandOnce(b, cmd)
			if err != nil {
				return Expansion{}, err
			}
			expanded = exp.Replacement
		} else {
			expanded = []Token{b}
		}
	} else {
		expanded = []Token{b}
	}
	result := make([]Token, 0, len(expanded)+1)
	result = append(result, a)
	result = append(result, expanded...)
	return Expansion{Cause: tok, Replacement: result}, nil
}

// stringExpand implements \string: the following token, read
// verbatim, is converted to its printed character sequence (escape
// character plus name for a control sequence, or the character
// itself), every resulting byte carrying catcode Other.
func stringExpand(tok Token, in *Interpreter) (Expansion, error) {
	next, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return Expansion{}, wrapIfEOF(err, tok)
	}
	var s string
	if next.IsControlSequence() {
		esc := byte('\\')
		ch := in.State.Scheme().EscapeCh
		if ch >= 0 && ch <= 255 {
			esc = byte(ch)
		}
		s = string(esc) + next.Name
	} else {
		s = string(next.Char)
	}
	toks := make([]Token, 0, len(s))
	for i := 0; i < len(s); i++ {
		toks = append(toks, CharToken(s[i], Other, tok.Source))
	}
	return Expansion{Cause: tok, Replacement: toks}, nil
}

// describeCommand renders cmd the way \meaning does: a primitive's or
// macro's defining shape, or "undefined" for a nil command.
func describeCommand(cmd *Command) string {
	if cmd == nil {
		return "undefined"
	}
	switch cmd.Kind {
	case KindMacro:
		var b []byte
		for _, t := range cmd.Macro.Pattern {
			b = append(b, []byte(t.String())...)
		}
		b = append(b, '-', '>')
		for _, t := range cmd.Macro.Replacement {
			b = append(b, []byte(t.String())...)
		}
		return "macro:" + string(b)
	case KindRegisterRef:
		return fmt.Sprintf("\\count%d", cmd.Index)
	case KindDimenRef:
		return fmt.Sprintf("\\dimen%d", cmd.Index)
	case KindSkipRef:
		return fmt.Sprintf("\\skip%d", cmd.Index)
	case KindMuSkipRef:
		return fmt.Sprintf("\\muskip%d", cmd.Index)
	default:
		return "\\" + cmd.Name
	}
}

// meaningExpand implements \meaning: the following token, read
// verbatim, is described by describeCommand (or as a bare character),
// rendered as a run of Other-catcode tokens (Space catcode for the
// literal spaces the description contains, matching plain TeX).
func meaningExpand(tok Token, in *Interpreter) (Expansion, error) {
	next, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return Expansion{}, wrapIfEOF(err, tok)
	}
	var desc string
	if next.IsControlSequence() {
		desc = describeCommand(in.State.GetCommand(next.Name))
	} else {
		desc = fmt.Sprintf("the character %s", string(next.Char))
	}
	toks := make([]Token, 0, len(desc))
	for i := 0; i < len(desc); i++ {
		cc := Other
		if desc[i] == ' ' {
			cc = Space
		}
		toks = append(toks, CharToken(desc[i], cc, tok.Source))
	}
	return Expansion{Cause: tok, Replacement: toks}, nil
}
