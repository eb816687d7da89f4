package tex

import (
	"os"
	"strconv"
	"strings"
)

// This file implements the non-conditional primitive table of spec
// §4.7/§6: register families and \the, \def and its variants, \let,
// \global, grouping, \csname's default binding, \input, and the
// after-assignment/after-group hooks. Grounded on
// original_source/rust/src/commands/primitives.rs for which
// primitives exist and their argument grammar, registered the way the
// teacher's parser/token.go builds its keyword table: a plain
// map populated once, here via repeated define() calls in
// registerPrimitives (primitives_register.go).

var cmdRelax = primitiveCommand("relax", false, relaxApply)

func relaxApply(Token, *Interpreter) (*Expansion, error) { return nil, nil }

func parApply(tok Token, in *Interpreter) (*Expansion, error) {
	if in.Mode == VerticalMode {
		return nil, nil
	}
	return nil, in.emit(tok)
}

// skipOptionalEquals implements TeX's "an assignment's number may be
// preceded by spaces and at most one '='" convention.
func (in *Interpreter) skipOptionalEquals() error {
	if err := in.skipSpaces(); err != nil {
		return err
	}
	tok, err := in.expandNext()
	if err != nil {
		if IsEndOfInput(err) {
			return nil
		}
		return err
	}
	if tok.Catcode == Other && tok.Char == '=' {
		return nil
	}
	in.Mouth.Requeue(tok)
	return nil
}

func catcodeAssign(in *Interpreter, prefixes DefPrefixes) error {
	idx, err := in.readInt()
	if err != nil {
		return err
	}
	if idx < 0 || idx > 255 {
		return newErr(NumberFormatError, SourceReference{}, "bad character code (%d)", idx)
	}
	if err := in.skipOptionalEquals(); err != nil {
		return err
	}
	v, err := in.readInt()
	if err != nil {
		return err
	}
	cc, ok := CategoryCodeFromInt(v)
	if !ok {
		return newErr(NumberFormatError, SourceReference{}, "invalid category code %d", v)
	}
	in.State.Change(StateChange{Kind: ChangeCatcode, Byte: byte(idx), Catcode: cc}, prefixes.Global)
	return nil
}

// validateRegisterIndex rejects negative register numbers (spec §9's
// Open Question on pdfTeX-style negative indices, decided against: this
// tree implements no pdfTeX special-register families for a negative
// index to select, so one is simply out of range rather than silently
// aliasing an ordinary register).
func validateRegisterIndex(idx int32) error {
	if idx < 0 {
		return newErr(NumberFormatError, SourceReference{}, "bad register number (%d)", idx)
	}
	return nil
}

func countAssign(in *Interpreter, prefixes DefPrefixes) error {
	idx, err := in.readInt()
	if err != nil {
		return err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return err
	}
	if err := in.skipOptionalEquals(); err != nil {
		return err
	}
	v, err := in.readInt()
	if err != nil {
		return err
	}
	in.State.Change(StateChange{Kind: ChangeCount, Index: idx, IntValue: v}, prefixes.Global)
	return nil
}

func countReadValue(in *Interpreter) (int32, error) {
	idx, err := in.readInt()
	if err != nil {
		return 0, err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return 0, err
	}
	return in.State.GetCount(idx), nil
}

func dimenAssign(in *Interpreter, prefixes DefPrefixes) error {
	idx, err := in.readInt()
	if err != nil {
		return err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return err
	}
	if err := in.skipOptionalEquals(); err != nil {
		return err
	}
	v, err := in.readDimen()
	if err != nil {
		return err
	}
	in.State.Change(StateChange{Kind: ChangeDimen, Index: idx, IntValue: v}, prefixes.Global)
	return nil
}

func dimenReadValue(in *Interpreter) (int32, error) {
	idx, err := in.readInt()
	if err != nil {
		return 0, err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return 0, err
	}
	return in.State.GetDimen(idx), nil
}

func skipAssign(in *Interpreter, prefixes DefPrefixes) error {
	idx, err := in.readInt()
	if err != nil {
		return err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return err
	}
	if err := in.skipOptionalEquals(); err != nil {
		return err
	}
	g, err := in.readGlue()
	if err != nil {
		return err
	}
	in.State.Change(StateChange{Kind: ChangeSkip, Index: idx, GlueValue: g}, prefixes.Global)
	return nil
}

func skipReadValue(in *Interpreter) (int32, error) {
	idx, err := in.readInt()
	if err != nil {
		return 0, err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return 0, err
	}
	return in.State.GetSkip(idx).Base, nil
}

func skipReadGlue(in *Interpreter) (Glue, error) {
	idx, err := in.readInt()
	if err != nil {
		return Glue{}, err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return Glue{}, err
	}
	return in.State.GetSkip(idx), nil
}

func muskipAssign(in *Interpreter, prefixes DefPrefixes) error {
	idx, err := in.readInt()
	if err != nil {
		return err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return err
	}
	if err := in.skipOptionalEquals(); err != nil {
		return err
	}
	g, err := in.readGlue()
	if err != nil {
		return err
	}
	in.State.Change(StateChange{Kind: ChangeMuSkip, Index: idx, GlueValue: g}, prefixes.Global)
	return nil
}

func muskipReadValue(in *Interpreter) (int32, error) {
	idx, err := in.readInt()
	if err != nil {
		return 0, err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return 0, err
	}
	return in.State.GetMuSkip(idx).Base, nil
}

func muskipReadGlue(in *Interpreter) (Glue, error) {
	idx, err := in.readInt()
	if err != nil {
		return Glue{}, err
	}
	if err := validateRegisterIndex(idx); err != nil {
		return Glue{}, err
	}
	return in.State.GetMuSkip(idx), nil
}

// registerDefFactory implements \countdef/\dimendef/\skipdef/
// \muskipdef: "\xxxdef\cs=<number>" binds \cs to a fixed register
// index of the matching family, permanently (until reassigned).
func registerDefFactory(kind CommandKind) AssignFunc {
	return func(in *Interpreter, prefixes DefPrefixes) error {
		nameTok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return wrapIfEOF(err, Token{})
		}
		if !nameTok.IsControlSequence() {
			return newErr(ArgumentMismatch, nameTok.Source, "expected a control sequence after a register-def primitive")
		}
		if err := in.skipOptionalEquals(); err != nil {
			return err
		}
		idx, err := in.readInt()
		if err != nil {
			return err
		}
		if err := validateRegisterIndex(idx); err != nil {
			return err
		}
		in.State.Change(StateChange{Kind: ChangeCommand, Name: nameTok.Name, Command: registerRefCommand(kind, nameTok.Name, idx)}, prefixes.Global)
		return nil
	}
}

// letAssign implements \let: \cs is bound to whatever the following
// token currently means (a copy of another control sequence's
// Command, or a single-character stand-in for a literal character).
func letAssign(in *Interpreter, prefixes DefPrefixes) error {
	nameTok, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return wrapIfEOF(err, Token{})
	}
	if !nameTok.IsControlSequence() {
		return newErr(ArgumentMismatch, nameTok.Source, "\\let must be followed by a control sequence")
	}
	if tok, err := in.Mouth.Next(in.State.Scheme()); err == nil && tok.Catcode != Space {
		in.Mouth.Requeue(tok)
	}
	if tok, err := in.Mouth.Next(in.State.Scheme()); err == nil {
		if tok.Catcode == Other && tok.Char == '=' {
			if tok2, err2 := in.Mouth.Next(in.State.Scheme()); err2 == nil && tok2.Catcode != Space {
				in.Mouth.Requeue(tok2)
			}
		} else {
			in.Mouth.Requeue(tok)
		}
	}
	rhs, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return wrapIfEOF(err, Token{})
	}
	var newCmd *Command
	if rhs.IsControlSequence() {
		newCmd = in.State.GetCommand(rhs.Name)
	} else {
		ch, src := rhs.Char, rhs.Source
		newCmd = expandableCommand(nameTok.Name, func(tok Token, _ *Interpreter) (Expansion, error) {
			return Expansion{Cause: tok, Replacement: []Token{CharToken(ch, Other, src)}}, nil
		})
	}
	in.State.Change(StateChange{Kind: ChangeCommand, Name: nameTok.Name, Command: newCmd}, prefixes.Global)
	return nil
}

func globalApply(tok Token, in *Interpreter) (*Expansion, error) {
	in.setGlobal()
	return nil, nil
}

func longApply(tok Token, in *Interpreter) (*Expansion, error) {
	in.setLong()
	return nil, nil
}

func outerApply(tok Token, in *Interpreter) (*Expansion, error) {
	in.setOuter()
	return nil, nil
}

func protectedApply(tok Token, in *Interpreter) (*Expansion, error) {
	in.setProtected()
	return nil, nil
}

func begingroupApply(tok Token, in *Interpreter) (*Expansion, error) {
	in.State.PushGroup(SemanticGroup)
	in.pushAfterGroupFrame()
	return nil, nil
}

func endgroupApply(tok Token, in *Interpreter) (*Expansion, error) {
	if err := in.State.PopGroup(SemanticGroup); err != nil {
		return nil, err
	}
	in.drainAfterGroup()
	return nil, nil
}

func afterassignmentApply(tok Token, in *Interpreter) (*Expansion, error) {
	t, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return nil, wrapIfEOF(err, tok)
	}
	in.QueueAfterAssignment(t)
	return nil, nil
}

func aftergroupApply(tok Token, in *Interpreter) (*Expansion, error) {
	t, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return nil, wrapIfEOF(err, tok)
	}
	in.QueueAfterGroup(t)
	return nil, nil
}

// readFileBytes is the concrete byte-reading function \input passes
// to FileStore.LoadFromLocator; the core owns the act of reading the
// bytes once a FileLocator (embedder-supplied) has resolved a path.
func readFileBytes(absPath string) ([]byte, error) {
	return os.ReadFile(absPath)
}

func inputApply(tok Token, in *Interpreter) (*Expansion, error) {
	if err := in.skipSpaces(); err != nil {
		return nil, err
	}
	var name []byte
	for {
		t, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			if IsEndOfInput(err) {
				break
			}
			return nil, err
		}
		if t.Catcode == Space {
			break
		}
		if t.IsControlSequence() {
			in.Mouth.Requeue(t)
			break
		}
		name = append(name, t.Char)
	}
	if len(name) == 0 {
		return nil, newErr(ArgumentMismatch, tok.Source, "\\input expects a filename")
	}
	filename := string(name)
	if in.Locator == nil {
		return nil, newErr(FileNotFound, tok.Source, "no file locator configured, cannot \\input %q", filename)
	}
	vf, err := in.Files.LoadFromLocator(filename, in.Locator, readFileBytes)
	if err != nil {
		return nil, err
	}
	in.Mouth.PushFile(vf, filename)
	return nil, nil
}

// formatDimen renders sp scaled points the way \the\dimen does:
// decimal pt value, trailing zeros trimmed.
func formatDimen(sp int32) string {
	neg := sp < 0
	if neg {
		sp = -sp
	}
	intPart := sp / 65536
	frac := int64(sp%65536) * 10
	var digits []byte
	for i := 0; i < 6 && frac != 0; i++ {
		d := frac / 65536
		digits = append(digits, byte('0')+byte(d))
		frac = (frac % 65536) * 10
	}
	s := strconv.FormatInt(int64(intPart), 10)
	if len(digits) > 0 {
		s += "." + string(digits)
	}
	s += "pt"
	if neg {
		s = "-" + s
	}
	return s
}

func formatDimenWithOrder(v int32, order int) string {
	base := strings.TrimSuffix(formatDimen(v), "pt")
	switch order {
	case 1:
		return base + "fil"
	case 2:
		return base + "fill"
	case 3:
		return base + "filll"
	default:
		return base + "pt"
	}
}

func formatGlue(g Glue) string {
	s := formatDimen(g.Base)
	if g.Stretch != 0 || g.StretchFilOrd != 0 {
		s += " plus " + formatDimenWithOrder(g.Stretch, g.StretchFilOrd)
	}
	if g.Shrink != 0 || g.ShrinkFilOrd != 0 {
		s += " minus " + formatDimenWithOrder(g.Shrink, g.ShrinkFilOrd)
	}
	return s
}

// theApply implements \the: the following internal quantity is read
// and its decimal text representation spliced back as a run of
// Other-catcode character tokens (spec §4.5's \the-style unfolding).
func theApply(tok Token, in *Interpreter) (*Expansion, error) {
	next, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return nil, wrapIfEOF(err, tok)
	}
	if !next.IsControlSequence() {
		return nil, newErr(ArgumentMismatch, next.Source, "you can't use \\the on %s", next)
	}
	cmd := in.State.GetCommand(next.Name)
	if cmd == nil {
		return nil, newErr(UnknownControlSequence, next.Source, "undefined control sequence %s", next)
	}
	var text string
	switch {
	case cmd.Name == "count":
		idx, err := in.readInt()
		if err != nil {
			return nil, err
		}
		if err := validateRegisterIndex(idx); err != nil {
			return nil, err
		}
		text = strconv.FormatInt(int64(in.State.GetCount(idx)), 10)
	case cmd.Name == "dimen":
		idx, err := in.readInt()
		if err != nil {
			return nil, err
		}
		if err := validateRegisterIndex(idx); err != nil {
			return nil, err
		}
		text = formatDimen(in.State.GetDimen(idx))
	case cmd.Name == "skip":
		idx, err := in.readInt()
		if err != nil {
			return nil, err
		}
		if err := validateRegisterIndex(idx); err != nil {
			return nil, err
		}
		text = formatGlue(in.State.GetSkip(idx))
	case cmd.Name == "muskip":
		idx, err := in.readInt()
		if err != nil {
			return nil, err
		}
		if err := validateRegisterIndex(idx); err != nil {
			return nil, err
		}
		text = formatGlue(in.State.GetMuSkip(idx))
	case cmd.Name == "catcode":
		idx, err := in.readInt()
		if err != nil {
			return nil, err
		}
		text = strconv.FormatInt(int64(in.State.Scheme().Catcode(byte(idx))), 10)
	case cmd.Kind == KindRegisterRef:
		text = strconv.FormatInt(int64(in.State.GetCount(cmd.Index)), 10)
	case cmd.Kind == KindDimenRef:
		text = formatDimen(in.State.GetDimen(cmd.Index))
	case cmd.Kind == KindSkipRef:
		text = formatGlue(in.State.GetSkip(cmd.Index))
	case cmd.Kind == KindMuSkipRef:
		text = formatGlue(in.State.GetMuSkip(cmd.Index))
	case cmd.ReadValue != nil:
		v, err := cmd.ReadValue(in)
		if err != nil {
			return nil, err
		}
		text = strconv.FormatInt(int64(v), 10)
	default:
		return nil, newErr(ArgumentMismatch, next.Source, "you can't use \\the on %s", next)
	}
	toks := make([]Token, 0, len(text))
	for i := 0; i < len(text); i++ {
		toks = append(toks, CharToken(text[i], Other, tok.Source))
	}
	return &Expansion{Cause: tok, Command: cmd, Replacement: toks}, nil
}

// nextBodyToken reads one token for macro-body scanning: raw for
// \def/\gdef, expansion-seeking (which already honors \noexpand's
// Expand=false marker) for \edef/\xdef.
func (in *Interpreter) nextBodyToken(expand bool) (Token, error) {
	if expand {
		return in.expandNext()
	}
	return in.Mouth.Next(in.State.Scheme())
}

// readMacroPattern reads a macro's parameter text (never expanded,
// even for \edef) up to, but not including, the opening brace of its
// body, converting "#<digit>" into a parameter marker and any other
// "#<tok>" into two literal tokens.
func (in *Interpreter) readMacroPattern() ([]Token, int, error) {
	var pattern []Token
	numParams := 0
	for {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return nil, 0, wrapIfEOF(err, Token{})
		}
		if tok.Catcode == BeginGroup {
			in.Mouth.Requeue(tok)
			return pattern, numParams, nil
		}
		if tok.Catcode == Parameter {
			next, err := in.Mouth.Next(in.State.Scheme())
			if err != nil {
				return nil, 0, wrapIfEOF(err, Token{})
			}
			if next.Catcode == Other && next.Char >= '1' && next.Char <= '9' {
				pattern = append(pattern, paramToken(next.Char, next.Source))
				numParams++
				continue
			}
			pattern = append(pattern, tok, next)
			continue
		}
		pattern = append(pattern, tok)
	}
}

// paramToken builds a Parameter-catcode marker token, used for both
// "substitute argument N" (digit) and "literal #" (the '#' byte
// itself) markers inside a macro's pattern/replacement text.
func paramToken(b byte, src SourceReference) Token {
	return Token{Char: b, Catcode: Parameter, Name: string(b), Source: src}
}

// readMacroBody reads a brace-delimited macro body, recognizing
// "#<digit>" parameter references and "##" doubling the same way
// readMacroPattern does, expanding non-parameter tokens along the way
// when expand is set (\edef/\xdef).
func (in *Interpreter) readMacroBody(expand bool) ([]Token, error) {
	openTok, err := in.nextBodyToken(expand)
	if err != nil {
		return nil, wrapIfEOF(err, Token{})
	}
	if openTok.Catcode != BeginGroup {
		return nil, newErr(ArgumentMismatch, openTok.Source, "missing { inserted")
	}
	var body []Token
	depth := 1
	for {
		tok, err := in.nextBodyToken(expand)
		if err != nil {
			return nil, wrapIfEOF(err, Token{})
		}
		if tok.Catcode == Parameter {
			next, err := in.nextBodyToken(expand)
			if err != nil {
				return nil, wrapIfEOF(err, Token{})
			}
			if next.Catcode == Other && next.Char >= '1' && next.Char <= '9' {
				body = append(body, paramToken(next.Char, next.Source))
				continue
			}
			if next.Catcode == Parameter {
				body = append(body, paramToken('#', next.Source))
				continue
			}
			body = append(body, tok, next)
			continue
		}
		if tok.Catcode == BeginGroup {
			depth++
		}
		if tok.Catcode == EndGroup {
			depth--
			if depth == 0 {
				return body, nil
			}
		}
		body = append(body, tok)
	}
}

// defAssignFactory builds the Assign function shared by \def, \edef,
// \gdef, and \xdef: they differ only in whether the replacement text
// is expanded at definition time and whether global scope is forced.
func defAssignFactory(forceGlobal, expand bool) AssignFunc {
	return func(in *Interpreter, prefixes DefPrefixes) error {
		global := prefixes.Global || forceGlobal
		nameTok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			return wrapIfEOF(err, Token{})
		}
		if !nameTok.IsControlSequence() {
			return newErr(ArgumentMismatch, nameTok.Source, "expected a control sequence after \\def")
		}
		pattern, numParams, err := in.readMacroPattern()
		if err != nil {
			return err
		}
		body, err := in.readMacroBody(expand)
		if err != nil {
			return err
		}
		m := &MacroDef{
			Pattern:     pattern,
			Replacement: body,
			NumParams:   numParams,
			Protected:   prefixes.Protected,
			Long:        prefixes.Long,
			Outer:       prefixes.Outer,
		}
		in.State.Change(StateChange{Kind: ChangeCommand, Name: nameTok.Name, Command: macroCommand(nameTok.Name, m)}, global)
		return nil
	}
}
