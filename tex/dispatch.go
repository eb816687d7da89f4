package tex

// This file implements the top-level dispatch loop of spec §4.7:
// classify each token by catcode, route control sequences to the
// matching Assignment/Expandable/Conditional/Primitive/External
// handling, and forward literal characters (subject to vertical/
// horizontal mode) to the Stomach. Grounded on
// original_source/rustex/src/interpreter.rs's main token loop,
// reworked around this package's explicit State/Mouth split instead
// of rustex's single engine struct.

// Run drives the dispatch loop until input is exhausted or a
// Params-driven policy decides to stop on error: with Params.Fatal
// set, the first error aborts the run; otherwise it is logged via
// Params.Error and the loop continues at the next top-level token
// (spec §7's "optional Params-configured soft errors").
func (in *Interpreter) Run() error {
	for {
		err := in.Step()
		if err == nil {
			continue
		}
		if IsEndOfInput(err) {
			return nil
		}
		if in.Params.Fatal {
			return err
		}
		in.Params.Error(err.Error())
	}
}

// Step dispatches exactly one top-level token, for callers (and
// tests) that want to drive the loop themselves rather than calling
// Run.
func (in *Interpreter) Step() error {
	tok, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return err
	}
	return in.dispatch(tok)
}

func (in *Interpreter) dispatch(tok Token) error {
	switch tok.Catcode {
	case Escape, Active:
		return in.dispatchControlSequence(tok)
	case BeginGroup:
		in.State.PushGroup(TokenGroup)
		in.pushAfterGroupFrame()
		return nil
	case EndGroup:
		if err := in.State.PopGroup(TokenGroup); err != nil {
			return err
		}
		in.drainAfterGroup()
		return nil
	case Space, EndOfLine:
		if in.Mode == VerticalMode {
			return nil
		}
		return in.emit(tok)
	case Ignored, Comment, Invalid:
		return nil
	default:
		return in.emit(tok)
	}
}

func (in *Interpreter) dispatchControlSequence(tok Token) error {
	cmd := in.State.GetCommand(tok.Name)
	if cmd == nil {
		return newErr(UnknownControlSequence, tok.Source, "undefined control sequence %s", tok)
	}
	switch cmd.Kind {
	case KindMacro:
		// spec §4.7 step (b): expandable-with-protected — a \protected
		// macro skips expand-and-loop and instead falls through as if it
		// were delivered unexpanded, the one case where a macro's own
		// Kind doesn't route it through expandOnce.
		if cmd.Macro != nil && cmd.Macro.Protected {
			return in.emit(tok)
		}
		exp, err := in.expandOnce(tok, cmd)
		if err != nil {
			return err
		}
		if len(exp.Replacement) > 0 {
			in.Mouth.PushTokens(exp.Replacement)
		}
		return nil
	case KindConditional, KindExpandable:
		exp, err := in.expandOnce(tok, cmd)
		if err != nil {
			return err
		}
		if len(exp.Replacement) > 0 {
			in.Mouth.PushTokens(exp.Replacement)
		}
		return nil
	case KindPrimitive:
		if cmd.Name == "par" {
			return parApplyTop(tok, in)
		}
		exp, err := cmd.Apply(tok, in)
		if err != nil {
			return err
		}
		if exp != nil && len(exp.Replacement) > 0 {
			in.Mouth.PushTokens(exp.Replacement)
		}
		return nil
	case KindAssignment:
		prefixes := in.consumePrefixes()
		if err := cmd.Assign(in, prefixes); err != nil {
			return err
		}
		in.drainAfterAssignment()
		return nil
	case KindRegisterRef, KindDimenRef, KindSkipRef, KindMuSkipRef:
		// A countdef-bound (etc.) control sequence encountered at the
		// top level, outside any number/\the context, names a value
		// with nowhere to go; classical TeX disallows this entirely. We
		// accept it leniently as a no-op rather than erroring.
		return nil
	case KindExternal:
		return cmd.Execute(in)
	default:
		panic("tex: unhandled CommandKind in dispatch")
	}
}

// parApplyTop forwards to parApply; kept as a named indirection so
// dispatch reads the same whether \par was looked up fresh or
// \let-aliased to something else still named "par" (it never is, in
// practice, but the indirection costs nothing and keeps this switch
// arm symmetric with the others).
func parApplyTop(tok Token, in *Interpreter) error {
	_, err := parApply(tok, in)
	return err
}
