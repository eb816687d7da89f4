package tex

// This file implements the conditional engine of spec §4.4, grounded
// directly on original_source/rustex/src/commands/conditionals.rs's
// false_loop/dotrue/dofalse shape, translated from static dispatch
// tables into methods on Interpreter.

// falseLoop skips tokens until the matching \else (if allowElse) or
// \fi is reached, tracking nested \ifX depth: every conditional
// control sequence increments an inner counter, every \fi decrements
// it, and a \fi at depth zero ends the scan. It must look up control
// sequences to tell conditionals from non-conditionals but must never
// execute or expand anything it finds (spec §4.4).
func (in *Interpreter) falseLoop(allowElse bool) error {
	depth := 0
	for {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			if IsEndOfInput(err) {
				return newErr(UnexpectedEndOfInput, SourceReference{}, "file ended inside conditional")
			}
			return err
		}
		if !tok.IsControlSequence() {
			continue
		}
		cmd := in.State.GetCommand(tok.Name)
		if cmd == nil {
			continue
		}
		switch {
		case cmd.Kind == KindConditional:
			depth++
		case cmd.Kind == KindPrimitive && cmd.Name == "fi":
			if depth == 0 {
				return in.State.PopCondition()
			}
			depth--
		case cmd.Kind == KindPrimitive && cmd.Name == "else":
			if allowElse && depth == 0 {
				return nil
			}
		}
	}
}

// applyConditionResult resolves the condition reserved at id to pred
// (inverted first if unless is set) and, if the result is false, skips
// to the matching \else or \fi. Every ordinary \ifX primitive
// (\ifnum, \ifx, \iftrue, \ifodd, \ifdim, ...) funnels through this
// after computing its own predicate.
func (in *Interpreter) applyConditionResult(id int, pred bool, unless bool) error {
	if unless {
		pred = !pred
	}
	in.State.SetCondition(id, pred)
	if pred {
		return nil
	}
	return in.falseLoop(true)
}

// caseLanding names where skipCaseBranches stopped.
type caseLanding int

const (
	landedFi caseLanding = iota
	landedElse
	landedOr
)

// skipCaseBranches scans \ifcase's case bodies, decrementing
// remaining on each top-level \or, the same depth-tracked scan as
// falseLoop but also recognizing \or as a separator.
func (in *Interpreter) skipCaseBranches(remaining int32) (caseLanding, error) {
	depth := 0
	for {
		tok, err := in.Mouth.Next(in.State.Scheme())
		if err != nil {
			if IsEndOfInput(err) {
				return 0, newErr(UnexpectedEndOfInput, SourceReference{}, "file ended inside \\ifcase")
			}
			return 0, err
		}
		if !tok.IsControlSequence() {
			continue
		}
		cmd := in.State.GetCommand(tok.Name)
		if cmd == nil {
			continue
		}
		if cmd.Kind == KindConditional {
			depth++
			continue
		}
		if cmd.Kind != KindPrimitive {
			continue
		}
		switch cmd.Name {
		case "fi":
			if depth == 0 {
				return landedFi, nil
			}
			depth--
		case "else":
			if depth == 0 {
				return landedElse, nil
			}
		case "or":
			if depth == 0 {
				remaining--
				if remaining <= 0 {
					return landedOr, nil
				}
			}
		}
	}
}

func elsePrimitive(tok Token, in *Interpreter) (*Expansion, error) {
	_, resolved, _, ok := in.State.CurrentCondition()
	if !ok {
		return nil, newErr(ExtraElseOrFi, tok.Source, "extra \\else")
	}
	if !resolved {
		return nil, nil
	}
	if err := in.falseLoop(false); err != nil {
		return nil, err
	}
	return nil, nil
}

func fiPrimitive(tok Token, in *Interpreter) (*Expansion, error) {
	if err := in.State.PopCondition(); err != nil {
		return nil, err
	}
	return nil, nil
}

func orPrimitive(tok Token, in *Interpreter) (*Expansion, error) {
	// Reached live, \or means a branch is already selected (ifcaseConditional
	// always resolves the condition before the chosen body runs), so it must
	// behave like \else and skip the remaining branches up to the matching
	// \fi — same falseLoop scan, with allowElse false since any further
	// \else in what's skipped still belongs to this \fi, not a new one.
	_, resolved, _, ok := in.State.CurrentCondition()
	if !ok || !resolved {
		return nil, nil
	}
	if err := in.falseLoop(false); err != nil {
		return nil, err
	}
	return nil, nil
}

func unlessExpand(tok Token, in *Interpreter) (Expansion, error) {
	next, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		if IsEndOfInput(err) {
			return Expansion{}, newErr(UnexpectedEndOfInput, tok.Source, "\\unless at end of input")
		}
		return Expansion{}, err
	}
	if !next.IsControlSequence() {
		return Expansion{}, newErr(ArgumentMismatch, next.Source, "\\unless must be followed by a conditional")
	}
	cmd := in.State.GetCommand(next.Name)
	if cmd == nil || cmd.Kind != KindConditional {
		return Expansion{}, newErr(ArgumentMismatch, next.Source, "\\unless must be followed by a conditional, not %s", next)
	}
	id := in.State.PushCondition()
	if err := cmd.CondApply(in, id, true); err != nil {
		return Expansion{}, err
	}
	return Expansion{Cause: tok, Command: cmd}, nil
}

func ifcaseConditional(in *Interpreter, condID int, unless bool) error {
	n, err := in.readInt()
	if err != nil {
		return err
	}
	if n == 0 {
		in.State.SetCondition(condID, true)
		return nil
	}
	landing, err := in.skipCaseBranches(n)
	if err != nil {
		return err
	}
	switch landing {
	case landedFi:
		return in.State.PopCondition()
	default: // landedElse or landedOr: the following body is active
		in.State.SetCondition(condID, true)
		return nil
	}
}
