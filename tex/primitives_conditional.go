package tex

// This file implements the \ifX predicate functions that feed the
// conditional engine built in conditional.go (falseLoop,
// applyConditionResult, ifcaseConditional). Grounded on
// original_source/rustex/src/commands/conditionals.rs's IFNUM/IFDIM/
// IFODD/IFX static definitions.

func ifnumConditional(in *Interpreter, id int, unless bool) error {
	a, err := in.readInt()
	if err != nil {
		return err
	}
	rel, err := in.expandNext()
	if err != nil {
		return err
	}
	if rel.IsControlSequence() || !(rel.Char == '<' || rel.Char == '=' || rel.Char == '>') {
		return newErr(ArgumentMismatch, rel.Source, "missing = inserted for \\ifnum")
	}
	b, err := in.readInt()
	if err != nil {
		return err
	}
	var pred bool
	switch rel.Char {
	case '<':
		pred = a < b
	case '=':
		pred = a == b
	case '>':
		pred = a > b
	}
	return in.applyConditionResult(id, pred, unless)
}

func ifdimConditional(in *Interpreter, id int, unless bool) error {
	a, err := in.readDimen()
	if err != nil {
		return err
	}
	rel, err := in.expandNext()
	if err != nil {
		return err
	}
	if rel.IsControlSequence() || !(rel.Char == '<' || rel.Char == '=' || rel.Char == '>') {
		return newErr(ArgumentMismatch, rel.Source, "missing = inserted for \\ifdim")
	}
	b, err := in.readDimen()
	if err != nil {
		return err
	}
	var pred bool
	switch rel.Char {
	case '<':
		pred = a < b
	case '=':
		pred = a == b
	case '>':
		pred = a > b
	}
	return in.applyConditionResult(id, pred, unless)
}

func ifoddConditional(in *Interpreter, id int, unless bool) error {
	n, err := in.readInt()
	if err != nil {
		return err
	}
	return in.applyConditionResult(id, n%2 != 0, unless)
}

func iftrueConditional(in *Interpreter, id int, unless bool) error {
	return in.applyConditionResult(id, true, unless)
}

func iffalseConditional(in *Interpreter, id int, unless bool) error {
	return in.applyConditionResult(id, false, unless)
}

// commandsEqual implements \ifx's "same meaning" rule. Two explicitly
// undefined control sequences compare equal (an Open Question spec §9
// leaves unresolved; DESIGN.md records the decision to keep this
// classical-TeX behavior rather than the arguably-safer "undefined
// never equals undefined").
func commandsEqual(a, b *Command) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindMacro:
		return macroEqual(a.Macro, b.Macro)
	case KindRegisterRef, KindDimenRef, KindSkipRef, KindMuSkipRef:
		return a.Index == b.Index
	default:
		return a.Name == b.Name
	}
}

func macroEqual(a, b *MacroDef) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if len(a.Pattern) != len(b.Pattern) || len(a.Replacement) != len(b.Replacement) {
		return false
	}
	for i := range a.Pattern {
		if !a.Pattern[i].Equal(b.Pattern[i]) {
			return false
		}
	}
	for i := range a.Replacement {
		if !a.Replacement[i].Equal(b.Replacement[i]) {
			return false
		}
	}
	return true
}

func ifxEqual(in *Interpreter, a, b Token) bool {
	if !a.IsControlSequence() && !b.IsControlSequence() {
		return a.Char == b.Char && a.Catcode == b.Catcode
	}
	if a.IsControlSequence() != b.IsControlSequence() {
		return false
	}
	return commandsEqual(in.State.GetCommand(a.Name), in.State.GetCommand(b.Name))
}

func ifxConditional(in *Interpreter, id int, unless bool) error {
	a, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return wrapIfEOF(err, Token{})
	}
	b, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		return wrapIfEOF(err, Token{})
	}
	return in.applyConditionResult(id, ifxEqual(in, a, b), unless)
}
