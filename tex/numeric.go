package tex

import "math"

// This file implements spec §4.6's number grammar: signed integers in
// decimal/octal/hex/char/internal-quantity form, dimensions with
// TeX's exact integer unit ratios, and glue with optional fil-order
// stretch/shrink parts. Grounded on the constant ratios and xn_over_d
// rounding original_source/rustex uses for unit conversion (no single
// file owns this in rustex — the ratios are baked into its numeric
// primitives), translated here into one table-driven reader.

const maxDimenSp = (1 << 30) - 1

// unitTable lists every supported dimension unit as a num/den ratio
// to the point, the classical TeX constants. em/ex/mu have no
// font metrics behind them in this package (spec §1 puts font
// metrics and math typesetting out of scope), so they are accepted
// syntactically and treated as equal to pt; an embedder that wires a
// Stomach with real metrics can post-scale register reads itself.
var unitTable = []struct {
	name     string
	num, den int64
}{
	{"pt", 1, 1},
	{"pc", 12, 1},
	{"in", 7227, 100},
	{"bp", 7227, 7200},
	{"cm", 7227, 254},
	{"mm", 7227, 2540},
	{"dd", 1238, 1157},
	{"cc", 14856, 1157},
	{"sp", 1, 65536},
	{"em", 1, 1},
	{"ex", 1, 1},
	{"mu", 1, 1},
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// scaleDimen computes (intPart + fracNum/fracDen) * 65536 * num/den,
// rounding once at the end to match TeX's single-rounding xn_over_d
// behavior. It does not clamp: a magnitude beyond ±maxDimenSp must
// surface as a DimensionTooLarge error (spec §4.6), so callers check
// the result themselves before narrowing to int32.
func scaleDimen(intPart, fracNum, fracDen, num, den int64) int64 {
	if fracDen == 0 {
		fracDen = 1
	}
	numerator := (intPart*fracDen + fracNum) * 65536 * num
	denominator := fracDen * den
	return (numerator + denominator/2) / denominator
}

// skipSpaces discards Space-catcode tokens (expansion-seeking, since a
// macro could expand to nothing followed by a space) until a
// non-space token is found, which is requeued.
func (in *Interpreter) skipSpaces() error {
	for {
		tok, err := in.expandNext()
		if err != nil {
			if IsEndOfInput(err) {
				return nil
			}
			return err
		}
		if tok.Catcode != Space {
			in.Mouth.Requeue(tok)
			return nil
		}
	}
}

// readSigns consumes an alternating run of optional spaces, '+', and
// '-' tokens, returning whether an odd number of minuses were seen.
func (in *Interpreter) readSigns() (neg bool, err error) {
	for {
		tok, err := in.expandNext()
		if err != nil {
			if IsEndOfInput(err) {
				return neg, nil
			}
			return false, err
		}
		switch {
		case tok.Catcode == Space:
			continue
		case tok.Catcode == Other && tok.Char == '+':
			continue
		case tok.Catcode == Other && tok.Char == '-':
			neg = !neg
			continue
		default:
			in.Mouth.Requeue(tok)
			return neg, nil
		}
	}
}

// tryKeyword attempts to match kw case-insensitively against the
// upcoming tokens (each must be a single-letter non-control-sequence
// token), skipping leading spaces first. On success it also absorbs
// one trailing space, TeX's keyword-scanning convention. On mismatch
// every token it looked at is pushed back in order.
func (in *Interpreter) tryKeyword(kw string) bool {
	if err := in.skipSpaces(); err != nil {
		return false
	}
	var read []Token
	for i := 0; i < len(kw); i++ {
		tok, err := in.expandNext()
		if err != nil {
			break
		}
		read = append(read, tok)
		if tok.IsControlSequence() || len(tok.Name) != 1 || lowerByte(tok.Char) != lowerByte(kw[i]) {
			goto mismatch
		}
	}
	if len(read) == len(kw) {
		if tok, err := in.expandNext(); err == nil && tok.Catcode != Space {
			in.Mouth.Requeue(tok)
		}
		return true
	}
mismatch:
	for i := len(read) - 1; i >= 0; i-- {
		in.Mouth.Requeue(read[i])
	}
	return false
}

// readCharCode implements the "`<token>" alternative: the following
// token, taken literally (not expansion-seeking — TeX never expands
// the argument of a backtick constant), read as a character code or,
// for a single-character control sequence, that character's code.
func (in *Interpreter) readCharCode() (int32, error) {
	tok, err := in.Mouth.Next(in.State.Scheme())
	if err != nil {
		if IsEndOfInput(err) {
			return 0, newErr(UnexpectedEndOfInput, SourceReference{}, "file ended after a backtick constant")
		}
		return 0, err
	}
	if tok.IsControlSequence() {
		if len(tok.Name) == 1 {
			return int32(tok.Name[0]), nil
		}
		return 0, newErr(NumberFormatError, tok.Source, "improper alphabetic constant (%s)", tok)
	}
	return int32(tok.Char), nil
}

func digitValue(tok Token, base int) (int, bool) {
	if tok.IsControlSequence() {
		return 0, false
	}
	switch base {
	case 8:
		if tok.Catcode == Other && tok.Char >= '0' && tok.Char <= '7' {
			return int(tok.Char - '0'), true
		}
	case 16:
		if tok.Catcode == Other && tok.Char >= '0' && tok.Char <= '9' {
			return int(tok.Char - '0'), true
		}
		if (tok.Catcode == Other || tok.Catcode == Letter) && tok.Char >= 'A' && tok.Char <= 'F' {
			return int(tok.Char-'A') + 10, true
		}
	default: // 10
		if tok.Catcode == Other && tok.Char >= '0' && tok.Char <= '9' {
			return int(tok.Char - '0'), true
		}
	}
	return 0, false
}

// readDigits reads one or more digits in base, absorbing exactly one
// trailing Space token if that is what terminates the run (TeX's
// number-termination rule). It reports NumberFormatError if no digit
// was found at all, and again if the accumulated magnitude overflows
// an int32 (spec §4.6: plain integers clamp to the i32 range by
// erroring past it, which is a wider bound than a <dimen>'s
// ±(2^30-1)sp — 2147483647 is accepted, 2147483648 is not).
func (in *Interpreter) readDigits(base int) (int32, error) {
	var acc int64
	any := false
	for {
		tok, err := in.expandNext()
		if err != nil {
			if IsEndOfInput(err) {
				break
			}
			return 0, err
		}
		d, ok := digitValue(tok, base)
		if !ok {
			if tok.Catcode != Space {
				in.Mouth.Requeue(tok)
			}
			break
		}
		any = true
		acc = acc*int64(base) + int64(d)
		if acc > math.MaxInt32 {
			return 0, newErr(NumberFormatError, SourceReference{}, "number too large")
		}
	}
	if !any {
		return 0, newErr(NumberFormatError, SourceReference{}, "missing number, treated as zero")
	}
	return int32(acc), nil
}

// readUnsignedInt reads one unsigned <number>: a backtick constant, a
// based digit run, or an internal quantity (register family primitive
// or register-ref command, via Command.ReadValue).
func (in *Interpreter) readUnsignedInt() (int32, error) {
	tok, err := in.expandNext()
	if err != nil {
		if IsEndOfInput(err) {
			return 0, newErr(UnexpectedEndOfInput, SourceReference{}, "missing number, found end of input")
		}
		return 0, err
	}
	switch {
	case tok.Catcode == Other && tok.Char == '`':
		return in.readCharCode()
	case tok.Catcode == Other && tok.Char == '\'':
		return in.readDigits(8)
	case tok.Catcode == Other && tok.Char == '"':
		return in.readDigits(16)
	case tok.Catcode == Other && isDigit(tok.Char):
		in.Mouth.Requeue(tok)
		return in.readDigits(10)
	case tok.IsControlSequence():
		cmd := in.State.GetCommand(tok.Name)
		if cmd == nil {
			return 0, newErr(UnknownControlSequence, tok.Source, "undefined control sequence %s", tok)
		}
		if cmd.ReadValue == nil {
			return 0, newErr(NumberFormatError, tok.Source, "missing number, treated as zero (%s)", tok)
		}
		return cmd.ReadValue(in)
	default:
		return 0, newErr(NumberFormatError, tok.Source, "missing number, treated as zero (%s)", tok)
	}
}

// readInt reads a full signed <number>.
func (in *Interpreter) readInt() (int32, error) {
	neg, err := in.readSigns()
	if err != nil {
		return 0, err
	}
	mag, err := in.readUnsignedInt()
	if err != nil {
		return 0, err
	}
	if neg {
		mag = -mag
	}
	return mag, nil
}

// readDecimal reads a digit run, optionally followed by '.' or ',' and
// a fractional digit run, returning intPart + fracNum/fracDen.
func (in *Interpreter) readDecimal() (intPart, fracNum, fracDen int64, err error) {
	fracDen = 1
	sawDigit := false
	for {
		tok, e := in.expandNext()
		if e != nil {
			if IsEndOfInput(e) {
				break
			}
			return 0, 0, 1, e
		}
		if tok.Catcode == Other && isDigit(tok.Char) {
			sawDigit = true
			intPart = intPart*10 + int64(tok.Char-'0')
			continue
		}
		in.Mouth.Requeue(tok)
		break
	}
	tok, e := in.expandNext()
	if e != nil {
		if !IsEndOfInput(e) {
			return 0, 0, 1, e
		}
	} else if tok.Catcode == Other && (tok.Char == '.' || tok.Char == ',') {
		for {
			ftok, e2 := in.expandNext()
			if e2 != nil {
				break
			}
			if ftok.Catcode == Other && isDigit(ftok.Char) {
				sawDigit = true
				fracNum = fracNum*10 + int64(ftok.Char-'0')
				fracDen *= 10
				continue
			}
			in.Mouth.Requeue(ftok)
			break
		}
	} else {
		in.Mouth.Requeue(tok)
	}
	if !sawDigit {
		return 0, 0, 1, newErr(NumberFormatError, SourceReference{}, "missing number, treated as zero")
	}
	return intPart, fracNum, fracDen, nil
}

// readUnit matches an optional "true" prefix (accepted, ignored — no
// \mag scaling in this package) and one unit keyword from unitTable.
func (in *Interpreter) readUnit() (num, den int64, err error) {
	in.tryKeyword("true")
	for _, u := range unitTable {
		if in.tryKeyword(u.name) {
			return u.num, u.den, nil
		}
	}
	return 0, 0, newErr(IllegalUnit, SourceReference{}, "illegal unit of measure (no pt)")
}

// readDimenMagnitude reads an unsigned <dimen>: either an internal
// quantity used directly (no following unit) or a decimal number plus
// a unit keyword.
func (in *Interpreter) readDimenMagnitude() (int32, error) {
	tok, err := in.expandNext()
	if err != nil {
		if IsEndOfInput(err) {
			return 0, newErr(UnexpectedEndOfInput, SourceReference{}, "missing number, found end of input")
		}
		return 0, err
	}
	if tok.IsControlSequence() {
		cmd := in.State.GetCommand(tok.Name)
		if cmd == nil {
			return 0, newErr(UnknownControlSequence, tok.Source, "undefined control sequence %s", tok)
		}
		if cmd.ReadValue == nil {
			return 0, newErr(NumberFormatError, tok.Source, "missing number, treated as zero (%s)", tok)
		}
		return cmd.ReadValue(in)
	}
	if tok.Catcode == Other && tok.Char == '`' {
		v, err := in.readCharCode()
		return v, err
	}
	if tok.Catcode == Other && (isDigit(tok.Char) || tok.Char == '.' || tok.Char == ',') {
		in.Mouth.Requeue(tok)
		intPart, fracNum, fracDen, err := in.readDecimal()
		if err != nil {
			return 0, err
		}
		num, den, err := in.readUnit()
		if err != nil {
			return 0, err
		}
		v := scaleDimen(intPart, fracNum, fracDen, num, den)
		if v > maxDimenSp {
			return 0, newErr(DimensionTooLarge, tok.Source, "dimension too large")
		}
		return int32(v), nil
	}
	return 0, newErr(NumberFormatError, tok.Source, "missing number, treated as zero (%s)", tok)
}

// readDimen reads a full signed <dimen>, erroring if the magnitude
// exceeds spec §4.6's ±(2^30-1)sp bound.
func (in *Interpreter) readDimen() (int32, error) {
	neg, err := in.readSigns()
	if err != nil {
		return 0, err
	}
	sp, err := in.readDimenMagnitude()
	if err != nil {
		return 0, err
	}
	if sp < -maxDimenSp || sp > maxDimenSp {
		return 0, newErr(DimensionTooLarge, SourceReference{}, "dimension too large")
	}
	if neg {
		sp = -sp
	}
	return sp, nil
}

// readStretchShrink reads one <plus> or <minus> clause's value: a
// signed decimal number followed by either a fil-order keyword
// (fil/fill/filll) or an ordinary unit.
func (in *Interpreter) readStretchShrink() (int32, int, error) {
	neg, err := in.readSigns()
	if err != nil {
		return 0, 0, err
	}
	intPart, fracNum, fracDen, err := in.readDecimal()
	if err != nil {
		return 0, 0, err
	}
	order := 0
	switch {
	case in.tryKeyword("filll"):
		order = 3
	case in.tryKeyword("fill"):
		order = 2
	case in.tryKeyword("fil"):
		order = 1
	}
	var scaled int64
	if order > 0 {
		scaled = scaleDimen(intPart, fracNum, fracDen, 1, 1)
	} else {
		num, den, err := in.readUnit()
		if err != nil {
			return 0, 0, err
		}
		scaled = scaleDimen(intPart, fracNum, fracDen, num, den)
	}
	if scaled > maxDimenSp {
		return 0, 0, newErr(DimensionTooLarge, SourceReference{}, "dimension too large")
	}
	v := int32(scaled)
	if neg {
		v = -v
	}
	return v, order, nil
}

func negateGlue(g Glue) Glue {
	g.Base = -g.Base
	g.Stretch = -g.Stretch
	g.Shrink = -g.Shrink
	return g
}

// readGlue reads a full <glue>: either a register reference of glue
// type (taken whole, via Command.ReadGlue) or a <dimen> optionally
// followed by "plus" and "minus" clauses.
func (in *Interpreter) readGlue() (Glue, error) {
	neg, err := in.readSigns()
	if err != nil {
		return Glue{}, err
	}
	tok, err := in.expandNext()
	if err != nil {
		if IsEndOfInput(err) {
			return Glue{}, newErr(UnexpectedEndOfInput, SourceReference{}, "missing number, found end of input")
		}
		return Glue{}, err
	}
	if tok.IsControlSequence() {
		cmd := in.State.GetCommand(tok.Name)
		if cmd != nil && cmd.ReadGlue != nil {
			g, err := cmd.ReadGlue(in)
			if err != nil {
				return Glue{}, err
			}
			if neg {
				g = negateGlue(g)
			}
			return g, nil
		}
	}
	in.Mouth.Requeue(tok)
	base, err := in.readDimenMagnitude()
	if err != nil {
		return Glue{}, err
	}
	if neg {
		base = -base
	}
	g := Glue{Base: base}
	if in.tryKeyword("plus") {
		v, order, err := in.readStretchShrink()
		if err != nil {
			return Glue{}, err
		}
		g.Stretch, g.StretchFilOrd = v, order
	}
	if in.tryKeyword("minus") {
		v, order, err := in.readStretchShrink()
		if err != nil {
			return Glue{}, err
		}
		g.Shrink, g.ShrinkFilOrd = v, order
	}
	return g, nil
}
