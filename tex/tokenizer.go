package tex

import "bytes"

// lineState is the tokenizer's per-line state machine (spec §4.1): N
// (new line, nothing read yet), M (mid line), S (skipping spaces).
type lineState int

const (
	stateN lineState = iota
	stateM
	stateS
)

// byteSource tokenizes a byte buffer under a dynamically mutable
// CatcodeScheme. It is not a standalone stream object: next is called
// by the owning Mouth each time a token is needed, and the scheme is
// re-read from scratch on every byte (spec §4.1), so a mid-stream
// \catcode change takes effect immediately.
type byteSource struct {
	path string // "" for an anonymous string source

	data    []byte
	dataPos int

	line    []byte
	linePos int
	lineNo  int
	state   lineState

	pending []Token
}

func newByteSource(path string, data []byte) *byteSource {
	return &byteSource{path: path, data: data, state: stateN}
}

func (s *byteSource) srcAt(pos Position) SourceReference {
	return SourceReference{Kind: SourceFile, Path: s.path, Start: pos, End: pos}
}

// ensureLine refills s.line from s.data when the current physical
// line is exhausted. Trailing space characters are stripped and, if
// Endline names a byte value in 0..255, that byte is appended as a
// synthetic end-of-line character (spec §4.1).
func (s *byteSource) ensureLine(scheme *CatcodeScheme) bool {
	for s.linePos >= len(s.line) {
		if s.dataPos >= len(s.data) {
			return false
		}
		idx := bytes.IndexByte(s.data[s.dataPos:], scheme.Newline)
		var raw []byte
		if idx < 0 {
			raw = s.data[s.dataPos:]
			s.dataPos = len(s.data)
		} else {
			raw = s.data[s.dataPos : s.dataPos+idx]
			s.dataPos += idx + 1
		}
		end := len(raw)
		for end > 0 && raw[end-1] == ' ' {
			end--
		}
		line := make([]byte, 0, end+1)
		line = append(line, raw[:end]...)
		if scheme.Endline >= 0 && scheme.Endline <= 255 {
			line = append(line, byte(scheme.Endline))
		}
		s.line = line
		s.linePos = 0
		s.lineNo++
		s.state = stateN
	}
	return true
}

func isLowerHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f')
}

func hexVal(b byte) int {
	if b >= '0' && b <= '9' {
		return int(b - '0')
	}
	return int(b-'a') + 10
}

// decodeByte resolves the byte effectively at s.linePos, expanding any
// ^^X or ^^hh trigraph in place, and returns that byte plus how many
// raw bytes it consumed. Decoding re-enters uniformly: a decoded byte
// that is itself superscript-catcode with a matching partner is
// expanded again.
func (s *byteSource) decodeByte(scheme *CatcodeScheme) (byte, int) {
	pos := s.linePos
	b := s.line[pos]
	for scheme.Catcode(b) == Superscript && pos+1 < len(s.line) && s.line[pos+1] == b {
		next := pos + 2
		if next >= len(s.line) {
			break
		}
		if next+1 < len(s.line) && isLowerHex(s.line[next]) && isLowerHex(s.line[next+1]) {
			b = byte(hexVal(s.line[next])*16 + hexVal(s.line[next+1]))
			pos = next + 1
			continue
		}
		x := s.line[next]
		if x >= 128 {
			break
		}
		b = x ^ 0x40
		pos = next
	}
	return b, pos + 1 - s.linePos
}

func (s *byteSource) scanControlSequence(scheme *CatcodeScheme, start Position) (Token, error) {
	if s.linePos >= len(s.line) {
		return Token{}, newErr(UnexpectedEndOfInput, s.srcAt(start), "control sequence at end of line")
	}
	b, n := s.decodeByte(scheme)
	if scheme.Catcode(b) == Letter {
		var name []byte
		for {
			name = append(name, b)
			s.linePos += n
			if s.linePos >= len(s.line) {
				break
			}
			nb, nn := s.decodeByte(scheme)
			if scheme.Catcode(nb) != Letter {
				break
			}
			b, n = nb, nn
		}
		for s.linePos < len(s.line) {
			sb, sn := s.decodeByte(scheme)
			if scheme.Catcode(sb) != Space {
				break
			}
			s.linePos += sn
		}
		s.state = stateS
		return ControlSequenceToken(string(name), Escape, s.srcAt(start)), nil
	}

	s.linePos += n
	if scheme.Catcode(b) == Space {
		for s.linePos < len(s.line) {
			sb, sn := s.decodeByte(scheme)
			if scheme.Catcode(sb) != Space {
				break
			}
			s.linePos += sn
		}
		s.state = stateS
		return ControlSequenceToken(" ", Escape, s.srcAt(start)), nil
	}
	s.state = stateM
	return ControlSequenceToken(string(b), Escape, s.srcAt(start)), nil
}

// next implements the source interface: it produces the next token,
// or ok=false once the buffer (and any pushed-back tokens) is
// exhausted.
func (s *byteSource) next(scheme *CatcodeScheme) (Token, bool, error) {
	if n := len(s.pending); n > 0 {
		tok := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return tok, true, nil
	}

	for {
		if !s.ensureLine(scheme) {
			return Token{}, false, nil
		}

		b, n := s.decodeByte(scheme)
		cc := scheme.Catcode(b)
		pos := Position{Line: s.lineNo, Col: s.linePos + 1}
		s.linePos += n

		switch cc {
		case Escape:
			tok, err := s.scanControlSequence(scheme, pos)
			if err != nil {
				return Token{}, false, err
			}
			return tok, true, nil

		case Comment:
			s.linePos = len(s.line)
			continue

		case Ignored:
			continue

		case EndOfLine:
			prevState := s.state
			s.linePos = len(s.line)
			s.state = stateN
			switch prevState {
			case stateN:
				return ControlSequenceToken("par", Escape, s.srcAt(pos)), true, nil
			case stateM:
				return CharToken(' ', Space, s.srcAt(pos)), true, nil
			default: // stateS: swallowed
				continue
			}

		case Space:
			if s.state == stateM {
				s.state = stateS
				return CharToken(' ', Space, s.srcAt(pos)), true, nil
			}
			continue

		case Invalid:
			return Token{}, false, newErr(LexError, s.srcAt(pos), "invalid character %q", b)

		default:
			s.state = stateM
			return CharToken(b, cc, s.srcAt(pos)), true, nil
		}
	}
}

func (s *byteSource) requeue(t Token) {
	s.pending = append(s.pending, t)
}
