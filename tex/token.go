package tex

import "fmt"

// SourceKind tags the variant held by a SourceReference.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceFile
	SourceExpansionOf
)

// Position is a 1-based line/column cursor into a VirtualFile.
type Position struct {
	Line, Col int
}

// SourceReference is the tagged union from spec §3: either a span of
// a real file, an "expansion of" back-pointer used for diagnostics, or
// nothing at all. Only diagnostics consume it; the tokenizer is free
// to build a None reference when it is not asked to track positions.
type SourceReference struct {
	Kind SourceKind

	// SourceFile
	Path       string
	Start, End Position

	// SourceExpansionOf
	Parent  *Token
	Command string
}

func (r SourceReference) String() string {
	switch r.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", r.Path, r.Start.Line, r.Start.Col)
	case SourceExpansionOf:
		if r.Parent != nil {
			return fmt.Sprintf("expansion of %s (via %s)", r.Parent.Name, r.Command)
		}
		return fmt.Sprintf("expansion of %s", r.Command)
	default:
		return "<no source>"
	}
}

// Token is an immutable lexed unit. Name is never empty: for a
// control sequence it is the csname (possibly the empty-looking
// single space produced by "\ "), for anything else it is the single
// decoded byte.
type Token struct {
	Char    byte
	Catcode CategoryCode
	Name    string
	Source  SourceReference
	Expand  bool
}

// IsControlSequence reports whether the token originates from an
// Escape or Active byte, i.e. it names a command rather than a literal
// character.
func (t Token) IsControlSequence() bool {
	return t.Catcode == Escape || t.Catcode == Active
}

// Equal implements spec §3's equality rule: two control-sequence-like
// tokens compare by name only; anything else compares by the full
// (char, catcode, name) triple.
func (t Token) Equal(o Token) bool {
	if t.IsControlSequence() && o.IsControlSequence() {
		return t.Name == o.Name
	}
	if t.IsControlSequence() != o.IsControlSequence() {
		return false
	}
	return t.Char == o.Char && t.Catcode == o.Catcode && t.Name == o.Name
}

func (t Token) String() string {
	if t.IsControlSequence() {
		if t.Catcode == Active {
			return fmt.Sprintf("~%s", t.Name)
		}
		return fmt.Sprintf("\\%s", t.Name)
	}
	return t.Name
}

// CharToken builds a non-control-sequence token from a single byte.
func CharToken(b byte, cc CategoryCode, src SourceReference) Token {
	return Token{Char: b, Catcode: cc, Name: string(b), Source: src, Expand: false}
}

// ControlSequenceToken builds a csname token under the given catcode
// (Escape for "\foo", Active for a single active character).
func ControlSequenceToken(name string, cc CategoryCode, src SourceReference) Token {
	var ch byte
	if len(name) == 1 {
		ch = name[0]
	}
	return Token{Char: ch, Catcode: cc, Name: name, Source: src, Expand: true}
}
