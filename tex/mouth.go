package tex

import "errors"

// errEndOfInput signals that every source on the Mouth stack has been
// exhausted. It is not itself a TeX error (spec §4.1: "end of input
// is not an error"); callers decide whether running out of input in
// their context is fatal.
var errEndOfInput = errors.New("tex: end of input")

// IsEndOfInput reports whether err is the Mouth-exhaustion sentinel.
func IsEndOfInput(err error) bool {
	return errors.Is(err, errEndOfInput)
}

// source is satisfied by each kind of input a Mouth stack element can
// hold: a FileMouth/StringMouth (both backed by a byteSource) or a
// TokenListMouth.
type source interface {
	next(scheme *CatcodeScheme) (tok Token, ok bool, err error)
	requeue(Token)
}

// tokenListSource is a finite ordered token sequence, consumed
// front-to-back, then popped (spec §4.2's TokenListMouth).
type tokenListSource struct {
	toks    []Token
	pos     int
	pending []Token
}

func (t *tokenListSource) next(*CatcodeScheme) (Token, bool, error) {
	if n := len(t.pending); n > 0 {
		tok := t.pending[n-1]
		t.pending = t.pending[:n-1]
		return tok, true, nil
	}
	if t.pos >= len(t.toks) {
		return Token{}, false, nil
	}
	tok := t.toks[t.pos]
	t.pos++
	return tok, true, nil
}

func (t *tokenListSource) requeue(tok Token) {
	t.pending = append(t.pending, tok)
}

// Mouth is the ordered stack of input sources described in spec §4.2.
// The top of the stack is consulted first; when it is exhausted it is
// popped and the read retries against the new top.
type Mouth struct {
	stack []source
}

// NewMouth returns an empty Mouth stack.
func NewMouth() *Mouth {
	return &Mouth{}
}

// Next produces the next token under scheme, popping exhausted
// sources as needed. It returns errEndOfInput once the whole stack is
// empty.
func (m *Mouth) Next(scheme *CatcodeScheme) (Token, error) {
	for len(m.stack) > 0 {
		top := m.stack[len(m.stack)-1]
		tok, ok, err := top.next(scheme)
		if err != nil {
			return Token{}, err
		}
		if ok {
			return tok, nil
		}
		m.stack = m.stack[:len(m.stack)-1]
	}
	return Token{}, errEndOfInput
}

// Peek returns the next token without consuming it.
func (m *Mouth) Peek(scheme *CatcodeScheme) (Token, error) {
	tok, err := m.Next(scheme)
	if err != nil {
		return Token{}, err
	}
	m.Requeue(tok)
	return tok, nil
}

// Requeue pushes tok back onto the top source's lookahead buffer, so
// the very next Next call returns it again.
func (m *Mouth) Requeue(tok Token) {
	if len(m.stack) == 0 {
		m.stack = append(m.stack, &tokenListSource{})
	}
	m.stack[len(m.stack)-1].requeue(tok)
}

// PushTokens places toks, in order, as a new source above the current
// top: the first element of toks is the very next token delivered
// (spec §4.2's ordering guarantee).
func (m *Mouth) PushTokens(toks []Token) {
	if len(toks) == 0 {
		return
	}
	cp := make([]Token, len(toks))
	copy(cp, toks)
	m.stack = append(m.stack, &tokenListSource{toks: cp})
}

// PushString places an anonymous in-memory buffer above the current
// top, tokenized under whatever scheme is passed to Next later.
func (m *Mouth) PushString(s string) {
	m.stack = append(m.stack, newByteSource("", []byte(s)))
}

// PushFile places a file-backed source above the current top.
func (m *Mouth) PushFile(vf *VirtualFile, path string) {
	m.stack = append(m.stack, newByteSource(path, vf.Contents))
}

// PopFile discards sources down to and including the nearest
// file-backed source, used on error unwind to guarantee a pushed file
// is always eventually popped (spec §5).
func (m *Mouth) PopFile() {
	for len(m.stack) > 0 {
		_, isFile := m.stack[len(m.stack)-1].(*byteSource)
		m.stack = m.stack[:len(m.stack)-1]
		if isFile {
			return
		}
	}
}

// Empty reports whether the stack holds no sources at all.
func (m *Mouth) Empty() bool {
	return len(m.stack) == 0
}

// Depth returns the number of sources currently stacked, used by
// callers tracking expansion/file recursion depth.
func (m *Mouth) Depth() int {
	return len(m.stack)
}
