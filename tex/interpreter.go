package tex

import "github.com/texcore/texcore/params"

const defaultMaxRecursion = 10000

// Stomach is the downstream collaborator spec §1/§6 place out of
// scope: box packing, paragraph breaking, ship-out. The core only
// needs to hand it fully-executed semantic events; what it does with
// them is not this package's concern.
type Stomach interface {
	ShipWhatsit(tok Token) error
	Close() error
}

// NopStomach discards everything, the default when an embedder hasn't
// wired a real one.
type NopStomach struct{}

func (NopStomach) ShipWhatsit(Token) error { return nil }
func (NopStomach) Close() error            { return nil }

// Mode tracks enough of TeX's mode stack for the one distinction spec
// §4.7 cares about: whether \par and bare spaces/EOLs are no-ops
// (vertical mode) or forwarded to the Stomach (horizontal mode).
type Mode int

const (
	VerticalMode Mode = iota
	HorizontalMode
)

// Interpreter owns every piece of mutable state spec §3's lifecycle
// describes: one State (frame stack + conditions), one Mouth, a
// FileStore, and the collaborators from spec §6.
type Interpreter struct {
	State *State
	Mouth *Mouth
	Files *FileStore

	Locator FileLocator
	Params  *params.Params
	Stomach Stomach

	Mode Mode

	maxRecursion int

	// Emitted records every token the top-level dispatcher routed to
	// the Stomach, in order. It exists so embedders (and this
	// package's own tests) can observe "what would have reached the
	// stomach" without providing a real one; see spec §8's end-to-end
	// scenarios, which are phrased in terms of "emitted tokens."
	Emitted []Token

	afterAssignment []Token
	afterGroup      [][]Token // one pending queue per currently-open group depth

	pendingGlobal    bool
	pendingLong      bool
	pendingOuter     bool
	pendingProtected bool
}

// NewInterpreter builds an Interpreter seeded with scheme and every
// built-in primitive (spec §3's lifecycle: "created with an initial
// ScopeFrame stack of size 1, seeded with all primitives").
func NewInterpreter(scheme *CatcodeScheme, p *params.Params, loc FileLocator) *Interpreter {
	if p == nil {
		p = params.Default()
	}
	in := &Interpreter{
		State:        NewState(scheme),
		Mouth:        NewMouth(),
		Files:        NewFileStore(),
		Locator:      loc,
		Params:       p,
		Stomach:      NopStomach{},
		Mode:         VerticalMode,
		maxRecursion: defaultMaxRecursion,
	}
	registerPrimitives(in)
	return in
}

// define installs cmd under name in every currently open frame,
// the way a built-in primitive's one-time registration at interpreter
// construction must behave (spec §3: built-ins live in the outermost
// frame and are never locally shadowed away entirely).
func (in *Interpreter) define(name string, cmd *Command) {
	in.State.Change(StateChange{Kind: ChangeCommand, Name: name, Command: cmd}, true)
}

// setGlobal records that \global preceded the next assignment.
func (in *Interpreter) setGlobal() {
	in.pendingGlobal = true
}

// setLong, setOuter, setProtected record that \long, \outer, or
// \protected preceded the next assignment, the same prefix-flag shape
// as setGlobal.
func (in *Interpreter) setLong()      { in.pendingLong = true }
func (in *Interpreter) setOuter()     { in.pendingOuter = true }
func (in *Interpreter) setProtected() { in.pendingProtected = true }

// consumePrefixes reports and clears every pending \global/\long/
// \outer/\protected prefix flag in one step. Every assignment-kind
// command consumes all four this way, even ones that only look at
// Global, so a prefix misapplied ahead of some other assignment is
// discarded rather than leaking into a later \def.
func (in *Interpreter) consumePrefixes() DefPrefixes {
	p := DefPrefixes{
		Global:    in.pendingGlobal,
		Long:      in.pendingLong,
		Outer:     in.pendingOuter,
		Protected: in.pendingProtected,
	}
	in.pendingGlobal = false
	in.pendingLong = false
	in.pendingOuter = false
	in.pendingProtected = false
	return p
}

// emit routes a fully-dispatched token to the Stomach and records it
// in Emitted.
func (in *Interpreter) emit(tok Token) error {
	in.Emitted = append(in.Emitted, tok)
	return in.Stomach.ShipWhatsit(tok)
}

// enterRecursion fails with CapacityExceeded once the Mouth's input
// stack has grown past maxRecursion (spec §5, scenario 7: "\def\x{\x}\x"
// must error rather than loop forever). A self-replacing macro pushes
// one fresh token-list source per expansion without ever exhausting an
// earlier one — each is read exactly once before the next expansion
// buries it — so the stack depth, not a call-stack-local counter, is
// what actually diverges; a counter reset via defer right after each
// top-level expansion returns would never see this climb.
func (in *Interpreter) enterRecursion(at SourceReference) error {
	if in.Mouth.Depth() > in.maxRecursion {
		return newErr(CapacityExceeded, at, "TeX capacity exceeded: input stack depth > %d", in.maxRecursion)
	}
	return nil
}

func (in *Interpreter) exitRecursion() {}

// QueueAfterAssignment implements \afterassignment: tok is delivered
// as the very next token once the in-flight assignment completes.
func (in *Interpreter) QueueAfterAssignment(tok Token) {
	in.afterAssignment = append(in.afterAssignment, tok)
}

// drainAfterAssignment pushes any \afterassignment token onto the
// Mouth and clears the queue; called by the dispatcher right after an
// assignment-kind command runs.
func (in *Interpreter) drainAfterAssignment() {
	if len(in.afterAssignment) == 0 {
		return
	}
	toks := in.afterAssignment
	in.afterAssignment = nil
	in.Mouth.PushTokens(toks)
}

// QueueAfterGroup implements \aftergroup: tok is delivered immediately
// after the group currently being opened closes.
func (in *Interpreter) QueueAfterGroup(tok Token) {
	if len(in.afterGroup) == 0 {
		in.afterGroup = append(in.afterGroup, nil)
	}
	top := len(in.afterGroup) - 1
	in.afterGroup[top] = append(in.afterGroup[top], tok)
}

func (in *Interpreter) pushAfterGroupFrame() {
	in.afterGroup = append(in.afterGroup, nil)
}

// drainAfterGroup pops the innermost \aftergroup queue and pushes its
// tokens onto the Mouth, called right after a group closes.
func (in *Interpreter) drainAfterGroup() {
	if len(in.afterGroup) == 0 {
		return
	}
	top := len(in.afterGroup) - 1
	toks := in.afterGroup[top]
	in.afterGroup = in.afterGroup[:top]
	if len(toks) > 0 {
		in.Mouth.PushTokens(toks)
	}
}
