package tex

// StateChangeKind discriminates the StateChange tagged union (spec
// §4.3).
type StateChangeKind int

const (
	ChangeCount StateChangeKind = iota
	ChangeDimen
	ChangeSkip
	ChangeMuSkip
	ChangeCommand
	ChangeCatcode
	ChangeNewline
	ChangeEndline
	ChangeEscape
)

// StateChange is one pending mutation to apply to either the top
// frame or every frame (spec §4.3).
type StateChange struct {
	Kind StateChangeKind

	Index int32 // Count/Dimen/Skip/MuSkip

	IntValue  int32 // Count/Dimen
	GlueValue Glue  // Skip/MuSkip

	Name    string   // Command
	Command *Command // Command; nil means "define as undefined"

	Byte     byte         // Catcode/Newline
	Catcode  CategoryCode // Catcode
	ByteVal  int32        // Endline/Escape (-1 disables)
}

// conditionEntry is Option<bool> from spec §3's ConditionStack: None
// while the enclosing \ifX's predicate hasn't resolved yet.
type conditionEntry struct {
	resolved bool
	value    bool
}

// State is the stack of scope frames plus the conditional stack (spec
// §3, §4.3, §4.4). The frame stack is never empty: index 0 is the
// outermost frame, seeded with every primitive, and is never popped.
type State struct {
	frames     []*ScopeFrame
	current    *CatcodeScheme // mirror read by the tokenizer between dispatches
	conditions []conditionEntry
}

// NewState creates a State with a single outermost frame using
// scheme.
func NewState(scheme *CatcodeScheme) *State {
	frame := newScopeFrame(scheme.Clone(), TokenGroup)
	return &State{
		frames:  []*ScopeFrame{frame},
		current: scheme.Clone(),
	}
}

// Scheme returns the catcode mirror the tokenizer should use right
// now. It is kept in sync with the top frame's scheme by Change and
// PushGroup/PopGroup, so the tokenizer never has to walk the frame
// stack itself.
func (s *State) Scheme() *CatcodeScheme {
	return s.current
}

func (s *State) top() *ScopeFrame {
	return s.frames[len(s.frames)-1]
}

// GetCommand walks frames top-down until one defines name. A frame
// entry with a nil Command (commandSlot{cmd: nil}) means "explicitly
// undefined here," which stops the walk and reports undefined rather
// than falling through to an outer binding.
func (s *State) GetCommand(name string) *Command {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if slot, ok := s.frames[i].Commands[name]; ok {
			return slot.cmd
		}
	}
	return nil
}

// GetCount, GetDimen, GetSkip, GetMuSkip walk frames top-down the same
// way GetCommand does. Registers have no "explicitly unset" tombstone;
// an unset register reads as the TeX zero value.
func (s *State) GetCount(idx int32) int32 {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Counts[idx]; ok {
			return v
		}
	}
	return 0
}

func (s *State) GetDimen(idx int32) int32 {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Dimens[idx]; ok {
			return v
		}
	}
	return 0
}

func (s *State) GetSkip(idx int32) Glue {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Skips[idx]; ok {
			return v
		}
	}
	return Glue{}
}

func (s *State) GetMuSkip(idx int32) Glue {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].MuSkips[idx]; ok {
			return v
		}
	}
	return Glue{}
}

// Change applies one StateChange, either to every frame (global) or
// only to the top frame (spec §4.3). The catcode mirror is updated
// outside the frame stack whenever a Catcode/Newline/Endline/Escape
// change is applied, local or global, since the tokenizer always
// reads the mirror rather than walking frames.
func (s *State) Change(c StateChange, global bool) {
	apply := func(f *ScopeFrame) {
		switch c.Kind {
		case ChangeCount:
			f.Counts[c.Index] = c.IntValue
		case ChangeDimen:
			f.Dimens[c.Index] = c.IntValue
		case ChangeSkip:
			f.Skips[c.Index] = c.GlueValue
		case ChangeMuSkip:
			f.MuSkips[c.Index] = c.GlueValue
		case ChangeCommand:
			f.Commands[c.Name] = commandSlot{cmd: c.Command}
		case ChangeCatcode:
			f.Scheme.SetCatcode(c.Byte, c.Catcode)
		case ChangeNewline:
			f.Scheme.Newline = c.Byte
		case ChangeEndline:
			f.Scheme.Endline = c.ByteVal
		case ChangeEscape:
			f.Scheme.EscapeCh = c.ByteVal
		default:
			panic("tex: unhandled StateChangeKind")
		}
	}

	if global {
		for _, f := range s.frames {
			apply(f)
		}
	} else {
		apply(s.top())
	}

	switch c.Kind {
	case ChangeCatcode:
		s.current.SetCatcode(c.Byte, c.Catcode)
	case ChangeNewline:
		s.current.Newline = c.Byte
	case ChangeEndline:
		s.current.Endline = c.ByteVal
	case ChangeEscape:
		s.current.EscapeCh = c.ByteVal
	}
}

// PushGroup opens a new scope frame of the given type, inheriting a
// copy of the current catcode scheme.
func (s *State) PushGroup(gt GroupType) {
	f := newScopeFrame(s.top().Scheme.Clone(), gt)
	s.frames = append(s.frames, f)
}

// PopGroup closes the innermost frame, discarding every local change
// it holds (global changes already live in every frame, so they
// survive automatically). It is an error to close a frame of a
// different GroupType than gt expects (a brace group closed by
// \endgroup, or vice versa).
func (s *State) PopGroup(gt GroupType) error {
	if len(s.frames) <= 1 {
		return newErr(GroupMismatch, SourceReference{}, "too many closes: no group to end")
	}
	top := s.top()
	if top.GroupType != gt {
		return newErr(GroupMismatch, SourceReference{}, "group type mismatch: expected to close %s, found %s", gt, top.GroupType)
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.current = s.top().Scheme.Clone()
	return nil
}

// Depth returns the number of currently open scope frames (>= 1).
func (s *State) Depth() int {
	return len(s.frames)
}

// PushCondition reserves a new condition-stack slot (value
// unresolved) and returns its id, the depth at entry to the \ifX
// primitive that pushed it.
func (s *State) PushCondition() int {
	s.conditions = append(s.conditions, conditionEntry{})
	return len(s.conditions) - 1
}

// SetCondition resolves the reserved slot id to value.
func (s *State) SetCondition(id int, value bool) {
	s.conditions[id] = conditionEntry{resolved: true, value: value}
}

// CurrentCondition returns the innermost condition's id and resolved
// value, or ok=false if the stack is empty.
func (s *State) CurrentCondition() (id int, resolved bool, value bool, ok bool) {
	if len(s.conditions) == 0 {
		return 0, false, false, false
	}
	id = len(s.conditions) - 1
	e := s.conditions[id]
	return id, e.resolved, e.value, true
}

// PopCondition discards the innermost condition-stack entry, called
// when its matching \fi is reached.
func (s *State) PopCondition() error {
	if len(s.conditions) == 0 {
		return newErr(ExtraElseOrFi, SourceReference{}, "extra \\fi")
	}
	s.conditions = s.conditions[:len(s.conditions)-1]
	return nil
}

// ConditionDepth reports how many \ifX entries are currently open.
func (s *State) ConditionDepth() int {
	return len(s.conditions)
}
