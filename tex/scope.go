package tex

// GroupType names the lexical/semantic scope kinds spec §4.3
// enumerates. \begingroup/\endgroup must match a Semantic group the
// same way { and } must match a Token group; mismatches are
// GroupMismatch errors.
type GroupType int

const (
	TokenGroup GroupType = iota
	SemanticGroup
	MathShiftGroupType
	AlignGroupType
	BoxGroupType
)

func (g GroupType) String() string {
	switch g {
	case TokenGroup:
		return "token group ({...})"
	case SemanticGroup:
		return "semantic group (\\begingroup...\\endgroup)"
	case MathShiftGroupType:
		return "math shift group"
	case AlignGroupType:
		return "alignment group"
	case BoxGroupType:
		return "box group"
	default:
		return "unknown group"
	}
}

// Glue is a dimension with independent stretch and shrink components
// (spec §4.6). FilOrder 0 means a finite (non-fil) component; 1/2/3
// mean fil/fill/filll.
type Glue struct {
	Base           int32
	Stretch        int32
	StretchFilOrd  int
	Shrink         int32
	ShrinkFilOrd   int
}

// commandSlot distinguishes "not set in this frame" (absent from the
// map) from "explicitly undefined in this frame" (present with cmd ==
// nil), matching spec §3's Option<Option<Command>> ScopeFrame entry.
type commandSlot struct {
	cmd *Command
}

// ScopeFrame is one entry in the State's frame stack: a CatcodeScheme,
// the csname→Command bindings local to this frame, and the register
// families, all as described in spec §3.
type ScopeFrame struct {
	Scheme    *CatcodeScheme
	Commands  map[string]commandSlot
	Counts    map[int32]int32
	Dimens    map[int32]int32
	Skips     map[int32]Glue
	MuSkips   map[int32]Glue
	GroupType GroupType
}

func newScopeFrame(scheme *CatcodeScheme, gt GroupType) *ScopeFrame {
	return &ScopeFrame{
		Scheme:    scheme,
		Commands:  make(map[string]commandSlot),
		Counts:    make(map[int32]int32),
		Dimens:    make(map[int32]int32),
		Skips:     make(map[int32]Glue),
		MuSkips:   make(map[int32]Glue),
		GroupType: gt,
	}
}
