package tex

import (
	"testing"

	"github.com/texcore/texcore/params"
)

func newNumericInterpreter(src string) *Interpreter {
	scheme := NewPlainTeXScheme()
	scheme.Endline = -1
	in := NewInterpreter(scheme, &params.Params{Fatal: true}, nil)
	in.Mouth.PushString(src)
	return in
}

func TestReadIntForms(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int32
	}{
		{"decimal", "42", 42},
		{"negative", "-42", -42},
		{"double negative", "--42", 42},
		{"leading plus", "+42", 42},
		{"octal", "'52", 42},
		{"hex", `"2A`, 42},
		{"char code letter", "`A", 65},
		{"char code control word", `` + "`" + `\A`, 65},
		{"spaces around signs", " - + 3", -3},
		{"zero", "0", 0},
		{"max int32 magnitude", "2147483647", 2147483647},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := newNumericInterpreter(tc.src)
			got, err := in.readInt()
			if err != nil {
				t.Fatalf("readInt(%q): %v", tc.src, err)
			}
			if got != tc.want {
				t.Errorf("readInt(%q) = %d, want %d", tc.src, got, tc.want)
			}
		})
	}
}

func TestReadIntMissingNumberErrors(t *testing.T) {
	in := newNumericInterpreter("z")
	if _, err := in.readInt(); err == nil {
		t.Fatal("expected an error reading a non-number as a number")
	}
}

// TestReadIntOverflowBoundary matches spec's stated boundary: an
// integer clamps to the i32 range by erroring past it, exactly at
// 2147483647/2147483648 (a wider bound than a <dimen>'s ±(2^30-1)sp).
func TestReadIntOverflowBoundary(t *testing.T) {
	if _, err := newNumericInterpreter("2147483647").readInt(); err != nil {
		t.Errorf("2147483647 should be accepted: %v", err)
	}
	if _, err := newNumericInterpreter("2147483648").readInt(); err == nil {
		t.Error("2147483648 should overflow and error")
	}
}

func TestReadDimenUnits(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int32
	}{
		{"whole point", "123pt", 123 * 65536},
		{"fractional point", "1.5pt", 98304},
		{"scaled point passthrough", "65536sp", 65536},
		{"inch ratio", "1in", int32((int64(7227) * 65536 * 1) / (100 * 1))},
		{"negative dimen", "-1pt", -65536},
		{"comma decimal", "1,5pt", 98304},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := newNumericInterpreter(tc.src)
			got, err := in.readDimen()
			if err != nil {
				t.Fatalf("readDimen(%q): %v", tc.src, err)
			}
			if got != tc.want {
				t.Errorf("readDimen(%q) = %d, want %d", tc.src, got, tc.want)
			}
		})
	}
}

func TestReadDimenUnknownUnitErrors(t *testing.T) {
	in := newNumericInterpreter("3xx")
	if _, err := in.readDimen(); err == nil {
		t.Fatal("expected IllegalUnit error for an unknown unit keyword")
	} else if te, ok := err.(*Error); !ok || te.Kind != IllegalUnit {
		t.Errorf("got %v, want IllegalUnit", err)
	}
}

// TestReadDimenOverflowBoundary matches spec's stated boundary exactly:
// 16383.99999pt sits just inside +-(2^30-1)sp and is accepted;
// 16384pt is exactly one sp past it and must error.
func TestReadDimenOverflowBoundary(t *testing.T) {
	got, err := newNumericInterpreter("16383.99999pt").readDimen()
	if err != nil {
		t.Fatalf("16383.99999pt should be accepted: %v", err)
	}
	if got != maxDimenSp {
		t.Errorf("16383.99999pt = %d, want %d (maxDimenSp)", got, maxDimenSp)
	}
	if _, err := newNumericInterpreter("16384pt").readDimen(); err == nil {
		t.Fatal("16384pt should overflow and error")
	} else if te, ok := err.(*Error); !ok || te.Kind != DimensionTooLarge {
		t.Errorf("got %v, want DimensionTooLarge", err)
	}
}

func TestReadGlueStretchShrink(t *testing.T) {
	in := newNumericInterpreter("1pt plus 2pt minus 1fil")
	g, err := in.readGlue()
	if err != nil {
		t.Fatalf("readGlue: %v", err)
	}
	if g.Base != 65536 {
		t.Errorf("Base = %d, want %d", g.Base, 65536)
	}
	if g.Stretch != 2*65536 || g.StretchFilOrd != 0 {
		t.Errorf("Stretch = %d/%d, want %d/0", g.Stretch, g.StretchFilOrd, 2*65536)
	}
	if g.Shrink != 65536 || g.ShrinkFilOrd != 1 {
		t.Errorf("Shrink = %d (fil order %d), want %d (fil order 1)", g.Shrink, g.ShrinkFilOrd, 65536)
	}
}

func TestReadGlueFromRegisterReference(t *testing.T) {
	in := newNumericInterpreter(`\skip3`)
	in.State.Change(StateChange{Kind: ChangeSkip, Index: 3, GlueValue: Glue{Base: 65536, Stretch: 2 * 65536, StretchFilOrd: 1}}, false)
	g, err := in.readGlue()
	if err != nil {
		t.Fatalf("readGlue: %v", err)
	}
	if g.Base != 65536 || g.Stretch != 2*65536 || g.StretchFilOrd != 1 {
		t.Errorf("readGlue via \\skip3 = %+v, want Base=65536 Stretch=131072 StretchFilOrd=1", g)
	}
}
