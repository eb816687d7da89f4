// Package params holds the Params collaborator contract from spec §6:
// a small bag of behavior flags and side-channel I/O hooks the core
// consults but never owns the policy for. An embedder supplies one;
// the core treats it as opaque configuration plus an output sink.
package params

// Params is the collaborator contract spec §6 names. Fatal, when
// true, means the dispatcher returns the first error instead of
// logging and continuing at the next top-level token (spec §7's
// "optional Params-configured soft errors").
type Params struct {
	Singlethreaded  bool
	DoLog           bool
	StoreInFile     bool
	CopyTokensFull  bool
	CopyCommandsFull bool
	Fatal           bool

	Logger Logger
}

// Default returns the conservative defaults a standalone run wants:
// logging on to stdout, errors fatal, no file-backed copies.
func Default() *Params {
	return &Params{
		Singlethreaded: true,
		DoLog:          true,
		Fatal:          true,
		Logger:         StdoutLogger{},
	}
}

func (p *Params) logger() Logger {
	if p == nil || p.Logger == nil {
		return NullLogger{}
	}
	return p.Logger
}

// Log writes a diagnostic line if DoLog is set.
func (p *Params) Log(format string, args ...any) {
	if p == nil || !p.DoLog {
		return
	}
	p.logger().Printf(format, args...)
}

// Message implements \message-style user-facing output: always
// printed, regardless of DoLog (it is content, not a diagnostic).
func (p *Params) Message(text string) {
	p.logger().Print(text)
}

// Error reports a non-fatal error to the log sink; whether execution
// actually continues is the dispatcher's decision, driven by Fatal.
func (p *Params) Error(text string) {
	p.logger().Println("! " + text)
}

// Write16, Write17, Write18, WriteNeg1, Other are the hooks for
// classical TeX's \write stream numbers (log file, terminal, shell,
// none, and numbered streams respectively). Write16 and Write17 both
// print the text as a line to the Logger, Write18 prints it with a
// "[write18] " prefix, WriteNeg1 discards it, and Other prefixes the
// stream number. The core never opens real files itself
// (StoreInFile only toggles whether an embedder-provided sink should
// persist them); these are pure side-channel hooks.
func (p *Params) Write16(text string)          { p.logger().Println(text) }
func (p *Params) Write17(text string)          { p.logger().Println(text) }
func (p *Params) Write18(cmd string)           { p.logger().Println("[write18] " + cmd) }
func (p *Params) WriteNeg1(text string)        {}
func (p *Params) Other(stream int32, text string) {
	p.logger().Printf("[write%d] %s\n", stream, text)
}

// FileOpen/FileClose are hooks an embedder can use to track \openout/
// \closeout side effects without the core needing to know what a real
// file is (spec §6: "Used only for side-channel output").
func (p *Params) FileOpen(stream int32, name string)  { p.Log("openout %d: %s", stream, name) }
func (p *Params) FileClose(stream int32)              { p.Log("closeout %d", stream) }
