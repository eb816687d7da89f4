package params

import (
	"fmt"
	"testing"
)

// recordingLogger captures every line passed to it, for asserting
// exactly what Params routed where without touching stdout.
type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Print(v ...any) { r.lines = append(r.lines, fmt.Sprint(v...)) }
func (r *recordingLogger) Printf(format string, v ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}
func (r *recordingLogger) Println(v ...any) { r.lines = append(r.lines, fmt.Sprintln(v...)) }

func TestLogRespectsDoLog(t *testing.T) {
	rec := &recordingLogger{}
	p := &Params{DoLog: false, Logger: rec}
	p.Log("should not appear %d", 1)
	if len(rec.lines) != 0 {
		t.Errorf("Log wrote %v with DoLog=false, want nothing", rec.lines)
	}

	p.DoLog = true
	p.Log("count=%d", 7)
	if len(rec.lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(rec.lines))
	}
}

func TestMessageAlwaysWritesRegardlessOfDoLog(t *testing.T) {
	rec := &recordingLogger{}
	p := &Params{DoLog: false, Logger: rec}
	p.Message("user-facing text")
	if len(rec.lines) != 1 {
		t.Fatalf("Message should write even with DoLog=false, got %d lines", len(rec.lines))
	}
}

func TestNilParamsMethodsDontPanic(t *testing.T) {
	var p *Params
	p.Log("anything")
	p.Error("anything")
	p.Message("anything")
}

func TestParamsWithNilLoggerFallsBackToNullLogger(t *testing.T) {
	p := &Params{DoLog: true}
	p.Log("no panic please")
	p.Message("still no panic")
}

func TestLoadBytesSetsLoggerFromDoLog(t *testing.T) {
	p, err := LoadBytes([]byte("do_log: true\nfatal: true\n"))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if !p.Fatal || !p.DoLog {
		t.Errorf("got %+v, want Fatal and DoLog both true", p)
	}
	if _, ok := p.Logger.(StdoutLogger); !ok {
		t.Errorf("Logger = %T, want StdoutLogger when do_log is true", p.Logger)
	}
}

func TestLoadBytesNullLoggerWhenLogDisabled(t *testing.T) {
	p, err := LoadBytes([]byte("do_log: false\n"))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if _, ok := p.Logger.(NullLogger); !ok {
		t.Errorf("Logger = %T, want NullLogger when do_log is false", p.Logger)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/params.yaml"); err == nil {
		t.Error("expected an error loading a config file that doesn't exist")
	}
}
