package interp

import (
	"fmt"
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/ast"
)

// Frame is one entry of an evaluation trace, innermost first, per
// spec.md §7 ("runtime errors carry a trace of evaluation frames").
type Frame struct {
	Loc  ast.LocationRange
	Desc string
}

// EvalError is a runtime (as opposed to static/parse) error, carrying a
// snapshot of the call/force stack active when it was raised.
type EvalError struct {
	Msg   string
	Trace []Frame
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString("RUNTIME ERROR: ")
	b.WriteString(e.Msg)
	for _, f := range e.Trace {
		b.WriteByte('\n')
		b.WriteString("\t")
		b.WriteString(f.Loc.String())
		if f.Desc != "" {
			b.WriteString("\t")
			b.WriteString(f.Desc)
		}
	}
	return b.String()
}

// Errorf builds an EvalError at the interpreter's current location,
// annotated with the active trace.
func (i *Interp) Errorf(format string, args ...any) error {
	return &EvalError{
		Msg:   fmt.Sprintf(format, args...),
		Trace: i.traceSnapshot(),
	}
}

// traceSnapshot copies the active frames, innermost first.
func (i *Interp) traceSnapshot() []Frame {
	trace := make([]Frame, len(i.frames))
	for idx, f := range i.frames {
		trace[len(i.frames)-1-idx] = f
	}
	return trace
}

// ErrorfAt is like Errorf but records loc/desc as the innermost frame,
// for errors raised about a specific node rather than the current call
// site (e.g. a type mismatch discovered while evaluating n).
func (i *Interp) ErrorfAt(loc ast.LocationRange, desc string, format string, args ...any) error {
	trace := append([]Frame{{Loc: loc, Desc: desc}}, i.traceSnapshot()...)
	return &EvalError{Msg: fmt.Sprintf(format, args...), Trace: trace}
}

// pushFrame/popFrame bracket evaluation of a node for trace purposes.
// Call sites that want a frame on the stack during evaluation of n should
// defer i.popFrame() immediately after pushFrame.
func (i *Interp) pushFrame(loc ast.LocationRange, desc string) {
	i.frames = append(i.frames, Frame{Loc: loc, Desc: desc})
	i.depth++
}

func (i *Interp) popFrame() {
	i.frames = i.frames[:len(i.frames)-1]
	i.depth--
}

// defaultMaxCallDepth bounds recursion, per spec.md §7 ("stack overflow is
// reported as a regular error, not a host panic") and spec.md §6
// ("max-stack-frames (default 500)", the `-s` CLI flag).
const defaultMaxCallDepth = 500

// SetMaxDepth overrides the maximum number of nested call/force frames
// before evaluation reports "max stack frames exceeded". n <= 0 restores
// the default. Wired to the CLI's `-s` flag.
func (i *Interp) SetMaxDepth(n int) {
	if n <= 0 {
		n = defaultMaxCallDepth
	}
	i.maxDepth = n
}

func (i *Interp) checkDepth(loc ast.LocationRange) error {
	max := i.maxDepth
	if max == 0 {
		max = defaultMaxCallDepth
	}
	if i.depth >= max {
		return i.ErrorfAt(loc, "", "max stack frames exceeded")
	}
	return nil
}

// pushFile/popFile/CurrentFile track the file currently being evaluated,
// so std.thisFile resolves to the file containing the call (not the file
// where std itself was defined), per spec.md §4.5.
func (i *Interp) pushFile(name string) { i.files = append(i.files, name) }
func (i *Interp) popFile()             { i.files = i.files[:len(i.files)-1] }

// CurrentFile returns the innermost file on the evaluation stack, used by
// the stdlib's thisFile builtin.
func (i *Interp) CurrentFile() string {
	if len(i.files) == 0 {
		return ""
	}
	return i.files[len(i.files)-1]
}

// EmitTrace reports a std.trace call to the installed TraceSink, using the
// innermost call-frame location available (the trace() call site itself).
func (i *Interp) EmitTrace(msg string) {
	if i.Trace == nil {
		return
	}
	var loc ast.LocationRange
	if len(i.frames) > 0 {
		loc = i.frames[len(i.frames)-1].Loc
	}
	i.Trace.Trace(loc, msg)
}
