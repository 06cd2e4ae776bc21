package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/ast"
)

// Importer resolves the three import forms relative to the file that
// contains the import expression. Implemented by Program.
type Importer interface {
	ImportJsonnet(i *Interp, fromFile, path string) (Value, error)
	ImportString(fromFile, path string) (string, error)
	ImportBinary(fromFile, path string) ([]byte, error)
}

// TraceSink receives std.trace output; the CLI wires this to stderr via
// klog.
type TraceSink interface {
	Trace(loc ast.LocationRange, msg string)
}

// Interp is the evaluator for a single Program run: it owns the call
// stack used for depth limiting and error traces, and holds onto the
// Importer/TraceSink the embedding program configured.
type Interp struct {
	Std      *Object
	Importer Importer
	Trace    TraceSink
	// ExtVar resolves an external variable by name, wired by Program; nil
	// until a Program installs it.
	ExtVar func(name string) (*Thunk, bool)

	frames   []Frame
	depth    int
	maxDepth int      // 0 means defaultMaxCallDepth; set via SetMaxDepth
	files    []string // innermost-last stack of files currently being evaluated
}

// NewInterp builds an evaluator. std may be nil while the stdlib object
// itself is being bootstrapped; it must be set via SetStdlib before any
// program using `std` is evaluated.
func NewInterp(importer Importer, trace TraceSink) *Interp {
	return &Interp{Importer: importer, Trace: trace}
}

// SetStdlib installs the std object once the stdlib package has built it.
func (i *Interp) SetStdlib(std *Object) { i.Std = std }

// EvalInEnv evaluates n in env, per the node dispatch described across
// spec.md §3-§4.
func (i *Interp) EvalInEnv(env *Env, n ast.Node) (Value, error) {
	switch n := n.(type) {
	case *ast.NullLit:
		return NullValue, nil
	case *ast.BoolLit:
		return BoolValue(n.Value), nil
	case *ast.NumberLit:
		return NumberValue(n.Value), nil
	case *ast.LiteralString:
		return StringValue(n.Value), nil
	case *ast.Self:
		return env.Self, nil
	case *ast.TopLevelSelf:
		return env.TopSelf, nil
	case *ast.SuperIndex:
		return i.evalSuperIndex(env, n)
	case *ast.Var:
		return i.evalVar(env, n)
	case *ast.Array:
		elems := make([]*Thunk, len(n.Elements))
		for idx, e := range n.Elements {
			elems[idx] = NewThunk(env, e)
		}
		return ArrayValue(elems), nil
	case *ast.ArrayComp:
		return i.evalArrayComp(env, n)
	case *ast.Object:
		return i.evalObject(env, n)
	case *ast.ObjectComp:
		return i.evalObjectComp(env, n)
	case *ast.Index:
		return i.evalIndex(env, n)
	case *ast.Field:
		return i.evalField(env, n)
	case *ast.Slice:
		return i.evalSlice(env, n)
	case *ast.Unary:
		return i.evalUnary(env, n)
	case *ast.Binary:
		return i.evalBinaryNode(env, n)
	case *ast.Conditional:
		cond, err := i.EvalInEnv(env, n.Cond)
		if err != nil {
			return nil, err
		}
		b, err := AsBool(i, cond, "if condition")
		if err != nil {
			return nil, err
		}
		if b {
			return i.EvalInEnv(env, n.TrueExpr)
		}
		if n.FalseExpr == nil {
			return NullValue, nil
		}
		return i.EvalInEnv(env, n.FalseExpr)
	case *ast.Local:
		return i.evalLocal(env, n)
	case *ast.Error:
		v, err := i.EvalInEnv(env, n.Expr)
		if err != nil {
			return nil, err
		}
		msg, err := i.ToString(v)
		if err != nil {
			return nil, err
		}
		return nil, i.ErrorfAt(n.Loc(), "", "%s", msg)
	case *ast.Assert:
		return i.evalAssert(env, n)
	case *ast.Function:
		return i.evalFunctionLit(env, n), nil
	case *ast.Apply:
		return i.evalApply(env, n)
	case *ast.Import:
		return i.evalImport(env, n)
	}
	return nil, i.Errorf("eval: unhandled node type %T", n)
}

func (i *Interp) evalVar(env *Env, n *ast.Var) (Value, error) {
	switch n.Binding.Kind {
	case ast.BindStdlib:
		return i.Std, nil
	default:
		t, ok := env.Lookup(n.Name)
		if !ok {
			return nil, i.ErrorfAt(n.Loc(), "", "unbound variable: %s", n.Name)
		}
		return t.Force(i)
	}
}

func (i *Interp) evalSuperIndex(env *Env, n *ast.SuperIndex) (Value, error) {
	var name string
	if n.IndexID != nil {
		name = string(*n.IndexID)
	} else {
		idxVal, err := i.EvalInEnv(env, n.Index)
		if err != nil {
			return nil, err
		}
		s, err := AsString(i, idxVal, "super index")
		if err != nil {
			return nil, err
		}
		name = s.Go()
	}
	// super shares self's composed object but starts its search one layer
	// further down the stack, not $'s outermost-self (env.TopSelf).
	return env.Self.GetFieldFromSuper(i, env.SuperDepth, name)
}

func (i *Interp) evalIndex(env *Env, n *ast.Index) (Value, error) {
	target, err := i.EvalInEnv(env, n.Target)
	if err != nil {
		return nil, err
	}
	idx, err := i.EvalInEnv(env, n.Index)
	if err != nil {
		return nil, err
	}
	return i.indexValue(n.Loc(), target, idx)
}

func (i *Interp) indexValue(loc ast.LocationRange, target, idx Value) (Value, error) {
	switch t := target.(type) {
	case Array:
		n, err := AsNumber(i, idx, "array index")
		if err != nil {
			return nil, err
		}
		iv := int(n)
		if iv < 0 || iv >= len(t.Elems) {
			return nil, i.ErrorfAt(loc, "", "array index %d out of bounds [0, %d)", iv, len(t.Elems))
		}
		return t.Elems[iv].Force(i)
	case String:
		n, err := AsNumber(i, idx, "string index")
		if err != nil {
			return nil, err
		}
		iv := int(n)
		if iv < 0 || iv >= len(t.R) {
			return nil, i.ErrorfAt(loc, "", "string index %d out of bounds [0, %d)", iv, len(t.R))
		}
		return StringValueRunes([]rune{t.R[iv]}), nil
	case *Object:
		s, err := AsString(i, idx, "object index")
		if err != nil {
			return nil, err
		}
		if !t.HasField(s.Go(), true) {
			return nil, i.ErrorfAt(loc, "", "field does not exist: %s", s.Go())
		}
		return t.GetField(i, s.Go())
	default:
		return nil, i.ErrorfAt(loc, "", "cannot index a %s", target.TypeName())
	}
}

func (i *Interp) evalField(env *Env, n *ast.Field) (Value, error) {
	target, err := i.EvalInEnv(env, n.Target)
	if err != nil {
		return nil, err
	}
	obj, err := AsObject(i, target, "field access")
	if err != nil {
		return nil, err
	}
	if !obj.HasField(string(n.Name), true) {
		return nil, i.ErrorfAt(n.Loc(), "", "field does not exist: %s", n.Name)
	}
	return obj.GetField(i, string(n.Name))
}

func (i *Interp) evalSlice(env *Env, n *ast.Slice) (Value, error) {
	target, err := i.EvalInEnv(env, n.Target)
	if err != nil {
		return nil, err
	}
	arr, err := AsArray(i, target, "slice target")
	if err != nil {
		return nil, err
	}
	length := len(arr.Elems)
	step := 1
	if n.Step != nil {
		sv, err := i.EvalInEnv(env, n.Step)
		if err != nil {
			return nil, err
		}
		f, err := AsNumber(i, sv, "slice step")
		if err != nil {
			return nil, err
		}
		step = int(f)
		if step == 0 {
			return nil, i.Errorf("slice step must not be zero")
		}
	}
	begin := 0
	if step < 0 {
		begin = length - 1
	}
	if n.BeginIndex != nil {
		bv, err := i.EvalInEnv(env, n.BeginIndex)
		if err != nil {
			return nil, err
		}
		f, err := AsNumber(i, bv, "slice begin")
		if err != nil {
			return nil, err
		}
		begin = clampIndex(int(f), length)
	}
	end := length
	if step < 0 {
		end = -1
	}
	if n.EndIndex != nil {
		ev, err := i.EvalInEnv(env, n.EndIndex)
		if err != nil {
			return nil, err
		}
		f, err := AsNumber(i, ev, "slice end")
		if err != nil {
			return nil, err
		}
		end = clampIndex(int(f), length)
	}
	var out []*Thunk
	if step > 0 {
		for idx := begin; idx < end && idx < length; idx += step {
			if idx >= 0 {
				out = append(out, arr.Elems[idx])
			}
		}
	} else {
		for idx := begin; idx > end && idx >= 0; idx += step {
			if idx < length {
				out = append(out, arr.Elems[idx])
			}
		}
	}
	return ArrayValue(out), nil
}

func clampIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

func (i *Interp) evalUnary(env *Env, n *ast.Unary) (Value, error) {
	v, err := i.EvalInEnv(env, n.Expr)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UopNot:
		b, err := AsBool(i, v, "unary !")
		if err != nil {
			return nil, err
		}
		return BoolValue(!b), nil
	case ast.UopMinus:
		f, err := AsNumber(i, v, "unary -")
		if err != nil {
			return nil, err
		}
		return NumberValue(-f), nil
	case ast.UopPlus:
		_, err := AsNumber(i, v, "unary +")
		if err != nil {
			return nil, err
		}
		return v, nil
	case ast.UopBitwiseNot:
		f, err := AsNumber(i, v, "unary ~")
		if err != nil {
			return nil, err
		}
		if f < math.MinInt64 || f > math.MaxInt64 {
			return nil, i.Errorf("unary ~ : argument %s outside of int64 range", formatNumber(f))
		}
		return NumberValue(float64(^int64(f))), nil
	}
	return nil, i.Errorf("unsupported unary operator")
}

func (i *Interp) evalBinaryNode(env *Env, n *ast.Binary) (Value, error) {
	// && and || short-circuit, per spec.md §4.2.
	if n.Op == ast.BopAnd {
		l, err := i.EvalInEnv(env, n.Left)
		if err != nil {
			return nil, err
		}
		lb, err := AsBool(i, l, "binary &&")
		if err != nil {
			return nil, err
		}
		if !lb {
			return BoolValue(false), nil
		}
		r, err := i.EvalInEnv(env, n.Right)
		if err != nil {
			return nil, err
		}
		return AsBoolValue(i, r, "binary &&")
	}
	if n.Op == ast.BopOr {
		l, err := i.EvalInEnv(env, n.Left)
		if err != nil {
			return nil, err
		}
		lb, err := AsBool(i, l, "binary ||")
		if err != nil {
			return nil, err
		}
		if lb {
			return BoolValue(true), nil
		}
		r, err := i.EvalInEnv(env, n.Right)
		if err != nil {
			return nil, err
		}
		return AsBoolValue(i, r, "binary ||")
	}
	l, err := i.EvalInEnv(env, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := i.EvalInEnv(env, n.Right)
	if err != nil {
		return nil, err
	}
	return i.evalBinary(n.Loc(), n.Op, l, r)
}

// AsBoolValue is like AsBool but returns the original Value wrapper.
func AsBoolValue(i *Interp, v Value, context string) (Value, error) {
	b, err := AsBool(i, v, context)
	if err != nil {
		return nil, err
	}
	return BoolValue(b), nil
}

func (i *Interp) evalLocal(env *Env, n *ast.Local) (Value, error) {
	child := env.Child()
	for _, b := range n.Binds {
		child.Vars[b.VarName] = NewThunk(child, b.Body)
	}
	return i.EvalInEnv(child, n.Body)
}

func (i *Interp) evalAssert(env *Env, n *ast.Assert) (Value, error) {
	cond, err := i.EvalInEnv(env, n.Cond)
	if err != nil {
		return nil, err
	}
	ok, err := AsBool(i, cond, "assert condition")
	if err != nil {
		return nil, err
	}
	if !ok {
		msg := "Assertion failed"
		if n.Msg != nil {
			mv, err := i.EvalInEnv(env, n.Msg)
			if err != nil {
				return nil, err
			}
			s, err := i.ToString(mv)
			if err != nil {
				return nil, err
			}
			msg = s
		}
		return nil, i.ErrorfAt(n.Loc(), "", "%s", msg)
	}
	return i.EvalInEnv(env, n.Rest)
}

func (i *Interp) evalFunctionLit(env *Env, n *ast.Function) Value {
	params := make([]Param, len(n.Params))
	for idx, p := range n.Params {
		params[idx] = Param{Name: p.Name, HasDefault: p.DefaultArg != nil, Default: p.DefaultArg, DefaultEnv: env}
	}
	return Function{
		Params: params,
		Call: func(i *Interp, args *CallArgs) (Value, error) {
			callEnv, err := i.bindParams(env, params, args, n.Loc())
			if err != nil {
				return nil, err
			}
			return i.EvalInEnv(callEnv, n.Body)
		},
	}
}

// bindParams builds the call environment for a closure invocation,
// matching positional arguments first, then named, then defaults, per
// spec.md §4.5 ("argument binding").
func (i *Interp) bindParams(closureEnv *Env, params []Param, args *CallArgs, loc ast.LocationRange) (*Env, error) {
	if len(args.Positional) > len(params) {
		return nil, i.ErrorfAt(loc, "", "too many arguments: got %d, expected at most %d", len(args.Positional), len(params))
	}
	callEnv := closureEnv.Child()
	bound := make([]bool, len(params))
	for idx, a := range args.Positional {
		callEnv.Vars[params[idx].Name] = a
		bound[idx] = true
	}
	for _, na := range args.Named {
		found := false
		for idx, p := range params {
			if p.Name == na.Name {
				if bound[idx] {
					return nil, i.ErrorfAt(loc, "", "multiple values for parameter: %s", na.Name)
				}
				callEnv.Vars[p.Name] = na.Arg
				bound[idx] = true
				found = true
				break
			}
		}
		if !found {
			return nil, i.ErrorfAt(loc, "", "function has no parameter: %s", na.Name)
		}
	}
	for idx, p := range params {
		if bound[idx] {
			continue
		}
		if !p.HasDefault {
			return nil, i.ErrorfAt(loc, "", "missing argument: %s", p.Name)
		}
		callEnv.Vars[p.Name] = NewThunk(callEnv, p.Default)
	}
	return callEnv, nil
}

func (i *Interp) evalApply(env *Env, n *ast.Apply) (Value, error) {
	targetV, err := i.EvalInEnv(env, n.Target)
	if err != nil {
		return nil, err
	}
	fn, err := AsFunction(i, targetV, "function call")
	if err != nil {
		return nil, err
	}
	args := &CallArgs{TailStrict: n.TailStrict}
	for _, p := range n.Positional {
		args.Positional = append(args.Positional, NewThunk(env, p))
	}
	for _, na := range n.Named {
		args.Named = append(args.Named, NamedArg{Name: na.Name, Arg: NewThunk(env, na.Arg)})
	}
	if n.TailStrict {
		// Tail-call discipline (spec.md §4.4): force every argument
		// eagerly up front, then reuse the current frame instead of
		// growing the stack, so a tailstrict self-recursive loop never
		// trips the max-stack-frames limit.
		if err := forceCallArgs(i, args); err != nil {
			return nil, err
		}
		return fn.Call(i, args)
	}
	if err := i.checkDepth(n.Loc()); err != nil {
		return nil, err
	}
	i.pushFrame(n.Loc(), functionCallDesc(fn.Name))
	defer i.popFrame()
	return fn.Call(i, args)
}

// forceCallArgs forces every positional and named argument thunk and
// replaces it with its already-forced result, per the tailstrict calling
// convention (spec.md §4.4).
func forceCallArgs(i *Interp, args *CallArgs) error {
	for idx, t := range args.Positional {
		v, err := t.Force(i)
		if err != nil {
			return err
		}
		args.Positional[idx] = ReadyThunk(v)
	}
	for idx, na := range args.Named {
		v, err := na.Arg.Force(i)
		if err != nil {
			return err
		}
		args.Named[idx].Arg = ReadyThunk(v)
	}
	return nil
}

func functionCallDesc(name string) string {
	if name == "" {
		return "function call"
	}
	return "function " + name
}

func (i *Interp) evalImport(env *Env, n *ast.Import) (Value, error) {
	fromFile := n.Loc().FileName
	switch n.Kind {
	case ast.ImportJsonnet:
		return i.Importer.ImportJsonnet(i, fromFile, n.Path)
	case ast.ImportString:
		s, err := i.Importer.ImportString(fromFile, n.Path)
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil
	case ast.ImportBinary:
		b, err := i.Importer.ImportBinary(fromFile, n.Path)
		if err != nil {
			return nil, err
		}
		elems := make([]*Thunk, len(b))
		for idx, byteV := range b {
			elems[idx] = ReadyThunk(NumberValue(float64(byteV)))
		}
		return ArrayValue(elems), nil
	}
	return nil, i.Errorf("unsupported import kind")
}

// ToString renders v the way `+`-with-a-string and std.toString do:
// strings pass through verbatim, everything else renders as compact
// JSON-like text, per spec.md §5 ("std.toString").
func (i *Interp) ToString(v Value) (string, error) {
	if s, ok := v.(String); ok {
		return s.Go(), nil
	}
	var b strings.Builder
	if err := i.writeToString(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (i *Interp) writeToString(b *strings.Builder, v Value) error {
	switch val := v.(type) {
	case Null:
		b.WriteString("null")
	case Bool:
		if val.B {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(formatNumber(val.N))
	case String:
		writeJSONString(b, val.Go())
	case Array:
		b.WriteByte('[')
		for idx, e := range val.Elems {
			if idx > 0 {
				b.WriteString(", ")
			}
			ev, err := e.Force(i)
			if err != nil {
				return err
			}
			if err := i.writeToString(b, ev); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *Object:
		if err := val.CheckAssertions(i); err != nil {
			return err
		}
		names := val.Fields(false)
		b.WriteByte('{')
		for idx, name := range names {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeJSONString(b, name)
			b.WriteString(": ")
			fv, err := val.GetField(i, name)
			if err != nil {
				return err
			}
			if err := i.writeToString(b, fv); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case Function:
		return i.Errorf("cannot convert function to string")
	}
	return nil
}

// formatNumber renders n the shortest way that round-trips, per spec.md
// §4.6 ("numbers manifest via the shortest decimal that reads back
// exactly").
func formatNumber(n float64) string {
	if n == 0 && math.Signbit(n) {
		// Negative zero renders distinctly from positive zero, per
		// spec.md §8's documented std.abs(0)/std.abs(-0) quirk.
		return "-0"
	}
	if n == float64(int64(n)) && n < 1e15 && n > -1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// FormatNumber exposes formatNumber for the manifest package, so JSON/
// YAML/TOML/INI number rendering shares exactly the shortest-round-trip
// logic used by std.toString and `+` string concatenation.
func FormatNumber(n float64) string { return formatNumber(n) }

// WriteJSONString exposes writeJSONString for the manifest package.
func WriteJSONString(b *strings.Builder, s string) { writeJSONString(b, s) }

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				b.WriteString(strconv.QuoteRune(r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
