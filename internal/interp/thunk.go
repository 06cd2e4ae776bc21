package interp

import "github.com/eduardosm/rsjsonnet/internal/ast"

// thunkState is the lifecycle state of a Thunk, per spec.md §3/§4.4.
type thunkState int

const (
	thunkUnforced thunkState = iota
	thunkForcing
	thunkForced
)

// Thunk is a lazily-evaluated reference to a Value. Forcing is memoized:
// once computed (value or error), subsequent forces return the same
// outcome without recomputing, and a Thunk caught forcing itself reports
// infinite recursion.
type Thunk struct {
	state thunkState

	// Unforced state.
	env    *Env
	body   ast.Node
	native func(i *Interp) (Value, error) // set for thunks built by NewNativeThunk

	// Forced state.
	value Value
	err   error
}

// ReadyThunk wraps an already-known value in a Thunk that needs no
// forcing.
func ReadyThunk(v Value) *Thunk {
	return &Thunk{state: thunkForced, value: v}
}

// NewThunk builds a Thunk that evaluates body in env on first Force.
func NewThunk(env *Env, body ast.Node) *Thunk {
	return &Thunk{env: env, body: body}
}

// NewNativeThunk builds a Thunk whose value is produced by a Go closure
// rather than by evaluating an AST node, used by the stdlib package for
// lazily-computed array elements (std.map, std.makeArray, and similar).
// Forcing is memoized exactly like any other thunk.
func NewNativeThunk(f func(i *Interp) (Value, error)) *Thunk {
	return &Thunk{native: f}
}

// Force evaluates the thunk if necessary and returns its memoized
// outcome. Forcing the same thunk twice yields the same result (spec.md
// §8 "Forcing a thunk twice yields the same outcome").
func (t *Thunk) Force(i *Interp) (Value, error) {
	switch t.state {
	case thunkForced:
		return t.value, t.err
	case thunkForcing:
		err := i.Errorf("infinite recursion detected")
		return nil, err
	}
	t.state = thunkForcing
	var v Value
	var err error
	if t.native != nil {
		v, err = t.native(i)
	} else {
		v, err = i.EvalInEnv(t.env, t.body)
	}
	t.state = thunkForced
	t.value, t.err = v, err
	// Drop the environment once forced; it may be part of a cycle and is
	// no longer needed, easing GC pressure (spec.md §3 "Lifecycle").
	t.env = nil
	t.body = nil
	t.native = nil
	return v, err
}

// Env is an immutable lexical environment mapping identifiers to thunks.
// Chained via Parent for outer scopes. Environments may be self-referential
// (a thunk may close over an Env that itself binds that same thunk),
// which is what makes self-recursive `local` bindings and recursive
// object field access possible.
type Env struct {
	Parent *Env
	Vars   map[ast.Identifier]*Thunk

	// Self/Super binding, valid only within object field/method bodies.
	// HasSelf distinguishes "no object in scope" from "self is this
	// object, super is empty" (SuperDepth == 0).
	HasSelf    bool
	Self       *Object
	SuperDepth int

	// TopSelf is the outermost self, used to resolve `$`. It is nil
	// outside of any object.
	TopSelf *Object
}

// Lookup walks the environment chain for name.
func (e *Env) Lookup(name ast.Identifier) (*Thunk, bool) {
	for cur := e; cur != nil; cur = cur.Parent {
		if cur.Vars != nil {
			if t, ok := cur.Vars[name]; ok {
				return t, true
			}
		}
	}
	return nil, false
}

// Child returns a new environment nested under e, initially empty.
func (e *Env) Child() *Env {
	return &Env{
		Parent: e, Vars: make(map[ast.Identifier]*Thunk),
		HasSelf: e != nil && e.HasSelf, Self: selfOf(e), SuperDepth: superDepthOf(e), TopSelf: topSelfOf(e),
	}
}

func selfOf(e *Env) *Object {
	if e == nil {
		return nil
	}
	return e.Self
}

func superDepthOf(e *Env) int {
	if e == nil {
		return 0
	}
	return e.SuperDepth
}

func topSelfOf(e *Env) *Object {
	if e == nil {
		return nil
	}
	return e.TopSelf
}

// WithSelf returns a child environment with self/super rebound, used when
// entering an object field body.
func (e *Env) WithSelf(self *Object, superDepth int) *Env {
	top := self
	if e != nil && e.TopSelf != nil {
		top = e.TopSelf
	}
	return &Env{
		Parent: e, Vars: make(map[ast.Identifier]*Thunk),
		HasSelf: true, Self: self, SuperDepth: superDepth, TopSelf: top,
	}
}

// CallArgs are the actual arguments bound to a function call.
type CallArgs struct {
	Positional []*Thunk
	Named      []NamedArg
	TailStrict bool
}

// NamedArg is one named call argument.
type NamedArg struct {
	Name ast.Identifier
	Arg  *Thunk
}
