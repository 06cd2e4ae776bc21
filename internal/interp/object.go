package interp

import (
	"sort"

	"github.com/eduardosm/rsjsonnet/internal/ast"
)

// unboundField is a field body that has not yet been bound to a concrete
// self/super pair. It is evaluated once an Object resolves which layer
// defines a field and what its super sub-stack is.
type unboundField interface {
	eval(i *Interp, l *objLayer, self *Object, superDepth int) (Value, error)
}

// exprField is an ordinary `f: body` / `f:: body` / `f::: body` field.
type exprField struct {
	body ast.Node
}

func (f *exprField) eval(i *Interp, l *objLayer, self *Object, superDepth int) (Value, error) {
	return i.EvalInEnv(l.fieldEnv(self, superDepth), f.body)
}

// readyField wraps an already-known value, used by NewReadyObject for
// objects that native builtins build from values they have already
// computed.
type readyField struct {
	v   Value
	err error
}

func (f *readyField) eval(i *Interp, l *objLayer, self *Object, superDepth int) (Value, error) {
	return f.v, f.err
}

// plusSuperField wraps a `f+: body` field: the effective value is body
// concatenated with whatever the same field resolves to in the sub-stack
// below this layer, if any.
type plusSuperField struct {
	inner unboundField
	name  string
}

func (f *plusSuperField) eval(i *Interp, l *objLayer, self *Object, superDepth int) (Value, error) {
	right, err := f.inner.eval(i, l, self, superDepth)
	if err != nil {
		return nil, err
	}
	if !self.hasFieldFrom(superDepth+1, f.name, true) {
		return right, nil
	}
	left, err := self.getFieldFrom(i, superDepth+1, f.name)
	if err != nil {
		return nil, err
	}
	return plusValues(i, left, right)
}

// objLayer is one layer of an Object's composition stack: the result of
// one object literal or comprehension. Layer 0 of an Object.layers slice
// is the topmost (most recently composed via `+`, i.e. right-hand side);
// increasing index walks toward the bottom (left-hand, oldest) layer.
type objLayer struct {
	fields map[string]layerField
	// order preserves declaration order for diagnostics; field iteration
	// for manifesting always uses sorted key order per spec.md §4.6.
	order []string

	locals  []localBind
	asserts []unboundAssert
	env     *Env // the lexical environment the layer's fields/asserts/locals close over
}

type localBind struct {
	name ast.Identifier
	body ast.Node
}

// fieldEnv builds the environment a field/local/assert body of this
// layer should evaluate in: the layer's own lexical environment, with
// self/super rebound to the given (dynamic) composed object, plus the
// layer's own local bindings, which may themselves reference self or
// each other, per spec.md §3 ("object locals").
func (l *objLayer) fieldEnv(self *Object, superDepth int) *Env {
	env := l.env.WithSelf(self, superDepth)
	for _, lb := range l.locals {
		env.Vars[lb.name] = NewThunk(env, lb.body)
	}
	return env
}

type layerField struct {
	hide ast.ObjectFieldHide
	body unboundField
}

type unboundAssert struct {
	cond ast.Node
	msg  ast.Node
}

// fieldCacheKey memoizes per-field forced values keyed by (layer index
// where the field's body lives, field name), per spec.md §3.
type fieldCacheKey struct {
	layer int
	name  string
}

// Object is a stack of layers (bottom-most conceptually "oldest"), per
// spec.md §3. `self` binds to the whole composed object; `super` inside a
// layer binds to the sub-stack strictly below that layer.
type Object struct {
	valueBase
	layers []*objLayer

	cache     map[fieldCacheKey]Value
	cacheErr  map[fieldCacheKey]error
	assertsOK bool  // true once assertions have been checked at least once
	assertErr error // nil if they passed
}

// TypeName implements Value.
func (*Object) TypeName() string { return "object" }

// NewObjectLayer builds a single-layer object from the given field map,
// locals, and assertions, all closing over env.
func NewObjectLayer(env *Env, order []string, fields map[string]layerField, locals []localBind, asserts []unboundAssert) *Object {
	return &Object{
		layers: []*objLayer{{fields: fields, order: order, locals: locals, asserts: asserts, env: env}},
		cache:  make(map[fieldCacheKey]Value),
	}
}

// NewReadyObject builds a single-layer object directly from already-known
// values, in field-name order, hiding the names listed in hidden. Used by
// native builtins that synthesize a new object (e.g. std.mergePatch,
// std.objectRemoveKey) rather than evaluating Jsonnet field bodies.
func NewReadyObject(order []string, values map[string]Value, hidden map[string]bool) *Object {
	fields := make(map[string]layerField, len(values))
	for _, name := range order {
		hide := ast.ObjectFieldVisible
		if hidden[name] {
			hide = ast.ObjectFieldHidden
		}
		fields[name] = layerField{hide: hide, body: &readyField{v: values[name]}}
	}
	return NewObjectLayer(&Env{}, order, fields, nil, nil)
}

// PlusObjects implements `left + right` on two objects: the result's
// layer stack is right's layers (now on top) followed by left's layers,
// per spec.md §4.4 ("Binary + on objects").
func PlusObjects(left, right *Object) *Object {
	layers := make([]*objLayer, 0, len(left.layers)+len(right.layers))
	layers = append(layers, right.layers...)
	layers = append(layers, left.layers...)
	return &Object{
		layers: layers,
		cache:  make(map[fieldCacheKey]Value),
	}
}

// findField scans layers starting at fromDepth (0 = topmost of the whole
// object) for the first layer defining name, returning its index.
func (o *Object) findField(fromDepth int, name string) (int, layerField, bool) {
	for idx := fromDepth; idx < len(o.layers); idx++ {
		if f, ok := o.layers[idx].fields[name]; ok {
			return idx, f, true
		}
	}
	return 0, layerField{}, false
}

// hasFieldFrom reports whether name is defined anywhere from fromDepth
// downward, optionally ignoring visibility.
func (o *Object) hasFieldFrom(fromDepth int, name string, includeHidden bool) bool {
	if fromDepth >= len(o.layers) {
		return false
	}
	_, _, ok := o.findField(fromDepth, name)
	if !ok {
		return false
	}
	if includeHidden {
		return true
	}
	return o.effectiveHide(name) != ast.ObjectFieldHidden
}

// HasField reports whether name is a field of the whole object.
func (o *Object) HasField(name string, includeHidden bool) bool {
	return o.hasFieldFrom(0, name, includeHidden)
}

// effectiveHide computes the visibility of name across the whole layer
// stack: the topmost *explicit* (`::`/`:::`) marker wins; if every
// occurrence uses the default `:` the field is visible, per spec.md §3
// ("Field visibility on override follows...").
func (o *Object) effectiveHide(name string) ast.ObjectFieldHide {
	for _, l := range o.layers {
		if f, ok := l.fields[name]; ok {
			if f.hide != ast.ObjectFieldInherit {
				return f.hide
			}
		}
	}
	return ast.ObjectFieldInherit
}

// Fields returns the object's field names, sorted, optionally including
// hidden fields, per spec.md §8 ("Visible fields... ascending Unicode-
// scalar order").
func (o *Object) Fields(includeHidden bool) []string {
	seen := make(map[string]bool)
	var names []string
	for _, l := range o.layers {
		for _, n := range l.order {
			if seen[n] {
				continue
			}
			seen[n] = true
			if includeHidden || o.effectiveHide(n) != ast.ObjectFieldHidden {
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// CheckAssertions forces every assertion in the layer stack exactly once
// per object (memoized), per spec.md §4.4 ("on first access to any field
// of an object, the object's accumulated assertions are forced").
func (o *Object) CheckAssertions(i *Interp) error {
	if o.assertsOK {
		return o.assertErr
	}
	// Mark as checked before actually running the asserts, so an assert
	// that (directly or indirectly) accesses a field of this same object
	// does not recurse forever.
	o.assertsOK = true
	for depth, l := range o.layers {
		for _, a := range l.asserts {
			env := l.fieldEnv(o, depth)
			cond, err := i.EvalInEnv(env, a.cond)
			if err != nil {
				o.assertErr = err
				return err
			}
			ok, err := AsBool(i, cond, "assertion condition")
			if err != nil {
				o.assertErr = err
				return err
			}
			if !ok {
				msg := "Assertion failed"
				if a.msg != nil {
					mv, err := i.EvalInEnv(env, a.msg)
					if err != nil {
						o.assertErr = err
						return err
					}
					s, err := i.ToString(mv)
					if err != nil {
						o.assertErr = err
						return err
					}
					msg = s
				}
				o.assertErr = i.Errorf("%s", msg)
				return o.assertErr
			}
		}
	}
	return nil
}

// GetField looks up name from the top of the stack, forcing its
// defining-layer body (memoized), after checking assertions.
func (o *Object) GetField(i *Interp, name string) (Value, error) {
	if err := o.CheckAssertions(i); err != nil {
		return nil, err
	}
	return o.getFieldFrom(i, 0, name)
}

func (o *Object) getFieldFrom(i *Interp, fromDepth int, name string) (Value, error) {
	idx, field, ok := o.findField(fromDepth, name)
	if !ok {
		return nil, i.Errorf("field does not exist: %s", name)
	}
	key := fieldCacheKey{layer: idx, name: name}
	if v, ok := o.cache[key]; ok {
		return v, nil
	}
	if err, ok := o.cacheErr[key]; ok {
		return nil, err
	}
	v, err := field.body.eval(i, o.layers[idx], o, idx)
	if err != nil {
		if o.cacheErr == nil {
			o.cacheErr = make(map[fieldCacheKey]error)
		}
		o.cacheErr[key] = err
		return nil, err
	}
	o.cache[key] = v
	return v, nil
}

// GetFieldFromSuper looks up name starting strictly below superDepth,
// i.e. the view `super` has from within the layer at index superDepth.
func (o *Object) GetFieldFromSuper(i *Interp, superDepth int, name string) (Value, error) {
	if !o.hasFieldFrom(superDepth+1, name, true) {
		return nil, i.Errorf("field does not exist: %s", name)
	}
	return o.getFieldFrom(i, superDepth+1, name)
}

// HasSuperField reports whether `super` from superDepth defines name.
func (o *Object) HasSuperField(superDepth int, name string, includeHidden bool) bool {
	return o.hasFieldFrom(superDepth+1, name, includeHidden)
}
