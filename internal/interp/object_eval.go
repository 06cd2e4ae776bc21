package interp

import "github.com/eduardosm/rsjsonnet/internal/ast"

func (i *Interp) evalArrayComp(env *Env, n *ast.ArrayComp) (Value, error) {
	envs, err := i.expandCompSpecs(env, n.Specs)
	if err != nil {
		return nil, err
	}
	elems := make([]*Thunk, len(envs))
	for idx, e := range envs {
		elems[idx] = NewThunk(e, n.Body)
	}
	return ArrayValue(elems), nil
}

// expandCompSpecs evaluates a chain of `for`/`if` clauses, returning one
// child environment per surviving iteration, each with that iteration's
// `for` variables bound.
func (i *Interp) expandCompSpecs(env *Env, specs []ast.CompSpec) ([]*Env, error) {
	envs := []*Env{env}
	for _, spec := range specs {
		var next []*Env
		switch spec.Kind {
		case ast.CompFor:
			for _, e := range envs {
				srcV, err := i.EvalInEnv(e, spec.For.Expr)
				if err != nil {
					return nil, err
				}
				arr, err := AsArray(i, srcV, "for source")
				if err != nil {
					return nil, err
				}
				for _, elemThunk := range arr.Elems {
					child := e.Child()
					child.Vars[spec.For.VarName] = elemThunk
					next = append(next, child)
				}
			}
		case ast.CompIf:
			for _, e := range envs {
				condV, err := i.EvalInEnv(e, spec.If.Expr)
				if err != nil {
					return nil, err
				}
				ok, err := AsBool(i, condV, "comprehension if")
				if err != nil {
					return nil, err
				}
				if ok {
					next = append(next, e)
				}
			}
		}
		envs = next
	}
	return envs, nil
}

func (i *Interp) evalObject(env *Env, n *ast.Object) (Value, error) {
	fields := make(map[string]layerField)
	var order []string
	var locals []localBind
	var asserts []unboundAssert
	for _, f := range n.Fields {
		switch f.Kind {
		case ast.ObjectLocal:
			locals = append(locals, localBind{name: f.LocalName, body: f.LocalBody})
		case ast.ObjectAssert:
			asserts = append(asserts, unboundAssert{cond: f.AssertCond, msg: f.AssertMsg})
		case ast.ObjectFieldExpr:
			// Computed key expressions see the outer scope only, not this
			// object's self/locals (the resolver enforces this).
			nameV, err := i.EvalInEnv(env, f.Name)
			if err != nil {
				return nil, err
			}
			if _, isNull := nameV.(Null); isNull {
				// A null-valued computed key omits the field entirely.
				continue
			}
			nameS, err := AsString(i, nameV, "object field name")
			if err != nil {
				return nil, err
			}
			name := nameS.Go()
			if _, dup := fields[name]; dup {
				return nil, i.ErrorfAt(f.LocRange, "", "duplicate field name: %q", name)
			}
			var fld unboundField = &exprField{body: f.Body}
			if f.PlusSuper {
				fld = &plusSuperField{inner: fld, name: name}
			}
			fields[name] = layerField{hide: f.Hide, body: fld}
			order = append(order, name)
		}
	}
	return NewObjectLayer(env, order, fields, locals, asserts), nil
}

// compExprField is an object-comprehension-generated field: its value
// expression closes over a specific iteration's environment, plus the
// comprehension's shared locals (which must themselves be rebound against
// that same iteration's environment).
type compExprField struct {
	iterEnv *Env
	locals  []localBind
	body    ast.Node
}

func (f *compExprField) eval(i *Interp, l *objLayer, self *Object, superDepth int) (Value, error) {
	env := f.iterEnv.WithSelf(self, superDepth)
	for _, lb := range f.locals {
		env.Vars[lb.name] = NewThunk(env, lb.body)
	}
	return i.EvalInEnv(env, f.body)
}

func (i *Interp) evalObjectComp(env *Env, n *ast.ObjectComp) (Value, error) {
	var locals []localBind
	for _, lf := range n.Locals {
		locals = append(locals, localBind{name: lf.LocalName, body: lf.LocalBody})
	}

	envs, err := i.expandCompSpecs(env, n.Specs)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]layerField)
	var order []string
	for _, iterEnv := range envs {
		// The key expression cannot see self/locals (enforced by the
		// resolver), so it is evaluated directly against iterEnv.
		nameV, err := i.EvalInEnv(iterEnv, n.KeyExpr)
		if err != nil {
			return nil, err
		}
		if _, isNull := nameV.(Null); isNull {
			continue
		}
		nameS, err := AsString(i, nameV, "object field name")
		if err != nil {
			return nil, err
		}
		name := nameS.Go()
		if _, dup := fields[name]; dup {
			return nil, i.Errorf("duplicate field name from object comprehension: %q", name)
		}
		fields[name] = layerField{
			hide: ast.ObjectFieldInherit,
			body: &compExprField{iterEnv: iterEnv, locals: locals, body: n.ValExpr},
		}
		order = append(order, name)
	}
	// Locals are not otherwise bound anywhere (each generated field rebinds
	// them fresh), so the layer itself carries no standalone local slots.
	return NewObjectLayer(env, order, fields, nil, nil), nil
}
