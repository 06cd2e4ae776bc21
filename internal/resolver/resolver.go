// Package resolver annotates every name use in an AST with a binding kind
// (local / parameter / object field / builtin) per spec.md §4.3, and
// rejects unbound identifiers and illegal uses of `super` before
// evaluation begins.
package resolver

import (
	"fmt"

	"github.com/eduardosm/rsjsonnet/internal/ast"
)

// Error is a resolution error: an unbound identifier or an illegal use of
// `super`.
type Error struct {
	Msg string
	Loc ast.LocationRange
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// scopeKind says what a name in scope resolves to.
type scopeKind int

const (
	scopeLocal scopeKind = iota
	scopeParam
	scopeObjectLocal
)

type scope struct {
	parent       *scope
	names        map[ast.Identifier]scopeKind
	inObject     bool // true at the scope introduced by an object literal's fields
	blocksObject bool // true at a scope that must not see an enclosing self/super
}

func (s *scope) lookup(name ast.Identifier) (scopeKind, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if k, ok := cur.names[name]; ok {
			return k, true
		}
	}
	return 0, false
}

func (s *scope) push(inObject bool) *scope {
	return &scope{parent: s, names: make(map[ast.Identifier]scopeKind), inObject: inObject}
}

// pushKeyScope starts a scope that can see names declared in s but, unlike
// push, cannot see an enclosing self/super: used for an object
// comprehension's key expression, which is evaluated before the
// comprehension's self exists.
func (s *scope) pushKeyScope() *scope {
	return &scope{parent: s, names: make(map[ast.Identifier]scopeKind), blocksObject: true}
}

func (s *scope) define(name ast.Identifier, kind scopeKind) {
	s.names[name] = kind
}

func (s *scope) withinObject() bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.blocksObject {
			return false
		}
		if cur.inObject {
			return true
		}
	}
	return false
}

// Resolve walks n, filling in every ast.Var's Binding field and returning
// an error for the first unbound identifier or illegal `super` use.
// stdlibName is the identifier std is bound under (normally "std").
func Resolve(n ast.Node, stdlibName ast.Identifier) error {
	r := &resolverState{stdlibName: stdlibName}
	root := &scope{names: map[ast.Identifier]scopeKind{}}
	return r.resolve(n, root)
}

type resolverState struct {
	stdlibName ast.Identifier
}

func (r *resolverState) resolve(n ast.Node, s *scope) error {
	if n == nil {
		return nil
	}
	switch n := n.(type) {
	case *ast.NullLit, *ast.BoolLit, *ast.NumberLit, *ast.LiteralString:
		return nil
	case *ast.Self:
		if !s.withinObject() {
			return &Error{Msg: "'self' used outside of an object", Loc: n.Loc()}
		}
		return nil
	case *ast.TopLevelSelf:
		if !s.withinObject() {
			return &Error{Msg: "'$' used outside of an object", Loc: n.Loc()}
		}
		return nil
	case *ast.SuperIndex:
		if !s.withinObject() {
			return &Error{Msg: "'super' used outside of an object", Loc: n.Loc()}
		}
		if n.Index != nil {
			return r.resolve(n.Index, s)
		}
		return nil
	case *ast.Var:
		if n.Name == r.stdlibName {
			n.Binding = ast.BindingRef{Kind: ast.BindStdlib}
			return nil
		}
		kind, ok := s.lookup(n.Name)
		if !ok {
			return &Error{Msg: fmt.Sprintf("unknown variable: %s", n.Name), Loc: n.Loc()}
		}
		switch kind {
		case scopeLocal:
			n.Binding = ast.BindingRef{Kind: ast.BindLocal}
		case scopeParam:
			n.Binding = ast.BindingRef{Kind: ast.BindParam}
		case scopeObjectLocal:
			n.Binding = ast.BindingRef{Kind: ast.BindObjectLocal}
		}
		return nil
	case *ast.Array:
		for _, e := range n.Elements {
			if err := r.resolve(e, s); err != nil {
				return err
			}
		}
		return nil
	case *ast.ArrayComp:
		inner, err := r.resolveCompSpecs(n.Specs, s)
		if err != nil {
			return err
		}
		return r.resolve(n.Body, inner)
	case *ast.Object:
		return r.resolveObject(n, s)
	case *ast.ObjectComp:
		return r.resolveObjectComp(n, s)
	case *ast.Index:
		if err := r.resolve(n.Target, s); err != nil {
			return err
		}
		return r.resolve(n.Index, s)
	case *ast.Field:
		return r.resolve(n.Target, s)
	case *ast.Slice:
		if err := r.resolve(n.Target, s); err != nil {
			return err
		}
		for _, e := range []ast.Node{n.BeginIndex, n.EndIndex, n.Step} {
			if err := r.resolve(e, s); err != nil {
				return err
			}
		}
		return nil
	case *ast.Unary:
		return r.resolve(n.Expr, s)
	case *ast.Binary:
		if err := r.resolve(n.Left, s); err != nil {
			return err
		}
		return r.resolve(n.Right, s)
	case *ast.Conditional:
		if err := r.resolve(n.Cond, s); err != nil {
			return err
		}
		if err := r.resolve(n.TrueExpr, s); err != nil {
			return err
		}
		return r.resolve(n.FalseExpr, s)
	case *ast.Local:
		inner := s.push(false)
		for _, b := range n.Binds {
			inner.define(b.VarName, scopeLocal)
		}
		for _, b := range n.Binds {
			if err := r.resolve(b.Body, inner); err != nil {
				return err
			}
		}
		return r.resolve(n.Body, inner)
	case *ast.Error:
		return r.resolve(n.Expr, s)
	case *ast.Assert:
		if err := r.resolve(n.Cond, s); err != nil {
			return err
		}
		if err := r.resolve(n.Msg, s); err != nil {
			return err
		}
		return r.resolve(n.Rest, s)
	case *ast.Function:
		return r.resolveFunction(n, s)
	case *ast.Apply:
		if err := r.resolve(n.Target, s); err != nil {
			return err
		}
		for _, a := range n.Positional {
			if err := r.resolve(a, s); err != nil {
				return err
			}
		}
		for _, a := range n.Named {
			if err := r.resolve(a.Arg, s); err != nil {
				return err
			}
		}
		return nil
	case *ast.Import:
		return nil
	}
	return fmt.Errorf("resolver: unhandled node type %T", n)
}

func (r *resolverState) resolveFunction(n *ast.Function, s *scope) error {
	inner := s.push(false)
	for _, p := range n.Params {
		inner.define(p.Name, scopeParam)
	}
	for _, p := range n.Params {
		if err := r.resolve(p.DefaultArg, inner); err != nil {
			return err
		}
	}
	return r.resolve(n.Body, inner)
}

func (r *resolverState) resolveCompSpecs(specs []ast.CompSpec, s *scope) (*scope, error) {
	cur := s
	for _, spec := range specs {
		switch spec.Kind {
		case ast.CompFor:
			if err := r.resolve(spec.For.Expr, cur); err != nil {
				return nil, err
			}
			cur = cur.push(false)
			cur.define(spec.For.VarName, scopeLocal)
		case ast.CompIf:
			if err := r.resolve(spec.If.Expr, cur); err != nil {
				return nil, err
			}
		}
	}
	return cur, nil
}

// resolveObject handles a plain object literal: locals and field bodies
// see each other and the object's self/super; field bodies additionally
// see self as an implicit method-like context.
func (r *resolverState) resolveObject(n *ast.Object, s *scope) error {
	inner := s.push(true)
	for _, f := range n.Fields {
		if f.Kind == ast.ObjectLocal {
			inner.define(f.LocalName, scopeObjectLocal)
		}
	}
	for _, f := range n.Fields {
		switch f.Kind {
		case ast.ObjectLocal:
			if err := r.resolve(f.LocalBody, inner); err != nil {
				return err
			}
		case ast.ObjectAssert:
			if err := r.resolve(f.AssertCond, inner); err != nil {
				return err
			}
			if err := r.resolve(f.AssertMsg, inner); err != nil {
				return err
			}
		case ast.ObjectFieldExpr:
			// Computed key expressions are evaluated outside the object's
			// own scope (they cannot see self/local siblings), per
			// spec.md §3 ("Keys can be computed").
			if err := r.resolve(f.Name, s); err != nil {
				return err
			}
			if err := r.resolve(f.Body, inner); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *resolverState) resolveObjectComp(n *ast.ObjectComp, s *scope) error {
	inner := s.push(true)
	for _, f := range n.Locals {
		inner.define(f.LocalName, scopeObjectLocal)
	}
	for _, f := range n.Locals {
		if err := r.resolve(f.LocalBody, inner); err != nil {
			return err
		}
	}
	compScope, err := r.resolveCompSpecs(n.Specs, inner)
	if err != nil {
		return err
	}
	// The key expression is evaluated once per iteration, before the
	// comprehension's self exists, so it cannot reference self/super/$
	// even though the value expression can.
	if err := r.resolve(n.KeyExpr, compScope.pushKeyScope()); err != nil {
		return err
	}
	return r.resolve(n.ValExpr, compScope)
}
