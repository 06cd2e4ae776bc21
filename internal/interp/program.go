package interp

import (
	"path/filepath"

	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/resolver"
)

// FileProvider abstracts reading source bytes, so Program does not
// directly depend on the host filesystem (tests can supply an in-memory
// provider).
type FileProvider interface {
	ReadFile(path string) ([]byte, error)
}

// ParseFunc parses and resolves a single file into an AST, isolating
// Program from a direct dependency on the parser/lexer packages'
// concrete error types.
type ParseFunc func(fileName string, src string) (ast.Node, error)

// Program is the embedding API: a single evaluation root plus its import
// cache, external variables, and top-level arguments, per spec.md §6.
type Program struct {
	provider FileProvider
	parse    ParseFunc
	jpath    []string // additional import search directories, in order

	interp *Interp

	extVars map[string]*Thunk
	tlaVars map[string]*Thunk

	jsonnetCache map[string]*cacheEntry
	stringCache  map[string]*stringCacheEntry
	binaryCache  map[string][]byte

	entryDir string // directory of the entrypoint file, used for relative resolution when fromFile is itself an import
}

type cacheEntry struct {
	value Value
	err   error
}

type stringCacheEntry struct {
	s   string
	err error
}

// NewProgram builds a Program. std must be installed (via SetStdlib on
// the returned Program's Interp) before Evaluate is called.
func NewProgram(provider FileProvider, parse ParseFunc, jpath []string) *Program {
	p := &Program{
		provider:     provider,
		parse:        parse,
		jpath:        jpath,
		extVars:      make(map[string]*Thunk),
		tlaVars:      make(map[string]*Thunk),
		jsonnetCache: make(map[string]*cacheEntry),
		stringCache:  make(map[string]*stringCacheEntry),
		binaryCache:  make(map[string][]byte),
	}
	p.interp = NewInterp(p, nil)
	p.interp.ExtVar = p.externalVarValue
	return p
}

// Interp returns the Program's evaluator.
func (p *Program) Interp() *Interp { return p.interp }

// SetTraceSink installs the std.trace destination.
func (p *Program) SetTraceSink(sink TraceSink) { p.interp.Trace = sink }

// SetMaxDepth overrides the maximum call/force stack depth, per spec.md §6
// ("max-stack-frames (default 500)", the `-s` CLI flag).
func (p *Program) SetMaxDepth(n int) { p.interp.SetMaxDepth(n) }

// SetStdlib installs the std object, built by the stdlib package against
// p.Interp().
func (p *Program) SetStdlib(std *Object) { p.interp.SetStdlib(std) }

// SetExtVar binds an external variable to an already-evaluated string
// value (the `-V`/`--ext-str` form).
func (p *Program) SetExtVar(name, value string) {
	p.extVars[name] = ReadyThunk(StringValue(value))
}

// SetExtCode binds an external variable to the result of evaluating a
// Jsonnet expression (the `--ext-code` form), per spec.md §6.
func (p *Program) SetExtCode(name, code string) error {
	n, err := p.parse("<ext-code:"+name+">", code)
	if err != nil {
		return err
	}
	if err := resolver.Resolve(n, "std"); err != nil {
		return err
	}
	p.extVars[name] = NewThunk(p.rootEnv(), n)
	return nil
}

// SetTLAVar/SetTLACode are the analogous top-level-argument forms; a TLA
// of the same name as a top-level function parameter supplies that
// parameter's actual argument, per spec.md §6.
func (p *Program) SetTLAVar(name, value string) {
	p.tlaVars[name] = ReadyThunk(StringValue(value))
}

func (p *Program) SetTLACode(name, code string) error {
	n, err := p.parse("<tla-code:"+name+">", code)
	if err != nil {
		return err
	}
	if err := resolver.Resolve(n, "std"); err != nil {
		return err
	}
	p.tlaVars[name] = NewThunk(p.rootEnv(), n)
	return nil
}

// rootEnv is the environment ext-code/TLA-code expressions evaluate in:
// no locals, no self, just std (reachable via BindStdlib, not via Vars).
func (p *Program) rootEnv() *Env {
	return &Env{Vars: make(map[ast.Identifier]*Thunk)}
}

// externalVarValue implements the std.extVar / ast extvar-style lookup
// used by the stdlib's native extVar builtin.
func (p *Program) externalVarValue(name string) (*Thunk, bool) {
	t, ok := p.extVars[name]
	return t, ok
}

// EvaluateFile parses, resolves, and evaluates fileName as the program's
// entrypoint, applying TLAs if the result is a function, per spec.md §6
// ("if the final value is a function, TLAs supply its arguments").
func (p *Program) EvaluateFile(fileName string) (Value, error) {
	src, err := p.provider.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return p.EvaluateSnippet(fileName, string(src))
}

// EvaluateSnippet evaluates src as though it were read from fileName
// (used for the `-e` CLI flag, where fileName is a synthetic name).
func (p *Program) EvaluateSnippet(fileName, src string) (Value, error) {
	p.entryDir = filepath.Dir(fileName)
	n, err := p.parse(fileName, src)
	if err != nil {
		return nil, err
	}
	if err := resolver.Resolve(n, "std"); err != nil {
		return nil, err
	}
	p.interp.pushFile(fileName)
	v, err := p.interp.EvalInEnv(p.rootEnv(), n)
	p.interp.popFile()
	if err != nil {
		return nil, err
	}
	return p.applyTLAs(v)
}

func (p *Program) applyTLAs(v Value) (Value, error) {
	fn, ok := v.(Function)
	if !ok {
		return v, nil
	}
	args := &CallArgs{}
	for _, param := range fn.Params {
		if t, ok := p.tlaVars[string(param.Name)]; ok {
			args.Named = append(args.Named, NamedArg{Name: param.Name, Arg: t})
		}
	}
	return fn.Call(p.interp, args)
}

// ManifestMode selects one of the output modes spec.md §6 lists for the
// embedding API's manifest step.
type ManifestMode int

const (
	ManifestJSON ManifestMode = iota
	ManifestString
	ManifestYAMLStream
	ManifestMultiFile
)

// ---------------------------------------------------------------------------
// Importer implementation.

func (p *Program) resolveImportPath(fromFile, path string) (string, []byte, error) {
	if filepath.IsAbs(path) {
		if src, err := p.provider.ReadFile(path); err == nil {
			return path, src, nil
		}
	}
	candidates := make([]string, 0, 1+len(p.jpath))
	base := p.entryDir
	if fromFile != "" {
		base = filepath.Dir(fromFile)
	}
	candidates = append(candidates, filepath.Join(base, path))
	for _, dir := range p.jpath {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	var lastErr error
	for _, c := range candidates {
		src, err := p.provider.ReadFile(c)
		if err == nil {
			return c, src, nil
		}
		lastErr = err
	}
	return "", nil, lastErr
}

// ImportJsonnet implements Importer: resolves, parses, and evaluates
// path once, memoizing both the success and the failure, per spec.md §6
// ("import is memoized by resolved path; import cycles are a static
// error").
func (p *Program) ImportJsonnet(i *Interp, fromFile, path string) (Value, error) {
	resolved, src, err := p.resolveImportPath(fromFile, path)
	if err != nil {
		return nil, i.Errorf("couldn't open import %q: %v", path, err)
	}
	if e, ok := p.jsonnetCache[resolved]; ok {
		return e.value, e.err
	}
	// Mark as in-progress with a cycle-sentinel before recursing, so a
	// file that (transitively) imports itself gets a clean error instead
	// of unbounded recursion.
	p.jsonnetCache[resolved] = &cacheEntry{err: i.Errorf("import cycle detected: %s", resolved)}

	n, err := p.parse(resolved, string(src))
	if err == nil {
		err = resolver.Resolve(n, "std")
	}
	var v Value
	if err == nil {
		i.pushFile(resolved)
		v, err = i.EvalInEnv(p.rootEnv(), n)
		i.popFile()
	}
	entry := &cacheEntry{value: v, err: err}
	p.jsonnetCache[resolved] = entry
	return v, err
}

// ImportString implements Importer for `importstr`.
func (p *Program) ImportString(fromFile, path string) (string, error) {
	resolved, src, err := p.resolveImportPath(fromFile, path)
	if err != nil {
		return "", p.interp.Errorf("couldn't open import %q: %v", path, err)
	}
	if e, ok := p.stringCache[resolved]; ok {
		return e.s, e.err
	}
	s := string(src)
	p.stringCache[resolved] = &stringCacheEntry{s: s}
	return s, nil
}

// ImportBinary implements Importer for `importbin`.
func (p *Program) ImportBinary(fromFile, path string) ([]byte, error) {
	resolved, src, err := p.resolveImportPath(fromFile, path)
	if err != nil {
		return nil, p.interp.Errorf("couldn't open import %q: %v", path, err)
	}
	if b, ok := p.binaryCache[resolved]; ok {
		return b, nil
	}
	p.binaryCache[resolved] = src
	return src, nil
}
