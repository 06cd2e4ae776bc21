package interp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/interp"
	"github.com/eduardosm/rsjsonnet/internal/parser"
	"github.com/eduardosm/rsjsonnet/internal/resolver"
)

type noImports struct{}

func (noImports) ImportJsonnet(*interp.Interp, string, string) (interp.Value, error) {
	return nil, nil
}
func (noImports) ImportString(string, string) (string, error) { return "", nil }
func (noImports) ImportBinary(string, string) ([]byte, error) { return nil, nil }

func eval(t *testing.T, src string) (interp.Value, error) {
	t.Helper()
	n, err := parser.Parse("t.jsonnet", src)
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(n, "std"))
	i := interp.NewInterp(noImports{}, nil)
	i.SetStdlib(interp.NewObjectLayer(&interp.Env{}, nil, nil, nil, nil))
	return i.EvalInEnv(&interp.Env{}, n)
}

func TestEvalArithmetic(t *testing.T) {
	v, err := eval(t, `1 + 2 * 3`)
	require.NoError(t, err)
	require.Equal(t, float64(7), v.(interp.Number).N)
}

func TestEvalStringConcat(t *testing.T) {
	v, err := eval(t, `"a" + "b"`)
	require.NoError(t, err)
	require.Equal(t, "ab", v.(interp.String).Go())
}

func TestEvalObjectPlusField(t *testing.T) {
	v, err := eval(t, `({ a: 1, b: [1] } + { b+: [2] }).b`)
	require.NoError(t, err)
	arr := v.(interp.Array)
	require.Len(t, arr.Elems, 2)
}

func TestEvalSelfReferentialField(t *testing.T) {
	v, err := eval(t, `{ a: 1, b: self.a + 1 }.b`)
	require.NoError(t, err)
	require.Equal(t, float64(2), v.(interp.Number).N)
}

func TestEvalSuperOverride(t *testing.T) {
	v, err := eval(t, `({ a: 1 } + { a: super.a + 1 }).a`)
	require.NoError(t, err)
	require.Equal(t, float64(2), v.(interp.Number).N)
}

func TestEvalHiddenFieldVisibility(t *testing.T) {
	// Equality compares visible fields only, so the hidden b is ignored.
	v, err := eval(t, `{ a: 1, b:: 2 } == { a: 1 }`)
	require.NoError(t, err)
	require.True(t, v.(interp.Bool).B)

	// A hidden field is still reachable by field access.
	v, err = eval(t, `{ a: 1, b:: 2 }.b`)
	require.NoError(t, err)
	require.Equal(t, float64(2), v.(interp.Number).N)
}

func TestEvalFunctionDefaults(t *testing.T) {
	v, err := eval(t, `(function(x, y=10) x + y)(5)`)
	require.NoError(t, err)
	require.Equal(t, float64(15), v.(interp.Number).N)
}

func TestEvalArrayComprehension(t *testing.T) {
	v, err := eval(t, `[x * 2 for x in [1, 2, 3] if x != 2]`)
	require.NoError(t, err)
	arr := v.(interp.Array)
	require.Len(t, arr.Elems, 2)
}

func TestEvalObjectComprehension(t *testing.T) {
	v, err := eval(t, `{ [k]: k for k in ["a", "b"] }["a"]`)
	require.NoError(t, err)
	require.Equal(t, "a", v.(interp.String).Go())
}

func TestEvalAssertFailureMessage(t *testing.T) {
	_, err := eval(t, `assert 1 == 2 : "nope"; 1`)
	require.ErrorContains(t, err, "nope")
}

func TestEvalObjectAssertOnAccess(t *testing.T) {
	_, err := eval(t, `{ assert self.a > 0 : "must be positive", a: -1 }.a`)
	require.Error(t, err)
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := eval(t, `1 / 0`)
	require.Error(t, err)
}

func TestEvalNullComputedKeyOmitsField(t *testing.T) {
	v, err := eval(t, `{ [null]: 1, a: 2 } == { a: 2 }`)
	require.NoError(t, err)
	require.True(t, v.(interp.Bool).B)
}

func TestEvalTailStrictAvoidsStackOverflow(t *testing.T) {
	// 2000 nested self-recursive calls would trip the default 500-frame
	// limit if each `tailstrict` call grew the stack like an ordinary one.
	v, err := eval(t, `
		local loop(n, acc) =
			if n == 0 then acc else loop(n - 1, acc + 1) tailstrict;
		loop(2000, 0)
	`)
	require.NoError(t, err)
	require.Equal(t, float64(2000), v.(interp.Number).N)
}

func TestEvalTailStrictForcesArgsEagerly(t *testing.T) {
	_, err := eval(t, `(function(x) 1)(1 / 0) tailstrict`)
	require.Error(t, err)
}

func TestEvalBitwiseOperators(t *testing.T) {
	v, err := eval(t, `6 & 3`)
	require.NoError(t, err)
	require.Equal(t, float64(2), v.(interp.Number).N)

	v, err = eval(t, `1 << 4`)
	require.NoError(t, err)
	require.Equal(t, float64(16), v.(interp.Number).N)
}

func TestEvalBitwiseRejectsNegativeShift(t *testing.T) {
	_, err := eval(t, `1 << -1`)
	require.Error(t, err)
}

func TestEvalBitwiseRejectsOutOfRangeOperand(t *testing.T) {
	_, err := eval(t, `1e300 | 1`)
	require.Error(t, err)
}

func TestEvalBitwiseNotRejectsOutOfRangeOperand(t *testing.T) {
	_, err := eval(t, `~1e300`)
	require.Error(t, err)
}
