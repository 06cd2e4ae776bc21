package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/interp"
	"github.com/eduardosm/rsjsonnet/internal/parser"
	"github.com/eduardosm/rsjsonnet/internal/resolver"
	"github.com/eduardosm/rsjsonnet/internal/stdlib"
)

type noImports struct{}

func (noImports) ImportJsonnet(*interp.Interp, string, string) (interp.Value, error) {
	return nil, nil
}
func (noImports) ImportString(string, string) (string, error) { return "", nil }
func (noImports) ImportBinary(string, string) ([]byte, error) { return nil, nil }

func newInterp(t *testing.T) *interp.Interp {
	t.Helper()
	i := interp.NewInterp(noImports{}, nil)
	std, err := stdlib.New(i)
	require.NoError(t, err)
	i.SetStdlib(std)
	return i
}

func eval(t *testing.T, src string) (interp.Value, error) {
	t.Helper()
	i := newInterp(t)
	n, err := parser.Parse("t.jsonnet", src)
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(n, "std"))
	return i.EvalInEnv(&interp.Env{}, n)
}

// evalToString evaluates src and stringifies the result with std.toString,
// the form most of these tests check against, matching how Jsonnet test
// suites commonly compare results.
func evalToString(t *testing.T, src string) (string, error) {
	t.Helper()
	v, err := eval(t, "std.toString("+src+")")
	if err != nil {
		return "", err
	}
	return v.(interp.String).Go(), nil
}

func TestTypeBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"type number", `std.type(1)`, "number"},
		{"type string", `std.type("a")`, "string"},
		{"type array", `std.type([1])`, "array"},
		{"type object", `std.type({})`, "object"},
		{"type function", `std.type(function() 1)`, "function"},
		{"type null", `std.type(null)`, "null"},
		{"length string", `std.length("abc")`, "3"},
		{"length utf8 string", `std.length("🧶🧺🧲🧢")`, "4"},
		{"length array", `std.length([1, 2])`, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"abs positive", `std.abs(3.5)`, "3.5"},
		{"abs of zero renders -0", `std.abs(0)`, "-0"},
		{"abs of negative zero renders 0", `std.abs(-0)`, "0"},
		{"floor", `std.floor(1.9)`, "1"},
		{"ceil", `std.ceil(1.1)`, "2"},
		{"division", `1.5 / 2`, "0.75"},
		{"modulo sign follows dividend", `(-5.5) % 2`, "-1.5"},
		{"atan2", `std.atan2(1, 1)`, "0.7853981633974483"},
		{"isEven", `std.isEven(4)`, "true"},
		{"isOdd", `std.isOdd(4)`, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArrayBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"map", `std.map(function(x) x * 2, [1, 2, 3])`, "[2, 4, 6]"},
		{"filter", `std.filter(function(x) x > 1, [1, 2, 3])`, "[2, 3]"},
		{"foldl", `std.foldl(function(acc, x) acc + x, [1, 2, 3], 0)`, "6"},
		{"sort", `std.sort([3, 1, 2])`, "[1, 2, 3]"},
		{"uniq", `std.uniq([1, 1, 2, 2, 3])`, "[1, 2, 3]"},
		{"reverse", `std.reverse([1, 2, 3])`, "[3, 2, 1]"},
		{"range", `std.range(1, 3)`, "[1, 2, 3]"},
		{"setUnion", `std.setUnion([1, 2], [2, 3])`, "[1, 2, 3]"},
		{"member true", `std.member([1, 2, 3], 2)`, "true"},
		{"all true", `std.all([true, true])`, "true"},
		{"any false", `std.any([false, false])`, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObjectBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"objectFields hides hidden", `std.objectFields({ a: 1, b:: 2 })`, `["a"]`},
		{"objectFieldsAll shows hidden", `std.objectFieldsAll({ a: 1, b:: 2 })`, `["a", "b"]`},
		{"objectHas", `std.objectHas({ a: 1 }, "a")`, "true"},
		{"get with default", `std.get({ a: 1 }, "z", "missing")`, `missing`},
		{
			"mergePatch removes null fields",
			`std.mergePatch({ a: 1, b: 2 }, { b: null, c: 3 })`,
			`{"a": 1, "c": 3}`,
		},
		{
			"prune drops nulls and empties",
			`std.prune({ a: null, b: {}, c: [], d: 1 })`,
			`{"d": 1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"split", `std.split("a,b,c", ",")`, `["a", "b", "c"]`},
		{"join strings", `std.join(", ", ["a", "b", "c"])`, `a, b, c`},
		{"asciiUpper", `std.asciiUpper("abc")`, `ABC`},
		{"strReplace", `std.strReplace("hello world", "world", "there")`, `hello there`},
		{"startsWith", `std.startsWith("hello", "he")`, "true"},
		{"lstripChars", `std.lstripChars("xxhello", "x")`, `hello`},
		{"format named", `std.format("%(name)s is %(age)d", { name: "a", age: 1 })`, `a is 1`},
		{"format u behaves like d", `std.format("%u", [5])`, `5`},
		{"format precision pads d", `std.format("%.4d", [3])`, `0003`},
		{"format width and precision together", `std.format("%05.4i", [-31])`, `-0031`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashingAndEncodingBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"base64 round trip", `std.base64Decode(std.base64("hello"))`, `hello`},
		{"md5", `std.md5("")`, `d41d8cd98f00b204e9800998ecf8427e`},
		{
			"sha3 is SHA3-256 (64 hex chars)",
			`std.sha3("")`,
			`a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJsonAndYaml(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"parseJson object", `std.parseJson('{"a": 1, "b": [1, 2]}')`, `{"a": 1, "b": [1, 2]}`},
		{"parseYaml empty is null", `std.parseYaml("")`, "null"},
		{
			"parseYaml resolves anchors and aliases",
			`std.parseYaml("a: &x [1, 2]\nb: *x\n")`,
			`{"a": [1, 2], "b": [1, 2]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJsonnetLayerCombinators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"assertEqual passes", `std.assertEqual(1, 1)`, "true"},
		{"clamp low", `std.clamp(-5, 0, 10)`, "0"},
		{"clamp high", `std.clamp(50, 0, 10)`, "10"},
		{"xor", `std.xor(true, false)`, "true"},
		{"lines", `std.lines(["a", "b"])`, "a\nb\n"},
		{"deepJoin", `std.deepJoin(["a", ["b", "c"]])`, `abc`},
		{"isEmpty true", `std.isEmpty("")`, "true"},
		{"isEmpty false", `std.isEmpty("x")`, "false"},
		{"slice array defaults", `std.slice([1, 2, 3, 4, 5], null, null, null)`, `[1, 2, 3, 4, 5]`},
		{"slice array range", `std.slice([1, 2, 3, 4, 5], 1, 4, 1)`, `[2, 3, 4]`},
		{"slice array step", `std.slice([0, 1, 2, 3, 4, 5, 6], 0, 6, 2)`, `[0, 2, 4]`},
		{"slice string", `std.slice("jsonnet", 1, 4, null)`, `son`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalToString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssertEqualFailureIsAnError(t *testing.T) {
	_, err := eval(t, `std.assertEqual(1, 2)`)
	assert.Error(t, err)
}
