package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexBasics(t *testing.T) {
	toks, err := lexer.Lex("t.jsonnet", `local x = 1 + 2; x`)
	require.NoError(t, err)
	require.Equal(t, []lexer.Kind{
		lexer.KwLocal, lexer.Ident, lexer.Op, lexer.Number, lexer.Op,
		lexer.Number, lexer.Semicolon, lexer.Ident, lexer.EOF,
	}, kinds(toks))
}

func TestLexVisibilityColons(t *testing.T) {
	toks, err := lexer.Lex("t.jsonnet", `{a: 1, b:: 2, c::: 3}`)
	require.NoError(t, err)
	var colonKinds []lexer.Kind
	for _, tok := range toks {
		switch tok.Kind {
		case lexer.Colon, lexer.ColonColon, lexer.ColonColonColon:
			colonKinds = append(colonKinds, tok.Kind)
		}
	}
	require.Equal(t, []lexer.Kind{lexer.Colon, lexer.ColonColon, lexer.ColonColonColon}, colonKinds)
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := lexer.Lex("t.jsonnet", `"a\nbé"`)
	require.NoError(t, err)
	require.Equal(t, "a\nbé", toks[0].Text)
}

func TestLexVerbatimString(t *testing.T) {
	toks, err := lexer.Lex("t.jsonnet", `@"a\n''b"`)
	require.NoError(t, err)
	require.Equal(t, `a\n''b`, toks[0].Text)
}

func TestLexVerbatimStringEscapedQuote(t *testing.T) {
	toks, err := lexer.Lex("t.jsonnet", `@"two""quotes"`)
	require.NoError(t, err)
	require.Equal(t, `two"quotes`, toks[0].Text)
}

func TestLexTextBlock(t *testing.T) {
	src := "|||\n  hello\n    world\n|||"
	toks, err := lexer.Lex("t.jsonnet", src)
	require.NoError(t, err)
	require.Equal(t, lexer.String, toks[0].Kind)
	require.Equal(t, ast.StringBlock, toks[0].StringKind)
	require.Equal(t, "hello\n  world\n", toks[0].Text)
}

func TestLexTextBlockChomp(t *testing.T) {
	src := "|||-\n  hello\n|||"
	toks, err := lexer.Lex("t.jsonnet", src)
	require.NoError(t, err)
	require.Equal(t, "hello", toks[0].Text)
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := lexer.Lex("t.jsonnet", `"abc`)
	require.Error(t, err)
}

func TestLexComments(t *testing.T) {
	toks, err := lexer.Lex("t.jsonnet", "// c1\n# c2\n/* c3 */ 1")
	require.NoError(t, err)
	require.Equal(t, []lexer.Kind{lexer.Number, lexer.EOF}, kinds(toks))
}
