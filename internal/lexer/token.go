package lexer

import "github.com/eduardosm/rsjsonnet/internal/ast"

// Kind identifies the category of a Token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota

	Ident
	Number
	String

	// Reserved words.
	KwAssert
	KwElse
	KwError
	KwFalse
	KwFor
	KwFunction
	KwIf
	KwImport
	KwImportStr
	KwImportBin
	KwIn
	KwLocal
	KwNull
	KwSelf
	KwSuper
	KwTailstrict
	KwThen
	KwTrue

	// Punctuation.
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Comma
	Dot
	Semicolon
	Colon
	ColonColon
	ColonColonColon
	Dollar

	// Operators (multi-char symbol runs are lexed as one Op token and
	// classified by the parser).
	Op
)

// Token is one lexical token with its source span.
type Token struct {
	Kind Kind
	Text string // the token's source text, or decoded value for String
	Loc  ast.LocationRange

	// StringKind/BlockIndent/BlockTermIndent are populated for Kind ==
	// String.
	StringKind      ast.StringKind
	BlockIndent     string
	BlockTermIndent string
}

var keywords = map[string]Kind{
	"assert":     KwAssert,
	"else":       KwElse,
	"error":      KwError,
	"false":      KwFalse,
	"for":        KwFor,
	"function":   KwFunction,
	"if":         KwIf,
	"import":     KwImport,
	"importstr":  KwImportStr,
	"importbin":  KwImportBin,
	"in":         KwIn,
	"local":      KwLocal,
	"null":       KwNull,
	"self":       KwSelf,
	"super":      KwSuper,
	"tailstrict": KwTailstrict,
	"then":       KwThen,
	"true":       KwTrue,
}
