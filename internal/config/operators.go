// Package config is the single source of truth for FullCircle's operator
// precedence table, keyword lexicon and opcode metadata. Grounded on the
// teacher's own config package, which centralizes builtin/operator tables
// the rest of the pipeline reads from instead of duplicating literals.
package config

import "github.com/fullcircle-lang/fullcircle/internal/token"

// Associativity controls how the parser breaks ties between two operators
// of equal precedence (spec.md §4.2: "leftmost on ties for left-assoc,
// rightmost on ties for right-assoc").
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
)

// Precedence levels, lowest to highest, exactly as spec.md §4.2 enumerates
// them. Higher binds tighter.
const (
	PrecComma = iota
	PrecBacktick
	PrecAssign
	PrecLogicOr
	PrecLogicAnd
	PrecBitwiseOr
	PrecBitwiseXor
	PrecBitwiseAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecCall
)

// OperatorInfo describes one operator token's parsing behavior. It is the
// single table the parser's precedence-climbing loop reads from.
type OperatorInfo struct {
	Token      token.Type
	Precedence int
	Assoc      Associativity
	Binary     bool // false => unary prefix operator
}

// Operators is the single source of truth for operator precedence, used by
// the parser's expression splitter (internal/parser/expressions.go).
var Operators = map[token.Type]OperatorInfo{
	token.COMMA: {token.COMMA, PrecComma, AssocLeft, true},

	token.BACKTICK: {token.BACKTICK, PrecBacktick, AssocRight, false},

	token.ASSIGN:         {token.ASSIGN, PrecAssign, AssocRight, true},
	token.PLUS_ASSIGN:    {token.PLUS_ASSIGN, PrecAssign, AssocRight, true},
	token.MINUS_ASSIGN:   {token.MINUS_ASSIGN, PrecAssign, AssocRight, true},
	token.STAR_ASSIGN:    {token.STAR_ASSIGN, PrecAssign, AssocRight, true},
	token.SLASH_ASSIGN:   {token.SLASH_ASSIGN, PrecAssign, AssocRight, true},
	token.PERCENT_ASSIGN: {token.PERCENT_ASSIGN, PrecAssign, AssocRight, true},
	token.AMP_ASSIGN:     {token.AMP_ASSIGN, PrecAssign, AssocRight, true},
	token.PIPE_ASSIGN:    {token.PIPE_ASSIGN, PrecAssign, AssocRight, true},
	token.CARET_ASSIGN:   {token.CARET_ASSIGN, PrecAssign, AssocRight, true},
	token.SHL_ASSIGN:     {token.SHL_ASSIGN, PrecAssign, AssocRight, true},
	token.SHR_ASSIGN:     {token.SHR_ASSIGN, PrecAssign, AssocRight, true},

	token.OR: {token.OR, PrecLogicOr, AssocLeft, true},

	token.AND: {token.AND, PrecLogicAnd, AssocLeft, true},

	token.PIPE: {token.PIPE, PrecBitwiseOr, AssocLeft, true},

	token.CARET: {token.CARET, PrecBitwiseXor, AssocLeft, true},

	token.AMP: {token.AMP, PrecBitwiseAnd, AssocLeft, true},

	token.EQ:  {token.EQ, PrecEquality, AssocLeft, true},
	token.NEQ: {token.NEQ, PrecEquality, AssocLeft, true},

	token.LT:  {token.LT, PrecRelational, AssocLeft, true},
	token.LTE: {token.LTE, PrecRelational, AssocLeft, true},
	token.GT:  {token.GT, PrecRelational, AssocLeft, true},
	token.GTE: {token.GTE, PrecRelational, AssocLeft, true},

	token.SHL: {token.SHL, PrecShift, AssocLeft, true},
	token.SHR: {token.SHR, PrecShift, AssocLeft, true},

	token.PLUS:  {token.PLUS, PrecAdditive, AssocLeft, true},
	token.MINUS: {token.MINUS, PrecAdditive, AssocLeft, true},

	token.STAR:    {token.STAR, PrecMultiplicative, AssocLeft, true},
	token.SLASH:   {token.SLASH, PrecMultiplicative, AssocLeft, true},
	token.PERCENT: {token.PERCENT, PrecMultiplicative, AssocLeft, true},

	// Unary-only operators, listed with unary precedence and Binary false.
	// parseUnary in parser/expressions.go handles '-', '!' and '~' in
	// prefix position itself without reading these entries; '-' has no
	// unary entry here.
	token.BANG:  {token.BANG, PrecUnary, AssocRight, false},
	token.TILDE: {token.TILDE, PrecUnary, AssocRight, false},
}

// CompoundAssignOps maps each compound-assignment token to the binary
// operator it desugars to, per spec.md §4.2 ("x op= y is desugared to
// x = x op y during parsing").
var CompoundAssignOps = map[token.Type]token.Type{
	token.PLUS_ASSIGN:    token.PLUS,
	token.MINUS_ASSIGN:   token.MINUS,
	token.STAR_ASSIGN:    token.STAR,
	token.SLASH_ASSIGN:   token.SLASH,
	token.PERCENT_ASSIGN: token.PERCENT,
	token.AMP_ASSIGN:     token.AMP,
	token.PIPE_ASSIGN:    token.PIPE,
	token.CARET_ASSIGN:   token.CARET,
	token.SHL_ASSIGN:     token.SHL,
	token.SHR_ASSIGN:     token.SHR,
}
