package ast

import (
	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
	"github.com/fullcircle-lang/fullcircle/internal/token"
	"github.com/fullcircle-lang/fullcircle/internal/vm"
)

// The promotion tables below are the parser/validator's single source of
// truth for turning an (operator, operand scalar type) pair into a
// concrete opcode, per spec.md §9's re-architecture of the source
// language's "IntAddition is-a BinaryIntOperator" composition into a
// flat (op_kind, type_tag) lookup.

type binaryEntry struct {
	opcode     vm.Opcode
	resultType ScalarType // TypeVoid sentinel means "same as operand type"
}

var arithmeticOps = map[token.Type]map[ScalarType]binaryEntry{
	token.PLUS: {
		TypeInt: {vm.OpAddI, TypeVoid}, TypeChar: {vm.OpAddC, TypeVoid}, TypeFloat: {vm.OpAddF, TypeVoid},
	},
	token.MINUS: {
		TypeInt: {vm.OpSubI, TypeVoid}, TypeChar: {vm.OpSubC, TypeVoid}, TypeFloat: {vm.OpSubF, TypeVoid},
	},
	token.STAR: {
		TypeInt: {vm.OpMulI, TypeVoid}, TypeChar: {vm.OpMulC, TypeVoid}, TypeFloat: {vm.OpMulF, TypeVoid},
	},
	token.SLASH: {
		TypeInt: {vm.OpDivI, TypeVoid}, TypeChar: {vm.OpDivC, TypeVoid}, TypeFloat: {vm.OpDivF, TypeVoid},
	},
	token.PERCENT: {
		TypeInt: {vm.OpModI, TypeVoid}, TypeChar: {vm.OpModC, TypeVoid},
		// No modf opcode: spec.md's VM opcode family has no float modulus.
	},
	token.AMP: {
		TypeInt: {vm.OpBAndI, TypeVoid}, TypeChar: {vm.OpBAndC, TypeVoid},
	},
	token.PIPE: {
		TypeInt: {vm.OpBOrI, TypeVoid}, TypeChar: {vm.OpBOrC, TypeVoid},
	},
	token.CARET: {
		TypeInt: {vm.OpXorI, TypeVoid}, TypeChar: {vm.OpXorC, TypeVoid},
	},
	token.SHL: {
		TypeInt: {vm.OpShlI, TypeVoid}, TypeChar: {vm.OpShlC, TypeVoid},
	},
	token.SHR: {
		TypeInt: {vm.OpShrI, TypeVoid}, TypeChar: {vm.OpShrC, TypeVoid},
	},
	token.AND: {
		TypeInt: {vm.OpLAndI, TypeChar}, TypeChar: {vm.OpLAndC, TypeChar}, TypeFloat: {vm.OpLAndF, TypeChar},
	},
	token.OR: {
		TypeInt: {vm.OpLOrI, TypeChar}, TypeChar: {vm.OpLOrC, TypeChar}, TypeFloat: {vm.OpLOrF, TypeChar},
	},
	token.EQ: {
		TypeInt: {vm.OpEqI, TypeChar}, TypeChar: {vm.OpEqC, TypeChar}, TypeFloat: {vm.OpEqF, TypeChar},
	},
	token.NEQ: {
		TypeInt: {vm.OpNeqI, TypeChar}, TypeChar: {vm.OpNeqC, TypeChar}, TypeFloat: {vm.OpNeqF, TypeChar},
	},
	token.LT: {
		TypeInt: {vm.OpLtI, TypeChar}, TypeChar: {vm.OpLtC, TypeChar}, TypeFloat: {vm.OpLtF, TypeChar},
	},
	token.LTE: {
		TypeInt: {vm.OpLteI, TypeChar}, TypeChar: {vm.OpLteC, TypeChar}, TypeFloat: {vm.OpLteF, TypeChar},
	},
	token.GT: {
		TypeInt: {vm.OpGtI, TypeChar}, TypeChar: {vm.OpGtC, TypeChar}, TypeFloat: {vm.OpGtF, TypeChar},
	},
	token.GTE: {
		TypeInt: {vm.OpGteI, TypeChar}, TypeChar: {vm.OpGteC, TypeChar}, TypeFloat: {vm.OpGteF, TypeChar},
	},
}

type unaryEntry struct {
	opcode     vm.Opcode
	resultType ScalarType
}

var unaryOps = map[token.Type]map[ScalarType]unaryEntry{
	token.MINUS: {
		TypeInt: {vm.OpNegI, TypeInt}, TypeChar: {vm.OpNegC, TypeChar}, TypeFloat: {vm.OpNegF, TypeFloat},
	},
	token.TILDE: {
		TypeInt: {vm.OpBNotI, TypeInt}, TypeChar: {vm.OpBNotC, TypeChar},
	},
	token.BANG: {
		TypeInt: {vm.OpLNotI, TypeChar}, TypeChar: {vm.OpLNotC, TypeChar}, TypeFloat: {vm.OpLNotF, TypeChar},
	},
	token.BACKTICK: {
		TypeInt: {vm.OpPrintI, TypeInt}, TypeChar: {vm.OpPrintC, TypeChar}, TypeFloat: {vm.OpPrintF, TypeFloat},
	},
}

func promoteBinary(op token.Type, operandType ScalarType, tok token.Token) (ScalarType, error) {
	family, ok := arithmeticOps[op]
	if !ok {
		return TypeVoid, diagnostics.Semantic(diagnostics.ErrS002, tok, "unsupported operator "+string(op))
	}
	entry, ok := family[operandType]
	if !ok {
		return TypeVoid, diagnostics.Semantic(diagnostics.ErrS002, tok, "operator "+string(op)+" does not support "+operandType.String())
	}
	if entry.resultType == TypeVoid {
		return operandType, nil
	}
	return entry.resultType, nil
}

func binaryOpcode(op token.Type, operandType ScalarType) vm.Opcode {
	return arithmeticOps[op][operandType].opcode
}

func promoteUnary(op token.Type, operandType ScalarType, tok token.Token) (ScalarType, error) {
	family, ok := unaryOps[op]
	if !ok {
		return TypeVoid, diagnostics.Semantic(diagnostics.ErrS002, tok, "unsupported unary operator "+string(op))
	}
	entry, ok := family[operandType]
	if !ok {
		return TypeVoid, diagnostics.Semantic(diagnostics.ErrS002, tok, "unary "+string(op)+" does not support "+operandType.String())
	}
	return entry.resultType, nil
}

func unaryOpcode(op token.Type, operandType ScalarType) vm.Opcode {
	return unaryOps[op][operandType].opcode
}
