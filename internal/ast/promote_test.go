package ast

import (
	"testing"

	"github.com/fullcircle-lang/fullcircle/internal/token"
	"github.com/fullcircle-lang/fullcircle/internal/vm"
)

func TestPromoteBinaryArithmeticKeepsOperandType(t *testing.T) {
	cases := []struct {
		op   token.Type
		typ  ScalarType
		want vm.Opcode
	}{
		{token.PLUS, TypeInt, vm.OpAddI},
		{token.PLUS, TypeChar, vm.OpAddC},
		{token.PLUS, TypeFloat, vm.OpAddF},
		{token.MINUS, TypeInt, vm.OpSubI},
		{token.STAR, TypeFloat, vm.OpMulF},
		{token.SLASH, TypeChar, vm.OpDivC},
	}
	for _, c := range cases {
		got, err := promoteBinary(c.op, c.typ, token.Token{})
		if err != nil {
			t.Fatalf("%v/%v: unexpected error: %v", c.op, c.typ, err)
		}
		if got != c.typ {
			t.Errorf("%v/%v: result type %v, want same as operand %v", c.op, c.typ, got, c.typ)
		}
		if binaryOpcode(c.op, c.typ) != c.want {
			t.Errorf("%v/%v: opcode %v, want %v", c.op, c.typ, binaryOpcode(c.op, c.typ), c.want)
		}
	}
}

func TestPromoteBinaryComparisonAlwaysYieldsChar(t *testing.T) {
	cases := []struct {
		op  token.Type
		typ ScalarType
	}{
		{token.EQ, TypeInt}, {token.EQ, TypeChar}, {token.EQ, TypeFloat},
		{token.LT, TypeInt}, {token.GTE, TypeFloat}, {token.AND, TypeInt}, {token.OR, TypeChar},
	}
	for _, c := range cases {
		got, err := promoteBinary(c.op, c.typ, token.Token{})
		if err != nil {
			t.Fatalf("%v/%v: unexpected error: %v", c.op, c.typ, err)
		}
		if got != TypeChar {
			t.Errorf("%v/%v: result type %v, want char", c.op, c.typ, got)
		}
	}
}

func TestPromoteBinaryRejectsUnsupportedOperator(t *testing.T) {
	if _, err := promoteBinary(token.ARROW, TypeInt, token.Token{}); err == nil {
		t.Fatal("expected an error for an operator with no arithmeticOps entry")
	}
}

func TestPromoteBinaryRejectsModOnFloat(t *testing.T) {
	if _, err := promoteBinary(token.PERCENT, TypeFloat, token.Token{}); err == nil {
		t.Fatal("expected an error: there is no modf opcode")
	}
}

func TestPromoteBinaryRejectsBitwiseOnFloat(t *testing.T) {
	for _, op := range []token.Type{token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR} {
		if _, err := promoteBinary(op, TypeFloat, token.Token{}); err == nil {
			t.Errorf("%v: expected an error for bitwise op on float", op)
		}
	}
}

func TestPromoteUnaryMinusPreservesType(t *testing.T) {
	cases := []struct {
		typ  ScalarType
		want vm.Opcode
	}{
		{TypeInt, vm.OpNegI},
		{TypeChar, vm.OpNegC},
		{TypeFloat, vm.OpNegF},
	}
	for _, c := range cases {
		got, err := promoteUnary(token.MINUS, c.typ, token.Token{})
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c.typ, err)
		}
		if got != c.typ {
			t.Errorf("%v: result type %v, want same", c.typ, got)
		}
		if unaryOpcode(token.MINUS, c.typ) != c.want {
			t.Errorf("%v: opcode %v, want %v", c.typ, unaryOpcode(token.MINUS, c.typ), c.want)
		}
	}
}

func TestPromoteUnaryBangAlwaysYieldsChar(t *testing.T) {
	for _, typ := range []ScalarType{TypeInt, TypeChar, TypeFloat} {
		got, err := promoteUnary(token.BANG, typ, token.Token{})
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", typ, err)
		}
		if got != TypeChar {
			t.Errorf("%v: result type %v, want char", typ, got)
		}
	}
}

func TestPromoteUnaryRejectsTildeOnFloat(t *testing.T) {
	if _, err := promoteUnary(token.TILDE, TypeFloat, token.Token{}); err == nil {
		t.Fatal("expected an error: there is no bnotf opcode")
	}
}

func TestPromoteUnaryBacktickCoversAllTypes(t *testing.T) {
	cases := []struct {
		typ  ScalarType
		want vm.Opcode
	}{
		{TypeInt, vm.OpPrintI},
		{TypeChar, vm.OpPrintC},
		{TypeFloat, vm.OpPrintF},
	}
	for _, c := range cases {
		got, err := promoteUnary(token.BACKTICK, c.typ, token.Token{})
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c.typ, err)
		}
		if got != c.typ {
			t.Errorf("%v: result type %v, want same", c.typ, got)
		}
		if unaryOpcode(token.BACKTICK, c.typ) != c.want {
			t.Errorf("%v: opcode %v, want %v", c.typ, unaryOpcode(token.BACKTICK, c.typ), c.want)
		}
	}
}

func TestPromoteUnaryRejectsUnknownOperator(t *testing.T) {
	if _, err := promoteUnary(token.PLUS, TypeInt, token.Token{}); err == nil {
		t.Fatal("expected an error: unary + does not exist in unaryOps")
	}
}
