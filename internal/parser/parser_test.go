package parser

import (
	"testing"

	"github.com/fullcircle-lang/fullcircle/internal/ast"
	"github.com/fullcircle-lang/fullcircle/internal/lexer"
	"github.com/fullcircle-lang/fullcircle/internal/token"
)

func parse(t *testing.T, src string) (*ast.Arena, ast.Handle) {
	t.Helper()
	toks, err := lexer.All(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	arena, root, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return arena, root
}

func TestParseEmptyMain(t *testing.T) {
	arena, root := parse(t, "void main() { }")
	global := arena.Get(root)
	if len(global.Statements) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(global.Statements))
	}
	fn := arena.Get(global.Statements[0])
	if fn.Kind != ast.KFuncDecl || fn.Name != "main" {
		t.Fatalf("got %+v, want a main FuncDecl", fn)
	}
}

func TestGlobalVarDeclList(t *testing.T) {
	arena, root := parse(t, "int a = 1, b, c = 3; void main() { }")
	global := arena.Get(root)
	if len(global.Statements) != 4 {
		t.Fatalf("got %d top-level statements, want 4 (3 vars + main)", len(global.Statements))
	}
	for i, name := range []string{"a", "b", "c"} {
		decl := arena.Get(global.Statements[i])
		if decl.Kind != ast.KVarDecl || decl.Name != name {
			t.Errorf("statement %d: got %+v, want VarDecl %q", i, decl, name)
		}
	}
}

func TestBacktickBindsLoosely(t *testing.T) {
	// `1 + 2` should parse as `` `(1 + 2) ``, not (`1) + 2, per spec.md §8
	// scenario 1.
	arena, root := parse(t, "void main() { `1 + 2; }")
	fn := arena.Get(arena.Get(root).Statements[0])
	body := arena.Get(fn.Body)
	discard := arena.Get(body.Statements[0])
	if discard.Kind != ast.KDiscard {
		t.Fatalf("got %+v, want Discard", discard)
	}
	backtick := arena.Get(discard.Operand)
	if backtick.Kind != ast.KUnary || backtick.Op != token.BACKTICK {
		t.Fatalf("got %+v, want backtick Unary", backtick)
	}
	inner := arena.Get(backtick.Operand)
	if inner.Kind != ast.KBinary || inner.Op != token.PLUS {
		t.Fatalf("backtick operand is %+v, want a + Binary", inner)
	}
}

func TestUnaryMinusBindsTighterThanMul(t *testing.T) {
	// -a*b should parse as (-a)*b.
	arena, root := parse(t, "void main() { int a; int b; a = -a*b; }")
	fn := arena.Get(arena.Get(root).Statements[0])
	body := arena.Get(fn.Body)
	discard := arena.Get(body.Statements[2])
	assign := arena.Get(discard.Operand)
	if assign.Kind != ast.KAssign {
		t.Fatalf("got %+v, want Assign", assign)
	}
	mul := arena.Get(assign.Right)
	if mul.Kind != ast.KBinary || mul.Op != token.STAR {
		t.Fatalf("got %+v, want * Binary", mul)
	}
	left := arena.Get(mul.Left)
	if left.Kind != ast.KUnary || left.Op != token.MINUS {
		t.Fatalf("left operand is %+v, want unary -", left)
	}
}

func TestCompoundAssignDesugars(t *testing.T) {
	arena, root := parse(t, "void main() { int a; a += 1; }")
	fn := arena.Get(arena.Get(root).Statements[0])
	body := arena.Get(fn.Body)
	discard := arena.Get(body.Statements[1])
	assign := arena.Get(discard.Operand)
	if assign.Kind != ast.KAssign {
		t.Fatalf("got %+v, want Assign", assign)
	}
	rhs := arena.Get(assign.Right)
	if rhs.Kind != ast.KBinary || rhs.Op != token.PLUS {
		t.Fatalf("compound assign rhs is %+v, want + Binary", rhs)
	}
}

func TestForDesugarsToWhile(t *testing.T) {
	arena, root := parse(t, "void main() { for (int i = 0; i; i = i - 1) { } }")
	fn := arena.Get(arena.Get(root).Statements[0])
	outer := arena.Get(fn.Body)
	inner := arena.Get(outer.Statements[0])
	if len(inner.Statements) != 2 {
		t.Fatalf("got %d statements in desugared block, want 2 (init, while)", len(inner.Statements))
	}
	init := arena.Get(inner.Statements[0])
	if init.Kind != ast.KVarDecl {
		t.Fatalf("first statement is %+v, want VarDecl", init)
	}
	whileNode := arena.Get(inner.Statements[1])
	if whileNode.Kind != ast.KWhile {
		t.Fatalf("second statement is %+v, want While", whileNode)
	}
	whileBody := arena.Get(whileNode.Body)
	last := arena.Get(whileBody.Statements[len(whileBody.Statements)-1])
	if last.Kind != ast.KDiscard {
		t.Fatalf("last statement in while body is %+v, want Discard(step)", last)
	}
}

func TestCallArguments(t *testing.T) {
	arena, root := parse(t, "int add(int a, int b) { return a + b; } void main() { add(1, 2); }")
	mainFn := arena.Get(arena.Get(root).Statements[1])
	body := arena.Get(mainFn.Body)
	discard := arena.Get(body.Statements[0])
	call := arena.Get(discard.Operand)
	if call.Kind != ast.KCall || call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("got %+v, want a 2-arg call to add", call)
	}
}

func TestAssignToNonLvalueIsError(t *testing.T) {
	toks, err := lexer.All("void main() { 1 = 2; }")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, _, err := Parse(toks); err == nil {
		t.Fatal("expected a parse error assigning to a non-lvalue")
	}
}

func TestMissingSemicolonIsError(t *testing.T) {
	toks, err := lexer.All("void main() { int a }")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, _, err := Parse(toks); err == nil {
		t.Fatal("expected a parse error for the missing ';'")
	}
}
