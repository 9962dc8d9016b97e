package ast

import (
	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
)

// Validate runs the bottom-up validation pass described in spec.md §3's
// Lifecycle: resolve every identifier against its enclosing scope,
// promote every operator to its typed variant based on operand types,
// and enforce every structural invariant (duplicate symbols, main's
// signature, return placement and type).
//
// Parsing builds the raw structural tree with unresolved VarRef/Call
// names and un-promoted operator tokens; Validate is solely responsible
// for symbol resolution and promotion, which keeps the two lifecycle
// stages spec.md §3 names genuinely separate.
func (a *Arena) Validate(root Handle) error {
	if err := a.declareGlobals(root); err != nil {
		return err
	}
	global := a.Get(root)
	for _, stmt := range global.Statements {
		if err := a.validateNode(stmt, root, NilHandle); err != nil {
			return err
		}
	}
	mainH, ok := a.Lookup(root, "main")
	if !ok {
		return diagnostics.Semantic(diagnostics.ErrS004, global.Tok, "program has no 'main' function")
	}
	main := a.Get(mainH)
	if main.Kind != KFuncDecl || main.ReturnType != TypeVoid || len(main.ParamTypes) != 0 {
		return diagnostics.Semantic(diagnostics.ErrS004, main.Tok, "'main' must be declared 'void main()'")
	}
	return nil
}

// declareGlobals registers every top-level function signature and
// global variable name before any body is validated, so forward
// references between functions resolve correctly (spec.md §1: "forward
// references to later-defined functions are resolved at link time but
// calling between functions is supported").
func (a *Arena) declareGlobals(root Handle) error {
	global := a.Get(root)
	for _, stmt := range global.Statements {
		node := a.Get(stmt)
		switch node.Kind {
		case KFuncDecl, KVarDecl:
			if !a.Declare(root, node.Name, stmt) {
				return diagnostics.Semantic(diagnostics.ErrS003, node.Tok, node.Name)
			}
		}
	}
	return nil
}

func (a *Arena) validateNode(h, scope, fn Handle) error {
	if h == NilHandle {
		return nil
	}
	node := a.Get(h)
	switch node.Kind {
	case KIntLit:
		node.Type = TypeInt
	case KFloatLit:
		node.Type = TypeFloat
	case KCharLit:
		node.Type = TypeChar

	case KVarRef:
		declH, ok := a.Lookup(scope, node.Name)
		if !ok {
			return diagnostics.Semantic(diagnostics.ErrS001, node.Tok, node.Name)
		}
		decl := a.Get(declH)
		if decl.Kind != KVarDecl {
			return diagnostics.Semantic(diagnostics.ErrS009, node.Tok, "'"+node.Name+"' is not a variable")
		}
		node.Decl = declH
		node.Type = decl.Type

	case KUnary:
		if err := a.validateNode(node.Operand, scope, fn); err != nil {
			return err
		}
		operandType := a.Get(node.Operand).Type
		resultType, err := promoteUnary(node.Op, operandType, node.Tok)
		if err != nil {
			return err
		}
		node.Type = resultType

	case KBinary:
		if err := a.validateNode(node.Left, scope, fn); err != nil {
			return err
		}
		if err := a.validateNode(node.Right, scope, fn); err != nil {
			return err
		}
		left := a.Get(node.Left).Type
		right := a.Get(node.Right).Type
		if left != right {
			return diagnostics.Semantic(diagnostics.ErrS002, node.Tok, "operand types "+left.String()+" and "+right.String()+" differ")
		}
		resultType, err := promoteBinary(node.Op, left, node.Tok)
		if err != nil {
			return err
		}
		node.Type = resultType

	case KComma:
		if err := a.validateNode(node.Left, scope, fn); err != nil {
			return err
		}
		if err := a.validateNode(node.Right, scope, fn); err != nil {
			return err
		}
		node.Type = a.Get(node.Right).Type

	case KAssign:
		declH, ok := a.Lookup(scope, node.Name)
		if !ok {
			return diagnostics.Semantic(diagnostics.ErrS001, node.Tok, node.Name)
		}
		decl := a.Get(declH)
		if decl.Kind != KVarDecl {
			return diagnostics.Semantic(diagnostics.ErrS009, node.Tok, "'"+node.Name+"' is not a variable")
		}
		node.Decl = declH
		if err := a.validateNode(node.Right, scope, fn); err != nil {
			return err
		}
		if a.Get(node.Right).Type != decl.Type {
			return diagnostics.Semantic(diagnostics.ErrS002, node.Tok, "cannot assign "+a.Get(node.Right).Type.String()+" to "+decl.Type.String()+" '"+node.Name+"'")
		}
		node.Type = decl.Type

	case KCall:
		declH, ok := a.Lookup(scope, node.Name)
		if !ok {
			return diagnostics.Semantic(diagnostics.ErrS001, node.Tok, node.Name)
		}
		decl := a.Get(declH)
		if decl.Kind != KFuncDecl {
			return diagnostics.Semantic(diagnostics.ErrS009, node.Tok, "'"+node.Name+"' is not a function")
		}
		node.Decl = declH
		if len(node.Args) != len(decl.ParamTypes) {
			return diagnostics.Semantic(diagnostics.ErrS007, node.Tok, "call to '"+node.Name+"' passes the wrong number of arguments")
		}
		for i, arg := range node.Args {
			if err := a.validateNode(arg, scope, fn); err != nil {
				return err
			}
			if a.Get(arg).Type != decl.ParamTypes[i] {
				return diagnostics.Semantic(diagnostics.ErrS007, node.Tok, "argument to '"+node.Name+"' has the wrong type")
			}
		}
		node.Type = decl.ReturnType

	case KIf:
		if err := a.validateNode(node.Operand, scope, fn); err != nil {
			return err
		}
		if a.Get(node.Operand).Type != TypeChar {
			return diagnostics.Semantic(diagnostics.ErrS002, node.Tok, "condition must be a comparison or logical expression")
		}
		if err := a.validateNode(node.Then, scope, fn); err != nil {
			return err
		}
		if node.Else != NilHandle {
			if err := a.validateNode(node.Else, scope, fn); err != nil {
				return err
			}
		}

	case KWhile:
		if err := a.validateNode(node.Operand, scope, fn); err != nil {
			return err
		}
		if a.Get(node.Operand).Type != TypeChar {
			return diagnostics.Semantic(diagnostics.ErrS002, node.Tok, "condition must be a comparison or logical expression")
		}
		if err := a.validateNode(node.Body, scope, fn); err != nil {
			return err
		}

	case KBlock:
		node.Parent = scope
		for _, stmt := range node.Statements {
			if err := a.validateNode(stmt, h, fn); err != nil {
				return err
			}
		}

	case KVarDecl:
		if node.Operand != NilHandle {
			if err := a.validateNode(node.Operand, scope, fn); err != nil {
				return err
			}
			if a.Get(node.Operand).Type != node.Type {
				return diagnostics.Semantic(diagnostics.ErrS002, node.Tok, "initializer type does not match declared type of '"+node.Name+"'")
			}
		}
		if scope != NilHandle && a.Get(scope).Kind != KGlobalBlock {
			if !a.Declare(scope, node.Name, h) {
				return diagnostics.Semantic(diagnostics.ErrS003, node.Tok, node.Name)
			}
		}

	case KFuncDecl:
		node.Parent = scope
		for i, pname := range node.ParamNames {
			if !a.Declare(h, pname, node.ParamDecls[i]) {
				return diagnostics.Semantic(diagnostics.ErrS003, node.Tok, pname)
			}
		}
		a.Get(node.Body).Parent = h
		if err := a.validateNode(node.Body, h, h); err != nil {
			return err
		}

	case KReturn:
		if fn == NilHandle {
			return diagnostics.Semantic(diagnostics.ErrS005, node.Tok)
		}
		retType := a.Get(fn).ReturnType
		if node.Operand == NilHandle {
			if retType != TypeVoid {
				return diagnostics.Semantic(diagnostics.ErrS006, node.Tok, "missing return value")
			}
		} else {
			if retType == TypeVoid {
				return diagnostics.Semantic(diagnostics.ErrS006, node.Tok, "void function must not return a value")
			}
			if err := a.validateNode(node.Operand, scope, fn); err != nil {
				return err
			}
			if a.Get(node.Operand).Type != retType {
				return diagnostics.Semantic(diagnostics.ErrS006, node.Tok, "return type mismatch")
			}
		}

	case KDiscard:
		if err := a.validateNode(node.Operand, scope, fn); err != nil {
			return err
		}

	default:
		return diagnostics.Semantic(diagnostics.ErrS009, node.Tok, "unrecognized node")
	}
	return nil
}
