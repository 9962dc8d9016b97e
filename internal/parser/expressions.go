package parser

import (
	"github.com/fullcircle-lang/fullcircle/internal/ast"
	"github.com/fullcircle-lang/fullcircle/internal/config"
	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
	"github.com/fullcircle-lang/fullcircle/internal/token"
)

// precCommaAndAbove is the minimum precedence used wherever a comma is
// a list separator rather than the comma operator (call arguments,
// declaration bindings): it admits everything tighter than `,` so a
// following separator is never swallowed into the parsed expression.
const precCommaAndAbove = config.PrecComma + 1

// parseExpr implements precedence climbing (Eli Bendersky's formulation
// of spec.md §4.2's "find the lowest-precedence operator ... split the
// token run there and recurse" rule): a binary operator at or above
// minPrec extends the left operand; the recursive call on its right
// operand raises the floor by one for left-associative operators (so a
// later operator of the same precedence ends the recursion and is
// instead picked up by the enclosing loop) and leaves it unchanged for
// right-associative ones (so the same-precedence operator recurses
// again, nesting to the right).
//
// Parenthesized sub-expressions are parsed by recursing into parseExpr
// at precedence 0 directly from parsePrimary, which has the same
// effect as spec.md's "parentheses add 1000 to effective precedence"
// bookkeeping without needing to track a nesting depth explicitly.
func (p *Parser) parseExpr(minPrec int) (ast.Handle, error) {
	left, err := p.parseUnary()
	if err != nil {
		return ast.NilHandle, err
	}

	for {
		opTok := p.cur()
		info, ok := config.Operators[opTok.Type]
		if !ok || !info.Binary || info.Precedence < minPrec {
			break
		}
		nextMin := info.Precedence + 1
		if info.Assoc == config.AssocRight {
			nextMin = info.Precedence
		}
		p.advance()
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return ast.NilHandle, err
		}
		left, err = p.combine(opTok, left, right)
		if err != nil {
			return ast.NilHandle, err
		}
	}
	return left, nil
}

// combine builds the node for one binary (or assignment) operator
// occurrence. Comma gets its own node kind (its generate has different
// stack semantics than a value-producing binary op); assignment and
// compound assignment require an lvalue on the left and produce a
// KAssign rather than a KBinary; everything else is a plain untyped
// KBinary placeholder, promoted to a concrete opcode later by
// ast.Validate.
func (p *Parser) combine(opTok token.Token, left, right ast.Handle) (ast.Handle, error) {
	if opTok.Type == token.COMMA {
		return p.arena.New(ast.Node{Kind: ast.KComma, Left: left, Right: right, Tok: opTok}), nil
	}

	if opTok.Type == token.ASSIGN {
		leftNode := p.arena.Get(left)
		if leftNode.Kind != ast.KVarRef {
			return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP005, opTok)
		}
		return p.arena.New(ast.Node{Kind: ast.KAssign, Name: leftNode.Name, Right: right, Tok: opTok}), nil
	}

	if underlying, ok := config.CompoundAssignOps[opTok.Type]; ok {
		leftNode := p.arena.Get(left)
		if leftNode.Kind != ast.KVarRef {
			return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP005, opTok)
		}
		name := leftNode.Name
		binH := p.arena.New(ast.Node{Kind: ast.KBinary, Op: underlying, Left: left, Right: right, Tok: opTok})
		return p.arena.New(ast.Node{Kind: ast.KAssign, Name: name, Right: binH, Tok: opTok}), nil
	}

	return p.arena.New(ast.Node{Kind: ast.KBinary, Op: opTok.Type, Left: left, Right: right, Tok: opTok}), nil
}

// parseUnary handles the true prefix operators (-, !, ~) and the
// backtick print operator, falling through to parsePrimary for
// everything else. -, ! and ~ recurse into parseUnary itself so they
// bind only to the tightest following primary/call (`-a*b` is
// `(-a)*b`); backtick recurses into parseExpr at its own (very low)
// precedence so it grabs everything up to the next comma, matching
// spec.md §8 scenario 1 (`` `1 + 2 `` prints 3, not 1).
func (p *Parser) parseUnary() (ast.Handle, error) {
	switch p.cur().Type {
	case token.MINUS, token.BANG, token.TILDE:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return ast.NilHandle, err
		}
		return p.arena.New(ast.Node{Kind: ast.KUnary, Op: tok.Type, Operand: operand, Tok: tok}), nil
	case token.BACKTICK:
		tok := p.advance()
		operand, err := p.parseExpr(config.PrecBacktick)
		if err != nil {
			return ast.NilHandle, err
		}
		return p.arena.New(ast.Node{Kind: ast.KUnary, Op: tok.Type, Operand: operand, Tok: tok}), nil
	default:
		return p.parsePrimary()
	}
}

// parsePrimary parses a leaf expression: a literal, a variable
// reference, a function call, or a parenthesized sub-expression.
func (p *Parser) parsePrimary() (ast.Handle, error) {
	tok := p.cur()
	switch tok.Type {
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return ast.NilHandle, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.NilHandle, err
		}
		return inner, nil

	case token.INT:
		p.advance()
		return p.arena.New(ast.Node{Kind: ast.KIntLit, IntVal: tok.Literal.(int32), Tok: tok}), nil

	case token.FLOAT:
		p.advance()
		return p.arena.New(ast.Node{Kind: ast.KFloatLit, FloatVal: tok.Literal.(float32), Tok: tok}), nil

	case token.CHAR:
		p.advance()
		return p.arena.New(ast.Node{Kind: ast.KCharLit, CharVal: tok.Literal.(byte), Tok: tok}), nil

	case token.IDENT:
		p.advance()
		if p.at(token.LPAREN) {
			return p.parseCall(tok)
		}
		return p.arena.New(ast.Node{Kind: ast.KVarRef, Name: tok.Lexeme, Tok: tok}), nil

	default:
		return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP006, tok, tok.Lexeme)
	}
}

// parseCall parses the argument list following `ident(`. Each argument
// is parsed above comma precedence so the separator itself is never
// mistaken for the comma operator.
func (p *Parser) parseCall(nameTok token.Token) (ast.Handle, error) {
	p.advance() // '('
	var args []ast.Handle
	if !p.at(token.RPAREN) {
		for {
			arg, err := p.parseExpr(precCommaAndAbove)
			if err != nil {
				return ast.NilHandle, err
			}
			args = append(args, arg)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP007, p.cur())
	}
	return p.arena.New(ast.Node{Kind: ast.KCall, Name: nameTok.Lexeme, Args: args, Tok: nameTok}), nil
}
