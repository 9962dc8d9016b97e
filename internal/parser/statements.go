package parser

import (
	"github.com/fullcircle-lang/fullcircle/internal/ast"
	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
	"github.com/fullcircle-lang/fullcircle/internal/token"
)

// parseBlock parses a brace-delimited statement sequence into a KBlock
// node.
func (p *Parser) parseBlock() (ast.Handle, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return ast.NilHandle, err
	}
	var stmts []ast.Handle
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP001, p.cur())
		}
		next, err := p.parseStatement()
		if err != nil {
			return ast.NilHandle, err
		}
		stmts = append(stmts, next...)
	}
	p.advance() // consume '}'
	return p.arena.New(ast.Node{Kind: ast.KBlock, Statements: stmts, Tok: tok}), nil
}

// parseBody parses either a brace block or a single statement, always
// producing a KBlock handle: Validate treats an If/While branch as its
// own scope nested in the enclosing one (the KBlock case sets the
// branch's Parent to the enclosing scope), which requires
// the node itself to carry a Scope/Parent the way a Block does — so a
// bare, unbraced body statement is wrapped in a synthetic one-statement
// block rather than left as whatever kind it parsed to.
func (p *Parser) parseBody() (ast.Handle, error) {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	tok := p.cur()
	stmts, err := p.parseStatement()
	if err != nil {
		return ast.NilHandle, err
	}
	return p.arena.New(ast.Node{Kind: ast.KBlock, Statements: stmts, Tok: tok}), nil
}

// parseStatement classifies one statement by its leading token, per
// spec.md §4.2's block-parsing rules, returning every node it produces
// (a declaration line with several comma-separated bindings contributes
// more than one).
func (p *Parser) parseStatement() ([]ast.Handle, error) {
	switch p.cur().Type {
	case token.IF_KW:
		h, err := p.parseIf()
		return single(h, err)
	case token.WHILE_KW:
		h, err := p.parseWhile()
		return single(h, err)
	case token.FOR_KW:
		h, err := p.parseFor()
		return single(h, err)
	case token.RETURN_KW:
		h, err := p.parseReturn()
		return single(h, err)
	case token.LBRACE:
		h, err := p.parseBlock()
		return single(h, err)
	case token.ELSE_KW, token.DO_KW:
		return nil, diagnostics.Parser(diagnostics.ErrP009, p.cur())
	case token.INT_KW, token.CHAR_KW, token.FLOAT_KW:
		return p.parseVarDeclList()
	default:
		h, err := p.parseDiscard()
		return single(h, err)
	}
}

func single(h ast.Handle, err error) ([]ast.Handle, error) {
	if err != nil {
		return nil, err
	}
	return []ast.Handle{h}, nil
}

func (p *Parser) parseIf() (ast.Handle, error) {
	tok := p.advance() // 'if'
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.NilHandle, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return ast.NilHandle, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.NilHandle, err
	}
	thenH, err := p.parseBody()
	if err != nil {
		return ast.NilHandle, err
	}
	elseH := ast.NilHandle
	if p.at(token.ELSE_KW) {
		p.advance()
		elseH, err = p.parseBody()
		if err != nil {
			return ast.NilHandle, err
		}
	}
	return p.arena.New(ast.Node{Kind: ast.KIf, Operand: cond, Then: thenH, Else: elseH, Tok: tok}), nil
}

func (p *Parser) parseWhile() (ast.Handle, error) {
	tok := p.advance() // 'while'
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.NilHandle, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return ast.NilHandle, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.NilHandle, err
	}
	bodyH, err := p.parseBody()
	if err != nil {
		return ast.NilHandle, err
	}
	return p.arena.New(ast.Node{Kind: ast.KWhile, Operand: cond, Body: bodyH, Tok: tok}), nil
}

// parseFor desugars `for (init; cond; step) body` to
// `{ init; while (cond) { body; step; } }`, per spec.md §4.2.
func (p *Parser) parseFor() (ast.Handle, error) {
	tok := p.advance() // 'for'
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.NilHandle, err
	}

	initStmts, err := p.parseForInit()
	if err != nil {
		return ast.NilHandle, err
	}

	cond, err := p.parseExpr(0)
	if err != nil {
		return ast.NilHandle, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return ast.NilHandle, err
	}

	step := ast.NilHandle
	if !p.at(token.RPAREN) {
		step, err = p.parseExpr(0)
		if err != nil {
			return ast.NilHandle, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.NilHandle, err
	}

	bodyH, err := p.parseBody()
	if err != nil {
		return ast.NilHandle, err
	}
	if step != ast.NilHandle {
		discardH := p.arena.New(ast.Node{Kind: ast.KDiscard, Operand: step, Tok: tok})
		body := p.arena.Get(bodyH)
		body.Statements = append(body.Statements, discardH)
	}

	whileH := p.arena.New(ast.Node{Kind: ast.KWhile, Operand: cond, Body: bodyH, Tok: tok})
	outerStmts := append(initStmts, whileH)
	return p.arena.New(ast.Node{Kind: ast.KBlock, Statements: outerStmts, Tok: tok}), nil
}

func (p *Parser) parseForInit() ([]ast.Handle, error) {
	if p.at(token.SEMICOLON) {
		p.advance()
		return nil, nil
	}
	switch p.cur().Type {
	case token.INT_KW, token.CHAR_KW, token.FLOAT_KW:
		return p.parseVarDeclList()
	default:
		h, err := p.parseDiscard()
		return single(h, err)
	}
}

func (p *Parser) parseReturn() (ast.Handle, error) {
	tok := p.advance() // 'return'
	if p.at(token.SEMICOLON) {
		p.advance()
		return p.arena.New(ast.Node{Kind: ast.KReturn, Operand: ast.NilHandle, Tok: tok}), nil
	}
	val, err := p.parseExpr(0)
	if err != nil {
		return ast.NilHandle, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return ast.NilHandle, err
	}
	return p.arena.New(ast.Node{Kind: ast.KReturn, Operand: val, Tok: tok}), nil
}

// parseDiscard parses an expression-statement: spec.md §4.2's fallback
// case, "parse as expression, wrap in a discard node that pops the
// leftover stack slot".
func (p *Parser) parseDiscard() (ast.Handle, error) {
	tok := p.cur()
	expr, err := p.parseExpr(0)
	if err != nil {
		return ast.NilHandle, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return ast.NilHandle, err
	}
	return p.arena.New(ast.Node{Kind: ast.KDiscard, Operand: expr, Tok: tok}), nil
}
