// Package parser turns a flat token stream into a raw FullCircle AST;
// name resolution and typing are left to ast.Arena.Validate. Grounded on the teacher's recursive-descent parser
// shape (a cursor over tokens, one parse* method per grammar
// production), adapted from funxy's Pratt-style prefix/infix table
// dispatch to the precedence-climbing scheme spec.md §4.2 describes,
// since FullCircle's grammar is small enough that a single climbing
// loop covers every binary operator without per-token callback
// registration.
//
// spec.md's pipeline names the statement splitter and the parser as
// two separate stages; here they are merged into one recursive-descent
// pass, since splitting a block into statements requires exactly the
// same first-token classification the parser needs to build each
// statement's node — keeping them apart would mean classifying every
// token run twice.
package parser

import (
	"github.com/fullcircle-lang/fullcircle/internal/ast"
	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
	"github.com/fullcircle-lang/fullcircle/internal/pipeline"
	"github.com/fullcircle-lang/fullcircle/internal/token"
)

// Parser consumes a bounded-lookahead pipeline.TokenStream rather than
// indexing a slice directly: the deepest lookahead any production needs
// is two tokens (parseProgram's function-vs-variable-declaration
// disambiguation), which is exactly the contract TokenStream exposes.
type Parser struct {
	ts    pipeline.TokenStream
	arena *ast.Arena
}

// Parse lexes nothing itself — tokens must already be a complete stream
// ending in an EOF token (see lexer.All) — and returns the arena plus
// the GlobalBlock root handle.
func Parse(tokens []token.Token) (*ast.Arena, ast.Handle, error) {
	p := &Parser{ts: pipeline.FromSlice(tokens), arena: ast.NewArena()}
	root, err := p.parseProgram()
	if err != nil {
		return nil, ast.NilHandle, err
	}
	return p.arena, root, nil
}

func (p *Parser) cur() token.Token {
	toks := p.ts.Peek(1)
	if len(toks) == 0 {
		return token.Token{Type: token.EOF}
	}
	return toks[0]
}

// peek returns the token n positions ahead of cur (peek(1) is the token
// immediately after the current one).
func (p *Parser) peek(n int) token.Token {
	toks := p.ts.Peek(n + 1)
	if len(toks) <= n {
		return token.Token{Type: token.EOF}
	}
	return toks[n]
}

func (p *Parser) at(t token.Type) bool {
	return p.cur().Type == t
}

func (p *Parser) advance() token.Token {
	return p.ts.Next()
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if !p.at(t) {
		return token.Token{}, diagnostics.Parser(diagnostics.ErrP008, p.cur(), string(t))
	}
	return p.advance(), nil
}

func scalarTypeFor(t token.Type) (ast.ScalarType, error) {
	switch t {
	case token.INT_KW:
		return ast.TypeInt, nil
	case token.CHAR_KW:
		return ast.TypeChar, nil
	case token.FLOAT_KW:
		return ast.TypeFloat, nil
	case token.VOID_KW:
		return ast.TypeVoid, nil
	default:
		return ast.TypeVoid, diagnostics.Parser(diagnostics.ErrP006, token.Token{Type: t}, string(t))
	}
}

// parseProgram parses the GlobalBlock: a sequence of function and
// global variable declarations, per spec.md §3 ("GlobalBlock ... its
// symbol table holds functions and global variables").
func (p *Parser) parseProgram() (ast.Handle, error) {
	rootH := p.arena.New(ast.Node{Kind: ast.KGlobalBlock, Parent: ast.NilHandle})
	var stmts []ast.Handle

	for !p.at(token.EOF) {
		typeTok := p.cur()
		if !token.IsDeclarationKeyword(typeTok.Type) {
			return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP009, typeTok)
		}
		if p.peek(1).Type == token.IDENT && p.peek(2).Type == token.LPAREN {
			fnH, err := p.parseFuncDecl()
			if err != nil {
				return ast.NilHandle, err
			}
			stmts = append(stmts, fnH)
			continue
		}
		if typeTok.Type == token.VOID_KW {
			return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP006, typeTok, "void")
		}
		decls, err := p.parseVarDeclList()
		if err != nil {
			return ast.NilHandle, err
		}
		stmts = append(stmts, decls...)
	}

	p.arena.Get(rootH).Statements = stmts
	return rootH, nil
}

// parseFuncDecl parses a scalar-or-void return type, name, parameter
// list and body block. The FuncDecl node's own fields are only written
// once every child (params, body) has been fully parsed, since parsing
// the body allocates many more arena nodes and an *ast.Node pointer
// held across an Arena.New call would be invalidated by a slice grow.
func (p *Parser) parseFuncDecl() (ast.Handle, error) {
	retTok := p.advance()
	retType, _ := scalarTypeFor(retTok.Type)

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return ast.NilHandle, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.NilHandle, err
	}

	fnH := p.arena.New(ast.Node{Kind: ast.KFuncDecl, Name: nameTok.Lexeme, ReturnType: retType, Tok: retTok})

	var paramNames []string
	var paramTypes []ast.ScalarType
	var paramDecls []ast.Handle

	switch {
	case p.at(token.VOID_KW) && p.peek(1).Type == token.RPAREN:
		p.advance()
	case !p.at(token.RPAREN):
		for {
			ptypeTok := p.cur()
			ptype, err := scalarTypeFor(ptypeTok.Type)
			if err != nil || ptype == ast.TypeVoid {
				return ast.NilHandle, diagnostics.Parser(diagnostics.ErrP006, ptypeTok, ptypeTok.Lexeme)
			}
			p.advance()
			pnameTok, err := p.expect(token.IDENT)
			if err != nil {
				return ast.NilHandle, err
			}
			ph := p.arena.New(ast.Node{Kind: ast.KVarDecl, Name: pnameTok.Lexeme, Type: ptype, Operand: ast.NilHandle, Tok: pnameTok})
			paramNames = append(paramNames, pnameTok.Lexeme)
			paramTypes = append(paramTypes, ptype)
			paramDecls = append(paramDecls, ph)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.NilHandle, err
	}
	bodyH, err := p.parseBlock()
	if err != nil {
		return ast.NilHandle, err
	}

	fn := p.arena.Get(fnH)
	fn.ParamNames = paramNames
	fn.ParamTypes = paramTypes
	fn.ParamDecls = paramDecls
	fn.Body = bodyH
	return fnH, nil
}

// parseVarDeclList parses `type name [= expr] (, name [= expr])* ;`,
// spec.md §4.2's "comma-separated list of name or name = expr
// bindings", returning one VarDecl handle per binding.
func (p *Parser) parseVarDeclList() ([]ast.Handle, error) {
	typeTok := p.advance()
	scalarType, err := scalarTypeFor(typeTok.Type)
	if err != nil || scalarType == ast.TypeVoid {
		return nil, diagnostics.Parser(diagnostics.ErrP006, typeTok, typeTok.Lexeme)
	}

	var handles []ast.Handle
	for {
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		var initH ast.Handle = ast.NilHandle
		if p.at(token.ASSIGN) {
			p.advance()
			initH, err = p.parseExpr(precCommaAndAbove)
			if err != nil {
				return nil, err
			}
		}
		handles = append(handles, p.arena.New(ast.Node{Kind: ast.KVarDecl, Name: nameTok.Lexeme, Type: scalarType, Operand: initH, Tok: nameTok}))
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return handles, nil
}
