// Package fullcircle is the toolchain's embedder-facing API: lex, parse,
// compile and run a FullCircle program, per spec.md §6's four-stage
// contract. cmd/fullcircle is the only first-party caller, but the
// package is usable standalone the way the teacher's internal/pipeline
// types are meant to be driven by something other than cmd/funxy.
package fullcircle

import (
	"io"

	"github.com/fullcircle-lang/fullcircle/internal/ast"
	"github.com/fullcircle-lang/fullcircle/internal/lexer"
	"github.com/fullcircle-lang/fullcircle/internal/parser"
	"github.com/fullcircle-lang/fullcircle/internal/pipeline"
	"github.com/fullcircle-lang/fullcircle/internal/token"
	"github.com/fullcircle-lang/fullcircle/internal/vm"
)

// DefaultStackSize is the byte-arena capacity Run uses when the caller
// asks for 0, per spec.md §6's `run(bytecode, stack_size = 65536)`.
const DefaultStackSize = vm.DefaultStackSize

// Lex turns source text into a complete token stream, terminated by an
// EOF token.
func Lex(source string) ([]token.Token, error) {
	return lexer.All(source)
}

// Parse turns a token stream into a validated, typed AST and returns the
// arena that owns it plus the GlobalBlock root handle. Parse both builds
// the raw tree and runs semantic validation (symbol resolution, operator
// promotion, scope/signature checks): two passes over the tree,
// parser.Parse then Arena.Validate, run back to back.
func Parse(tokens []token.Token) (*ast.Arena, ast.Handle, error) {
	arena, root, err := parser.Parse(tokens)
	if err != nil {
		return nil, ast.NilHandle, err
	}
	if err := arena.Validate(root); err != nil {
		return nil, ast.NilHandle, err
	}
	return arena, root, nil
}

// Compile generates and links bytecode from a validated AST.
func Compile(arena *ast.Arena, root ast.Handle) (*vm.Chunk, error) {
	return arena.GenerateProgram(root)
}

// Run executes chunk against a fresh VM instance, writing print* output
// to out. A stackSize of 0 uses DefaultStackSize. Reaching the end of the
// program is reported as vm.ErrProgramTerminated, not an error a caller
// should treat as failure; a genuine runtime fault is any other non-nil
// error.
func Run(chunk *vm.Chunk, stackSize int, out io.Writer) error {
	if stackSize <= 0 {
		stackSize = DefaultStackSize
	}
	return vm.Run(chunk, stackSize, out)
}

// Build runs the full lex -> parse -> compile pipeline over source,
// matching spec.md §8's "compile(parse(lex(s))) is a pure function of s".
func Build(source string) (*vm.Chunk, error) {
	return BuildWithContext(pipeline.NewContext(source))
}

// BuildWithContext is Build for a caller that wants ctx.FilePath carried
// through for its own error reporting, and the lexed pipeline.TokenStream
// left on ctx afterward for introspection (e.g. a REPL echoing the token
// sequence it just compiled).
func BuildWithContext(ctx *pipeline.Context) (*vm.Chunk, error) {
	tokens, err := Lex(ctx.SourceCode)
	if err != nil {
		return nil, err
	}
	ctx.TokenStream = pipeline.FromSlice(tokens)
	arena, root, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	return Compile(arena, root)
}
