// Package pipeline defines the small seam between the lexer and the
// statement splitter/parser. Grounded on the teacher's internal/pipeline
// package; its Processor/Pipeline stage-chaining abstraction is dropped
// (FullCircle's pipeline is a fixed five-stage sequence with no
// configurable stage composition, so that machinery has nothing to earn
// its keep) but the TokenStream contract is kept as-is, since the
// statement splitter genuinely wants bounded lookahead over tokens.
package pipeline

import "github.com/fullcircle-lang/fullcircle/internal/token"

// TokenStream is the contract for a buffered token stream.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token

	// Peek returns the next n tokens without consuming them. If the stream
	// has fewer than n tokens remaining, it returns all of them.
	Peek(n int) []token.Token
}
