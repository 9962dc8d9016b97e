package lexer

import (
	"testing"

	"github.com/fullcircle-lang/fullcircle/internal/token"
)

func TestAllBasicProgram(t *testing.T) {
	src := `void main() { int x = 1 + 2; }`
	toks, err := All(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Type{
		token.VOID_KW, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.INT_KW, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.SEMICOLON,
		token.RBRACE, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNumericLiterals(t *testing.T) {
	cases := []struct {
		src  string
		typ  token.Type
		want interface{}
	}{
		{"42", token.INT, int32(42)},
		{"0x2A", token.INT, int32(42)},
		{"052", token.INT, int32(42)},
		{"3.5", token.FLOAT, float32(3.5)},
	}
	for _, c := range cases {
		toks, err := All(c.src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if len(toks) != 2 {
			t.Fatalf("%s: got %d tokens, want 2", c.src, len(toks))
		}
		if toks[0].Type != c.typ {
			t.Errorf("%s: got type %s, want %s", c.src, toks[0].Type, c.typ)
		}
		if toks[0].Literal != c.want {
			t.Errorf("%s: got literal %v, want %v", c.src, toks[0].Literal, c.want)
		}
	}
}

func TestCharConstantKeepsFirstByte(t *testing.T) {
	toks, err := All(`'ab'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != token.CHAR {
		t.Fatalf("got type %s, want CHAR", toks[0].Type)
	}
	if toks[0].Literal.(byte) != 'a' {
		t.Errorf("got %v, want 'a'", toks[0].Literal)
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	if _, err := All(`"abc`); err == nil {
		t.Fatal("expected an error for an unterminated string constant")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks, err := All("// a comment\nint x; /* block */ int y;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != token.INT_KW || toks[1].Type != token.IDENT {
		t.Fatalf("unexpected leading tokens: %v", toks[:2])
	}
}

func TestRejectedKeywordsAreStillLexed(t *testing.T) {
	toks, err := All("struct goto switch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Type{token.STRUCT_KW, token.GOTO_KW, token.SWITCH_KW, token.EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}
