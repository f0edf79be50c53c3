package parser_test

import (
	"testing"

	"pasm9618/internal/parser"
)

func collectTypes(src string) []parser.TokenType {
	lex := parser.NewLexer(src, "test.pasm")
	var types []parser.TokenType
	for {
		tok := lex.NextToken()
		types = append(types, tok.Type)
		if tok.Type == parser.TokenEOF {
			break
		}
	}
	return types
}

func TestLexer_InstructionLine(t *testing.T) {
	types := collectTypes("LOOP: LDM #5, r0\n")
	want := []parser.TokenType{
		parser.TokenIdentifier, parser.TokenColon, parser.TokenIdentifier,
		parser.TokenHash, parser.TokenInteger, parser.TokenComma,
		parser.TokenIdentifier, parser.TokenNewline, parser.TokenEOF,
	}
	if len(types) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(types), types)
	}
	for i, ty := range want {
		if types[i] != ty {
			t.Errorf("token %d: expected %s, got %s", i, ty, types[i])
		}
	}
}

func TestLexer_HexLiteral(t *testing.T) {
	lex := parser.NewLexer("&FF", "test.pasm")
	tok := lex.NextToken()
	if tok.Type != parser.TokenInteger || tok.Literal != "&FF" {
		t.Errorf("expected integer literal &FF, got %v", tok)
	}
}

func TestLexer_LineComment(t *testing.T) {
	lex := parser.NewLexer("LDM #1 // load one\n", "test.pasm")
	var comment string
	for {
		tok := lex.NextToken()
		if tok.Type == parser.TokenComment {
			comment = tok.Literal
		}
		if tok.Type == parser.TokenEOF {
			break
		}
	}
	if comment != "// load one" {
		t.Errorf("expected comment text preserved, got %q", comment)
	}
}
