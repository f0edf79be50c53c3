package parser

import "strings"

// Parser produces an unresolved Program (the phase-one AST) from
// pseudoassembly source text, consuming the whole token stream up front
// like the token-buffered recursive-descent parsers in the example pack.
type Parser struct {
	lexer        *Lexer
	tokens       []Token
	pos          int
	currentToken Token
	peekToken    Token
	errors       *ErrorList
}

// NewParser tokenizes input and prepares a Parser over it.
func NewParser(input, filename string) *Parser {
	lexer := NewLexer(input, filename)
	p := &Parser{lexer: lexer, errors: &ErrorList{}}

	for {
		tok := lexer.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	for _, err := range lexer.Errors().Errors {
		p.errors.Add(err)
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = Token{Type: TokenEOF, Pos: p.currentToken.Pos}
	}
}

func (p *Parser) skipSeparators() {
	for p.currentToken.Type == TokenNewline || p.currentToken.Type == TokenComment || p.currentToken.Type == TokenSemicolon {
		p.nextToken()
	}
}

// Parse scans the whole token stream into a Program of Lines. It does not
// consult a label table or instruction set — address assignment and
// mnemonic resolution are internal/compile's job.
func (p *Parser) Parse() (*Program, error) {
	program := &Program{}

	for p.currentToken.Type != TokenEOF {
		p.skipSeparators()
		if p.currentToken.Type == TokenEOF {
			break
		}

		line, err := p.parseLine()
		if err != nil {
			p.errors.Add(NewError(p.currentToken.Pos, ErrorSyntax, err.Error()))
			p.skipToLineEnd()
			continue
		}
		if line != nil {
			program.Lines = append(program.Lines, line)
		}
	}

	if p.errors.HasErrors() {
		return nil, p.errors
	}
	return program, nil
}

func (p *Parser) skipToLineEnd() {
	for p.currentToken.Type != TokenNewline && p.currentToken.Type != TokenSemicolon && p.currentToken.Type != TokenEOF {
		p.nextToken()
	}
}

// parseLine parses one statement: an optional "LABEL:" prefix followed by
// either an instruction, a data declaration, or nothing (a label-only
// line).
func (p *Parser) parseLine() (*Line, error) {
	pos := p.currentToken.Pos
	line := &Line{Pos: pos}

	if p.currentToken.Type == TokenIdentifier && p.peekToken.Type == TokenColon {
		line.Label = p.currentToken.Literal
		p.nextToken()
		p.nextToken()
	}

	switch p.currentToken.Type {
	case TokenNewline, TokenSemicolon, TokenEOF, TokenComment:
		return line, nil

	case TokenIdentifier:
		line.Mnemonic = strings.ToUpper(p.currentToken.Literal)
		p.nextToken()
		line.Operands = p.parseOperandList()
		return line, nil

	case TokenInteger:
		litPos := p.currentToken.Pos
		first := p.currentToken.Literal
		p.nextToken()
		if p.currentToken.Type == TokenInteger {
			// "ADDR VALUE": an explicit-address data declaration, placing
			// VALUE directly at ADDR regardless of sequential layout.
			value := p.currentToken.Literal
			p.nextToken()
			line.Data = &DataLiteral{Pos: litPos, Address: first, Value: value}
			return line, nil
		}
		line.Data = &DataLiteral{Pos: litPos, Value: first}
		return line, nil

	case TokenLBracket:
		literal, err := p.parseArrayLiteral()
		if err != nil {
			return nil, err
		}
		line.Data = literal
		return line, nil

	default:
		return nil, &Error{Pos: pos, Kind: ErrorSyntax, Message: "expected label, instruction, or data value, got " + p.currentToken.Type.String()}
	}
}

// parseArrayLiteral parses a "[fill; count]" data literal.
func (p *Parser) parseArrayLiteral() (*DataLiteral, error) {
	pos := p.currentToken.Pos
	p.nextToken() // consume '['

	if p.currentToken.Type != TokenInteger {
		return nil, &Error{Pos: p.currentToken.Pos, Kind: ErrorSyntax, Message: "expected fill value in array literal"}
	}
	fill := p.currentToken.Literal
	p.nextToken()

	if p.currentToken.Type != TokenSemicolon {
		return nil, &Error{Pos: p.currentToken.Pos, Kind: ErrorSyntax, Message: "expected ';' separating fill and count in array literal"}
	}
	p.nextToken()

	if p.currentToken.Type != TokenInteger {
		return nil, &Error{Pos: p.currentToken.Pos, Kind: ErrorSyntax, Message: "expected count in array literal"}
	}
	count := p.currentToken.Literal
	p.nextToken()

	if p.currentToken.Type != TokenRBracket {
		return nil, &Error{Pos: p.currentToken.Pos, Kind: ErrorSyntax, Message: "expected ']' closing array literal"}
	}
	p.nextToken()

	return &DataLiteral{Pos: pos, IsArray: true, Fill: fill, Count: count}, nil
}

// parseOperandList reads comma-separated operand text for an instruction,
// leaving operand-kind interpretation (immediate vs direct vs register,
// etc.) to internal/compile. Each operand is re-tokenized there from its
// raw text.
func (p *Parser) parseOperandList() []string {
	var operands []string
	if p.currentToken.Type == TokenNewline || p.currentToken.Type == TokenSemicolon ||
		p.currentToken.Type == TokenEOF || p.currentToken.Type == TokenComment {
		return operands
	}

	var sb strings.Builder
	depth := 0
	flush := func() {
		text := strings.TrimSpace(sb.String())
		if text != "" {
			operands = append(operands, text)
		}
		sb.Reset()
	}

	for {
		switch p.currentToken.Type {
		case TokenNewline, TokenSemicolon, TokenEOF, TokenComment:
			flush()
			return operands
		case TokenComma:
			if depth == 0 {
				flush()
				p.nextToken()
				continue
			}
			sb.WriteString(p.currentToken.Literal)
		case TokenLBracket, TokenLParen:
			depth++
			sb.WriteString(p.currentToken.Literal)
		case TokenRBracket, TokenRParen:
			depth--
			sb.WriteString(p.currentToken.Literal)
		case TokenHash:
			sb.WriteString("#")
		default:
			if s := sb.String(); s != "" && !strings.HasSuffix(s, "#") && !strings.HasSuffix(s, "(") && !strings.HasSuffix(s, "[") {
				sb.WriteString(" ")
			}
			sb.WriteString(p.currentToken.Literal)
		}
		p.nextToken()
	}
}
