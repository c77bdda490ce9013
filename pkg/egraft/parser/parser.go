package parser

import (
	"fmt"
	"strings"

	"github.com/wayneeseguin/egraft/pkg/egraft"
)

// parseError builds an *egraft.ParseError positioned at tok, with the
// formatted message; the Read functions below return it to the caller.
func parseError(tok Token, format string, args ...interface{}) *egraft.ParseError {
	return &egraft.ParseError{Pos: tok.Pos, Line: tok.Line, Col: tok.Col, Message: fmt.Sprintf(format, args...)}
}

// Parser is a recursive-descent reader over a pre-lexed token stream.
// Grounded on pkg/graft/parser/parser.go's recursive-descent structure.
type Parser struct {
	tokens []Token
	pos    int
	lang   egraft.Language
}

func newParser(lang egraft.Language, text string) *Parser {
	return &Parser{tokens: NewTokenizer(text).Tokenize(), lang: lang}
}

func (p *Parser) peek() Token  { return p.tokens[p.pos] }
func (p *Parser) next() Token  { t := p.tokens[p.pos]; p.pos++; return t }
func (p *Parser) atEOF() bool  { return p.peek().Type == TokenEOF }

// ReadExpr parses one s-expression into a concrete egraft.RecExpr.
// "?"-prefixed atoms are rejected — pattern variables are only valid in
// ReadPattern.
func ReadExpr(lang egraft.Language, text string) (egraft.RecExpr, error) {
	p := newParser(lang, text)
	var expr egraft.RecExpr
	if _, err := p.readExprNode(&expr); err != nil {
		return egraft.RecExpr{}, err
	}
	if !p.atEOF() {
		return egraft.RecExpr{}, parseError(p.peek(), "unexpected trailing input %q", p.peek().Value)
	}
	return expr, nil
}

func (p *Parser) readExprNode(expr *egraft.RecExpr) (int, error) {
	tok := p.next()
	switch tok.Type {
	case TokenEOF:
		return 0, parseError(tok, "unexpected end of input")
	case TokenCloseParen:
		return 0, parseError(tok, "unexpected %q", ")")
	case TokenOpenParen:
		head := p.next()
		if head.Type != TokenAtom {
			return 0, parseError(head, "expected an operator, got %q", head.String())
		}
		var children []int
		for p.peek().Type != TokenCloseParen {
			if p.atEOF() {
				return 0, parseError(p.peek(), "unterminated list starting with %q", head.Value)
			}
			idx, err := p.readExprNode(expr)
			if err != nil {
				return 0, err
			}
			children = append(children, idx)
		}
		p.next() // consume ')'

		op, ok := p.lang.ParseOp(head.Value, len(children))
		if !ok {
			return 0, parseError(head, "unknown operator %q with %d children", head.Value, len(children))
		}
		return expr.Append(op, children...), nil
	default: // atom
		if strings.HasPrefix(tok.Value, "?") {
			return 0, parseError(tok, "pattern variable %q is not allowed in a concrete expression", tok.Value)
		}
		op, ok := p.lang.ParseOp(tok.Value, 0)
		if !ok {
			return 0, parseError(tok, "unrecognized literal %q", tok.Value)
		}
		return expr.Leaf(op), nil
	}
}

// ReadPattern parses one s-expression into an egraft.Pattern, recognizing
// "?name" atoms as pattern variables.
func ReadPattern(lang egraft.Language, text string) (egraft.Pattern, error) {
	p := newParser(lang, text)
	pat, err := p.readPatternNode()
	if err != nil {
		return egraft.Pattern{}, err
	}
	if !p.atEOF() {
		return egraft.Pattern{}, parseError(p.peek(), "unexpected trailing input %q", p.peek().Value)
	}
	return pat, nil
}

func (p *Parser) readPatternNode() (egraft.Pattern, error) {
	tok := p.next()
	switch tok.Type {
	case TokenEOF:
		return egraft.Pattern{}, parseError(tok, "unexpected end of input")
	case TokenCloseParen:
		return egraft.Pattern{}, parseError(tok, "unexpected %q", ")")
	case TokenOpenParen:
		head := p.next()
		if head.Type != TokenAtom {
			return egraft.Pattern{}, parseError(head, "expected an operator, got %q", head.String())
		}
		var children []egraft.Pattern
		for p.peek().Type != TokenCloseParen {
			if p.atEOF() {
				return egraft.Pattern{}, parseError(p.peek(), "unterminated list starting with %q", head.Value)
			}
			child, err := p.readPatternNode()
			if err != nil {
				return egraft.Pattern{}, err
			}
			children = append(children, child)
		}
		p.next() // consume ')'

		op, ok := p.lang.ParseOp(head.Value, len(children))
		if !ok {
			return egraft.Pattern{}, parseError(head, "unknown operator %q with %d children", head.Value, len(children))
		}
		return egraft.PatternNode(op, children...), nil
	default: // atom
		if strings.HasPrefix(tok.Value, "?") {
			return egraft.PatternVar(tok.Value), nil
		}
		op, ok := p.lang.ParseOp(tok.Value, 0)
		if !ok {
			return egraft.Pattern{}, parseError(tok, "unrecognized literal %q", tok.Value)
		}
		return egraft.PatternNode(op), nil
	}
}
