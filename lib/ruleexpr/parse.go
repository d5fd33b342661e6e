/*
 * Edgegate
 * Copyright (C) 2026  Stackmesh, Inc.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package ruleexpr

import (
	"fmt"
	"unicode"
)

// TokenError indicates the rule contains a character that cannot start
// or continue any token.
type TokenError struct {
	// Pos is the rune offset of the offending character.
	Pos int
	// Char is the offending character.
	Char rune
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("illegal character %q at offset %d", e.Char, e.Pos)
}

// ParseError indicates the rule is not well formed: it ends early, is
// missing a value, or has tokens in an unexpected place.
type ParseError struct {
	// Pos is the rune offset the parser stopped at.
	Pos int
	// Msg describes what was expected.
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOr
	tokAnd
	tokThingName
	tokColon
	tokName
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of rule"
	case tokOr:
		return `"OR"`
	case tokAnd:
		return `"AND"`
	case tokThingName:
		return `"thingName"`
	case tokColon:
		return `":"`
	case tokName:
		return "thing name"
	}
	return "unknown token"
}

type token struct {
	kind  tokenKind
	value string
	pos   int
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// lex splits the rule into tokens. Keywords are matched exactly;
// anything else that looks like a word is a thing name. The only
// escape sequence is '\:'. A thing name may start and/or end with a
// '*' wildcard; a star anywhere else ends the name, which makes
// interior wildcards a parse error rather than a token error.
func lex(rule string) ([]token, error) {
	var toks []token
	runes := []rune(rule)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == ':':
			toks = append(toks, token{kind: tokColon, pos: i})
			i++
		case isNameRune(r) || r == '\\' || r == '*':
			start := i
			var b []rune
			leadingStar := runes[i] == '*'
			if leadingStar {
				b = append(b, '*')
				i++
			}
			for i < len(runes) {
				switch {
				case runes[i] == '\\':
					if i+1 >= len(runes) || runes[i+1] != ':' {
						return nil, &TokenError{Pos: i, Char: '\\'}
					}
					b = append(b, ':')
					i += 2
				case isNameRune(runes[i]):
					b = append(b, runes[i])
					i++
				default:
					goto done
				}
			}
		done:
			// A trailing star only follows a non-empty name, so a run
			// of stars splits into separate tokens and fails to parse.
			hasBody := len(b) > 0 && !(leadingStar && len(b) == 1)
			if hasBody && i < len(runes) && runes[i] == '*' {
				b = append(b, '*')
				i++
			}
			word := string(b)
			kind := tokName
			// Keywords never contain escapes.
			if string(runes[start:i]) == word {
				switch word {
				case "OR":
					kind = tokOr
				case "AND":
					kind = tokAnd
				case "thingName":
					kind = tokThingName
				}
			}
			toks = append(toks, token{kind: kind, value: word, pos: start})
		default:
			return nil, &TokenError{Pos: i, Char: r}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}

// Parse parses a selection rule into its expression tree. It returns a
// *TokenError for illegal characters and a *ParseError for malformed
// rules.
func Parse(rule string) (Node, error) {
	toks, err := lex(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
	}
	return node, nil
}

type parser struct {
	toks []token
	next int
}

func (p *parser) peek() token {
	return p.toks[p.next]
}

func (p *parser) advance() token {
	tok := p.toks[p.next]
	if tok.kind != tokEOF {
		p.next++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return token{}, &ParseError{
			Pos: tok.pos,
			Msg: fmt.Sprintf("expected %s, found %s", kind, tok.kind),
		}
	}
	return p.advance(), nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseThing()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.advance()
		right, err := p.parseThing()
		if err != nil {
			return nil, err
		}
		left = And{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseThing() (Node, error) {
	if _, err := p.expect(tokThingName); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	tok, err := p.expect(tokName)
	if err != nil {
		return nil, err
	}
	return Thing{Name: tok.value}, nil
}
