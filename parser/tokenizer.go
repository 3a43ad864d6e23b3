// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"fmt"
	"slices"

	"github.com/frodobuf/midl/ast"
)

// Mark is a saved tokenizer position. See [Tokenizer.Rewind].
type Mark int

// Tokenizer provides lookahead over a [Lexer].
//
// Lexed tokens are kept in a buffer, so a position saved with Mark can be
// restored with Rewind without lexing the input again.
type Tokenizer struct {
	lexer  *Lexer
	tokens []*Token
	// next is the index in tokens of the next token to consume.
	next int
	eof  bool
}

// NewTokenizer creates a tokenizer reading from lexer.
func NewTokenizer(lexer *Lexer) *Tokenizer {
	return &Tokenizer{lexer: lexer}
}

// Lookahead returns the next token without consuming it, or nil at the end
// of the input.
func (t *Tokenizer) Lookahead() (*Token, error) {
	if t.next < len(t.tokens) {
		return t.tokens[t.next], nil
	}
	if t.eof {
		return nil, nil
	}
	tok, err := t.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		t.eof = true
		return nil, nil
	}
	t.tokens = append(t.tokens, tok)
	return tok, nil
}

// LookaheadSome is like Lookahead but the end of input is an error.
func (t *Tokenizer) LookaheadSome() (*Token, error) {
	tok, err := t.Lookahead()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, newError(UnexpectedEOF, "")
	}
	return tok, nil
}

// Advance consumes the token returned by the last call to Lookahead.
func (t *Tokenizer) Advance() (*Token, error) {
	if t.next >= len(t.tokens) {
		return nil, newError(InternalError, "advance without lookahead")
	}
	tok := t.tokens[t.next]
	t.next++
	return tok, nil
}

// SyntaxEOF reports whether all tokens have been consumed.
func (t *Tokenizer) SyntaxEOF() (bool, error) {
	tok, err := t.Lookahead()
	return tok == nil, err
}

// NextTokenIf consumes and returns the next token if pred accepts it.
// Otherwise it returns nil and consumes nothing.
func (t *Tokenizer) NextTokenIf(pred func(*Token) bool) (*Token, error) {
	tok, err := t.Lookahead()
	if err != nil || tok == nil || !pred(tok) {
		return nil, err
	}
	return t.Advance()
}

// NextIdentIfIn consumes the next token if it is one of the given words and
// returns the word. It returns "" when nothing matched.
func (t *Tokenizer) NextIdentIfIn(words ...string) (string, error) {
	tok, err := t.NextTokenIf(func(tok *Token) bool {
		return tok.IsAnyIdent() && slices.Contains(words, tok.Text)
	})
	if err != nil || tok == nil {
		return "", err
	}
	return tok.Text, nil
}

// NextIdentIfEq consumes the next token if it is the identifier word.
func (t *Tokenizer) NextIdentIfEq(word string) (bool, error) {
	tok, err := t.NextTokenIf(func(tok *Token) bool { return tok.IsIdent(word) })
	return tok != nil, err
}

// NextIdentExpectEq consumes the identifier word or fails with
// ExpectNamedIdent.
func (t *Tokenizer) NextIdentExpectEq(word string) error {
	ok, err := t.NextIdentIfEq(word)
	if err != nil {
		return err
	}
	if !ok {
		return t.expected(ExpectNamedIdent, "%q", word)
	}
	return nil
}

// NextSymbolIfEq consumes the next token if it is the symbol r.
func (t *Tokenizer) NextSymbolIfEq(r rune) (bool, error) {
	tok, err := t.NextTokenIf(func(tok *Token) bool { return tok.IsSymbol(r) })
	return tok != nil, err
}

// NextSymbolExpectEq consumes the symbol r or fails with ExpectChar.
func (t *Tokenizer) NextSymbolExpectEq(r rune) error {
	ok, err := t.NextSymbolIfEq(r)
	if err != nil {
		return err
	}
	if !ok {
		return t.expected(ExpectChar, "'%c'", r)
	}
	return nil
}

// LookaheadIfSymbol returns the next token's symbol without consuming it, or
// 0 if the next token is not a symbol.
func (t *Tokenizer) LookaheadIfSymbol() (rune, error) {
	tok, err := t.Lookahead()
	if err != nil || tok == nil || tok.Kind != TokenSymbol {
		return 0, err
	}
	return []rune(tok.Text)[0], nil
}

// LookaheadIsSymbol reports whether the next token is the symbol r.
func (t *Tokenizer) LookaheadIsSymbol(r rune) (bool, error) {
	tok, err := t.Lookahead()
	return tok != nil && tok.IsSymbol(r), err
}

// LookaheadIsIdent reports whether the next token is the identifier word.
func (t *Tokenizer) LookaheadIsIdent(word string) (bool, error) {
	tok, err := t.Lookahead()
	return tok != nil && tok.IsIdent(word), err
}

// NextIdent consumes an identifier.
func (t *Tokenizer) NextIdent() (string, error) {
	tok, err := t.NextTokenIf((*Token).IsAnyIdent)
	if err != nil {
		return "", err
	}
	if tok == nil {
		return "", t.expected(ExpectIdent, "")
	}
	return tok.Text, nil
}

// NextStrLit consumes a string literal.
func (t *Tokenizer) NextStrLit() (StrLit, error) {
	tok, err := t.NextTokenIf(func(tok *Token) bool { return tok.Kind == TokenString })
	if err != nil {
		return StrLit{}, err
	}
	if tok == nil {
		return StrLit{}, t.expected(ExpectStrLit, "")
	}
	return tok.StrLit(), nil
}

// NextIntLit consumes an integer literal.
func (t *Tokenizer) NextIntLit() (uint64, error) {
	tok, err := t.NextTokenIf(func(tok *Token) bool { return tok.Kind == TokenInt })
	if err != nil {
		return 0, err
	}
	if tok == nil {
		return 0, t.expected(ExpectIntLit, "")
	}
	return tok.Int, nil
}

// NextFnReturns consumes "->" or the keyword "returns".
func (t *Tokenizer) NextFnReturns() (bool, error) {
	tok, err := t.NextTokenIf(func(tok *Token) bool {
		return tok.Kind == TokenFnReturns || tok.IsIdent("returns")
	})
	return tok != nil, err
}

// Loc returns the location of the next token if it has been looked ahead,
// else of the last token, else the lexer's position.
func (t *Tokenizer) Loc() ast.SourcePos {
	switch {
	case t.next < len(t.tokens):
		return t.tokens[t.next].Pos
	case t.next > 0:
		return t.tokens[t.next-1].Pos
	default:
		return t.lexer.Pos()
	}
}

// Mark saves the current position.
func (t *Tokenizer) Mark() Mark {
	return Mark(t.next)
}

// Rewind restores a position saved with Mark.
func (t *Tokenizer) Rewind(m Mark) {
	if int(m) > len(t.tokens) {
		panic("rewind past end of token buffer")
	}
	t.next = int(m)
}

// expected reports an expectation failure at the next token, naming the
// token that was found. At the end of input the failure is UnexpectedEOF
// instead.
func (t *Tokenizer) expected(kind ErrorKind, format string, args ...any) error {
	if t.next >= len(t.tokens) {
		return newError(UnexpectedEOF, "")
	}
	detail := fmt.Sprintf(format, args...)
	if detail != "" {
		detail += ", "
	}
	return newError(kind, "%sfound %v", detail, t.tokens[t.next])
}
