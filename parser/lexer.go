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
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/frodobuf/midl/ast"
	"github.com/frodobuf/midl/reporter"
)

// Token is a lexical token.
type Token struct {
	Kind TokenKind
	// Pos is where the token starts.
	Pos ast.SourcePos
	// Text is the token's source text. For a string literal it is the text
	// between the quotes, with escapes left as written.
	Text string
	// Int is the value of a TokenInt.
	Int uint64
	// Float is the value of a TokenFloat.
	Float float64
}

// IsIdent reports whether t is the identifier word.
func (t *Token) IsIdent(word string) bool {
	return t.IsAnyIdent() && t.Text == word
}

// IsAnyIdent reports whether t can be used as an identifier. Besides
// identifiers that includes the float words nan and inf, which are literals
// only where a value is expected.
func (t *Token) IsAnyIdent() bool {
	switch t.Kind {
	case TokenIdent:
		return true
	case TokenFloat:
		return t.Text == "nan" || t.Text == "inf"
	default:
		return false
	}
}

// IsSymbol reports whether t is the symbol r.
func (t *Token) IsSymbol(r rune) bool {
	return t.Kind == TokenSymbol && t.Text == string(r)
}

// StrLit returns the literal of a TokenString.
func (t *Token) StrLit() StrLit {
	return StrLit{Escaped: t.Text}
}

func (t *Token) String() string {
	switch t.Kind {
	case TokenIdent, TokenInt, TokenFloat:
		return fmt.Sprintf("%v %s", t.Kind, t.Text)
	case TokenString:
		return fmt.Sprintf("%v %q", t.Kind, t.Text)
	case TokenSymbol:
		return fmt.Sprintf("'%s'", t.Text)
	default:
		return t.Kind.String()
	}
}

type runeReader struct {
	data []byte
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError && sz <= 1 {
		rr.err = fmt.Errorf("invalid UTF8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

// peekRune returns the next rune without consuming it, or -1 at the end of
// the input.
func (rr *runeReader) peekRune() rune {
	if rr.err != nil || rr.pos == len(rr.data) {
		return -1
	}
	r, _ := utf8.DecodeRune(rr.data[rr.pos:])
	return r
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return string(rr.data[rr.mark:rr.pos])
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// Lexer converts MIDL source into tokens.
type Lexer struct {
	input *runeReader
	info  *ast.FileInfo
	style CommentStyle
}

// NewLexer creates a lexer over contents. A leading UTF-8 byte order mark is
// skipped.
func NewLexer(filename string, contents []byte, style CommentStyle) *Lexer {
	contents = bytes.TrimPrefix(contents, utf8Bom)
	return &Lexer{
		input: &runeReader{data: contents},
		info:  ast.NewFileInfo(filename, contents),
		style: style,
	}
}

// Pos returns the position of the next unread character.
func (l *Lexer) Pos() ast.SourcePos {
	return l.info.SourcePos(l.input.offset())
}

// FileInfo returns the line index built so far.
func (l *Lexer) FileInfo() *ast.FileInfo {
	return l.info
}

// EOF reports whether only whitespace and comments remain.
func (l *Lexer) EOF() (bool, error) {
	if err := l.skipWhitespace(); err != nil {
		return false, err
	}
	return l.input.peekRune() < 0, nil
}

// NextToken returns the next token, or nil at the end of the input.
func (l *Lexer) NextToken() (*Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return nil, err
	}

	l.input.setMark()
	start := l.input.offset()
	c, _, err := l.input.readRune()
	if errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, l.errorf(start, "%v", err)
	}

	switch {
	case c == '.' && isDigit(l.input.peekRune()):
		// decimal literals could start with a dot
		return l.readNumber(start)

	case isIdentStart(c):
		l.readIdentifier()
		text := l.input.getMark()
		switch text {
		case "nan":
			return l.token(TokenFloat, start, text, 0, math.NaN()), nil
		case "inf":
			return l.token(TokenFloat, start, text, 0, math.Inf(1)), nil
		}
		return l.token(TokenIdent, start, text, 0, 0), nil

	case isDigit(c):
		return l.readNumber(start)

	case c == '\'' || c == '"':
		text, err := l.readStringLiteral(start, c)
		if err != nil {
			return nil, err
		}
		return l.token(TokenString, start, text, 0, 0), nil

	case c == ':' && l.input.peekRune() == ':':
		_, _, _ = l.input.readRune()
		return l.token(TokenDoubleColon, start, "::", 0, 0), nil

	case c == '-' && l.input.peekRune() == '>':
		_, _, _ = l.input.readRune()
		return l.token(TokenFnReturns, start, "->", 0, 0), nil

	case c < utf8.RuneSelf && strings.ContainsRune(punctuation, c):
		return l.token(TokenSymbol, start, string(c), 0, 0), nil
	}

	return nil, l.errorf(start, "illegal character %q", c)
}

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func (l *Lexer) token(kind TokenKind, start int, text string, i uint64, f float64) *Token {
	return &Token{
		Kind:  kind,
		Pos:   l.info.SourcePos(start),
		Text:  text,
		Int:   i,
		Float: f,
	}
}

func (l *Lexer) errorf(offset int, format string, args ...any) error {
	return reporter.Error(l.info.SourcePos(offset), newError(LexerError, format, args...))
}

func (l *Lexer) maybeNewLine(r rune) {
	if r == '\n' {
		l.info.AddLine(l.input.offset())
	}
}

// skipWhitespace skips whitespace and comments.
func (l *Lexer) skipWhitespace() error {
	for {
		l.input.setMark()
		start := l.input.offset()
		c, sz, err := l.input.readRune()
		if err != nil {
			// errors are reported by the next read
			l.input.unreadRune(sz)
			return nil
		}

		switch {
		case strings.ContainsRune("\n\r\t\f\v ", c):
			l.maybeNewLine(c)
		case c == '#' && l.style == CommentStyleHash:
			l.skipToEndOfLineComment()
		case c == '/' && l.style == CommentStyleC && l.input.peekRune() == '/':
			l.skipToEndOfLineComment()
		case c == '/' && l.style == CommentStyleC && l.input.peekRune() == '*':
			_, _, _ = l.input.readRune()
			if ok := l.skipToEndOfBlockComment(); !ok {
				return l.errorf(start, "block comment never terminates, unexpected EOF")
			}
		default:
			l.input.unreadRune(sz)
			return nil
		}
	}
}

func (l *Lexer) skipToEndOfLineComment() {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return
		}
		if c == '\n' {
			l.info.AddLine(l.input.offset())
			return
		}
	}
}

func (l *Lexer) skipToEndOfBlockComment() bool {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return false
		}
		l.maybeNewLine(c)
		if c == '*' && l.input.peekRune() == '/' {
			_, _, _ = l.input.readRune()
			return true
		}
	}
}

func (l *Lexer) readIdentifier() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if !isIdentStart(c) && !isDigit(c) {
			l.input.unreadRune(sz)
			break
		}
	}
}

// readNumber reads the rest of a numeric literal whose first character has
// already been read. Letters are consumed along with digits so that a
// literal like 12ab is reported as one malformed token.
func (l *Lexer) readNumber(start int) (*Token, error) {
	allowExpSign := false
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if (c == '-' || c == '+') && !allowExpSign {
			l.input.unreadRune(sz)
			break
		}
		allowExpSign = false
		if c != '.' && c != '_' && !isDigit(c) && !isIdentStart(c) &&
			c != '-' && c != '+' {
			// no more chars in the number token
			l.input.unreadRune(sz)
			break
		}
		if c == 'e' || c == 'E' {
			// scientific notation char can be followed by
			// an exponent sign
			allowExpSign = true
		}
	}

	text := l.input.getMark()
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		digits := text[2:]
		if digits == "" || strings.Contains(digits, "_") {
			return nil, l.errorf(start, "malformed hexadecimal literal %s", text)
		}
		ui, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return nil, l.errorf(start, "%v", numError(err, "hexadecimal integer", text))
		}
		return l.token(TokenInt, start, text, ui, 0), nil

	case strings.ContainsAny(text, ".eE"):
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || strings.Contains(text, "_") {
			return nil, l.errorf(start, "%v", numError(err, "float", text))
		}
		return l.token(TokenFloat, start, text, 0, f), nil

	case len(text) > 1 && text[0] == '0':
		ui, err := strconv.ParseUint(text[1:], 8, 64)
		if err != nil || strings.Contains(text, "_") {
			return nil, l.errorf(start, "%v", numError(err, "octal integer", text))
		}
		return l.token(TokenInt, start, text, ui, 0), nil

	default:
		ui, err := strconv.ParseUint(text, 10, 64)
		if err != nil || strings.Contains(text, "_") {
			return nil, l.errorf(start, "%v", numError(err, "integer", text))
		}
		return l.token(TokenInt, start, text, ui, 0), nil
	}
}

func numError(err error, kind, s string) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return fmt.Errorf("value out of range for %s: %s", kind, s)
	}
	// syntax error
	return fmt.Errorf("invalid syntax in %s value: %s", kind, s)
}

// readStringLiteral reads up to and including the closing quote and returns
// the text between the quotes. Escapes are checked only far enough to find
// the closing quote; StrLit decodes them.
func (l *Lexer) readStringLiteral(start int, quote rune) (string, error) {
	for {
		c, _, err := l.input.readRune()
		if errors.Is(err, io.EOF) || c == '\n' {
			return "", l.errorf(start, "unterminated string literal")
		} else if err != nil {
			return "", l.errorf(l.input.offset(), "%v", err)
		}
		if c == quote {
			text := l.input.getMark()
			return text[1 : len(text)-1], nil
		}
		if c == '\\' {
			c, _, err := l.input.readRune()
			if errors.Is(err, io.EOF) || c == '\n' {
				return "", l.errorf(start, "unterminated string literal")
			} else if err != nil {
				return "", l.errorf(l.input.offset(), "%v", err)
			}
		}
	}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
