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
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/frodobuf/midl/ast"
	"github.com/frodobuf/midl/reporter"
	"github.com/frodobuf/midl/schema"
)

// Version is the version of this parser. It is recorded in every parsed
// schema under [VersionAttribute].
const Version = "0.4.1"

// VersionAttribute is the key of the schema attribute holding [Version].
const VersionAttribute = "midl_parser_version"

// Options configures parsing.
type Options struct {
	// CommentStyle selects the comment syntax. The zero value is
	// CommentStyleC.
	CommentStyle CommentStyle
}

// FileDescriptor is a parsed file: its imports and its schema.
type FileDescriptor struct {
	Imports []Import       `json:"imports"`
	Schema  *schema.Schema `json:"schema"`
}

// Import is an import statement.
type Import struct {
	Path string    `json:"path"`
	Vis  ImportVis `json:"vis"`
	// Pos is the position of the import keyword.
	Pos ast.SourcePos `json:"-"`
}

// CleanPath returns the import path with "." and ".." elements resolved.
// Two imports name the same file when their clean paths are equal.
func (i Import) CleanPath() string {
	return path.Clean(i.Path)
}

// MarshalText implements [encoding.TextMarshaler].
func (v ImportVis) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (v *ImportVis) UnmarshalText(text []byte) error {
	vis, ok := ParseImportVis(string(text))
	if !ok {
		return fmt.Errorf("unknown import visibility %q", text)
	}
	*v = vis
	return nil
}

// Parse parses the source read from r. The filename is used only in
// positions.
//
// The first error is passed to handler and parsing stops. The returned error
// is then handler.Error().
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*FileDescriptor, error) {
	return ParseWithOptions(filename, r, handler, Options{})
}

// ParseString parses text with default options.
func ParseString(text string) (*FileDescriptor, error) {
	return Parse("", strings.NewReader(text), reporter.NewHandler(nil))
}

// ParseWithOptions is like Parse but allows the comment style to be chosen.
func ParseWithOptions(filename string, r io.Reader, handler *reporter.Handler, opts Options) (*FileDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8Bom)
	if !utf8.Valid(data) {
		pos := ast.SourcePos{Filename: filename, Line: 1, Col: 1}
		_ = handler.HandleError(reporter.Error(pos, newError(NotUTF8, "")))
		return nil, handler.Error()
	}

	p := &parser{
		tok:     NewTokenizer(NewLexer(filename, data, opts.CommentStyle)),
		handler: handler,
	}
	fd, err := p.parseFile()
	if err != nil {
		if _, ok := reporter.PositionOf(err); !ok {
			err = reporter.Error(p.tok.Loc(), err)
		}
		_ = handler.HandleError(err)
		return nil, handler.Error()
	}
	return fd, nil
}

type parser struct {
	tok     *Tokenizer
	handler *reporter.Handler
	// pending holds @attributes not yet claimed by a declaration.
	pending schema.Attributes
}

func (p *parser) parseFile() (*FileDescriptor, error) {
	fd := &FileDescriptor{Imports: []Import{}}
	s := &schema.Schema{
		Messages:   []schema.Message{},
		Enums:      []schema.Enumeration{},
		Services:   []schema.Service{},
		Attributes: schema.Attributes{},
	}
	var namespace string
	hasPackage := false
	imported := make(map[string]struct{})

	for {
		tok, err := p.tok.Lookahead()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}

		switch {
		case tok.IsIdent("import"):
			if err := p.checkNoPending(); err != nil {
				return nil, err
			}
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			imp.Pos = tok.Pos
			if _, ok := imported[imp.CleanPath()]; ok {
				p.handler.HandleWarning(tok.Pos, fmt.Errorf("%w: %q", ErrDuplicateImport, imp.Path))
				continue
			}
			imported[imp.CleanPath()] = struct{}{}
			fd.Imports = append(fd.Imports, imp)

		case tok.IsIdent("package"):
			if err := p.checkNoPending(); err != nil {
				return nil, err
			}
			if hasPackage {
				return nil, newError(OnlyOnePackage, "")
			}
			if namespace, err = p.parsePackage(); err != nil {
				return nil, err
			}
			hasPackage = true

		case tok.IsSymbol('@'):
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			p.pending = append(p.pending, attr)

		case tok.IsIdent("option"):
			if err := p.checkNoPending(); err != nil {
				return nil, err
			}
			opt, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			s.Attributes = append(s.Attributes, opt)

		case tok.IsIdent("message"):
			msg, err := p.parseMessage()
			if err != nil {
				return nil, err
			}
			s.Messages = append(s.Messages, msg)

		case tok.IsIdent("enum"):
			enum, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			s.Enums = append(s.Enums, enum)

		case tok.IsIdent("service"):
			svc, err := p.parseService()
			if err != nil {
				return nil, err
			}
			s.Services = append(s.Services, svc)

		case tok.IsSymbol(';'):
			if err := p.checkNoPending(); err != nil {
				return nil, err
			}
			_, _ = p.tok.Advance()

		default:
			return nil, newError(IncorrectInput, "unexpected %v", tok)
		}
	}

	if err := p.checkNoPending(); err != nil {
		return nil, err
	}
	if !hasPackage {
		return nil, newError(MissingPackage, "")
	}
	s.Namespace = schema.NewIdent(namespace)

	if err := s.AssignServiceIDs(); err != nil {
		return nil, &Error{Kind: Serialization, Err: err}
	}
	s.Attributes = append(s.Attributes, schema.SingleValue(VersionAttribute, schema.String(Version)))
	fd.Schema = s
	return fd, nil
}

func (p *parser) takeAttributes() schema.Attributes {
	attrs := p.pending
	p.pending = nil
	return attrs
}

func (p *parser) checkNoPending() error {
	if len(p.pending) == 0 {
		return nil
	}
	return newError(DanglingAttributes, "@%v", p.pending[0].Key)
}

func (p *parser) parseImport() (Import, error) {
	if err := p.tok.NextIdentExpectEq("import"); err != nil {
		return Import{}, err
	}
	imp := Import{Vis: ImportDefault}
	vis, err := p.tok.NextIdentIfIn("weak", "public")
	if err != nil {
		return Import{}, err
	}
	switch vis {
	case "weak":
		imp.Vis = ImportWeak
	case "public":
		imp.Vis = ImportPublic
	}
	lit, err := p.tok.NextStrLit()
	if err != nil {
		return Import{}, err
	}
	if imp.Path, err = lit.DecodeUTF8(); err != nil {
		return Import{}, err
	}
	return imp, p.tok.NextSymbolExpectEq(';')
}

func (p *parser) parsePackage() (string, error) {
	if err := p.tok.NextIdentExpectEq("package"); err != nil {
		return "", err
	}
	name, err := p.parseFullIdent()
	if err != nil {
		return "", err
	}
	return name, p.tok.NextSymbolExpectEq(';')
}

// parseFullIdent reads a dotted name. "::" is accepted as a separator and
// normalized to ".".
func (p *parser) parseFullIdent() (string, error) {
	name, err := p.tok.NextIdent()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(name)
	for {
		sep, err := p.tok.NextTokenIf(func(t *Token) bool {
			return t.IsSymbol('.') || t.Kind == TokenDoubleColon
		})
		if err != nil {
			return "", err
		}
		if sep == nil {
			return sb.String(), nil
		}
		name, err := p.tok.NextIdent()
		if err != nil {
			return "", err
		}
		sb.WriteString(schema.IdentPathDelimiter)
		sb.WriteString(name)
	}
}

func (p *parser) parseAttribute() (schema.Attribute, error) {
	if err := p.tok.NextSymbolExpectEq('@'); err != nil {
		return schema.Attribute{}, err
	}
	key, err := p.parseFullIdent()
	if err != nil {
		return schema.Attribute{}, err
	}
	attr := schema.KeyOnly(key)

	open, err := p.tok.NextSymbolIfEq('(')
	if err != nil {
		return schema.Attribute{}, err
	}
	for open {
		if done, err := p.tok.NextSymbolIfEq(')'); err != nil {
			return schema.Attribute{}, err
		} else if done {
			break
		}

		var (
			lit schema.Constant
			ok  bool
		)
		if named, err := p.floatWordIsName(); err != nil {
			return schema.Attribute{}, err
		} else if !named {
			if lit, ok, err = p.parseLiteralOpt(); err != nil {
				return schema.Attribute{}, err
			}
		}
		if ok {
			attr.Values = append(attr.Values, schema.AttributeValue{Name: schema.AttributeUnnamed, Value: lit})
			if _, err := p.tok.NextSymbolIfEq(','); err != nil {
				return schema.Attribute{}, err
			}
			continue
		}

		name, err := p.tok.NextIdent()
		if err != nil {
			return schema.Attribute{}, err
		}
		sym, err := p.tok.LookaheadIfSymbol()
		if err != nil {
			return schema.Attribute{}, err
		}
		switch sym {
		case '=':
			_, _ = p.tok.Advance()
			value, err := p.parseConstant()
			if err != nil {
				return schema.Attribute{}, err
			}
			attr.Values = append(attr.Values, schema.AttributeValue{Name: name, Value: value})
			if _, err := p.tok.NextSymbolIfEq(','); err != nil {
				return schema.Attribute{}, err
			}
		case ',':
			_, _ = p.tok.Advance()
			attr.Values = append(attr.Values, schema.AttributeValue{Name: name, Value: schema.Bool(true)})
		case ')':
			attr.Values = append(attr.Values, schema.AttributeValue{Name: name, Value: schema.Bool(true)})
		default:
			return schema.Attribute{}, p.tok.expected(ExpectChar, "'=', ',' or ')'")
		}
	}

	if _, err := p.tok.NextSymbolIfEq(';'); err != nil {
		return schema.Attribute{}, err
	}
	return attr, nil
}

// floatWordIsName reports whether the next token is nan or inf followed by
// '=', making the word the name of an attribute value.
func (p *parser) floatWordIsName() (bool, error) {
	m := p.tok.Mark()
	defer p.tok.Rewind(m)

	tok, err := p.tok.Lookahead()
	if err != nil || tok == nil || tok.Kind != TokenFloat || !tok.IsAnyIdent() {
		return false, err
	}
	_, _ = p.tok.Advance()
	return p.tok.LookaheadIsSymbol('=')
}

// parseLiteralOpt reads a literal if the next token starts one. It reports
// false, consuming nothing, otherwise.
func (p *parser) parseLiteralOpt() (schema.Constant, bool, error) {
	tok, err := p.tok.Lookahead()
	if err != nil || tok == nil {
		return nil, false, err
	}

	switch {
	case tok.IsIdent("true"), tok.IsIdent("false"):
		_, _ = p.tok.Advance()
		return schema.Bool(tok.Text == "true"), true, nil

	case tok.Kind == TokenString:
		_, _ = p.tok.Advance()
		b, err := tok.StrLit().DecodeBytes()
		if err != nil {
			return nil, false, err
		}
		if !utf8.Valid(b) {
			return schema.Bytes(b), true, nil
		}
		return schema.String(b), true, nil

	case tok.Kind == TokenInt:
		_, _ = p.tok.Advance()
		return schema.U64(tok.Int), true, nil

	case tok.Kind == TokenFloat:
		_, _ = p.tok.Advance()
		return schema.F64(tok.Float), true, nil

	case tok.IsSymbol('-'), tok.IsSymbol('+'):
		_, _ = p.tok.Advance()
		negative := tok.Text == "-"
		num, err := p.tok.LookaheadSome()
		if err != nil {
			return nil, false, err
		}
		switch num.Kind {
		case TokenInt:
			_, _ = p.tok.Advance()
			if !negative {
				return schema.U64(num.Int), true, nil
			}
			v, err := negate(num.Int)
			if err != nil {
				return nil, false, err
			}
			return schema.I64(v), true, nil
		case TokenFloat:
			_, _ = p.tok.Advance()
			if negative {
				return schema.F64(-num.Float), true, nil
			}
			return schema.F64(num.Float), true, nil
		default:
			return nil, false, newError(ExpectConstant, "expecting a number after '%s'", tok.Text)
		}
	}
	return nil, false, nil
}

func negate(u uint64) (int64, error) {
	switch {
	case u <= math.MaxInt64:
		return -int64(u), nil
	case u == 1<<63:
		return math.MinInt64, nil
	default:
		return 0, newError(IntegerOverflow, "-%d", u)
	}
}

func (p *parser) parseConstant() (schema.Constant, error) {
	lit, ok, err := p.parseLiteralOpt()
	if err != nil || ok {
		return lit, err
	}
	tok, err := p.tok.LookaheadSome()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokenIdent {
		return nil, newError(ExpectConstant, "found %v", tok)
	}
	name, err := p.parseFullIdent()
	if err != nil {
		return nil, err
	}
	return schema.IdentRef(schema.NewIdent(name)), nil
}

func (p *parser) parseOption() (schema.Attribute, error) {
	if err := p.tok.NextIdentExpectEq("option"); err != nil {
		return schema.Attribute{}, err
	}
	name, err := p.parseFullIdent()
	if err != nil {
		return schema.Attribute{}, err
	}
	if err := p.tok.NextSymbolExpectEq('='); err != nil {
		return schema.Attribute{}, err
	}
	value, err := p.parseConstant()
	if err != nil {
		return schema.Attribute{}, err
	}
	if err := p.tok.NextSymbolExpectEq(';'); err != nil {
		return schema.Attribute{}, err
	}
	return schema.SingleKV(schema.AttributeOption, name, value), nil
}

// parseLabel reads an optional field label. A label word that is directly
// followed by the field name is the field's type instead, as in
// "optional optional = 1;".
func (p *parser) parseLabel() (string, error) {
	m := p.tok.Mark()
	label, err := p.tok.NextIdentIfIn("optional", "required", "repeated")
	if err != nil || label == "" {
		return "", err
	}
	isName, err := p.followedByFieldName()
	if err != nil {
		return "", err
	}
	if isName {
		p.tok.Rewind(m)
		return "", nil
	}
	return label, nil
}

// followedByFieldName reports whether the next token is an identifier that
// ends a field declaration's type, i.e. the field name.
func (p *parser) followedByFieldName() (bool, error) {
	m := p.tok.Mark()
	defer p.tok.Rewind(m)

	tok, err := p.tok.Lookahead()
	if err != nil || tok == nil || !tok.IsAnyIdent() {
		return false, err
	}
	_, _ = p.tok.Advance()
	next, err := p.tok.Lookahead()
	if err != nil {
		return false, err
	}
	return next == nil || next.IsSymbol('=') || next.IsSymbol(';') || next.IsSymbol('?'), nil
}

var scalarTypes = map[string]schema.Scalar{
	"int8":     schema.TypeInt8,
	"int32":    schema.TypeInt32,
	"int64":    schema.TypeInt64,
	"uint8":    schema.TypeUint8,
	"uint32":   schema.TypeUint32,
	"uint64":   schema.TypeUint64,
	"bool":     schema.TypeBool,
	"string":   schema.TypeString,
	"bytes":    schema.TypeBytes,
	"float":    schema.TypeFloat32,
	"float32":  schema.TypeFloat32,
	"double":   schema.TypeFloat64,
	"float64":  schema.TypeFloat64,
	"datetime": schema.TypeDatetime,
}

func (p *parser) parseFieldType() (schema.FieldType, error) {
	tok, err := p.tok.LookaheadSome()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.IsSymbol('['):
		_, _ = p.tok.Advance()
		elem, err := p.parseFieldType()
		if err != nil {
			return nil, err
		}
		return schema.Array{Elem: elem}, p.tok.NextSymbolExpectEq(']')

	case tok.IsIdent("map"):
		m := p.tok.Mark()
		_, _ = p.tok.Advance()
		ok, err := p.tok.NextSymbolIfEq('<')
		if err != nil {
			return nil, err
		}
		if ok {
			return p.parseMapType()
		}
		// a message or enum named "map"
		p.tok.Rewind(m)

	case tok.Kind == TokenIdent:
		if s, ok := scalarTypes[tok.Text]; ok {
			_, _ = p.tok.Advance()
			return s, nil
		}
	}

	name, err := p.parseFullIdent()
	if err != nil {
		return nil, err
	}
	return schema.ObjectOrEnum{Name: schema.NewIdent(name)}, nil
}

// parseMapType reads the rest of a map type after "map<".
func (p *parser) parseMapType() (schema.FieldType, error) {
	if _, err := p.tok.LookaheadSome(); err != nil {
		return nil, err
	}
	keyPos := p.tok.Loc()
	key, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}
	if !key.IsInteger() && key != schema.TypeString {
		return nil, reporter.Error(keyPos, newError(MapKeyType, "%v", key))
	}
	if err := p.tok.NextSymbolExpectEq(','); err != nil {
		return nil, err
	}
	value, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}
	return schema.Map{Key: key, Value: value}, p.tok.NextSymbolExpectEq('>')
}

// parseField reads a field of a message that already has count fields.
// Numbers already taken in the message are in used.
func (p *parser) parseField(count int, used map[uint32]struct{}) (schema.Field, error) {
	attrs := p.takeAttributes()
	start, err := p.tok.LookaheadSome()
	if err != nil {
		return schema.Field{}, err
	}

	label, err := p.parseLabel()
	if err != nil {
		return schema.Field{}, err
	}
	typ, err := p.parseFieldType()
	if err != nil {
		return schema.Field{}, err
	}
	if label == "repeated" {
		if _, ok := typ.(schema.Array); ok {
			return schema.Field{}, reporter.Error(start.Pos, newError(RepeatedArray, ""))
		}
		typ = schema.Array{Elem: typ}
	}

	name, err := p.tok.NextIdent()
	if err != nil {
		return schema.Field{}, err
	}
	optional := label == "optional"
	if q, err := p.tok.NextSymbolIfEq('?'); err != nil {
		return schema.Field{}, err
	} else if q {
		optional = true
	}

	var number uint64
	if eq, err := p.tok.NextSymbolIfEq('='); err != nil {
		return schema.Field{}, err
	} else if eq {
		if number, err = p.tok.NextIntLit(); err != nil {
			return schema.Field{}, err
		}
		if number > math.MaxUint32 {
			return schema.Field{}, newError(IntegerOverflow, "field number %d", number)
		}
	}
	if err := p.tok.NextSymbolExpectEq(';'); err != nil {
		return schema.Field{}, err
	}

	if number == 0 {
		number = uint64(count) + 1
	}
	if _, ok := used[uint32(number)]; ok {
		return schema.Field{}, reporter.Error(start.Pos, newError(DuplicateFieldNumber, "%d", number))
	}
	used[uint32(number)] = struct{}{}

	return schema.Field{
		Name:       name,
		Optional:   optional,
		Type:       typ,
		Number:     uint32(number),
		Attributes: append(schema.Attributes{schema.SourceAttribute(start.Pos.Line, start.Pos.Col)}, attrs...),
	}, nil
}

// parseBlockStart reads a declaration's name and opening brace, returning
// the name and where the brace is.
func (p *parser) parseBlockStart(keyword string) (string, ast.SourcePos, error) {
	if err := p.tok.NextIdentExpectEq(keyword); err != nil {
		return "", ast.SourcePos{}, err
	}
	name, err := p.tok.NextIdent()
	if err != nil {
		return "", ast.SourcePos{}, err
	}
	open, err := p.tok.LookaheadSome()
	if err != nil {
		return "", ast.SourcePos{}, err
	}
	return name, open.Pos, p.tok.NextSymbolExpectEq('{')
}

func (p *parser) parseMessage() (schema.Message, error) {
	attrs := p.takeAttributes()
	name, pos, err := p.parseBlockStart("message")
	if err != nil {
		return schema.Message{}, err
	}
	msg := schema.Message{
		Name:     schema.Ident{Name: name},
		Fields:   []schema.Field{},
		Messages: []schema.Message{},
		Enums:    []schema.Enumeration{},
	}
	var options schema.Attributes
	used := make(map[uint32]struct{})

	for {
		tok, err := p.tok.LookaheadSome()
		if err != nil {
			return schema.Message{}, err
		}
		switch {
		case tok.IsSymbol('}'):
			if err := p.checkNoPending(); err != nil {
				return schema.Message{}, err
			}
			_, _ = p.tok.Advance()
			msg.Attributes = append(schema.Attributes{schema.SourceAttribute(pos.Line, pos.Col)}, options...)
			msg.Attributes = append(msg.Attributes, attrs...)
			return msg, nil

		case tok.IsSymbol('@'):
			attr, err := p.parseAttribute()
			if err != nil {
				return schema.Message{}, err
			}
			p.pending = append(p.pending, attr)

		case tok.IsSymbol(';'):
			if err := p.checkNoPending(); err != nil {
				return schema.Message{}, err
			}
			_, _ = p.tok.Advance()

		case tok.IsIdent("option"):
			if err := p.checkNoPending(); err != nil {
				return schema.Message{}, err
			}
			opt, err := p.parseOption()
			if err != nil {
				return schema.Message{}, err
			}
			options = append(options, opt)

		case tok.IsIdent("message"):
			nested, err := p.parseMessage()
			if err != nil {
				return schema.Message{}, err
			}
			msg.Messages = append(msg.Messages, nested)

		case tok.IsIdent("enum"):
			enum, err := p.parseEnum()
			if err != nil {
				return schema.Message{}, err
			}
			msg.Enums = append(msg.Enums, enum)

		default:
			field, err := p.parseField(len(msg.Fields), used)
			if err != nil {
				return schema.Message{}, err
			}
			msg.Fields = append(msg.Fields, field)
		}
	}
}

func (p *parser) parseEnum() (schema.Enumeration, error) {
	attrs := p.takeAttributes()
	name, pos, err := p.parseBlockStart("enum")
	if err != nil {
		return schema.Enumeration{}, err
	}
	enum := schema.Enumeration{Name: name, Values: []schema.EnumValue{}}
	var options schema.Attributes

	for {
		tok, err := p.tok.LookaheadSome()
		if err != nil {
			return schema.Enumeration{}, err
		}
		switch {
		case tok.IsSymbol('}'):
			if err := p.checkNoPending(); err != nil {
				return schema.Enumeration{}, err
			}
			_, _ = p.tok.Advance()
			enum.Attributes = append(schema.Attributes{schema.SourceAttribute(pos.Line, pos.Col)}, options...)
			enum.Attributes = append(enum.Attributes, attrs...)
			return enum, nil

		case tok.IsSymbol('@'):
			attr, err := p.parseAttribute()
			if err != nil {
				return schema.Enumeration{}, err
			}
			p.pending = append(p.pending, attr)

		case tok.IsSymbol(';'):
			if err := p.checkNoPending(); err != nil {
				return schema.Enumeration{}, err
			}
			_, _ = p.tok.Advance()

		case tok.IsIdent("option"):
			if err := p.checkNoPending(); err != nil {
				return schema.Enumeration{}, err
			}
			opt, err := p.parseOption()
			if err != nil {
				return schema.Enumeration{}, err
			}
			options = append(options, opt)

		default:
			value, err := p.parseEnumValue()
			if err != nil {
				return schema.Enumeration{}, err
			}
			enum.Values = append(enum.Values, value)
		}
	}
}

func (p *parser) parseEnumValue() (schema.EnumValue, error) {
	attrs := p.takeAttributes()
	if attrs == nil {
		attrs = schema.Attributes{}
	}
	name, err := p.tok.NextIdent()
	if err != nil {
		return schema.EnumValue{}, err
	}
	if err := p.tok.NextSymbolExpectEq('='); err != nil {
		return schema.EnumValue{}, err
	}
	negative, err := p.tok.NextSymbolIfEq('-')
	if err != nil {
		return schema.EnumValue{}, err
	}
	u, err := p.tok.NextIntLit()
	if err != nil {
		return schema.EnumValue{}, err
	}
	var number int64
	if negative {
		if u > -math.MinInt32 {
			return schema.EnumValue{}, newError(IntegerOverflow, "enum value -%d", u)
		}
		number = -int64(u)
	} else {
		if u > math.MaxInt32 {
			return schema.EnumValue{}, newError(IntegerOverflow, "enum value %d", u)
		}
		number = int64(u)
	}
	if _, err := p.tok.NextSymbolIfEq(';'); err != nil {
		return schema.EnumValue{}, err
	}
	return schema.EnumValue{Name: name, Number: int32(number), Attributes: attrs}, nil
}

func (p *parser) parseService() (schema.Service, error) {
	attrs := p.takeAttributes()
	start, err := p.tok.LookaheadSome()
	if err != nil {
		return schema.Service{}, err
	}
	name, _, err := p.parseBlockStart("service")
	if err != nil {
		return schema.Service{}, err
	}
	svc := schema.Service{
		Name:       schema.Ident{Name: name},
		Methods:    []schema.Method{},
		Attributes: append(schema.Attributes{schema.SourceAttribute(start.Pos.Line, start.Pos.Col)}, attrs...),
	}

	for {
		tok, err := p.tok.LookaheadSome()
		if err != nil {
			return schema.Service{}, err
		}
		switch {
		case tok.IsSymbol('}'):
			if err := p.checkNoPending(); err != nil {
				return schema.Service{}, err
			}
			_, _ = p.tok.Advance()
			return svc, nil

		case tok.IsSymbol('@'):
			attr, err := p.parseAttribute()
			if err != nil {
				return schema.Service{}, err
			}
			p.pending = append(p.pending, attr)

		case tok.IsSymbol(';'):
			if err := p.checkNoPending(); err != nil {
				return schema.Service{}, err
			}
			_, _ = p.tok.Advance()

		case tok.IsIdent("rpc"):
			method, err := p.parseRPC()
			if err != nil {
				return schema.Service{}, err
			}
			svc.Methods = append(svc.Methods, method)

		default:
			return schema.Service{}, newError(IncorrectInput, "unexpected %v in service %s", tok, name)
		}
	}
}

func (p *parser) parseRPC() (schema.Method, error) {
	attrs := p.takeAttributes()
	if attrs == nil {
		attrs = schema.Attributes{}
	}
	if err := p.tok.NextIdentExpectEq("rpc"); err != nil {
		return schema.Method{}, err
	}
	name, err := p.tok.NextIdent()
	if err != nil {
		return schema.Method{}, err
	}
	if err := p.tok.NextSymbolExpectEq('('); err != nil {
		return schema.Method{}, err
	}
	input, err := p.parseOptionalType()
	if err != nil {
		return schema.Method{}, err
	}
	if err := p.tok.NextSymbolExpectEq(')'); err != nil {
		return schema.Method{}, err
	}

	var output schema.FieldType
	returns, err := p.tok.NextFnReturns()
	if err != nil {
		return schema.Method{}, err
	}
	if returns {
		paren, err := p.tok.NextSymbolIfEq('(')
		if err != nil {
			return schema.Method{}, err
		}
		if paren {
			if output, err = p.parseOptionalType(); err != nil {
				return schema.Method{}, err
			}
			if err := p.tok.NextSymbolExpectEq(')'); err != nil {
				return schema.Method{}, err
			}
		} else if output, err = p.parseFieldType(); err != nil {
			return schema.Method{}, err
		}
	}
	if err := p.tok.NextSymbolExpectEq(';'); err != nil {
		return schema.Method{}, err
	}
	return schema.Method{Name: name, InputType: input, OutputType: output, Attributes: attrs}, nil
}

// parseOptionalType reads a type unless the next token is ')'.
func (p *parser) parseOptionalType() (schema.FieldType, error) {
	closing, err := p.tok.LookaheadIsSymbol(')')
	if err != nil || closing {
		return nil, err
	}
	return p.parseFieldType()
}
