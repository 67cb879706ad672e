// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package syntax tokenizes and parses SDDL schema sources into an
// abstract syntax tree. The parser performs no name resolution; see
// package compiler for semantics.
package syntax

func Parse(src []byte) (*File, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		src:    src,
		tokens: tokens,
	}
	return p.parseFile()
}

type parser struct {
	src    []byte
	tokens *Tokens

	haveToken bool
	token     Token
	text      string
	start     uint32

	cursor  uint32
	lastEnd uint32
}

// ensure loads the next non-trivia token. Whitespace, newlines, and
// comments are consumed silently; SDDL has no formatter and the parse
// tree does not preserve them.
func (p *parser) ensure() error {
	for !p.haveToken {
		if err := p.tokens.Next(&p.token); err != nil {
			return err
		}
		start := p.cursor
		p.cursor += uint32(p.token.Len)
		switch p.token.Kind {
		case T_SPACE, T_NEWLINE, T_COMMENT:
			continue
		}
		p.start = start
		p.text = string(p.src[start : start+uint32(p.token.Len)])
		p.haveToken = true
	}
	return nil
}

func (p *parser) consume() {
	p.lastEnd = p.start + uint32(p.token.Len)
	p.haveToken = false
}

func (p *parser) at(kind TokenKind) bool {
	if err := p.ensure(); err != nil {
		return false
	}
	return p.token.Kind == kind
}

func (p *parser) trySigil(kind TokenKind) bool {
	if !p.at(kind) {
		return false
	}
	p.consume()
	return true
}

func (p *parser) tokenSpan() Span {
	return Span{
		start: p.start,
		len:   uint32(p.token.Len),
	}
}

func (p *parser) sigil(kind TokenKind) error {
	if err := p.ensure(); err != nil {
		return err
	}
	if p.token.Kind != kind {
		return errExpectedToken(p.token.Kind, p.text, p.tokenSpan(), kind)
	}
	p.consume()
	return nil
}

func (p *parser) tryKeyword(keyword string) bool {
	if !p.at(T_IDENT) || p.text != keyword {
		return false
	}
	p.consume()
	return true
}

func (p *parser) ident() (*Ident, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	if p.token.Kind != T_IDENT {
		return nil, errExpectedToken(p.token.Kind, p.text, p.tokenSpan(), T_IDENT)
	}
	node := &Ident{
		raw:   p.text,
		start: p.start,
	}
	p.consume()
	return node, nil
}

func (p *parser) place() (*IntLit, error) {
	if err := p.sigil(T_AT); err != nil {
		return nil, err
	}
	if err := p.ensure(); err != nil {
		return nil, err
	}
	if p.token.Kind != T_INT_LIT {
		return nil, errExpectedToken(p.token.Kind, p.text, p.tokenSpan(), T_INT_LIT)
	}
	node, err := newIntLit(p.text, p.token.Kind, false, p.start)
	if err != nil {
		return nil, err
	}
	if node.Value() <= 0 {
		return nil, errPlaceNotPositive(node.Value(), node.Span())
	}
	p.consume()
	return node, nil
}

// skipSemis consumes optional ';' separators between items.
func (p *parser) skipSemis() {
	for p.trySigil(T_SEMI) {
	}
}

var constKinds = map[string]ConstKind{
	"auto":    CONST_AUTO,
	"local":   CONST_LOCAL,
	"boolean": CONST_BOOLEAN,
	"integer": CONST_INTEGER,
	"number":  CONST_NUMBER,
	"string":  CONST_STRING,
}

var builtinTypes = map[string]TypeKind{
	"boolean": TYPE_BOOLEAN,
	"integer": TYPE_INTEGER,
	"number":  TYPE_NUMBER,
	"string":  TYPE_STRING,
}

func (p *parser) parseFile() (*File, error) {
	file := &File{}

	if err := p.ensure(); err != nil {
		return nil, err
	}
	if p.tryKeyword("require") {
		if err := p.sigil(T_OPEN_CURL); err != nil {
			return nil, err
		}
		for {
			p.skipSemis()
			if p.trySigil(T_CLOSE_CURL) {
				break
			}
			if err := p.ensure(); err != nil {
				return nil, err
			}
			if p.token.Kind != T_TEXT_LIT {
				return nil, errExpectedToken(
					p.token.Kind, p.text, p.tokenSpan(),
					T_TEXT_LIT, T_CLOSE_CURL,
				)
			}
			file.requires = append(file.requires, newTextLit(p.text, p.start))
			p.consume()
		}
	}

	for {
		p.skipSemis()
		if err := p.ensure(); err != nil {
			return nil, err
		}
		if p.token.Kind == T_EOF {
			break
		}
		if p.token.Kind != T_IDENT {
			return nil, errExpectedDeclaration(p.token.Kind, p.text, p.tokenSpan())
		}

		if kind, ok := constKinds[p.text]; ok {
			decl, err := p.parseConstant(kind)
			if err != nil {
				return nil, err
			}
			file.consts = append(file.consts, decl)
			continue
		}

		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.ensure(); err != nil {
			return nil, err
		}
		switch p.token.Kind {
		case T_OPEN_CURL:
			decl, err := p.parseMessage(name)
			if err != nil {
				return nil, err
			}
			file.messages = append(file.messages, decl)
		case T_OPEN_SQUARE:
			decl, err := p.parseTypedef(name)
			if err != nil {
				return nil, err
			}
			file.typedefs = append(file.typedefs, decl)
		case T_OPEN_PAREN:
			decl, err := p.parseRpc(name)
			if err != nil {
				return nil, err
			}
			file.rpcs = append(file.rpcs, decl)
		default:
			return nil, errExpectedToken(
				p.token.Kind, p.text, p.tokenSpan(),
				T_OPEN_CURL, T_OPEN_SQUARE, T_OPEN_PAREN,
			)
		}
	}

	file.span = Span{
		start: 0,
		len:   p.lastEnd,
	}
	return file, nil
}

func (p *parser) parseConstant(kind ConstKind) (*Constant, error) {
	start := p.start
	p.consume() // the kind keyword

	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.sigil(T_EQ); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Constant{
		span:  Span{start, p.lastEnd - start},
		kind:  kind,
		name:  name,
		value: value,
	}, nil
}

func (p *parser) parseType() (*Type, error) {
	start := p.start
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	node := &Type{
		span: Span{start, p.lastEnd - start},
		kind: TYPE_NAMED,
		name: name,
	}
	if kind, ok := builtinTypes[name.Get()]; ok {
		node.kind = kind
		node.name = nil
	}
	return node, nil
}

func (p *parser) parseMessage(name *Ident) (*Message, error) {
	start := name.Span().Start()
	if err := p.sigil(T_OPEN_CURL); err != nil {
		return nil, err
	}

	var entries []*Entry
	for {
		p.skipSemis()
		if p.trySigil(T_CLOSE_CURL) {
			break
		}
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return &Message{
		span:    Span{start, p.lastEnd - start},
		name:    name,
		entries: entries,
	}, nil
}

func (p *parser) parseEntry() (*Entry, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	start := p.start

	type_, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	place, err := p.place()
	if err != nil {
		return nil, err
	}

	var assign *Assign
	if p.at(T_EQ) {
		assign, err = p.parseAssign()
		if err != nil {
			return nil, err
		}
	}
	return &Entry{
		span:   Span{start, p.lastEnd - start},
		type_:  type_,
		name:   name,
		place:  place,
		assign: assign,
	}, nil
}

func (p *parser) parseAssign() (*Assign, error) {
	start := p.start
	if err := p.sigil(T_EQ); err != nil {
		return nil, err
	}

	mode := ASSIGN_EXPR
	switch {
	case p.tryKeyword("delete"):
		mode = ASSIGN_DELETE
	case p.tryKeyword("option"):
		mode = ASSIGN_OPTION
	case p.tryKeyword("array"):
		mode = ASSIGN_ARRAY
	case p.tryKeyword("table"):
		mode = ASSIGN_TABLE
	}
	node := &Assign{mode: mode}
	if mode == ASSIGN_EXPR {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		node.expr = expr
	}
	node.span = Span{start, p.lastEnd - start}
	return node, nil
}

func (p *parser) parseTypedef(name *Ident) (*Typedef, error) {
	start := name.Span().Start()
	if err := p.sigil(T_OPEN_SQUARE); err != nil {
		return nil, err
	}

	var aliases []*Alias
	for {
		p.skipSemis()
		if p.trySigil(T_CLOSE_SQUARE) {
			break
		}
		alias, err := p.parseAlias()
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, alias)
	}
	return &Typedef{
		span:    Span{start, p.lastEnd - start},
		name:    name,
		aliases: aliases,
	}, nil
}

func (p *parser) parseAlias() (*Alias, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	start := p.start

	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	place, err := p.place()
	if err != nil {
		return nil, err
	}
	if err := p.sigil(T_EQ); err != nil {
		return nil, err
	}

	node := &Alias{
		name:  name,
		place: place,
	}
	switch {
	case p.tryKeyword("delete"):
		node.mode = ALIAS_DELETE
	case p.tryKeyword("null"):
		node.mode = ALIAS_NULL
	default:
		if !p.at(T_IDENT) {
			if err := p.ensure(); err != nil {
				return nil, err
			}
			return nil, errExpectedAssignment(p.token.Kind, p.text, p.tokenSpan())
		}
		type_, err := p.parseType()
		if err != nil {
			return nil, err
		}
		node.mode = ALIAS_TYPE
		node.type_ = type_
	}
	node.span = Span{start, p.lastEnd - start}
	return node, nil
}

func (p *parser) parseRpc(name *Ident) (*Rpc, error) {
	start := name.Span().Start()
	if err := p.sigil(T_OPEN_PAREN); err != nil {
		return nil, err
	}

	var calls []*Call
	for {
		p.skipSemis()
		if p.trySigil(T_CLOSE_PAREN) {
			break
		}
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return &Rpc{
		span:  Span{start, p.lastEnd - start},
		name:  name,
		calls: calls,
	}, nil
}

// parseCall parses `NAME @N = (delete | type? ('->' type)?)`. Request
// and response are both optional; which side a lone type binds to is
// decided by its position relative to the arrow.
func (p *parser) parseCall() (*Call, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	start := p.start

	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	place, err := p.place()
	if err != nil {
		return nil, err
	}
	if err := p.sigil(T_EQ); err != nil {
		return nil, err
	}

	node := &Call{
		name:  name,
		place: place,
	}
	if p.tryKeyword("delete") {
		node.deleted = true
	} else {
		if p.at(T_IDENT) {
			request, err := p.parseType()
			if err != nil {
				return nil, err
			}
			node.request = request
		}
		if p.trySigil(T_ARROW) {
			response, err := p.parseType()
			if err != nil {
				return nil, err
			}
			node.response = response
		}
	}
	node.span = Span{start, p.lastEnd - start}
	return node, nil
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseBinary(
	next func() (Expr, error),
	ops map[TokenKind]Op,
) (Expr, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for {
		if err := p.ensure(); err != nil {
			return nil, err
		}
		op, ok := ops[p.token.Kind]
		if !ok {
			return lhs, nil
		}
		p.consume()
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{
			op:  op,
			lhs: lhs,
			rhs: rhs,
		}
	}
}

var (
	orOps     = map[TokenKind]Op{T_OR: OP_OR}
	andOps    = map[TokenKind]Op{T_AND: OP_AND}
	eqOps     = map[TokenKind]Op{T_EQEQ: OP_EQ, T_NE: OP_NE}
	cmpOps    = map[TokenKind]Op{T_LT: OP_LT, T_LE: OP_LE, T_GT: OP_GT, T_GE: OP_GE}
	concatOps = map[TokenKind]Op{T_CONCAT: OP_CONCAT}
	addOps    = map[TokenKind]Op{T_PLUS: OP_ADD, T_MINUS: OP_SUB}
	mulOps    = map[TokenKind]Op{T_STAR: OP_MUL, T_SLASH: OP_DIV, T_PERCENT: OP_MOD}
)

func (p *parser) parseOr() (Expr, error) {
	return p.parseBinary(p.parseAnd, orOps)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.parseBinary(p.parseEquality, andOps)
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseComparison, eqOps)
}

func (p *parser) parseComparison() (Expr, error) {
	return p.parseBinary(p.parseConcat, cmpOps)
}

func (p *parser) parseConcat() (Expr, error) {
	return p.parseBinary(p.parseAdditive, concatOps)
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.parseBinary(p.parseMultiplicative, addOps)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseBinary(p.parseUnary, mulOps)
}

func (p *parser) parseUnary() (Expr, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	if p.token.Kind == T_NOT {
		start := p.start
		p.consume()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			op:      OP_NOT,
			operand: operand,
			start:   start,
		}, nil
	}
	return p.parsePower()
}

// parsePower parses the '^' level. Exponentiation is right
// associative: 2^3^2 is 2^(3^2).
func (p *parser) parsePower() (Expr, error) {
	lhs, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.at(T_CARET) {
		return lhs, nil
	}
	p.consume()
	rhs, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{
		op:  OP_POW,
		lhs: lhs,
		rhs: rhs,
	}, nil
}

func (p *parser) parseAtom() (Expr, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	switch p.token.Kind {
	case T_OPEN_PAREN:
		p.consume()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.sigil(T_CLOSE_PAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case T_MINUS:
		// A '-' in atom position must introduce a negative numeric
		// literal; general unary negation is not in the grammar.
		start := p.start
		p.consume()
		if err := p.ensure(); err != nil {
			return nil, err
		}
		switch p.token.Kind {
		case T_INT_LIT, T_HEX_INT_LIT:
			node, err := newIntLit(p.text, p.token.Kind, true, start)
			if err != nil {
				return nil, err
			}
			p.consume()
			return node, nil
		case T_FLOAT_LIT:
			node, err := newFloatLit(p.text, true, start)
			if err != nil {
				return nil, err
			}
			p.consume()
			return node, nil
		default:
			return nil, errExpectedToken(
				p.token.Kind, p.text, p.tokenSpan(),
				T_INT_LIT, T_FLOAT_LIT,
			)
		}
	case T_INT_LIT, T_HEX_INT_LIT:
		node, err := newIntLit(p.text, p.token.Kind, false, p.start)
		if err != nil {
			return nil, err
		}
		p.consume()
		return node, nil
	case T_FLOAT_LIT:
		node, err := newFloatLit(p.text, false, p.start)
		if err != nil {
			return nil, err
		}
		p.consume()
		return node, nil
	case T_TEXT_LIT:
		node := newTextLit(p.text, p.start)
		p.consume()
		return node, nil
	case T_IDENT:
		if p.text == "true" || p.text == "false" {
			node := &BoolLit{
				value: p.text == "true",
				start: p.start,
			}
			p.consume()
			return node, nil
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		return &NameExpr{name: name}, nil
	default:
		return nil, errExpectedExpr(p.token.Kind, p.text, p.tokenSpan())
	}
}
