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

package syntax

import (
	"bytes"
	"strconv"
	"unicode/utf16"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

type Node interface {
	Span() Span
}

type Ident struct {
	raw   string
	start uint32
}

var _ Node = (*Ident)(nil)

func (n *Ident) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Ident) Get() string {
	return n.raw
}

type IntLit struct {
	raw   string
	value int32
	start uint32
}

var _ Node = (*IntLit)(nil)

func (n *IntLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *IntLit) Value() int32 {
	return n.value
}

// newIntLit decodes INTEGER and HEX literals. INTEGER is a signed
// 32-bit decimal; HEX is base-16 reinterpreted as a 32-bit signed
// integer, so 0xFFFFFFFF decodes to -1. Overflow is a parse error.
func newIntLit(token string, kind TokenKind, neg bool, start uint32) (*IntLit, error) {
	raw := token
	if neg {
		raw = "-" + token
	}
	if kind == T_HEX_INT_LIT {
		value, err := strconv.ParseUint(token[2:], 16, 32)
		if err != nil {
			return nil, errNumLitOverflow(start, raw)
		}
		v := int32(uint32(value))
		if neg {
			v = -v
		}
		return &IntLit{
			raw:   raw,
			value: v,
			start: start,
		}, nil
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, errNumLitOverflow(start, raw)
	}
	return &IntLit{
		raw:   raw,
		value: int32(value),
		start: start,
	}, nil
}

type FloatLit struct {
	raw   string
	value float64
	start uint32
}

var _ Node = (*FloatLit)(nil)

func (n *FloatLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *FloatLit) Value() float64 {
	return n.value
}

func newFloatLit(token string, neg bool, start uint32) (*FloatLit, error) {
	raw := token
	if neg {
		raw = "-" + token
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errNumLitOverflow(start, raw)
	}
	return &FloatLit{
		raw:   raw,
		value: value,
		start: start,
	}, nil
}

type BoolLit struct {
	value bool
	start uint32
}

var _ Node = (*BoolLit)(nil)

func (n *BoolLit) Span() Span {
	var rawLen uint32 = 5
	if n.value {
		rawLen = 4
	}
	return Span{
		start: n.start,
		len:   rawLen,
	}
}

func (n *BoolLit) Value() bool {
	return n.value
}

type TextLit struct {
	raw   string
	value string
	start uint32
}

var _ Node = (*TextLit)(nil)

func (n *TextLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *TextLit) Value() string {
	return n.value
}

// newTextLit strips the outer quotes and decodes escape pairs. \f \n
// \r \t \" and \\ decode to their usual bytes, \' decodes to '"' (the
// behavior the format has always had), \uXXXX decodes a four-hex-digit
// UTF-16 code unit, and any other \X is dropped.
func newTextLit(token string, start uint32) *TextLit {
	value := token[1 : len(token)-1]
	var buf bytes.Buffer
	for ii := 0; ii < len(value); ii++ {
		c := value[ii]
		if c != '\\' || ii+1 == len(value) {
			buf.WriteByte(c)
			continue
		}
		ii++
		switch value[ii] {
		case 'f':
			buf.WriteByte('\f')
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case '"':
			buf.WriteByte('"')
		case '\'':
			buf.WriteByte('"')
		case '\\':
			buf.WriteByte('\\')
		case 'u':
			if ii+4 < len(value) {
				var unit uint16
				ok := true
				for _, hc := range value[ii+1 : ii+5] {
					var digit uint16
					switch {
					case hc >= '0' && hc <= '9':
						digit = uint16(hc - '0')
					case hc >= 'a' && hc <= 'f':
						digit = uint16(hc-'a') + 10
					case hc >= 'A' && hc <= 'F':
						digit = uint16(hc-'A') + 10
					default:
						ok = false
					}
					unit = unit<<4 | digit
				}
				if ok {
					buf.WriteRune(utf16.Decode([]uint16{unit})[0])
					ii += 4
				}
			}
		default:
		}
	}
	return &TextLit{
		raw:   token,
		value: buf.String(),
		start: start,
	}
}

type Op uint8

const (
	OP_OR Op = iota
	OP_AND
	OP_EQ
	OP_NE
	OP_LT
	OP_LE
	OP_GT
	OP_GE
	OP_CONCAT
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_POW
	OP_NOT
)

type Expr interface {
	Node
}

type NameExpr struct {
	name *Ident
}

var _ Expr = (*NameExpr)(nil)

func (n *NameExpr) Span() Span {
	return n.name.Span()
}

func (n *NameExpr) Name() *Ident {
	return n.name
}

type UnaryExpr struct {
	op      Op
	operand Expr
	start   uint32
}

var _ Expr = (*UnaryExpr)(nil)

func (n *UnaryExpr) Span() Span {
	operand := n.operand.Span()
	return Span{
		start: n.start,
		len:   operand.End() - n.start,
	}
}

func (n *UnaryExpr) Op() Op {
	return n.op
}

func (n *UnaryExpr) Operand() Expr {
	return n.operand
}

type BinaryExpr struct {
	op       Op
	lhs, rhs Expr
}

var _ Expr = (*BinaryExpr)(nil)

func (n *BinaryExpr) Span() Span {
	lhs := n.lhs.Span()
	rhs := n.rhs.Span()
	return Span{
		start: lhs.Start(),
		len:   rhs.End() - lhs.Start(),
	}
}

func (n *BinaryExpr) Op() Op {
	return n.op
}

func (n *BinaryExpr) Lhs() Expr {
	return n.lhs
}

func (n *BinaryExpr) Rhs() Expr {
	return n.rhs
}

type ConstKind uint8

const (
	CONST_AUTO ConstKind = iota
	CONST_LOCAL
	CONST_BOOLEAN
	CONST_INTEGER
	CONST_NUMBER
	CONST_STRING
)

type Constant struct {
	span  Span
	kind  ConstKind
	name  *Ident
	value Expr
}

var _ Node = (*Constant)(nil)

func (n *Constant) Span() Span {
	return n.span
}

func (n *Constant) ConstKind() ConstKind {
	return n.kind
}

func (n *Constant) Name() *Ident {
	return n.name
}

func (n *Constant) Value() Expr {
	return n.value
}

type TypeKind uint8

const (
	TYPE_BOOLEAN TypeKind = iota
	TYPE_INTEGER
	TYPE_NUMBER
	TYPE_STRING
	TYPE_NAMED
)

// A Type is either a built-in kind or a reference to a user type, in
// which case Name is non-nil.
type Type struct {
	span Span
	kind TypeKind
	name *Ident
}

var _ Node = (*Type)(nil)

func (n *Type) Span() Span {
	return n.span
}

func (n *Type) TypeKind() TypeKind {
	return n.kind
}

func (n *Type) Name() *Ident {
	return n.name
}

type AssignMode uint8

const (
	ASSIGN_NONE AssignMode = iota
	ASSIGN_DELETE
	ASSIGN_OPTION
	ASSIGN_ARRAY
	ASSIGN_TABLE
	ASSIGN_EXPR
)

type Assign struct {
	span Span
	mode AssignMode
	expr Expr
}

var _ Node = (*Assign)(nil)

func (n *Assign) Span() Span {
	return n.span
}

func (n *Assign) Mode() AssignMode {
	return n.mode
}

func (n *Assign) Expr() Expr {
	return n.expr
}

type Entry struct {
	span   Span
	type_  *Type
	name   *Ident
	place  *IntLit
	assign *Assign
}

var _ Node = (*Entry)(nil)

func (n *Entry) Span() Span {
	return n.span
}

func (n *Entry) Type() *Type {
	return n.type_
}

func (n *Entry) Name() *Ident {
	return n.name
}

func (n *Entry) Place() *IntLit {
	return n.place
}

func (n *Entry) Assign() *Assign {
	return n.assign
}

type Message struct {
	span    Span
	name    *Ident
	entries []*Entry
}

var _ Node = (*Message)(nil)

func (n *Message) Span() Span {
	return n.span
}

func (n *Message) Name() *Ident {
	return n.name
}

func (n *Message) Entries() []*Entry {
	return n.entries
}

type AliasMode uint8

const (
	ALIAS_TYPE AliasMode = iota
	ALIAS_NULL
	ALIAS_DELETE
)

type Alias struct {
	span  Span
	name  *Ident
	place *IntLit
	mode  AliasMode
	type_ *Type
}

var _ Node = (*Alias)(nil)

func (n *Alias) Span() Span {
	return n.span
}

func (n *Alias) Name() *Ident {
	return n.name
}

func (n *Alias) Place() *IntLit {
	return n.place
}

func (n *Alias) Mode() AliasMode {
	return n.mode
}

func (n *Alias) Type() *Type {
	return n.type_
}

type Typedef struct {
	span    Span
	name    *Ident
	aliases []*Alias
}

var _ Node = (*Typedef)(nil)

func (n *Typedef) Span() Span {
	return n.span
}

func (n *Typedef) Name() *Ident {
	return n.name
}

func (n *Typedef) Aliases() []*Alias {
	return n.aliases
}

type Call struct {
	span     Span
	name     *Ident
	place    *IntLit
	deleted  bool
	request  *Type
	response *Type
}

var _ Node = (*Call)(nil)

func (n *Call) Span() Span {
	return n.span
}

func (n *Call) Name() *Ident {
	return n.name
}

func (n *Call) Place() *IntLit {
	return n.place
}

func (n *Call) Deleted() bool {
	return n.deleted
}

func (n *Call) Request() *Type {
	return n.request
}

func (n *Call) Response() *Type {
	return n.response
}

type Rpc struct {
	span  Span
	name  *Ident
	calls []*Call
}

var _ Node = (*Rpc)(nil)

func (n *Rpc) Span() Span {
	return n.span
}

func (n *Rpc) Name() *Ident {
	return n.name
}

func (n *Rpc) Calls() []*Call {
	return n.calls
}

type File struct {
	span     Span
	requires []*TextLit
	consts   []*Constant
	messages []*Message
	typedefs []*Typedef
	rpcs     []*Rpc
}

var _ Node = (*File)(nil)

func (n *File) Span() Span {
	return n.span
}

func (n *File) Requires() []*TextLit {
	return n.requires
}

func (n *File) Constants() []*Constant {
	return n.consts
}

func (n *File) Messages() []*Message {
	return n.messages
}

func (n *File) Typedefs() []*Typedef {
	return n.typedefs
}

func (n *File) Rpcs() []*Rpc {
	return n.rpcs
}
