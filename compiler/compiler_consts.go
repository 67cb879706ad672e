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

package compiler

import (
	"github.com/libla/SDDL/schema"
	"github.com/libla/SDDL/syntax"
)

// A constantExpr is one constant's descriptor. Descriptors are created
// on first mention, so a forward reference produces a stub (expr ==
// nil) that the defining declaration later fills in. refs records
// edges to same-file constants the expression mentions.
type constantExpr struct {
	name     string
	declared schema.Kind
	hide     bool
	expr     expr
	node     *syntax.Constant
	refNode  syntax.Node
	refs     map[string]*constantExpr
	value    schema.Value
}

type constCollector struct {
	c      *compiler
	fc     *fileCtx
	consts map[string]*constantExpr
}

func newConstCollector(c *compiler, fc *fileCtx) *constCollector {
	return &constCollector{
		c:      c,
		fc:     fc,
		consts: make(map[string]*constantExpr),
	}
}

// enter scans every constant declaration of the file, building
// descriptors and their dependency edges. Values are not evaluated
// here; declaration order within the file does not matter.
func (col *constCollector) enter() error {
	for _, node := range col.fc.file.Constants() {
		name := node.Name().Get()
		if _, conflict := col.c.schema.Constants[name]; conflict {
			return errNameConflict(col.fc, node.Name(), name)
		}
		ce := col.consts[name]
		if ce != nil && ce.expr != nil {
			return errNameConflict(col.fc, node.Name(), name)
		}
		if ce == nil {
			ce = &constantExpr{name: name}
			col.consts[name] = ce
		}
		ce.node = node
		ce.hide = node.ConstKind() == syntax.CONST_LOCAL
		switch node.ConstKind() {
		case syntax.CONST_BOOLEAN:
			ce.declared = schema.Kind_BOOL
		case syntax.CONST_INTEGER:
			ce.declared = schema.Kind_INT
		case syntax.CONST_NUMBER:
			ce.declared = schema.Kind_FLOAT
		case syntax.CONST_STRING:
			ce.declared = schema.Kind_STRING
		}

		built, err := col.buildExpr(node.Value(), ce)
		if err != nil {
			return err
		}
		ce.expr = built
	}
	return nil
}

// buildExpr translates a parsed expression into an evaluable tree.
// Identifier atoms resolve against the public constant table first;
// otherwise they bind to a same-file descriptor, creating a forward
// stub on first mention and recording a dependency edge on owner.
func (col *constCollector) buildExpr(
	node syntax.Expr,
	owner *constantExpr,
) (expr, error) {
	switch node := node.(type) {
	case *syntax.IntLit:
		return &valueExpr{value: schema.Int(node.Value())}, nil
	case *syntax.FloatLit:
		return &valueExpr{value: schema.Float(node.Value())}, nil
	case *syntax.TextLit:
		return &valueExpr{value: schema.String(node.Value())}, nil
	case *syntax.BoolLit:
		return &valueExpr{value: schema.Bool(node.Value())}, nil
	case *syntax.NameExpr:
		name := node.Name().Get()
		if value, ok := col.c.schema.Constants[name]; ok {
			return &valueExpr{value: value}, nil
		}
		target := col.consts[name]
		if target == nil {
			target = &constantExpr{
				name:    name,
				refNode: node,
			}
			col.consts[name] = target
		}
		if owner.refs == nil {
			owner.refs = make(map[string]*constantExpr)
		}
		owner.refs[name] = target
		return &refExpr{target: target}, nil
	case *syntax.UnaryExpr:
		operand, err := col.buildExpr(node.Operand(), owner)
		if err != nil {
			return nil, err
		}
		return &notExpr{operand: operand}, nil
	case *syntax.BinaryExpr:
		lhs, err := col.buildExpr(node.Lhs(), owner)
		if err != nil {
			return nil, err
		}
		rhs, err := col.buildExpr(node.Rhs(), owner)
		if err != nil {
			return nil, err
		}
		return newBinaryExpr(node.Op(), lhs, rhs), nil
	default:
		return nil, errTypeMismatch(col.fc, node)
	}
}

// collect validates the file's constants, evaluates them in dependency
// order, and installs each value into either the public table or the
// file-local table.
func (col *constCollector) collect() error {
	names := sortedKeys(col.consts)

	for _, name := range names {
		ce := col.consts[name]
		if ce.expr == nil {
			return errVariableNotFound(col.fc, ce.refNode, name)
		}
	}

	roots := make([]*constantExpr, 0, len(names))
	for _, name := range names {
		roots = append(roots, col.consts[name])
	}
	order, cycle, ok := topoSort(roots, func(ce *constantExpr) []*constantExpr {
		refNames := sortedKeys(ce.refs)
		refs := make([]*constantExpr, 0, len(refNames))
		for _, refName := range refNames {
			refs = append(refs, ce.refs[refName])
		}
		return refs
	})
	if !ok {
		return errCircularConstant(col.fc, cycle.node.Name())
	}

	for _, ce := range order {
		if ce.declared != schema.Kind_NONE {
			value, ok := evalAs(ce.expr, ce.declared)
			if !ok {
				return errCannotConvert(col.fc, ce.node.Name(), ce.declared.String())
			}
			ce.value = value
		} else {
			value, ok := evalAuto(ce.expr)
			if !ok {
				return errTypeMismatch(col.fc, ce.node.Name())
			}
			ce.value = value
		}
		if ce.hide {
			col.fc.locals[ce.name] = ce.value
		} else {
			col.c.schema.Constants[ce.name] = ce.value
		}
	}
	return nil
}
