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
	"math"

	"github.com/libla/SDDL/schema"
	"github.com/libla/SDDL/syntax"
)

// expr is an evaluable expression node. Each conversion attempt either
// produces a value of the requested kind or reports failure; nothing
// here returns an error, so evaluation can be retried under different
// target kinds. typeOf reports the statically resolvable result kind.
type expr interface {
	typeOf() (schema.Kind, bool)
	tryBool() (bool, bool)
	tryInt() (int32, bool)
	tryFloat() (float64, bool)
	tryString() (string, bool)
}

// evalAs evaluates an expression as a concrete value of the given
// kind.
func evalAs(e expr, kind schema.Kind) (schema.Value, bool) {
	switch kind {
	case schema.Kind_BOOL:
		if v, ok := e.tryBool(); ok {
			return schema.Bool(v), true
		}
	case schema.Kind_INT:
		if v, ok := e.tryInt(); ok {
			return schema.Int(v), true
		}
	case schema.Kind_FLOAT:
		if v, ok := e.tryFloat(); ok {
			return schema.Float(v), true
		}
	case schema.Kind_STRING:
		if v, ok := e.tryString(); ok {
			return schema.String(v), true
		}
	}
	return nil, false
}

// evalAuto infers the expression's kind and evaluates it.
func evalAuto(e expr) (schema.Value, bool) {
	kind, ok := e.typeOf()
	if !ok {
		return nil, false
	}
	return evalAs(e, kind)
}

type valueExpr struct {
	value schema.Value
}

var _ expr = (*valueExpr)(nil)

func (e *valueExpr) typeOf() (schema.Kind, bool) {
	if kind := e.value.Kind(); kind != schema.Kind_OTHER {
		return kind, true
	}
	return schema.Kind_NONE, false
}

func (e *valueExpr) tryBool() (bool, bool) { return e.value.TryBool() }

func (e *valueExpr) tryInt() (int32, bool) { return e.value.TryInt() }

func (e *valueExpr) tryFloat() (float64, bool) { return e.value.TryFloat() }

func (e *valueExpr) tryString() (string, bool) { return e.value.TryString() }

// refExpr is a late-bound reference to another constant in the same
// file. The target's value is installed by the collector before any
// dependent expression is evaluated; the topological evaluation order
// guarantees it.
type refExpr struct {
	target *constantExpr
}

var _ expr = (*refExpr)(nil)

func (e *refExpr) typeOf() (schema.Kind, bool) {
	if e.target.value == nil {
		return schema.Kind_NONE, false
	}
	return e.target.value.Kind(), true
}

func (e *refExpr) tryBool() (bool, bool) {
	if e.target.value == nil {
		return false, false
	}
	return e.target.value.TryBool()
}

func (e *refExpr) tryInt() (int32, bool) {
	if e.target.value == nil {
		return 0, false
	}
	return e.target.value.TryInt()
}

func (e *refExpr) tryFloat() (float64, bool) {
	if e.target.value == nil {
		return 0, false
	}
	return e.target.value.TryFloat()
}

func (e *refExpr) tryString() (string, bool) {
	if e.target.value == nil {
		return "", false
	}
	return e.target.value.TryString()
}

// arithExpr covers + - * / % ^. The result is Int when both operands
// type as Int, Float when either is Float.
type arithExpr struct {
	op       syntax.Op
	lhs, rhs expr
}

var _ expr = (*arithExpr)(nil)

func (e *arithExpr) typeOf() (schema.Kind, bool) {
	lhs, ok := e.lhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	rhs, ok := e.rhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	if lhs == schema.Kind_INT && rhs == schema.Kind_INT {
		return schema.Kind_INT, true
	}
	if (lhs == schema.Kind_INT || lhs == schema.Kind_FLOAT) &&
		(rhs == schema.Kind_INT || rhs == schema.Kind_FLOAT) {
		return schema.Kind_FLOAT, true
	}
	return schema.Kind_NONE, false
}

func (e *arithExpr) evalInt() (int32, bool) {
	lhs, ok := e.lhs.tryInt()
	if !ok {
		return 0, false
	}
	rhs, ok := e.rhs.tryInt()
	if !ok {
		return 0, false
	}
	switch e.op {
	case syntax.OP_ADD:
		return lhs + rhs, true
	case syntax.OP_SUB:
		return lhs - rhs, true
	case syntax.OP_MUL:
		return lhs * rhs, true
	case syntax.OP_DIV:
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case syntax.OP_MOD:
		if rhs == 0 {
			return 0, false
		}
		return lhs % rhs, true
	case syntax.OP_POW:
		return int32(math.Pow(float64(lhs), float64(rhs))), true
	default:
		return 0, false
	}
}

func (e *arithExpr) evalFloat() (float64, bool) {
	lhs, ok := e.lhs.tryFloat()
	if !ok {
		return 0, false
	}
	rhs, ok := e.rhs.tryFloat()
	if !ok {
		return 0, false
	}
	switch e.op {
	case syntax.OP_ADD:
		return lhs + rhs, true
	case syntax.OP_SUB:
		return lhs - rhs, true
	case syntax.OP_MUL:
		return lhs * rhs, true
	case syntax.OP_DIV:
		return lhs / rhs, true
	case syntax.OP_MOD:
		return math.Mod(lhs, rhs), true
	case syntax.OP_POW:
		return math.Pow(lhs, rhs), true
	default:
		return 0, false
	}
}

func (e *arithExpr) tryBool() (bool, bool) { return false, false }

func (e *arithExpr) tryInt() (int32, bool) {
	if kind, ok := e.typeOf(); ok && kind == schema.Kind_INT {
		return e.evalInt()
	}
	if v, ok := e.evalFloat(); ok {
		return schema.Float(v).TryInt()
	}
	return 0, false
}

func (e *arithExpr) tryFloat() (float64, bool) {
	if kind, ok := e.typeOf(); ok && kind == schema.Kind_INT {
		if v, ok := e.evalInt(); ok {
			return float64(v), true
		}
		return 0, false
	}
	return e.evalFloat()
}

func (e *arithExpr) tryString() (string, bool) { return "", false }

func isNumeric(kind schema.Kind) bool {
	return kind == schema.Kind_INT || kind == schema.Kind_FLOAT
}

// compareExpr covers < <= > >=. Float ordering shares Epsilon with
// equality: the strict forms require a gap of at least Epsilon, the
// inclusive forms accept a near-equal pair as equal.
type compareExpr struct {
	op       syntax.Op
	lhs, rhs expr
}

var _ expr = (*compareExpr)(nil)

func (e *compareExpr) typeOf() (schema.Kind, bool) {
	lhs, ok := e.lhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	rhs, ok := e.rhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	if isNumeric(lhs) && isNumeric(rhs) {
		return schema.Kind_BOOL, true
	}
	return schema.Kind_NONE, false
}

func (e *compareExpr) tryBool() (bool, bool) {
	lhsKind, ok := e.lhs.typeOf()
	if !ok {
		return false, false
	}
	rhsKind, ok := e.rhs.typeOf()
	if !ok {
		return false, false
	}
	if !isNumeric(lhsKind) || !isNumeric(rhsKind) {
		return false, false
	}

	if lhsKind == schema.Kind_INT && rhsKind == schema.Kind_INT {
		lhs, ok := e.lhs.tryInt()
		if !ok {
			return false, false
		}
		rhs, ok := e.rhs.tryInt()
		if !ok {
			return false, false
		}
		switch e.op {
		case syntax.OP_LT:
			return lhs < rhs, true
		case syntax.OP_LE:
			return lhs <= rhs, true
		case syntax.OP_GT:
			return lhs > rhs, true
		case syntax.OP_GE:
			return lhs >= rhs, true
		}
		return false, false
	}

	lhs, ok := e.lhs.tryFloat()
	if !ok {
		return false, false
	}
	rhs, ok := e.rhs.tryFloat()
	if !ok {
		return false, false
	}
	eq := floatEq(lhs, rhs)
	switch e.op {
	case syntax.OP_LT:
		return lhs < rhs && !eq, true
	case syntax.OP_LE:
		return lhs < rhs || eq, true
	case syntax.OP_GT:
		return lhs > rhs && !eq, true
	case syntax.OP_GE:
		return lhs > rhs || eq, true
	}
	return false, false
}

func (e *compareExpr) tryInt() (int32, bool) { return 0, false }

func (e *compareExpr) tryFloat() (float64, bool) { return 0, false }

func (e *compareExpr) tryString() (string, bool) { return "", false }

func floatEq(lhs, rhs float64) bool {
	diff := lhs - rhs
	return diff < schema.Epsilon && diff > -schema.Epsilon
}

// equalExpr covers == and !=. Operands must be a matched Bool pair,
// numeric pair, or String pair.
type equalExpr struct {
	negate   bool
	lhs, rhs expr
}

var _ expr = (*equalExpr)(nil)

func (e *equalExpr) typeOf() (schema.Kind, bool) {
	lhs, ok := e.lhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	rhs, ok := e.rhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	if lhs == schema.Kind_BOOL && rhs == schema.Kind_BOOL {
		return schema.Kind_BOOL, true
	}
	if lhs == schema.Kind_STRING && rhs == schema.Kind_STRING {
		return schema.Kind_BOOL, true
	}
	if isNumeric(lhs) && isNumeric(rhs) {
		return schema.Kind_BOOL, true
	}
	return schema.Kind_NONE, false
}

func (e *equalExpr) tryBool() (bool, bool) {
	lhsKind, ok := e.lhs.typeOf()
	if !ok {
		return false, false
	}
	rhsKind, ok := e.rhs.typeOf()
	if !ok {
		return false, false
	}

	var eq bool
	switch {
	case lhsKind == schema.Kind_BOOL && rhsKind == schema.Kind_BOOL:
		lhs, lhsOk := e.lhs.tryBool()
		rhs, rhsOk := e.rhs.tryBool()
		if !lhsOk || !rhsOk {
			return false, false
		}
		eq = lhs == rhs
	case lhsKind == schema.Kind_STRING && rhsKind == schema.Kind_STRING:
		lhs, lhsOk := e.lhs.tryString()
		rhs, rhsOk := e.rhs.tryString()
		if !lhsOk || !rhsOk {
			return false, false
		}
		eq = lhs == rhs
	case lhsKind == schema.Kind_INT && rhsKind == schema.Kind_INT:
		lhs, lhsOk := e.lhs.tryInt()
		rhs, rhsOk := e.rhs.tryInt()
		if !lhsOk || !rhsOk {
			return false, false
		}
		eq = lhs == rhs
	case isNumeric(lhsKind) && isNumeric(rhsKind):
		lhs, lhsOk := e.lhs.tryFloat()
		rhs, rhsOk := e.rhs.tryFloat()
		if !lhsOk || !rhsOk {
			return false, false
		}
		eq = floatEq(lhs, rhs)
	default:
		return false, false
	}
	if e.negate {
		return !eq, true
	}
	return eq, true
}

func (e *equalExpr) tryInt() (int32, bool) { return 0, false }

func (e *equalExpr) tryFloat() (float64, bool) { return 0, false }

func (e *equalExpr) tryString() (string, bool) { return "", false }

type logicExpr struct {
	and      bool
	lhs, rhs expr
}

var _ expr = (*logicExpr)(nil)

func (e *logicExpr) typeOf() (schema.Kind, bool) {
	lhs, ok := e.lhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	rhs, ok := e.rhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	if lhs == schema.Kind_BOOL && rhs == schema.Kind_BOOL {
		return schema.Kind_BOOL, true
	}
	return schema.Kind_NONE, false
}

func (e *logicExpr) tryBool() (bool, bool) {
	lhs, ok := e.lhs.tryBool()
	if !ok {
		return false, false
	}
	rhs, ok := e.rhs.tryBool()
	if !ok {
		return false, false
	}
	if e.and {
		return lhs && rhs, true
	}
	return lhs || rhs, true
}

func (e *logicExpr) tryInt() (int32, bool) { return 0, false }

func (e *logicExpr) tryFloat() (float64, bool) { return 0, false }

func (e *logicExpr) tryString() (string, bool) { return "", false }

type notExpr struct {
	operand expr
}

var _ expr = (*notExpr)(nil)

func (e *notExpr) typeOf() (schema.Kind, bool) {
	kind, ok := e.operand.typeOf()
	if !ok || kind != schema.Kind_BOOL {
		return schema.Kind_NONE, false
	}
	return schema.Kind_BOOL, true
}

func (e *notExpr) tryBool() (bool, bool) {
	v, ok := e.operand.tryBool()
	if !ok {
		return false, false
	}
	return !v, true
}

func (e *notExpr) tryInt() (int32, bool) { return 0, false }

func (e *notExpr) tryFloat() (float64, bool) { return 0, false }

func (e *notExpr) tryString() (string, bool) { return "", false }

type concatExpr struct {
	lhs, rhs expr
}

var _ expr = (*concatExpr)(nil)

func (e *concatExpr) typeOf() (schema.Kind, bool) {
	lhs, ok := e.lhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	rhs, ok := e.rhs.typeOf()
	if !ok {
		return schema.Kind_NONE, false
	}
	if lhs == schema.Kind_STRING && rhs == schema.Kind_STRING {
		return schema.Kind_STRING, true
	}
	return schema.Kind_NONE, false
}

func (e *concatExpr) tryBool() (bool, bool) { return false, false }

func (e *concatExpr) tryInt() (int32, bool) { return 0, false }

func (e *concatExpr) tryFloat() (float64, bool) { return 0, false }

func (e *concatExpr) tryString() (string, bool) {
	lhs, ok := e.lhs.tryString()
	if !ok {
		return "", false
	}
	rhs, ok := e.rhs.tryString()
	if !ok {
		return "", false
	}
	return lhs + rhs, true
}

// newBinaryExpr maps a parsed binary operator onto the matching
// evaluation node.
func newBinaryExpr(op syntax.Op, lhs, rhs expr) expr {
	switch op {
	case syntax.OP_OR:
		return &logicExpr{and: false, lhs: lhs, rhs: rhs}
	case syntax.OP_AND:
		return &logicExpr{and: true, lhs: lhs, rhs: rhs}
	case syntax.OP_EQ:
		return &equalExpr{negate: false, lhs: lhs, rhs: rhs}
	case syntax.OP_NE:
		return &equalExpr{negate: true, lhs: lhs, rhs: rhs}
	case syntax.OP_LT, syntax.OP_LE, syntax.OP_GT, syntax.OP_GE:
		return &compareExpr{op: op, lhs: lhs, rhs: rhs}
	case syntax.OP_CONCAT:
		return &concatExpr{lhs: lhs, rhs: rhs}
	default:
		return &arithExpr{op: op, lhs: lhs, rhs: rhs}
	}
}
