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
	"fmt"

	"github.com/libla/SDDL/syntax"
)

// An Error is a compilation diagnostic. Path is rendered relative to
// the working directory the compiler was started from; Line is the
// 1-based source line of the construct at fault. The compiler stops at
// the first Error, so callers see at most one.
type Error struct {
	code    uint32
	message string
	path    string
	line    int
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	if err.path == "" {
		return err.message
	}
	if err.line <= 0 {
		return fmt.Sprintf("%s: %s", err.path, err.message)
	}
	return fmt.Sprintf("%s:%d: %s", err.path, err.line, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Path() string {
	return err.path
}

func (err *Error) Line() int {
	return err.line
}

func errReadFile(path string, cause error) error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("cannot read schema file: %v", cause),
		path:    path,
	}
}

func errParse(fc *fileCtx, cause *syntax.Error) error {
	span := cause.Span()
	return &Error{
		code:    3001,
		message: cause.Message(),
		path:    fc.display,
		line:    fc.lines.LineOfSpan(span),
	}
}

func errNameConflict(fc *fileCtx, node syntax.Node, name string) error {
	return &Error{
		code:    3002,
		message: fmt.Sprintf("name conflict: %q", name),
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errPlaceConflict(fc *fileCtx, node syntax.Node, place int32) error {
	return &Error{
		code:    3003,
		message: fmt.Sprintf("place conflict: @%d", place),
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errVariableNotFound(fc *fileCtx, node syntax.Node, name string) error {
	return &Error{
		code:    3004,
		message: fmt.Sprintf("variable %s could not be found", name),
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errCircularConstant(fc *fileCtx, node syntax.Node) error {
	return &Error{
		code:    3005,
		message: "unable to evaluate expression due to circular reference",
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errCannotConvert(fc *fileCtx, node syntax.Node, kindName string) error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("value cannot convert to '%s'", kindName),
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errTypeMismatch(fc *fileCtx, node syntax.Node) error {
	return &Error{
		code:    3007,
		message: "type mismatch in the expression",
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errTypeNotFound(fc *fileCtx, node syntax.Node, name string) error {
	return &Error{
		code:    3008,
		message: fmt.Sprintf("type '%s' could not be found", name),
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}

func errCircularMessage(fc *fileCtx, node syntax.Node) error {
	return &Error{
		code:    3009,
		message: "circular reference",
		path:    fc.display,
		line:    fc.lineOf(node),
	}
}
