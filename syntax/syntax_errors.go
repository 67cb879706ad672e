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
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

type Error struct {
	code    uint32
	message string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() Span {
	return err.span
}

func errSourceTooLong(srcLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, lenUint32},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(tokenLen) < math.MaxUint32 {
		lenUint32 = uint32(tokenLen)
	}
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, lenUint32},
	}
}

func errNumLitInvalid(start uint32, token []byte) error {
	tokenLen := uint32(math.MaxUint32)
	if uint64(len(token)) < math.MaxUint32 {
		tokenLen = uint32(len(token))
	}
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid numeric literal %q", token),
		span:    Span{start, tokenLen},
	}
}

func errNumLitOverflow(start uint32, token string) error {
	return &Error{
		code:    1006,
		message: fmt.Sprintf("Numeric literal %q overflows its type", token),
		span:    Span{start, uint32(len(token))},
	}
}

func errTextLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1007,
		message: "Unterminated string literal",
		span:    Span{start, tokenLen},
	}
}

// errExpectedToken reports a recognition failure: the display names of
// every token the parser would have accepted, joined by " or ", plus
// the text of the token actually seen. End of input displays as
// '<EOF>'.
func errExpectedToken(gotKind TokenKind, gotToken string, span Span, want ...TokenKind) error {
	displays := make([]string, len(want))
	for ii, kind := range want {
		displays[ii] = kind.display()
	}
	got := fmt.Sprintf("%q", gotToken)
	if gotKind == T_EOF {
		got = "'<EOF>'"
	}
	return &Error{
		code: 2000,
		message: fmt.Sprintf(
			"Expected %s, got %s",
			strings.Join(displays, " or "), got,
		),
		span: span,
	}
}

func errExpectedDeclaration(gotKind TokenKind, gotToken string, span Span) error {
	got := fmt.Sprintf("%q", gotToken)
	if gotKind == T_EOF {
		got = "'<EOF>'"
	}
	return &Error{
		code:    2001,
		message: fmt.Sprintf("Expected declaration, got %s", got),
		span:    span,
	}
}

func errExpectedExpr(gotKind TokenKind, gotToken string, span Span) error {
	got := fmt.Sprintf("%q", gotToken)
	if gotKind == T_EOF {
		got = "'<EOF>'"
	}
	return &Error{
		code:    2002,
		message: fmt.Sprintf("Expected expression, got %s", got),
		span:    span,
	}
}

func errExpectedAssignment(gotKind TokenKind, gotToken string, span Span) error {
	got := fmt.Sprintf("%q", gotToken)
	if gotKind == T_EOF {
		got = "'<EOF>'"
	}
	return &Error{
		code:    2003,
		message: fmt.Sprintf("Expected 'delete' or 'null' or type, got %s", got),
		span:    span,
	}
}

func errPlaceNotPositive(place int32, span Span) error {
	return &Error{
		code:    2004,
		message: fmt.Sprintf("Place tag @%d must be a positive integer", place),
		span:    span,
	}
}
