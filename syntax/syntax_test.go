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

package syntax_test

import (
	"testing"

	"github.com/libla/SDDL/internal/testutil"
	"github.com/libla/SDDL/syntax"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	file, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)
	return file
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	file := parse(t, "")
	testutil.ExpectEq(t, 0, len(file.Constants()))
	testutil.ExpectEq(t, 0, len(file.Messages()))
}

func TestParseRequire(t *testing.T) {
	t.Parallel()

	file := parse(t, `require { "common.sddl" "types/items.sddl" }`)
	requires := file.Requires()
	testutil.ExpectEq(t, 2, len(requires))
	testutil.ExpectEq(t, "common.sddl", requires[0].Value())
	testutil.ExpectEq(t, "types/items.sddl", requires[1].Value())
}

func TestParseEmptyRequire(t *testing.T) {
	t.Parallel()

	file := parse(t, `require { }`)
	testutil.ExpectEq(t, 0, len(file.Requires()))
}

func TestParseConstant(t *testing.T) {
	t.Parallel()

	file := parse(t, "integer N = 2 + 3 * 4;")
	consts := file.Constants()
	testutil.ExpectEq(t, 1, len(consts))
	testutil.ExpectEq(t, syntax.CONST_INTEGER, consts[0].ConstKind())
	testutil.ExpectEq(t, "N", consts[0].Name().Get())

	// '+' is the root: 2 + (3 * 4).
	root, ok := consts[0].Value().(*syntax.BinaryExpr)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, syntax.OP_ADD, root.Op())
	rhs, ok := root.Rhs().(*syntax.BinaryExpr)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, syntax.OP_MUL, rhs.Op())
}

func TestParsePowerRightAssociative(t *testing.T) {
	t.Parallel()

	file := parse(t, "auto X = 2^3^2")
	root, ok := file.Constants()[0].Value().(*syntax.BinaryExpr)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, syntax.OP_POW, root.Op())

	lhs, ok := root.Lhs().(*syntax.IntLit)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, int32(2), lhs.Value())

	rhs, ok := root.Rhs().(*syntax.BinaryExpr)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, syntax.OP_POW, rhs.Op())
}

func TestParseNegativeLiterals(t *testing.T) {
	t.Parallel()

	file := parse(t, "auto A = -5; auto B = 3 - 4; number C = -2.5")
	consts := file.Constants()

	a, ok := consts[0].Value().(*syntax.IntLit)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, int32(-5), a.Value())

	b, ok := consts[1].Value().(*syntax.BinaryExpr)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, syntax.OP_SUB, b.Op())

	c, ok := consts[2].Value().(*syntax.FloatLit)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, -2.5, c.Value())
}

func TestParseHexLiteral(t *testing.T) {
	t.Parallel()

	file := parse(t, "auto A = 0x10; auto B = 0xFFFFFFFF")
	a := file.Constants()[0].Value().(*syntax.IntLit)
	testutil.ExpectEq(t, int32(16), a.Value())

	// Base-16 digits reinterpret as a signed 32-bit value.
	b := file.Constants()[1].Value().(*syntax.IntLit)
	testutil.ExpectEq(t, int32(-1), b.Value())
}

func TestParseIntegerOverflow(t *testing.T) {
	t.Parallel()

	_, err := syntax.Parse([]byte("auto A = 2147483648"))
	testutil.AssertError(t, err)

	_, err = syntax.Parse([]byte("auto A = -2147483648"))
	testutil.ExpectNoError(t, err)
}

func TestParseStringEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{`auto S = "a\tb"`, "a\tb"},
		{`auto S = "a\nb"`, "a\nb"},
		{`auto S = "a\rb"`, "a\rb"},
		{`auto S = "a\fb"`, "a\fb"},
		{`auto S = "a\\b"`, `a\b`},
		{`auto S = "a\"b"`, `a"b`},
		// A quirk of the escape table: \' decodes to '"'.
		{`auto S = "a\'b"`, `a"b`},
		// Unknown escapes drop the whole pair.
		{`auto S = "a\zb"`, "ab"},
		// \uXXXX is a single UTF-16 code unit.
		{`auto S = "a\u0041b"`, "aAb"},
		{`auto S = "\u4e2d"`, "中"},
		{`auto S = 'single "quotes" kept'`, `single "quotes" kept`},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			file := parse(t, test.src)
			lit, ok := file.Constants()[0].Value().(*syntax.TextLit)
			testutil.ExpectTrue(t, ok)
			testutil.ExpectEq(t, test.want, lit.Value())
		})
	}
}

func TestParseMessage(t *testing.T) {
	t.Parallel()

	file := parse(t, `
Item {
	integer id @1;
	string name @2 = "unnamed";
	Inner child @3;
	integer tags @4 = array;
	boolean flag @5 = option
	Inner rows @6 = table;
	integer gone @7 = delete;
}
`)
	messages := file.Messages()
	testutil.ExpectEq(t, 1, len(messages))
	testutil.ExpectEq(t, "Item", messages[0].Name().Get())

	entries := messages[0].Entries()
	testutil.ExpectEq(t, 7, len(entries))

	testutil.ExpectEq(t, syntax.TYPE_INTEGER, entries[0].Type().TypeKind())
	testutil.ExpectEq(t, int32(1), entries[0].Place().Value())
	testutil.ExpectTrue(t, entries[0].Assign() == nil)

	testutil.ExpectEq(t, syntax.ASSIGN_EXPR, entries[1].Assign().Mode())

	testutil.ExpectEq(t, syntax.TYPE_NAMED, entries[2].Type().TypeKind())
	testutil.ExpectEq(t, "Inner", entries[2].Type().Name().Get())

	testutil.ExpectEq(t, syntax.ASSIGN_ARRAY, entries[3].Assign().Mode())
	testutil.ExpectEq(t, syntax.ASSIGN_OPTION, entries[4].Assign().Mode())
	testutil.ExpectEq(t, syntax.ASSIGN_TABLE, entries[5].Assign().Mode())
	testutil.ExpectEq(t, syntax.ASSIGN_DELETE, entries[6].Assign().Mode())
}

func TestParseTypedef(t *testing.T) {
	t.Parallel()

	file := parse(t, `T [ a @1 = integer; b @2 = delete; c @3 = null; d @4 = Item ]`)
	typedefs := file.Typedefs()
	testutil.ExpectEq(t, 1, len(typedefs))

	aliases := typedefs[0].Aliases()
	testutil.ExpectEq(t, 4, len(aliases))
	testutil.ExpectEq(t, syntax.ALIAS_TYPE, aliases[0].Mode())
	testutil.ExpectEq(t, syntax.TYPE_INTEGER, aliases[0].Type().TypeKind())
	testutil.ExpectEq(t, syntax.ALIAS_DELETE, aliases[1].Mode())
	testutil.ExpectEq(t, syntax.ALIAS_NULL, aliases[2].Mode())
	testutil.ExpectEq(t, syntax.ALIAS_TYPE, aliases[3].Mode())
	testutil.ExpectEq(t, "Item", aliases[3].Type().Name().Get())
}

func TestParseRpc(t *testing.T) {
	t.Parallel()

	file := parse(t, `
Service (
	ping @1 = ;
	get @2 = Query -> Reply;
	push @3 = Event;
	poll @4 = -> Reply;
	old @5 = delete;
)
`)
	rpcs := file.Rpcs()
	testutil.ExpectEq(t, 1, len(rpcs))

	calls := rpcs[0].Calls()
	testutil.ExpectEq(t, 5, len(calls))

	testutil.ExpectTrue(t, calls[0].Request() == nil)
	testutil.ExpectTrue(t, calls[0].Response() == nil)

	testutil.ExpectEq(t, "Query", calls[1].Request().Name().Get())
	testutil.ExpectEq(t, "Reply", calls[1].Response().Name().Get())

	testutil.ExpectEq(t, "Event", calls[2].Request().Name().Get())
	testutil.ExpectTrue(t, calls[2].Response() == nil)

	testutil.ExpectTrue(t, calls[3].Request() == nil)
	testutil.ExpectEq(t, "Reply", calls[3].Response().Name().Get())

	testutil.ExpectTrue(t, calls[4].Deleted())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{"integer N 5", "Expected '='"},
		{"integer N =", "Expected expression, got '<EOF>'"},
		{"Item {", "got '<EOF>'"},
		{"require { 42 }", "Expected STRING or '}'"},
		{"Item { integer x @0; }", "must be a positive"},
		{"42", "Expected declaration"},
		{"Item = 5", "Expected '{' or '[' or '('"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := syntax.Parse([]byte(test.src))
			testutil.AssertError(t, err)
			parseErr := err.(*syntax.Error)
			testutil.ExpectContains(t, test.want, parseErr.Message())
		})
	}
}
