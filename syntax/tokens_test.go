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

type strToken struct {
	kind    string
	content string
}

func scanAll(t *testing.T, src string) []strToken {
	t.Helper()

	tokens, err := syntax.NewTokens([]byte(src))
	testutil.AssertNoError(t, err)

	var got []strToken
	for {
		var token syntax.Token
		testutil.AssertNoError(t, tokens.Next(&token))
		if token.Kind == syntax.T_EOF {
			break
		}
		got = append(got, strToken{
			kind:    token.Kind.String(),
			content: src[:token.Len],
		})
		src = src[token.Len:]
	}
	return got
}

func TestSigils(t *testing.T) {
	t.Parallel()

	got := scanAll(t, "@;={}()[]")
	testutil.ExpectSliceEq(t, []strToken{
		{"AT", "@"},
		{"SEMI", ";"},
		{"EQ", "="},
		{"OPEN_CURL", "{"},
		{"CLOSE_CURL", "}"},
		{"OPEN_PAREN", "("},
		{"CLOSE_PAREN", ")"},
		{"OPEN_SQUARE", "["},
		{"CLOSE_SQUARE", "]"},
	}, got)
}

func TestOperators(t *testing.T) {
	t.Parallel()

	got := scanAll(t, "+ - * / % ^ .. < <= > >= == != ! && || ->")
	var kinds []string
	for _, token := range got {
		if token.kind == "SPACE" {
			continue
		}
		kinds = append(kinds, token.kind)
	}
	testutil.ExpectSliceEq(t, []string{
		"PLUS", "MINUS", "STAR", "SLASH", "PERCENT", "CARET",
		"CONCAT", "LT", "LE", "GT", "GE", "EQEQ", "NE",
		"NOT", "AND", "OR", "ARROW",
	}, kinds)
}

func TestNumLiterals(t *testing.T) {
	t.Parallel()

	got := scanAll(t, "0 42 0x7F 3.25 6.02e23 1.5e-3")
	var nums []strToken
	for _, token := range got {
		if token.kind == "SPACE" {
			continue
		}
		nums = append(nums, token)
	}
	testutil.ExpectSliceEq(t, []strToken{
		{"INT_LIT", "0"},
		{"INT_LIT", "42"},
		{"HEX_INT_LIT", "0x7F"},
		{"FLOAT_LIT", "3.25"},
		{"FLOAT_LIT", "6.02e23"},
		{"FLOAT_LIT", "1.5e-3"},
	}, nums)
}

func TestMinusBeforeNumber(t *testing.T) {
	t.Parallel()

	// The tokenizer never folds '-' into a literal; the parser decides
	// between subtraction and a negative literal.
	got := scanAll(t, "3-4")
	testutil.ExpectSliceEq(t, []strToken{
		{"INT_LIT", "3"},
		{"MINUS", "-"},
		{"INT_LIT", "4"},
	}, got)
}

func TestConcatBetweenTexts(t *testing.T) {
	t.Parallel()

	got := scanAll(t, `"a".."b"`)
	testutil.ExpectSliceEq(t, []strToken{
		{"TEXT_LIT", `"a"`},
		{"CONCAT", ".."},
		{"TEXT_LIT", `"b"`},
	}, got)
}

func TestTextLiterals(t *testing.T) {
	t.Parallel()

	got := scanAll(t, `"double" 'single' "esc\"aped"`)
	var texts []strToken
	for _, token := range got {
		if token.kind == "SPACE" {
			continue
		}
		texts = append(texts, token)
	}
	testutil.ExpectSliceEq(t, []strToken{
		{"TEXT_LIT", `"double"`},
		{"TEXT_LIT", `'single'`},
		{"TEXT_LIT", `"esc\"aped"`},
	}, texts)
}

func TestComments(t *testing.T) {
	t.Parallel()

	got := scanAll(t, "a # rest of line\nb")
	testutil.ExpectSliceEq(t, []strToken{
		{"IDENT", "a"},
		{"SPACE", " "},
		{"COMMENT", "# rest of line"},
		{"NEWLINE", "\n"},
		{"IDENT", "b"},
	}, got)
}

func TestIdents(t *testing.T) {
	t.Parallel()

	got := scanAll(t, "_name name2 Name_3")
	var idents []strToken
	for _, token := range got {
		if token.kind == "SPACE" {
			continue
		}
		idents = append(idents, token)
	}
	testutil.ExpectSliceEq(t, []strToken{
		{"IDENT", "_name"},
		{"IDENT", "name2"},
		{"IDENT", "Name_3"},
	}, idents)
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()

	tests := []string{
		"$",
		"&",
		"|",
		".",
		"\"unterminated",
		"'newline\n'",
		"1x",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			tokens, err := syntax.NewTokens([]byte(src))
			testutil.AssertNoError(t, err)
			for {
				var token syntax.Token
				err = tokens.Next(&token)
				if err != nil || token.Kind == syntax.T_EOF {
					break
				}
			}
			testutil.AssertError(t, err)
		})
	}
}
