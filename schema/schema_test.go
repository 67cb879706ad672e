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

package schema_test

import (
	"testing"

	"github.com/libla/SDDL/internal/testutil"
	"github.com/libla/SDDL/schema"
)

func TestBoolConversions(t *testing.T) {
	t.Parallel()

	v := schema.Bool(true)
	testutil.ExpectEq(t, schema.Kind_BOOL, v.Kind())

	b, ok := v.TryBool()
	testutil.ExpectTrue(t, ok)
	testutil.ExpectTrue(t, b)

	// Bool never converts to a numeric kind.
	_, ok = v.TryInt()
	testutil.ExpectFalse(t, ok)
	_, ok = v.TryFloat()
	testutil.ExpectFalse(t, ok)
	_, ok = v.TryString()
	testutil.ExpectFalse(t, ok)
}

func TestIntToFloatLossless(t *testing.T) {
	t.Parallel()

	v := schema.Int(-41)
	f, ok := v.TryFloat()
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, -41.0, f)

	i, ok := v.TryInt()
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, int32(-41), i)
}

func TestFloatToIntEpsilon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  float64
		wantOK bool
		want   int32
	}{
		{1.0, true, 1},
		{1.00000000000000001, true, 1},
		{-3.0, true, -3},
		{1.5, false, 0},
		{0.25, false, 0},
		{-1.5, false, 0},
		{1e12, false, 0},
	}
	for _, test := range tests {
		i, ok := schema.Float(test.value).TryInt()
		testutil.ExpectEq(t, test.wantOK, ok)
		if test.wantOK {
			testutil.ExpectEq(t, test.want, i)
		}
	}
}

func TestStringConversions(t *testing.T) {
	t.Parallel()

	v := schema.String("hello")
	s, ok := v.TryString()
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "hello", s)

	_, ok = v.TryInt()
	testutil.ExpectFalse(t, ok)
}

func TestOtherConvertsToNothing(t *testing.T) {
	t.Parallel()

	v := schema.Other("Item")
	testutil.ExpectEq(t, schema.Kind_OTHER, v.Kind())
	testutil.ExpectEq(t, "Item", v.TypeName())

	_, ok := v.TryBool()
	testutil.ExpectFalse(t, ok)
	_, ok = v.TryInt()
	testutil.ExpectFalse(t, ok)
	_, ok = v.TryFloat()
	testutil.ExpectFalse(t, ok)
	_, ok = v.TryString()
	testutil.ExpectFalse(t, ok)
}

func TestKindStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind schema.Kind
		want string
	}{
		{schema.Kind_NONE, "none"},
		{schema.Kind_BOOL, "boolean"},
		{schema.Kind_INT, "integer"},
		{schema.Kind_FLOAT, "number"},
		{schema.Kind_STRING, "string"},
		{schema.Kind_OTHER, "other"},
		{schema.Kind_NULL, "null"},
		{schema.Kind(255), "Kind(255)"},
	}
	for _, test := range tests {
		testutil.ExpectEq(t, test.want, test.kind.String())
	}
}
