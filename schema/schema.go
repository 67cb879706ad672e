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

// Package schema defines the resolved form of an SDDL schema: the four
// public definition tables produced by the compiler and consumed by
// emission targets.
package schema

import (
	"fmt"
)

type Kind uint8

const (
	Kind_NONE Kind = iota
	Kind_BOOL
	Kind_INT
	Kind_FLOAT
	Kind_STRING
	Kind_OTHER
	Kind_NULL
)

func (k Kind) String() string {
	switch k {
	case Kind_NONE:
		return "none"
	case Kind_BOOL:
		return "boolean"
	case Kind_INT:
		return "integer"
	case Kind_FLOAT:
		return "number"
	case Kind_STRING:
		return "string"
	case Kind_OTHER:
		return "other"
	case Kind_NULL:
		return "null"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Epsilon is the gap below which two floating-point values compare as
// equal, and within which a float converts to an integer. The value is
// the machine epsilon of IEEE-754 doubles; back-ends and the expression
// evaluator must share it so that results are deterministic.
const Epsilon = 2.2204460492503131e-16

// A Value is a resolved constant: one of Bool, Int, Float, String, or
// Other. Other marks a reference to a user-defined type and never
// appears in the public constant table.
type Value interface {
	Kind() Kind

	TryBool() (bool, bool)
	TryInt() (int32, bool)
	TryFloat() (float64, bool)
	TryString() (string, bool)
}

type Bool bool

func (Bool) Kind() Kind { return Kind_BOOL }

func (v Bool) TryBool() (bool, bool) { return bool(v), true }

func (Bool) TryInt() (int32, bool) { return 0, false }

func (Bool) TryFloat() (float64, bool) { return 0, false }

func (Bool) TryString() (string, bool) { return "", false }

type Int int32

func (Int) Kind() Kind { return Kind_INT }

func (Int) TryBool() (bool, bool) { return false, false }

func (v Int) TryInt() (int32, bool) { return int32(v), true }

func (v Int) TryFloat() (float64, bool) { return float64(v), true }

func (Int) TryString() (string, bool) { return "", false }

type Float float64

func (Float) Kind() Kind { return Kind_FLOAT }

func (Float) TryBool() (bool, bool) { return false, false }

func (v Float) TryInt() (int32, bool) {
	f := float64(v)
	if f > 2147483647 || f < -2147483648 {
		return 0, false
	}
	rounded := roundHalfAway(f)
	if diff := f - rounded; diff >= Epsilon || diff <= -Epsilon {
		return 0, false
	}
	return int32(rounded), true
}

func (v Float) TryFloat() (float64, bool) { return float64(v), true }

func (Float) TryString() (string, bool) { return "", false }

func roundHalfAway(v float64) float64 {
	if v < 0 {
		return float64(int64(v - 0.5))
	}
	return float64(int64(v + 0.5))
}

type String string

func (String) Kind() Kind { return Kind_STRING }

func (String) TryBool() (bool, bool) { return false, false }

func (String) TryInt() (int32, bool) { return 0, false }

func (String) TryFloat() (float64, bool) { return 0, false }

func (v String) TryString() (string, bool) { return string(v), true }

// Other names a user type that was not resolvable to a built-in kind.
type Other string

func (Other) Kind() Kind { return Kind_OTHER }

func (Other) TryBool() (bool, bool) { return false, false }

func (Other) TryInt() (int32, bool) { return 0, false }

func (Other) TryFloat() (float64, bool) { return 0, false }

func (Other) TryString() (string, bool) { return "", false }

func (v Other) TypeName() string { return string(v) }

type Option uint8

const (
	Option_REQUIRE Option = iota
	Option_OPTION
	Option_ARRAY
	Option_TABLE
)

func (o Option) String() string {
	switch o {
	case Option_REQUIRE:
		return "require"
	case Option_OPTION:
		return "option"
	case Option_ARRAY:
		return "array"
	case Option_TABLE:
		return "table"
	default:
		return fmt.Sprintf("Option(%d)", uint8(o))
	}
}

// An Entry is one field of a message. Default is non-nil only for
// entries of option REQUIRE whose kind is not OTHER.
type Entry struct {
	Name     string
	Place    int32
	Kind     Kind
	TypeName string
	Option   Option
	Default  Value
}

type Message struct {
	Name    string
	Entries []*Entry
}

// An Alias maps a name and place to a target kind within a typedef
// block. Kind_NULL records the explicit null sentinel.
type Alias struct {
	Name     string
	Place    int32
	Kind     Kind
	TypeName string
}

type Typedef struct {
	Name    string
	Aliases []*Alias
}

// A Call is one element of an rpc block. Request and Response are
// Kind_NONE when the corresponding side was omitted.
type Call struct {
	Name         string
	Place        int32
	Request      Kind
	RequestType  string
	Response     Kind
	ResponseType string
}

type Rpc struct {
	Name  string
	Calls []*Call
}

// A Schema holds the public definition tables for one compilation.
// Names are unique within each table; collisions across tables are not
// checked.
type Schema struct {
	Constants map[string]Value
	Messages  map[string]*Message
	Typedefs  map[string]*Typedef
	Rpcs      map[string]*Rpc
}

func NewSchema() *Schema {
	return &Schema{
		Constants: make(map[string]Value),
		Messages:  make(map[string]*Message),
		Typedefs:  make(map[string]*Typedef),
		Rpcs:      make(map[string]*Rpc),
	}
}
