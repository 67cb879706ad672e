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

// typeKind maps a parsed type reference onto its resolved kind. User
// types stay late-bound as Kind_OTHER plus the referenced name.
func typeKind(node *syntax.Type) (schema.Kind, string) {
	switch node.TypeKind() {
	case syntax.TYPE_BOOLEAN:
		return schema.Kind_BOOL, ""
	case syntax.TYPE_INTEGER:
		return schema.Kind_INT, ""
	case syntax.TYPE_NUMBER:
		return schema.Kind_FLOAT, ""
	case syntax.TYPE_STRING:
		return schema.Kind_STRING, ""
	default:
		return schema.Kind_OTHER, node.Name().Get()
	}
}

// collectTypedefs records the file's typedef blocks. There is no
// cross-typedef dependency resolution; each block validates its own
// place and name uniqueness and lands in the public table directly.
// Deleted aliases keep their place reserved but give up their name.
func (c *compiler) collectTypedefs(fc *fileCtx) error {
	for _, node := range fc.file.Typedefs() {
		name := node.Name().Get()
		if _, conflict := c.schema.Typedefs[name]; conflict {
			return errNameConflict(fc, node.Name(), name)
		}

		typedef := &schema.Typedef{Name: name}
		placeSeen := make(map[int32]struct{})
		nameSeen := make(map[string]struct{})
		for _, aliasNode := range node.Aliases() {
			place := aliasNode.Place().Value()
			if _, dupe := placeSeen[place]; dupe {
				return errPlaceConflict(fc, aliasNode.Place(), place)
			}
			placeSeen[place] = struct{}{}

			if aliasNode.Mode() == syntax.ALIAS_DELETE {
				continue
			}

			aliasName := aliasNode.Name().Get()
			if _, dupe := nameSeen[aliasName]; dupe {
				return errNameConflict(fc, aliasNode.Name(), aliasName)
			}
			nameSeen[aliasName] = struct{}{}

			alias := &schema.Alias{
				Name:  aliasName,
				Place: place,
			}
			if aliasNode.Mode() == syntax.ALIAS_NULL {
				alias.Kind = schema.Kind_NULL
			} else {
				alias.Kind, alias.TypeName = typeKind(aliasNode.Type())
			}
			typedef.Aliases = append(typedef.Aliases, alias)
		}
		c.schema.Typedefs[name] = typedef
	}
	return nil
}

// collectRpcs records the file's rpc blocks. A call's request and
// response types are each optional; which side a type binds to was
// decided by the parser from its position relative to the '->' token.
func (c *compiler) collectRpcs(fc *fileCtx) error {
	for _, node := range fc.file.Rpcs() {
		name := node.Name().Get()
		if _, conflict := c.schema.Rpcs[name]; conflict {
			return errNameConflict(fc, node.Name(), name)
		}

		rpc := &schema.Rpc{Name: name}
		placeSeen := make(map[int32]struct{})
		nameSeen := make(map[string]struct{})
		for _, callNode := range node.Calls() {
			place := callNode.Place().Value()
			if _, dupe := placeSeen[place]; dupe {
				return errPlaceConflict(fc, callNode.Place(), place)
			}
			placeSeen[place] = struct{}{}

			if callNode.Deleted() {
				continue
			}

			callName := callNode.Name().Get()
			if _, dupe := nameSeen[callName]; dupe {
				return errNameConflict(fc, callNode.Name(), callName)
			}
			nameSeen[callName] = struct{}{}

			call := &schema.Call{
				Name:  callName,
				Place: place,
			}
			if request := callNode.Request(); request != nil {
				call.Request, call.RequestType = typeKind(request)
			}
			if response := callNode.Response(); response != nil {
				call.Response, call.ResponseType = typeKind(response)
			}
			rpc.Calls = append(rpc.Calls, call)
		}
		c.schema.Rpcs[name] = rpc
	}
	return nil
}
