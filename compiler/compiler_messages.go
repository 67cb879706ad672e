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
	"sort"

	"github.com/libla/SDDL/schema"
	"github.com/libla/SDDL/syntax"
)

// A messageDecl is one message's descriptor. Like constants, message
// descriptors are created on first mention; an entry whose type names
// a message that has not been declared yet produces a stub that the
// declaration later fills in.
type messageDecl struct {
	name       string
	node       *syntax.Message
	refNode    syntax.Node
	defined    bool
	entries    []*schema.Entry
	entryNodes []*syntax.Entry
	refs       map[string]*messageDecl
}

type messageCollector struct {
	c        *compiler
	fc       *fileCtx
	messages map[string]*messageDecl
}

func newMessageCollector(c *compiler, fc *fileCtx) *messageCollector {
	return &messageCollector{
		c:        c,
		fc:       fc,
		messages: make(map[string]*messageDecl),
	}
}

func (col *messageCollector) enter() error {
	for _, node := range col.fc.file.Messages() {
		if err := col.enterMessage(node); err != nil {
			return err
		}
	}
	return nil
}

func (col *messageCollector) enterMessage(node *syntax.Message) error {
	name := node.Name().Get()
	if _, conflict := col.c.schema.Messages[name]; conflict {
		return errNameConflict(col.fc, node.Name(), name)
	}
	md := col.messages[name]
	if md != nil && md.defined {
		return errNameConflict(col.fc, node.Name(), name)
	}
	if md == nil {
		md = &messageDecl{name: name}
		col.messages[name] = md
	}
	md.node = node
	md.defined = true
	md.entries = []*schema.Entry{}
	md.entryNodes = []*syntax.Entry{}

	placeSeen := make(map[int32]struct{})
	nameSeen := make(map[string]struct{})
	for _, entryNode := range node.Entries() {
		place := entryNode.Place().Value()
		if _, dupe := placeSeen[place]; dupe {
			return errPlaceConflict(col.fc, entryNode.Place(), place)
		}
		placeSeen[place] = struct{}{}

		entryName := entryNode.Name().Get()
		if _, dupe := nameSeen[entryName]; dupe {
			return errNameConflict(col.fc, entryNode.Name(), entryName)
		}
		nameSeen[entryName] = struct{}{}

		assign := entryNode.Assign()
		if assign != nil && assign.Mode() == syntax.ASSIGN_DELETE {
			continue
		}

		entry := &schema.Entry{
			Name:  entryName,
			Place: place,
		}
		entry.Kind, entry.TypeName = typeKind(entryNode.Type())
		if entry.Kind == schema.Kind_OTHER {
			col.reference(entry.TypeName, entryNode.Type())
		}

		if assign != nil {
			switch assign.Mode() {
			case syntax.ASSIGN_OPTION:
				entry.Option = schema.Option_OPTION
			case syntax.ASSIGN_ARRAY:
				entry.Option = schema.Option_ARRAY
			case syntax.ASSIGN_TABLE:
				entry.Option = schema.Option_TABLE
			}
		}

		if entry.Option == schema.Option_REQUIRE {
			entry.Default = zeroValue(entry.Kind)
			if assign != nil && assign.Mode() == syntax.ASSIGN_EXPR {
				value, err := col.evalDefault(assign.Expr())
				if err != nil {
					return err
				}
				entry.Default = value
			}
			// Only required entries of user type tie messages into a
			// dependency cycle; optional and collection entries are
			// indirections that a back-end can break.
			if entry.Kind == schema.Kind_OTHER {
				if _, preloaded := col.c.schema.Messages[entry.TypeName]; !preloaded {
					if md.refs == nil {
						md.refs = make(map[string]*messageDecl)
					}
					md.refs[entry.TypeName] = col.messages[entry.TypeName]
				}
			}
		}

		md.entries = append(md.entries, entry)
		md.entryNodes = append(md.entryNodes, entryNode)
	}

	// Entries emit in place order. The parse-order entry nodes move
	// with their entries so diagnostics keep pointing at the right
	// source lines.
	perm := make([]int, len(md.entries))
	for ii := range perm {
		perm[ii] = ii
	}
	sort.SliceStable(perm, func(ii, jj int) bool {
		return md.entries[perm[ii]].Place < md.entries[perm[jj]].Place
	})
	entries := make([]*schema.Entry, len(md.entries))
	entryNodes := make([]*syntax.Entry, len(md.entryNodes))
	for ii, from := range perm {
		entries[ii] = md.entries[from]
		entryNodes[ii] = md.entryNodes[from]
	}
	md.entries = entries
	md.entryNodes = entryNodes
	return nil
}

// reference ensures a descriptor exists for a message named as an
// entry type, creating a forward stub when the name is neither a
// public message nor declared earlier in this file.
func (col *messageCollector) reference(name string, node syntax.Node) {
	if _, preloaded := col.c.schema.Messages[name]; preloaded {
		return
	}
	if col.messages[name] == nil {
		col.messages[name] = &messageDecl{
			name:    name,
			refNode: node,
		}
	}
}

// evalDefault evaluates an entry default. Identifiers resolve against
// the merged public and file-local constant tables; unresolved names
// are fatal at the reference's line.
func (col *messageCollector) evalDefault(node syntax.Expr) (schema.Value, error) {
	built, err := col.buildDefaultExpr(node)
	if err != nil {
		return nil, err
	}
	value, ok := evalAuto(built)
	if !ok {
		return nil, errTypeMismatch(col.fc, node)
	}
	return value, nil
}

func (col *messageCollector) buildDefaultExpr(node syntax.Expr) (expr, error) {
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
		if value, ok := col.fc.locals[name]; ok {
			return &valueExpr{value: value}, nil
		}
		return nil, errVariableNotFound(col.fc, node, name)
	case *syntax.UnaryExpr:
		operand, err := col.buildDefaultExpr(node.Operand())
		if err != nil {
			return nil, err
		}
		return &notExpr{operand: operand}, nil
	case *syntax.BinaryExpr:
		lhs, err := col.buildDefaultExpr(node.Lhs())
		if err != nil {
			return nil, err
		}
		rhs, err := col.buildDefaultExpr(node.Rhs())
		if err != nil {
			return nil, err
		}
		return newBinaryExpr(node.Op(), lhs, rhs), nil
	default:
		return nil, errTypeMismatch(col.fc, node)
	}
}

// collect validates the file's messages: every referenced type is
// defined, no dependency cycle exists, and every default satisfies its
// entry's declared kind. Valid messages promote to the public table in
// topological order.
func (col *messageCollector) collect() error {
	names := sortedKeys(col.messages)

	for _, name := range names {
		md := col.messages[name]
		if !md.defined {
			return errTypeNotFound(col.fc, md.refNode, name)
		}
	}

	roots := make([]*messageDecl, 0, len(names))
	for _, name := range names {
		roots = append(roots, col.messages[name])
	}
	order, cycle, ok := topoSort(roots, func(md *messageDecl) []*messageDecl {
		refNames := sortedKeys(md.refs)
		refs := make([]*messageDecl, 0, len(refNames))
		for _, refName := range refNames {
			if ref := md.refs[refName]; ref != nil {
				refs = append(refs, ref)
			}
		}
		return refs
	})
	if !ok {
		return errCircularMessage(col.fc, cycle.node.Name())
	}

	for _, md := range order {
		if err := col.verifyDefaults(md); err != nil {
			return err
		}
		col.c.schema.Messages[md.name] = &schema.Message{
			Name:    md.name,
			Entries: md.entries,
		}
	}
	return nil
}

// verifyDefaults checks each required entry's default against the
// entry's declared kind. Entries of user type must have a null
// default; built-in kinds accept any value convertible to them, and
// the stored default is normalized to the declared kind.
func (col *messageCollector) verifyDefaults(md *messageDecl) error {
	for ii, entry := range md.entries {
		if entry.Option != schema.Option_REQUIRE {
			continue
		}
		node := md.entryNodes[ii]
		if entry.Kind == schema.Kind_OTHER {
			if entry.Default != nil {
				return errCannotConvert(col.fc, node.Name(), entry.TypeName)
			}
			continue
		}
		value, ok := convertValue(entry.Default, entry.Kind)
		if !ok {
			return errCannotConvert(col.fc, node.Name(), entry.Kind.String())
		}
		entry.Default = value
	}
	return nil
}

func zeroValue(kind schema.Kind) schema.Value {
	switch kind {
	case schema.Kind_BOOL:
		return schema.Bool(false)
	case schema.Kind_INT:
		return schema.Int(0)
	case schema.Kind_FLOAT:
		return schema.Float(0)
	case schema.Kind_STRING:
		return schema.String("")
	default:
		return nil
	}
}

func convertValue(value schema.Value, kind schema.Kind) (schema.Value, bool) {
	if value == nil {
		return nil, false
	}
	switch kind {
	case schema.Kind_BOOL:
		if v, ok := value.TryBool(); ok {
			return schema.Bool(v), true
		}
	case schema.Kind_INT:
		if v, ok := value.TryInt(); ok {
			return schema.Int(v), true
		}
	case schema.Kind_FLOAT:
		if v, ok := value.TryFloat(); ok {
			return schema.Float(v), true
		}
	case schema.Kind_STRING:
		if v, ok := value.TryString(); ok {
			return schema.String(v), true
		}
	}
	return nil, false
}
