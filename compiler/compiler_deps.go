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

// topoSort orders nodes so that every node follows its dependencies.
// One depth-first walk with an on-stack set and a visited set yields
// both the order and cycle detection; constants and messages share it
// through the neighbors callback.
//
// Roots are visited in the order given, which makes the output
// deterministic when callers pass sorted roots and sorted neighbor
// lists. On a cycle, the first node re-entered while still on the
// visit stack is returned.
func topoSort[T comparable](
	roots []T,
	neighbors func(T) []T,
) (order []T, cycle T, ok bool) {
	var zero T
	visited := make(map[T]struct{}, len(roots))
	onStack := make(map[T]struct{})

	var visit func(T) (T, bool)
	visit = func(node T) (T, bool) {
		if _, reentered := onStack[node]; reentered {
			return node, false
		}
		if _, done := visited[node]; done {
			return zero, true
		}
		onStack[node] = struct{}{}
		for _, next := range neighbors(node) {
			if cyc, ok := visit(next); !ok {
				return cyc, false
			}
		}
		delete(onStack, node)
		visited[node] = struct{}{}
		order = append(order, node)
		return zero, true
	}

	for _, root := range roots {
		if cyc, ok := visit(root); !ok {
			return nil, cyc, false
		}
	}
	return order, zero, true
}
