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
	"sort"
)

// A LineIndex maps byte offsets within a source file to 1-based line
// numbers. Building the index once lets diagnostics for many spans of
// the same file avoid rescanning it.
type LineIndex struct {
	// starts[ii] is the byte offset of the first byte of line ii+1.
	starts []uint32
}

func NewLineIndex(src []byte) *LineIndex {
	starts := []uint32{0}
	for ii, c := range src {
		if c == '\n' {
			starts = append(starts, uint32(ii+1))
		}
	}
	return &LineIndex{starts: starts}
}

// LineOf returns the 1-based line number containing the given byte
// offset. Offsets past the end of the file map to the last line.
func (ix *LineIndex) LineOf(offset uint32) int {
	line := sort.Search(len(ix.starts), func(ii int) bool {
		return ix.starts[ii] > offset
	})
	return line
}

// LineOfSpan returns the line number of a span's first byte.
func (ix *LineIndex) LineOfSpan(span Span) int {
	return ix.LineOf(span.Start())
}
