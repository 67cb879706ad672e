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

// Package compiler resolves parsed SDDL schema files into a
// schema.Schema: constants evaluated, message dependencies checked,
// typedef and rpc blocks validated. Compilation is a single-threaded
// batch; it stops at the first error and reports exactly one
// diagnostic.
package compiler

import (
	"cmp"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/libla/SDDL/schema"
	"github.com/libla/SDDL/syntax"
)

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	workDir  string
	readFile func(path string) ([]byte, error)
}

// WithWorkDir sets the directory diagnostics render file paths
// relative to. It defaults to the process working directory; the
// compiler never chdirs.
func WithWorkDir(workDir string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.workDir = workDir
	})
}

// WithReadFile replaces the schema source reader, letting tests feed
// in-memory sources through ordinary require paths.
func WithReadFile(readFile func(path string) ([]byte, error)) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.readFile = readFile
	})
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	if compileOptions.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			compileOptions.workDir = wd
		}
	}
	if compileOptions.readFile == nil {
		compileOptions.readFile = os.ReadFile
	}
	return compileOptions
}

// CompileFiles parses and resolves the given schema files, plus every
// file they require, and returns the public definition tables.
func CompileFiles(paths []string, opts ...CompileOption) (*schema.Schema, error) {
	return NewCompileOptions(opts...).CompileFiles(paths)
}

func (opts *CompileOptions) CompileFiles(paths []string) (*schema.Schema, error) {
	c := &compiler{
		opts:   opts,
		schema: schema.NewSchema(),
		parsed: make(map[string]struct{}),
	}
	for _, path := range paths {
		if err := c.loadFile(path, ""); err != nil {
			return nil, err
		}
	}
	return c.schema, nil
}

type compiler struct {
	opts   *CompileOptions
	schema *schema.Schema
	parsed map[string]struct{}
}

// A fileCtx is the per-file state threaded through the collectors: the
// parse tree, a line index for diagnostics, and the file-local
// constant table that `local` declarations populate.
type fileCtx struct {
	path    string
	display string
	dir     string
	lines   *syntax.LineIndex
	file    *syntax.File
	locals  map[string]schema.Value
}

func (fc *fileCtx) lineOf(node syntax.Node) int {
	if node == nil {
		return 0
	}
	span := node.Span()
	return fc.lines.LineOfSpan(span)
}

// loadFile parses one schema file and runs the collector phases over
// it. Files referenced by the require block are loaded depth-first
// beforehand, deduplicated by canonical path, so their public
// definitions are visible as preloaded entries here.
func (c *compiler) loadFile(path string, fromDir string) error {
	if fromDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(fromDir, path)
	}
	canonical, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		canonical = filepath.Clean(path)
	}
	if _, seen := c.parsed[canonical]; seen {
		return nil
	}
	c.parsed[canonical] = struct{}{}

	display := canonical
	if rel, err := filepath.Rel(c.opts.workDir, canonical); err == nil {
		display = rel
	}

	src, err := c.opts.readFile(canonical)
	if err != nil {
		return errReadFile(display, err)
	}

	fc := &fileCtx{
		path:    canonical,
		display: display,
		dir:     filepath.Dir(canonical),
		lines:   syntax.NewLineIndex(src),
		locals:  make(map[string]schema.Value),
	}
	parsed, err := syntax.Parse(src)
	if err != nil {
		var syntaxErr *syntax.Error
		if errors.As(err, &syntaxErr) {
			return errParse(fc, syntaxErr)
		}
		return err
	}
	fc.file = parsed

	// The require resolver runs before every other phase so that
	// dependencies are parsed first.
	for _, req := range parsed.Requires() {
		reqPath := filepath.FromSlash(strings.ReplaceAll(req.Value(), "\\", "/"))
		if err := c.loadFile(reqPath, fc.dir); err != nil {
			return err
		}
	}

	consts := newConstCollector(c, fc)
	if err := consts.enter(); err != nil {
		return err
	}
	if err := consts.collect(); err != nil {
		return err
	}

	messages := newMessageCollector(c, fc)
	if err := messages.enter(); err != nil {
		return err
	}
	if err := messages.collect(); err != nil {
		return err
	}

	if err := c.collectTypedefs(fc); err != nil {
		return err
	}
	return c.collectRpcs(fc)
}
