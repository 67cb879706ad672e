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

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/libla/SDDL/compiler"
	"github.com/libla/SDDL/target"
	"github.com/libla/SDDL/target/wasm"
)

type cmdCompile struct {
	outPath   string
	target    string
	namespace string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile FILES...",
		summary: "Compile schema files and emit one artifact",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output file path")
	flags.StringVarP(&cmd.target, "target", "t", "", "emission target name, or a path to a .wasm plugin")
	flags.StringVarP(&cmd.namespace, "namespace", "n", "", "namespace (defaults to the output file's stem)")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: sddl compile [options] FILES...")
		return 1
	}
	if cmd.outPath == "" {
		fmt.Fprintln(os.Stderr, "No output file specified (set --output=)")
		return 1
	}
	if cmd.target == "" {
		fmt.Fprintf(os.Stderr, "No target specified (set --target=, available: %s)\n",
			strings.Join(target.Names(), ", "))
		return 1
	}
	namespace := cmd.namespace
	if namespace == "" {
		namespace = outputStem(cmd.outPath)
	}
	return emit(ctx, argv, cmd.outPath, cmd.target, namespace)
}

// outputStem derives the default namespace from the output file name.
func outputStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func emit(ctx context.Context, inputs []string, outPath, targetName, namespace string) int {
	compiled, err := compiler.CompileFiles(inputs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var emitter target.Target
	if strings.HasSuffix(targetName, ".wasm") {
		plugin, err := wasm.Load(ctx, targetName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer plugin.Close()
		emitter = plugin
	} else {
		emitter, err = target.Lookup(targetName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if setter, ok := emitter.(target.NamespaceSetter); ok {
		setter.SetNamespace(namespace)
	}

	// Emission is buffered twice over: the driver discards emitter
	// output on error, and the output file is not created until the
	// whole artifact exists.
	var buf bytes.Buffer
	if err := target.Emit(&buf, compiled, emitter); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if outPath == "-" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o666); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

type cmdCheck struct{}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check FILES...",
		summary: "Parse and resolve schema files without emitting",
	}
}

func (*cmdCheck) flags(flags *pflag.FlagSet) {}

func (*cmdCheck) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: sddl check FILES...")
		return 1
	}
	if _, err := compiler.CompileFiles(argv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
