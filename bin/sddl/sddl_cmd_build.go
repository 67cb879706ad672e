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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// A projectFile is the on-disk manifest the build subcommand reads, so
// a schema checkout can be compiled without repeating flags.
type projectFile struct {
	Inputs    []string `yaml:"inputs"`
	Output    string   `yaml:"output"`
	Target    string   `yaml:"target"`
	Namespace string   `yaml:"namespace"`
}

type cmdBuild struct {
	projectPath string
}

func (*cmdBuild) help() *commandHelp {
	return &commandHelp{
		usage:   "build",
		summary: "Compile the schemas described by a project manifest",
	}
}

func (cmd *cmdBuild) flags(flags *pflag.FlagSet) {
	flags.StringVar(&cmd.projectPath, "project", "sddl.yaml", "project manifest path")
}

func (cmd *cmdBuild) run(ctx context.Context, argv []string) int {
	if len(argv) != 0 {
		fmt.Fprintln(os.Stderr, "usage: sddl build [--project=PATH]")
		return 1
	}

	manifest, err := os.ReadFile(cmd.projectPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var project projectFile
	if err := yaml.Unmarshal(manifest, &project); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.projectPath, err)
		return 1
	}
	if len(project.Inputs) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no inputs listed\n", cmd.projectPath)
		return 1
	}
	if project.Output == "" {
		fmt.Fprintf(os.Stderr, "%s: no output path\n", cmd.projectPath)
		return 1
	}
	if project.Target == "" {
		fmt.Fprintf(os.Stderr, "%s: no target\n", cmd.projectPath)
		return 1
	}

	// Manifest paths resolve relative to the manifest's directory.
	projectDir := filepath.Dir(cmd.projectPath)
	inputs := make([]string, 0, len(project.Inputs))
	for _, input := range project.Inputs {
		if !filepath.IsAbs(input) {
			input = filepath.Join(projectDir, input)
		}
		inputs = append(inputs, input)
	}
	outPath := project.Output
	if !filepath.IsAbs(outPath) && outPath != "-" {
		outPath = filepath.Join(projectDir, outPath)
	}

	namespace := project.Namespace
	if namespace == "" {
		namespace = outputStem(outPath)
	}
	return emit(ctx, inputs, outPath, project.Target, namespace)
}
