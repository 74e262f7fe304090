//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type cmdOptions struct {
	args   []string
	stream bool
}

type cmdOption func(*cmdOptions)

func withArgs(args ...string) cmdOption {
	return func(o *cmdOptions) {
		o.args = args
	}
}

// withStream echoes the command output while it runs.
func withStream() cmdOption {
	return func(o *cmdOptions) {
		o.stream = true
	}
}

// executeCmd runs command and returns its combined output. Quiet commands
// only print their output when they fail.
func executeCmd(command string, options ...cmdOption) (string, error) {
	opts := &cmdOptions{}
	for _, o := range options {
		o(opts)
	}
	fmt.Printf("> %s %s\n", command, strings.Join(opts.args, " "))

	var out bytes.Buffer
	var sink io.Writer = &out
	stream := opts.stream || mg.Verbose()
	if stream {
		sink = io.MultiWriter(&out, os.Stdout)
	}
	cmd := exec.Command(command, opts.args...)
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Run(); err != nil {
		if !stream {
			fmt.Print(out.String())
		}
		return out.String(), fmt.Errorf("%s %s: %w", command, strings.Join(opts.args, " "), err)
	}
	return out.String(), nil
}

const shaderDir = "testbed/assets/shaders"

// shaderSources lists the GLSL stage files under dir.
func shaderSources(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch filepath.Ext(path) {
		case ".vert", ".geom", ".frag":
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
