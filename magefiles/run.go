//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Validates the shaders and runs the testbed.
func (Run) Testbed() error {
	if err := buildShaders(); err != nil {
		return err
	}
	fmt.Println("Run testbed...")
	_, err := executeCmd("go", withArgs("run", ".", "-config", "testbed/gin.toml"), withStream())
	return err
}

// Runs the package tests.
func Test() error {
	args := []string{"test", "./..."}
	if mg.Verbose() {
		args = append(args, "-v")
	}
	_, err := executeCmd("go", withArgs(args...), withStream())
	return err
}
