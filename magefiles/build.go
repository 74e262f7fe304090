//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Validates every GLSL stage of the testbed shaders with glslangValidator.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the testbed binary into bin/.
func (Build) Testbed() error {
	mg.Deps(Build.Shaders)
	_, err := executeCmd("go", withArgs("build", "-o", "bin/gin-testbed", "."), withStream())
	return err
}

func buildShaders() error {
	sources, err := shaderSources(shaderDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no shader sources found in %s", shaderDir)
	}
	for _, src := range sources {
		if _, err := executeCmd("glslangValidator", withArgs(src)); err != nil {
			return err
		}
	}
	fmt.Printf("%d shader stages validated\n", len(sources))
	return nil
}
