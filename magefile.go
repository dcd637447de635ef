//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "pidgix"

// Default target to run when none is specified
var Default = Build

// Build compiles the pidgix binary into the current directory
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/pidgix")
}

// Test runs all unit tests. Integration tests run when GEMINI_API_KEY is set.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Install builds and copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	target := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	fmt.Println("Installing to", target)
	return sh.Copy(target, binary)
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
