//go:build mage

// Package main contains Mage build targets for docdigest developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "docdigest"
	cmdPkg  = "./cmd/docdigest"
)

// projectDirs lists the working directories docdigest writes to.
var projectDirs = []string{
	".secrets",
	"history",
}

// Init creates the local working directories and an example config.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	const cfgFile = "docdigest.yaml"
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if err := os.WriteFile(cfgFile, []byte(exampleConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgFile, err)
		}
		fmt.Println("  ", cfgFile)
	}
	fmt.Println("Project initialized. Put your API key in .secrets/gemini-api-key.")
	return nil
}

const exampleConfig = `generation:
  provider: gemini
  model: gemini-2.5-flash
server:
  addr: ":8080"
history:
  enabled: true
  dir: history
`

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Serve builds the binary and starts the web interface with the fake
// provider, which needs no API key.
func Serve() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{"DOCDIGEST_GENERATION_PROVIDER": "fake"},
		filepath.Join(binDir, binName), "serve", "--verbose")
}

// Stats prints Go production and test line counts.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in Go files under root, skipping
// underscore-prefixed directories the go tool also ignores.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
