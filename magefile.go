//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "vocabdrill"

// go-sqlite3 needs cgo.
var cgo = map[string]string{"CGO_ENABLED": "1"}

// Default target to run when none is specified
var Default = Build

// Build compiles the vocabdrill binary into the project root.
func Build() error {
	return sh.RunWithV(cgo, "go", "build", "-o", binary, "./cmd/vocabdrill")
}

// Install installs vocabdrill into GOPATH/bin.
func Install() error {
	return sh.RunWithV(cgo, "go", "install", "./cmd/vocabdrill")
}

// Test runs all tests.
func Test() error {
	return sh.RunWithV(cgo, "go", "test", "./...")
}

// TestRace runs all tests with the race detector.
func TestRace() error {
	return sh.RunWithV(cgo, "go", "test", "-race", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes the binary and the local audio cache.
func Clean() error {
	if err := sh.Rm(binary); err != nil {
		return err
	}
	return sh.Rm(filepath.Join(".", "audio_cache"))
}

// Seed builds vocabdrill and loads the sample vocabulary into the
// configured database.
func Seed() error {
	mg.Deps(Build)
	return sh.RunV("./"+binary, "seed")
}

// Demo plays the seeded easy words. VOCABDRILL_DEMO_PROVIDER picks the
// speech provider, silent by default.
func Demo() error {
	mg.Deps(Seed)
	provider := os.Getenv("VOCABDRILL_DEMO_PROVIDER")
	if provider == "" {
		provider = "none"
	}
	return sh.RunV("./"+binary, "--audio-provider", provider,
		"play", "--difficulty", "easy", "--parts", "word,meaning")
}
