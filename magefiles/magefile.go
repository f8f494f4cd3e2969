//go:build mage

// Package main contains Mage build targets for news-archive developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"

	"github.com/pdiddy/news-archive/internal/archive"
)

// projectDirs lists the working directories the archive and catalog expect.
var projectDirs = []string{rawDir, archiveDir, catalogDir}

const (
	rawDir     = "newspapers/raw"
	archiveDir = "archive"
	catalogDir = "catalog"
)

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "news-archive"
	cmdPkg  = "./cmd/news-archive"

	// sqliteTags enables the FTS5 module the catalog depends on.
	sqliteTags = "sqlite_fts5"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-tags", sqliteTags,
		"-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the package tests with the FTS5 build tag.
func Test() error {
	return sh.RunV("go", "test", "-tags", sqliteTags, "./...")
}

// Stats prints corpus metrics: raw PDFs waiting, archives written, articles
// archived, and archives whose metadata is still partly Unknown.
func Stats() error {
	pdfs, err := filepath.Glob(filepath.Join(rawDir, "*.pdf"))
	if err != nil {
		return err
	}
	tally, err := archive.TallyDir(archiveDir)
	if err != nil {
		return err
	}

	fmt.Printf("%-32s %d\n", "PDFs ("+rawDir+"):", len(pdfs))
	fmt.Printf("%-32s %d\n", "Archives ("+archiveDir+"):", tally.Archives)
	fmt.Printf("%-32s %d\n", "Articles:", tally.Articles)
	fmt.Printf("%-32s %d\n", "Archives with Unknown metadata:", tally.Unresolved)
	for _, name := range tally.Unreadable {
		fmt.Printf("  unreadable: %s\n", name)
	}
	return nil
}
