//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Archive builds the CLI, archives every PDF in newspapers/raw, and indexes
// the results into the catalog.
func Archive() error {
	mg.SerialDeps(Init, Build)

	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "archive", "--batch", "--input-dir", rawDir, "--output-dir", archiveDir); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if err := sh.RunV(bin, "catalog", "store", "--archive-dir", archiveDir, "--db-dir", catalogDir); err != nil {
		return fmt.Errorf("catalog store: %w", err)
	}
	return nil
}
