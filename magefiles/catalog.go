//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleCatalog is the demo catalog imported by the Seed target.
const sampleCatalog = "testdata/catalog.yaml"

// Seed builds the CLI and imports the sample catalog into data/.
func Seed() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "import", sampleCatalog)
}

// Serve builds the CLI and starts the HTTP server on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve", "--log-level", "info")
}
