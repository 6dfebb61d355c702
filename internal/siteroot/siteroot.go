// Package siteroot determines which directory a documentation site is
// published from and which repository name prefixes its absolute links.
package siteroot

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

const (
	docsDir    = "docs"
	siteConfig = "_config.yml"
)

// Roots are the directory roles used to resolve links for one scan.
type Roots struct {
	// ScanRoot is the directory documents are discovered under.
	ScanRoot string
	// PublishRoot is the directory served as the site root; absolute links
	// resolve against it. It is ScanRoot or ScanRoot/docs.
	PublishRoot string
	// RepoRoot is the repository checkout the site belongs to.
	RepoRoot string
	// RepoName is the final path segment of RepoRoot, used as the
	// GitHub Pages baseurl prefix.
	RepoName string
}

// Resolve computes the site roots for dir following the GitHub Pages
// conventions:
//
//   - <dir>/docs/_config.yml exists: the site is published from <dir>/docs.
//   - dir is named docs and contains _config.yml: dir is the published
//     site and its parent is the repository.
//   - otherwise dir plays every role.
//
// The only error is a missing or non-directory dir.
func Resolve(dir string) (Roots, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Roots{}, errors.FileSystemError("cannot resolve scan root").
			WithCause(err).
			WithContext("path", dir).
			Fatal().
			Build()
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Roots{}, errors.FileSystemError("scan root is not accessible").
			WithCause(err).
			WithContext("path", abs).
			Fatal().
			Build()
	}
	if !info.IsDir() {
		return Roots{}, errors.FileSystemError("scan root is not a directory").
			WithContext("path", abs).
			Fatal().
			Build()
	}

	roots := Roots{ScanRoot: abs, PublishRoot: abs, RepoRoot: abs}
	switch {
	case exists(filepath.Join(abs, docsDir, siteConfig)):
		roots.PublishRoot = filepath.Join(abs, docsDir)
	case filepath.Base(abs) == docsDir && exists(filepath.Join(abs, siteConfig)):
		roots.RepoRoot = filepath.Dir(abs)
	}
	roots.RepoName = filepath.Base(roots.RepoRoot)
	return roots, nil
}

// exists reports whether path exists. Probe failures count as absent.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
