package linkcheck

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
)

// patternSet matches scan-root-relative, slash-separated paths.
type patternSet []glob.Glob

// compilePatterns compiles globs where `*` stays within one path segment
// and `**` spans segments. A leading `**/` also matches zero directories.
func compilePatterns(patterns []string) (patternSet, error) {
	set := make(patternSet, 0, len(patterns))
	for _, p := range patterns {
		variants := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok && rest != "" {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, errors.ValidationError("invalid glob pattern").
					WithCause(err).
					WithContext("pattern", p).
					Build()
			}
			set = append(set, g)
		}
	}
	return set, nil
}

func (s patternSet) match(rel string) bool {
	for _, g := range s {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Discover returns the absolute paths below root whose relative path
// matches pattern and no ignore pattern, in lexical walk order. Hidden
// files and directories are skipped and ignored directories are not
// entered. Directories matching pattern are returned too, so a
// `guide.md/` directory surfaces as a read error instead of vanishing.
func Discover(root, pattern string, ignore []string) ([]string, error) {
	include, err := compilePatterns([]string{pattern})
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(ignore)
	if err != nil {
		return nil, err
	}

	var found []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if path == root {
			return err
		}
		if err != nil {
			slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() && exclude.match(rel+"/") {
			return fs.SkipDir
		}
		if include.match(rel) && !exclude.match(rel) {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.FileSystemError("failed to walk scan root").
			WithCause(walkErr).
			WithContext("path", root).
			Fatal().
			Build()
	}
	return found, nil
}
