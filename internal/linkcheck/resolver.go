package linkcheck

import (
	"context"
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/doclinks/internal/anchors"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/linkverify"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/siteroot"
)

// ReasonFileNotFound is reported for internal links whose target is absent.
const ReasonFileNotFound = "File not found"

// ExternalChecker checks http(s) URLs. *linkverify.Checker implements it.
type ExternalChecker interface {
	Check(ctx context.Context, url string) linkverify.Result
}

// Resolver classifies and resolves the links of one scan.
type Resolver struct {
	roots    siteroot.Roots
	anchors  *anchors.Index
	external ExternalChecker
}

// NewResolver creates a Resolver. A nil external checker treats every
// http(s) link as valid without touching the network.
func NewResolver(roots siteroot.Roots, index *anchors.Index, external ExternalChecker) *Resolver {
	if index == nil {
		index = anchors.NewIndex()
	}
	return &Resolver{roots: roots, anchors: index, external: external}
}

// Resolve validates url as it appears in the document at source (an
// absolute path). The first matching rule wins: same-document anchor,
// http(s), mailto, then a file below the site.
func (r *Resolver) Resolve(ctx context.Context, url, source string) Outcome {
	switch {
	case strings.HasPrefix(url, "#"):
		return r.sameDocument(source, url[1:])
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return r.externalLink(ctx, url)
	case strings.HasPrefix(url, "mailto:"):
		return Outcome{Kind: KindEmail, Valid: true}
	}
	return r.internal(url, source)
}

func (r *Resolver) sameDocument(source, anchor string) Outcome {
	ok, err := r.anchors.Has(source, anchor)
	if err != nil {
		return Outcome{
			Kind:   KindError,
			Reason: "Failed to validate anchor #" + anchor + ": " + reasonOf(err),
		}
	}
	if !ok {
		return anchorNotFound(source, anchor)
	}
	return Outcome{Kind: KindAnchor, Valid: true}
}

func (r *Resolver) externalLink(ctx context.Context, url string) Outcome {
	if r.external == nil {
		return Outcome{Kind: KindExternal, Valid: true}
	}
	res := r.external.Check(ctx, url)
	ok := res.OK
	return Outcome{Kind: KindExternal, Valid: true, ExternalOK: &ok, Reason: res.Reason}
}

func (r *Resolver) internal(url, source string) Outcome {
	target, fragment := r.targetPath(url, source)

	target, found, err := locate(target)
	if err != nil {
		return Outcome{Kind: KindError, Reason: reasonOf(err)}
	}
	if !found {
		return Outcome{Kind: KindInternal, Reason: ReasonFileNotFound}
	}

	if fragment != "" {
		ok, err := r.anchors.Has(target, fragment)
		if err != nil {
			return Outcome{Kind: KindError, Reason: reasonOf(err)}
		}
		if !ok {
			return anchorNotFound(target, fragment)
		}
	}
	return Outcome{Kind: KindInternal, Valid: true}
}

// targetPath maps an internal link to a filesystem path and its fragment.
// The query is dropped and the path percent-decoded; a %23 in the path
// starts a fragment that replaces the literal one.
func (r *Resolver) targetPath(url, source string) (string, string) {
	rawPath, fragment := splitFragment(url)
	rawPath, _, _ = strings.Cut(rawPath, "?")
	rawPath = strings.TrimSpace(rawPath)

	decoded := anchors.DecodeComponent(rawPath)
	if len(decoded) >= 2 && strings.HasPrefix(decoded, "<") && strings.HasSuffix(decoded, ">") {
		decoded = strings.TrimSpace(decoded[1 : len(decoded)-1])
	}
	if strings.Contains(decoded, "#") {
		decoded, fragment = splitFragment(decoded)
	}

	if !strings.HasPrefix(decoded, "/") {
		return filepath.Join(filepath.Dir(source), filepath.FromSlash(decoded)), fragment
	}
	return filepath.Join(r.roots.PublishRoot, filepath.FromSlash(r.stripBaseURL(decoded))), fragment
}

// stripBaseURL turns an absolute link into a path relative to the publish
// root, removing a leading /<repoName> baseurl.
func (r *Resolver) stripBaseURL(abs string) string {
	normalized := "/" + strings.TrimLeft(abs, "/")
	prefix := "/" + r.roots.RepoName
	switch {
	case normalized == prefix, normalized == prefix+"/":
		return ""
	case strings.HasPrefix(normalized, prefix+"/"):
		return normalized[len(prefix)+1:]
	}
	return normalized[1:]
}

// splitFragment splits at the first '#'. The fragment ends at a second
// '#', if any.
func splitFragment(s string) (string, string) {
	before, after, found := strings.Cut(s, "#")
	if !found {
		return s, ""
	}
	after, _, _ = strings.Cut(after, "#")
	return before, after
}

// locate finds the file a link target refers to: the path itself, the path
// with .md or .html appended when it has no extension, or an index.md or
// index.html inside it. A directory without index files resolves to itself.
func locate(target string) (string, bool, error) {
	ok, err := exists(target)
	if err != nil {
		return "", false, err
	}

	if !ok && extname(target) == "" {
		for _, ext := range []string{".md", ".html"} {
			if ok, err = exists(target + ext); err != nil {
				return "", false, err
			} else if ok {
				target += ext
				break
			}
		}
	}

	if !ok {
		index, found, err := indexFile(target)
		if err != nil || !found {
			return "", false, err
		}
		return index, true, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		index, found, err := indexFile(target)
		if err != nil {
			return "", false, err
		}
		if found {
			return index, true, nil
		}
	}
	return target, true, nil
}

func indexFile(dir string) (string, bool, error) {
	for _, name := range []string{"index.md", "index.html"} {
		candidate := filepath.Join(dir, name)
		ok, err := exists(candidate)
		if err != nil {
			return "", false, err
		}
		if ok {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// exists stats path. Missing paths, including those below a regular file,
// are reported as absent; other failures are returned.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case stdErrors.Is(err, fs.ErrNotExist), stdErrors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, err
	}
}

// extname returns the extension of the final path element, or "" when the
// element has no dot other than a leading one.
func extname(path string) string {
	base := filepath.Base(path)
	if strings.Trim(base, ".") == "" {
		return ""
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i:]
}

func anchorNotFound(path, anchor string) Outcome {
	slog.Debug("Anchor not found", logfields.Path(path), logfields.Anchor(anchor))
	return Outcome{Kind: KindAnchor, Reason: "Anchor #" + anchor + " not found"}
}

// reasonOf returns the message reported for an I/O failure: the underlying
// cause of a classified error, or the error itself.
func reasonOf(err error) string {
	if ce, ok := errors.AsClassified(err); ok && ce.Cause() != nil {
		return ce.Cause().Error()
	}
	return err.Error()
}
