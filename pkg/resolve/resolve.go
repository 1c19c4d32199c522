package resolve

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/svgflat/pkg/domain"
)

const fileScheme = "file://"

func isRemote(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(h, "data:") ||
		strings.HasPrefix(h, "http:") ||
		strings.HasPrefix(h, "https:")
}

func isFileURI(href string) bool {
	return strings.HasPrefix(strings.ToLower(href), fileScheme)
}

// IsInlineCandidate reports whether href points at a local SVG file.
func IsInlineCandidate(href string) bool {
	if href == "" || isRemote(href) {
		return false
	}
	p := href
	if u, err := url.Parse(href); err == nil {
		switch {
		case u.Scheme == "file":
			p = u.Path
		case len(u.Scheme) > 1: // single letters are drive names
			return false
		}
	}
	return strings.HasSuffix(strings.ToLower(p), ".svg")
}

// AbsoluteHref makes href absolute against baseDir and returns it as a
// file:/// URI. Remote URIs, file URIs and absolute paths are returned as is.
// A relative path that does not name an existing regular file fails with
// domain.ErrFileNotFound.
func AbsoluteHref(href, baseDir string) (string, error) {
	if isRemote(href) || isFileURI(href) || filepath.IsAbs(href) {
		return href, nil
	}
	abs, err := filepath.Abs(filepath.Join(baseDir, filepath.FromSlash(href)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrFileNotFound, href, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, abs)
	}
	return FileURI(abs), nil
}

// FileURI renders an absolute path as a file:/// URI.
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths gain the leading slash: C:/x -> /C:/x
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// PathFromHref converts href into a filesystem path. File URIs are
// percent-decoded; anything else is treated as a path relative to baseDir.
func PathFromHref(href, baseDir string) (string, error) {
	if isRemote(href) {
		return "", fmt.Errorf("%w: not a local reference: %s", domain.ErrFileNotFound, href)
	}
	if isFileURI(href) {
		u, err := url.Parse(href)
		if err != nil {
			return "", fmt.Errorf("invalid file uri %q: %w", href, err)
		}
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		if hasDrivePrefix(p) {
			p = p[1:]
		}
		return filepath.FromSlash(p), nil
	}
	p := filepath.FromSlash(href)
	if !filepath.IsAbs(p) && !hasDrivePrefix("/"+href) {
		p = filepath.Join(baseDir, p)
	}
	return filepath.Clean(p), nil
}

// hasDrivePrefix matches "/C:/..." style paths.
func hasDrivePrefix(p string) bool {
	return len(p) >= 3 && p[0] == '/' && p[2] == ':' &&
		(p[1] >= 'a' && p[1] <= 'z' || p[1] >= 'A' && p[1] <= 'Z')
}
