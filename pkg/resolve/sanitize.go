package resolve

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxPathSize bounds paths received from remote callers.
	DefaultMaxPathSize = 4096
	// EnvMaxPathSize overrides DefaultMaxPathSize.
	EnvMaxPathSize = "SVGFLAT_MAX_PATH_SIZE"
)

var (
	ErrPathTooLarge  = errors.New("path exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("path contains invalid UTF-8 sequences")
	ErrControlInPath = errors.New("path contains control characters")
	ErrEmptyPath     = errors.New("path is empty")
)

// SanitizePath validates a file path received over HTTP or MCP. Unlike
// free text, a path is never rewritten: anything suspicious is rejected.
// Surrounding whitespace is trimmed.
func SanitizePath(p string) (string, error) {
	limit := maxPathSize()
	if len(p) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrPathTooLarge, len(p), limit)
	}
	if !utf8.ValidString(p) {
		return "", ErrInvalidUTF8
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPath
	}
	for _, r := range p {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q", ErrControlInPath, p)
		}
	}
	return p, nil
}

func maxPathSize() int {
	if val := os.Getenv(EnvMaxPathSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxPathSize
}
