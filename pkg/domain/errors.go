package domain

import "errors"

// ErrFileNotFound is returned when a reference resolves to a path that does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInputNotFound is returned when the top-level input document does not exist.
var ErrInputNotFound = errors.New("input SVG not found")

// ErrConversionFailed is returned when the normalizer fails or produces no output.
var ErrConversionFailed = errors.New("conversion failed")

// ErrExportFailed is returned when the exporter fails.
var ErrExportFailed = errors.New("export failed")

// ErrMalformedViewBox is returned when a viewBox attribute is not four numbers.
var ErrMalformedViewBox = errors.New("malformed viewBox")

// ErrCacheMiss is returned by a Cache when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")
