package domain

// XML namespaces interpreted by the inliner.
const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

const (
	// DefaultMaxDepth bounds the nesting of linked documents.
	DefaultMaxDepth = 10

	// DefaultBoxSize is the width and height used when a document declares no usable size.
	DefaultBoxSize = 100.0
)

// File name prefixes for the intermediate files written next to the input.
const (
	PlainPrefix   = "plain_"
	InlinedPrefix = "temp_inlined_"
)
