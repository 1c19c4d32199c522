// Package inliner expands <image> references to other SVG files into
// inline groups.
//
// Each referenced file is normalized, recursively expanded, then placed
// with a transform that maps its intrinsic box onto the image's box.
// Definitions of every nested document land in the single <defs> of the
// top-level document. A failing reference is logged and left as it was;
// it never aborts the pass.
package inliner
