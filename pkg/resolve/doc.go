// Package resolve turns image hrefs found in SVG documents into absolute
// file URIs and filesystem paths.
//
// Data URIs and http(s) URIs are never resolved; they pass through unchanged
// and are not inlining candidates.
package resolve
