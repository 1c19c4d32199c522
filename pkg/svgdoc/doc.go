// Package svgdoc loads, queries and rewrites SVG documents as mutable
// etree trees. It knows about <image>, <defs> and <g> and nothing else;
// every other element passes through untouched.
package svgdoc
