// Package geometry computes the coordinate boxes and placement transforms
// used to inline a linked SVG document into its parent.
//
// A linked document's intrinsic box (its viewBox, or its declared size) is
// mapped onto the placement box of the <image> element that referenced it by
//
//	[image transform] translate(x,y) scale(sx,sy) translate(-minX,-minY)
//
// which reproduces the viewBox-to-viewport mapping of SVG renderers for
// preserveAspectRatio="none".
package geometry
