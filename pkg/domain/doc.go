/*
Package domain contains the core types shared by every part of svgflat.

It describes the pieces of an inlining pass (references, boxes, transforms and the
per-run report) without depending on XML parsing, external processes or storage,
following the same hexagonal split as the ports and adapters packages.

# Key Entities

  - Reference: an embedded <image> element that points at another SVG file.
  - Box: a coordinate rectangle, either a document's intrinsic viewBox or a placement box.
  - Transform: the ordered translate/scale operations that map a linked document into its placement box.
  - Report: what happened to each reference during one run (inlined, skipped, failed, ...).
*/
package domain
