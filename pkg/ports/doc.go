/*
Package ports defines the driven ports (interfaces) of svgflat.

These interfaces decouple the inlining core from the external vector graphics tool
and from storage, so the core can be tested with fakes and run against different backends.

# Key Interfaces

  - Normalizer: turns any SVG file into a plain SVG file (Inkscape by default).
  - Exporter: turns one flattened SVG file into a PDF.
  - Cache: stores normalized documents by content hash (memory, filesystem or Redis).
  - DistributedLocker: serializes work on one input across processes (Redis).
*/
package ports
