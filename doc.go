/*
Package svgflat flattens a tree of SVG documents that link each other through
<image> elements into one self-contained SVG, and renders it to PDF.

Normalization and PDF export are delegated to an external vector tool
(Inkscape by default). svgflat itself only rewrites the XML tree: it finds
linked SVG files, expands them recursively, places each one with an affine
transform derived from its viewBox and the image's box, and merges all
definitions into the top-level <defs>.

# Usage

	f := svgflat.New(svgflat.WithLogger(logger))

	report, err := f.Convert(ctx, "poster.svg", "poster.pdf", svgflat.ConvertOptions{
		TextToPath: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Count(domain.OutcomeInlined), "references inlined")

Flatten stops after writing the flattened SVG, and Graph only discovers the
reference tree without running any external tool.

# Failure model

Only the top-level input is fatal: a missing input returns
domain.ErrInputNotFound, a failed normalization of it returns an error
wrapping domain.ErrConversionFailed, and a failed export one wrapping
domain.ErrExportFailed. Every nested reference that cannot be resolved,
normalized or parsed is logged, recorded in the domain.Report and left as it
was.
*/
package svgflat
