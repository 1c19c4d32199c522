package domain

// Outcome describes what happened to a single reference.
type Outcome string

const (
	OutcomeInlined  Outcome = "inlined"
	OutcomeSkipped  Outcome = "skipped"  // target missing or unresolvable
	OutcomeFailed   Outcome = "failed"   // normalization or parsing of the target failed
	OutcomeCycle    Outcome = "cycle"    // target already being expanded higher up the stack
	OutcomeTooDeep  Outcome = "too_deep" // depth bound reached
	OutcomeCanceled Outcome = "canceled"
)

// Reference is an embedded image that points at another SVG file.
type Reference struct {
	// Href is the raw attribute value as found in the document.
	Href string `json:"href"`
	// Path is the resolved local file, empty when resolution failed.
	Path string `json:"path,omitempty"`
	// Placement is the box the image occupies in its parent.
	Placement Box `json:"placement"`
	// Transform is the image's own transform attribute, if any.
	Transform string `json:"transform,omitempty"`
	Depth     int    `json:"depth"`
}

// ExportOptions controls the PDF export step.
type ExportOptions struct {
	// TextToPath converts text to vector outlines before export.
	TextToPath bool `json:"text_to_path"`
}
