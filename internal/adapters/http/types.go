package http

import "github.com/aretw0/svgflat/pkg/domain"

type FlattenRequest struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
}

type ConvertRequest struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	KeepTemp   bool   `json:"keep_temp,omitempty"`
	TextToPath bool   `json:"text_to_path,omitempty"`
}

type GraphRequest struct {
	Input  string `json:"input"`
	Format string `json:"format,omitempty"`
}

// ConversionResponse answers /flatten and /convert.
type ConversionResponse struct {
	Output string                 `json:"output"`
	Counts map[domain.Outcome]int `json:"counts"`
	Report *domain.Report         `json:"report"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func newConversionResponse(r *domain.Report) ConversionResponse {
	return ConversionResponse{Output: r.Output, Counts: r.Counts(), Report: r}
}
