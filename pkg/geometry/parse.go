package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/svgflat/pkg/domain"
)

var errParamMismatch = errors.New("transform parameter mismatch")

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func parseNumbers(s string) ([]float64, error) {
	fields := splitOnCommaOrSpace(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseViewBox parses a viewBox attribute of exactly four numbers.
// On any other input it returns domain.DefaultBox together with an error
// wrapping domain.ErrMalformedViewBox.
func ParseViewBox(s string) (domain.Box, error) {
	nums, err := parseNumbers(s)
	if err != nil || len(nums) != 4 {
		return domain.DefaultBox, fmt.Errorf("%w: %q", domain.ErrMalformedViewBox, s)
	}
	return domain.Box{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, nil
}

// ParseLength parses a length attribute, stripping any alphabetic unit suffix
// ("12px", "3.5mm"). The unit is not converted. Percentages are rejected.
func ParseLength(s string) (float64, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimRightFunc(v, unicode.IsLetter)
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("empty length %q", s)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return f, nil
}

// IntrinsicBox determines a document's internal coordinate box.
// An explicit viewBox wins; otherwise width and height are used with minX=minY=0.
// If either of them cannot be parsed, both fall back to domain.DefaultBoxSize.
// A non-nil error means a fallback was used and should be reported as a warning;
// the returned box is always usable.
func IntrinsicBox(viewBox, width, height string) (domain.Box, error) {
	if strings.TrimSpace(viewBox) != "" {
		return ParseViewBox(viewBox)
	}
	box := domain.DefaultBox
	var errs []error
	if width != "" {
		w, err := ParseLength(width)
		if err != nil {
			errs = append(errs, fmt.Errorf("width: %w", err))
		}
		box.Width = w
	}
	if height != "" {
		h, err := ParseLength(height)
		if err != nil {
			errs = append(errs, fmt.Errorf("height: %w", err))
		}
		box.Height = h
	}
	if len(errs) > 0 {
		return domain.DefaultBox, errors.Join(errs...)
	}
	return box, nil
}

// PlacementBox reads the placement of an <image> element. Missing x and y
// default to 0, missing width and height to the intrinsic size. Unparseable
// values fall back to the same defaults and are reported in the error.
func PlacementBox(x, y, width, height string, intrinsic domain.Box) (domain.Box, error) {
	var errs []error
	read := func(name, v string, def float64) float64 {
		if strings.TrimSpace(v) == "" {
			return def
		}
		f, err := ParseLength(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return def
		}
		return f
	}
	box := domain.Box{
		MinX:   read("x", x, 0),
		MinY:   read("y", y, 0),
		Width:  read("width", width, intrinsic.Width),
		Height: read("height", height, intrinsic.Height),
	}
	return box, errors.Join(errs...)
}
