package geometry

import (
	"math"
	"strings"

	"github.com/aretw0/svgflat/pkg/domain"
)

// ScaleFactors returns placement size / intrinsic size per axis.
// A zero or negative intrinsic size yields 1 on that axis.
func ScaleFactors(intrinsic, placement domain.Box) (sx, sy float64) {
	sx, sy = 1, 1
	if intrinsic.Width > 0 {
		sx = placement.Width / intrinsic.Width
	}
	if intrinsic.Height > 0 {
		sy = placement.Height / intrinsic.Height
	}
	return sx, sy
}

// PlacementTransform composes the transform that maps the intrinsic box onto
// the placement box: prefix, translate to the placement origin, scale, then
// cancel the viewBox offset. Order matters.
func PlacementTransform(intrinsic, placement domain.Box, prefix string) domain.Transform {
	sx, sy := ScaleFactors(intrinsic, placement)
	return domain.Transform{
		Prefix: prefix,
		Ops: []domain.TransformOp{
			domain.Translate(placement.MinX, placement.MinY),
			domain.Scale(sx, sy),
			domain.Translate(-intrinsic.MinX, -intrinsic.MinY),
		},
	}
}

// Resolve returns the matrix of a transform, including its parsed prefix.
func Resolve(t domain.Transform) (Matrix, error) {
	m := Identity
	if strings.TrimSpace(t.Prefix) != "" {
		pm, err := ParseTransform(t.Prefix)
		if err != nil {
			return Identity, err
		}
		m = pm
	}
	for _, op := range t.Ops {
		var err error
		m, err = m.apply(strings.ToLower(op.Name), op.Args)
		if err != nil {
			return Identity, err
		}
	}
	return m, nil
}

// MapsOnto reports whether m sends every corner of from onto the matching
// corner of to, within tol.
func MapsOnto(m Matrix, from, to domain.Box, tol float64) bool {
	src, dst := from.Corners(), to.Corners()
	for i := range src {
		x, y := m.Apply(src[i][0], src[i][1])
		if math.Abs(x-dst[i][0]) > tol || math.Abs(y-dst[i][1]) > tol {
			return false
		}
	}
	return true
}
