package geometry

import (
	"math"
	"strings"

	"golang.org/x/image/math/f64"
)

// Matrix is a 2D affine transform in row major order, bottom row [0 0 1]:
//
//	x' = m[0]*x + m[1]*y + m[2]
//	y' = m[3]*x + m[4]*y + m[5]
type Matrix f64.Aff3

// Identity is the neutral transform.
var Identity = Matrix{1, 0, 0, 0, 1, 0}

// Mult returns m * n, i.e. n is applied first.
func (m Matrix) Mult(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

func (m Matrix) Translate(x, y float64) Matrix {
	return m.Mult(Matrix{1, 0, x, 0, 1, y})
}

func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Mult(Matrix{sx, 0, 0, 0, sy, 0})
}

// Rotate by theta radians.
func (m Matrix) Rotate(theta float64) Matrix {
	s, c := math.Sincos(theta)
	return m.Mult(Matrix{c, -s, 0, s, c, 0})
}

func (m Matrix) SkewX(theta float64) Matrix {
	return m.Mult(Matrix{1, math.Tan(theta), 0, 0, 1, 0})
}

func (m Matrix) SkewY(theta float64) Matrix {
	return m.Mult(Matrix{1, 0, 0, math.Tan(theta), 1, 0})
}

// Apply maps the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func (m Matrix) apply(name string, p []float64) (Matrix, error) {
	ln := len(p)
	switch name {
	case "rotate":
		if ln == 1 {
			return m.Rotate(p[0] * math.Pi / 180), nil
		} else if ln == 3 {
			return m.Translate(p[1], p[2]).
				Rotate(p[0]*math.Pi/180).
				Translate(-p[1], -p[2]), nil
		}
	case "translate":
		if ln == 1 {
			return m.Translate(p[0], 0), nil
		} else if ln == 2 {
			return m.Translate(p[0], p[1]), nil
		}
	case "skewx":
		if ln == 1 {
			return m.SkewX(p[0] * math.Pi / 180), nil
		}
	case "skewy":
		if ln == 1 {
			return m.SkewY(p[0] * math.Pi / 180), nil
		}
	case "scale":
		if ln == 1 {
			return m.Scale(p[0], p[0]), nil
		} else if ln == 2 {
			return m.Scale(p[0], p[1]), nil
		}
	case "matrix":
		if ln == 6 {
			// SVG order is a b c d e f, column major.
			return m.Mult(Matrix{p[0], p[2], p[4], p[1], p[3], p[5]}), nil
		}
	}
	return m, errParamMismatch
}

// ParseTransform parses an SVG transform attribute value.
func ParseTransform(v string) (Matrix, error) {
	m := Identity
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), ","))
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return Identity, errParamMismatch // badly formed transformation
		}
		points, err := parseNumbers(d[1])
		if err != nil {
			return Identity, err
		}
		m, err = m.apply(strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return Identity, err
		}
	}
	return m, nil
}
