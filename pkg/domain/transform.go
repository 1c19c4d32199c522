package domain

import (
	"strconv"
	"strings"
)

// TransformOp is a single SVG transform function such as translate(10,20).
type TransformOp struct {
	Name string
	Args []float64
}

// Translate returns a translate(x,y) operation.
func Translate(x, y float64) TransformOp {
	return TransformOp{Name: "translate", Args: []float64{x, y}}
}

// Scale returns a scale(sx,sy) operation.
func Scale(sx, sy float64) TransformOp {
	return TransformOp{Name: "scale", Args: []float64{sx, sy}}
}

func (op TransformOp) String() string {
	args := make([]string, len(op.Args))
	for i, a := range op.Args {
		args[i] = FormatNumber(a)
	}
	return op.Name + "(" + strings.Join(args, ",") + ")"
}

// Transform is an ordered composition of operations, applied left to right
// in SVG attribute order. Prefix holds a pre-existing transform attribute
// value that is kept verbatim in front of the computed operations.
type Transform struct {
	Prefix string
	Ops    []TransformOp
}

// String renders the transform as an SVG attribute value.
func (t Transform) String() string {
	parts := make([]string, 0, len(t.Ops)+1)
	if p := strings.TrimSpace(t.Prefix); p != "" {
		parts = append(parts, p)
	}
	for _, op := range t.Ops {
		parts = append(parts, op.String())
	}
	return strings.Join(parts, " ")
}

// FormatNumber renders v with the shortest representation that round-trips,
// never producing "-0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
