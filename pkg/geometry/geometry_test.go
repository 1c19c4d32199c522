package geometry_test

import (
	"math"
	"testing"

	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestParseViewBox(t *testing.T) {
	t.Run("Four Numeric Tokens Are Returned Unchanged", func(t *testing.T) {
		for _, tc := range []struct {
			in   string
			want domain.Box
		}{
			{"0 0 200 200", domain.Box{Width: 200, Height: 200}},
			{"-10 5.5 1e3 42", domain.Box{MinX: -10, MinY: 5.5, Width: 1000, Height: 42}},
			{"  1,2, 3 ,4 ", domain.Box{MinX: 1, MinY: 2, Width: 3, Height: 4}},
			{"0\t0\n10 10", domain.Box{Width: 10, Height: 10}},
		} {
			got, err := geometry.ParseViewBox(tc.in)
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got, tc.in)
		}
	})

	t.Run("Anything Else Falls Back", func(t *testing.T) {
		for _, in := range []string{"", "0 0 10", "0 0 10 10 10", "0 0 ten 10", "a b c d"} {
			got, err := geometry.ParseViewBox(in)
			assert.ErrorIs(t, err, domain.ErrMalformedViewBox, in)
			assert.Equal(t, domain.Box{Width: 100, Height: 100}, got, in)
		}
	})
}

func TestParseLength(t *testing.T) {
	for in, want := range map[string]float64{"12": 12, "12px": 12, " 3.5mm ": 3.5, "1e2pt": 100} {
		got, err := geometry.ParseLength(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "px", "50%", "auto"} {
		_, err := geometry.ParseLength(in)
		assert.Error(t, err, in)
	}
}

func TestIntrinsicBox(t *testing.T) {
	tests := []struct {
		name                  string
		viewBox, width, heigt string
		want                  domain.Box
		wantErr               bool
	}{
		{"viewBox wins", "5 5 50 60", "999", "999", domain.Box{MinX: 5, MinY: 5, Width: 50, Height: 60}, false},
		{"width and height with units", "", "300px", "150", domain.Box{Width: 300, Height: 150}, false},
		{"nothing declared", "", "", "", domain.Box{Width: 100, Height: 100}, false},
		{"only width", "", "40", "", domain.Box{Width: 40, Height: 100}, false},
		{"unparseable width resets both axes", "", "wide", "40", domain.Box{Width: 100, Height: 100}, true},
		{"unparseable height resets both axes", "", "40", "tall", domain.Box{Width: 100, Height: 100}, true},
		{"malformed viewBox", "0 0 1", "10", "10", domain.Box{Width: 100, Height: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := geometry.IntrinsicBox(tt.viewBox, tt.width, tt.heigt)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlacementBox(t *testing.T) {
	intrinsic := domain.Box{Width: 200, Height: 100}

	got, err := geometry.PlacementBox("", "", "", "", intrinsic)
	require.NoError(t, err)
	assert.Equal(t, domain.Box{Width: 200, Height: 100}, got)

	got, err = geometry.PlacementBox("10", "20px", "50", "", intrinsic)
	require.NoError(t, err)
	assert.Equal(t, domain.Box{MinX: 10, MinY: 20, Width: 50, Height: 100}, got)

	got, err = geometry.PlacementBox("oops", "1", "2", "3", intrinsic)
	assert.Error(t, err)
	assert.Equal(t, domain.Box{MinX: 0, MinY: 1, Width: 2, Height: 3}, got)
}

func TestPlacementTransform_ReferenceExample(t *testing.T) {
	intrinsic, err := geometry.ParseViewBox("0 0 200 200")
	require.NoError(t, err)
	placement, err := geometry.PlacementBox("10", "20", "50", "50", intrinsic)
	require.NoError(t, err)

	tr := geometry.PlacementTransform(intrinsic, placement, "")
	assert.Equal(t, "translate(10,20) scale(0.25,0.25) translate(0,0)", tr.String())
}

func TestPlacementTransform_CornersMapOntoPlacement(t *testing.T) {
	tests := []struct {
		name      string
		intrinsic domain.Box
		placement domain.Box
	}{
		{"identity", domain.Box{Width: 100, Height: 100}, domain.Box{Width: 100, Height: 100}},
		{"downscale", domain.Box{Width: 200, Height: 200}, domain.Box{MinX: 10, MinY: 20, Width: 50, Height: 50}},
		{"offset viewBox", domain.Box{MinX: -50, MinY: 30, Width: 300, Height: 120}, domain.Box{MinX: 7, MinY: 3, Width: 60, Height: 240}},
		{"non uniform", domain.Box{MinX: 1.5, MinY: 2.5, Width: 3, Height: 7}, domain.Box{MinX: -4, MinY: 9, Width: 33, Height: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := geometry.PlacementTransform(tt.intrinsic, tt.placement, "")
			m, err := geometry.Resolve(tr)
			require.NoError(t, err)
			assert.True(t, geometry.MapsOnto(m, tt.intrinsic, tt.placement, tol), tr.String())
		})
	}
}

func TestPlacementTransform_KeepsImageTransformFirst(t *testing.T) {
	intrinsic := domain.Box{Width: 10, Height: 10}
	placement := domain.Box{MinX: 1, MinY: 1, Width: 20, Height: 20}

	tr := geometry.PlacementTransform(intrinsic, placement, "translate(100,0)")
	assert.Equal(t, "translate(100,0) translate(1,1) scale(2,2) translate(0,0)", tr.String())

	m, err := geometry.Resolve(tr)
	require.NoError(t, err)
	shifted := domain.Box{MinX: 101, MinY: 1, Width: 20, Height: 20}
	assert.True(t, geometry.MapsOnto(m, intrinsic, shifted, tol))
}

func TestScaleFactors_DegenerateIntrinsicSize(t *testing.T) {
	sx, sy := geometry.ScaleFactors(domain.Box{Width: 0, Height: -5}, domain.Box{Width: 40, Height: 40})
	assert.Equal(t, 1.0, sx)
	assert.Equal(t, 1.0, sy)
	assert.False(t, math.IsInf(sx, 0))
}

func TestParseTransform(t *testing.T) {
	m, err := geometry.ParseTransform("matrix(1,0,0,1,5,6)")
	require.NoError(t, err)
	x, y := m.Apply(1, 1)
	assert.InDelta(t, 6, x, tol)
	assert.InDelta(t, 7, y, tol)

	m, err = geometry.ParseTransform("rotate(90)")
	require.NoError(t, err)
	x, y = m.Apply(1, 0)
	assert.InDelta(t, 0, x, tol)
	assert.InDelta(t, 1, y, tol)

	m, err = geometry.ParseTransform("translate(10) scale(2)")
	require.NoError(t, err)
	x, y = m.Apply(1, 1)
	assert.InDelta(t, 12, x, tol)
	assert.InDelta(t, 2, y, tol)

	_, err = geometry.ParseTransform("translate(1,2,3)")
	assert.Error(t, err)
	_, err = geometry.ParseTransform("wobble(1)")
	assert.Error(t, err)
}
