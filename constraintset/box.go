package constraintset

import "gonum.org/v1/gonum/mat"

// Box is the axis-aligned box [Lower, Upper] ⊂ ℝⁿ.
type Box struct {
	Lower, Upper []float64
	mu           float64
	ActiveTol    float64
}

// NewBox builds the box [lower, upper]; both must have the same length
// and lower[i] <= upper[i] for every i.
func NewBox(lower, upper []float64) *Box {
	if len(lower) != len(upper) {
		panic("constraintset: box bounds have mismatched length")
	}
	for i := range lower {
		if lower[i] > upper[i] {
			panic("constraintset: box lower bound exceeds upper bound")
		}
	}
	return &Box{Lower: lower, Upper: upper, ActiveTol: defaultActiveTol}
}

func (b *Box) N() int                     { return len(b.Lower) }
func (b *Box) SetProxParameter(mu float64) { b.mu = mu }
func (b *Box) DisableGaussNewton() bool    { return true } // box projection is piecewise-affine

func (b *Box) Projection(z, out []float64) {
	for i, v := range z {
		switch {
		case v < b.Lower[i]:
			out[i] = b.Lower[i]
		case v > b.Upper[i]:
			out[i] = b.Upper[i]
		default:
			out[i] = v
		}
	}
}

func (b *Box) NormalConeProjection(z, out []float64) {
	for i, v := range z {
		switch {
		case v < b.Lower[i]:
			out[i] = v - b.Lower[i]
		case v > b.Upper[i]:
			out[i] = v - b.Upper[i]
		default:
			out[i] = 0
		}
	}
}

func (b *Box) ApplyNormalConeProjectionJacobian(z []float64, j *mat.Dense) {
	rows, cols := j.Dims()
	if rows != len(z) {
		panic("constraintset: jacobian row count does not match set dimension")
	}
	for i := 0; i < rows; i++ {
		if z[i] >= b.Lower[i] && z[i] <= b.Upper[i] {
			for k := 0; k < cols; k++ {
				j.Set(i, k, 0)
			}
		}
	}
}

func (b *Box) ComputeActiveSet(c []float64, mask []bool) {
	for i, v := range c {
		mask[i] = v-b.Lower[i] <= b.ActiveTol || b.Upper[i]-v <= b.ActiveTol
	}
}
