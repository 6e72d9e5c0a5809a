package constraintset

import "gonum.org/v1/gonum/mat"

// NegativeOrthant is the nonnegative orthant ℝⁿ₊ = {z : z ≥ 0}. Pairing
// a constraint c(x) with this set encodes c(x) ≥ 0.
type NegativeOrthant struct {
	n         int
	mu        float64
	ActiveTol float64
}

// NewNegativeOrthant builds the set ℝⁿ₊.
func NewNegativeOrthant(n int) *NegativeOrthant {
	return &NegativeOrthant{n: n, ActiveTol: defaultActiveTol}
}

func (o *NegativeOrthant) N() int                     { return o.n }
func (o *NegativeOrthant) SetProxParameter(mu float64) { o.mu = mu }
func (o *NegativeOrthant) DisableGaussNewton() bool    { return false }

func (o *NegativeOrthant) Projection(z, out []float64) {
	for i, v := range z {
		if v > 0 {
			out[i] = v
		} else {
			out[i] = 0
		}
	}
}

func (o *NegativeOrthant) NormalConeProjection(z, out []float64) {
	for i, v := range z {
		if v < 0 {
			out[i] = v
		} else {
			out[i] = 0
		}
	}
}

// ApplyNormalConeProjectionJacobian scales row i of J by 1 where
// z_i < 0 (active constraint, where the normal-cone projection is z_i
// itself) and 0 where z_i ≥ 0, the subgradient of min(z,0).
func (o *NegativeOrthant) ApplyNormalConeProjectionJacobian(z []float64, j *mat.Dense) {
	rows, cols := j.Dims()
	if rows != len(z) {
		panic("constraintset: jacobian row count does not match set dimension")
	}
	for i := 0; i < rows; i++ {
		if z[i] >= 0 {
			for k := 0; k < cols; k++ {
				j.Set(i, k, 0)
			}
		}
	}
}

func (o *NegativeOrthant) ComputeActiveSet(c []float64, mask []bool) {
	for i, v := range c {
		mask[i] = v <= o.ActiveTol
	}
}
