package constraintset

import "gonum.org/v1/gonum/mat"

// Equality is the set {0} ⊂ ℝⁿ: c(x) = 0 exactly. Its normal cone is all
// of ℝⁿ, so the normal-cone projection is the identity and the
// projection is zero everywhere.
type Equality struct {
	n                   int
	mu                  float64
	gaussNewtonDisabled bool
}

// NewEquality builds the equality set {0} ⊂ ℝⁿ.
func NewEquality(n int) *Equality {
	return &Equality{n: n}
}

// WithGaussNewtonDisabled marks this set's VHP contribution as always
// zero, appropriate when the paired constraint function is affine.
func (e *Equality) WithGaussNewtonDisabled() *Equality {
	e.gaussNewtonDisabled = true
	return e
}

func (e *Equality) N() int                     { return e.n }
func (e *Equality) SetProxParameter(mu float64) { e.mu = mu }
func (e *Equality) DisableGaussNewton() bool    { return e.gaussNewtonDisabled }

func (e *Equality) Projection(z, out []float64) {
	for i := range out {
		out[i] = 0
	}
}

func (e *Equality) NormalConeProjection(z, out []float64) {
	copy(out, z)
}

func (e *Equality) ApplyNormalConeProjectionJacobian(z []float64, j *mat.Dense) {
	// d(ncp)/dz = I, so J is left untouched.
}

func (e *Equality) ComputeActiveSet(c []float64, mask []bool) {
	for i := range mask {
		mask[i] = true
	}
}
