package constraintset

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SecondOrderCone is the cone {(t,x) ∈ ℝ×ℝᵏ : ‖x‖ ≤ t} ⊂ ℝ^(1+k), the
// Lorentz cone. z[0] is t, z[1:] is x.
//
// Its projection/Jacobian scratch (projScratch, uScratch, dP, dNcp) is
// preallocated at construction and reused on every call; jacResult is
// allocated on the first ApplyNormalConeProjectionJacobian call and
// reallocated only when J's column count changes. Single-writer, like
// the mu prox parameter, so this is safe without locking.
type SecondOrderCone struct {
	k         int
	mu        float64
	ActiveTol float64

	projScratch []float64
	uScratch    []float64
	dP, dNcp    *mat.Dense
	jacResult   *mat.Dense
}

// NewSecondOrderCone builds the Lorentz cone of ambient dimension 1+k.
func NewSecondOrderCone(k int) *SecondOrderCone {
	n := k + 1
	return &SecondOrderCone{
		k:           k,
		ActiveTol:   defaultActiveTol,
		projScratch: make([]float64, n),
		uScratch:    make([]float64, k),
		dP:          mat.NewDense(n, n, nil),
		dNcp:        mat.NewDense(n, n, nil),
	}
}

func (s *SecondOrderCone) N() int                     { return s.k + 1 }
func (s *SecondOrderCone) SetProxParameter(mu float64) { s.mu = mu }
func (s *SecondOrderCone) DisableGaussNewton() bool    { return false }

func norm(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s *SecondOrderCone) Projection(z, out []float64) {
	t, x := z[0], z[1:]
	r := norm(x)
	switch {
	case r <= t:
		copy(out, z)
	case r <= -t:
		for i := range out {
			out[i] = 0
		}
	default:
		c := (t + r) / 2
		out[0] = c
		for i, v := range x {
			out[i+1] = c * v / r
		}
	}
}

func (s *SecondOrderCone) NormalConeProjection(z, out []float64) {
	p := s.projScratch
	s.Projection(z, p)
	for i := range out {
		out[i] = z[i] - p[i]
	}
}

// ApplyNormalConeProjectionJacobian uses the standard piecewise formula
// for the derivative of the Euclidean projection onto a second-order
// cone (e.g. Alizadeh & Goldfarb, "Second-order cone programming").
func (s *SecondOrderCone) ApplyNormalConeProjectionJacobian(z []float64, j *mat.Dense) {
	n := s.N()
	rows, cols := j.Dims()
	if rows != n {
		panic("constraintset: jacobian row count does not match set dimension")
	}

	dP := s.dP
	t, x := z[0], z[1:]
	r := norm(x)
	switch {
	case r <= t:
		dP.Zero()
		for i := 0; i < n; i++ {
			dP.Set(i, i, 1)
		}
	case r <= -t:
		dP.Zero()
	default:
		u := s.uScratch
		for i, v := range x {
			u[i] = v / r
		}
		dP.Set(0, 0, 0.5)
		for i, v := range u {
			dP.Set(0, i+1, 0.5*v)
			dP.Set(i+1, 0, 0.5*v)
		}
		coef := (t + r) / (2 * r)
		for i := 0; i < s.k; i++ {
			for k := 0; k < s.k; k++ {
				val := 0.5 * u[i] * u[k]
				if i == k {
					val += coef * (1 - u[i]*u[k])
				} else {
					val -= coef * u[i] * u[k]
				}
				dP.Set(i+1, k+1, val)
			}
		}
	}

	dNcp := s.dNcp
	dNcp.Zero()
	for i := 0; i < n; i++ {
		dNcp.Set(i, i, 1)
	}
	dNcp.Sub(dNcp, dP)

	if s.jacResult == nil || s.jacResult.RawMatrix().Cols != cols {
		s.jacResult = mat.NewDense(n, cols, nil)
	}
	s.jacResult.Mul(dNcp, j)
	j.Copy(s.jacResult)
}

func (s *SecondOrderCone) ComputeActiveSet(c []float64, mask []bool) {
	t, x := c[0], c[1:]
	r := norm(x)
	active := math.Abs(r-t) <= s.ActiveTol
	for i := range mask {
		mask[i] = active
	}
}
