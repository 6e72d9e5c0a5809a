// Package constraintset implements the closed-convex-set abstraction
// C_i that each constraint c_i(x) is required to land in: projection
// onto the set, projection onto its normal cone (at the solver's
// current penalty scale), the generalized Jacobian of that normal-cone
// projection, and an active-set mask.
package constraintset

import "gonum.org/v1/gonum/mat"

// Set is a closed convex subset of ℝᴺ the solver projects residuals
// onto and whose normal cone it needs the (generalized) Jacobian of.
//
// The proximal parameter μ is mutated by the solver at the top of each
// outer iteration, single-writer single-reader; every built-in set here
// is a cone (or a product of intervals, whose normal cones are cones),
// so μ never actually enters the projection formulas — normal cones of
// cones are invariant under positive rescaling. The hook is kept for
// sets that are not cones.
type Set interface {
	// N is the ambient dimension of the set.
	N() int
	// SetProxParameter updates μ for this set.
	SetProxParameter(mu float64)
	// Projection writes P_C(z) into out.
	Projection(z, out []float64)
	// NormalConeProjection writes z - P_C(z) into out.
	NormalConeProjection(z, out []float64)
	// ApplyNormalConeProjectionJacobian left-multiplies J (an N×k matrix)
	// in place by the generalized Jacobian of NormalConeProjection at z.
	ApplyNormalConeProjectionJacobian(z []float64, j *mat.Dense)
	// ComputeActiveSet marks, in mask (length N), which coordinates of c
	// are at the boundary of C.
	ComputeActiveSet(c []float64, mask []bool)
	// DisableGaussNewton reports whether this set's vector-Hessian-product
	// contribution is always zero and can be skipped.
	DisableGaussNewton() bool
}

const defaultActiveTol = 1e-8
