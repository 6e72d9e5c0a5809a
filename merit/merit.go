// Package merit implements the proximal/augmented-Lagrangian merit
// function used by the inner Newton loop's line search: a proximal
// distance-to-previous-iterate penalty term, and the primal-dual AL
// merit value and gradient built from quantities the solver has
// already computed into its Workspace (shifted residuals, first-order
// and primal-dual multiplier estimates).
package merit

import "github.com/gonlp/proxnlp/manifold"

// ProxPenalty is ½ρ·d_M(x, target)², the proximal-distance term anchored
// at the previous outer iterate. Its target and weight ρ are mutated by
// the solver once per outer iteration (single-writer, single-reader,
// same discipline as constraintset.Set.SetProxParameter).
type ProxPenalty struct {
	m      manifold.Manifold
	rho    float64
	target []float64

	diff []float64 // scratch, length Ndx
	jac  []float64 // scratch, length Ndx*Ndx
}

// NewProxPenalty builds a zero-weight proximal penalty on m with target
// equal to the manifold's neutral element; SetTarget/SetRho are called
// by the solver before first use.
func NewProxPenalty(m manifold.Manifold) *ProxPenalty {
	ndx := m.Ndx()
	return &ProxPenalty{
		m:      m,
		target: m.Neutral(),
		diff:   make([]float64, ndx),
		jac:    make([]float64, ndx*ndx),
	}
}

// SetRho updates the proximal weight ρ.
func (p *ProxPenalty) SetRho(rho float64) { p.rho = rho }

// Rho returns the current proximal weight.
func (p *ProxPenalty) Rho() float64 { return p.rho }

// SetTarget copies x_prev into the penalty's anchor point.
func (p *ProxPenalty) SetTarget(xPrev []float64) { copy(p.target, xPrev) }

// Value returns ½ρ·d_M(x, target)².
func (p *ProxPenalty) Value(x []float64) float64 {
	p.m.Difference(x, p.target, p.diff)
	sum := 0.0
	for _, v := range p.diff {
		sum += v * v
	}
	return 0.5 * p.rho * sum
}

// Gradient writes ρ·∇_x[½d_M(x,target)²] into out (length Ndx), adding
// to whatever is already there rather than overwriting it — callers
// accumulate the merit gradient in place across cost, constraint, and
// prox contributions.
func (p *ProxPenalty) Gradient(x, out []float64) {
	ndx := p.m.Ndx()
	p.m.Difference(x, p.target, p.diff)
	p.m.Jdifference(x, p.target, manifold.Arg0, p.jac)
	for i := 0; i < ndx; i++ {
		sum := 0.0
		for k := 0; k < ndx; k++ {
			sum += p.jac[k*ndx+i] * p.diff[k]
		}
		out[i] += p.rho * sum
	}
}

// Hessian writes the Gauss-Newton approximation ρ·JᵀJ of the prox term's
// Hessian into out (Ndx×Ndx, row-major), added to whatever is already
// there.
func (p *ProxPenalty) Hessian(x, out []float64) {
	ndx := p.m.Ndx()
	p.m.Jdifference(x, p.target, manifold.Arg0, p.jac)
	for i := 0; i < ndx; i++ {
		for k := 0; k < ndx; k++ {
			sum := 0.0
			for l := 0; l < ndx; l++ {
				sum += p.jac[l*ndx+i] * p.jac[l*ndx+k]
			}
			out[i*ndx+k] += p.rho * sum
		}
	}
}

// ConstraintTerm returns the i-th constraint's contribution to the AL
// merit value:
//
//	λ_inner·z + (μ/2)‖λ_plus‖² − (μ/2)‖λ_inner−λ_plus‖²
//
// which is algebraically equivalent to
// λ_inner·z + (1/2μ)‖z−Π_C(z)‖² − (μ/2)‖λ_inner−λ_plus‖² once
// z−Π_C(z) = μ·λ_plus is substituted (the Moreau identity the
// constraint set's NormalConeProjection already encodes), so it avoids
// recomputing the set's projection a second time.
func ConstraintTerm(mu float64, z, lamInner, lamPlus []float64) float64 {
	dot := 0.0
	plusSq := 0.0
	diffSq := 0.0
	for i := range z {
		dot += lamInner[i] * z[i]
		plusSq += lamPlus[i] * lamPlus[i]
		d := lamInner[i] - lamPlus[i]
		diffSq += d * d
	}
	return dot + 0.5*mu*plusSq - 0.5*mu*diffSq
}

// Value returns the full merit φ(x,λ) = f(x) + Σ_i ConstraintTerm_i + prox.Value(x).
func Value(fval float64, constraintTerms []float64, proxVal float64) float64 {
	sum := fval + proxVal
	for _, t := range constraintTerms {
		sum += t
	}
	return sum
}

// AccumulateGradient adds J_iᵀ·lam into out (length Ndx) for the i-th
// constraint, where jac is the constraint's Nr×Ndx Jacobian (row-major,
// unprojected — the raw Jacobian, not the normal-cone-projected Ĵ the
// KKT matrix uses) and lam is whichever multiplier vector the caller is
// accumulating against: λ_inner for the KKT RHS, λ_pdal for the merit
// gradient.
func AccumulateGradient(ndx int, jac, lam, out []float64) {
	nr := len(lam)
	for j := 0; j < ndx; j++ {
		sum := 0.0
		for i := 0; i < nr; i++ {
			sum += jac[i*ndx+j] * lam[i]
		}
		out[j] += sum
	}
}
