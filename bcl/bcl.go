// Package bcl implements the Bertsekas-Conn-Lagarias-style penalty and
// tolerance update rules the outer augmented-Lagrangian loop runs at
// the end of every iteration: whether to tighten tolerances (inner
// solve met the current primal tolerance) or loosen the penalty and
// reset tolerances from scratch (it didn't).
package bcl

import "math"

// Params holds the BCL update-rule constants and their defaults.
type Params struct {
	PrimAlpha float64 // exponent of μ in the failure rule for η
	PrimBeta  float64 // exponent of μ/μUpper in the success rule for η
	DualAlpha float64 // exponent of μ in the failure rule for ω
	DualBeta  float64 // exponent of μ/μUpper in the success rule for ω

	MuInit   float64
	MuMin    float64
	MuFactor float64 // < 1: shrinking μ tightens the penalty
	MuUpper  float64 // reference μ_up used by the success rule

	OmegaMin float64

	RhoUpdateFactor float64

	// Eta0, Omega0 are the base tolerances (η0, ω0) the failure rule
	// scales by powers of μ; conventionally the solver's target
	// tolerance, fixed once at construction.
	Eta0, Omega0 float64
}

// DefaultParams returns the standard BCL tuning constants (MuUpper
// defaults to 1), with Eta0/Omega0/OmegaMin/MuInit/RhoUpdateFactor left
// zero for the caller to fill in — they depend on the problem and its
// target tolerance and are not universal constants.
func DefaultParams() Params {
	return Params{
		PrimAlpha: 0.1,
		PrimBeta:  0.9,
		DualAlpha: 1.0,
		DualBeta:  1.0,
		MuFactor:  0.1,
		MuMin:     1e-9,
		MuUpper:   1,
	}
}

// FailureTolerances computes the "failure rule" η and ω at penalty μ:
// η = η0·μ^primAlpha, ω = ω0·μ^dualAlpha. Used both at initialization
// (with μ = μInit) and whenever the inner solve misses the current
// primal tolerance.
func FailureTolerances(mu float64, p Params) (eta, omega float64) {
	eta = p.Eta0 * math.Pow(mu, p.PrimAlpha)
	omega = p.Omega0 * math.Pow(mu, p.DualAlpha)
	return eta, omega
}

// SuccessTolerances tightens the current (etaK, omegaK) by the ratio
// μ/μUpper: η_{k+1} = η_k·(μ/μUp)^primBeta, ω_{k+1} = ω_k·(μ/μUp)^dualBeta.
func SuccessTolerances(etaK, omegaK, mu float64, p Params) (eta, omega float64) {
	ratio := mu / p.MuUpper
	eta = etaK * math.Pow(ratio, p.PrimBeta)
	omega = omegaK * math.Pow(ratio, p.DualBeta)
	return eta, omega
}

// UpdatePenalty shrinks μ by MuFactor (floored at MuMin), or resets it
// to MuInit if it was already at the floor — tighten the penalty, but
// don't get stuck at the floor forever.
func UpdatePenalty(mu float64, p Params) float64 {
	if mu <= p.MuMin {
		return p.MuInit
	}
	next := mu * p.MuFactor
	if next < p.MuMin {
		next = p.MuMin
	}
	return next
}

// UpdateRho scales the proximal weight unconditionally, every outer
// iteration regardless of success or failure.
func UpdateRho(rho float64, p Params) float64 {
	return rho * p.RhoUpdateFactor
}

// Clamp enforces the required floors: ω ≥ ωMin, η ≥ targetTol.
func Clamp(eta, omega, targetTol float64, p Params) (float64, float64) {
	if eta < targetTol {
		eta = targetTol
	}
	if omega < p.OmegaMin {
		omega = p.OmegaMin
	}
	return eta, omega
}
