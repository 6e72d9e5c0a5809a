// Package linesearch implements the Armijo backtracking line search the
// inner Newton loop runs against the primal-dual augmented-Lagrangian
// merit function.
package linesearch

// TrialFunc evaluates the merit function at step size alpha along the
// current Newton direction. It is expected to retract the primal point,
// advance the multipliers, re-evaluate residuals and multiplier
// estimates, and return the resulting merit value.
type TrialFunc func(alpha float64) (phi float64)

// Options configures Armijo.
type Options struct {
	// C1 is the sufficient-decrease constant, c₁ ∈ (0,1).
	C1 float64
	// AlphaMin is the smallest step size tried before giving up.
	AlphaMin float64
}

// DefaultOptions returns the standard Armijo configuration.
func DefaultOptions() Options {
	return Options{C1: 1e-4, AlphaMin: 1e-7}
}

// Armijo backtracks from α=1, halving α while
// trial(α) > phi0 + C1·α·dphi, until the condition is satisfied or α
// drops below AlphaMin. It returns the accepted step size, the merit
// value there, and whether the Armijo condition was actually met (false
// means the caller is getting the AlphaMin fallback step).
//
// dphi is expected to be negative (a descent direction); this is not
// enforced here — if it isn't, backtracking simply fails and the caller
// takes the AlphaMin step, relying on the next inertia correction to
// fix the underlying cause.
func Armijo(phi0, dphi float64, trial TrialFunc, opts Options) (alpha, phi float64, ok bool) {
	alpha = 1.0
	for alpha >= opts.AlphaMin {
		phi = trial(alpha)
		if phi <= phi0+opts.C1*alpha*dphi {
			return alpha, phi, true
		}
		alpha /= 2
	}
	alpha = opts.AlphaMin
	phi = trial(alpha)
	return alpha, phi, false
}
