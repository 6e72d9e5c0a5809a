package linesearch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArmijoAcceptsFullStepOnStrongDescent(t *testing.T) {
	// phi(alpha) = phi0 + alpha*dphi exactly: any c1 < 1 accepts alpha=1.
	phi0, dphi := 10.0, -4.0
	trial := func(alpha float64) float64 { return phi0 + alpha*dphi }

	alpha, phi, ok := Armijo(phi0, dphi, trial, DefaultOptions())
	require.True(t, ok)
	require.Equal(t, 1.0, alpha)
	require.InDelta(t, phi0+dphi, phi, 1e-12)
}

func TestArmijoBacktracksUntilSufficientDecrease(t *testing.T) {
	phi0, dphi := 10.0, -1.0
	// phi only decreases fast enough once alpha <= 0.25.
	trial := func(alpha float64) float64 {
		if alpha > 0.25 {
			return phi0 + 0.01 // barely moves, fails the Armijo test
		}
		return phi0 + alpha*dphi
	}

	opts := Options{C1: 1e-4, AlphaMin: 1e-7}
	alpha, _, ok := Armijo(phi0, dphi, trial, opts)
	require.True(t, ok)
	require.LessOrEqual(t, alpha, 0.25)
	require.Greater(t, alpha, 0.0)
}

func TestArmijoFallsBackToAlphaMinWhenNeverSatisfied(t *testing.T) {
	phi0, dphi := 10.0, -1.0
	// trial never decreases: every backtrack fails the sufficient-decrease test.
	trial := func(alpha float64) float64 { return phi0 + 1.0 }

	opts := Options{C1: 1e-4, AlphaMin: 1e-3}
	alpha, phi, ok := Armijo(phi0, dphi, trial, opts)
	require.False(t, ok)
	require.Equal(t, opts.AlphaMin, alpha)
	require.InDelta(t, phi0+1.0, phi, 1e-12)
}

func TestDefaultOptionsMatchesSpecDefaults(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, 1e-4, opts.C1)
	require.Equal(t, 1e-7, opts.AlphaMin)
}
