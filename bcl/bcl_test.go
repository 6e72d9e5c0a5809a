package bcl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultedParams() Params {
	p := DefaultParams()
	p.Eta0, p.Omega0, p.OmegaMin = 1e-4, 1e-4, 1e-4
	return p
}

func TestFailureTolerancesScalesByMuPower(t *testing.T) {
	p := defaultedParams()
	eta, omega := FailureTolerances(0.01, p)

	require.InDelta(t, p.Eta0*math.Pow(0.01, p.PrimAlpha), eta, 1e-15)
	require.InDelta(t, p.Omega0*math.Pow(0.01, p.DualAlpha), omega, 1e-15)
}

func TestSuccessTolerancesTightensByMuRatio(t *testing.T) {
	p := defaultedParams()
	p.MuUpper = 1.0
	etaK, omegaK := 0.5, 0.3

	eta, omega := SuccessTolerances(etaK, omegaK, 0.1, p)

	wantEta := etaK * math.Pow(0.1, p.PrimBeta)
	wantOmega := omegaK * math.Pow(0.1, p.DualBeta)
	require.InDelta(t, wantEta, eta, 1e-15)
	require.InDelta(t, wantOmega, omega, 1e-15)
	// A success step tightens tolerances (ratio < 1): both must shrink.
	require.Less(t, eta, etaK)
	require.Less(t, omega, omegaK)
}

func TestUpdatePenaltyShrinksUntilFloor(t *testing.T) {
	p := defaultedParams()
	p.MuFactor = 0.1
	p.MuMin = 1e-3
	p.MuInit = 1.0

	mu := UpdatePenalty(0.01, p)
	require.InDelta(t, 1e-3, mu, 1e-15)
}

func TestUpdatePenaltyResetsFromFloor(t *testing.T) {
	p := defaultedParams()
	p.MuMin = 1e-3
	p.MuInit = 1.0

	mu := UpdatePenalty(1e-3, p)
	require.Equal(t, p.MuInit, mu)
}

func TestUpdateRhoScalesUnconditionally(t *testing.T) {
	p := defaultedParams()
	p.RhoUpdateFactor = 2.0
	require.InDelta(t, 4.0, UpdateRho(2.0, p), 1e-15)
}

func TestClampEnforcesFloors(t *testing.T) {
	p := defaultedParams()
	p.OmegaMin = 1e-6
	targetTol := 1e-5

	eta, omega := Clamp(1e-8, 1e-9, targetTol, p)
	require.Equal(t, targetTol, eta)
	require.Equal(t, p.OmegaMin, omega)
}

func TestClampLeavesValuesAboveFloorsUntouched(t *testing.T) {
	p := defaultedParams()
	p.OmegaMin = 1e-6
	targetTol := 1e-5

	eta, omega := Clamp(1e-2, 1e-2, targetTol, p)
	require.Equal(t, 1e-2, eta)
	require.Equal(t, 1e-2, omega)
}
