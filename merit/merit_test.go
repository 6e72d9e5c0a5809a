package merit

import (
	"testing"

	"github.com/gonlp/proxnlp/manifold"
	"github.com/stretchr/testify/require"
)

func TestProxPenaltyValueIsHalfRhoSquaredDistance(t *testing.T) {
	m := manifold.NewEuclidean(2)
	p := NewProxPenalty(m)
	p.SetRho(2.0)
	p.SetTarget([]float64{1, 1})

	// d_M(x,target)^2 = (3-1)^2+(3-1)^2 = 8, value = 0.5*2*8 = 8.
	require.InDelta(t, 8.0, p.Value([]float64{3, 3}), 1e-12)
}

func TestProxPenaltyGradientIsRhoTimesDisplacement(t *testing.T) {
	m := manifold.NewEuclidean(2)
	p := NewProxPenalty(m)
	p.SetRho(2.0)
	p.SetTarget([]float64{1, 1})

	x := []float64{3, 3}
	grad := make([]float64, 2)
	p.Gradient(x, grad)

	// On Euclidean space d_M(x,target)^2 = ||x-target||^2, whose gradient
	// is 2(x-target); scaled by rho/2 this is rho*(x-target).
	require.InDelta(t, 2.0*(3-1), grad[0], 1e-9)
	require.InDelta(t, 2.0*(3-1), grad[1], 1e-9)
}

func TestProxPenaltyGradientAccumulates(t *testing.T) {
	m := manifold.NewEuclidean(1)
	p := NewProxPenalty(m)
	p.SetRho(1.0)
	p.SetTarget([]float64{0})

	grad := []float64{5}
	p.Gradient([]float64{2}, grad)
	// rho*(x-target) = 1*2 = 2, added to the pre-existing 5.
	require.InDelta(t, 7.0, grad[0], 1e-12)
}

func TestProxPenaltyHessianIsRhoIdentityOnEuclidean(t *testing.T) {
	m := manifold.NewEuclidean(2)
	p := NewProxPenalty(m)
	p.SetRho(3.0)
	p.SetTarget([]float64{0, 0})

	hess := make([]float64, 4)
	p.Hessian([]float64{1, 1}, hess)
	require.InDelta(t, 3.0, hess[0], 1e-12)
	require.InDelta(t, 0.0, hess[1], 1e-12)
	require.InDelta(t, 0.0, hess[2], 1e-12)
	require.InDelta(t, 3.0, hess[3], 1e-12)
}

func TestConstraintTermMatchesDirectFormula(t *testing.T) {
	mu := 0.5
	z := []float64{1, 2}
	lamInner := []float64{0.1, 0.2}
	lamPlus := []float64{0.3, 0.4}

	got := ConstraintTerm(mu, z, lamInner, lamPlus)

	dot := lamInner[0]*z[0] + lamInner[1]*z[1]
	plusSq := lamPlus[0]*lamPlus[0] + lamPlus[1]*lamPlus[1]
	diffSq := (lamInner[0]-lamPlus[0])*(lamInner[0]-lamPlus[0]) + (lamInner[1]-lamPlus[1])*(lamInner[1]-lamPlus[1])
	want := dot + 0.5*mu*plusSq - 0.5*mu*diffSq

	require.InDelta(t, want, got, 1e-12)
}

func TestValueSumsAllTerms(t *testing.T) {
	got := Value(1.5, []float64{0.5, -0.25}, 2.0)
	require.InDelta(t, 1.5+0.5-0.25+2.0, got, 1e-12)
}

func TestAccumulateGradientAddsJacobianTransposeTimesMultiplier(t *testing.T) {
	ndx := 2
	jac := []float64{1, 0, 0, 1} // identity, 2x2
	lamPdal := []float64{3, 4}
	out := []float64{10, 20}

	AccumulateGradient(ndx, jac, lamPdal, out)

	require.InDelta(t, 13.0, out[0], 1e-12)
	require.InDelta(t, 24.0, out[1], 1e-12)
}

func TestAccumulateGradientNonSquareJacobian(t *testing.T) {
	ndx := 2
	// 1x2 Jacobian, single scalar constraint c(x) = x0 + x1.
	jac := []float64{1, 1}
	lamPdal := []float64{5}
	out := []float64{0, 0}

	AccumulateGradient(ndx, jac, lamPdal, out)

	require.InDelta(t, 5.0, out[0], 1e-12)
	require.InDelta(t, 5.0, out[1], 1e-12)
}
