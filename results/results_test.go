package results

import (
	"testing"

	"github.com/gonlp/proxnlp/constraintset"
	"github.com/gonlp/proxnlp/cost"
	"github.com/gonlp/proxnlp/function"
	"github.com/gonlp/proxnlp/manifold"
	"github.com/gonlp/proxnlp/problem"
	"github.com/stretchr/testify/require"
)

func buildProblem() *problem.Problem {
	m := manifold.NewEuclidean(2)
	c := cost.NewQuadratic([]float64{2, 0, 0, 2}, []float64{0, 0})
	f1 := function.NewNumerical(2, 2, func(x, out []float64) { copy(out, x) })
	return problem.New(m, c, []problem.Constraint{
		{Func: f1, Set: constraintset.NewEquality(2)},
	})
}

func TestResultsSizingAndViews(t *testing.T) {
	p := buildProblem()
	r := New(p, 2)

	require.Len(t, r.XOpt, 2)
	require.Len(t, r.LamsOpt, 2)
	require.Equal(t, Unconverged, r.Convergence)

	r.LamsOptView(0)[0] = 5
	require.Equal(t, 5.0, r.LamsOpt[0])
}

func TestConvergenceFlagString(t *testing.T) {
	require.Equal(t, "SUCCESS", Success.String())
	require.Equal(t, "MAX_ITERS_REACHED", MaxItersReached.String())
	require.Equal(t, "NUMERICAL_FAILURE", NumericalFailure.String())
	require.Equal(t, "UNCONVERGED", Unconverged.String())
}
