package numdiff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJacobianForwardQuadratic(t *testing.T) {
	// f(x) = [x0^2 + x1, x0*x1]
	object := func(x, y []float64) {
		y[0] = x[0]*x[0] + x[1]
		y[1] = x[0] * x[1]
	}
	x0 := []float64{1.5, -2.0}
	out := make([]float64, 4)
	var scratch Scratch
	Jacobian(Forward, 2, 2, object, x0, out, scratch)

	want := []float64{2 * x0[0], 1, x0[1], x0[0]}
	for i := range want {
		require.InDelta(t, want[i], out[i], 1e-3)
	}
}

func TestJacobianCentralIsMoreAccurate(t *testing.T) {
	object := func(x, y []float64) {
		y[0] = math.Sin(x[0]) * math.Cos(x[1])
	}
	x0 := []float64{0.7, 1.3}
	outF := make([]float64, 2)
	outC := make([]float64, 2)
	var sf, sc Scratch
	Jacobian(Forward, 2, 1, object, x0, outF, sf)
	Jacobian(Central, 2, 1, object, x0, outC, sc)

	want := []float64{math.Cos(x0[0]) * math.Cos(x0[1]), -math.Sin(x0[0]) * math.Sin(x0[1])}
	errF := math.Abs(outF[0]-want[0]) + math.Abs(outF[1]-want[1])
	errC := math.Abs(outC[0]-want[0]) + math.Abs(outC[1]-want[1])
	require.Less(t, errC, errF)
}
