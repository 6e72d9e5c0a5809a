package manifold

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEuclideanRoundTrip(t *testing.T) {
	e := NewEuclidean(4)
	r := rand.New(rand.NewSource(12))
	for trial := 0; trial < 20; trial++ {
		x := randVec(r, 4)
		v := randVec(r, 4)
		y := make([]float64, 4)
		e.Integrate(x, v, y)

		back := make([]float64, 4)
		e.Difference(x, y, back)
		for i := range v {
			require.InDelta(t, v[i], back[i], 1e-10)
		}

		fwd := make([]float64, 4)
		e.Integrate(x, back, fwd)
		for i := range y {
			require.InDelta(t, y[i], fwd[i], 1e-10)
		}
	}
}

func TestSO2RoundTrip(t *testing.T) {
	m := NewSO2()
	r := rand.New(rand.NewSource(79))
	for trial := 0; trial < 50; trial++ {
		theta := (r.Float64()*2 - 1) * math.Pi
		omega := (r.Float64()*2 - 1) * math.Pi * 0.4
		x := FromAngle(theta)
		y := make([]float64, 2)
		m.Integrate(x, []float64{omega}, y)

		back := make([]float64, 1)
		m.Difference(x, y, back)
		require.InDelta(t, omega, back[0], 1e-9)

		fwd := make([]float64, 2)
		m.Integrate(x, back, fwd)
		require.InDelta(t, y[0], fwd[0], 1e-9)
		require.InDelta(t, y[1], fwd[1], 1e-9)
	}
}

func TestSO2JdifferenceFiniteDiff(t *testing.T) {
	m := NewSO2()
	x := FromAngle(0.3)
	y := FromAngle(1.1)
	h := 1e-6

	var j0, j1 [1]float64
	m.Jdifference(x, y, Arg0, j0[:])
	m.Jdifference(x, y, Arg1, j1[:])

	xph := make([]float64, 2)
	m.Integrate(x, []float64{h}, xph)
	var d0, dph []float64 = make([]float64, 1), make([]float64, 1)
	m.Difference(x, y, d0)
	m.Difference(xph, y, dph)
	fd0 := (dph[0] - d0[0]) / h
	require.InDelta(t, j0[0], fd0, 1e-4)

	yph := make([]float64, 2)
	m.Integrate(y, []float64{h}, yph)
	dyh := make([]float64, 1)
	m.Difference(x, yph, dyh)
	fd1 := (dyh[0] - d0[0]) / h
	require.InDelta(t, j1[0], fd1, 1e-4)
}

func randVec(r *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64()*4 - 2
	}
	return v
}
