package constraintset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func checkMoreauIdentity(t *testing.T, s Set, z []float64) {
	n := s.N()
	p := make([]float64, n)
	ncp := make([]float64, n)
	s.Projection(z, p)
	s.NormalConeProjection(z, ncp)
	for i := range z {
		require.InDelta(t, z[i], p[i]+ncp[i], 1e-9)
	}

	pp := make([]float64, n)
	s.Projection(p, pp)
	for i := range p {
		require.InDelta(t, p[i], pp[i], 1e-9, "projection should be idempotent")
	}
}

func TestEqualityMoreau(t *testing.T) {
	e := NewEquality(3)
	checkMoreauIdentity(t, e, []float64{1, -2, 0.5})
}

func TestOrthantMoreau(t *testing.T) {
	o := NewNegativeOrthant(4)
	r := rand.New(rand.NewSource(34))
	for i := 0; i < 20; i++ {
		z := []float64{r.Float64()*4 - 2, r.Float64()*4 - 2, r.Float64()*4 - 2, r.Float64()*4 - 2}
		checkMoreauIdentity(t, o, z)
	}
}

func TestBoxMoreau(t *testing.T) {
	b := NewBox([]float64{-1, -1}, []float64{1, 2})
	checkMoreauIdentity(t, b, []float64{-3, 5})
	checkMoreauIdentity(t, b, []float64{0.2, 0.5})
}

func TestSecondOrderConeMoreau(t *testing.T) {
	s := NewSecondOrderCone(2)
	checkMoreauIdentity(t, s, []float64{1, 2, 2})
	checkMoreauIdentity(t, s, []float64{5, 0.1, 0.1})
	checkMoreauIdentity(t, s, []float64{-5, 1, 1})
}

func TestOrthantActiveSet(t *testing.T) {
	o := NewNegativeOrthant(3)
	mask := make([]bool, 3)
	o.ComputeActiveSet([]float64{0, 1, -0.5}, mask)
	require.Equal(t, []bool{true, false, true}, mask)
}

func TestSecondOrderConeJacobianFiniteDiff(t *testing.T) {
	s := NewSecondOrderCone(2)
	z := []float64{1.0, 0.6, 0.6}
	j := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	s.ApplyNormalConeProjectionJacobian(z, j)

	h := 1e-6
	base := make([]float64, 3)
	s.NormalConeProjection(z, base)
	for col := 0; col < 3; col++ {
		zh := append([]float64(nil), z...)
		zh[col] += h
		out := make([]float64, 3)
		s.NormalConeProjection(zh, out)
		for row := 0; row < 3; row++ {
			fd := (out[row] - base[row]) / h
			require.InDelta(t, j.At(row, col), fd, 1e-3)
		}
	}
}
