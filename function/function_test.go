package function

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// linear implements C2Function analytically for f(x) = Ax + b with A
// fixed: a linear map has zero vector-Hessian product, used to check
// Numerical agrees with the analytic Jacobian.
type linear struct {
	n, m int
	a    []float64 // m x n row-major
	b    []float64 // m
}

func (l *linear) Nx() int  { return l.n }
func (l *linear) Ndx() int { return l.n }
func (l *linear) Nr() int  { return l.m }

func (l *linear) Evaluate(x, out []float64) {
	for i := 0; i < l.m; i++ {
		sum := l.b[i]
		for j := 0; j < l.n; j++ {
			sum += l.a[i*l.n+j] * x[j]
		}
		out[i] = sum
	}
}

func (l *linear) Jacobian(x, out []float64) {
	copy(out, l.a)
}

func (l *linear) VectorHessianProduct(x, v, out []float64) {
	for i := range out {
		out[i] = 0
	}
}

func TestNumericalMatchesAnalyticJacobian(t *testing.T) {
	lin := &linear{n: 2, m: 2, a: []float64{2, -1, 0, 3}, b: []float64{0, 1}}
	num := NewNumerical(2, 2, lin.Evaluate)

	x := []float64{0.3, -0.8}
	analytic := make([]float64, 4)
	estimated := make([]float64, 4)
	lin.Jacobian(x, analytic)
	num.Jacobian(x, estimated)
	for i := range analytic {
		require.InDelta(t, analytic[i], estimated[i], 1e-5)
	}
}

func TestComposeChainRule(t *testing.T) {
	// right: R^2 -> R^2, right(x) = [x0+x1, x0-x1]
	right := NewNumerical(2, 2, func(x, y []float64) {
		y[0] = x[0] + x[1]
		y[1] = x[0] - x[1]
	})
	// left: R^2 -> R, left(z) = z0^2 + 2*z1
	left := NewNumerical(2, 1, func(z, y []float64) {
		y[0] = z[0]*z[0] + 2*z[1]
	})
	comp := NewCompose(left, right)

	x := []float64{1.0, 0.5}
	out := make([]float64, 1)
	comp.Evaluate(x, out)
	require.InDelta(t, math.Pow(1.5, 2)+2*0.5, out[0], 1e-9)

	jac := make([]float64, comp.Nr()*comp.Ndx())
	comp.Jacobian(x, jac)

	// f(x) = (x0+x1)^2 + 2(x0-x1); df/dx0 = 2(x0+x1)+2, df/dx1 = 2(x0+x1)-2
	want0 := 2*(x[0]+x[1]) + 2
	want1 := 2*(x[0]+x[1]) - 2
	require.InDelta(t, want0, jac[0], 1e-4)
	require.InDelta(t, want1, jac[1], 1e-4)
}
