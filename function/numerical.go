package function

import "github.com/gonlp/proxnlp/numdiff"

// Numerical turns a plain evaluator into a C2Function by estimating
// Jacobians and vector-Hessian products with finite differences. It is
// the extension point for custom residuals that don't want to hand-code
// derivatives, and the reference implementation other C2Functions in
// tests are checked against.
type Numerical struct {
	nx, ndx, nr int
	Eval        func(x, out []float64)
	Method      numdiff.Method

	scratch numdiff.Scratch
}

// NewNumerical builds a C2Function around eval : ℝⁿˣ → ℝⁿʳ (here Nx==Ndx,
// i.e. the domain is flat — composing with a Manifold's Integrate gives a
// version usable on a curved manifold).
func NewNumerical(n, nr int, eval func(x, out []float64)) *Numerical {
	return &Numerical{nx: n, ndx: n, nr: nr, Eval: eval, Method: numdiff.Central}
}

func (n *Numerical) Nx() int  { return n.nx }
func (n *Numerical) Ndx() int { return n.ndx }
func (n *Numerical) Nr() int  { return n.nr }

func (n *Numerical) Evaluate(x, out []float64) { n.Eval(x, out) }

func (n *Numerical) Jacobian(x, out []float64) {
	x0 := append([]float64(nil), x...)
	numdiff.Jacobian(n.Method, n.ndx, n.nr, n.Eval, x0, out, n.scratch)
}

// VectorHessianProduct estimates Σᵢ v_i·∇²fᵢ(x) by differentiating the
// gradient g(x) = J(x)ᵀv a second time.
func (n *Numerical) VectorHessianProduct(x, v, out []float64) {
	g := func(xx, y []float64) {
		jac := make([]float64, n.nr*n.ndx)
		numdiff.Jacobian(n.Method, n.ndx, n.nr, n.Eval, append([]float64(nil), xx...), jac, numdiff.Scratch{})
		for j := 0; j < n.ndx; j++ {
			sum := 0.0
			for i := 0; i < n.nr; i++ {
				sum += v[i] * jac[i*n.ndx+j]
			}
			y[j] = sum
		}
	}
	var scratch numdiff.Scratch
	x0 := append([]float64(nil), x...)
	numdiff.Jacobian(n.Method, n.ndx, n.ndx, g, x0, out, scratch)
}
