package function

import "gonum.org/v1/gonum/mat"

// Compose builds f = left ∘ right : M → ℝᴺʳ where right : M → ℝᵏ and
// left : (manifold of dim k) → ℝᴺʳ, following the chain rule
// J(f)(x) = J(left)(right(x)) · J(right)(x).
//
// VectorHessianProduct only accounts for the Gauss-Newton term
// Jrightᵀ·VHP(left)·Jright and drops the term involving the curvature of
// right itself, the same approximation a constraint set can opt into
// wholesale via DisableGaussNewton.
type Compose struct {
	Left, Right C2Function
}

// NewCompose builds left∘right, checking that right's range matches
// left's domain tangent dimension.
func NewCompose(left, right C2Function) *Compose {
	if right.Nr() != left.Ndx() {
		panic("function: compose dimension mismatch between right.Nr and left.Ndx")
	}
	return &Compose{Left: left, Right: right}
}

func (c *Compose) Nx() int  { return c.Right.Nx() }
func (c *Compose) Ndx() int { return c.Right.Ndx() }
func (c *Compose) Nr() int  { return c.Left.Nr() }

func (c *Compose) Evaluate(x, out []float64) {
	mid := make([]float64, c.Right.Nr())
	c.Right.Evaluate(x, mid)
	c.Left.Evaluate(mid, out)
}

func (c *Compose) Jacobian(x, out []float64) {
	k := c.Right.Nr()
	mid := make([]float64, k)
	c.Right.Evaluate(x, mid)

	jr := mat.NewDense(k, c.Right.Ndx(), nil)
	c.Right.Jacobian(x, jr.RawMatrix().Data)

	jl := mat.NewDense(c.Left.Nr(), k, nil)
	c.Left.Jacobian(mid, jl.RawMatrix().Data)

	jf := mat.NewDense(c.Left.Nr(), c.Right.Ndx(), out)
	jf.Mul(jl, jr)
}

func (c *Compose) VectorHessianProduct(x, v, out []float64) {
	k := c.Right.Nr()
	mid := make([]float64, k)
	c.Right.Evaluate(x, mid)

	jr := mat.NewDense(k, c.Right.Ndx(), nil)
	c.Right.Jacobian(x, jr.RawMatrix().Data)

	vhpLeft := mat.NewDense(k, k, nil)
	c.Left.VectorHessianProduct(mid, v, vhpLeft.RawMatrix().Data)

	ndx := c.Right.Ndx()
	tmp := mat.NewDense(k, ndx, nil)
	tmp.Mul(vhpLeft, jr)

	result := mat.NewDense(ndx, ndx, out)
	result.Mul(jr.T(), tmp)
}
