// Package function defines the C0/C1/C2 function traits used for
// constraint residuals c_i : M → ℝⁿⁱ. Concrete residual shapes (robot
// kinematics, sensor models, …) are external collaborators; this
// package only specifies the trait and a couple of generic
// combinators (Compose, Numerical) that don't depend on any concrete
// manifold.
package function

// C0Function is a function M → ℝᴺʳ: only the value is required.
type C0Function interface {
	// Nx is the dimension of the input point's embedding representation.
	Nx() int
	// Ndx is the tangent dimension of the domain manifold.
	Ndx() int
	// Nr is the output (range) dimension.
	Nr() int
	// Evaluate writes f(x) into out (length Nr).
	Evaluate(x, out []float64)
}

// C1Function additionally exposes the Jacobian of the function with
// respect to the tangent space at x.
type C1Function interface {
	C0Function
	// Jacobian writes the Nr×Ndx Jacobian (row-major) of f at x into out.
	Jacobian(x, out []float64)
}

// C2Function additionally exposes vector-Hessian products: given a
// covector v ∈ ℝᴺʳ, VectorHessianProduct writes Σᵢ v_i·∇²fᵢ(x) (an
// Ndx×Ndx matrix, row-major) into out.
type C2Function interface {
	C1Function
	VectorHessianProduct(x, v, out []float64)
}
