// Package problem aggregates a cost and an ordered list of (function,
// set) constraint pairs into the object the solver optimizes.
package problem

import (
	"github.com/gonlp/proxnlp/constraintset"
	"github.com/gonlp/proxnlp/cost"
	"github.com/gonlp/proxnlp/function"
	"github.com/gonlp/proxnlp/manifold"
)

// Constraint pairs a residual function c_i : M → ℝⁿⁱ with the convex
// set C_i it must land in.
type Constraint struct {
	Func function.C2Function
	Set  constraintset.Set
}

// Dim reports the constraint's ambient dimension n_i.
func (c Constraint) Dim() int { return c.Func.Nr() }

// Problem is the aggregate minimize f(x) s.t. c_i(x) ∈ C_i, i=1..m.
// It is built once and is immutable during a solve.
type Problem struct {
	manifold    manifold.Manifold
	cost        cost.Function
	constraints []Constraint

	ndx     int
	nc      int
	offsets []int
}

// New builds a Problem over the given manifold, cost, and ordered
// constraints. It panics if any constraint's tangent dimension doesn't
// match the manifold's.
func New(m manifold.Manifold, c cost.Function, constraints []Constraint) *Problem {
	if c.Ndx() != m.Ndx() {
		panic("problem: cost tangent dimension does not match manifold")
	}
	offsets := make([]int, len(constraints))
	nc := 0
	for i, cstr := range constraints {
		if cstr.Func.Ndx() != m.Ndx() {
			panic("problem: constraint tangent dimension does not match manifold")
		}
		if cstr.Func.Nr() != cstr.Set.N() {
			panic("problem: constraint function range does not match its set's dimension")
		}
		offsets[i] = nc
		nc += cstr.Dim()
	}
	return &Problem{
		manifold:    m,
		cost:        c,
		constraints: constraints,
		ndx:         m.Ndx(),
		nc:          nc,
		offsets:     offsets,
	}
}

func (p *Problem) Manifold() manifold.Manifold { return p.manifold }
func (p *Problem) Cost() cost.Function         { return p.cost }

// Ndx is the tangent dimension of the domain manifold.
func (p *Problem) Ndx() int { return p.ndx }

// NumConstraints is the number of constraint objects.
func (p *Problem) NumConstraints() int { return len(p.constraints) }

// TotalConstraintDim is nc = Σ n_i.
func (p *Problem) TotalConstraintDim() int { return p.nc }

// ConstraintDim returns n_i for the i-th constraint.
func (p *Problem) ConstraintDim(i int) int { return p.constraints[i].Dim() }

// Index returns the offset of the i-th constraint's block within the
// flat nc-vector of stacked residuals/multipliers.
func (p *Problem) Index(i int) int { return p.offsets[i] }

// Constraint returns the i-th constraint object.
func (p *Problem) Constraint(i int) Constraint { return p.constraints[i] }

// Evaluate writes f(x) into value and every c_i(x) into the per-constraint
// views cvals[i] (each sized to ConstraintDim(i)).
func (p *Problem) Evaluate(x []float64, cvals [][]float64) (value float64) {
	value = p.cost.Call(x)
	for i, cstr := range p.constraints {
		cstr.Func.Evaluate(x, cvals[i])
	}
	return value
}

// ComputeDerivatives writes ∇f(x) into grad and every Jacobian J_i into
// jacs[i] (each sized n_i×ndx, row-major).
func (p *Problem) ComputeDerivatives(x []float64, grad []float64, jacs [][]float64) {
	p.cost.Gradient(x, grad)
	for i, cstr := range p.constraints {
		cstr.Func.Jacobian(x, jacs[i])
	}
}
