package cost

import "github.com/gonlp/proxnlp/manifold"

// SquaredDistance implements f(x) = ½·d_M(x, target)², the squared
// Riemannian distance to a fixed target point, the archetypal cost for
// the equality- and inequality-constrained optimization scenarios this
// solver is tested against.
type SquaredDistance struct {
	m      manifold.Manifold
	target []float64

	diff []float64
}

// NewSquaredDistance builds ½·d_M(x, target)² on the given manifold.
func NewSquaredDistance(m manifold.Manifold, target []float64) *SquaredDistance {
	return &SquaredDistance{m: m, target: target, diff: make([]float64, m.Ndx())}
}

func (s *SquaredDistance) Ndx() int { return s.m.Ndx() }

func (s *SquaredDistance) Call(x []float64) float64 {
	s.m.Difference(x, s.target, s.diff)
	sum := 0.0
	for _, v := range s.diff {
		sum += v * v
	}
	return 0.5 * sum
}

// Gradient writes ∇f(x) = Jdifference(x, target; Arg0)ᵀ·difference(x, target).
func (s *SquaredDistance) Gradient(x, out []float64) {
	ndx := s.m.Ndx()
	s.m.Difference(x, s.target, s.diff)
	j := make([]float64, ndx*ndx)
	s.m.Jdifference(x, s.target, manifold.Arg0, j)
	for i := 0; i < ndx; i++ {
		sum := 0.0
		for k := 0; k < ndx; k++ {
			sum += j[k*ndx+i] * s.diff[k]
		}
		out[i] = sum
	}
}

// Hessian approximates ∇²f(x) by the Gauss-Newton term JᵀJ, exact when
// Jdifference is constant in x (true for the flat and SO(2) manifolds
// this solver is exercised against).
func (s *SquaredDistance) Hessian(x, out []float64) {
	ndx := s.m.Ndx()
	j := make([]float64, ndx*ndx)
	s.m.Jdifference(x, s.target, manifold.Arg0, j)
	for i := 0; i < ndx; i++ {
		for k := 0; k < ndx; k++ {
			sum := 0.0
			for l := 0; l < ndx; l++ {
				sum += j[l*ndx+i] * j[l*ndx+k]
			}
			out[i*ndx+k] = sum
		}
	}
}
