package cost

// Sum is a weighted sum of cost components, Σᵢ weights[i]·components[i].
// Components are held by shared reference (not by raw pointer splicing):
// Add/AddSum copy the incoming slices rather than taking ownership of
// the argument's backing array, so identity-equality of summands across
// two different Sums is not preserved — composing a Sum into another
// Sum does not alias the original's component list.
type Sum struct {
	ndx        int
	components []Function
	weights    []float64
}

// NewSum builds an empty weighted sum of costs on a manifold of tangent
// dimension ndx.
func NewSum(ndx int) *Sum {
	return &Sum{ndx: ndx}
}

func (s *Sum) Ndx() int { return s.ndx }

// NumComponents reports how many cost terms have been added.
func (s *Sum) NumComponents() int { return len(s.components) }

// Add appends a component with the given weight.
func (s *Sum) Add(c Function, weight float64) *Sum {
	if c.Ndx() != s.ndx {
		panic("cost: component has mismatched tangent dimension")
	}
	s.components = append(s.components, c)
	s.weights = append(s.weights, weight)
	return s
}

// AddSum merges another Sum's components (with their weights) into this
// one, by value — the other Sum is left unmodified and untouched by
// subsequent mutation of this one.
func (s *Sum) AddSum(other *Sum) *Sum {
	if other.ndx != s.ndx {
		panic("cost: sum has mismatched tangent dimension")
	}
	s.components = append(s.components, other.components...)
	s.weights = append(s.weights, other.weights...)
	return s
}

// Scale multiplies every component weight by factor.
func (s *Sum) Scale(factor float64) *Sum {
	for i := range s.weights {
		s.weights[i] *= factor
	}
	return s
}

func (s *Sum) Call(x []float64) float64 {
	result := 0.0
	for i, c := range s.components {
		result += s.weights[i] * c.Call(x)
	}
	return result
}

func (s *Sum) Gradient(x, out []float64) {
	for i := range out {
		out[i] = 0
	}
	tmp := make([]float64, s.ndx)
	for i, c := range s.components {
		c.Gradient(x, tmp)
		w := s.weights[i]
		for j := range out {
			out[j] += w * tmp[j]
		}
	}
}

func (s *Sum) Hessian(x, out []float64) {
	for i := range out {
		out[i] = 0
	}
	tmp := make([]float64, s.ndx*s.ndx)
	for i, c := range s.components {
		c.Hessian(x, tmp)
		w := s.weights[i]
		for j := range out {
			out[j] += w * tmp[j]
		}
	}
}
