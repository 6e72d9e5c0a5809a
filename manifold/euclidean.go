package manifold

// Euclidean is the flat manifold ℝⁿ: Integrate and Difference are plain
// vector addition/subtraction and the Jacobians are ± the identity.
type Euclidean struct {
	n int
}

// NewEuclidean builds the manifold ℝⁿ.
func NewEuclidean(n int) *Euclidean {
	if n <= 0 {
		panic("manifold: euclidean dimension must be positive")
	}
	return &Euclidean{n: n}
}

func (e *Euclidean) Nx() int  { return e.n }
func (e *Euclidean) Ndx() int { return e.n }

func (e *Euclidean) Neutral() []float64 {
	return make([]float64, e.n)
}

func (e *Euclidean) Integrate(x, v, out []float64) {
	checkLen(x, e.n, "x")
	checkLen(v, e.n, "v")
	checkLen(out, e.n, "out")
	for i := range out {
		out[i] = x[i] + v[i]
	}
}

func (e *Euclidean) Difference(x, y, out []float64) {
	checkLen(x, e.n, "x")
	checkLen(y, e.n, "y")
	checkLen(out, e.n, "out")
	for i := range out {
		out[i] = y[i] - x[i]
	}
}

func (e *Euclidean) Jdifference(x, y []float64, side Side, out []float64) {
	checkLen(out, e.n*e.n, "out")
	sign := 1.0
	if side == Arg0 {
		sign = -1.0
	}
	for i := 0; i < e.n; i++ {
		row := out[i*e.n : (i+1)*e.n]
		for j := range row {
			row[j] = 0
		}
		row[i] = sign
	}
}

func checkLen(v []float64, n int, name string) {
	if len(v) != n {
		panic("manifold: " + name + " has wrong length")
	}
}
