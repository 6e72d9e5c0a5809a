// Package results holds the solver's output: optimal iterate and
// multipliers, per-iteration scalars, per-constraint diagnostics, and
// the convergence flag.
package results

import "github.com/gonlp/proxnlp/problem"

// ConvergenceFlag reports why Solve returned.
type ConvergenceFlag int

const (
	// Unconverged is the zero value, set until Solve finishes.
	Unconverged ConvergenceFlag = iota
	// Success: primal and dual infeasibility both reached target tolerance.
	Success
	// MaxItersReached: the outer/inner iteration cap was hit first.
	MaxItersReached
	// NumericalFailure: a NaN was detected in a critical buffer.
	NumericalFailure
)

func (f ConvergenceFlag) String() string {
	switch f {
	case Success:
		return "SUCCESS"
	case MaxItersReached:
		return "MAX_ITERS_REACHED"
	case NumericalFailure:
		return "NUMERICAL_FAILURE"
	default:
		return "UNCONVERGED"
	}
}

// Results collects the solver's output. Its per-constraint views share
// backing storage with the flat LamsOpt/Violations/ActiveSet slices, so
// a caller that inspects Results mid-solve sees the latest commit.
type Results struct {
	XOpt    []float64 // optimal point, Nx
	LamsOpt []float64 // optimal multipliers, flat, Nc

	lamsOptViews   [][]float64
	violationViews [][]float64
	activeSetViews [][]bool

	Value       float64
	Merit       float64
	PrimInfeas  float64
	DualInfeas  float64
	Mu          float64
	Rho         float64
	Violations  []float64 // c_i(x) - P_C(c_i(x)) (signed), flat, Nc
	ActiveSet   []bool    // flat, Nc
	NumIters    int
	Convergence ConvergenceFlag
}

// New builds a Results sized for p, with XOpt of embedding dimension nx.
func New(p *problem.Problem, nx int) *Results {
	nc := p.TotalConstraintDim()
	m := p.NumConstraints()

	r := &Results{
		XOpt:    make([]float64, nx),
		LamsOpt: make([]float64, nc),

		Violations: make([]float64, nc),
		ActiveSet:  make([]bool, nc),
	}

	r.lamsOptViews = make([][]float64, m)
	r.violationViews = make([][]float64, m)
	r.activeSetViews = make([][]bool, m)
	for i := 0; i < m; i++ {
		lo, hi := p.Index(i), p.Index(i)+p.ConstraintDim(i)
		r.lamsOptViews[i] = r.LamsOpt[lo:hi]
		r.violationViews[i] = r.Violations[lo:hi]
		r.activeSetViews[i] = r.ActiveSet[lo:hi]
	}

	return r
}

// LamsOptView returns the i-th constraint's view into LamsOpt.
func (r *Results) LamsOptView(i int) []float64 { return r.lamsOptViews[i] }

// ViolationView returns the i-th constraint's view into Violations.
func (r *Results) ViolationView(i int) []float64 { return r.violationViews[i] }

// ActiveSetView returns the i-th constraint's view into ActiveSet.
func (r *Results) ActiveSetView(i int) []bool { return r.activeSetViews[i] }
