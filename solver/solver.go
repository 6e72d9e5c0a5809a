// Package solver implements the proximal augmented-Lagrangian /
// semismooth-Newton solver: the outer Bertsekas-Conn-Lagarias (BCL)
// penalty/tolerance loop driving an inner semismooth Newton loop with
// Armijo line search on the primal-dual AL merit function, using the
// inertia-corrected block LDLᵀ KKT factorization of linalg/ldlt.
package solver

import (
	"math"
	"os"

	"github.com/gonlp/proxnlp/bcl"
	"github.com/gonlp/proxnlp/linesearch"
	"github.com/gonlp/proxnlp/merit"
	"github.com/gonlp/proxnlp/problem"
	"github.com/gonlp/proxnlp/results"
	"github.com/gonlp/proxnlp/workspace"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LineSearchStrategy selects the merit-function line search run inside
// the inner Newton loop. Armijo is the only strategy this package
// implements; the enum exists as an extension point, with a
// construction-time ErrUnknownLineSearchStrategy check guarding it.
type LineSearchStrategy int

const (
	// ArmijoStrategy backtracks by halving.
	ArmijoStrategy LineSearchStrategy = iota
)

// Callback is invoked synchronously at the end of every inner
// iteration with read-only access to the just-updated Workspace and
// Results: every observable update completes before the callback runs.
type Callback func(ws *workspace.Workspace, res *results.Results)

// Config configures a Solver. Zero-valued fields are filled by
// sensible defaults in New except Tol and MuInit, which must be
// positive.
type Config struct {
	Tol     float64
	MuInit  float64
	RhoInit float64
	MuFloor float64
	MuUpper float64

	PrimAlpha, PrimBeta float64
	DualAlpha, DualBeta float64
	MuFactor            float64
	RhoUpdateFactor     float64

	LineSearch linesearch.Options
	Strategy   LineSearchStrategy

	LDLT LDLTChoice
	// GaussNewton, when true, drops a constraint's vector-Hessian
	// contribution whenever its Set.DisableGaussNewton() reports true.
	// Default false: always use the full semismooth-Newton Hessian.
	GaussNewton bool

	MaxIters int
	Verbose  VerboseLevel
	Logger   *Logger
}

// defaulted returns a copy of cfg with every zero-valued tunable filled
// from its documented default.
func (cfg Config) defaulted() Config {
	if cfg.MuFloor == 0 {
		cfg.MuFloor = 1e-9
	}
	if cfg.MuUpper == 0 {
		cfg.MuUpper = 1
	}
	if cfg.PrimAlpha == 0 {
		cfg.PrimAlpha = 0.1
	}
	if cfg.PrimBeta == 0 {
		cfg.PrimBeta = 0.9
	}
	if cfg.DualAlpha == 0 {
		cfg.DualAlpha = 1.0
	}
	if cfg.DualBeta == 0 {
		cfg.DualBeta = 1.0
	}
	if cfg.MuFactor == 0 {
		cfg.MuFactor = 0.1
	}
	if cfg.RhoUpdateFactor == 0 {
		cfg.RhoUpdateFactor = 1.0
	}
	if cfg.LineSearch == (linesearch.Options{}) {
		cfg.LineSearch = linesearch.DefaultOptions()
	}
	if cfg.MaxIters == 0 {
		cfg.MaxIters = 200
	}
	if cfg.Logger == nil {
		cfg.Logger = &Logger{Level: cfg.Verbose, Out: os.Stdout}
	}
	return cfg
}

// Solver runs solve() over a fixed Problem; mu, rho, tol, and max_iters
// are mutable after construction via the Set* methods.
type Solver struct {
	problem *problem.Problem
	cfg     Config

	mu, rho, tol float64
	maxIters     int
	bclParams    bcl.Params

	prox      *merit.ProxPenalty
	callbacks []Callback
}

// New builds a Solver over p with the given configuration. It returns
// ErrUnknownLineSearchStrategy if cfg.Strategy names no known strategy.
func New(p *problem.Problem, cfg Config) (*Solver, error) {
	if cfg.Strategy != ArmijoStrategy {
		return nil, ErrUnknownLineSearchStrategy
	}
	cfg = cfg.defaulted()

	s := &Solver{
		problem:  p,
		cfg:      cfg,
		mu:       cfg.MuInit,
		rho:      cfg.RhoInit,
		tol:      cfg.Tol,
		maxIters: cfg.MaxIters,
		prox:     merit.NewProxPenalty(p.Manifold()),
	}
	s.bclParams = bcl.Params{
		PrimAlpha: cfg.PrimAlpha, PrimBeta: cfg.PrimBeta,
		DualAlpha: cfg.DualAlpha, DualBeta: cfg.DualBeta,
		MuInit: cfg.MuInit, MuMin: cfg.MuFloor, MuFactor: cfg.MuFactor,
		MuUpper: cfg.MuUpper, OmegaMin: cfg.Tol,
		RhoUpdateFactor: cfg.RhoUpdateFactor,
		Eta0:            cfg.Tol, Omega0: cfg.Tol,
	}
	return s, nil
}

// SetPenalty overrides the current penalty μ.
func (s *Solver) SetPenalty(mu float64) { s.mu = mu }

// SetProxParam overrides the current proximal weight ρ.
func (s *Solver) SetProxParam(rho float64) { s.rho = rho }

// SetTolerance overrides the target tolerance.
func (s *Solver) SetTolerance(tol float64) {
	s.tol = tol
	s.bclParams.Eta0 = tol
	s.bclParams.Omega0 = tol
	s.bclParams.OmegaMin = tol
}

// SetMaxIters overrides the shared outer+inner iteration cap.
func (s *Solver) SetMaxIters(n int) { s.maxIters = n }

// RegisterCallback appends cb to the list invoked after each inner iteration.
func (s *Solver) RegisterCallback(cb Callback) { s.callbacks = append(s.callbacks, cb) }

// ClearCallbacks removes every registered callback.
func (s *Solver) ClearCallbacks() { s.callbacks = nil }

func (s *Solver) runCallbacks(ws *workspace.Workspace, res *results.Results) {
	for _, cb := range s.callbacks {
		cb(ws, res)
	}
}

func buildViews(flat []float64, p *problem.Problem) [][]float64 {
	views := make([][]float64, p.NumConstraints())
	for i := range views {
		lo := p.Index(i)
		views[i] = flat[lo : lo+p.ConstraintDim(i)]
	}
	return views
}

func wrapJacMats(views [][]float64, ndx int) []*mat.Dense {
	mats := make([]*mat.Dense, len(views))
	for i, v := range views {
		ni := len(v) / ndx
		mats[i] = mat.NewDense(ni, ndx, v)
	}
	return mats
}

// Solve runs the outer/inner loop from primal point x0 and flat
// multiplier vector lam0, writing the trajectory into ws and the final
// outcome into res. It returns ErrDimensionMismatch if x0 or lam0 are
// the wrong length, or a *NaNError if a NaN reaches a critical buffer;
// any other termination is reported through res.Convergence.
func (s *Solver) Solve(ws *workspace.Workspace, res *results.Results, x0, lam0 []float64) error {
	if len(x0) != ws.Nx {
		return ErrDimensionMismatch
	}
	if len(lam0) != ws.Nc {
		return ErrDimensionMismatch
	}

	p := s.problem
	copy(res.XOpt, x0)
	copy(ws.LamInner, lam0)

	lamPrev := append([]float64(nil), lam0...)
	lamPrevViews := buildViews(lamPrev, p)
	xPrev := append([]float64(nil), x0...)

	mu, rho := s.mu, s.rho
	eta, omega := bcl.FailureTolerances(mu, s.bclParams)

	s.prox.SetRho(rho)
	s.prox.SetTarget(xPrev)

	ndx, nc := p.Ndx(), p.TotalConstraintDim()
	dims := make([]int, p.NumConstraints())
	for i := range dims {
		dims[i] = p.ConstraintDim(i)
	}
	fact := newFactorization(s.cfg.LDLT, ndx, dims)

	jacProjMats := wrapJacMats(ws.JacProjViews, ndx)

	kdim := ndx + nc
	sol := make([]float64, kdim)
	resid := make([]float64, kdim)

	deltaLast := deltaInit
	totalIters := 0

	for i := 0; i < p.NumConstraints(); i++ {
		p.Constraint(i).Set.SetProxParameter(mu)
	}

	for {
		res.Mu, res.Rho = mu, rho
		s.cfg.Logger.logf(Verbose, "outer: mu=%.3e rho=%.3e eta=%.3e omega=%.3e\n", mu, rho, eta, omega)

		err := s.innerNewton(ws, res, p, lamPrev, lamPrevViews, mu, omega, jacProjMats, fact, &deltaLast, &totalIters, sol, resid)
		if err == errMaxIters {
			res.Convergence = results.MaxItersReached
			res.NumIters = totalIters
			return nil
		}
		if err != nil {
			return err
		}

		copy(xPrev, res.XOpt)
		s.prox.SetTarget(xPrev)

		if res.PrimInfeas < eta {
			copy(lamPrev, ws.LamPlus)
			if res.DualInfeas < s.tol && res.PrimInfeas < s.tol {
				res.Convergence = results.Success
				res.NumIters = totalIters
				return nil
			}
			eta, omega = bcl.SuccessTolerances(eta, omega, mu, s.bclParams)
		} else {
			mu = bcl.UpdatePenalty(mu, s.bclParams)
			eta, omega = bcl.FailureTolerances(mu, s.bclParams)
			for i := 0; i < p.NumConstraints(); i++ {
				p.Constraint(i).Set.SetProxParameter(mu)
			}
		}
		rho = bcl.UpdateRho(rho, s.bclParams)
		eta, omega = bcl.Clamp(eta, omega, s.tol, s.bclParams)
		s.prox.SetRho(rho)

		if totalIters >= s.maxIters {
			res.Convergence = results.MaxItersReached
			res.NumIters = totalIters
			return nil
		}
	}
}

// SolveConstraints is Solve with λ0 supplied as a per-constraint list
// rather than a flat vector.
func (s *Solver) SolveConstraints(ws *workspace.Workspace, res *results.Results, x0 []float64, lam0 [][]float64) error {
	nc := ws.Nc
	flat := make([]float64, 0, nc)
	for _, v := range lam0 {
		flat = append(flat, v...)
	}
	if len(flat) != nc {
		return ErrDimensionMismatch
	}
	return s.Solve(ws, res, x0, flat)
}

func infNorm(v []float64) float64 { return floats.Norm(v, math.Inf(1)) }
