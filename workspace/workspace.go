// Package workspace implements the solver's pre-sized scratch arena: one
// flat allocation per logical buffer group, sliced into named views,
// built once from a Problem and reused by the inner/outer solve loops.
package workspace

import "github.com/gonlp/proxnlp/problem"

// Workspace holds every buffer the solver reads and writes during
// Solve. It is constructed once from a Problem and is then mutated
// in place; no field here is ever reallocated.
type Workspace struct {
	Ndx int // tangent dimension
	Nx  int // embedding dimension
	Nc  int // total stacked constraint dimension
	M   int // number of constraint objects

	// per-constraint block offsets/sizes into the flat nc-vectors below,
	// shared by every "per-constraint" group (CRes, Jac rows, ShiftedRes, ...).
	offsets []int
	dims    []int

	// Constraint residuals c_i(x), flat (length Nc) and per-constraint views.
	CRes      []float64
	CResViews [][]float64

	// Stacked constraint Jacobians J_i (each n_i x Ndx, row-major), flat
	// (length Nc*Ndx) and per-constraint views, plus their projected
	// copies Ĵ_i = (∂Π_{NC_i/μ})·J_i.
	Jac          []float64
	JacViews     [][]float64
	JacProj      []float64
	JacProjViews [][]float64

	// Shifted residuals z_i = c_i(x) + μ·λ_prev^i.
	ShiftedRes      []float64
	ShiftedResViews [][]float64

	// First-order multiplier estimates λ_plus^i = (1/μ)·Π_{NC_i/μ}(z_i).
	LamPlus      []float64
	LamPlusViews [][]float64

	// Primal-dual multiplier λ_pdal^i = 2·λ_plus^i − λ_inner^i.
	LamPdal      []float64
	LamPdalViews [][]float64

	// Current inner-loop multiplier iterate λ_inner.
	LamInner      []float64
	LamInnerViews [][]float64

	// Dual prox error μ·(λ_plus − λ_inner).
	DualProxErr      []float64
	DualProxErrViews [][]float64

	// Cost gradient/Hessian.
	CostGrad []float64 // Ndx
	CostHess []float64 // Ndx*Ndx

	// Proximal-penalty gradient/Hessian (½ρ·d_M(x,x_prev)²).
	ProxGrad []float64 // Ndx
	ProxHess []float64 // Ndx*Ndx

	// Merit-function gradient ∇f + Σ Jᵀλ_pdal (+ρ∇prox), distinct from the
	// KKT RHS top block which uses λ_inner: used for the Armijo
	// directional derivative only.
	MeritGrad []float64 // Ndx

	// Lagrangian gradient with the proximal term removed, used for the
	// dual infeasibility norm.
	DualResidual []float64 // Ndx

	// Per-constraint vector-Hessian products Σ_i λ_pdal^i·∇²c_i(x), each
	// Ndx*Ndx, plus their running sum.
	VHP      []float64 // M*Ndx*Ndx
	VHPViews [][]float64
	VHPSum   []float64 // Ndx*Ndx

	// KKT matrix ((Ndx+Nc) square, row-major) and right-hand side.
	KKTMatrix []float64
	KKTRHS    []float64

	// Inertia signature of the last factorization: (n+, n-, n0).
	InertiaPos, InertiaNeg, InertiaZero int

	// Primal/dual step views into the solution of the KKT solve.
	StepX      []float64 // Ndx
	StepLam    []float64 // Nc
	StepLamVws [][]float64

	// Trial point and trial multipliers evaluated during line search.
	TrialX        []float64 // Nx
	TrialLam      []float64 // Nc
	TrialLamViews [][]float64

	// Active-set masks, one bool per stacked constraint coordinate.
	ActiveSet      []bool
	ActiveSetViews [][]bool
}

// New builds a Workspace sized for p, with a single backing allocation
// per logical group. nx is the embedding dimension of the manifold p
// is defined over (used to size TrialX).
func New(p *problem.Problem, nx int) *Workspace {
	ndx := p.Ndx()
	nc := p.TotalConstraintDim()
	m := p.NumConstraints()

	w := &Workspace{Ndx: ndx, Nx: nx, Nc: nc, M: m}

	w.offsets = make([]int, m)
	w.dims = make([]int, m)
	for i := 0; i < m; i++ {
		w.offsets[i] = p.Index(i)
		w.dims[i] = p.ConstraintDim(i)
	}

	w.CRes, w.CResViews = w.newFlatAndViews(nc)
	w.Jac, w.JacViews = w.newFlatAndJacViews(nc * ndx)
	w.JacProj, w.JacProjViews = w.newFlatAndJacViews(nc * ndx)
	w.ShiftedRes, w.ShiftedResViews = w.newFlatAndViews(nc)
	w.LamPlus, w.LamPlusViews = w.newFlatAndViews(nc)
	w.LamPdal, w.LamPdalViews = w.newFlatAndViews(nc)
	w.LamInner, w.LamInnerViews = w.newFlatAndViews(nc)
	w.DualProxErr, w.DualProxErrViews = w.newFlatAndViews(nc)

	w.CostGrad = make([]float64, ndx)
	w.CostHess = make([]float64, ndx*ndx)
	w.ProxGrad = make([]float64, ndx)
	w.ProxHess = make([]float64, ndx*ndx)
	w.MeritGrad = make([]float64, ndx)
	w.DualResidual = make([]float64, ndx)

	w.VHP = make([]float64, m*ndx*ndx)
	w.VHPViews = make([][]float64, m)
	for i := 0; i < m; i++ {
		w.VHPViews[i] = w.VHP[i*ndx*ndx : (i+1)*ndx*ndx]
	}
	w.VHPSum = make([]float64, ndx*ndx)

	kdim := ndx + nc
	w.KKTMatrix = make([]float64, kdim*kdim)
	w.KKTRHS = make([]float64, kdim)

	w.StepX = make([]float64, ndx)
	w.StepLam, w.StepLamVws = w.newFlatAndViews(nc)

	w.TrialX = make([]float64, nx)
	w.TrialLam, w.TrialLamViews = w.newFlatAndViews(nc)

	w.ActiveSet = make([]bool, nc)
	w.ActiveSetViews = make([][]bool, m)
	for i := 0; i < m; i++ {
		w.ActiveSetViews[i] = w.ActiveSet[w.offsets[i] : w.offsets[i]+w.dims[i]]
	}

	return w
}

func (w *Workspace) newFlatAndViews(n int) ([]float64, [][]float64) {
	flat := make([]float64, n)
	views := make([][]float64, w.M)
	for i := 0; i < w.M; i++ {
		views[i] = flat[w.offsets[i] : w.offsets[i]+w.dims[i]]
	}
	return flat, views
}

// newFlatAndJacViews is newFlatAndViews specialized for flat buffers of
// shape Nc*Ndx, where constraint i's view is n_i rows of Ndx columns.
func (w *Workspace) newFlatAndJacViews(n int) ([]float64, [][]float64) {
	flat := make([]float64, n)
	views := make([][]float64, w.M)
	for i := 0; i < w.M; i++ {
		lo := w.offsets[i] * w.Ndx
		hi := lo + w.dims[i]*w.Ndx
		views[i] = flat[lo:hi]
	}
	return flat, views
}

// StepLamViews returns the per-constraint views of StepLam.
func (w *Workspace) StepLamViews() [][]float64 { return w.StepLamVws }

// PrimalStep returns the top Ndx block of the KKT solution (Δx).
func (w *Workspace) PrimalStep() []float64 { return w.StepX }

// DualStep returns the bottom Nc block of the KKT solution (Δλ).
func (w *Workspace) DualStep() []float64 { return w.StepLam }
