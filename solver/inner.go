package solver

import (
	"math"

	"github.com/gonlp/proxnlp/linalg/ldlt"
	"github.com/gonlp/proxnlp/linesearch"
	"github.com/gonlp/proxnlp/merit"
	"github.com/gonlp/proxnlp/problem"
	"github.com/gonlp/proxnlp/results"
	"github.com/gonlp/proxnlp/workspace"
	"gonum.org/v1/gonum/mat"
)

const refineEps = 1e-13
const maxRefineSteps = 5

// innerNewton runs the primal-dual semismooth Newton loop at the
// current penalty mu until its termination test passes, returning nil
// — or errMaxIters if the shared outer+inner iteration budget given to
// Solve runs out first, or a *NaNError if a critical buffer goes
// non-finite.
func (s *Solver) innerNewton(
	ws *workspace.Workspace,
	res *results.Results,
	p *problem.Problem,
	lamPrev []float64,
	lamPrevViews [][]float64,
	mu, omega float64,
	jacProjMats []*mat.Dense,
	fact ldlt.Factorization,
	deltaLast *float64,
	totalIters *int,
	sol, resid []float64,
) error {
	ndx, nc, nm := p.Ndx(), p.TotalConstraintDim(), p.NumConstraints()
	man := p.Manifold()
	cost := p.Cost()
	terms := make([]float64, nm)
	alphaStepX := make([]float64, ndx)

	for {
		x := res.XOpt

		value := p.Evaluate(x, ws.CResViews)

		for i := 0; i < nm; i++ {
			set := p.Constraint(i).Set
			z, c, lp := ws.ShiftedResViews[i], ws.CResViews[i], lamPrevViews[i]
			for k := range z {
				z[k] = c[k] + mu*lp[k]
			}
			lPlus := ws.LamPlusViews[i]
			set.NormalConeProjection(z, lPlus)
			for k := range lPlus {
				lPlus[k] /= mu
			}
			lIn, lPdal := ws.LamInnerViews[i], ws.LamPdalViews[i]
			for k := range lPdal {
				lPdal[k] = 2*lPlus[k] - lIn[k]
			}
			dpe := ws.DualProxErrViews[i]
			for k := range dpe {
				dpe[k] = mu * (lPlus[k] - lIn[k])
			}

			// Violation and active set are evaluated on the raw,
			// unshifted residual: they're mu-independent feasibility
			// diagnostics, not multiplier estimates.
			set.NormalConeProjection(c, res.ViolationView(i))
			set.ComputeActiveSet(c, res.ActiveSetView(i))
		}

		p.ComputeDerivatives(x, ws.CostGrad, ws.JacViews)
		cost.Hessian(x, ws.CostHess)

		copy(ws.JacProj, ws.Jac)
		for i := 0; i < nm; i++ {
			p.Constraint(i).Set.ApplyNormalConeProjectionJacobian(ws.ShiftedResViews[i], jacProjMats[i])
		}

		for k := range ws.VHPSum {
			ws.VHPSum[k] = 0
		}
		for i := 0; i < nm; i++ {
			set := p.Constraint(i).Set
			if s.cfg.GaussNewton && set.DisableGaussNewton() {
				continue
			}
			p.Constraint(i).Func.VectorHessianProduct(x, ws.LamPdalViews[i], ws.VHPViews[i])
			for k := range ws.VHPSum {
				ws.VHPSum[k] += ws.VHPViews[i][k]
			}
		}

		for k := range ws.ProxGrad {
			ws.ProxGrad[k] = 0
		}
		for k := range ws.ProxHess {
			ws.ProxHess[k] = 0
		}
		s.prox.Gradient(x, ws.ProxGrad)
		s.prox.Hessian(x, ws.ProxHess)
		proxVal := s.prox.Value(x)

		for i := 0; i < nm; i++ {
			terms[i] = merit.ConstraintTerm(mu, ws.ShiftedResViews[i], ws.LamInnerViews[i], ws.LamPlusViews[i])
		}
		phi0 := merit.Value(value, terms, proxVal)

		top := ws.KKTRHS[:ndx]
		copy(top, ws.CostGrad)
		for k := range top {
			top[k] += ws.ProxGrad[k]
		}
		for i := 0; i < nm; i++ {
			merit.AccumulateGradient(ndx, ws.JacViews[i], ws.LamInnerViews[i], top)
		}
		copy(ws.KKTRHS[ndx:], ws.DualProxErr)

		copy(ws.MeritGrad, ws.CostGrad)
		for k := range ws.MeritGrad {
			ws.MeritGrad[k] += ws.ProxGrad[k]
		}
		for i := 0; i < nm; i++ {
			merit.AccumulateGradient(ndx, ws.JacViews[i], ws.LamPdalViews[i], ws.MeritGrad)
		}

		for k := range ws.DualResidual {
			ws.DualResidual[k] = top[k] - ws.ProxGrad[k]
		}

		res.Value = value
		res.Merit = phi0
		res.PrimInfeas = infNorm(res.Violations)
		res.DualInfeas = infNorm(ws.DualResidual)

		if err := checkFinite("kkt_rhs", ws.KKTRHS); err != nil {
			return err
		}

		copy(res.LamsOpt, ws.LamInner)

		kktNorm := infNorm(ws.KKTRHS)
		if kktNorm <= omega || (res.PrimInfeas <= s.tol && res.DualInfeas <= s.tol) {
			res.NumIters = *totalIters
			return nil
		}

		delta, ok, next := factorWithInertia(ws, fact, mu, *deltaLast)
		*deltaLast = next
		ws.InertiaPos, ws.InertiaNeg, ws.InertiaZero = fact.Inertia()
		if !ok {
			s.cfg.Logger.logf(Verbose, "%s\n", inertiaFailureMessage(delta))
		}
		if err := checkFinite("kkt_matrix", ws.KKTMatrix); err != nil {
			return err
		}

		for k, v := range ws.KKTRHS {
			sol[k] = -v
		}
		_ = fact.SolveInPlace(sol)

		for iter := 0; iter < maxRefineSteps; iter++ {
			matVec(ws.KKTMatrix, sol, resid, ndx+nc)
			maxResid := 0.0
			for k := range resid {
				resid[k] = -ws.KKTRHS[k] - resid[k]
				if a := math.Abs(resid[k]); a > maxResid {
					maxResid = a
				}
			}
			if maxResid <= refineEps {
				break
			}
			if err := fact.SolveInPlace(resid); err != nil {
				break
			}
			for k := range sol {
				sol[k] += resid[k]
			}
		}

		copy(ws.StepX, sol[:ndx])
		copy(ws.StepLam, sol[ndx:])

		if err := checkFinite("step", sol); err != nil {
			return err
		}

		dphi := 0.0
		for k := range ws.MeritGrad {
			dphi += ws.MeritGrad[k] * ws.StepX[k]
		}
		for k := range ws.DualProxErr {
			dphi -= ws.DualProxErr[k] * ws.StepLam[k]
		}

		trial := func(alpha float64) float64 {
			for k := range alphaStepX {
				alphaStepX[k] = alpha * ws.StepX[k]
			}
			man.Integrate(x, alphaStepX, ws.TrialX)
			for k := range ws.TrialLam {
				ws.TrialLam[k] = ws.LamInner[k] + alpha*ws.StepLam[k]
			}

			val := p.Evaluate(ws.TrialX, ws.CResViews)
			for i := 0; i < nm; i++ {
				set := p.Constraint(i).Set
				z, c, lp := ws.ShiftedResViews[i], ws.CResViews[i], lamPrevViews[i]
				for k := range z {
					z[k] = c[k] + mu*lp[k]
				}
				lPlus := ws.LamPlusViews[i]
				set.NormalConeProjection(z, lPlus)
				for k := range lPlus {
					lPlus[k] /= mu
				}
				terms[i] = merit.ConstraintTerm(mu, z, ws.TrialLamViews[i], lPlus)
			}
			return merit.Value(val, terms, s.prox.Value(ws.TrialX))
		}

		alpha, _, lsOK := linesearch.Armijo(phi0, dphi, trial, s.cfg.LineSearch)
		if !lsOK {
			s.cfg.Logger.logf(Verbose, "line search failure: alpha=%.3e\n", alpha)
		}

		if err := checkFinite("trial_x", ws.TrialX); err != nil {
			return err
		}
		if err := checkFinite("trial_lam", ws.TrialLam); err != nil {
			return err
		}

		copy(x, ws.TrialX)
		copy(ws.LamInner, ws.TrialLam)
		copy(res.LamsOpt, ws.LamInner)

		*totalIters++
		res.NumIters = *totalIters
		s.cfg.Logger.logf(VeryVerbose, "inner: alpha=%.3e delta=%.3e dphi=%.3e phi=%.6e prim=%.3e dual=%.3e\n",
			alpha, delta, dphi, phi0, res.PrimInfeas, res.DualInfeas)
		s.runCallbacks(ws, res)

		if *totalIters >= s.maxIters {
			return errMaxIters
		}
	}
}

func matVec(a, x, out []float64, n int) {
	for i := 0; i < n; i++ {
		sum := 0.0
		row := a[i*n : (i+1)*n]
		for j, v := range row {
			sum += v * x[j]
		}
		out[i] = sum
	}
}
