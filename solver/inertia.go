package solver

import (
	"fmt"

	"github.com/gonlp/proxnlp/linalg/ldlt"
	"github.com/gonlp/proxnlp/workspace"
)

// Regularization constants for the inertia correction search.
const (
	deltaInit        = 1e-8
	deltaMin         = 1e-14
	deltaNonzeroInit = 1e-4
	deltaMax         = 1e2
	delIncK          = 10.0
	delIncBig        = 100.0
	delDecK          = 1.0 / 3.0
)

// factorWithInertia assembles the KKT matrix at increasing δ until the
// factorization's inertia signature matches (ndx positive, nc negative,
// 0 zero), or δ exceeds deltaMax (InertiaFailure: proceed with the last
// attempt and let the caller log it). It returns the δ used, whether
// the signature matched, and the nonzero-valued starting guess to carry
// into the next Newton iteration as delta_last.
func factorWithInertia(ws *workspace.Workspace, fact ldlt.Factorization, mu, startDelta float64) (delta float64, ok bool, nextStart float64) {
	ndx, nc := ws.Ndx, ws.Nc
	delta = startDelta
	startWasZero := startDelta == 0

	for {
		assembleKKT(ws, mu, delta)
		err := fact.Compute(ws.KKTMatrix)
		if err == nil {
			pos, neg, zero := fact.Inertia()
			if pos == ndx && neg == nc && zero == 0 {
				if delta == 0 {
					return delta, true, 0
				}
				next := delta * delDecK
				if next < deltaMin {
					next = deltaMin
				}
				return delta, true, next
			}
		}

		if delta == 0 {
			delta = deltaNonzeroInit
			continue
		}
		factor := delIncK
		if startWasZero {
			factor = delIncBig
		}
		delta *= factor
		if delta > deltaMax {
			assembleKKT(ws, mu, delta)
			_ = fact.Compute(ws.KKTMatrix)
			return delta, false, deltaNonzeroInit
		}
	}
}

// inertiaFailureMessage formats the log line for an exhausted
// regularization search, handled locally as a non-fatal condition.
func inertiaFailureMessage(delta float64) string {
	return fmt.Sprintf("inertia correction failed: delta exceeded %.1e at delta=%.3e, proceeding with best factorization", deltaMax, delta)
}
