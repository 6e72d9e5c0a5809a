package solver

import (
	"github.com/gonlp/proxnlp/linalg/blocks"
	"github.com/gonlp/proxnlp/linalg/ldlt"
	"github.com/gonlp/proxnlp/workspace"
)

// LDLTChoice selects the numerical factorization behind the LDLT trait.
type LDLTChoice int

const (
	// DenseLDLT factors the full (ndx+nc)×(ndx+nc) KKT matrix with
	// linalg/ldlt.Dense, ignoring its block structure.
	DenseLDLT LDLTChoice = iota
	// BlockedLDLT reorders by the nnz-minimizing block permutation
	// (linalg/blocks) before factoring.
	BlockedLDLT
	// WrappedLDLT factors via linalg/ldlt.Wrapped (LAPACK Bunch-Kaufman
	// inertia, in-package solve).
	WrappedLDLT
)

// defaultBlockStructure builds the symbolic block pattern
// original_source/ldlt-allocator.hpp's allocate_ldlt_from_problem uses:
// one dense primal block, one diagonal block per constraint, a dense
// primal/dual link, and zero dual/dual cross blocks.
func defaultBlockStructure(ndx int, dims []int) *blocks.SymbolicBlockMatrix {
	n := 1 + len(dims)
	sym := blocks.New(n)
	sym.SetSegmentLen(0, ndx)
	sym.Set(0, 0, blocks.Dense)
	for i, d := range dims {
		b := i + 1
		sym.SetSegmentLen(b, d)
		sym.Set(b, b, blocks.Diag)
		sym.Set(0, b, blocks.Dense)
		sym.Set(b, 0, blocks.Dense)
		for j, dj := range dims {
			if j == i {
				continue
			}
			_ = dj
			sym.Set(b, j+1, blocks.Zero)
		}
	}
	return sym
}

func newFactorization(choice LDLTChoice, ndx int, dims []int) ldlt.Factorization {
	n := ndx
	for _, d := range dims {
		n += d
	}
	switch choice {
	case BlockedLDLT:
		return ldlt.NewBlocked(n, defaultBlockStructure(ndx, dims))
	case WrappedLDLT:
		return ldlt.NewWrapped(n)
	default:
		return ldlt.NewDense(n)
	}
}

// assembleKKT fills ws.KKTMatrix from the already-computed workspace
// buffers (CostHess, ProxHess, VHPSum, JacProjViews) plus the inertia
// shift delta applied to the top-left (primal) block and -mu applied to
// the bottom-right (dual) block:
//
//	[ H + ρI + Σλ_pdal·∇²c + δI     Ĵᵀ  ]
//	[            Ĵ                 −μI ]
func assembleKKT(ws *workspace.Workspace, mu, delta float64) {
	ndx, nc := ws.Ndx, ws.Nc
	k := ndx + nc
	m := ws.KKTMatrix
	for i := range m {
		m[i] = 0
	}

	for i := 0; i < ndx; i++ {
		for j := 0; j < ndx; j++ {
			m[i*k+j] = ws.CostHess[i*ndx+j] + ws.ProxHess[i*ndx+j] + ws.VHPSum[i*ndx+j]
		}
		m[i*k+i] += delta
	}

	// Ĵ in the bottom-left block, Ĵᵀ in the top-right block; per-constraint
	// row offset within the dual segment matches Problem's stacked index.
	rowOffset := 0
	for ci := 0; ci < ws.M; ci++ {
		jac := ws.JacProjViews[ci]
		ni := len(jac) / ndx
		for r := 0; r < ni; r++ {
			dualRow := ndx + rowOffset + r
			for c := 0; c < ndx; c++ {
				v := jac[r*ndx+c]
				m[dualRow*k+c] = v
				m[c*k+dualRow] = v
			}
		}
		rowOffset += ni
	}

	for i := 0; i < nc; i++ {
		m[(ndx+i)*k+(ndx+i)] = -mu
	}
}
