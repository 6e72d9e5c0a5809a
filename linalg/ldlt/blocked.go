package ldlt

import (
	"fmt"

	"github.com/gonlp/proxnlp/linalg/blocks"
)

// Blocked factors the matrix after reordering its rows/columns by the
// nnz-minimizing block permutation found by linalg/blocks, then
// delegates the actual numeric work to a Dense factorization in the
// permuted basis. Solve/SolveInPlace transparently map rhs vectors
// into and out of that basis.
type Blocked struct {
	n   int
	sym *blocks.SymbolicBlockMatrix

	dense      *Dense
	blockPerm  []int
	scalarPerm []int
}

// NewBlocked builds a Blocked factorization for an n×n matrix whose
// block sparsity pattern is described by sym (n must equal sym.Size()).
func NewBlocked(n int, sym *blocks.SymbolicBlockMatrix) *Blocked {
	return &Blocked{n: n, sym: sym, dense: NewDense(n)}
}

func (b *Blocked) segmentLens() []int {
	n := b.sym.NSegments()
	lens := make([]int, n)
	for i := 0; i < n; i++ {
		lens[i] = b.sym.SegmentLen(i)
	}
	return lens
}

// scalarPermutation expands a permutation of block indices into a
// permutation of scalar row/column indices: result[i] is the original
// index landing at position i after reordering whole segments.
func scalarPermutation(segLens []int, blockPerm []int) []int {
	offsets := make([]int, len(segLens))
	off := 0
	for i, l := range segLens {
		offsets[i] = off
		off += l
	}
	perm := make([]int, 0, off)
	for _, blk := range blockPerm {
		o := offsets[blk]
		for k := 0; k < segLens[blk]; k++ {
			perm = append(perm, o+k)
		}
	}
	return perm
}

func permuteMatrix(a []float64, n int, perm []int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		oi := perm[i]
		for j := 0; j < n; j++ {
			out[i*n+j] = a[oi*n+perm[j]]
		}
	}
	return out
}

func permuteVector(v []float64, perm []int) []float64 {
	out := make([]float64, len(v))
	for i, oi := range perm {
		out[i] = v[oi]
	}
	return out
}

func unpermuteVector(v []float64, perm []int) []float64 {
	out := make([]float64, len(v))
	for i, oi := range perm {
		out[oi] = v[i]
	}
	return out
}

func (b *Blocked) Compute(a []float64) error {
	if len(a) != b.n*b.n {
		return fmt.Errorf("ldlt: expected %d entries, got %d", b.n*b.n, len(a))
	}
	perm := blocks.FindPermutation(b.sym)
	if perm == nil {
		return fmt.Errorf("ldlt: symbolic factorization failed for a block permutation")
	}
	b.blockPerm = perm
	b.scalarPerm = scalarPermutation(b.segmentLens(), perm)

	permuted := permuteMatrix(a, b.n, b.scalarPerm)
	return b.dense.Compute(permuted)
}

func (b *Blocked) SolveInPlace(rhs []float64) error {
	if len(rhs) != b.n {
		return fmt.Errorf("ldlt: rhs has wrong length %d, want %d", len(rhs), b.n)
	}
	permuted := permuteVector(rhs, b.scalarPerm)
	if err := b.dense.SolveInPlace(permuted); err != nil {
		return err
	}
	copy(rhs, unpermuteVector(permuted, b.scalarPerm))
	return nil
}

func (b *Blocked) Solve(rhs []float64) ([]float64, error) {
	out := append([]float64(nil), rhs...)
	err := b.SolveInPlace(out)
	return out, err
}

// MatrixLDLT returns the packed factor in the permuted basis chosen by
// Compute — not the caller's original row/column order.
func (b *Blocked) MatrixLDLT() []float64 { return b.dense.MatrixLDLT() }

func (b *Blocked) VectorD() []float64 { return b.dense.VectorD() }

func (b *Blocked) Rcond() float64 { return b.dense.Rcond() }

func (b *Blocked) Inertia() (pos, neg, zero int) { return b.dense.Inertia() }

// Permutation returns the block permutation chosen by the most recent Compute.
func (b *Blocked) Permutation() []int { return b.blockPerm }
