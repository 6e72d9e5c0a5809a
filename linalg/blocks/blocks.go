// Package blocks implements the symbolic block-Cholesky layer used to
// choose a fill-minimizing permutation of the KKT matrix's blocks before
// the numerical LDLᵀ factorization runs.
package blocks

import (
	"fmt"
	"io"
)

// Kind classifies the sparsity pattern of one block of a symmetric
// block matrix.
type Kind int

const (
	Zero Kind = iota
	Diag
	TriL
	TriU
	Dense
)

func (k Kind) String() string {
	switch k {
	case Zero:
		return "Zero"
	case Diag:
		return "Diag"
	case TriL:
		return "TriL"
	case TriU:
		return "TriU"
	case Dense:
		return "Dense"
	default:
		return "?"
	}
}

// Trans is the Kind of a block's transpose.
func Trans(a Kind) Kind {
	if a == TriL {
		return TriU
	}
	if a == TriU {
		return TriL
	}
	return a
}

// Add is the Kind of the sum of two blocks of kind a and b.
func Add(a, b Kind) Kind {
	if a == Dense || b == Dense || int(a)+int(b) == int(TriL)+int(TriU) {
		return Dense
	}
	if a > b {
		return a
	}
	return b
}

// Mul is the Kind of the product of two blocks of kind a and b.
func Mul(a, b Kind) Kind {
	if a == Zero || b == Zero {
		return Zero
	}
	return Add(a, b)
}

// SymbolicBlockMatrix is an n×n grid of block Kinds over segments of
// given lengths. Submatrix shares backing storage with its parent, the
// same way a contiguous-pointer view does in the library this is
// ported from.
type SymbolicBlockMatrix struct {
	kinds       []Kind
	segmentLens []int
	n           int
	outerStride int
}

// New allocates an n×n symbolic block matrix, every block Zero and
// every segment length 0.
func New(n int) *SymbolicBlockMatrix {
	return &SymbolicBlockMatrix{
		kinds:       make([]Kind, n*n),
		segmentLens: make([]int, n),
		n:           n,
		outerStride: n,
	}
}

func (s *SymbolicBlockMatrix) index(i, j int) int { return i*s.outerStride + j }

// NSegments is the number of blocks along one side.
func (s *SymbolicBlockMatrix) NSegments() int { return s.n }

// Get returns the Kind of block (i, j).
func (s *SymbolicBlockMatrix) Get(i, j int) Kind { return s.kinds[s.index(i, j)] }

// Set assigns the Kind of block (i, j).
func (s *SymbolicBlockMatrix) Set(i, j int, k Kind) { s.kinds[s.index(i, j)] = k }

// SegmentLen is the size of the i-th segment.
func (s *SymbolicBlockMatrix) SegmentLen(i int) int { return s.segmentLens[i] }

// SetSegmentLen assigns the size of the i-th segment.
func (s *SymbolicBlockMatrix) SetSegmentLen(i, length int) { s.segmentLens[i] = length }

// Size is the total row/column count (sum of segment lengths).
func (s *SymbolicBlockMatrix) Size() int {
	total := 0
	for i := 0; i < s.n; i++ {
		total += s.segmentLens[i]
	}
	return total
}

// Submatrix returns the n-segment block sharing storage with the
// diagonal sub-block starting at (i, i).
func (s *SymbolicBlockMatrix) Submatrix(i, n int) *SymbolicBlockMatrix {
	return &SymbolicBlockMatrix{
		kinds:       s.kinds[s.index(i, i):],
		segmentLens: s.segmentLens[i:],
		n:           n,
		outerStride: s.outerStride,
	}
}

// DeepCopy copies in into s, applying perm to the segment order if
// non-nil: s(i,j) = in(perm[i], perm[j]).
func (s *SymbolicBlockMatrix) DeepCopy(in *SymbolicBlockMatrix, perm []int) {
	n := s.NSegments()
	for i := 0; i < n; i++ {
		src := i
		if perm != nil {
			src = perm[i]
		}
		s.SetSegmentLen(i, in.SegmentLen(src))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			si, sj := i, j
			if perm != nil {
				si, sj = perm[i], perm[j]
			}
			s.Set(i, j, in.Get(si, sj))
		}
	}
}

// CountNNZ reports the symbolic nonzero count implied by the current
// block Kinds and segment lengths.
func (s *SymbolicBlockMatrix) CountNNZ() int {
	n := s.n
	nnz := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch s.Get(i, j) {
			case Zero:
			case Diag:
				nnz += s.SegmentLen(i)
			case TriL, TriU:
				k := s.SegmentLen(i)
				nnz += k * (k + 1) / 2
			case Dense:
				nnz += s.SegmentLen(i) * s.SegmentLen(j)
			}
		}
	}
	return nnz
}

// LLTInPlace simulates a block Cholesky factorization symbolically,
// mutating s into its block-triangular factor's sparsity pattern. It
// returns false if the leading block is singular-shaped (Zero, TriL,
// or TriU on the diagonal).
func (s *SymbolicBlockMatrix) LLTInPlace() bool {
	n := s.n
	if n == 0 {
		return true
	}

	for j := 1; j < n; j++ {
		s.Set(0, j, Zero)
	}

	switch s.Get(0, 0) {
	case TriL, TriU, Zero:
		return false
	case Dense:
		s.Set(0, 0, TriL)
		for i := 1; i < n; i++ {
			switch s.Get(i, 0) {
			case Zero, Diag:
				s.Set(i, 0, TriU)
			case TriL:
				s.Set(i, 0, Dense)
			case TriU, Dense:
			}
		}
	case Diag:
		// l00, l10 unchanged
	}

	for i := 1; i < n; i++ {
		s.Set(i, i, Add(s.Get(i, i), Mul(s.Get(i, 0), Trans(s.Get(i, 0)))))
		for j := i + 1; j < n; j++ {
			s.Set(i, j, Add(s.Get(i, j), Mul(s.Get(i, 0), Trans(s.Get(j, 0)))))
			s.Set(j, i, Trans(s.Get(i, j)))
		}
	}

	if n == 1 {
		return true
	}
	return s.Submatrix(1, n-1).LLTInPlace()
}

// BruteForcePermutation tries every permutation of in's segments,
// running LLTInPlace on a scratch copy (s) for each, and returns the
// permutation achieving the smallest CountNNZ. ok is false if any
// permutation's symbolic factorization fails (LLTInPlace returns
// false) before a full sweep completes.
func (s *SymbolicBlockMatrix) BruteForcePermutation(in *SymbolicBlockMatrix) (perm []int, ok bool) {
	n := in.NSegments()
	iwork := make([]int, n)
	for i := range iwork {
		iwork[i] = i
	}

	best := make([]int, n)
	firstIter := true
	bestNNZ := 0

	for {
		s.DeepCopy(in, iwork)
		if !s.LLTInPlace() {
			return nil, false
		}
		nnz := s.CountNNZ()
		if firstIter || nnz < bestNNZ {
			copy(best, iwork)
			bestNNZ = nnz
		}
		firstIter = false
		if !nextPermutation(iwork) {
			break
		}
	}
	return best, true
}

// FindPermutation is the entry point used by the solver: it allocates
// its own scratch matrix and returns the nnz-minimizing permutation of
// mat's segments, or nil if the symbolic factorization of any
// permutation fails.
func FindPermutation(mat *SymbolicBlockMatrix) []int {
	scratch := New(mat.NSegments())
	perm, ok := scratch.BruteForcePermutation(mat)
	if !ok {
		return nil
	}
	return perm
}

// nextPermutation advances a to the next lexicographic permutation of
// its elements in place, reporting whether one existed.
func nextPermutation(a []int) bool {
	n := len(a)
	if n < 2 {
		return false
	}
	i := n - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := n - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}
	return true
}

// PrintSparsity writes an ASCII sparsity diagram of mat to w, one
// character (█ filled, ░ empty) per scalar entry implied by the block
// Kinds and segment lengths.
func PrintSparsity(w io.Writer, mat *SymbolicBlockMatrix) {
	n := mat.NSegments()
	nrows := mat.Size()
	ncols := nrows
	buf := make([]bool, nrows*ncols)

	handledRows := 0
	for i := 0; i < n; i++ {
		handledCols := 0
		for j := 0; j < n; j++ {
			li, lj := mat.SegmentLen(i), mat.SegmentLen(j)
			switch mat.Get(i, j) {
			case Zero:
			case Diag:
				for ii := 0; ii < li; ii++ {
					buf[(handledRows+ii)*ncols+handledCols+ii] = true
				}
			case TriL:
				for ii := 0; ii < li; ii++ {
					for jj := 0; jj <= ii; jj++ {
						buf[(handledRows+ii)*ncols+handledCols+jj] = true
					}
				}
			case TriU:
				for ii := 0; ii < li; ii++ {
					for jj := ii; jj < lj; jj++ {
						buf[(handledRows+ii)*ncols+handledCols+jj] = true
					}
				}
			case Dense:
				for ii := 0; ii < li; ii++ {
					for jj := 0; jj < lj; jj++ {
						buf[(handledRows+ii)*ncols+handledCols+jj] = true
					}
				}
			}
			handledCols += lj
		}
		handledRows += mat.SegmentLen(i)
	}

	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if buf[i*ncols+j] {
				fmt.Fprint(w, "█")
			} else {
				fmt.Fprint(w, "░")
			}
		}
		fmt.Fprintln(w)
	}
}
