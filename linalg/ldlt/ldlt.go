// Package ldlt implements the numerical LDLᵀ factorization trait the
// solver uses to factor and solve the KKT system, behind three
// interchangeable implementations: a hand-rolled dense in-place
// factorization, a block-structured one driven by linalg/blocks'
// symbolic permutation search, and a wrapper around gonum's LAPACK
// Bunch-Kaufman routine.
package ldlt

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned by Compute when a zero (or near-zero) pivot
// is encountered.
var ErrSingular = errors.New("ldlt: singular pivot")

// Factorization is the common LDLᵀ trait: compute a factorization of a
// flat, row-major, symmetric n×n matrix, and solve against it.
type Factorization interface {
	// Compute factors the symmetric matrix a (n*n, row-major).
	Compute(a []float64) error
	// SolveInPlace overwrites rhs with the solution of K·x = rhs.
	SolveInPlace(rhs []float64) error
	// Solve returns a fresh solution vector, leaving rhs untouched.
	Solve(rhs []float64) ([]float64, error)
	// MatrixLDLT exposes the packed factor storage (implementation-defined
	// basis — Blocked's is permuted).
	MatrixLDLT() []float64
	// Rcond estimates the reciprocal condition number from the diagonal factor.
	Rcond() float64
	// VectorD returns the diagonal factor D.
	VectorD() []float64
	// Inertia reports (n positive, n negative, n zero) eigenvalue signs of D.
	Inertia() (pos, neg, zero int)
}

const inertiaZeroTol = 1e-13

// inertiaOf counts the sign pattern of a diagonal factor.
func inertiaOf(d []float64) (pos, neg, zero int) {
	for _, v := range d {
		switch {
		case math.Abs(v) <= inertiaZeroTol:
			zero++
		case v > 0:
			pos++
		default:
			neg++
		}
	}
	return
}

// Dense is a hand-rolled, unpivoted, in-place, row-by-row (left-looking)
// LDLᵀ factorization: L is stored strictly below the diagonal, D on it. It
// is the "dense" variant named by the LDLT trait; it has no fallback
// for an exactly zero pivot, matching the requirement that the solver
// itself handle indefiniteness via the δ regularization before calling
// Compute.
type Dense struct {
	n   int
	ldl []float64 // n*n, row-major: strict-lower = L, diag = D
	d   []float64 // n, copy of the diagonal factor
}

// NewDense allocates a Dense factorization for an n×n matrix.
func NewDense(n int) *Dense {
	return &Dense{n: n, ldl: make([]float64, n*n), d: make([]float64, n)}
}

func (ld *Dense) Compute(a []float64) error {
	n := ld.n
	if len(a) != n*n {
		return fmt.Errorf("ldlt: expected %d entries, got %d", n*n, len(a))
	}
	copy(ld.ldl, a)

	for k := 0; k < n; k++ {
		sum := ld.ldl[k*n+k]
		for j := 0; j < k; j++ {
			lkj := ld.ldl[k*n+j]
			sum -= lkj * lkj * ld.d[j]
		}
		ld.d[k] = sum
		ld.ldl[k*n+k] = sum
		if sum == 0 {
			return ErrSingular
		}
		for i := k + 1; i < n; i++ {
			s := ld.ldl[i*n+k]
			for j := 0; j < k; j++ {
				s -= ld.ldl[i*n+j] * ld.ldl[k*n+j] * ld.d[j]
			}
			ld.ldl[i*n+k] = s / sum
		}
	}
	return nil
}

func (ld *Dense) SolveInPlace(rhs []float64) error {
	n := ld.n
	if len(rhs) != n {
		return fmt.Errorf("ldlt: rhs has wrong length %d, want %d", len(rhs), n)
	}

	for i := 0; i < n; i++ {
		sum := rhs[i]
		for j := 0; j < i; j++ {
			sum -= ld.ldl[i*n+j] * rhs[j]
		}
		rhs[i] = sum
	}

	for i := 0; i < n; i++ {
		if ld.d[i] == 0 {
			return ErrSingular
		}
		rhs[i] /= ld.d[i]
	}

	for i := n - 1; i >= 0; i-- {
		sum := rhs[i]
		for j := i + 1; j < n; j++ {
			sum -= ld.ldl[j*n+i] * rhs[j]
		}
		rhs[i] = sum
	}
	return nil
}

func (ld *Dense) Solve(rhs []float64) ([]float64, error) {
	out := append([]float64(nil), rhs...)
	err := ld.SolveInPlace(out)
	return out, err
}

func (ld *Dense) MatrixLDLT() []float64 { return ld.ldl }

func (ld *Dense) VectorD() []float64 { return ld.d }

func (ld *Dense) Rcond() float64 {
	minAbs, maxAbs := math.Inf(1), 0.0
	for _, v := range ld.d {
		a := math.Abs(v)
		if a < minAbs {
			minAbs = a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return 0
	}
	return minAbs / maxAbs
}

func (ld *Dense) Inertia() (pos, neg, zero int) { return inertiaOf(ld.d) }
