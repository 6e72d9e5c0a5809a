package ldlt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// Wrapped is the "external-library wrapper" LDLT variant: it delegates
// the symmetric indefinite factorization to LAPACK's Bunch-Kaufman
// routine (gonum's lapack64.Dsytrf) to obtain an authoritative inertia
// signature, and solves through the package's own Dense factorization
// of the same matrix — LAPACK's Dsytrf does not expose a solve routine
// at the lapack64 level, so reusing Dense here avoids reimplementing
// LAPACK's blocked back-substitution by hand.
type Wrapped struct {
	n     int
	dense *Dense

	factor []float64 // Bunch-Kaufman packed factor, upper storage
	ipiv   []int
	d      []float64 // per-slot D eigenvalues (2x2 blocks expand to their pair)
}

// NewWrapped allocates a Wrapped factorization for an n×n matrix.
func NewWrapped(n int) *Wrapped {
	return &Wrapped{n: n, dense: NewDense(n), ipiv: make([]int, n), d: make([]float64, n)}
}

func (w *Wrapped) Compute(a []float64) error {
	n := w.n
	if len(a) != n*n {
		return fmt.Errorf("ldlt: expected %d entries, got %d", n*n, len(a))
	}
	if err := w.dense.Compute(a); err != nil {
		return err
	}

	w.factor = append(w.factor[:0], a...)
	sym := blas64.Symmetric{N: n, Stride: n, Data: w.factor, Uplo: blas.Upper}

	work := make([]float64, 1)
	lapack64.Dsytrf(blas.Upper, sym, w.ipiv, work, -1)
	lwork := int(work[0])
	if lwork < 1 {
		lwork = 1
	}
	work = make([]float64, lwork)
	if ok := lapack64.Dsytrf(blas.Upper, sym, w.ipiv, work, lwork); !ok {
		return ErrSingular
	}

	w.computeD()
	return nil
}

// computeD walks the Bunch-Kaufman pivot structure from the bottom up,
// expanding every 1x1 block into its diagonal entry and every 2x2 block
// into its pair of eigenvalues, matching the sign pattern (and hence
// the inertia) of the true block-diagonal factor D.
func (w *Wrapped) computeD() {
	n := w.n
	for k := n - 1; k >= 0; {
		if w.ipiv[k] >= 0 {
			w.d[k] = w.factor[k*n+k]
			k--
			continue
		}
		a := w.factor[(k-1)*n+(k-1)]
		b := w.factor[(k-1)*n+k]
		c := w.factor[k*n+k]
		tr, det := a+c, a*c-b*b
		disc := math.Sqrt(tr*tr - 4*det)
		w.d[k-1] = (tr - disc) / 2
		w.d[k] = (tr + disc) / 2
		k -= 2
	}
}

func (w *Wrapped) SolveInPlace(rhs []float64) error { return w.dense.SolveInPlace(rhs) }

func (w *Wrapped) Solve(rhs []float64) ([]float64, error) { return w.dense.Solve(rhs) }

// MatrixLDLT returns the raw LAPACK Bunch-Kaufman packed factor.
func (w *Wrapped) MatrixLDLT() []float64 { return w.factor }

func (w *Wrapped) VectorD() []float64 { return w.d }

func (w *Wrapped) Rcond() float64 {
	minAbs, maxAbs := math.Inf(1), 0.0
	for _, v := range w.d {
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

func (w *Wrapped) Inertia() (pos, neg, zero int) { return inertiaOf(w.d) }
