package separate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNoConvergence reports that FastICA hit MaxIter before Tolerance.
// Unmix does not return it; the last iterate is used instead. It is exposed
// through FastICA.Converged for diagnostics.
var ErrNoConvergence = errors.New("fastica did not converge")

const (
	defaultICAMaxIter   = 200
	defaultICATolerance = 1e-6

	// Whitening drops directions whose variance is below this fraction of
	// the largest one, e.g. a flat color channel.
	whiteningFloor = 1e-12
)

// FastICA is a symmetric fixed-point FastICA unmixer with a tanh contrast
// and identity initialization, so results are deterministic.
type FastICA struct {
	MaxIter   int
	Tolerance float64

	iterations int
	converged  bool
}

// NewFastICA returns a FastICA with default iteration limits.
func NewFastICA() *FastICA {
	return &FastICA{MaxIter: defaultICAMaxIter, Tolerance: defaultICATolerance}
}

// Converged reports whether the last Unmix call converged and how many
// iterations it took. The error is ErrNoConvergence when it did not.
func (f *FastICA) Converged() (iterations int, err error) {
	if !f.converged {
		return f.iterations, ErrNoConvergence
	}
	return f.iterations, nil
}

// Unmix separates x (K channels x n samples) into K sources. The returned
// demixing matrix W maps centered input rows to sources: S = W (X - mean).
func (f *FastICA) Unmix(x mat.Matrix) (sources, demixing *mat.Dense, err error) {
	k, n := x.Dims()
	if k < 1 || n < 2 {
		return nil, nil, fmt.Errorf("%w: fastica needs >= 1 channel and >= 2 samples, got %dx%d", ErrShape, k, n)
	}

	maxIter := f.MaxIter
	if maxIter <= 0 {
		maxIter = defaultICAMaxIter
	}
	tol := f.Tolerance
	if tol <= 0 {
		tol = defaultICATolerance
	}

	centered := center(x)

	v, err := whitening(centered)
	if err != nil {
		return nil, nil, err
	}
	var z mat.Dense
	z.Mul(v, centered)

	w := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		w.Set(i, i, 1)
	}

	f.converged = false
	f.iterations = 0

	var (
		wz    mat.Dense
		next  mat.Dense
		cross mat.Dense
	)
	g := mat.NewDense(k, n, nil)
	gDeriv := make([]float64, k)

	for iter := 1; iter <= maxIter; iter++ {
		f.iterations = iter

		wz.Mul(w, &z)
		for i := 0; i < k; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				t := math.Tanh(wz.At(i, j))
				g.Set(i, j, t)
				sum += 1 - t*t
			}
			gDeriv[i] = sum / float64(n)
		}

		// w+ = E[g(Wz) z^T] - diag(E[g'(Wz)]) W
		next.Mul(g, z.T())
		next.Scale(1/float64(n), &next)
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				next.Set(i, j, next.At(i, j)-gDeriv[i]*w.At(i, j))
			}
		}

		if err := decorrelate(&next); err != nil {
			return nil, nil, err
		}

		cross.Mul(&next, w.T())
		delta := 0.0
		for i := 0; i < k; i++ {
			delta = math.Max(delta, math.Abs(math.Abs(cross.At(i, i))-1))
		}
		w.Copy(&next)
		if delta < tol {
			f.converged = true
			break
		}
	}

	demixing = mat.NewDense(k, k, nil)
	demixing.Mul(w, v)
	sources = mat.NewDense(k, n, nil)
	sources.Mul(w, &z)
	return sources, demixing, nil
}

// center returns a copy of x with every row shifted to zero mean.
func center(x mat.Matrix) *mat.Dense {
	k, n := x.Dims()
	out := mat.DenseCopyOf(x)
	row := make([]float64, n)
	for i := 0; i < k; i++ {
		mat.Row(row, i, out)
		mean := stat.Mean(row, nil)
		for j := range row {
			row[j] -= mean
		}
		out.SetRow(i, row)
	}
	return out
}

// whitening returns V = D^{-1/2} E^T for the row covariance of centered x.
func whitening(centered *mat.Dense) (*mat.Dense, error) {
	k, n := centered.Dims()

	cov := mat.NewSymDense(k, nil)
	cov.SymOuterK(1/float64(n), centered)

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, fmt.Errorf("fastica: covariance eigendecomposition failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	largest := 0.0
	for _, l := range vals {
		largest = math.Max(largest, l)
	}
	if !(largest > 0) {
		return nil, fmt.Errorf("%w: input has no variance", ErrShape)
	}

	v := mat.NewDense(k, k, nil)
	for i, l := range vals {
		if l <= whiteningFloor*largest {
			continue
		}
		s := 1 / math.Sqrt(l)
		for j := 0; j < k; j++ {
			v.Set(i, j, s*vecs.At(j, i))
		}
	}
	return v, nil
}

// decorrelate replaces w with (W W^T)^{-1/2} W.
func decorrelate(w *mat.Dense) error {
	k, _ := w.Dims()

	ww := mat.NewSymDense(k, nil)
	ww.SymOuterK(1, w)

	var eig mat.EigenSym
	if ok := eig.Factorize(ww, true); !ok {
		return fmt.Errorf("fastica: decorrelation eigendecomposition failed")
	}
	vals := eig.Values(nil)
	var e mat.Dense
	eig.VectorsTo(&e)

	d := mat.NewDiagDense(k, nil)
	for i, l := range vals {
		if !(l > 0) {
			return fmt.Errorf("fastica: degenerate unmixing matrix")
		}
		d.SetDiag(i, 1/math.Sqrt(l))
	}

	var inv, tmp mat.Dense
	tmp.Mul(&e, d)
	inv.Mul(&tmp, e.T())
	tmp.Mul(&inv, w)
	w.Copy(&tmp)
	return nil
}
