package separate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA projects the channels onto their first principal component.
//
// The component sign is fixed so that its largest-magnitude loading is
// positive: a signal dominated by one channel keeps that channel's polarity.
type PCA struct{}

// Project returns the centered projection of x (channels x samples) onto
// the direction of largest variance.
func (PCA) Project(x mat.Matrix) ([]float64, error) {
	channels, n := x.Dims()
	if channels < 1 || n < 2 {
		return nil, fmt.Errorf("%w: pca needs >= 1 channel and >= 2 samples, got %dx%d", ErrShape, channels, n)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x.T(), nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	loading := make([]float64, channels)
	mat.Col(loading, 0, &vecs)
	if loading[maxAbsIndex(loading)] < 0 {
		for i := range loading {
			loading[i] = -loading[i]
		}
	}

	means := make([]float64, channels)
	row := make([]float64, n)
	for ch := range means {
		mat.Row(row, ch, x)
		means[ch] = stat.Mean(row, nil)
	}

	out := make([]float64, n)
	for j := 0; j < n; j++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += (x.At(ch, j) - means[ch]) * loading[ch]
		}
		out[j] = sum
	}
	return out, nil
}

func maxAbsIndex(x []float64) int {
	best := 0
	for i, v := range x {
		if math.Abs(v) > math.Abs(x[best]) {
			best = i
		}
	}
	return best
}
