package separate

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// ErrShape is returned for inputs whose dimensions do not fit the algorithm.
var ErrShape = errors.New("separate: invalid matrix shape")

// Mode selects the separation strategy.
type Mode int

const (
	// SingleChannel produces one combined signal row.
	SingleChannel Mode = iota
	// MultiChannel produces one row per separated source.
	MultiChannel
)

// String returns the mode name used in configuration.
func (m Mode) String() string {
	switch m {
	case SingleChannel:
		return "single"
	case MultiChannel:
		return "multi"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "single" or "multi" (case-insensitive). "pca" and "ica"
// are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "pca":
		return SingleChannel, nil
	case "multi", "ica":
		return MultiChannel, nil
	default:
		return 0, fmt.Errorf("unknown separation mode: %q", s)
	}
}

// Separator splits a channels x samples matrix into normalized 1-D signals.
type Separator interface {
	Mode() Mode
	Separate(x mat.Matrix) ([][]float64, error)
}

// Projector reduces a channels x samples matrix to a single sign-normalized
// signal.
type Projector interface {
	Project(x mat.Matrix) ([]float64, error)
}

// Unmixer separates a channels x samples matrix into K sources (K x samples)
// and returns the K x K demixing matrix.
type Unmixer interface {
	Unmix(x mat.Matrix) (sources, demixing *mat.Dense, err error)
}

// New returns the default separator for mode: PCA for SingleChannel and
// FastICA for MultiChannel.
func New(mode Mode) (Separator, error) {
	switch mode {
	case SingleChannel:
		return Single{Projector: PCA{}}, nil
	case MultiChannel:
		return Multi{Unmixer: NewFastICA()}, nil
	default:
		return nil, fmt.Errorf("unknown separation mode: %v", mode)
	}
}

// Single combines all channels into one normalized row.
type Single struct {
	Projector Projector
}

// Mode returns SingleChannel.
func (Single) Mode() Mode { return SingleChannel }

// Separate projects x and normalizes the result to [0,1].
func (s Single) Separate(x mat.Matrix) ([][]float64, error) {
	row, err := s.Projector.Project(x)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	core.NormalizeMinMax(row, row)
	return [][]float64{row}, nil
}

// Multi separates x into independent sources.
type Multi struct {
	Unmixer Unmixer
}

// Mode returns MultiChannel.
func (Multi) Mode() Mode { return MultiChannel }

// Separate unmixes x, flips every source whose demixing diagonal entry is
// not positive, and normalizes each source to [0,1].
func (m Multi) Separate(x mat.Matrix) ([][]float64, error) {
	sources, w, err := m.Unmixer.Unmix(x)
	if err != nil {
		return nil, fmt.Errorf("unmix: %w", err)
	}

	k, n := sources.Dims()
	wr, wc := w.Dims()
	if wr != k || wc != k {
		return nil, fmt.Errorf("%w: demixing %dx%d for %d sources", ErrShape, wr, wc, k)
	}

	out := make([][]float64, k)
	for i := range out {
		row := make([]float64, n)
		mat.Row(row, i, sources)
		if w.At(i, i) <= 0 {
			for j := range row {
				row[j] = -row[j]
			}
		}
		core.NormalizeMinMax(row, row)
		out[i] = row
	}
	return out, nil
}
