package spectrum

import "github.com/cwbudde/algo-pulse/dsp/core"

// PeakCount is the number of peaks kept per estimate.
const PeakCount = 2

// Peak is a spectrum bin selected as a rate candidate.
// A Bin <= 0 marks an empty slot.
type Peak struct {
	Bin       int
	Magnitude float64
}

// Valid reports whether the peak refers to a usable (non-DC) bin.
func (p Peak) Valid() bool {
	return p.Bin > 0
}

// MaskBand zeroes bins [0, low] and [high, len-1], leaving low+1..high-1.
func MaskBand(spectrum []float64, low, high int) {
	core.ZeroRange(spectrum, 0, low+1)
	core.ZeroRange(spectrum, high, len(spectrum))
}

// TopTwo returns the two largest strictly positive bins in one left-to-right
// pass, largest first.
//
// Each bin is carried down the two slots and swapped into any slot holding a
// strictly smaller value, so of equal values the earliest bin ranks first.
// Slots that never receive a positive value keep Bin == -1.
func TopTwo(spectrum []float64) [PeakCount]Peak {
	peaks := [PeakCount]Peak{{Bin: -1}, {Bin: -1}}
	for x, v := range spectrum {
		carry := Peak{Bin: x, Magnitude: v}
		for i := range peaks {
			if peaks[i].Magnitude < carry.Magnitude {
				peaks[i], carry = carry, peaks[i]
			}
		}
	}
	return peaks
}
