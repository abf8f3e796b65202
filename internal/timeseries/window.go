package timeseries

import (
	"fmt"
	"math"
)

// Window describes a sliding averaging window in seconds.
type Window struct {
	Dur   float64 // window duration
	Shift float64 // shift between consecutive windows
}

// Validate checks the window against a sampling frequency.
func (w Window) Validate(fs float64) error {
	if fs <= 0 {
		return fmt.Errorf("sampling frequency must be positive, got %g", fs)
	}
	if w.Dur <= 0 {
		return fmt.Errorf("window duration must be positive, got %g", w.Dur)
	}
	if w.Shift <= 0 {
		return fmt.Errorf("window shift must be positive, got %g", w.Shift)
	}
	return nil
}

// Samples converts the window to sample counts at fs. Fractional windows
// are truncated; a window or shift shorter than one sample becomes one
// sample.
func (w Window) Samples(fs float64) (nwin, nshift int) {
	nwin = int(w.Dur * fs)
	if nwin < 1 {
		nwin = 1
	}
	nshift = int(w.Shift * fs)
	if nshift < 1 {
		nshift = 1
	}
	return nwin, nshift
}

// SlidingMean computes the arithmetic mean of sig over each window
// position. Windows start at sample 0 and advance by the window shift;
// only windows that fit entirely within the signal are emitted, and the
// trailing partial window is dropped. The returned index i marks the
// first sample of window i.
//
// Every averaged quantity in this module goes through this function, so
// identities between averaged signals hold whenever the same window
// configuration is used.
func SlidingMean(sig []float64, fs float64, w Window) ([]int, []float64, error) {
	return slidingMean(sig, fs, w, false)
}

// SlidingMeanSkipNaN is SlidingMean with NaN samples excluded from each
// window mean. A window containing only NaN samples yields NaN.
func SlidingMeanSkipNaN(sig []float64, fs float64, w Window) ([]int, []float64, error) {
	return slidingMean(sig, fs, w, true)
}

func slidingMean(sig []float64, fs float64, w Window, skipNaN bool) ([]int, []float64, error) {
	if err := w.Validate(fs); err != nil {
		return nil, nil, err
	}
	nwin, nshift := w.Samples(fs)
	if nwin > len(sig) {
		return nil, nil, fmt.Errorf("window of %d samples exceeds signal length %d", nwin, len(sig))
	}

	var idx []int
	var means []float64
	for start := 0; start+nwin <= len(sig); start += nshift {
		sum, n := 0.0, 0
		for _, v := range sig[start : start+nwin] {
			if skipNaN && math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		idx = append(idx, start)
		if n == 0 {
			means = append(means, math.NaN())
		} else {
			means = append(means, sum/float64(n))
		}
	}
	return idx, means, nil
}

// IsBinary reports whether every sample of sig is 0 or 1. NaN samples are
// accepted when allowNaN is set.
func IsBinary(sig []float64, allowNaN bool) bool {
	for _, v := range sig {
		if v == 0 || v == 1 {
			continue
		}
		if allowNaN && math.IsNaN(v) {
			continue
		}
		return false
	}
	return true
}
