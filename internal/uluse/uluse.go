// Package uluse converts acceleration-derived signals into binary
// upper-limb use series. Three detectors are provided: a single
// threshold, a dual threshold with hysteresis, and the composite GMAC
// detector that gates activity counts by forearm pitch.
package uluse

import (
	"fmt"
	"math"

	"github.com/relabs-tech/ulmotion/internal/hysteresis"
	"github.com/relabs-tech/ulmotion/internal/preprocess"
	"github.com/relabs-tech/ulmotion/internal/timeseries"
)

func validateMagnitude(mag []float64) error {
	if len(mag) == 0 {
		return fmt.Errorf("magnitude series is empty")
	}
	for _, v := range mag {
		if v < 0 {
			return fmt.Errorf("activity counts cannot be negative, got %g", v)
		}
	}
	return nil
}

// FromMagnitude computes use with a single scalar threshold: 1 where the
// magnitude reaches the threshold, 0 elsewhere. NaN samples stay NaN.
func FromMagnitude(mag []float64, threshold float64) ([]float64, error) {
	if err := validateMagnitude(mag); err != nil {
		return nil, err
	}
	use := make([]float64, len(mag))
	for i, v := range mag {
		switch {
		case math.IsNaN(v):
			use[i] = math.NaN()
		case v >= threshold:
			use[i] = 1
		}
	}
	return use, nil
}

// FromMagnitudeHysteresis computes use with a (low, high) threshold pair
// and a holding band, carrying the previous decision inside the band.
func FromMagnitudeHysteresis(mag []float64, low, high float64) ([]float64, error) {
	if err := validateMagnitude(mag); err != nil {
		return nil, err
	}
	d, err := hysteresis.New(low, high)
	if err != nil {
		return nil, err
	}
	return d.Detect(mag), nil
}

// GMACOptions configures the composite detector. Zero values for the
// cutoffs, deadband and pitch range select the package defaults.
type GMACOptions struct {
	ForearmAxis    int
	ElbowToForearm bool

	// Hysteresis thresholds on the acceleration magnitude.
	CountsLow  float64
	CountsHigh float64

	// Functional space: use is gated to 0 when |pitch| reaches this
	// bound (degrees).
	PitchRange float64

	LowpassCutoff  float64
	HighpassCutoff float64
	Deadband       float64
}

// DefaultPitchRange is the functional pitch window in degrees.
const DefaultPitchRange = 30.0

func (o *GMACOptions) setDefaults() {
	if o.PitchRange == 0 {
		o.PitchRange = DefaultPitchRange
	}
	if o.LowpassCutoff == 0 {
		o.LowpassCutoff = preprocess.DefaultLowpassCutoff
	}
	if o.HighpassCutoff == 0 {
		o.HighpassCutoff = preprocess.DefaultHighpassCutoff
	}
	if o.Deadband == 0 {
		o.Deadband = preprocess.DefaultDeadband
	}
}

// GMACResult carries the binary use series along with the intermediate
// pitch and magnitude signals for diagnostic consumers.
type GMACResult struct {
	Pitch     []float64
	Magnitude []float64
	Use       []float64
}

// GMAC runs the composite detector on raw tri-axial acceleration: the
// hysteresis detector on the high-pass acceleration magnitude, gated to 0
// wherever the forearm pitch leaves the functional window. The magnitude
// threshold alone is sensitive but unspecific; the pitch gate requires
// the forearm to be in the functional region.
func GMAC(acc [][3]float64, fs float64, opts GMACOptions) (GMACResult, error) {
	opts.setDefaults()

	pitch, err := preprocess.Pitch(acc, opts.ForearmAxis, opts.ElbowToForearm, fs, opts.LowpassCutoff)
	if err != nil {
		return GMACResult{}, err
	}
	mag, err := preprocess.Magnitude(acc, fs, opts.HighpassCutoff, opts.Deadband)
	if err != nil {
		return GMACResult{}, err
	}
	d, err := hysteresis.New(opts.CountsLow, opts.CountsHigh)
	if err != nil {
		return GMACResult{}, err
	}

	use := d.Detect(mag)
	for i := range use {
		// NaN pitch (filter warm-up) is outside the functional space.
		if !(math.Abs(pitch[i]) < opts.PitchRange) {
			use[i] = 0
		}
	}
	return GMACResult{Pitch: pitch, Magnitude: mag, Use: use}, nil
}

// AverageUse computes the windowed mean of a binary use signal, the
// fraction of time the limb was in use per window.
func AverageUse(use []float64, fs float64, w timeseries.Window) ([]int, []float64, error) {
	if !timeseries.IsBinary(use, true) {
		return nil, nil, fmt.Errorf("use signal must be binary")
	}
	return timeseries.SlidingMean(use, fs, w)
}
