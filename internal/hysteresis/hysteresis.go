package hysteresis

import (
	"fmt"
	"math"
)

// Detector is a two-state threshold detector with a holding band.
//
// For each sample v the decision is 1 if v >= High, 0 if v < Low, and the
// previous decision when v lies inside [Low, High). With Low == High the
// band is empty and the detector degenerates to a single threshold.
type Detector struct {
	Low  float64
	High float64
}

// New validates the threshold pair.
func New(low, high float64) (Detector, error) {
	if low > high {
		return Detector{}, fmt.Errorf("low threshold %g exceeds high threshold %g", low, high)
	}
	return Detector{Low: low, High: high}, nil
}

// Step advances the detector by one sample and returns the new decision,
// which is also the state to carry into the next call. The state before
// the first sample of a series is 0.
//
// A NaN input yields a NaN decision. A sample inside the holding band
// that follows a NaN decision resolves to 0, since there is no valid
// prior decision to hold.
func (d Detector) Step(state, v float64) float64 {
	switch {
	case math.IsNaN(v):
		return math.NaN()
	case v >= d.High:
		return 1
	case v < d.Low:
		return 0
	case math.IsNaN(state):
		return 0
	default:
		return state
	}
}

// Detect runs the detector over sig from the initial state 0.
func (d Detector) Detect(sig []float64) []float64 {
	out, _ := d.DetectFrom(0, sig)
	return out
}

// DetectFrom runs the detector over sig starting from a carried state and
// returns the decisions together with the final state, so arriving samples
// can be processed incrementally without reprocessing history.
func (d Detector) DetectFrom(state float64, sig []float64) ([]float64, float64) {
	out := make([]float64, len(sig))
	for i, v := range sig {
		state = d.Step(state, v)
		out[i] = state
	}
	return out, state
}
