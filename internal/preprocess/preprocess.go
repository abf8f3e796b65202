// Package preprocess derives forearm pitch and high-pass acceleration
// magnitude from raw tri-axial wrist acceleration, the two signals the
// use detectors are built on.
package preprocess

import (
	"fmt"
	"math"
)

// Defaults for the gravity isolation and activity band.
const (
	DefaultLowpassCutoff  = 1.0 // Hz, gravity estimate for pitch
	DefaultHighpassCutoff = 1.0 // Hz, DC removal for the magnitude
	DefaultDeadband       = 0.068
)

func validate(acc [][3]float64, fs float64) error {
	if len(acc) == 0 {
		return fmt.Errorf("acceleration series is empty")
	}
	if fs <= 0 {
		return fmt.Errorf("sampling frequency must be positive, got %g", fs)
	}
	return nil
}

func axis(acc [][3]float64, i int) []float64 {
	out := make([]float64, len(acc))
	for n, s := range acc {
		out[n] = s[i]
	}
	return out
}

// Pitch estimates the forearm pitch angle in degrees from raw tri-axial
// acceleration. The gravity component is isolated with a low-pass filter
// at the given cutoff; the pitch is the arctangent of the forearm-axis
// gravity against the resultant of the two orthogonal axes. When the
// forearm axis points from the forearm toward the elbow rather than from
// the elbow outward, the sign is flipped.
//
// The first sample has no filter history and is reported as NaN.
func Pitch(acc [][3]float64, forearmAxis int, elbowToForearm bool, fs, cutoff float64) ([]float64, error) {
	if err := validate(acc, fs); err != nil {
		return nil, err
	}
	if forearmAxis < 0 || forearmAxis > 2 {
		return nil, fmt.Errorf("forearm axis must be 0, 1 or 2, got %d", forearmAxis)
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("low-pass cutoff must be positive, got %g", cutoff)
	}

	var g [3][]float64
	for i := 0; i < 3; i++ {
		g[i] = Lowpass(axis(acc, i), fs, cutoff)
	}
	o1, o2 := (forearmAxis+1)%3, (forearmAxis+2)%3

	sign := 1.0
	if !elbowToForearm {
		sign = -1
	}

	pitch := make([]float64, len(acc))
	pitch[0] = math.NaN() // insufficient filter history
	for n := 1; n < len(acc); n++ {
		res := math.Hypot(g[o1][n], g[o2][n])
		pitch[n] = sign * math.Atan2(g[forearmAxis][n], res) * 180 / math.Pi
	}
	return pitch, nil
}

// Magnitude computes the activity-counts proxy: each axis is high-pass
// filtered at the given cutoff to strip gravity, values inside the
// deadband are zeroed, and the Euclidean norm across axes is taken per
// sample. The result is non-negative.
func Magnitude(acc [][3]float64, fs, cutoff, deadband float64) ([]float64, error) {
	if err := validate(acc, fs); err != nil {
		return nil, err
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("high-pass cutoff must be positive, got %g", cutoff)
	}
	if deadband < 0 {
		return nil, fmt.Errorf("deadband must be non-negative, got %g", deadband)
	}

	var filt [3][]float64
	for i := 0; i < 3; i++ {
		filt[i] = Highpass(axis(acc, i), fs, cutoff)
		for n, v := range filt[i] {
			if math.Abs(v) < deadband {
				filt[i][n] = 0
			}
		}
	}

	mag := make([]float64, len(acc))
	for n := range acc {
		mag[n] = math.Sqrt(filt[0][n]*filt[0][n] + filt[1][n]*filt[1][n] + filt[2][n]*filt[2][n])
	}
	return mag, nil
}
