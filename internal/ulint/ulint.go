// Package ulint quantifies the intensity of upper-limb use: an
// instantaneous intensity gated by the binary use signal, and its
// windowed average.
package ulint

import (
	"fmt"
	"math"

	"github.com/relabs-tech/ulmotion/internal/timeseries"
)

// Transform maps the raw magnitude to an intensity value. It must be
// monotonic over non-negative inputs.
type Transform func(float64) float64

// Identity passes the magnitude through unchanged.
func Identity() Transform {
	return func(v float64) float64 { return v }
}

// Power raises the magnitude to the exponent p.
func Power(p float64) Transform {
	return func(v float64) float64 { return math.Pow(v, p) }
}

// FromVectorMagnitude computes the instantaneous intensity of use
// i[n] = f(mag[n*stride]) * use[n]. The magnitude may be sampled faster
// than the use signal; stride is the integer downsampling factor between
// the two (1 when they share a rate).
//
// Intensity is exactly 0 wherever use is 0, regardless of the magnitude.
func FromVectorMagnitude(mag, use []float64, stride int, f Transform) ([]int, []float64, error) {
	if len(mag) == 0 {
		return nil, nil, fmt.Errorf("magnitude series is empty")
	}
	if stride < 1 {
		return nil, nil, fmt.Errorf("stride must be at least 1, got %d", stride)
	}
	for _, v := range mag {
		if v < 0 {
			return nil, nil, fmt.Errorf("vector magnitude cannot be negative, got %g", v)
		}
	}
	if !timeseries.IsBinary(use, true) {
		return nil, nil, fmt.Errorf("use signal must be binary")
	}
	if n := (len(mag) + stride - 1) / stride; n != len(use) {
		return nil, nil, fmt.Errorf("magnitude length %d with stride %d is incompatible with use length %d", len(mag), stride, len(use))
	}
	if f == nil {
		f = Identity()
	}

	idx := make([]int, len(use))
	intensity := make([]float64, len(use))
	for n := range use {
		idx[n] = n * stride
		switch {
		case use[n] == 0:
			intensity[n] = 0
		case math.IsNaN(use[n]):
			intensity[n] = math.NaN()
		default:
			intensity[n] = f(mag[n*stride]) * use[n]
		}
	}
	return idx, intensity, nil
}

// AverageIntensity computes the windowed average intensity of use: the
// windowed mean of the intensity divided by the windowed mean of the use
// signal, i.e. the mean intensity over the time the limb was actually in
// use. Windows without any use average to 0; windows with an undefined
// use mean are NaN.
//
// Defined this way, the product of average use and average intensity
// reproduces the average activity computed directly from the
// instantaneous intensity under the same window configuration.
func AverageIntensity(intensity, use []float64, fs float64, w timeseries.Window) ([]int, []float64, error) {
	if len(intensity) != len(use) {
		return nil, nil, fmt.Errorf("intensity length %d does not match use length %d", len(intensity), len(use))
	}
	for _, v := range intensity {
		if v < 0 {
			return nil, nil, fmt.Errorf("intensity cannot be negative, got %g", v)
		}
	}
	if !timeseries.IsBinary(use, true) {
		return nil, nil, fmt.Errorf("use signal must be binary")
	}

	idx, meanInt, err := timeseries.SlidingMean(intensity, fs, w)
	if err != nil {
		return nil, nil, err
	}
	_, meanUse, err := timeseries.SlidingMean(use, fs, w)
	if err != nil {
		return nil, nil, err
	}

	out := make([]float64, len(meanInt))
	for i := range out {
		switch {
		case math.IsNaN(meanUse[i]):
			out[i] = math.NaN()
		case meanUse[i] > 0:
			out[i] = meanInt[i] / meanUse[i]
		default:
			out[i] = 0
		}
	}
	return idx, out, nil
}
