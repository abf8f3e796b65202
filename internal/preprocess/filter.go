package preprocess

import "math"

// rc converts a cutoff frequency in Hz to the filter time constant.
func rc(cutoff float64) float64 {
	return 1 / (2 * math.Pi * cutoff)
}

// Lowpass applies a first-order low-pass filter with the given cutoff
// frequency. The filter is seeded with the first sample, so the output
// starts on the signal rather than at zero.
func Lowpass(x []float64, fs, cutoff float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	dt := 1 / fs
	alpha := dt / (rc(cutoff) + dt)

	y := make([]float64, len(x))
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = y[i-1] + alpha*(x[i]-y[i-1])
	}
	return y
}

// Highpass applies a first-order high-pass filter with the given cutoff
// frequency, removing the DC/gravity component. The first output is 0,
// treating the sample before the series as equal to the first one.
func Highpass(x []float64, fs, cutoff float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	dt := 1 / fs
	r := rc(cutoff)
	beta := r / (r + dt)

	y := make([]float64, len(x))
	y[0] = 0
	for i := 1; i < len(x); i++ {
		y[i] = beta * (y[i-1] + x[i] - x[i-1])
	}
	return y
}
