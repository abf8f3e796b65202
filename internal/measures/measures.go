// Package measures derives summary scores of upper-limb functioning:
// average activity, the overall activity percentile Hq, the relative use
// Rq between the two limbs, and the laterality index.
package measures

import (
	"fmt"
	"math"
	"sort"

	"github.com/relabs-tech/ulmotion/internal/timeseries"
)

// AverageActivity computes the windowed mean of the instantaneous
// intensity signal. Under identical window configurations it equals the
// elementwise product of average use and average intensity.
func AverageActivity(intensity []float64, fs float64, w timeseries.Window) ([]int, []float64, error) {
	for _, v := range intensity {
		if v < 0 {
			return nil, nil, fmt.Errorf("intensity cannot be negative, got %g", v)
		}
	}
	return timeseries.SlidingMean(intensity, fs, w)
}

// percentile computes the q-th percentile of xs with linear interpolation
// between order statistics, ignoring NaN samples. An all-NaN or empty
// input yields NaN.
func percentile(xs []float64, q float64) float64 {
	vals := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)

	h := q / 100 * float64(len(vals)-1)
	lo := int(math.Floor(h))
	if lo >= len(vals)-1 {
		return vals[len(vals)-1]
	}
	return vals[lo] + (h-float64(lo))*(vals[lo+1]-vals[lo])
}

func validatePercentileInput(name string, xs []float64, q float64) error {
	if q < 0 || q > 100 {
		return fmt.Errorf("percentile q must be between 0 and 100, got %g", q)
	}
	for _, v := range xs {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", name, v)
		}
	}
	return nil
}

// Hq is the overall activity score: the q-th percentile of the average
// activity signal. An all-NaN input is NaN.
func Hq(activity []float64, q float64) (float64, error) {
	if err := validatePercentileInput("average activity", activity, q); err != nil {
		return 0, err
	}
	return percentile(activity, q), nil
}

// Rq computes the relative use of the two limbs from their average
// activity signals: Hq of the elementwise product divided by the square
// of the larger single-limb Hq. The second return value indicates which
// limb scores higher (+1 right, -1 left, 0 equal). When both single-limb
// percentiles are 0 the measure is undefined and both values are NaN.
func Rq(right, left []float64, q float64) (rq, dominance float64, err error) {
	if len(right) != len(left) {
		return 0, 0, fmt.Errorf("limb signals must be the same length, got %d and %d", len(right), len(left))
	}
	if err := validatePercentileInput("right limb activity", right, q); err != nil {
		return 0, 0, err
	}
	if err := validatePercentileInput("left limb activity", left, q); err != nil {
		return 0, 0, err
	}

	prod := make([]float64, len(right))
	for i := range right {
		prod[i] = right[i] * left[i]
	}

	qr := percentile(right, q)
	ql := percentile(left, q)
	qrl := percentile(prod, q)
	if math.IsNaN(qr) || math.IsNaN(ql) {
		return math.NaN(), math.NaN(), nil
	}
	if qr == 0 && ql == 0 {
		return math.NaN(), math.NaN(), nil
	}

	switch {
	case qr > ql:
		dominance = 1
	case qr < ql:
		dominance = -1
	}
	return qrl / math.Max(qr*qr, ql*ql), dominance, nil
}

// LateralityIndex computes the instantaneous laterality index
// L[n] = (right[n] - left[n]) / (right[n] + left[n]) for a pair of use or
// intensity signals. Samples where the sum is 0 are undefined and
// reported as NaN, never coerced to 0. Values lie in [-1, 1], exactly
// +/-1 when only one limb is active.
func LateralityIndex(right, left []float64) ([]float64, error) {
	if len(right) != len(left) {
		return nil, fmt.Errorf("limb signals must be the same length, got %d and %d", len(right), len(left))
	}
	for i := range right {
		if right[i] < 0 || left[i] < 0 {
			return nil, fmt.Errorf("limb signals must be non-negative, got %g and %g at sample %d", right[i], left[i], i)
		}
	}

	lat := make([]float64, len(right))
	for i := range right {
		sum := right[i] + left[i]
		if sum == 0 {
			lat[i] = math.NaN()
			continue
		}
		lat[i] = (right[i] - left[i]) / sum
	}
	return lat, nil
}

// AverageLaterality computes the windowed mean of the instantaneous
// laterality index, excluding undefined samples from each window. A
// window containing only undefined samples is itself undefined.
func AverageLaterality(lat []float64, fs float64, w timeseries.Window) ([]int, []float64, error) {
	for _, v := range lat {
		if math.Abs(v) > 1 { // NaN passes: comparisons with NaN are false
			return nil, nil, fmt.Errorf("laterality index out of range: %g", v)
		}
	}
	return timeseries.SlidingMeanSkipNaN(lat, fs, w)
}
