package ulint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ulmotion/internal/timeseries"
)

func TestFromVectorMagnitudeGatesOnUse(t *testing.T) {
	mag := []float64{3, 7, 2, 9}
	use := []float64{1, 0, 1, 0}

	idx, intensity, err := FromVectorMagnitude(mag, use, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, idx)
	assert.Equal(t, []float64{3, 0, 2, 0}, intensity)
}

func TestFromVectorMagnitudeStride(t *testing.T) {
	// Magnitude at 4x the use rate.
	mag := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	use := []float64{1, 1}

	idx, intensity, err := FromVectorMagnitude(mag, use, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, idx)
	assert.Equal(t, []float64{1, 5}, intensity)

	_, _, err = FromVectorMagnitude(mag, []float64{1, 1, 1}, 4, nil)
	assert.Error(t, err, "incompatible lengths")
}

func TestFromVectorMagnitudePowerTransform(t *testing.T) {
	mag := []float64{2, 3}
	use := []float64{1, 1}

	_, intensity, err := FromVectorMagnitude(mag, use, 1, Power(2))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 9}, intensity, 1e-12)
}

func TestFromVectorMagnitudeNaNUse(t *testing.T) {
	mag := []float64{2, 3}
	use := []float64{math.NaN(), 0}

	_, intensity, err := FromVectorMagnitude(mag, use, 1, nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(intensity[0]))
	assert.Equal(t, 0.0, intensity[1])
}

func TestFromVectorMagnitudeValidation(t *testing.T) {
	_, _, err := FromVectorMagnitude(nil, nil, 1, nil)
	assert.Error(t, err)
	_, _, err = FromVectorMagnitude([]float64{-1}, []float64{1}, 1, nil)
	assert.Error(t, err)
	_, _, err = FromVectorMagnitude([]float64{1}, []float64{2}, 1, nil)
	assert.Error(t, err)
	_, _, err = FromVectorMagnitude([]float64{1}, []float64{1}, 0, nil)
	assert.Error(t, err)
}

func TestAverageIntensityIsPerUseTime(t *testing.T) {
	use := []float64{1, 0, 1, 0}
	intensity := []float64{4, 0, 2, 0}

	idx, avg, err := AverageIntensity(intensity, use, 1, timeseries.Window{Dur: 2, Shift: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)
	// Mean intensity over used samples only: 4/1 and 2/1.
	assert.InDeltaSlice(t, []float64{4, 2}, avg, 1e-12)
}

func TestAverageIntensityNoUseIsZero(t *testing.T) {
	use := []float64{0, 0, 1, 1}
	intensity := []float64{0, 0, 3, 5}

	_, avg, err := AverageIntensity(intensity, use, 1, timeseries.Window{Dur: 2, Shift: 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg[0])
	assert.InDelta(t, 4, avg[1], 1e-12)
}
