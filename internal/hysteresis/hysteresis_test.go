package hysteresis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLatching(t *testing.T) {
	d, err := New(1, 4)
	require.NoError(t, err)

	// 2 never crosses the high threshold on its own; once 6 does, the
	// state latches through the in-band 2 and drops only at the final 0,
	// which is below the low threshold.
	in := []float64{0, 2, 0, 2, 6, 2, 0}
	want := []float64{0, 0, 0, 0, 1, 1, 0}
	assert.Equal(t, want, d.Detect(in))
}

func TestDetectSingleThresholdDegenerate(t *testing.T) {
	d, err := New(3, 3)
	require.NoError(t, err)

	in := []float64{0, 3, 2.9, 3.1, 0}
	want := []float64{0, 1, 0, 1, 0}
	assert.Equal(t, want, d.Detect(in))
}

func TestNewRejectsInvertedThresholds(t *testing.T) {
	_, err := New(5, 1)
	assert.Error(t, err)
}

func TestDetectFromResumesState(t *testing.T) {
	d, err := New(1, 4)
	require.NoError(t, err)

	in := []float64{0, 2, 0, 2, 6, 2, 0}
	whole := d.Detect(in)

	// Feeding the series in two chunks with the carried state must
	// reproduce the batch result sample for sample.
	first, state := d.DetectFrom(0, in[:3])
	second, _ := d.DetectFrom(state, in[3:])
	assert.Equal(t, whole[:3], first)
	assert.Equal(t, whole[3:], second)
}

func TestDetectNaNHandling(t *testing.T) {
	d, err := New(1, 4)
	require.NoError(t, err)

	in := []float64{6, math.NaN(), 2, 2, 5}
	out := d.Detect(in)

	assert.Equal(t, 1.0, out[0])
	assert.True(t, math.IsNaN(out[1]))
	// The in-band sample after a NaN has no prior decision to hold.
	assert.Equal(t, 0.0, out[2])
	assert.Equal(t, 0.0, out[3])
	assert.Equal(t, 1.0, out[4])
}

func TestStepMatchesDetect(t *testing.T) {
	d := Detector{Low: 0.5, High: 2}
	in := []float64{0, 1, 3, 1, 0.2, 1}

	state := 0.0
	for i, v := range in {
		state = d.Step(state, v)
		assert.Equal(t, d.Detect(in[:i+1])[i], state, "sample %d", i)
	}
}
