package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantAccl(n int, x, y, z float64) [][3]float64 {
	acc := make([][3]float64, n)
	for i := range acc {
		acc[i] = [3]float64{x, y, z}
	}
	return acc
}

func TestPitchVerticalForearm(t *testing.T) {
	// Forearm axis along gravity: pitch is 90 degrees.
	acc := constantAccl(50, 0, 0, 1)

	pitch, err := Pitch(acc, 2, true, 50, DefaultLowpassCutoff)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(pitch[0]), "first sample has no filter history")
	for _, p := range pitch[1:] {
		assert.InDelta(t, 90, p, 1e-9)
	}
}

func TestPitchSignFollowsOrientationFlag(t *testing.T) {
	acc := constantAccl(50, 0, 0, 1)

	up, err := Pitch(acc, 2, true, 50, DefaultLowpassCutoff)
	require.NoError(t, err)
	down, err := Pitch(acc, 2, false, 50, DefaultLowpassCutoff)
	require.NoError(t, err)

	for i := 1; i < len(acc); i++ {
		assert.InDelta(t, -up[i], down[i], 1e-12)
	}
}

func TestPitchHorizontalForearm(t *testing.T) {
	acc := constantAccl(50, 0, 1, 0)

	pitch, err := Pitch(acc, 0, true, 50, DefaultLowpassCutoff)
	require.NoError(t, err)
	for _, p := range pitch[1:] {
		assert.InDelta(t, 0, p, 1e-9)
	}
}

func TestPitchConfigErrors(t *testing.T) {
	acc := constantAccl(10, 0, 0, 1)

	_, err := Pitch(nil, 0, true, 50, 1)
	assert.Error(t, err)
	_, err = Pitch(acc, 3, true, 50, 1)
	assert.Error(t, err)
	_, err = Pitch(acc, 0, true, 0, 1)
	assert.Error(t, err)
	_, err = Pitch(acc, 0, true, 50, 0)
	assert.Error(t, err)
}

func TestMagnitudeRemovesGravity(t *testing.T) {
	// A static posture carries only gravity: the high-pass magnitude
	// must be zero throughout.
	acc := constantAccl(100, 0.1, -0.2, 0.97)

	mag, err := Magnitude(acc, 50, DefaultHighpassCutoff, 0)
	require.NoError(t, err)
	for _, m := range mag {
		assert.InDelta(t, 0, m, 1e-12)
	}
}

func TestMagnitudeNonNegativeAndRespondsToSteps(t *testing.T) {
	acc := constantAccl(100, 0, 0, 1)
	for i := 50; i < 60; i++ {
		acc[i][0] = 1.5 // burst on one axis
	}

	mag, err := Magnitude(acc, 50, DefaultHighpassCutoff, 0)
	require.NoError(t, err)

	for _, m := range mag {
		assert.GreaterOrEqual(t, m, 0.0)
	}
	assert.Greater(t, mag[50], 0.5, "burst must show up in the magnitude")
}

func TestMagnitudeDeadband(t *testing.T) {
	acc := constantAccl(100, 0, 0, 1)
	for i := 50; i < 100; i += 2 {
		acc[i][2] = 1.02 // ripple on the gravity axis, below the deadband
	}

	mag, err := Magnitude(acc, 50, DefaultHighpassCutoff, DefaultDeadband)
	require.NoError(t, err)
	for _, m := range mag {
		assert.InDelta(t, 0, m, 1e-12)
	}
}
