// Package smoothness scores the quality of a movement profile with
// time-domain dimensionless-jerk measures and the frequency-domain
// spectral arc length. It is independent of the use/intensity pipeline
// and consumes plain kinematic profiles.
package smoothness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ProfileType declares what a movement profile's samples represent, which
// fixes how many numerical derivatives separate it from jerk.
type ProfileType int

const (
	Position ProfileType = iota
	Velocity
	Acceleration
)

// String implements fmt.Stringer.
func (p ProfileType) String() string {
	switch p {
	case Position:
		return "position"
	case Velocity:
		return "velocity"
	case Acceleration:
		return "acceleration"
	}
	return fmt.Sprintf("ProfileType(%d)", int(p))
}

// derivatives to reach jerk, and the duration exponent that makes the
// measure dimensionless and invariant to amplitude/duration rescaling.
func (p ProfileType) orders() (diffs int, exp float64, err error) {
	switch p {
	case Position:
		return 3, 5, nil
	case Velocity:
		return 2, 3, nil
	case Acceleration:
		return 1, 1, nil
	}
	return 0, 0, fmt.Errorf("unknown profile type %d", int(p))
}

// diff replaces x by its first difference scaled by 1/dt, shrinking the
// slice by one.
func diff(x []float64, dt float64) []float64 {
	out := make([]float64, len(x)-1)
	for i := range out {
		out[i] = (x[i+1] - x[i]) / dt
	}
	return out
}

func prepare(profile []float64, fs float64, typ ProfileType, removeMean bool) ([]float64, int, float64, error) {
	diffs, exp, err := typ.orders()
	if err != nil {
		return nil, 0, 0, err
	}
	if fs <= 0 {
		return nil, 0, 0, fmt.Errorf("sampling frequency must be positive, got %g", fs)
	}
	if len(profile) <= diffs {
		return nil, 0, 0, fmt.Errorf("%s profile of %d samples is too short to differentiate to jerk", typ, len(profile))
	}

	m := make([]float64, len(profile))
	copy(m, profile)
	if removeMean {
		floats.AddConst(-stat.Mean(m, nil), m)
	}
	return m, diffs, exp, nil
}

// JerkFactors is the decomposition of the dimensionless jerk: the
// duration raised to the type exponent, the squared peak of the profile,
// and the integrated squared jerk, so that
// DJ = -(DurationPow * Integral) / PeakSq.
type JerkFactors struct {
	DurationPow float64
	PeakSq      float64
	Integral    float64
}

// DimensionlessJerkFactors computes the three factors of the
// dimensionless jerk of a movement profile. The profile is
// differentiated to jerk (position: 3 derivatives, velocity: 2,
// acceleration: 1), the squared jerk is integrated over the movement
// duration T = len(profile)/fs, and the result is normalized by T to the
// type exponent over the squared peak value, making the measure invariant
// to uniform amplitude and duration rescaling.
func DimensionlessJerkFactors(profile []float64, fs float64, typ ProfileType, removeMean bool) (JerkFactors, error) {
	m, diffs, exp, err := prepare(profile, fs, typ, removeMean)
	if err != nil {
		return JerkFactors{}, err
	}

	dt := 1 / fs
	var peak float64
	for _, v := range m {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return JerkFactors{}, fmt.Errorf("profile peak is zero, dimensionless jerk is undefined")
	}

	jerk := m
	for i := 0; i < diffs; i++ {
		jerk = diff(jerk, dt)
	}
	integral := floats.Dot(jerk, jerk) * dt

	dur := float64(len(m)) * dt
	return JerkFactors{
		DurationPow: math.Pow(dur, exp),
		PeakSq:      peak * peak,
		Integral:    integral,
	}, nil
}

// DimensionlessJerk computes the dimensionless jerk of a movement
// profile. Smoother movements score closer to zero; the measure is
// always negative.
func DimensionlessJerk(profile []float64, fs float64, typ ProfileType, removeMean bool) (float64, error) {
	f, err := DimensionlessJerkFactors(profile, fs, typ, removeMean)
	if err != nil {
		return 0, err
	}
	return -(f.DurationPow * f.Integral) / f.PeakSq, nil
}

// LDLJTerms is the additive decomposition of the log dimensionless jerk
// into its duration, amplitude and jerk terms. Their sum equals the
// combined value.
type LDLJTerms struct {
	Duration  float64 // -exp * ln(T)
	Amplitude float64 // 2 * ln(peak)
	Jerk      float64 // -ln(integrated squared jerk)
}

// Sum is the log dimensionless jerk reconstructed from the terms.
func (t LDLJTerms) Sum() float64 {
	return t.Duration + t.Amplitude + t.Jerk
}

// LogDimensionlessJerkTerms computes the three additive terms of the log
// dimensionless jerk.
func LogDimensionlessJerkTerms(profile []float64, fs float64, typ ProfileType, removeMean bool) (LDLJTerms, error) {
	f, err := DimensionlessJerkFactors(profile, fs, typ, removeMean)
	if err != nil {
		return LDLJTerms{}, err
	}
	return LDLJTerms{
		Duration:  -math.Log(f.DurationPow),
		Amplitude: math.Log(f.PeakSq),
		Jerk:      -math.Log(f.Integral),
	}, nil
}

// LogDimensionlessJerk computes LDLJ = -ln|DJ|. Larger (less negative)
// values indicate smoother movement.
func LogDimensionlessJerk(profile []float64, fs float64, typ ProfileType, removeMean bool) (float64, error) {
	dj, err := DimensionlessJerk(profile, fs, typ, removeMean)
	if err != nil {
		return 0, err
	}
	return -math.Log(math.Abs(dj)), nil
}
