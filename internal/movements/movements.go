// Package movements synthesizes discrete-movement velocity profiles for
// testing and benchmarking the smoothness measures: minimum-jerk and
// Gaussian submovements, and seeded composite movements built from them.
package movements

import (
	"fmt"
	"math"
	"math/rand"
)

// Shape selects the submovement velocity profile.
type Shape int

const (
	MinJerkShape Shape = iota
	GaussianShape
)

// Submovement is one unit movement within a composite profile.
type Submovement struct {
	Amp   float64 // peak-velocity parameter
	Onset float64 // seconds
	Dur   float64 // seconds
}

func validateGrid(fs, total float64) (int, error) {
	if fs <= 0 {
		return 0, fmt.Errorf("sampling frequency must be positive, got %g", fs)
	}
	if total <= 0 {
		return 0, fmt.Errorf("total duration must be positive, got %g", total)
	}
	n := int(math.Round(total * fs))
	if n < 1 {
		return 0, fmt.Errorf("total duration %gs is below one sample at %g Hz", total, fs)
	}
	return n, nil
}

func (s Submovement) validate() error {
	if s.Dur <= 0 {
		return fmt.Errorf("submovement duration must be positive, got %g", s.Dur)
	}
	if s.Onset < 0 {
		return fmt.Errorf("submovement onset must be non-negative, got %g", s.Onset)
	}
	return nil
}

// at evaluates the submovement velocity at time t. Outside
// [Onset, Onset+Dur) the velocity is exactly zero.
func (s Submovement) at(t float64, shape Shape) float64 {
	tau := (t - s.Onset) / s.Dur
	if tau < 0 || tau >= 1 {
		return 0
	}
	switch shape {
	case GaussianShape:
		// Bell centred mid-interval, truncated to zero outside the
		// interval; the edge value is amp * exp(-25/4).
		u := 5 * (t - s.Onset - s.Dur/2) / s.Dur
		return s.Amp * math.Exp(-u*u)
	default:
		return s.Amp * (30*tau*tau - 60*tau*tau*tau + 30*tau*tau*tau*tau)
	}
}

// MinJerk samples the minimum-jerk velocity profile
// v(t) = amp * (30 tau^2 - 60 tau^3 + 30 tau^4), tau = (t-onset)/dur,
// over [0, total) at fs. The velocity is zero outside [onset, onset+dur).
func MinJerk(amp, onset, dur, fs, total float64) ([]float64, error) {
	return Compose([]Submovement{{Amp: amp, Onset: onset, Dur: dur}}, MinJerkShape, fs, total)
}

// Gaussian samples a Gaussian velocity profile over [0, total) at fs. The
// bell is centred at onset+dur/2 and truncated to zero outside
// [onset, onset+dur).
func Gaussian(amp, onset, dur, fs, total float64) ([]float64, error) {
	return Compose([]Submovement{{Amp: amp, Onset: onset, Dur: dur}}, GaussianShape, fs, total)
}

// Compose superimposes independently parameterized submovements into one
// velocity profile sampled over [0, total) at fs.
func Compose(subs []Submovement, shape Shape, fs, total float64) ([]float64, error) {
	n, err := validateGrid(fs, total)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("at least one submovement is required")
	}
	for _, s := range subs {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	v := make([]float64, n)
	for i := range v {
		t := float64(i) / fs
		for _, s := range subs {
			v[i] += s.at(t, shape)
		}
	}
	return v, nil
}

// Range is a closed interval to draw random parameters from.
type Range struct {
	Min, Max float64
}

func (r Range) validate(name string) error {
	if r.Min > r.Max || r.Min < 0 {
		return fmt.Errorf("invalid %s range [%g, %g]", name, r.Min, r.Max)
	}
	return nil
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + (r.Max-r.Min)*rng.Float64()
}

// RandomConfig bounds the randomly drawn submovement parameters.
type RandomConfig struct {
	Amp   Range
	Onset Range
	Dur   Range
}

// Random generates a composite movement of n randomly parameterized
// submovements using the caller-supplied random source, so results are
// reproducible under a fixed seed. The profile covers [0, max onset+dur)
// and is returned together with the drawn submovements.
func Random(rng *rand.Rand, n int, cfg RandomConfig, shape Shape, fs float64) ([]float64, []Submovement, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("random source is required")
	}
	if n < 1 {
		return nil, nil, fmt.Errorf("at least one submovement is required, got %d", n)
	}
	if err := cfg.Amp.validate("amplitude"); err != nil {
		return nil, nil, err
	}
	if err := cfg.Onset.validate("onset"); err != nil {
		return nil, nil, err
	}
	if err := cfg.Dur.validate("duration"); err != nil {
		return nil, nil, err
	}
	if cfg.Amp.Max <= 0 || cfg.Dur.Min <= 0 {
		return nil, nil, fmt.Errorf("amplitude and duration ranges must be positive")
	}

	subs := make([]Submovement, n)
	total := 0.0
	for i := range subs {
		subs[i] = Submovement{
			Amp:   cfg.Amp.draw(rng),
			Onset: cfg.Onset.draw(rng),
			Dur:   cfg.Dur.draw(rng),
		}
		total = math.Max(total, subs[i].Onset+subs[i].Dur)
	}

	v, err := Compose(subs, shape, fs, total)
	if err != nil {
		return nil, nil, err
	}
	return v, subs, nil
}
