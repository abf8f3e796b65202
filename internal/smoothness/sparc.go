package smoothness

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SparcOptions configures the spectral arc length. Zero values select the
// reference defaults.
type SparcOptions struct {
	// PadLevel zero-pads the FFT to 2^(ceil(log2 N) + PadLevel) points.
	PadLevel int
	// MaxCutoff bounds the adaptive cutoff frequency (Hz).
	MaxCutoff float64
	// AmpThreshold is the normalized spectral amplitude below which the
	// tail of the spectrum is considered noise.
	AmpThreshold float64
	// RemoveMean subtracts the profile mean before the transform.
	RemoveMean bool
}

const (
	defaultPadLevel     = 4
	defaultMaxCutoff    = 10.0
	defaultAmpThreshold = 0.05
)

func (o *SparcOptions) setDefaults() {
	if o.PadLevel == 0 {
		o.PadLevel = defaultPadLevel
	}
	if o.MaxCutoff == 0 {
		o.MaxCutoff = defaultMaxCutoff
	}
	if o.AmpThreshold == 0 {
		o.AmpThreshold = defaultAmpThreshold
	}
}

// Spectrum is a one-sided magnitude spectrum.
type Spectrum struct {
	Freq []float64 // Hz
	Mag  []float64 // normalized magnitude
}

// SparcResult carries the spectral arc length together with the full
// normalized spectrum and the sub-spectrum the arc length was measured
// on, for diagnostic consumers.
type SparcResult struct {
	Value    float64
	Spectrum Spectrum
	Selected Spectrum
}

// Sparc computes the spectral arc length of a movement profile: the arc
// length of the normalized magnitude spectrum up to an adaptive cutoff
// frequency. Smoother movements have more compact spectra and score
// closer to zero; the measure is always negative.
//
// The cutoff is the smaller of MaxCutoff and the first frequency after
// the last point, scanning backward from the top of the spectrum, whose
// normalized magnitude still reaches AmpThreshold. If the backward scan
// finds no qualifying frequency the cutoff falls back to MaxCutoff.
func Sparc(profile []float64, fs float64, opts SparcOptions) (SparcResult, error) {
	opts.setDefaults()
	if len(profile) < 2 {
		return SparcResult{}, fmt.Errorf("profile of %d samples is too short", len(profile))
	}
	if fs <= 0 {
		return SparcResult{}, fmt.Errorf("sampling frequency must be positive, got %g", fs)
	}
	if opts.MaxCutoff <= 0 {
		return SparcResult{}, fmt.Errorf("max cutoff must be positive, got %g", opts.MaxCutoff)
	}
	if opts.AmpThreshold <= 0 || opts.AmpThreshold >= 1 {
		return SparcResult{}, fmt.Errorf("amplitude threshold must be in (0, 1), got %g", opts.AmpThreshold)
	}

	m := make([]float64, len(profile))
	copy(m, profile)
	if opts.RemoveMean {
		floats.AddConst(-stat.Mean(m, nil), m)
	}

	nfft := 1 << (int(math.Ceil(math.Log2(float64(len(m))))) + opts.PadLevel)
	padded := make([]float64, nfft)
	copy(padded, m)

	coeffs := fourier.NewFFT(nfft).Coefficients(nil, padded)
	freq := make([]float64, len(coeffs))
	mag := make([]float64, len(coeffs))
	var peak float64
	for i, c := range coeffs {
		freq[i] = fs * float64(i) / float64(nfft)
		mag[i] = cmplx.Abs(c)
		peak = math.Max(peak, mag[i])
	}
	if peak == 0 {
		return SparcResult{}, fmt.Errorf("profile has an empty spectrum")
	}
	// Normalize by the DC magnitude (the spectral peak for the
	// non-negative profiles this measure is defined on).
	for i := range mag {
		mag[i] /= peak
	}

	// Backward pass: the last bin still above threshold; the cutoff is
	// the bin after it. The forward formulation would stop at the first
	// dip below threshold, which is not the intended semantics.
	cutoff := opts.MaxCutoff
	for k := len(mag) - 1; k >= 0; k-- {
		if mag[k] >= opts.AmpThreshold {
			next := k + 1
			if next > len(mag)-1 {
				next = len(mag) - 1
			}
			cutoff = math.Min(freq[next], opts.MaxCutoff)
			break
		}
	}

	sel := 0
	for sel < len(freq) && freq[sel] <= cutoff {
		sel++
	}
	if sel < 2 {
		sel = 2 // arc length needs at least one segment
	}
	fsel, msel := freq[:sel], mag[:sel]

	band := fsel[len(fsel)-1] - fsel[0]
	var arc float64
	for i := 0; i < len(fsel)-1; i++ {
		df := (fsel[i+1] - fsel[i]) / band
		dm := msel[i+1] - msel[i]
		arc += math.Sqrt(df*df + dm*dm)
	}

	return SparcResult{
		Value:    -arc,
		Spectrum: Spectrum{Freq: freq, Mag: mag},
		Selected: Spectrum{Freq: fsel, Mag: msel},
	}, nil
}
