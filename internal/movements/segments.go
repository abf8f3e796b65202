package movements

import (
	"fmt"
	"math"
)

// Segment is an inclusive [Start, Stop] sample index range covering one
// movement.
type Segment struct {
	Start, Stop int
}

// SegmentOptions tunes movement segmentation. Zero values select the
// defaults.
type SegmentOptions struct {
	// SpeedThreshold is the fraction of the peak speed below which a
	// sample counts as rest.
	SpeedThreshold float64
	// MinOn drops movement segments shorter than this many seconds.
	MinOn float64
	// MinOff merges movement segments separated by less than this many
	// seconds of rest.
	MinOff float64
	// OnBeforeOff drops short segments before merging short gaps.
	OnBeforeOff bool
	// DurTol extends each segment by this fraction of its duration on
	// both sides, clipped against its neighbours.
	DurTol float64
}

func (o *SegmentOptions) setDefaults() {
	if o.SpeedThreshold == 0 {
		o.SpeedThreshold = 0.05
	}
	if o.MinOn == 0 {
		o.MinOn = 0.1
	}
	if o.MinOff == 0 {
		o.MinOff = 0.1
	}
	if o.DurTol == 0 {
		o.DurTol = 0.1
	}
}

func dropShortOn(segs []Segment, minSamples int) []Segment {
	out := segs[:0]
	for _, s := range segs {
		if s.Stop-s.Start > minSamples {
			out = append(out, s)
		}
	}
	return out
}

func mergeShortOff(segs []Segment, minSamples int) []Segment {
	if len(segs) == 0 {
		return segs
	}
	out := []Segment{segs[0]}
	for _, s := range segs[1:] {
		if s.Start-out[len(out)-1].Stop > minSamples {
			out = append(out, s)
		} else {
			out[len(out)-1].Stop = s.Stop
		}
	}
	return out
}

// Segments finds movement segments in a multi-component velocity series
// (rows are samples, columns are components). A sample is moving when its
// speed exceeds SpeedThreshold times the peak speed; segments shorter
// than MinOn are dropped, gaps shorter than MinOff are merged, and the
// surviving segments are extended by DurTol of their duration without
// overlapping their neighbours.
func Segments(vel [][]float64, dt float64, opts SegmentOptions) ([]Segment, error) {
	opts.setDefaults()
	if len(vel) == 0 {
		return nil, fmt.Errorf("velocity series is empty")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("sampling time must be positive, got %g", dt)
	}
	if opts.SpeedThreshold <= 0 || opts.SpeedThreshold >= 1 {
		return nil, fmt.Errorf("speed threshold must be in (0, 1), got %g", opts.SpeedThreshold)
	}
	if opts.DurTol <= 0 || opts.DurTol >= 1 {
		return nil, fmt.Errorf("duration tolerance must be in (0, 1), got %g", opts.DurTol)
	}

	spd := make([]float64, len(vel))
	var peak float64
	for i, row := range vel {
		var ss float64
		for _, c := range row {
			ss += c * c
		}
		spd[i] = math.Sqrt(ss)
		peak = math.Max(peak, spd[i])
	}

	th := opts.SpeedThreshold * peak
	var segs []Segment
	for i := 0; i < len(spd); i++ {
		if spd[i] <= th {
			continue
		}
		start := i
		for i+1 < len(spd) && spd[i+1] > th {
			i++
		}
		segs = append(segs, Segment{Start: start, Stop: i})
	}

	minOn := int(opts.MinOn / dt)
	minOff := int(opts.MinOff / dt)
	if opts.OnBeforeOff {
		segs = dropShortOn(segs, minOn)
		segs = mergeShortOff(segs, minOff)
	} else {
		segs = mergeShortOff(segs, minOff)
		segs = dropShortOn(segs, minOn)
	}

	// Extend boundaries toward the neighbouring segments.
	out := make([]Segment, len(segs))
	for i, s := range segs {
		prevStop := 0
		if i > 0 {
			prevStop = segs[i-1].Stop
		}
		nextStart := len(spd) - 1
		if i < len(segs)-1 {
			nextStart = segs[i+1].Start
		}
		d := int(opts.DurTol * float64(s.Stop-s.Start))
		out[i] = Segment{
			Start: max(prevStop, s.Start-d),
			Stop:  min(s.Stop+d, nextStart),
		}
	}
	return out, nil
}
