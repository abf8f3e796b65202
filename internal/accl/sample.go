package accl

// Limb identifiers used in wire payloads and topics.
const (
	Left  = "left"
	Right = "right"
)

// Sample is a single raw tri-axial wrist acceleration sample.
type Sample struct {
	Limb string  `json:"limb"` // "left" or "right"
	Seq  uint64  `json:"seq"`  // per-limb sequence number
	X    float64 `json:"x"`    // g
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// Vec returns the sample as an axis-indexed vector.
func (s Sample) Vec() [3]float64 {
	return [3]float64{s.X, s.Y, s.Z}
}

// LimbSummary holds the single-limb measures of one evaluation.
type LimbSummary struct {
	AvgUse       float64 `json:"avg_use"`       // fraction of window in use
	AvgIntensity float64 `json:"avg_intensity"` // mean intensity while in use
	Activity     float64 `json:"activity"`      // Hq of the average activity
}

// Summary is one published measure evaluation over the buffered session.
// Undefined measures (laterality with both limbs idle, relative use with
// both percentiles zero) are nil rather than NaN, which JSON cannot
// carry.
type Summary struct {
	Session string `json:"session"`
	Time    string `json:"time"`
	Samples int    `json:"samples"` // per limb

	Right LimbSummary `json:"right"`
	Left  LimbSummary `json:"left"`

	Laterality  *float64 `json:"laterality,omitempty"`
	RelativeUse *float64 `json:"relative_use,omitempty"`
	Dominance   *float64 `json:"dominance,omitempty"`
}
