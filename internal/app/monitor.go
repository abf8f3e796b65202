package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/relabs-tech/ulmotion/internal/accl"
	"github.com/relabs-tech/ulmotion/internal/config"
	"github.com/relabs-tech/ulmotion/internal/measures"
	"github.com/relabs-tech/ulmotion/internal/timeseries"
	"github.com/relabs-tech/ulmotion/internal/ulint"
	"github.com/relabs-tech/ulmotion/internal/uluse"
)

// sampleBuffer keeps the most recent raw samples of one limb.
type sampleBuffer struct {
	mu   sync.Mutex
	data [][3]float64
	max  int
}

func newSampleBuffer(max int) *sampleBuffer {
	return &sampleBuffer{max: max}
}

func (b *sampleBuffer) push(v [3]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, v)
	if len(b.data) > b.max {
		b.data = b.data[len(b.data)-b.max:]
	}
}

func (b *sampleBuffer) snapshot() [][3]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][3]float64, len(b.data))
	copy(out, b.data)
	return out
}

// fptr converts a possibly-undefined measure into a JSON-safe pointer.
func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}

// evaluate runs the full measure pipeline over equal-length buffered
// sessions of the two limbs. The per-limb fields report the most recent
// averaging window; the activity and relative-use scores summarize all
// windows in the buffer.
func evaluate(right, left [][3]float64, cfg *config.Config) (accl.Summary, error) {
	if len(right) != len(left) {
		n := len(right)
		if len(left) < n {
			n = len(left)
		}
		// Trim to the common most-recent span.
		right = right[len(right)-n:]
		left = left[len(left)-n:]
	}

	w := timeseries.Window{Dur: cfg.WindowDur, Shift: cfg.WindowShift}
	opts := uluse.GMACOptions{
		ForearmAxis:    cfg.ForearmAxis,
		ElbowToForearm: cfg.ElbowToForearm,
		CountsLow:      cfg.CountsLow,
		CountsHigh:     cfg.CountsHigh,
		PitchRange:     cfg.PitchRange,
	}

	type limb struct {
		sum       accl.LimbSummary
		intensity []float64
		activity  []float64
	}
	eval := func(acc [][3]float64) (limb, error) {
		res, err := uluse.GMAC(acc, cfg.SamplingFreq, opts)
		if err != nil {
			return limb{}, fmt.Errorf("use detection: %w", err)
		}
		_, intensity, err := ulint.FromVectorMagnitude(res.Magnitude, res.Use, 1, nil)
		if err != nil {
			return limb{}, fmt.Errorf("intensity: %w", err)
		}
		_, avgUse, err := uluse.AverageUse(res.Use, cfg.SamplingFreq, w)
		if err != nil {
			return limb{}, fmt.Errorf("average use: %w", err)
		}
		_, avgInt, err := ulint.AverageIntensity(intensity, res.Use, cfg.SamplingFreq, w)
		if err != nil {
			return limb{}, fmt.Errorf("average intensity: %w", err)
		}
		_, activity, err := measures.AverageActivity(intensity, cfg.SamplingFreq, w)
		if err != nil {
			return limb{}, fmt.Errorf("average activity: %w", err)
		}
		hq, err := measures.Hq(activity, cfg.PercentileQ)
		if err != nil {
			return limb{}, fmt.Errorf("activity score: %w", err)
		}
		return limb{
			sum: accl.LimbSummary{
				AvgUse:       last(avgUse),
				AvgIntensity: last(avgInt),
				Activity:     hq,
			},
			intensity: intensity,
			activity:  activity,
		}, nil
	}

	r, err := eval(right)
	if err != nil {
		return accl.Summary{}, fmt.Errorf("right limb: %w", err)
	}
	l, err := eval(left)
	if err != nil {
		return accl.Summary{}, fmt.Errorf("left limb: %w", err)
	}

	rq, dom, err := measures.Rq(r.activity, l.activity, cfg.PercentileQ)
	if err != nil {
		return accl.Summary{}, fmt.Errorf("relative use: %w", err)
	}
	lat, err := measures.LateralityIndex(r.intensity, l.intensity)
	if err != nil {
		return accl.Summary{}, fmt.Errorf("laterality: %w", err)
	}
	_, avgLat, err := measures.AverageLaterality(lat, cfg.SamplingFreq, w)
	if err != nil {
		return accl.Summary{}, fmt.Errorf("average laterality: %w", err)
	}

	return accl.Summary{
		Time:        time.Now().Format(time.RFC3339),
		Samples:     len(right),
		Right:       r.sum,
		Left:        l.sum,
		Laterality:  fptr(last(avgLat)),
		RelativeUse: fptr(rq),
		Dominance:   fptr(dom),
	}, nil
}

// RunMonitor subscribes to the raw two-limb acceleration topics, buffers
// the samples, and periodically publishes the computed use, intensity,
// activity and laterality measures.
func RunMonitor() error {
	log.Println("starting ulmotion measure monitor")

	cfg := config.Get()
	session := uuid.NewString()
	log.Printf("monitor session %s", session)

	nbuf := int(cfg.BufferDur * cfg.SamplingFreq)
	rightBuf := newSampleBuffer(nbuf)
	leftBuf := newSampleBuffer(nbuf)

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMonitor)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)

	subscribe := func(topic string, buf *sampleBuffer) error {
		token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var s accl.Sample
			if err := json.Unmarshal(msg.Payload(), &s); err != nil {
				log.Printf("MQTT payload unmarshal error (%s): %v", topic, err)
				return
			}
			buf.push(s.Vec())
		})
		token.Wait()
		return token.Error()
	}
	if err := subscribe(cfg.TopicAcclLeft, leftBuf); err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.TopicAcclLeft, err)
	}
	if err := subscribe(cfg.TopicAcclRight, rightBuf); err != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.TopicAcclRight, err)
	}
	log.Printf("subscribed to %s and %s", cfg.TopicAcclLeft, cfg.TopicAcclRight)

	// Samples needed before the first averaging window fits.
	minSamples := int(cfg.WindowDur * cfg.SamplingFreq)

	ticker := time.NewTicker(time.Duration(cfg.EvalInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		right := rightBuf.snapshot()
		left := leftBuf.snapshot()
		if len(right) < minSamples || len(left) < minSamples {
			log.Printf("waiting for samples: right=%d left=%d need=%d", len(right), len(left), minSamples)
			continue
		}

		summary, err := evaluate(right, left, cfg)
		if err != nil {
			log.Printf("evaluation error: %v", err)
			continue
		}
		summary.Session = session

		payload, err := json.Marshal(summary)
		if err != nil {
			log.Printf("json marshal error (summary): %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicMeasures, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (measures): %v", token.Error())
			continue
		}

		log.Printf("%s tick: right use=%.2f int=%.3f act=%.3f | left use=%.2f int=%.3f act=%.3f | samples=%d",
			t.Format(time.RFC3339),
			summary.Right.AvgUse, summary.Right.AvgIntensity, summary.Right.Activity,
			summary.Left.AvgUse, summary.Left.AvgIntensity, summary.Left.Activity,
			summary.Samples,
		)
	}
	return nil
}
