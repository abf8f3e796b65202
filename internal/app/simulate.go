package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/ulmotion/internal/accl"
	"github.com/relabs-tech/ulmotion/internal/config"
	"github.com/relabs-tech/ulmotion/internal/movements"
)

// limbStream replays a synthetic acceleration session of one limb.
// Gravity sits on the z axis so the forearm reads a near-zero
// (functional) pitch, and the generated movement bursts ride on y.
type limbStream struct {
	limb  string
	topic string
	burst []float64 // movement acceleration, g
	seq   uint64
	pos   int
}

// next returns the following sample of the looping session.
func (s *limbStream) next() accl.Sample {
	sample := accl.Sample{
		Limb: s.limb,
		Seq:  s.seq,
		X:    0,
		Y:    s.burst[s.pos],
		Z:    1,
	}
	s.seq++
	s.pos = (s.pos + 1) % len(s.burst)
	return sample
}

// synthBurst draws n random submovements, composes their velocity
// profile and differentiates it into an acceleration burst train.
func synthBurst(rng *rand.Rand, n int, amp float64, total, fs float64) ([]float64, error) {
	cfg := movements.RandomConfig{
		Amp:   movements.Range{Min: 0.5 * amp, Max: amp},
		Onset: movements.Range{Min: 0, Max: total - 1.5},
		Dur:   movements.Range{Min: 0.5, Max: 1.5},
	}
	_, subs, err := movements.Random(rng, n, cfg, movements.MinJerkShape, fs)
	if err != nil {
		return nil, err
	}
	// Recompose on the full session grid so the stream loops cleanly.
	v, err := movements.Compose(subs, movements.MinJerkShape, fs, total)
	if err != nil {
		return nil, err
	}

	acc := make([]float64, len(v))
	for i := 1; i < len(v); i++ {
		acc[i] = (v[i] - v[i-1]) * fs
	}
	return acc, nil
}

// RunSimulator publishes a deterministic synthetic two-limb
// acceleration stream. The right limb moves more and harder than the
// left so the laterality measures have something to report.
func RunSimulator(seed int64) error {
	log.Printf("starting ulmotion simulator, seed %d", seed)

	cfg := config.Get()
	rng := rand.New(rand.NewSource(seed))

	// One buffer-length session per limb, looped forever.
	right, err := synthBurst(rng, 12, 0.6, cfg.BufferDur, cfg.SamplingFreq)
	if err != nil {
		return fmt.Errorf("right limb session: %w", err)
	}
	left, err := synthBurst(rng, 5, 0.4, cfg.BufferDur, cfg.SamplingFreq)
	if err != nil {
		return fmt.Errorf("left limb session: %w", err)
	}

	streams := []*limbStream{
		{limb: accl.Right, topic: cfg.TopicAcclRight, burst: right},
		{limb: accl.Left, topic: cfg.TopicAcclLeft, burst: left},
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDSimulator)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	interval := time.Duration(float64(time.Second) / cfg.SamplingFreq)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		for _, s := range streams {
			sample := s.next()
			payload, err := json.Marshal(sample)
			if err != nil {
				log.Printf("json marshal error: %v", err)
				continue
			}
			token := client.Publish(s.topic, 0, false, payload)
			token.Wait()
			if token.Error() != nil {
				log.Printf("MQTT publish error (%s): %v", s.topic, token.Error())
			}
		}
	}
	return nil
}
