package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ulmotion_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "MQTT_BROKER=tcp://localhost:1883\n"))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, 50.0, cfg.SamplingFreq)
	assert.Equal(t, "ulmotion/measures", cfg.TopicMeasures)
	assert.Equal(t, 30.0, cfg.PitchRange)
	assert.True(t, cfg.ElbowToForearm)
}

func TestLoadParsesValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
# test config
MQTT_BROKER=tcp://broker:1883
SAMPLING_FREQ=100
FOREARM_AXIS=2
ELBOW_TO_FOREARM=false
COUNTS_LOW=0.02
COUNTS_HIGH=0.08
WINDOW_DUR=10
WINDOW_SHIFT=2
PERCENTILE_Q=75
`))
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.SamplingFreq)
	assert.Equal(t, 2, cfg.ForearmAxis)
	assert.False(t, cfg.ElbowToForearm)
	assert.Equal(t, 0.02, cfg.CountsLow)
	assert.Equal(t, 75.0, cfg.PercentileQ)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	for name, content := range map[string]string{
		"missing broker":      "SAMPLING_FREQ=50\n",
		"unknown key":         "MQTT_BROKER=x\nNOPE=1\n",
		"malformed line":      "MQTT_BROKER=x\njust-some-text\n",
		"inverted thresholds": "MQTT_BROKER=x\nCOUNTS_LOW=1\nCOUNTS_HIGH=0.5\n",
		"bad axis":            "MQTT_BROKER=x\nFOREARM_AXIS=5\n",
		"bad percentile":      "MQTT_BROKER=x\nPERCENTILE_Q=140\n",
		"window over buffer":  "MQTT_BROKER=x\nWINDOW_DUR=120\n",
	} {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, name)
	}
}
