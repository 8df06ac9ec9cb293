package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func validConfig() Config {
	return Config{
		Inverter: InverterConfig{
			Host:      "192.168.1.20",
			Port:      80,
			Resources: []string{"power", "energy_today"},
		},
		MQTT: MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "Zeversolar",
			HADiscoveryTopic: "homeassistant",
		},
		MonitorConfig: MonitorConfig{
			PollIntervalMillis: 10000,
		},
	}
}

func TestValidate(t *testing.T) {

	cfg := validConfig()
	assert.NoError(t, Validate(&cfg))
	assert.Equal(t, "zeversolar", cfg.MQTT.BaseTopic, "topics are lower cased")
}

func TestValidateErrors(t *testing.T) {

	cfg := validConfig()
	cfg.Inverter.Host = ""
	assert.Error(t, Validate(&cfg), "missing host")

	cfg = validConfig()
	cfg.Inverter.Port = 70000
	assert.Error(t, Validate(&cfg), "port range")

	cfg = validConfig()
	cfg.MonitorConfig.PollIntervalMillis = 500
	assert.Error(t, Validate(&cfg), "poll interval")

	cfg = validConfig()
	cfg.MQTT.BaseTopic = "zever/solar"
	assert.Error(t, Validate(&cfg), "base topic")

	cfg = validConfig()
	cfg.MQTT.HADiscoveryTopic = ""
	assert.Error(t, Validate(&cfg), "discovery topic")
}

func TestCheckMQTTTopic(t *testing.T) {

	topic, err := CheckMQTTTopic("Home_Assistant2")
	assert.NoError(t, err)
	assert.Equal(t, "home_assistant2", topic)

	_, err = CheckMQTTTopic("a#b")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {

	assert.Equal(t, zapcore.DebugLevel, ParseLogLevel("trace"))
	assert.Equal(t, zapcore.WarnLevel, ParseLogLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLogLevel("bogus"))
}
