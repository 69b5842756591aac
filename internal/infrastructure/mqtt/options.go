package mqtt

import (
	"fmt"
	"time"
)

// Config holds MQTT client connection settings.
type Config struct {
	Host     string
	Port     int
	TLS      bool
	ClientID string
	Username string
	Password string
	QoS      byte

	InitialReconnectDelay time.Duration
	MaxReconnectDelay     time.Duration
}

// withDefaults fills in zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 1883
	}
	if c.ClientID == "" {
		c.ClientID = "templatecore"
	}
	if c.InitialReconnectDelay == 0 {
		c.InitialReconnectDelay = time.Second
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = 60 * time.Second
	}
	return c
}

// brokerURL returns the paho broker URL for the configuration.
func (c Config) brokerURL() string {
	scheme := "tcp"
	if c.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}
