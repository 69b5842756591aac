package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MessageHandler is invoked for each message received on a subscribed topic.
type MessageHandler func(topic string, payload []byte)

// Client wraps the paho MQTT client with automatic reconnection and
// subscription replay.
type Client struct {
	client pahomqtt.Client
	cfg    Config
	topics Topics
	logger Logger

	mu            sync.RWMutex
	subscriptions map[string]MessageHandler
}

// New creates an MQTT client. The connection is established by Connect.
func New(cfg Config, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:           cfg,
		logger:        logger,
		subscriptions: make(map[string]MessageHandler),
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.brokerURL()).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(cfg.InitialReconnectDelay).
		SetMaxReconnectInterval(cfg.MaxReconnectDelay).
		SetOrderMatters(true).
		SetCleanSession(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	// Last will marks the service offline if the connection drops
	// without a clean disconnect.
	opts.SetWill(c.topics.SystemStatus(), `{"status":"offline"}`, cfg.QoS, true)

	opts.SetOnConnectHandler(func(pahomqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.brokerURL())
		c.publishStatus("online")
		c.resubscribe()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = pahomqtt.NewClient(opts)
	return c
}

// Connect establishes the broker connection, blocking until connected
// or the context expires.
func (c *Client) Connect(ctx context.Context) error {
	token := c.client.Connect()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrConnectTimeout, ctx.Err())
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: connecting to broker: %w", err)
	}
	return nil
}

// Disconnect publishes an offline status and closes the connection.
func (c *Client) Disconnect() {
	if c.client.IsConnected() {
		c.publishStatus("offline")
	}
	c.client.Disconnect(250)
	c.logger.Info("mqtt disconnected")
}

// IsConnected reports whether the client currently has a broker connection.
func (c *Client) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// HealthCheck verifies broker connectivity.
func (c *Client) HealthCheck(context.Context) error {
	if !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	return nil
}

func (c *Client) publishStatus(status string) {
	payload := fmt.Sprintf(`{"status":%q,"timestamp":%q}`, status, time.Now().UTC().Format(time.RFC3339))
	c.client.Publish(c.topics.SystemStatus(), c.cfg.QoS, true, payload)
}

// resubscribe replays all registered subscriptions after a reconnect.
func (c *Client) resubscribe() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for topic, handler := range c.subscriptions {
		h := handler
		token := c.client.Subscribe(topic, c.cfg.QoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
			h(msg.Topic(), msg.Payload())
		})
		if ok := token.WaitTimeout(5 * time.Second); !ok || token.Error() != nil {
			c.logger.Error("mqtt resubscribe failed", "topic", topic, "error", token.Error())
		} else {
			c.logger.Debug("mqtt resubscribed", "topic", topic)
		}
	}
}
