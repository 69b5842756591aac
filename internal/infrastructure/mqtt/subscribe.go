package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const subscribeTimeout = 5 * time.Second

// Subscribe registers a handler for a topic filter. The subscription is
// replayed automatically after reconnects.
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	c.mu.Lock()
	c.subscriptions[topic] = handler
	c.mu.Unlock()

	if !c.client.IsConnectionOpen() {
		// Registered now, subscribed on connect.
		return nil
	}

	token := c.client.Subscribe(topic, c.cfg.QoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if ok := token.WaitTimeout(subscribeTimeout); !ok {
		return fmt.Errorf("%w: topic %s", ErrSubscribeTimeout, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribing to %s: %w", topic, err)
	}

	c.logger.Debug("mqtt subscribed", "topic", topic)
	return nil
}

// Unsubscribe removes the handler for a topic filter.
func (c *Client) Unsubscribe(topic string) error {
	c.mu.Lock()
	delete(c.subscriptions, topic)
	c.mu.Unlock()

	if !c.client.IsConnectionOpen() {
		return nil
	}

	token := c.client.Unsubscribe(topic)
	if ok := token.WaitTimeout(subscribeTimeout); !ok {
		return fmt.Errorf("%w: topic %s", ErrSubscribeTimeout, topic)
	}
	return token.Error()
}
