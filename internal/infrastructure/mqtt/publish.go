package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const publishTimeout = 5 * time.Second

// Publish sends a payload to the given topic at the configured QoS,
// waiting for broker acknowledgement.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	if !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, c.cfg.QoS, false, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if ok := token.WaitTimeout(timeout); !ok {
		return fmt.Errorf("%w: topic %s", ErrPublishTimeout, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publishing to %s: %w", topic, err)
	}

	c.logger.Debug("mqtt published", "topic", topic, "bytes", len(payload))
	return nil
}

// PublishJSON marshals v to JSON and publishes it to the given topic.
func (c *Client) PublishJSON(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mqtt: encoding payload for %s: %w", topic, err)
	}
	return c.Publish(ctx, topic, payload)
}
