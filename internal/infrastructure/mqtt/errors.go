package mqtt

import "errors"

var (
	// ErrNotConnected indicates the client is not connected to the broker.
	ErrNotConnected = errors.New("mqtt: not connected to broker")

	// ErrConnectTimeout indicates the initial connection attempt timed out.
	ErrConnectTimeout = errors.New("mqtt: connection timeout")

	// ErrPublishTimeout indicates a publish was not acknowledged in time.
	ErrPublishTimeout = errors.New("mqtt: publish timeout")

	// ErrSubscribeTimeout indicates a subscribe was not acknowledged in time.
	ErrSubscribeTimeout = errors.New("mqtt: subscribe timeout")
)
