package influxdb

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds InfluxDB connection settings.
type Config struct {
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     uint
	FlushInterval time.Duration
}

// Client writes template lifecycle audit points to InfluxDB using the
// non-blocking write API. Write failures never propagate to callers;
// they are logged and the point is dropped.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   Logger
	done     chan struct{}
}

// New creates an InfluxDB client and starts draining its error channel.
func New(cfg Config, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}

	opts := influxdb2.DefaultOptions()
	if cfg.BatchSize > 0 {
		opts = opts.SetBatchSize(cfg.BatchSize)
	}
	if cfg.FlushInterval > 0 {
		opts = opts.SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	c := &Client{
		client:   client,
		writeAPI: writeAPI,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		for err := range writeAPI.Errors() {
			logger.Error("influxdb write failed", "error", err)
		}
	}()

	return c
}

// HealthCheck verifies InfluxDB is reachable and healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	health, err := c.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	if health.Status != "pass" {
		return fmt.Errorf("influxdb unhealthy: %s", health.Status)
	}
	return nil
}

// Close flushes pending writes and releases the client.
func (c *Client) Close() {
	c.writeAPI.Flush()
	c.client.Close()
	<-c.done
}
