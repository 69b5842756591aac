package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/device-template-core/internal/api"
	"github.com/nerrad567/device-template-core/internal/auth"
	"github.com/nerrad567/device-template-core/internal/infrastructure/config"
	"github.com/nerrad567/device-template-core/internal/infrastructure/database"
	"github.com/nerrad567/device-template-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/device-template-core/internal/infrastructure/logging"
	"github.com/nerrad567/device-template-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/device-template-core/internal/template"
	_ "github.com/nerrad567/device-template-core/migrations"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "templatecore: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("TEMPLATECORE_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: "templatecore",
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	logger.Info("starting device template core", "config", configPath)

	db, err := database.New(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready", "path", db.Path())

	healthChecks := map[string]api.HealthCheck{
		"database": db.HealthCheck,
	}
	var notifiers template.MultiNotifier
	topics := mqtt.Topics{}
	hub := api.NewHub(logger.WithComponent("websocket"))
	defer hub.Close()

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient = mqtt.New(mqtt.Config{
			Host:                  cfg.MQTT.Broker.Host,
			Port:                  cfg.MQTT.Broker.Port,
			TLS:                   cfg.MQTT.Broker.TLS,
			ClientID:              cfg.MQTT.Broker.ClientID,
			Username:              cfg.MQTT.Auth.Username,
			Password:              cfg.MQTT.Auth.Password,
			QoS:                   byte(cfg.MQTT.QoS),
			InitialReconnectDelay: time.Duration(cfg.MQTT.Reconnect.InitialDelay) * time.Second,
			MaxReconnectDelay:     time.Duration(cfg.MQTT.Reconnect.MaxDelay) * time.Second,
		}, logger.WithComponent("mqtt"))

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := mqttClient.Connect(connectCtx)
		cancel()
		if err != nil {
			// The broker may come up after us; the client keeps retrying.
			logger.Warn("mqtt broker unreachable at startup", "error", err)
		}
		defer mqttClient.Disconnect()

		notifiers = append(notifiers, template.NewBusNotifier(mqttClient, topics.TemplateEvent))
		healthChecks["mqtt"] = mqttClient.HealthCheck

		// Relay published events to WebSocket subscribers, tenant-scoped.
		if err := mqttClient.Subscribe(topics.AllTemplateEvents(), func(topic string, payload []byte) {
			if tenant, ok := topics.TenantFromEventTopic(topic); ok {
				hub.Broadcast(tenant, payload)
			}
		}); err != nil {
			logger.Warn("subscribing to template events", "error", err)
		}
	}

	if cfg.InfluxDB.Enabled {
		influxClient := influxdb.New(influxdb.Config{
			URL:           cfg.InfluxDB.URL,
			Token:         cfg.InfluxDB.Token,
			Org:           cfg.InfluxDB.Org,
			Bucket:        cfg.InfluxDB.Bucket,
			BatchSize:     uint(cfg.InfluxDB.BatchSize),
			FlushInterval: time.Duration(cfg.InfluxDB.FlushInterval) * time.Second,
		}, logger.WithComponent("influxdb"))
		defer influxClient.Close()

		notifiers = append(notifiers, &auditNotifier{client: influxClient})
		healthChecks["influxdb"] = influxClient.HealthCheck
	}

	var notifier template.Notifier = template.NoopNotifier{}
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	manager := template.NewManager(
		template.NewSQLiteRepository(db.DB),
		notifier,
		logger.WithComponent("template"),
	)

	authMgr := auth.NewManager(
		cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.AccessTokenTTL)*time.Minute,
	)

	server := api.New(api.Config{
		Host:           cfg.API.Host,
		Port:           cfg.API.Port,
		ReadTimeout:    cfg.GetReadTimeout(),
		WriteTimeout:   cfg.GetWriteTimeout(),
		IdleTimeout:    cfg.GetIdleTimeout(),
		AllowedOrigins: cfg.API.CORS.AllowedOrigins,
		TLSCertFile:    cfg.API.TLS.CertFile,
		TLSKeyFile:     cfg.API.TLS.KeyFile,
	}, api.Deps{
		Manager:      manager,
		Auth:         authMgr,
		Hub:          hub,
		Logger:       logger.WithComponent("api"),
		HealthChecks: healthChecks,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// auditNotifier records lifecycle events as time-series points.
type auditNotifier struct {
	client *influxdb.Client
}

func (n *auditNotifier) Notify(_ context.Context, e template.Event) error {
	n.client.WriteTemplateEvent(e.Tenant, string(e.Event), e.TemplateID, e.Timestamp)
	return nil
}
