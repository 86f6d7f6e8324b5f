package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	appservice "agentreg/internal/application/service"
	appstore "agentreg/internal/application/store"
	"agentreg/internal/blob"
	docservice "agentreg/internal/documents/service"
	docstore "agentreg/internal/documents/store"
	httpapi "agentreg/internal/http"
	"agentreg/internal/naming"
	"agentreg/internal/notification"
	payservice "agentreg/internal/payment/service"
	paystore "agentreg/internal/payment/store"
	"agentreg/internal/platform/config"
	"agentreg/internal/platform/kafka"
	"agentreg/internal/platform/postgres"
	"agentreg/internal/platform/redis"
	resumeservice "agentreg/internal/resume/service"
	resumestore "agentreg/internal/resume/store"
)

// infra holds the backing services and the stores built on them. Every
// store falls back to its in-memory variant when its backend is not
// configured, so a bare `go run` serves a working API.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
	topic string

	apps     appservice.Store
	docs     docservice.Store
	names    *naming.Generator
	codes    resumeservice.Store
	payments payservice.Store
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{topic: cfg.Kafka.Topic}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		in.db = db
		in.apps = appstore.NewPostgres(db, cfg.Database.TxTimeout)
		in.docs = docstore.NewPostgres(db, cfg.Database.TxTimeout)
		in.names = naming.New(naming.NewPostgres(db))
		in.payments = paystore.NewPostgres(db, cfg.Database.TxTimeout)
	} else {
		log.Warn("DATABASE_URL not set; using in-memory stores")
		in.apps = appstore.NewInMemory()
		in.docs = docstore.NewInMemory()
		in.names = naming.New(naming.NewInMemoryStore())
		in.payments = paystore.NewInMemory()
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	if rc != nil {
		in.redis = rc
		in.codes = resumestore.NewRedis(rc.Client)
	} else {
		in.codes = resumestore.NewInMemory()
	}

	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.kafka = kc

	return in, nil
}

func (in *infra) notifier(log *slog.Logger) notification.Notifier {
	if in.kafka != nil {
		return notification.NewKafkaNotifier(in.kafka, in.topic)
	}
	return notification.NewLogNotifier(log)
}

func (in *infra) blobs(cfg config.Config) docservice.BlobFetcher {
	if cfg.Blob.Dir != "" {
		return blob.NewDirStore(cfg.Blob.Dir, cfg.Rules.MaxUploadBytes)
	}
	return blob.NewInMemory()
}

func (in *infra) healthChecks() []httpapi.HealthCheck {
	var checks []httpapi.HealthCheck
	if in.db != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "postgres", Check: in.db.PingContext})
	}
	if in.redis != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "redis", Check: in.redis.Health})
	}
	if in.kafka != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "kafka", Check: in.kafka.Ping})
	}
	return checks
}

func (in *infra) storageMode() string {
	if in.db != nil {
		return "postgres"
	}
	return "memory"
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}
