package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const Version = "1.0.0"

type HealthHandler struct {
	DB        *sql.DB
	RabbitMQ  *amqp091.Connection
	Store     string
	StartTime time.Time
	Log       logrus.FieldLogger
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler accepts nil for dependencies that are not configured.
// store names the lead store backend ("postgres", "pgx" or "memory").
func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection, store string, log logrus.FieldLogger) *HealthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		Store:     store,
		StartTime: time.Now(),
		Log:       log,
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.Log.WithError(err).Warn("health check: database ping failed")
			deps["database"] = "unhealthy"
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			h.Log.Warn("health check: rabbitmq connection closed")
			deps["rabbitmq"] = "unhealthy"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.Store != "" {
		deps["lead_store"] = h.Store
	}

	status := "healthy"
	for k, v := range deps {
		if k == "lead_store" {
			continue
		}
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
