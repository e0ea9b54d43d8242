package handlers

import (
	"context"
	"errors"
	"time"

	"noteful/internal/clients/mongo"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// HealthzTimeout bounds the database ping.
const HealthzTimeout = 5 * time.Second

var errNoDatabase = errors.New("database not initialized")

// Health is the /healthz body. cmd/ping reads Status and Error.
type Health struct {
	Status     string `json:"status" example:"ok"`
	Database   string `json:"database,omitempty" example:"noteful"`
	ReplicaSet bool   `json:"replicaSet"`
	Error      string `json:"error,omitempty" example:"server selection timeout"`
}

// pingDatabase pings the primary of the connected database and returns its
// name. Replaced in tests.
var pingDatabase = func(ctx context.Context) (string, error) {
	db := mongo.DB()
	if db == nil {
		return "", errNoDatabase
	}
	return db.Name(), db.Client().Ping(ctx, readpref.Primary())
}

// Healthz reports whether MongoDB answers, with 503 while it does not.
// @Summary Health check
// @Description Pings the MongoDB primary; reports the database and whether cascades can run in a transaction
// @Tags health
// @Produce json
// @Success 200 {object} handlers.Health
// @Failure 503 {object} handlers.Health
// @Router /healthz [get]
func Healthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), HealthzTimeout)
	defer cancel()

	name, err := pingDatabase(ctx)
	h := Health{Status: "ok", Database: name, ReplicaSet: mongo.IsReplicaSet()}
	if err != nil {
		h.Status = "down"
		h.Error = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(h)
	}
	return c.JSON(h)
}
