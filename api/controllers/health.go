package controllers

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/greenmarket/greenmarket-backend/api/responses"
	pkgerrors "github.com/greenmarket/greenmarket-backend/pkg/errors"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
	pkgredis "github.com/greenmarket/greenmarket-backend/pkg/redis"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness probes. Readiness checks
// every configured dependency and aggregates their failures.
type HealthController struct {
	db     dbPinger
	cache  pkgredis.Pinger
	logger *logger.Logger
}

func NewHealthController(db dbPinger, cache pkgredis.Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, cache: cache, logger: logg}
}

// Live reports process liveness only.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

// Ready pings the database and, when configured, redis.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	if c.db != nil {
		if pingErr := c.db.Ping(ctx); pingErr != nil {
			err = multierr.Append(err, fmt.Errorf("database: %w", pingErr))
		}
	}
	if c.cache != nil {
		if pingErr := c.cache.Ping(ctx); pingErr != nil {
			err = multierr.Append(err, fmt.Errorf("redis: %w", pingErr))
		}
	}

	if err != nil {
		responses.WriteError(ctx, c.logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
		return
	}

	responses.WriteSuccess(w, map[string]string{"status": "ready"})
}
