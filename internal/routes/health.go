package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"equipment-logbook/internal/utils"
)

// Pinger is the database check behind /health.
type Pinger interface {
	Ping(ctx context.Context) error
	GetSchemaVersion(ctx context.Context) (int, error)
}

func Health(r gin.IRouter, db Pinger) {
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		res := gin.H{
			"status":  "ok",
			"version": utils.GetVersion(),
		}
		if err := db.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			res["status"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, res)
			return
		}
		if v, err := db.GetSchemaVersion(ctx); err == nil {
			res["schema"] = v
		}
		c.JSON(http.StatusOK, res)
	})
}
