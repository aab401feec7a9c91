package controllers

import (
	"context"
	"net/http"
	"time"

	"Warbler/api/cache"
	"Warbler/api/database"

	"github.com/gin-gonic/gin"
)

func (server *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	status := http.StatusOK

	if err := database.Ping(ctx, server.DB); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if cache.Enabled() {
		checks["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	respond(c, status, checks)
}
