package controllers

import (
	"encoding/json"
	"net/http"

	"Warbler/api/cache"
	"Warbler/api/models"
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const timelineLimit = 100

// Home shows the viewer's timeline, or the latest messages to anonymous
// visitors.
func (server *Server) Home(c *gin.Context) {
	viewerID, loggedIn := httpctx.CurrentUserID(c)
	ctx := c.Request.Context()
	cacheKey := timelineCacheKey(viewerID)

	if cached, err := cache.Get(ctx, cacheKey); err == nil && cached != "" {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	var (
		messages []models.Message
		err      error
	)
	if loggedIn {
		messages, err = models.Timeline(server.DB, viewerID, timelineLimit)
	} else {
		messages, err = models.LatestMessages(server.DB, timelineLimit)
	}
	if err != nil {
		server.internalError(c, err)
		return
	}

	dtos, err := messagesToDTO(server.DB, viewerID, messages)
	if err != nil {
		server.internalError(c, err)
		return
	}

	jsonBytes, err := json.Marshal(gin.H{
		"status":   http.StatusOK,
		"response": gin.H{"messages": dtos},
	})
	if err != nil {
		server.internalError(c, err)
		return
	}

	_ = cache.Set(ctx, cacheKey, jsonBytes, server.Config.Redis.TimelineTTL)
	c.Data(http.StatusOK, "application/json; charset=utf-8", jsonBytes)
}
