package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/steamchat/steamchat-server/internal/config"
	"github.com/steamchat/steamchat-server/internal/core"
	"github.com/steamchat/steamchat-server/internal/store"
)

// NewServer builds the HTTP server with the REST and WebSocket routes.
func NewServer(hub *core.Hub, pipeline *core.Pipeline, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), LoggerMiddleware(logger))

	engine.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	limiter := newRateLimiter(cfg.MessageRateLimit)

	rooms := NewRoomHandlers(st, logger)
	messages := NewMessageHandlers(pipeline, st, limiter, logger)

	api := engine.Group("/api")
	api.POST("/rooms", rooms.CreateRoom)
	api.GET("/rooms", rooms.ListRooms)
	api.POST("/rooms/:roomId/messages", messages.PostMessage)
	api.GET("/rooms/:roomId/messages", messages.ListMessages)

	engine.GET("/ws", gin.WrapH(NewWSHandler(hub, pipeline, limiter, cfg.HeartbeatInterval, logger)))

	server := &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	stopReset := make(chan struct{})
	limiter.startReset(stopReset)
	server.RegisterOnShutdown(func() {
		close(stopReset)
	})

	return server
}
