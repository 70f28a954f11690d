package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/config"
	"github.com/vovakirdan/msgboard/internal/feed"
	"github.com/vovakirdan/msgboard/internal/proto"
	"github.com/vovakirdan/msgboard/internal/store"
)

// FeedHub publishes committed collection changes and hands out live subscribers.
type FeedHub interface {
	Publish(ev proto.FeedEvent)
	Subscribe() *feed.Subscriber
	Unsubscribe(sub *feed.Subscriber)
}

const feedPath = "/api/feed"

// NewServer builds the HTTP server exposing the message collection.
func NewServer(st store.MessageStore, hub FeedHub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	metrics := newMetrics()
	limiter := newIPRateLimiter(cfg.RateLimitPerMinute)

	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggerMiddleware(logger),
		metrics.Middleware(),
		CORSMiddleware(cfg.CORSOrigin),
		RateLimitMiddleware(limiter, logger),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, proto.ErrorResponse{Error: "Recurso no encontrado"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(stdhttp.StatusMethodNotAllowed, proto.ErrorResponse{Error: "Método no permitido"})
	})

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	messageHandlers := NewMessageHandlers(st, hub, logger)
	api := router.Group("/api")
	{
		api.GET("/messages", messageHandlers.ListMessages)
		api.POST("/messages", messageHandlers.CreateMessage)
		api.GET("/messages/:id", messageHandlers.GetMessage)
		api.PUT("/messages/:id", messageHandlers.UpdateMessage)
		api.DELETE("/messages/:id", messageHandlers.DeleteMessage)
	}

	// The feed bypasses gin: its response writer refuses to hijack once the
	// 101 status is written.
	mux := stdhttp.NewServeMux()
	mux.Handle(feedPath, FeedMiddleware(NewFeedHandler(hub, logger), cfg.CORSOrigin, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
