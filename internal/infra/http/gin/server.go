package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rentcal/internal/infra/config"
	"rentcal/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Check(c *gin.Context)
	Calendar(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
}

type RulesHTTP interface {
	Add(c *gin.Context)
	Remove(c *gin.Context)
}

type StreamHTTP interface {
	Stream(c *gin.Context)
}

type Handlers struct {
	Availability AvailabilityHTTP
	Booking      BookingHTTP
	Rules        RulesHTTP
	Stream       StreamHTTP
	// RateLimit guards the mutating routes when set.
	RateLimit gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.CORSOrigins, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(origins []string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(corsConfig(origins)))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	props := router.Group("/api/v1/properties/:id")
	mutating := []gin.HandlerFunc{}
	if h.RateLimit != nil {
		mutating = append(mutating, h.RateLimit)
	}
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutating...), fn)
	}

	if h.Availability != nil {
		props.GET("/availability", h.Availability.Check)
		props.GET("/calendar", h.Availability.Calendar)
	}
	if h.Booking != nil {
		props.POST("/bookings", with(h.Booking.Create)...)
		props.POST("/bookings/:booking_id/confirm", with(h.Booking.Confirm)...)
		props.POST("/bookings/:booking_id/cancel", with(h.Booking.Cancel)...)
	}
	if h.Rules != nil {
		props.POST("/rules", with(h.Rules.Add)...)
		props.DELETE("/rules/:rule_id", with(h.Rules.Remove)...)
	}
	if h.Stream != nil {
		props.GET("/stream", h.Stream.Stream)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", obs.RequestIDHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
