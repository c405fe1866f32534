package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/turn-booking/internal/booking"
	bookingHttp "github.com/nekogravitycat/turn-booking/internal/booking/http"
)

// Config holds what the router needs to assemble middleware and routes.
type Config struct {
	IsProduction   bool
	CORSOrigins    []string
	Logger         *zap.Logger
	BookingService booking.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (Logger, Recovery, CORS) and registering routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Logs request information through zap.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	// Booking forms are served from arbitrary static hosts, so any origin is
	// allowed unless a list is configured.
	config := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		config.AllowOrigins = cfg.CORSOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(config))

	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}
