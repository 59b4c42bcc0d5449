package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"parceldesk/api/internal/config"
	"parceldesk/api/internal/handler"
	"parceldesk/api/internal/middleware"
	"parceldesk/api/internal/model"
	"parceldesk/api/internal/service"
	"parceldesk/api/internal/store"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	db        *gorm.DB
	redis     *redis.Client
	nats      *nats.Conn
	syncHub   *handler.SyncHub
	wsHandler *handler.WSHandler
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) *Server {
	return &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		nats:   natsConn,
	}
}

// newCoordinator wires one entity kind end to end: upstream client,
// redis snapshot, NATS events and the audit trail.
func newCoordinator[T model.Record](s *Server, kind string, audit *service.AuditService) *store.Coordinator[T] {
	remote := store.NewRemoteClient[T](s.config.RemoteAPIURL, kind, s.config.RemoteTimeout)
	local := store.NewRedisSnapshot[T](s.redis, kind)
	coord := store.NewCoordinator[T](kind, remote, local)
	coord.SetPublisher(s.nats)
	coord.SetAuditSink(audit)
	return coord
}

// Setup initializes routes and handlers
func (s *Server) Setup() {
	// Initialize WebSocket hub first (handlers publish into it via NATS)
	s.syncHub = handler.NewSyncHub(s.nats)
	s.wsHandler = handler.NewWSHandler(s.syncHub)

	// Initialize services
	auditService := service.NewAuditService(s.db)

	locationCoord := newCoordinator[*model.Location](s, "locations", auditService)
	zoneCoord := newCoordinator[*model.Zone](s, "zones", auditService)
	shippingRateCoord := newCoordinator[*model.ShippingRate](s, "shipping-rates", auditService)
	pickupRateCoord := newCoordinator[*model.PickupRate](s, "pickup-rates", auditService)
	userCoord := newCoordinator[*model.User](s, "users", auditService)
	shipmentCoord := newCoordinator[*model.Shipment](s, "shipments", auditService)

	locationService := service.NewLocationService(locationCoord)
	importer := service.NewLocationImporter(locationCoord)
	zoneService := service.NewZoneService(zoneCoord)
	rateService := service.NewRateService(shippingRateCoord, pickupRateCoord)
	userService := service.NewUserService(userCoord)
	invoiceService := service.NewInvoiceService(shipmentCoord)

	// Initialize handlers
	locationHandler := handler.NewLocationHandler(locationService, importer)
	zoneHandler := handler.NewZoneHandler(zoneService)
	rateHandler := handler.NewRateHandler(rateService, s.config.VolumetricDivisor)
	userHandler := handler.NewUserHandler(userService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	shipmentHandler := handler.NewShipmentHandler(shipmentCoord, s.config.VolumetricDivisor)
	auditHandler := handler.NewAuditHandler(auditService)

	// Start WebSocket hub in background
	go s.syncHub.Run()
	log.Println("[Server] Sync hub started")

	// Setup Gin router
	s.router = gin.Default()

	// CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Swagger UI
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WebSocket routes
	s.router.GET("/ws/sync", s.wsHandler.HandleSync)
	s.router.GET("/ws/stats", s.wsHandler.GetStats)

	// API routes
	api := s.router.Group("/api/v1")
	if s.config.RateLimit.Enabled {
		limiter := middleware.NewRedisRateLimiter(s.redis)
		api.Use(middleware.RateLimit(limiter, &middleware.RateLimitConfig{
			Limit:  s.config.RateLimit.Limit,
			Window: s.config.RateLimit.Window,
		}))
	}
	{
		locationHandler.RegisterRoutes(api)
		zoneHandler.RegisterRoutes(api)
		rateHandler.RegisterRoutes(api)
		userHandler.RegisterRoutes(api)
		invoiceHandler.RegisterRoutes(api)
		shipmentHandler.RegisterRoutes(api)
		auditHandler.RegisterRoutes(api)
	}
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("[Server] HTTP server listening on %s", addr)
	return s.router.Run(addr)
}

// GetRouter returns the gin router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() {
	if s.syncHub != nil {
		s.syncHub.Stop()
		log.Println("[Server] Sync hub stopped")
	}
}
