package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"iot-panel/confs"
	"iot-panel/db"
	"iot-panel/handlers"
	httpHandler "iot-panel/handlers/http"
	"iot-panel/relay"
	"iot-panel/repositories"
	"iot-panel/usecases"
	"iot-panel/ws"
)

type Server struct {
	app *gin.Engine
	db  db.Database
	log zerolog.Logger
}

func NewServer(database db.Database, log zerolog.Logger) *Server {
	return &Server{
		app: gin.Default(),
		db:  database,
		log: log,
	}
}

func (s *Server) Start() error {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // dashboards connect from anywhere on the LAN
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories and use cases
	deviceRepo := repositories.NewDevicePgRepository(s.db)
	deviceUseCase := usecases.NewDeviceUseCase(deviceRepo)

	// Relay engine holds its own registry and store handle; constructed
	// once here and passed by reference to all request-handling code.
	registry := ws.NewRegistry()
	engine := relay.NewEngine(registry, deviceUseCase, s.log)

	// Initialize handlers
	deviceHandler := httpHandler.NewDeviceHandler(deviceUseCase)
	commandHandler := httpHandler.NewCommandHandler(engine)
	serverInfoHandler := httpHandler.NewServerInfoHandler(confs.HTTPPort())
	wsHandler := handlers.NewWSHandler(engine, s.log)

	// Discovery endpoint for dashboard clients
	s.app.GET("/api/server-info", serverInfoHandler.GetServerInfo)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		// Device routes
		devices := api.Group("/devices")
		{
			devices.POST("", deviceHandler.CreateDevice)
			devices.GET("", deviceHandler.GetAllDevices)
			devices.GET("/connected", commandHandler.GetConnected) // List connected devices
			devices.GET("/:id", deviceHandler.GetDevice)
			devices.PUT("/:id", deviceHandler.UpdateDevice)
			devices.DELETE("/:id", deviceHandler.DeleteDevice)
		}

		// Targeted commands over the relay
		api.POST("/commands", commandHandler.SendCommand)
	}

	s.app.GET("/ws", wsHandler.HandleWS)

	addr := confs.HTTPAddr()
	s.log.Info().Str("addr", addr).Msg("server listening")
	return s.app.Run(addr)
}
