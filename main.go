package main

import (
	"flag"
	"net/http"

	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/handler"
	"github.com/candrapwr/information-extraction/logger"
	"github.com/candrapwr/information-extraction/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	extractService, err := service.Build(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalw("Failed to initialize extraction service", "error", err)
	}
	extractHandler := handler.NewExtractHandler(extractService, cfg.Server.MaxFileSize)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(), handler.CORS(cfg.Server.AllowedOrigins))

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Indonesian ID Information Extraction",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/extract", extractHandler.Extract)
		api.POST("/extract/text", extractHandler.ExtractText)
	}

	log.Infow("Starting extraction service", "port", cfg.Server.Port, "template", extractService.Template().Name)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalw("Failed to start server", "error", err)
	}
}
