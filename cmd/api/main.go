package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/zomorrodilab/ZLab-tools/internal/api/handlers"
	"github.com/zomorrodilab/ZLab-tools/internal/api/middleware"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	matchHandler := handlers.NewMatchHandler()
	optimizeHandler := handlers.NewOptimizeHandler(nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/match", matchHandler.RunMatch)
		api.POST("/optimize", optimizeHandler.StartOptimize)
		api.GET("/jobs/:id", optimizeHandler.GetJob)
		api.GET("/models", handlers.ListModels)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
