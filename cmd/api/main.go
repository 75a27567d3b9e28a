package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dsemotion/internal/api"
	"dsemotion/internal/config"
	"dsemotion/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer c.Shutdown(context.Background())

	gin.SetMode(appConfig.Server.GinMode)
	server := api.NewServer(c.Service, c.Logger)
	if err := server.Start(ctx, ":"+appConfig.Server.Port, appConfig.Server.ShutdownTimeout); err != nil {
		c.Logger.Error("Server failed: %v", err)
		stop()
		os.Exit(1)
	}
}
