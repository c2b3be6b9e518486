package main

import (
	"dorm-link/pkg/config"
	"dorm-link/pkg/database"
	"dorm-link/pkg/logger"
	"dorm-link/pkg/queue"
	botApp "dorm-link/services/bot/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}

	botApp.Run(cfg, log, db, queueClient)
}
