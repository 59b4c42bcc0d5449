package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parceldesk/api/internal/config"
	"parceldesk/api/internal/db"
	"parceldesk/api/internal/server"
)

// @title ParcelDesk Console API
// @version 1.0
// @description Back-office console for a parcel shipping operator. Reads
// @description and writes go to the upstream parcel service first and fall
// @description back to a local cache when it is unreachable.

// @host localhost:3000
// @BasePath /api/v1

func main() {
	log.Println("[API] Starting ParcelDesk Console API...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	log.Println("[API] Connected to database")

	// Apply migrations
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("[API] Failed to migrate database: %v", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	log.Println("[API] Connected to Redis")
	defer redisClient.Close()

	// Connect to NATS
	natsConn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to NATS: %v", err)
	}
	log.Println("[API] Connected to NATS")
	defer natsConn.Close()

	// Create and setup server
	srv := server.NewServer(cfg, gormDB, redisClient, natsConn)
	srv.Setup()

	// Log sync events for operators tailing the console logs
	go startNATSConsumers(natsConn)

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	go func() {
		if err := srv.Run(addr); err != nil {
			log.Fatalf("[API] Failed to start server: %v", err)
		}
	}()

	log.Printf("[API] Server ready on %s", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("[API] Shutting down...")

	srv.Shutdown()
	log.Println("[API] Server stopped")
}

func startNATSConsumers(nc *nats.Conn) {
	nc.Subscribe("console.sync.>", func(msg *nats.Msg) {
		log.Printf("[NATS] %s: %s", msg.Subject, string(msg.Data))
	})
	log.Println("[NATS] Consumers started")
}
