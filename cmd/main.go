package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pairlink/backend/internal/api/handler"
	"pairlink/backend/internal/auth"
	"pairlink/backend/internal/chat"
	"pairlink/backend/internal/chathub"
	"pairlink/backend/internal/config"
	"pairlink/backend/internal/messaging"
	"pairlink/backend/internal/metrics"
	"pairlink/backend/internal/models"
	"pairlink/backend/internal/policy"
	"pairlink/backend/internal/presence"
	"pairlink/backend/internal/storage"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Match{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting PairLink chat backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		// No signing secret means no way to authenticate anyone. Refuse
		// to start.
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewStorageService(db, rdb)

	chatSvc := chat.NewService(store, policy.NewFilter())
	tracker := presence.NewTracker()
	hub := chathub.NewManager(store, chatSvc, tracker)

	go hub.Run()

	// Unlock approvals arrive from the payment service over NATS; the
	// bridge is optional in development.
	if cfg.NatsURL != "" {
		natsClient, err := messaging.NewClient(messaging.DefaultConfig(cfg.NatsURL))
		if err != nil {
			log.Fatalf("Failed to connect NATS: %v", err)
		}
		defer natsClient.Close()

		if err := natsClient.SubscribeMatchUnlocked(hub.HandleMatchUnlocked); err != nil {
			log.Fatalf("Failed to subscribe to unlock events: %v", err)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTDuration)

	r := gin.Default()
	h := handler.NewHandler(chatSvc, hub, jwtManager)
	h.Routes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on %s", cfg.ListenAddr)
	log.Fatal(server.ListenAndServe())
}
