package main

import (
	"context" // context package is needed for Redis and seeding
	"time"    // Timeouts for startup checks

	"socks_stock/internal/api"     // Custom package for API handlers
	"socks_stock/internal/config"  // Custom package for configuration
	"socks_stock/internal/db"      // Custom package for persistence
	"socks_stock/internal/metrics" // Custom package for prometheus collectors
	"socks_stock/internal/service" // Custom package for business logic
	"socks_stock/internal/utils"   // Tokens and cache

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metrics registry
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/redis/go-redis/v9"                              // Redis client
	"github.com/sirupsen/logrus"                                // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database and make sure the schema is current
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Redis is optional: without it quantity lookups always hit the database
	var cache service.QuantityCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = redisClient.Ping(ctx).Result() // Test Redis connection
		cancel()
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cache = utils.NewQuantityCache(redisClient, cfg.CacheTTL)
		logrus.WithField("addr", cfg.RedisAddr).Info("Quantity cache enabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	users := db.NewUserRepo(conn)
	tokens := utils.NewTokenProvider(cfg.JWTSecret, cfg.JWTExpiration)
	auth := service.NewAuthService(users, tokens)

	// Seed the initial admin account
	created, err := auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logrus.Fatalf("failed to seed admin user: %v", err)
	}
	if !created {
		logrus.WithField("username", cfg.AdminUsername).Info("Admin user already exists")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Stock:       service.NewStockService(db.NewSocksRepo(conn), cache, metrics.NewStock(reg)),
		Auth:        auth,
		Users:       service.NewUserService(users),
		Tokens:      tokens,
		Lookup:      users,
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTP(reg),
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

// setupLogger applies the configured level, with JSON output in production
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
