package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/backup"
	"github.com/ManishKrBarman/LokRise-sub002/cart"
	"github.com/ManishKrBarman/LokRise-sub002/config"
	orderControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/order"
	"github.com/ManishKrBarman/LokRise-sub002/middleware"
	"github.com/ManishKrBarman/LokRise-sub002/models"
	"github.com/ManishKrBarman/LokRise-sub002/routes"
)

func main() {
	log.Println("✅ Starting application...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	deps := routes.Deps{
		DB:          db,
		Config:      cfg,
		Tokens:      auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Denylist:    initDenylist(ctx, cfg),
		Hub:         orderControllers.NewHub(),
		Pricing:     cart.NewPricing(cfg.ShippingFlat, cfg.TaxRate),
		RateLimiter: middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst),
	}
	defer deps.Hub.Close()

	if cfg.FirebaseEnabled() {
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseProjectID)
		if err != nil {
			log.Fatalf("❌ Firebase init failed: %v", err)
		}
		deps.Verifier = verifier
		log.Println("🔑 Google sign-in enabled")
	}

	go deps.RateLimiter.Run(time.Minute, ctx.Done())

	// Gin setup
	r := gin.Default()

	// Allow large file uploads (1 GB)
	r.MaxMultipartMemory = 1 << 30

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create uploads dir: %v", err)
	}
	r.Static("/uploads", cfg.UploadsDir)

	// Setup routes
	routes.SetupRoutes(r, deps)

	// Start backup routine daily at BACKUP_HOUR
	go backup.Run(ctx, backup.Config{
		SrcDir:    cfg.UploadsDir,
		BackupDir: cfg.BackupDir,
		Retention: cfg.BackupRetention,
		Hour:      cfg.BackupHour,
	})

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return db
}

// initDenylist uses Redis when REDIS_ADDR is set.
func initDenylist(ctx context.Context, cfg config.Config) auth.Denylist {
	if cfg.RedisAddr == "" {
		log.Println("⚠️ REDIS_ADDR not set, revoked tokens are kept in memory")
		return auth.NewMemoryDenylist()
	}

	rdb := auth.NewRedisDenylist(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	log.Printf("✅ Connected to Redis at %s", cfg.RedisAddr)
	return rdb
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
