package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/handlers"
	"github.com/GiorgyArmani/mintw4ve-sub000/middleware"
	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/GiorgyArmani/mintw4ve-sub000/services"
	"github.com/GiorgyArmani/mintw4ve-sub000/utils"
	"github.com/GiorgyArmani/mintw4ve-sub000/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024, // 512MB — covers lossless audio uploads
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-Wallet-Address",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Track{},
		&models.TrackComment{},
		&models.PlayEvent{},
		&models.LedgerBlob{},
		&models.Listing{},
		&models.Order{},
		&models.Message{},
		&models.Notification{},
		&models.Profile{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	notificationService := services.NewNotificationService(db)
	walletService := services.NewWalletService(db)
	profileService := services.NewProfileService(db)
	trackService := services.NewTrackService(db, profileService)
	streamService := services.NewStreamService(db, walletService, notificationService)
	marketService := services.NewMarketService(db, walletService, notificationService)
	chatService := services.NewChatService(db, notificationService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Roll play_events up into tracks.play_count
	go workers.PollPlayCounts(ctx, db, 30*time.Second)

	trackService.StartReleaseScheduler()
	streamService.StartSessionSweeper()

	// ✅ Setup routes — all behind enforced Gateway auth
	handlers.SetupTrackRoutes(app, trackService, streamService)
	handlers.SetupWalletRoutes(app, walletService, streamService, notificationService)
	handlers.SetupMarketRoutes(app, marketService)
	handlers.SetupChatRoutes(app, chatService)
	handlers.SetupProfileRoutes(app, profileService)

	go func() {
		if err := app.Listen(":5200"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5200")
	log.Println("✅ Play-count rollup running (every 30s)")
	log.Println("✅ Release scheduler + session sweeper running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
