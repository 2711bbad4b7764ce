package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/byn2/byn2-backend/database"
	"github.com/byn2/byn2-backend/internal/auth"
	"github.com/byn2/byn2-backend/internal/jobs"
	"github.com/byn2/byn2-backend/internal/models"
	"github.com/byn2/byn2-backend/internal/routes"
	"github.com/byn2/byn2-backend/internal/services"
	"github.com/byn2/byn2-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.User{},
			&models.BotIntent{},
			&models.Transaction{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Token service
	tokenService, err := auth.NewTokenService()
	if err != nil {
		log.Fatal("Failed to initialize token service:", err)
	}
	log.Println("✅ Token service initialized")

	// Messaging gateway
	whatsappService, err := services.NewWhatsAppService()
	if err != nil {
		log.Fatal("Failed to initialize WhatsApp service:", err)
	}
	log.Println("✅ WhatsApp service initialized")

	// Money-movement collaborators
	walletService, err := services.NewWalletService(store)
	if err != nil {
		log.Fatal("Failed to initialize wallet service:", err)
	}
	monimeService, err := services.NewMonimeService(store)
	if err != nil {
		log.Fatal("Failed to initialize Monime service:", err)
	}
	currencyService := services.NewCurrencyService()
	log.Println("✅ Wallet, Monime and currency services initialized")

	// SMS notifier is optional: without Twilio credentials the bot
	// simply skips out-of-band notifications.
	var notifier services.Notifier
	twilioNotifier, err := services.NewTwilioNotifier()
	if err != nil {
		log.Println("⚠️  Twilio credentials not found - SMS notifications disabled")
	} else {
		notifier = twilioNotifier
		log.Println("✅ Twilio notifier initialized")
	}

	// Bot engine
	botService := services.NewBotService(
		store,
		tokenService,
		whatsappService,
		walletService,
		monimeService,
		currencyService,
		notifier,
	)
	log.Println("✅ Bot service initialized")

	// Background jobs
	sweeper := jobs.NewIntentSweeper(store)
	sweeper.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Byn2 Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, botService)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("🛑 Shutting down...")
		sweeper.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Byn2 backend listening on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Server error:", err)
	}
}
