package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dailyreport/internal/handlers"
	"dailyreport/internal/middleware"
	"dailyreport/internal/models"
	"dailyreport/internal/repositories"
	"dailyreport/internal/services"
	"dailyreport/pkg/rabbitmq"
)

// setConfigDefaults wires Viper to environment variables with sane
// fallbacks. An empty RABBITMQ_URL disables the broker and reset codes are
// logged instead.
func setConfigDefaults() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "data.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv() // Load environment variables
}

// openDatabase opens the configured database. TranslateError makes GORM
// surface unique-key violations as gorm.ErrDuplicatedKey so the
// repositories can classify them without reading driver message text.
func openDatabase() (*gorm.DB, error) {
	dsn := viper.GetString("DATABASE_DSN")
	var dialector gorm.Dialector
	switch driver := viper.GetString("DATABASE_DRIVER"); driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// NewApp assembles migrations, repositories, services, handlers and routes
// on top of the given database handle. codeSender may be nil.
func NewApp(db *gorm.DB, codeSender services.ResetCodeSender) (*fiber.App, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.LineItem{},
		&models.Task{},
		&models.TesterWriteOffItem{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	reportRepo := repositories.NewGORMReportRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"), codeSender)
	reportService := services.NewReportService(reportRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService)

	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes: auth and CSV export.
	authHandler.RegisterRoutes(apiV1)
	reportHandler.RegisterPublicRoutes(apiV1)

	// Protected routes require a session token bound to a live account.
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService, userRepo))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	reportHandler.RegisterRoutes(protectedRoutes)

	return app, nil
}

func main() {
	setConfigDefaults()
	appPort := viper.GetString("APP_PORT")

	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var codeSender services.ResetCodeSender
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, reset codes will be logged instead: %v", err)
		} else {
			defer mqClient.Close() // Ensure the connection is closed on exit
			codeSender = mqClient
		}
	}

	app, err := NewApp(db, codeSender)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// No mail service is wired up yet, so the consumer logs each issued
	// code instead of forwarding it.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for reset codes...")
			messageHandler := func(msg amqp.Delivery) error {
				var event rabbitmq.ResetCodeEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					return fmt.Errorf("failed to decode reset event: %w", err)
				}
				log.Printf("Reset code for %s: %s", event.Email, event.Code)
				return nil
			}
			if consumerErr := mqClient.ConsumeResetEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
