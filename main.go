package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"estoquehub/internal/config"
	"estoquehub/internal/database"
	"estoquehub/internal/handlers"
	"estoquehub/internal/logger"
	"estoquehub/internal/middleware"
	"estoquehub/internal/models"
	"estoquehub/internal/repositories"
	"estoquehub/internal/services"
	"estoquehub/pkg/rabbitmq"
	"estoquehub/web"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies are the storage and messaging collaborators injected into the app.
type Dependencies struct {
	Users     repositories.UserRepository
	Products  repositories.ProductRepository
	Tasks     repositories.TaskRepository
	Publisher services.ProductEventPublisher // nil disables inventory events
}

// NewApp builds the Fiber app with every route registered.
func NewApp(cfg *config.Config, deps Dependencies) (*fiber.App, *services.AuthService) {
	authService := services.NewAuthService(deps.Users, cfg.JWTSecret)
	productService := services.NewProductService(deps.Products, deps.Publisher)
	taskService := services.NewTaskService(deps.Tasks)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	legacyHandler := handlers.NewLegacyHandler(productService, taskService)

	app := fiber.New(fiber.Config{
		AppName:      "estoquehub",
		ErrorHandler: handlers.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	authRequired := middleware.AuthRequired(authService)

	app.Get("/", handlers.HandleHealth)
	authHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app, authRequired)
	legacyHandler.RegisterRoutes(app, authRequired)

	app.Use("/app", filesystem.New(filesystem.Config{
		Root:  http.FS(web.Assets()),
		Index: "index.html",
	}))

	return app, authService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	deps, err := buildRepositories(cfg)
	if err != nil {
		zap.S().Fatalf("Failed to initialize storage: %v", err)
	}

	// Inventory events are optional; the API works without a broker.
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			zap.S().Warnf("Inventory events disabled: %v", err)
		} else {
			defer mqClient.Close()
			deps.Publisher = mqClient
			if err := mqClient.ConsumeProductEvents(logInventoryEvent); err != nil {
				zap.S().Warnf("Failed to start inventory event consumer: %v", err)
			}
		}
	}

	app, _ := NewApp(cfg, deps)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zap.S().Infof("Starting server on port %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			zap.S().Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	zap.S().Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zap.S().Errorf("Error during Fiber shutdown: %v", err)
	}
	zap.S().Info("Server gracefully stopped")
}

func buildRepositories(cfg *config.Config) (Dependencies, error) {
	if cfg.Database.Driver == config.DriverMemory {
		zap.S().Warn("Using in-memory storage; data is lost on restart")
		return Dependencies{
			Users:    repositories.NewMockUserRepository(),
			Products: repositories.NewMockProductRepository(),
			Tasks:    repositories.NewMockTaskRepository(),
		}, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return Dependencies{}, err
	}
	if err := database.Migrate(db); err != nil {
		return Dependencies{}, err
	}
	return Dependencies{
		Users:    repositories.NewGORMUserRepository(db),
		Products: repositories.NewGORMProductRepository(db),
		Tasks:    repositories.NewGORMTaskRepository(db),
	}, nil
}

// logInventoryEvent is the consumer for the inventory queue.
func logInventoryEvent(event models.ProductEvent) error {
	if event.Type == models.EventProductLowStock {
		zap.S().Warnw("Low stock",
			"user_id", event.UserID,
			"product_id", event.ProductID,
			"sku", event.SKU,
			"quantity", event.Quantity,
			"min_quantity", event.MinQuantity,
		)
		return nil
	}
	zap.S().Infow("Inventory event", "type", event.Type, "product_id", event.ProductID)
	return nil
}
