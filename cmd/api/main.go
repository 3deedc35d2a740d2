package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/presensi-go-api/internal/config"
	"github.com/noah-isme/presensi-go-api/internal/database"
	"github.com/noah-isme/presensi-go-api/internal/geo"
	"github.com/noah-isme/presensi-go-api/internal/handler"
	"github.com/noah-isme/presensi-go-api/internal/identity"
	"github.com/noah-isme/presensi-go-api/internal/middleware"
	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/router"
	"github.com/noah-isme/presensi-go-api/internal/service"
	"github.com/noah-isme/presensi-go-api/internal/store"
	"github.com/noah-isme/presensi-go-api/pkg/ai"
	cloud "github.com/noah-isme/presensi-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	migrations := []interface{}{&models.AuditLog{}}
	if cfg.StoreBackend == config.StoreGorm {
		migrations = append(migrations, &models.AttendanceRecord{})
	}
	if err := db.AutoMigrate(migrations...); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var attendanceStore store.AttendanceStore
	if cfg.StoreBackend == config.StoreGorm {
		attendanceStore = store.NewGormStore(db)
	} else {
		attendanceStore = store.NewMemoryStore()
	}

	cache, err := openCache(cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	drafter := buildDrafter(cfg, logger)

	var uploader service.EvidenceUploader
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	auditService := service.NewAuditService(store.NewAuditRepository(db), logger)
	draftService := service.NewDraftService(drafter, cfg.Village, cfg.ProgramName, logger)
	historyService := service.NewHistoryService(attendanceStore, cache, cfg.SummaryCacheTTL, logger)
	builderService := service.NewBuilderService(attendanceStore, geo.NewAdapter(), draftService, uploader, historyService, auditService, logger)

	adapter := identity.NewGoogleAdapter(identity.Config{
		ClientID:    cfg.GoogleClientID,
		AdminEmails: cfg.AdminEmails,
	}, logger)
	sessionService := service.NewSessionService(adapter, attendanceStore, auditService, cfg.JWTSecret, cfg.SessionTTL, logger)

	sessionHandler := handler.NewSessionHandler(sessionService, validate, logger)
	attendanceHandler := handler.NewAttendanceHandler(builderService, historyService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SessionHandler:    sessionHandler,
		AttendanceHandler: attendanceHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		AIDraftLimiter:    middleware.RateLimit("ai-draft", cfg.DraftRateLimit, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return database.ConnectPostgres(cfg.DatabaseURL)
	}
	return database.ConnectSQLite(cfg.SQLitePath)
}

func openCache(cfg config.Config, logger zerolog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Warn().Msg("redis url not configured, summary caching disabled")
		return nil, nil
	}
	return database.ConnectRedis(cfg.RedisURL)
}

func buildDrafter(cfg config.Config, logger zerolog.Logger) ai.Drafter {
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		drafter, err := ai.NewOpenAIDrafter(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.AIModel,
			Logger: logger,
		})
		if err == nil {
			return drafter
		}
		logger.Warn().Err(err).Msg("openai drafter unavailable, falling back to static drafter")
	}
	return ai.NewStaticDrafter()
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
