package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/kerem/campusact/internal/app/controllers"
	appMigrations "github.com/kerem/campusact/internal/app/migrations"
	appRepos "github.com/kerem/campusact/internal/app/repositories"
	appRoutes "github.com/kerem/campusact/internal/app/routes"
	appServices "github.com/kerem/campusact/internal/app/services"
	"github.com/kerem/campusact/internal/config"
	"github.com/kerem/campusact/internal/db"
	appMiddleware "github.com/kerem/campusact/internal/middleware"
	pkgAuth "github.com/kerem/campusact/internal/pkg/auth"
	"github.com/kerem/campusact/internal/pkg/helpers"
	"github.com/kerem/campusact/internal/pkg/logger"
	"github.com/kerem/campusact/internal/pkg/objectstore"
	"github.com/kerem/campusact/internal/pkg/presign"
	"github.com/kerem/campusact/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	OfferingService   appServices.OfferingService
	SessionService    appServices.SessionService
	AttendanceService appServices.AttendanceService
	UploadService     appServices.UploadService

	OfferingController   *appControllers.OfferingController
	SessionController    *appControllers.SessionController
	UploadController     *appControllers.UploadController
	AttendanceController *appControllers.AttendanceController
	StorageController    *appControllers.StorageController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	ObjectStore    *objectstore.LocalStore
	Signer         *presign.Signer
	Logger         zerolog.Logger
}

// urlSigner binds the shared presign.Signer to the two URL kinds the
// services ask for, each with its own lifetime.
type urlSigner struct {
	signer      *presign.Signer
	uploadTTL   time.Duration
	playbackTTL time.Duration
}

func (s *urlSigner) UploadURL(storageKey string) (string, time.Time) {
	return s.signer.SignedURL(http.MethodPut, storageKey, s.uploadTTL)
}

func (s *urlSigner) PlaybackURL(storageKey string) (string, time.Time) {
	return s.signer.SignedURL(http.MethodGet, storageKey, s.playbackTTL)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  strings.ToLower(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.ObjectStore, err = objectstore.NewLocalStore(cfg.Storage.Path)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize object store")
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	deps.Signer = presign.NewSigner(cfg.Storage.PresignSecret, cfg.Server.PublicBaseURL+"/storage")
	signer := &urlSigner{
		signer:      deps.Signer,
		uploadTTL:   helpers.ParseDuration(cfg.Storage.UploadURLExpiration, 15*time.Minute),
		playbackTTL: helpers.ParseDuration(cfg.Storage.PlaybackURLExpiration, 2*time.Hour),
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.OfferingService = appServices.NewOfferingService(
		deps.Repos.OfferingRepository,
		deps.Repos.SemesterRepository,
	)
	deps.SessionService = appServices.NewSessionService(
		deps.Repos.SessionRepository,
		deps.Repos.OfferingRepository,
		deps.ObjectStore,
		signer,
	)
	deps.AttendanceService = appServices.NewAttendanceService(
		deps.Repos.AttendanceRepository,
		deps.Repos.SessionRepository,
		deps.Repos.OfferingRepository,
	)
	deps.UploadService = appServices.NewUploadService(
		deps.Repos.OfferingRepository,
		signer,
		cfg.Storage.MaxUploadBytes,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.OfferingController = appControllers.NewOfferingController(deps.OfferingService)
	deps.SessionController = appControllers.NewSessionController(deps.SessionService)
	deps.UploadController = appControllers.NewUploadController(deps.UploadService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.AttendanceService)
	deps.StorageController = appControllers.NewStorageController(deps.ObjectStore, deps.Signer)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.OfferingController,
		deps.SessionController,
		deps.UploadController,
		deps.AttendanceController,
		deps.StorageController,
		deps.AuthMiddleware,
	)

	return router
}
