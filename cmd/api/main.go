package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TavolaHQ/tavola_api/internal/cache"
	"github.com/TavolaHQ/tavola_api/internal/config"
	"github.com/TavolaHQ/tavola_api/internal/database"
	"github.com/TavolaHQ/tavola_api/internal/handler"
	"github.com/TavolaHQ/tavola_api/internal/middleware"
	"github.com/TavolaHQ/tavola_api/internal/repository"
	"github.com/TavolaHQ/tavola_api/internal/service"
	"github.com/TavolaHQ/tavola_api/internal/sse"
	"github.com/TavolaHQ/tavola_api/internal/worker"
	"github.com/TavolaHQ/tavola_api/pkg/qrimg"
)

// main is the application entrypoint for the Tavola restaurant API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting tavola api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize content cache
	contentCache := cache.NewContentCache(redisClient, cfg.Cache.MenuTTL, cfg.Cache.ContentTTL)

	// 4. Initialize repositories
	userRepo := repository.NewAdminUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	contentRepo := repository.NewContentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 5. Initialize SSE hub for admin real-time updates
	hub := sse.NewHub()

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, sessionRepo, &cfg.Auth)
	menuSvc := service.NewMenuService(menuRepo, contentCache)
	reservationSvc := service.NewReservationService(reservationRepo, sse.NewHubNotifier(hub))

	imageSvc, err := service.NewImageService(&cfg.S3)
	if err != nil {
		log.Error().Err(err).Msg("image service initialization failed")
		fmt.Fprintf(os.Stderr, "image service initialization failed: %v\n", err)
		os.Exit(1)
	}
	gallerySvc := service.NewGalleryService(galleryRepo, imageSvc)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:      handler.NewHealthHandler(db, redisClient),
		Auth:        handler.NewAuthHandler(authSvc, qrimg.NewClient(), cfg.Auth.AdminSetupKey),
		Menu:        handler.NewMenuHandler(menuSvc),
		Reservation: handler.NewReservationHandler(reservationSvc),
		Gallery:     handler.NewGalleryHandler(gallerySvc),
		Content:     handler.NewContentHandler(contentRepo, contentCache),
		Settings:    handler.NewSettingsHandler(settingsRepo),
		SSE:         handler.NewSSEHandler(hub, authSvc),
	}

	// 8. Initialize middleware
	sessionMw := middleware.NewSessionMiddleware(authSvc)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, sessionMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewSessionCleanupWorker(sessionRepo, cfg.Auth.CleanupInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Menu        *handler.MenuHandler
	Reservation *handler.ReservationHandler
	Gallery     *handler.GalleryHandler
	Content     *handler.ContentHandler
	Settings    *handler.SettingsHandler
	SSE         *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.SessionMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public site routes
	router.GET("/v1/menu", handlers.Menu.GetPublicMenu)
	router.GET("/v1/gallery", handlers.Gallery.List)
	router.GET("/v1/content", handlers.Content.GetAll)
	router.GET("/v1/content/:key", handlers.Content.GetByKey)
	router.POST("/v1/reservations", handlers.Reservation.Create)

	// Auth routes. Login, 2FA verification and registration are outside the
	// session middleware; verify/logout read the bearer token themselves so
	// they can answer cleanly for invalid tokens.
	auth := router.Group("/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/verify-2fa", handlers.Auth.VerifyTwoFactor)
		auth.POST("/register", handlers.Auth.Register)
		auth.GET("/verify", handlers.Auth.Verify)
		auth.POST("/logout", handlers.Auth.Logout)

		// Two-factor management requires an authenticated session
		twofa := auth.Group("/2fa")
		twofa.Use(sessionMw.Handle())
		{
			twofa.POST("/setup", handlers.Auth.SetupTwoFactor)
			twofa.POST("/verify", handlers.Auth.ConfirmTwoFactor)
			twofa.POST("/disable", handlers.Auth.DisableTwoFactor)
			twofa.GET("/status", handlers.Auth.TwoFactorStatus)
		}
	}

	// Admin routes (protected with session token)
	admin := router.Group("/v1/admin")
	// SSE endpoint authenticates via query param, EventSource cannot set headers
	admin.GET("/events", handlers.SSE.Stream)
	admin.Use(sessionMw.Handle())
	{
		// Menu management
		admin.GET("/menu", handlers.Menu.ListAll)
		admin.POST("/menu", handlers.Menu.Create)
		admin.PUT("/menu/:id", handlers.Menu.Update)
		admin.DELETE("/menu/:id", handlers.Menu.Delete)

		// Reservation management
		admin.GET("/reservations", handlers.Reservation.List)
		admin.PATCH("/reservations/:id/status", handlers.Reservation.UpdateStatus)
		admin.DELETE("/reservations/:id", handlers.Reservation.Delete)

		// Gallery management
		admin.POST("/gallery", handlers.Gallery.Upload)
		admin.DELETE("/gallery/:id", handlers.Gallery.Delete)

		// Content management
		admin.PUT("/content/:key", handlers.Content.Upsert)
		admin.DELETE("/content/:key", handlers.Content.Delete)

		// Settings
		admin.GET("/settings", handlers.Settings.GetAll)
		admin.GET("/settings/:key", handlers.Settings.Get)
		admin.PUT("/settings/:key", handlers.Settings.Set)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}
