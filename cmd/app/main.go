package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkwell-report-backend/cmd/app/internal/controller"
	"inkwell-report-backend/internal/catalog"
	"inkwell-report-backend/internal/config"
	"inkwell-report-backend/internal/db"
	"inkwell-report-backend/internal/llm"
	"inkwell-report-backend/internal/repository"
	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/pkg/middleware"
	"inkwell-report-backend/utilities"
)

func main() {
	printStartUpBanner()

	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := utilities.NewLogger(utilities.LogOptions{
		Dir:        cfg.Context.LogDir,
		Level:      cfg.Context.LogLevel,
		Production: cfg.Context.GinMode == gin.ReleaseMode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func run(cfg *config.APIConfig, log *utilities.Logger) error {
	// Initialize DB using the loaded config.
	database, err := db.InitDBFromConfig(cfg.DB)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(database); err != nil {
		return err
	}
	log.Info("database ready", "driver", cfg.DB.Driver)

	questions := catalog.Default()
	if cfg.Reports.CatalogPath != "" {
		if questions, err = catalog.Load(cfg.Reports.CatalogPath); err != nil {
			return err
		}
	}
	log.Info("question catalog loaded", "categories", questions.Categories())

	client, err := llm.NewClient(cfg.LLM, log)
	if err != nil {
		return err
	}
	log.Info("text generation client ready", "provider", cfg.LLM.Provider, "model", client.ModelID())

	// Create repositories.
	reportRepo := repository.NewReportRepository(database)
	userRepo := repository.NewUserRepository(database)

	bus := utilities.NewEventBus()
	service.InitReportEventListeners(bus, reportRepo, log)

	// Create services.
	tokens := utilities.NewJWTManager(
		secretOrRandom(cfg.Authentication.AccessSecret, "JWT_ACCESS_SECRET", log),
		secretOrRandom(cfg.Authentication.RefreshSecret, "JWT_REFRESH_SECRET", log),
		cfg.Authentication.AccessTTL,
		cfg.Authentication.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	reportService := service.NewReportService(
		client,
		questions,
		reportRepo,
		service.NewReportPersister(cfg.Reports.OutputDir, log),
		bus,
		log,
		service.ReportServiceConfig{
			Parallelism:    cfg.Reports.Parallelism,
			PersistFormats: cfg.Reports.PersistFormats,
		},
	)

	gin.SetMode(cfg.Context.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(cfg.CORS.AllowOrigins))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware(log))
	}

	opts := controller.RouteOptions{
		UserAuth:  utilities.AuthMiddleware(tokens),
		OutputDir: cfg.Reports.OutputDir,
		ModelID:   client.ModelID(),
	}
	if cfg.Authentication.EnableTokenAuth {
		opts.ReportAuth = utilities.AuthMiddleware(tokens)
	}
	controller.RegisterRoutes(r, reportService, authService, userService, log, opts)

	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	bus.Wait()
	return nil
}

// secretOrRandom keeps tokens working in development when no secret is set.
// Tokens signed with a random secret do not survive a restart.
func secretOrRandom(secret, name string, log *utilities.Logger) string {
	if secret != "" {
		return secret
	}
	log.Warn("no signing secret configured, using a random one", "env", name)
	return uuid.NewString()
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("INKWELL", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("INKWELL REPORT API (v%s)\n\n", "3.0.0-Rapor")
}
