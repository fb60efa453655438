package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/auth"
	"github.com/Affo25/imsdashboard/internal/core/events"
	"github.com/Affo25/imsdashboard/internal/transport"
	"github.com/Affo25/imsdashboard/internal/transport/rest"
	"github.com/Affo25/imsdashboard/internal/transport/swagger"
	"github.com/Affo25/imsdashboard/internal/user"
	userRepo "github.com/Affo25/imsdashboard/internal/user/postgres"
	"github.com/Affo25/imsdashboard/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.EventBus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := openGorm(config.Database, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	doc, err := swagger.LoadSpec(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	specHandler, err := swagger.SpecHandler(doc)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	userService := user.NewService(userRepo.NewUserRepository(gdb), config.Security.BCryptCost, lg).
		WithEvents(bus)
	tokenService := auth.NewTokenService(config.Security.JWTSecret)

	baseHandler := transport.NewBaseHandler(lg)
	authHandler := auth.NewHandler(baseHandler, userService, tokenService, config.Security.CookieSecure)
	userHandler := user.NewHandler(baseHandler, userService)
	guard := auth.NewGuard(auth.DefaultRouteTable(), tokenService, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, guard, authHandler, userHandler, specHandler, lg)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Router:   router,
		EventBus: bus,
		Logger:   lg,
	}, nil
}
