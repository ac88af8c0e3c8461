package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hiiragi-dev/kakera-ledger/internal/core/services"
	"github.com/hiiragi-dev/kakera-ledger/internal/handlers"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
	"github.com/hiiragi-dev/kakera-ledger/internal/repositories/database/pgsql"
	"github.com/hiiragi-dev/kakera-ledger/pkg/config"
	"github.com/hiiragi-dev/kakera-ledger/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	svcs := services.NewServiceContainer(cfg, repos)

	// Discord session
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Error("Failed to create Discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handlers.RegisterDiscordHandlers(dg, cfg, svcs, logger)

	if err := dg.Open(); err != nil {
		logger.Error("Failed to open Discord gateway connection", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dg.Close()
	logger.Info("Discord gateway connection established", slog.String("bot_user", dg.State.User.Username))

	if err := handlers.RegisterSlashCommands(dg, cfg.GuildID); err != nil {
		logger.Error("Failed to register slash commands", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background sweeps: accrual does storage I/O, expiry is in-memory
	sweepCtx := middleware.WithLogger(ctx, logger)
	go svcs.Ledger.StartAccrualSweep(sweepCtx, cfg.AccrualSweepInterval)
	go svcs.Pending.StartExpirySweep(sweepCtx, cfg.ExpirySweepInterval)

	// Keepalive HTTP server
	router, err := handlers.NewKeepaliveRouter(cfg, logger)
	if err != nil {
		logger.Error("Failed to build keepalive router", slog.String("error", err.Error()))
		os.Exit(1)
	}
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Keepalive server failed", slog.String("error", err.Error()))
		}
	}()
	logger.Info("Keepalive server listening", slog.String("port", cfg.Port))

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Keepalive server shutdown failed", slog.String("error", err.Error()))
	}
}

// runMigrations applies pending schema migrations using a temporary
// database/sql connection via the pgx stdlib driver, compatible with the
// main pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logger.Info("Database migrations applied")
	return nil
}
