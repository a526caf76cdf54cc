package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nbarrett/tallysheet/internal/config"
	"github.com/nbarrett/tallysheet/internal/counter"
	"github.com/nbarrett/tallysheet/internal/ledger"
	"github.com/nbarrett/tallysheet/internal/roster"
	"github.com/nbarrett/tallysheet/internal/sqlite"
	"github.com/nbarrett/tallysheet/internal/tracker"
	"github.com/nbarrett/tallysheet/internal/transport"
)

func main() {
	issueKey := flag.String("issue-key", "", "mint an API key for the given owner and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if *issueKey != "" {
		if err := mintAPIKey(db, *issueKey); err != nil {
			logger.Error("failed to issue api key", "error", err)
			os.Exit(1)
		}
		return
	}

	ledgerStore := sqlite.NewLedgerStore(db)
	rosterStore := sqlite.NewRosterStore(db)

	counters := counter.NewStore(cfg.Tracker.WeeklyCap)
	ledgerSvc := ledger.NewService(ledgerStore, logger)
	rosterSvc := roster.NewService(rosterStore, ledgerStore, cfg.Tracker.PlaceholderSubject, logger)
	trackerSvc := tracker.NewService(counters, ledgerSvc, rosterSvc, logger)

	var authMiddleware func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(&apiKeyResolver{db: db})
	} else {
		logger.Warn("bearer auth disabled, trusting X-Tally-Owner header")
		authMiddleware = transport.OwnerHeaderMiddleware
	}

	router := transport.NewServer(trackerSvc, authMiddleware)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "weekly_cap", cfg.Tracker.WeeklyCap)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var tenant string
	err := r.db.QueryRowContext(ctx, `SELECT tenant FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenant)
	if err != nil || tenant == "" {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	return tenant, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func mintAPIKey(db *sqlite.DB, owner string) error {
	owner = strings.ToLower(strings.TrimSpace(owner))
	if owner == "" {
		return fmt.Errorf("owner must not be blank")
	}

	token := uuid.NewString()
	if _, err := db.Exec(
		`INSERT INTO api_keys (key_hash, tenant, description) VALUES (?, ?, ?)`,
		hashToken(token), owner, "issued via -issue-key",
	); err != nil {
		return fmt.Errorf("storing api key: %w", err)
	}

	fmt.Printf("api key for %s: %s\n", owner, token)
	return nil
}
