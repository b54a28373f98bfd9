package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/arisan/internal/auth"
	"github.com/mmynk/arisan/internal/config"
	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/lottery"
	"github.com/mmynk/arisan/internal/middleware"
	"github.com/mmynk/arisan/internal/service"
	"github.com/mmynk/arisan/internal/storage"
	"github.com/mmynk/arisan/internal/storage/sqlite"
	"github.com/mmynk/arisan/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level)

	mainAmount, err := cfg.Finance.MainAmount()
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		slog.Warn("auth.jwt_secret not set; sessions will not survive a restart")
	}
	jwtManager := auth.NewJWTManager(secret, cfg.Auth.TokenTTL)

	// Every service writes through the guard so viewers cannot change data.
	guarded := storage.NewGuard(store)
	reporter := diagnostics.NewReporter(slog.Default())
	resolver := finance.NewResolver(guarded, finance.DefaultSettings(mainAmount))
	reconciler := finance.NewReconciler(guarded, resolver, finance.MainGroupByName(cfg.Finance.MainGroupName))
	drawer := lottery.NewDrawer(guarded)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, service.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	router := mux.NewRouter()
	mount := func(path string, h http.Handler) {
		router.PathPrefix(path).Handler(h)
	}
	mount(service.NewAuthServiceHandler(service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, slog.Default()), interceptors))
	mount(service.NewMemberServiceHandler(service.NewMemberService(guarded, reporter), interceptors))
	mount(service.NewGroupServiceHandler(service.NewGroupService(guarded, drawer, reporter), interceptors))
	mount(service.NewFinanceServiceHandler(service.NewFinanceService(guarded, resolver, reconciler, reporter), interceptors))
	mount(service.NewExpenseServiceHandler(service.NewExpenseService(guarded, reporter), interceptors))
	mount(service.NewAnnouncementServiceHandler(service.NewAnnouncementService(guarded, reporter), interceptors))
	mount(service.NewWatchServiceHandler(service.NewWatchService(guarded, reporter), interceptors))

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Handle("/debug/permission-denials", reporter).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms"}),
		handlers.ExposedHeaders([]string{"Connect-Protocol-Version", "Connect-Timeout-Ms"}),
	)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming from Go clients)
	handler := h2c.NewHandler(loggingMiddleware(cors(router)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
