package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/auth"
	"github.com/mmynk/arisan/internal/diagnostics"
	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/lottery"
	"github.com/mmynk/arisan/internal/middleware"
	"github.com/mmynk/arisan/internal/storage"
	"github.com/mmynk/arisan/internal/storage/sqlite"
)

const testMainGroup = "Arisan Keluarga"

// testServer runs every service behind the auth interceptor, like cmd/server does.
type testServer struct {
	url      string
	store    *sqlite.SQLiteStore
	reporter *diagnostics.Reporter
	finance  *FinanceService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.Default()
	reporter := diagnostics.NewReporter(logger)
	guarded := storage.NewGuard(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	resolver := finance.NewResolver(guarded, finance.DefaultSettings(finance.DefaultMainAmount))
	reconciler := finance.NewReconciler(guarded, resolver, finance.MainGroupByName(testMainGroup))
	drawer := lottery.NewDrawer(guarded)
	financeSvc := NewFinanceService(guarded, resolver, reconciler, reporter)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(NewAuthServiceHandler(NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger), interceptors))
	mux.Handle(NewMemberServiceHandler(NewMemberService(guarded, reporter), interceptors))
	mux.Handle(NewGroupServiceHandler(NewGroupService(guarded, drawer, reporter), interceptors))
	mux.Handle(NewFinanceServiceHandler(financeSvc, interceptors))
	mux.Handle(NewExpenseServiceHandler(NewExpenseService(guarded, reporter), interceptors))
	mux.Handle(NewAnnouncementServiceHandler(NewAnnouncementService(guarded, reporter), interceptors))
	mux.Handle(NewWatchServiceHandler(NewWatchService(guarded, reporter), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, store: store, reporter: reporter, finance: financeSvc}
}

// call performs one unary RPC with an optional bearer token.
func call[Req, Res any](t *testing.T, ts *testServer, token, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, ts.url+procedure, Codec())
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// mustCall is call for requests that must succeed.
func mustCall[Req, Res any](t *testing.T, ts *testServer, token, procedure string, msg *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](t, ts, token, procedure, msg)
	if err != nil {
		t.Fatalf("%s failed: %v", procedure, err)
	}
	return res
}

func register(t *testing.T, ts *testServer, email string) *AuthResponse {
	t.Helper()
	return mustCall[RegisterRequest, AuthResponse](t, ts, "", AuthServiceRegisterProcedure, &RegisterRequest{
		Email:       email,
		DisplayName: email,
		Password:    "password123",
	})
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("error code = %v, want %v (error: %v)", got, code, err)
	}
}
