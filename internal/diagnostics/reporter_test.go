package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/lottery"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

func newTestReporter() (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewReporter(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", Invalid(models.ErrGroupNameRequired), connect.CodeInvalidArgument},
		{"month key", fmt.Errorf("parse: %w", models.ErrInvalidMonthKey), connect.CodeInvalidArgument},
		{"permission", &storage.OpError{Op: storage.OpCreate, Path: "members", Err: storage.ErrPermissionDenied}, connect.CodePermissionDenied},
		{"not found", storage.NotFound(storage.CollectionGroups, "g1"), connect.CodeNotFound},
		{"conflict", fmt.Errorf("failed to reconcile payments: %w", storage.ErrConflict), connect.CodeAborted},
		{"settings", finance.ErrSettingsUnresolved, connect.CodeFailedPrecondition},
		{"exhausted", fmt.Errorf("%w: group g1", lottery.ErrExhausted), connect.CodeFailedPrecondition},
		{"busy", ErrBusy, connect.CodeResourceExhausted},
		{"connect error", connect.NewError(connect.CodeUnavailable, errors.New("down")), connect.CodeUnavailable},
		{"anything else", errors.New("disk on fire"), connect.CodeInternal},
	}

	r, _ := newTestReporter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Error(context.Background(), "/test/Proc", tt.err)
			if got := connect.CodeOf(err); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConflictMessage(t *testing.T) {
	r, _ := newTestReporter()
	err := r.Error(context.Background(), "/test/Proc", storage.ErrConflict)

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("error %T is not a connect error", err)
	}
	if connectErr.Message() != "sync failed: the data changed while saving, please try again" {
		t.Errorf("message = %q", connectErr.Message())
	}
}

func TestDenialsRecorded(t *testing.T) {
	r, logs := newTestReporter()
	ctx := storage.WithPrincipal(context.Background(), storage.Principal{UserID: "u1", Role: models.RoleViewer})
	payload := &models.Member{Name: "Ani"}

	r.Error(ctx, "/arisan.v1.MemberService/CreateMember", &storage.OpError{
		Op: storage.OpCreate, Path: "members", Payload: payload, Err: storage.ErrPermissionDenied,
	})
	r.Error(ctx, "/arisan.v1.MemberService/GetMember", storage.NotFound("members", "m1"))

	denials := r.Denials()
	if len(denials) != 1 {
		t.Fatalf("got %d denials, want 1", len(denials))
	}
	d := denials[0]
	if d.UserID != "u1" || d.Op != "create" || d.Path != "members" || d.Payload != payload {
		t.Errorf("denial = %+v", d)
	}
	if !bytes.Contains(logs.Bytes(), []byte("path=members")) {
		t.Errorf("log does not mention the path: %s", logs.String())
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/debug/permission-denials", nil))
	var served []Denial
	if err := json.Unmarshal(rec.Body.Bytes(), &served); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(served) != 1 || served[0].Procedure != "/arisan.v1.MemberService/CreateMember" {
		t.Errorf("served = %+v", served)
	}
}

func TestDenialsBounded(t *testing.T) {
	r, _ := newTestReporter()
	for i := 0; i < maxDenials+10; i++ {
		r.Error(context.Background(), fmt.Sprintf("/p/%d", i), storage.ErrPermissionDenied)
	}
	denials := r.Denials()
	if len(denials) != maxDenials {
		t.Fatalf("kept %d denials, want %d", len(denials), maxDenials)
	}
	if denials[0].Procedure != "/p/10" {
		t.Errorf("oldest kept = %s, want /p/10", denials[0].Procedure)
	}
}
