package middleware

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/auth"
	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("sari@example.com", "Sari", "hash", models.RoleViewer)
	token, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seen storage.Principal
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen, _ = storage.PrincipalFrom(ctx)
		if GetEmail(ctx) != user.Email {
			t.Errorf("GetEmail = %q, want %q", GetEmail(ctx), user.Email)
		}
		return connect.NewResponse(&struct{}{}), nil
	}
	handler := RequireAuth(jwtManager).WrapUnary(next)

	t.Run("valid token carries the principal", func(t *testing.T) {
		req := connect.NewRequest(&struct{}{})
		req.Header().Set("Authorization", "Bearer "+token)
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if seen.UserID != user.ID || seen.Role != models.RoleViewer {
			t.Errorf("principal = %+v", seen)
		}
	})

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"bad token":      "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			req := connect.NewRequest(&struct{}{})
			if header != "" {
				req.Header().Set("Authorization", header)
			}
			_, err := handler(context.Background(), req)
			if connect.CodeOf(err) != connect.CodeUnauthenticated {
				t.Errorf("code = %v, want Unauthenticated", connect.CodeOf(err))
			}
		})
	}
}
