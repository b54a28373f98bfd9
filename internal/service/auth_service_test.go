package service

import (
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	admin := register(t, ts, "sari@example.com")
	if admin.User.Role != models.RoleAdmin {
		t.Errorf("first user role = %s, want admin", admin.User.Role)
	}
	if admin.Token == "" {
		t.Error("expected token")
	}

	viewer := register(t, ts, "budi@example.com")
	if viewer.User.Role != models.RoleViewer {
		t.Errorf("second user role = %s, want viewer", viewer.User.Role)
	}

	login := mustCall[LoginRequest, AuthResponse](t, ts, "", AuthServiceLoginProcedure, &LoginRequest{
		Email:    "budi@example.com",
		Password: "password123",
	})
	if login.User.ID != viewer.User.ID {
		t.Errorf("login user = %s, want %s", login.User.ID, viewer.User.ID)
	}

	me := mustCall[GetCurrentUserRequest, GetCurrentUserResponse](t, ts, login.Token, AuthServiceGetCurrentUserProcedure, &GetCurrentUserRequest{})
	if me.User.Email != "budi@example.com" {
		t.Errorf("current user = %s", me.User.Email)
	}
}

func TestAuthErrors(t *testing.T) {
	ts := setupTestServer(t)
	register(t, ts, "sari@example.com")

	_, err := call[RegisterRequest, AuthResponse](t, ts, "", AuthServiceRegisterProcedure, &RegisterRequest{
		Email: "sari@example.com", Password: "password123",
	})
	wantCode(t, err, connect.CodeAlreadyExists)

	_, err = call[RegisterRequest, AuthResponse](t, ts, "", AuthServiceRegisterProcedure, &RegisterRequest{
		Email: "new@example.com", Password: "short",
	})
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = call[LoginRequest, AuthResponse](t, ts, "", AuthServiceLoginProcedure, &LoginRequest{
		Email: "sari@example.com", Password: "wrong-password",
	})
	wantCode(t, err, connect.CodeUnauthenticated)

	_, err = call[ListMembersRequest, ListMembersResponse](t, ts, "", MemberServiceListMembersProcedure, &ListMembersRequest{})
	wantCode(t, err, connect.CodeUnauthenticated)

	_, err = call[ListMembersRequest, ListMembersResponse](t, ts, "not-a-token", MemberServiceListMembersProcedure, &ListMembersRequest{})
	wantCode(t, err, connect.CodeUnauthenticated)
}
