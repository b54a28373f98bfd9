package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/arisan/internal/models"
)

type memoryUsers struct {
	byEmail map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) CountUsers(context.Context) (int, error) {
	return len(m.byEmail), nil
}

func newTestAuthenticator() *PasswordAuthenticator {
	a := NewPasswordAuthenticator(newMemoryUsers())
	a.cost = bcrypt.MinCost
	return a
}

func TestRegisterRoles(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	first, err := a.Register(ctx, "Admin@Example.com ", "Ibu Sari", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if first.Role != models.RoleAdmin {
		t.Errorf("first user role = %s, want admin", first.Role)
	}
	if first.Email != "admin@example.com" {
		t.Errorf("email = %q, want normalized", first.Email)
	}

	second, err := a.Register(ctx, "budi@example.com", "", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if second.Role != models.RoleViewer {
		t.Errorf("second user role = %s, want viewer", second.Role)
	}
	if second.DisplayName != "budi@example.com" {
		t.Errorf("DisplayName = %q, want email fallback", second.DisplayName)
	}
}

func TestRegisterErrors(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	if _, err := a.Register(ctx, "sari@example.com", "Sari", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"weak password", "new@example.com", "short", ErrWeakPassword},
		{"duplicate email", "SARI@example.com", "password123", ErrEmailExists},
		{"missing email", "  ", "password123", ErrEmailRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, "", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	if _, err := a.Register(ctx, "sari@example.com", "Sari", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := a.Authenticate(ctx, "sari@example.com", "password123"); err != nil {
		t.Errorf("Authenticate failed: %v", err)
	}
	if _, err := a.Authenticate(ctx, "sari@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("sari@example.com", "Sari", "", models.RoleAdmin)

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token error = %v, want ErrInvalidToken", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	token, err = expired.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}
