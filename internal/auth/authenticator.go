// Package auth signs family members into the arisan dashboard. Accounts carry a
// role: admins manage members, groups, settings and payments; viewers only read.
package auth

import (
	"context"

	"github.com/mmynk/arisan/internal/models"
)

// Authenticator creates and checks dashboard accounts.
type Authenticator interface {
	// Register creates an account. The first account in an empty database is
	// the admin; every later one starts as a viewer.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
