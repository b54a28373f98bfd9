package models

import (
	"errors"
	"strings"
)

// ErrMemberNameRequired is returned when a member has no display name.
var ErrMemberNameRequired = errors.New("member name is required")

// Member is a person who can belong to arisan groups.
// Deleting a member removes it from every group's membership list.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// Name is the display name shown in tables and the draw.
	Name string `json:"name"`

	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`

	// JoinedAt is the Unix timestamp of the day the member joined the family arisan.
	JoinedAt int64 `json:"joinedAt"`

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64 `json:"createdAt"`
}

// Validate checks the required form fields.
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrMemberNameRequired
	}
	return nil
}
