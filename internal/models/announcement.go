package models

import (
	"errors"
	"strings"
)

// ErrAnnouncementTitleRequired is returned when an announcement has no title.
var ErrAnnouncementTitleRequired = errors.New("announcement title is required")

// Announcement is a notice shown on the dashboard.
type Announcement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"createdAt"`
}

func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrAnnouncementTitleRequired
	}
	return nil
}
