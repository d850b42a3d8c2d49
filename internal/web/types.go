package web

import (
	"time"

	"conspect-web/internal/models"
)

// Page is what the layout needs. RefreshURL, when set, makes the page redirect itself.
type Page struct {
	Title          string
	User           *models.User
	RefreshURL     string
	RefreshSeconds int
}

const (
	StatusInfo    = "info"
	StatusError   = "error"
	StatusSuccess = "success"
)

type Status struct {
	Kind    string
	Message string
}

type AudioToPDFPage struct {
	Page
	Status         *Status
	Pages          string
	Notes          string
	MaxPages       int
	MaxNotesLength int
	MaxFileSize    int64
}

type CallbackPage struct {
	Page
	Success bool
	Message string
}

// WithRefresh sets a timed redirect to url after delay, rounded up to whole seconds.
func (p Page) WithRefresh(url string, delay time.Duration) Page {
	seconds := int((delay + time.Second - 1) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	p.RefreshURL = url
	p.RefreshSeconds = seconds
	return p
}
