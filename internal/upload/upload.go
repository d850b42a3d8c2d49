package upload

import (
	"io"

	"conspect-web/internal/config"
)

const (
	DefaultPages = "1"
	// DefaultFilename is what the generated PDF is saved as when no other name is given.
	DefaultFilename = "notes.pdf"
)

type Params struct {
	Pages string
	Notes string
}

// WithDefaults fills in the parameters the client left out.
func (p Params) WithDefaults() Params {
	if p.Pages == "" {
		p.Pages = DefaultPages
	}
	return p
}

type Audio struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Result struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	PDFData  string `json:"pdfData"`
	Message  string `json:"message"`
}

type Limits struct {
	MaxFileSize    int64
	MaxPages       int
	MaxNotesLength int
}

func LimitsFromConfig(cfg config.UploadConfig) Limits {
	limits := Limits{
		MaxFileSize:    cfg.MaxFileSize,
		MaxPages:       cfg.MaxPages,
		MaxNotesLength: cfg.MaxNotesLength,
	}

	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = config.DefaultUploadConfig.MaxFileSize
	}
	if limits.MaxPages <= 0 {
		limits.MaxPages = config.DefaultUploadConfig.MaxPages
	}
	if limits.MaxNotesLength <= 0 {
		limits.MaxNotesLength = config.DefaultUploadConfig.MaxNotesLength
	}

	return limits
}
