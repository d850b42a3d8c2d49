package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"conspect-web/internal/backend"
	"conspect-web/internal/metrics"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

//go:generate mockgen -source=relay.go -destination=../mocks/backend.go -package=mocks

type Backend interface {
	HealthCheck(ctx context.Context) error
	Summarize(ctx context.Context, req backend.SummaryRequest) ([]byte, error)
}

const successMessage = "Audio processed and converted to PDF successfully"

type Relay struct {
	backend Backend
	limits  Limits
	logger  *slog.Logger
}

func NewRelay(b Backend, limits Limits, logger *slog.Logger) *Relay {
	return &Relay{
		backend: b,
		limits:  limits,
		logger:  logger,
	}
}

func (r *Relay) Limits() Limits {
	return r.limits
}

// Process validates the upload, confirms the backend is reachable and forwards the audio.
// The PDF bytes come back untouched, base64 encoded in Result.PDFData.
func (r *Relay) Process(ctx context.Context, audio *Audio, params Params) (result *Result, err error) {
	start := time.Now()
	params = params.WithDefaults()

	logger := r.logger.With("upload_id", uuid.NewString())

	defer func() {
		metrics.UploadsTotal.WithLabelValues(outcome(err)).Inc()
	}()

	if err := ValidateAudio(audio, r.limits); err != nil {
		logger.Info("rejected upload", "field", "audio", "error", err)
		return nil, err
	}

	if err := ValidateParams(params, r.limits); err != nil {
		logger.Info("rejected upload", "field", "params", "error", err)
		return nil, err
	}

	logger = logger.With("filename", audio.Filename, "size", audio.Size, "type", audio.ContentType)
	logger.Info("forwarding audio to backend", "human_size", humanize.IBytes(uint64(audio.Size)), "pages", params.Pages)

	if err := r.backend.HealthCheck(ctx); err != nil {
		logger.Warn("backend health check failed", "error", err)
		return nil, &unavailableError{cause: err}
	}

	pdf, err := r.backend.Summarize(ctx, backend.SummaryRequest{
		Filename:    audio.Filename,
		ContentType: audio.ContentType,
		Body:        audio.Body,
		Pages:       params.Pages,
		Notes:       params.Notes,
	})
	if err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			logger.Error("backend rejected audio", "status", statusErr.StatusCode, "error", statusErr.Body)
			return nil, &BackendError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}

		logger.Error("failed to process audio", "error", err)
		return nil, &ProcessingError{Err: err}
	}

	metrics.UploadSizeBytes.Observe(float64(audio.Size))
	logger.Info("pdf generated", "pdf_size", len(pdf), "duration", time.Since(start))

	return &Result{
		Success:  true,
		Filename: audio.Filename,
		Size:     audio.Size,
		Type:     audio.ContentType,
		PDFData:  base64.StdEncoding.EncodeToString(pdf),
		Message:  successMessage,
	}, nil
}
