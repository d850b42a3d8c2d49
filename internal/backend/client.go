package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"conspect-web/internal/config"
	"conspect-web/internal/metrics"
)

// maxErrorBody bounds how much of a failed backend response is kept for the error message.
const maxErrorBody = 4 << 10

var ErrUnhealthy = errors.New("backend health check failed")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// SummaryRequest is one audio file plus generation parameters to forward to POST /audio.
type SummaryRequest struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Pages       string
	Notes       string
}

type Client struct {
	baseURL    *url.URL
	cfg        config.BackendConfig
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg config.BackendConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	if cfg.HealthPath == "" {
		cfg.HealthPath = config.DefaultBackendConfig.HealthPath
	}
	if cfg.AudioPath == "" {
		cfg.AudioPath = config.DefaultBackendConfig.AudioPath
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = config.DefaultBackendConfig.LoginPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultBackendConfig.Timeout
	}

	client := &Client{
		baseURL:    base,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

// HealthCheck issues GET on the configured health path. Any transport failure or non-2xx answer is an error.
func (c *Client) HealthCheck(ctx context.Context) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.cfg.HealthPath), nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(metrics.BackendOperationHealth, "error", start)
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	observe(metrics.BackendOperationHealth, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}

	return nil
}

// Summarize streams the audio to the backend as multipart/form-data and returns the PDF bytes.
func (c *Client) Summarize(ctx context.Context, sr SummaryRequest) ([]byte, error) {
	start := time.Now()

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeSummaryForm(writer, sr))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.cfg.AudioPath), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to build audio request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		observe(metrics.BackendOperationSummarize, "error", start)
		return nil, fmt.Errorf("audio request failed: %w", err)
	}
	defer resp.Body.Close()

	observe(metrics.BackendOperationSummarize, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	c.logger.Debug("backend returned pdf", "bytes", len(pdf), "duration", time.Since(start))

	return pdf, nil
}

// LoginURL is where the browser is sent to start the backend's Google login.
func (c *Client) LoginURL() string {
	return c.endpoint(c.cfg.LoginPath)
}

func writeSummaryForm(writer *multipart.Writer, sr SummaryRequest) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(sr.Filename)))
	contentType := sr.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}

	if sr.Body != nil {
		if _, err := io.Copy(part, sr.Body); err != nil {
			return fmt.Errorf("failed to copy audio: %w", err)
		}
	}

	if err := writer.WriteField("pages", sr.Pages); err != nil {
		return fmt.Errorf("failed to write pages field: %w", err)
	}

	if err := writer.WriteField("notes", sr.Notes); err != nil {
		return fmt.Errorf("failed to write notes field: %w", err)
	}

	return writer.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func observe(operation, status string, start time.Time) {
	metrics.BackendRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
