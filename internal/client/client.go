// Package client uploads recordings to a running conspect-web gateway and saves the returned notes.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"conspect-web/internal/upload"
)

const (
	uploadPath = "/api/upload"
	healthPath = "/api/v1/health"

	// UnknownError is shown when a failed response carries no readable error.
	UnknownError = "unknown error"

	// maxResponseBody bounds the JSON read back; PDFs arrive base64 encoded inside it.
	maxResponseBody = 256 << 20
)

// APIError is a non-OK answer from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upload failed (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds the whole upload, including the time the backend spends summarizing.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid gateway url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 15 * time.Minute},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// Health asks the gateway whether it is serving.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(healthPath), nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body); err != nil || resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "gateway is not healthy"}
	}
	if body.Status != "OK" {
		return &APIError{StatusCode: resp.StatusCode, Message: "gateway reported " + body.Status}
	}

	return nil
}

// Upload validates path, sends it with params to the gateway and returns the decoded result.
// progress is optional. A non-audio file fails with ErrNotAudio before any request is made.
func (c *Client) Upload(ctx context.Context, path string, params upload.Params, progress ProgressFunc) (*upload.Result, error) {
	rep := newReporter(progress)
	rep.report(Progress{Stage: StagePreparing, Percent: 0})

	file, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", file.Path, err)
	}
	defer f.Close()

	params = params.WithDefaults()

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)

	body := &countingReader{r: f, total: file.Size, reporter: rep}

	written := make(chan struct{})
	go func() {
		defer close(written)
		err := writeUploadForm(writer, file, body, params)
		if err == nil {
			rep.report(Progress{Stage: StageProcessing, Percent: percentProcessing, Sent: file.Size, Total: file.Size})
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadPath), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		<-written
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		<-written
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	_ = pr.Close()
	<-written

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	rep.report(Progress{Stage: StageDecoding, Percent: percentDecoding})

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	var result upload.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = UnknownError
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	rep.report(Progress{Stage: StageDone, Percent: percentDone})

	return &result, nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return UnknownError
	}
	return body.Error
}

func writeUploadForm(writer *multipart.Writer, file *File, body io.Reader, params upload.Params) error {
	if err := writer.WriteField(upload.FieldPages, params.Pages); err != nil {
		return fmt.Errorf("failed to write pages field: %w", err)
	}
	if err := writer.WriteField(upload.FieldNotes, params.Notes); err != nil {
		return fmt.Errorf("failed to write notes field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, upload.FieldAudio, quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", file.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create audio part: %w", err)
	}

	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("failed to copy audio: %w", err)
	}

	return writer.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
