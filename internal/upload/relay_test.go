package upload_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conspect-web/internal/backend"
	"conspect-web/internal/config"
	"conspect-web/internal/mocks"
	"conspect-web/internal/testutil"
	"conspect-web/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLimits() upload.Limits {
	return upload.LimitsFromConfig(config.UploadConfig{})
}

func testAudio(body []byte) *upload.Audio {
	return &upload.Audio{
		Filename:    "lecture.mp3",
		ContentType: "audio/mpeg",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}

func TestRelay_ShouldRelayPDFBytesUnchanged(t *testing.T) {
	pdf := make([]byte, 64*1024)
	_, err := rand.Read(pdf)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusOK)
		case "/audio":
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(pdf)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := backend.NewClient(config.BackendConfig{URL: srv.URL, Timeout: 5 * time.Second}, discardLogger())
	require.NoError(t, err)

	relay := upload.NewRelay(client, testLimits(), discardLogger())

	result, err := relay.Process(context.Background(), testAudio([]byte("ID3 audio bytes")), upload.Params{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "lecture.mp3", result.Filename)
	assert.Equal(t, "audio/mpeg", result.Type)
	assert.Equal(t, int64(len("ID3 audio bytes")), result.Size)
	assert.NotEmpty(t, result.Message)

	decoded, err := base64.StdEncoding.DecodeString(result.PDFData)
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
}

func TestRelay_ShouldApplyDefaultParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	mockBackend.EXPECT().HealthCheck(gomock.Any()).Return(nil)
	mockBackend.EXPECT().Summarize(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req backend.SummaryRequest) ([]byte, error) {
			assert.Equal(t, "1", req.Pages)
			assert.Equal(t, "", req.Notes)
			assert.Equal(t, "lecture.mp3", req.Filename)
			return []byte("%PDF"), nil
		})

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	_, err := relay.Process(context.Background(), testAudio([]byte("abc")), upload.Params{})
	assert.NoError(t, err)
}

func TestRelay_ShouldRejectMissingFileWithoutContactingBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	_, err := relay.Process(context.Background(), nil, upload.Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrMissingFile)
	assert.Equal(t, http.StatusBadRequest, upload.StatusCode(err))
}

func TestRelay_ShouldRejectNonAudio(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	audio := testAudio([]byte("hello"))
	audio.ContentType = "text/plain"

	_, err := relay.Process(context.Background(), audio, upload.Params{})
	assert.ErrorIs(t, err, upload.ErrInvalidType)
	assert.Equal(t, http.StatusBadRequest, upload.StatusCode(err))
	assert.Equal(t, "invalid file type", upload.Message(err))
}

func TestRelay_ShouldReturn503WhenHealthCheckFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	mockBackend.EXPECT().HealthCheck(gomock.Any()).Return(errors.New("connection refused"))

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	_, err := relay.Process(context.Background(), testAudio([]byte("abc")), upload.Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrBackendUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, upload.StatusCode(err))
	assert.Equal(t, "backend unavailable: connection refused", upload.Message(err))
}

func TestRelay_ShouldRelayBackendStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	mockBackend.EXPECT().HealthCheck(gomock.Any()).Return(nil)
	mockBackend.EXPECT().Summarize(gomock.Any(), gomock.Any()).
		Return(nil, &backend.StatusError{StatusCode: http.StatusUnprocessableEntity, Body: "bad audio"})

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	_, err := relay.Process(context.Background(), testAudio([]byte("abc")), upload.Params{Pages: "2"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, upload.StatusCode(err))
	assert.Equal(t, "Backend error: 422 - bad audio", upload.Message(err))
}

func TestRelay_ShouldReturn500OnTransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	mockBackend.EXPECT().HealthCheck(gomock.Any()).Return(nil)
	mockBackend.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return(nil, errors.New("stream reset"))

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	_, err := relay.Process(context.Background(), testAudio([]byte("abc")), upload.Params{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, upload.StatusCode(err))
	assert.Equal(t, "error processing audio: stream reset", upload.Message(err))
}

func TestRelay_ShouldRejectInvalidParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	relay := upload.NewRelay(mockBackend, testLimits(), discardLogger())

	_, err := relay.Process(context.Background(), testAudio([]byte("abc")), upload.Params{Pages: "51"})
	assert.ErrorIs(t, err, upload.ErrInvalidParams)
	assert.Equal(t, http.StatusBadRequest, upload.StatusCode(err))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"missing file", &upload.ValidationError{Err: upload.ErrMissingFile}, http.StatusBadRequest},
		{"too large", &upload.ValidationError{Err: upload.ErrFileTooLarge}, http.StatusRequestEntityTooLarge},
		{"max bytes", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"unavailable", fmt.Errorf("%w: x", upload.ErrBackendUnavailable), http.StatusServiceUnavailable},
		{"backend 404", &upload.BackendError{StatusCode: 404}, http.StatusNotFound},
		{"backend 500", &upload.BackendError{StatusCode: 500}, http.StatusInternalServerError},
		{"backend redirect", &upload.BackendError{StatusCode: 302}, http.StatusBadGateway},
		{"generic", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, upload.StatusCode(tt.err))
		})
	}
}

func TestRelay_ShouldTagLogsWithUploadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)
	mockBackend.EXPECT().HealthCheck(gomock.Any()).Return(errors.New("connection refused"))

	logs := testutil.NewTestLogHandler()
	relay := upload.NewRelay(mockBackend, testLimits(), slog.New(logs))

	_, err := relay.Process(context.Background(), testAudio([]byte("abc")), upload.Params{})
	require.Error(t, err)

	forwarding, ok := logs.FindRecord(slog.LevelInfo, "forwarding audio to backend")
	require.True(t, ok)
	failed, ok := logs.FindRecord(slog.LevelWarn, "backend health check failed")
	require.True(t, ok)

	uploadID, ok := forwarding.Attrs["upload_id"].(string)
	require.True(t, ok, "upload_id missing: %v", forwarding.Attrs)
	assert.NotEmpty(t, uploadID)
	assert.Equal(t, uploadID, failed.Attrs["upload_id"])
	assert.Equal(t, "lecture.mp3", failed.Attrs["filename"])
	assert.Equal(t, "1", forwarding.Attrs["pages"])
}
