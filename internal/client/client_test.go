package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"conspect-web/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakePDF = []byte("%PDF-1.4\n% conspect test document\n%%EOF")

// id3Audio starts with an ID3 tag so content sniffing reports audio/mpeg.
var id3Audio = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 4096)...)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

type recordedUpload struct {
	pages, notes, filename, contentType string
	audio                               []byte
}

func newGateway(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c, &hits
}

func successHandler(t *testing.T, got *recordedUpload) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, uploadPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile(upload.FieldAudio)
		require.NoError(t, err)
		defer file.Close()

		audio, err := io.ReadAll(file)
		require.NoError(t, err)

		*got = recordedUpload{
			pages:       r.FormValue(upload.FieldPages),
			notes:       r.FormValue(upload.FieldNotes),
			filename:    header.Filename,
			contentType: header.Header.Get("Content-Type"),
			audio:       audio,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(upload.Result{
			Success:  true,
			Filename: header.Filename,
			Size:     int64(len(audio)),
			Type:     header.Header.Get("Content-Type"),
			PDFData:  base64.StdEncoding.EncodeToString(fakePDF),
			Message:  "ok",
		})
	}
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)

	_, err = New("http://localhost:8080/")
	assert.NoError(t, err)
}

func TestValidateFile(t *testing.T) {
	t.Run("audio by extension", func(t *testing.T) {
		path := writeTempFile(t, "lecture.mp3", []byte("not really mp3 data"))

		file, err := ValidateFile(path)
		require.NoError(t, err)
		assert.Equal(t, "lecture.mp3", file.Name)
		assert.True(t, upload.IsAudioType(file.ContentType))
		assert.EqualValues(t, 19, file.Size)
	})

	t.Run("audio by content", func(t *testing.T) {
		path := writeTempFile(t, "recording", id3Audio)

		file, err := ValidateFile(path)
		require.NoError(t, err)
		assert.Equal(t, "audio/mpeg", file.ContentType)
	})

	t.Run("text file", func(t *testing.T) {
		path := writeTempFile(t, "notes.txt", []byte("just some notes"))

		_, err := ValidateFile(path)
		assert.ErrorIs(t, err, ErrNotAudio)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ValidateFile(t.TempDir())
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ValidateFile(filepath.Join(t.TempDir(), "gone.mp3"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestUpload_RejectsNonAudioBeforeRequest(t *testing.T) {
	c, hits := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	path := writeTempFile(t, "slides.txt", []byte("hello"))

	_, err := c.Upload(context.Background(), path, upload.Params{}, nil)

	assert.ErrorIs(t, err, ErrNotAudio)
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestUpload_SendsFormAndReportsProgress(t *testing.T) {
	var got recordedUpload
	c, _ := newGateway(t, successHandler(t, &got))
	path := writeTempFile(t, "lecture", id3Audio)

	var events []Progress
	result, err := c.Upload(context.Background(), path, upload.Params{Pages: "3", Notes: "focus on dates"}, func(p Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	assert.Equal(t, "3", got.pages)
	assert.Equal(t, "focus on dates", got.notes)
	assert.Equal(t, "lecture", got.filename)
	assert.Equal(t, "audio/mpeg", got.contentType)
	assert.Equal(t, id3Audio, got.audio)

	assert.True(t, result.Success)
	pdf, err := DecodePDF(result)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, pdf)

	require.NotEmpty(t, events)
	assert.Equal(t, Progress{Stage: StagePreparing, Percent: 0}, events[0])
	assert.Equal(t, Progress{Stage: StageDone, Percent: 100}, events[len(events)-1])

	stages := map[Stage]int{}
	for i, e := range events {
		stages[e.Stage] = e.Percent
		if i > 0 {
			assert.GreaterOrEqual(t, e.Percent, events[i-1].Percent, "progress went backwards at %d", i)
		}
		if e.Stage == StageUploading {
			assert.LessOrEqual(t, e.Percent, 60)
		}
	}
	assert.Contains(t, stages, StageUploading)
	assert.Equal(t, 60, stages[StageProcessing])
	assert.Equal(t, 90, stages[StageDecoding])
}

func TestUpload_DefaultsPages(t *testing.T) {
	var got recordedUpload
	c, _ := newGateway(t, successHandler(t, &got))
	path := writeTempFile(t, "lecture.mp3", id3Audio)

	_, err := c.Upload(context.Background(), path, upload.Params{}, nil)
	require.NoError(t, err)

	assert.Equal(t, upload.DefaultPages, got.pages)
	assert.Empty(t, got.notes)
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"json error", http.StatusServiceUnavailable, `{"error":"backend unavailable"}`, "backend unavailable"},
		{"not json", http.StatusInternalServerError, "upstream exploded", UnknownError},
		{"json without error", http.StatusBadGateway, `{"detail":"x"}`, UnknownError},
		{"unsuccessful result", http.StatusOK, `{"success":false}`, UnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			path := writeTempFile(t, "lecture.mp3", id3Audio)

			_, err := c.Upload(context.Background(), path, upload.Params{}, nil)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	c, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, healthPath, r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	})
	assert.NoError(t, c.Health(context.Background()))

	down, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	var apiErr *APIError
	require.ErrorAs(t, down.Health(context.Background()), &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestSavePDF(t *testing.T) {
	result := &upload.Result{Success: true, PDFData: base64.StdEncoding.EncodeToString(fakePDF)}

	t.Run("into directory", func(t *testing.T) {
		dir := t.TempDir()

		path, written, err := SavePDF(result, dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "notes.pdf"), path)
		assert.Equal(t, len(fakePDF), written)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, fakePDF, data)
	})

	t.Run("explicit file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "week1.pdf")

		path, written, err := SavePDF(result, target)
		require.NoError(t, err)
		assert.Equal(t, target, path)
		assert.Equal(t, len(fakePDF), written)
	})

	t.Run("no data", func(t *testing.T) {
		_, written, err := SavePDF(&upload.Result{}, t.TempDir())
		assert.ErrorIs(t, err, ErrNoPDF)
		assert.Zero(t, written)
	})

	t.Run("corrupt data", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "broken.pdf")

		_, _, err := SavePDF(&upload.Result{Success: true, PDFData: "not base64!"}, target)
		assert.ErrorContains(t, err, "failed to decode pdf data")
		assert.NoFileExists(t, target)
	})
}

func TestUploadPercent(t *testing.T) {
	assert.Equal(t, 0, uploadPercent(0, 100))
	assert.Equal(t, 30, uploadPercent(50, 100))
	assert.Equal(t, 60, uploadPercent(100, 100))
	assert.Equal(t, 60, uploadPercent(0, 0))
}
