package handlers

import (
	"net/http"
	"testing"

	"conspect-web/internal/testutil"
	"conspect-web/internal/upload"
	"conspect-web/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testLimits = upload.Limits{MaxFileSize: 100 << 20, MaxPages: 50, MaxNotesLength: 1000}

func TestAudioToPDFHandler_GETRendersForm(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/audio-to-pdf")
	defer tc.Finish()

	tc.ExpectSessionGetUser(nil, false)
	tc.MockUploads.EXPECT().Limits().Return(testLimits)

	var rendered any
	tc.ExpectRender(web.PageAudioToPDF, &rendered)

	tc.CallHandler(GETAudioToPDFHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "text/html; charset=utf-8")

	page, ok := rendered.(web.AudioToPDFPage)
	require.True(t, ok)
	assert.Equal(t, "1", page.Pages)
	assert.Equal(t, 50, page.MaxPages)
	assert.Nil(t, page.Status)
}

func TestAudioToPDFHandler_POSTReturnsAttachment(t *testing.T) {
	tc := newUploadContext(t, "/audio-to-pdf", &formFile{"talk.wav", "audio/wav", []byte("RIFF")}, map[string]string{"pages": "2"})
	defer tc.Finish()

	tc.MockUploads.EXPECT().Process(gomock.Any(), gomock.Any(), upload.Params{Pages: "2"}).
		Return(&upload.Result{Success: true, PDFData: "JVBERi0xLjQ="}, nil)

	tc.CallHandler(POSTAudioToPDFHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "application/pdf")
	tc.AssertHeader(t, "Content-Disposition", `attachment; filename="notes.pdf"`)
	assert.Equal(t, "%PDF-1.4", tc.GetResponseBody())
}

func TestAudioToPDFHandler_POSTRerendersOnFailure(t *testing.T) {
	tc := newUploadContext(t, "/audio-to-pdf", &formFile{"notes.txt", "text/plain", []byte("hi")}, map[string]string{"pages": "4", "notes": "keep"})
	defer tc.Finish()

	tc.MockUploads.EXPECT().Process(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &upload.ValidationError{Field: "audio", Message: "invalid file type", Err: upload.ErrInvalidType})
	tc.MockUploads.EXPECT().Limits().Return(testLimits)
	tc.ExpectSessionGetUser(nil, false)

	var rendered any
	tc.ExpectRender(web.PageAudioToPDF, &rendered)

	tc.CallHandler(POSTAudioToPDFHandler)

	tc.AssertStatus(t, http.StatusBadRequest)

	page, ok := rendered.(web.AudioToPDFPage)
	require.True(t, ok)
	require.NotNil(t, page.Status)
	assert.Equal(t, web.StatusError, page.Status.Kind)
	assert.Equal(t, "invalid file type", page.Status.Message)
	assert.Equal(t, "4", page.Pages)
	assert.Equal(t, "keep", page.Notes)
}
