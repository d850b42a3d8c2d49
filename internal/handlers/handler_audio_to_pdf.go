package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"conspect-web/internal/middlewares"
	"conspect-web/internal/upload"
	"conspect-web/internal/web"
)

func audioToPDFPage(ctx *middlewares.AppContext, params upload.Params) web.AudioToPDFPage {
	limits := ctx.Uploads.Limits()
	params = params.WithDefaults()

	return web.AudioToPDFPage{
		Page:           basePage(ctx, "Audio to PDF"),
		Pages:          params.Pages,
		Notes:          params.Notes,
		MaxPages:       limits.MaxPages,
		MaxNotesLength: limits.MaxNotesLength,
		MaxFileSize:    limits.MaxFileSize,
	}
}

func GETAudioToPDFHandler(ctx *middlewares.AppContext) {
	ctx.RenderPage(http.StatusOK, web.PageAudioToPDF, audioToPDFPage(ctx, upload.Params{}))
}

// POSTAudioToPDFHandler handles the plain form submit. The PDF is sent back as a download,
// failures re-render the form with the error.
func POSTAudioToPDFHandler(ctx *middlewares.AppContext) {
	sub, err := upload.FromRequest(ctx.Request)
	if err != nil {
		renderUploadFailure(ctx, upload.Params{}, err)
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			ctx.Logger.Warn("failed to clean up multipart form", "error", err)
		}
	}()

	result, err := ctx.Uploads.Process(ctx.Request.Context(), sub.Audio, sub.Params)
	if err != nil {
		renderUploadFailure(ctx, sub.Params, err)
		return
	}

	pdf, err := base64.StdEncoding.DecodeString(result.PDFData)
	if err != nil {
		renderUploadFailure(ctx, sub.Params, &upload.ProcessingError{Err: err})
		return
	}

	h := ctx.Response.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", upload.DefaultFilename))
	h.Set("Content-Length", strconv.Itoa(len(pdf)))
	ctx.Response.WriteHeader(http.StatusOK)

	if _, err := ctx.Response.Write(pdf); err != nil {
		ctx.Logger.Warn("failed to write pdf to client", "error", err)
	}
}

func renderUploadFailure(ctx *middlewares.AppContext, params upload.Params, err error) {
	status := upload.StatusCode(err)
	if status >= http.StatusInternalServerError {
		ctx.Logger.Error("upload failed", "status", status, "error", err)
	}

	page := audioToPDFPage(ctx, params)
	page.Status = &web.Status{Kind: web.StatusError, Message: upload.Message(err)}

	ctx.RenderPage(status, web.PageAudioToPDF, page)
}
