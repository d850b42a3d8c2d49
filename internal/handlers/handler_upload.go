package handlers

import (
	"net/http"

	"conspect-web/internal/middlewares"
	"conspect-web/internal/upload"
)

// POSTUploadHandler is the proxy route: multipart audio in, base64 PDF out as JSON.
func POSTUploadHandler(ctx *middlewares.AppContext) {
	sub, err := upload.FromRequest(ctx.Request)
	if err != nil {
		writeUploadError(ctx, err)
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			ctx.Logger.Warn("failed to clean up multipart form", "error", err)
		}
	}()

	result, err := ctx.Uploads.Process(ctx.Request.Context(), sub.Audio, sub.Params)
	if err != nil {
		writeUploadError(ctx, err)
		return
	}

	ctx.WriteJSON(http.StatusOK, result)
}

func writeUploadError(ctx *middlewares.AppContext, err error) {
	status := upload.StatusCode(err)
	if status >= http.StatusInternalServerError {
		ctx.Logger.Error("upload failed", "status", status, "error", err)
	} else {
		ctx.Logger.Debug("upload rejected", "status", status, "error", err)
	}

	ctx.SetJSONError(status, upload.Message(err))
}
