package middlewares

import (
	"context"
	"io"

	"conspect-web/internal/upload"
)

//go:generate mockgen -source=upload_processor.go -destination=../mocks/upload.go -package=mocks

type UploadProcessor interface {
	Process(ctx context.Context, audio *upload.Audio, params upload.Params) (*upload.Result, error)
	Limits() upload.Limits
}

type PageRenderer interface {
	Render(w io.Writer, page string, data any) error
}
