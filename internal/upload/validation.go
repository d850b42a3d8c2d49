package upload

import (
	"fmt"
	"mime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// IsAudioType reports whether a declared content type is in the audio/* family.
func IsAudioType(contentType string) bool {
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "audio/")
}

func ValidateAudio(audio *Audio, limits Limits) error {
	if audio == nil || audio.Body == nil {
		return &ValidationError{Field: "audio", Message: ErrMissingFile.Error(), Err: ErrMissingFile}
	}

	if !IsAudioType(audio.ContentType) {
		return &ValidationError{Field: "audio", Message: ErrInvalidType.Error(), Err: ErrInvalidType}
	}

	if audio.Size == 0 {
		return &ValidationError{Field: "audio", Message: ErrEmptyFile.Error(), Err: ErrEmptyFile}
	}

	if limits.MaxFileSize > 0 && audio.Size > limits.MaxFileSize {
		return &ValidationError{
			Field:   "audio",
			Message: fmt.Sprintf("%s: maximum is %s", ErrFileTooLarge, humanize.IBytes(uint64(limits.MaxFileSize))),
			Err:     ErrFileTooLarge,
		}
	}

	return nil
}

func ValidateParams(params Params, limits Limits) error {
	params = params.WithDefaults()

	pages, err := strconv.Atoi(strings.TrimSpace(params.Pages))
	if err != nil {
		return &ValidationError{Field: "pages", Message: "pages must be a number", Err: ErrInvalidParams}
	}

	if pages < 1 || (limits.MaxPages > 0 && pages > limits.MaxPages) {
		return &ValidationError{
			Field:   "pages",
			Message: fmt.Sprintf("pages must be between 1 and %d", limits.MaxPages),
			Err:     ErrInvalidParams,
		}
	}

	if limits.MaxNotesLength > 0 && utf8.RuneCountInString(params.Notes) > limits.MaxNotesLength {
		return &ValidationError{
			Field:   "notes",
			Message: fmt.Sprintf("notes is too long (maximum %d characters)", limits.MaxNotesLength),
			Err:     ErrInvalidParams,
		}
	}

	return nil
}
