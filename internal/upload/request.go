package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

const (
	FieldAudio = "audio"
	FieldPages = "pages"
	FieldNotes = "notes"
)

// defaultMaxMemory is how much of a multipart body is kept in memory before spilling to disk.
const defaultMaxMemory = 32 << 20

// Submission is an upload read off an incoming request. Close releases the temporary files.
type Submission struct {
	Audio  *Audio
	Params Params

	file multipart.File
	form *multipart.Form
}

func (s *Submission) Close() error {
	var errs []error
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	if s.form != nil {
		errs = append(errs, s.form.RemoveAll())
	}
	return errors.Join(errs...)
}

// FromRequest reads the audio file and parameters from a multipart/form-data request.
// A request without a multipart body is treated as one without a file.
func FromRequest(r *http.Request) (*Submission, error) {
	if err := r.ParseMultipartForm(defaultMaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, &ValidationError{Field: FieldAudio, Message: ErrMissingFile.Error(), Err: ErrMissingFile}
		case errors.As(err, &maxBytesErr):
			return nil, &ValidationError{
				Field:   FieldAudio,
				Message: fmt.Sprintf("%s: request exceeds %d bytes", ErrFileTooLarge, maxBytesErr.Limit),
				Err:     ErrFileTooLarge,
			}
		default:
			return nil, &ProcessingError{Err: err}
		}
	}

	params := Params{
		Pages: r.FormValue(FieldPages),
		Notes: r.FormValue(FieldNotes),
	}.WithDefaults()

	file, header, err := r.FormFile(FieldAudio)
	if err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &ValidationError{Field: FieldAudio, Message: ErrMissingFile.Error(), Err: ErrMissingFile}
		}
		return nil, &ProcessingError{Err: err}
	}

	return &Submission{
		Audio: &Audio{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		},
		Params: params,
		file:   file,
		form:   r.MultipartForm,
	}, nil
}
