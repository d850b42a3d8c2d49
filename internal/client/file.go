package client

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"conspect-web/internal/upload"
)

var ErrNotAudio = errors.New("file is not an audio file")

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// audioExtensions covers common recordings on systems without a mime.types database.
var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".weba": "audio/webm",
}

// File is a local recording that passed ValidateFile.
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// ValidateFile checks that path is a regular file whose type is in the audio family.
// The type comes from the extension and falls back to sniffing the first bytes.
func ValidateFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	contentType, err := detectContentType(path)
	if err != nil {
		return nil, err
	}

	if !upload.IsAudioType(contentType) {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotAudio, filepath.Base(path), contentType)
	}

	return &File{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

func detectContentType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct, nil
	}
	if ct, ok := audioExtensions[ext]; ok {
		return ct, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}

	return http.DetectContentType(head[:n]), nil
}
