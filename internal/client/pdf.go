package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"conspect-web/internal/upload"
)

var ErrNoPDF = errors.New("result carries no pdf data")

// DecodePDF returns the raw PDF bytes carried in the result.
func DecodePDF(result *upload.Result) ([]byte, error) {
	if result == nil || result.PDFData == "" {
		return nil, ErrNoPDF
	}

	pdf, err := base64.StdEncoding.DecodeString(result.PDFData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pdf data: %w", err)
	}

	return pdf, nil
}

// SavePDF writes the result's PDF to path and returns where it was written and how many bytes.
// An empty path or a directory saves as notes.pdf.
func SavePDF(result *upload.Result, path string) (string, int, error) {
	pdf, err := DecodePDF(result)
	if err != nil {
		return "", 0, err
	}

	target := outputPath(path)
	if err := os.WriteFile(target, pdf, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", target, err)
	}

	return target, len(pdf), nil
}

func outputPath(path string) string {
	if path == "" {
		return upload.DefaultFilename
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, upload.DefaultFilename)
	}
	return path
}
