package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// PermitConstraints returns the validation rules for application permit
// uploads: common document, PDF and archive formats. Office documents in the
// OOXML/ODF families sniff as zip archives, which are allow-listed anyway;
// legacy formats sniff as octet-stream and fall back to the declared type.
func PermitConstraints(maxSize int64) FileConstraints {
	return FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"application/pdf":              true,
			"application/zip":              true,
			"application/x-rar-compressed": true,
			"application/x-gzip":           true,
			"application/msword":           true,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
			"application/vnd.oasis.opendocument.text":                                 true,
		},
		AllowedExtensions: map[string]bool{
			".pdf":  true,
			".doc":  true,
			".docx": true,
			".odt":  true,
			".zip":  true,
			".rar":  true,
			".gz":   true,
		},
		MaxSize: maxSize,
	}
}

// ValidateFile validates an uploaded file against a constraint set. The
// returned error message names the offending content type or the size limit,
// since it is surfaced directly to the end user.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) error {
	// Check file size first (before reading content)
	if header.Size > constraints.MaxSize {
		maxMB := float64(constraints.MaxSize) / float64(1<<20)
		return fmt.Errorf("file too large: maximum size is %.1f MB", maxMB)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Read first 512 bytes for magic number detection
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Reset file pointer for later use by the caller
	seeker, ok := file.(io.Seeker)
	if ok {
		_, err = seeker.Seek(0, 0)
		if err != nil {
			return fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	// Detect actual content type from file content (magic numbers); the
	// Content-Type header alone is trivially forged.
	detectedType := stripParams(http.DetectContentType(buffer[:n]))

	if !constraints.AllowedMimeTypes[detectedType] {
		// Legacy office formats have no sniff entry and detect as
		// octet-stream; fall back to the declared type before rejecting.
		declared := stripParams(header.Header.Get("Content-Type"))
		if detectedType != "application/octet-stream" || !constraints.AllowedMimeTypes[declared] {
			return fmt.Errorf("invalid file type: %s", detectedType)
		}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}

func stripParams(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
