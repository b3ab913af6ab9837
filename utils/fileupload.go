package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// AllowedImageFormat is PNG
	AllowedImageFormat = ".png"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile checks that an uploaded coach photo is a PNG within the size limit
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != AllowedImageFormat {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", AllowedImageFormat),
		}
	}

	return nil
}

// StoredImageName builds a collision-free storage name for an upload, e.g.
// "0b6a3c1e-4f0e-4a43-9d53-6c2f1f0c9a11_coach-photo.png"
func StoredImageName(original string) string {
	base := unsafeFilenameChars.ReplaceAllString(filepath.Base(original), "_")
	return uuid.NewString() + "_" + base
}

// IsSafeFilename rejects names that could escape the upload directory
func IsSafeFilename(name string) bool {
	return name != "" &&
		!strings.Contains(name, "..") &&
		!strings.ContainsAny(name, `/\`)
}

// SaveUploadedFile writes an upload into uploadDir and returns the stored filename
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir string) (filename string, err error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename = StoredImageName(fileHeader.Filename)
	fullPath := filepath.Join(uploadDir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// LocalImagePath is the API path that serves a locally stored image
func LocalImagePath(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/uploads/%s", filename)
}
