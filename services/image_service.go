package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/kendall-kelly/coach-booking-api/config"
	"github.com/kendall-kelly/coach-booking-api/logger"
	"github.com/kendall-kelly/coach-booking-api/utils"
)

// ImageService stores coach profile photos
type ImageService interface {
	// UploadImage validates and stores a PNG, returning its storage key
	UploadImage(fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL turns a storage key into a URL a client can fetch
	GetImageURL(imageKey string) (string, error)

	// DeleteImage removes a stored image; unknown keys are not an error
	DeleteImage(imageKey string) error
}

var imageServiceInstance ImageService

// InitImageService picks S3 when a bucket is configured, local disk otherwise
func InitImageService(cfg *config.Config) (ImageService, error) {
	if cfg.ImageStorageEnabled() {
		s3Service, err := NewS3Service(cfg)
		if err != nil {
			return nil, err
		}
		imageServiceInstance = NewS3ImageService(s3Service)
		logger.Get().WithField("bucket", cfg.AWSS3Bucket).Info("Coach images stored in S3")
	} else {
		imageServiceInstance = NewLocalImageService(cfg.UploadDir)
		logger.Get().WithField("dir", cfg.UploadDir).Info("Coach images stored on local disk")
	}
	return imageServiceInstance, nil
}

// GetImageService returns the configured image service, or nil
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService replaces the image service (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// S3ImageService keeps images in S3 and hands out presigned URLs
type S3ImageService struct {
	s3 S3Interface
}

// NewS3ImageService wraps an S3 backend
func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3: s3Service}
}

func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	key, err := s.s3.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

func (s *S3ImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	url, err := s.s3.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

func (s *S3ImageService) DeleteImage(imageKey string) error {
	if err := s.s3.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// LocalImageService keeps images in a directory served by GET /api/uploads/:filename
type LocalImageService struct {
	dir string
}

// NewLocalImageService stores images under dir
func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// Dir is the directory images are written to
func (s *LocalImageService) Dir() string {
	return s.dir
}

func (s *LocalImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	return utils.SaveUploadedFile(fileHeader, s.dir)
}

func (s *LocalImageService) GetImageURL(imageKey string) (string, error) {
	return utils.LocalImagePath(imageKey), nil
}

func (s *LocalImageService) DeleteImage(imageKey string) error {
	if !utils.IsSafeFilename(imageKey) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, imageKey))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
