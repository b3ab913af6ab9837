package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockS3Service is an in-memory S3Interface for tests
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string][]byte
	// FailUploads makes every UploadFile call return an error
	FailUploads bool
}

// NewMockS3Service creates an empty in-memory bucket
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{objects: make(map[string][]byte)}
}

func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	if m.FailUploads {
		return "", fmt.Errorf("mock upload failure")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := coachImagePrefix + "mock_" + fileHeader.Filename
	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()
	return key, nil
}

func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}
	if !m.Exists(s3Key) {
		return "", fmt.Errorf("object not found in mock bucket: %s", s3Key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

func (m *MockS3Service) DeleteFile(s3Key string) error {
	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()
	return nil
}

// Exists reports whether key is in the mock bucket
func (m *MockS3Service) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Keys lists every stored key
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// UseMockImageStorage installs an S3-backed image service over a fresh mock
// bucket and returns the bucket plus a restore func
func UseMockImageStorage() (*MockS3Service, func()) {
	previous := GetImageService()
	bucket := NewMockS3Service()
	SetImageService(NewS3ImageService(bucket))
	return bucket, func() { SetImageService(previous) }
}
