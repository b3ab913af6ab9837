package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileHeader builds a multipart.FileHeader; size overrides the reported size
func newFileHeader(t *testing.T, filename string, size int64, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.NotEmpty(t, form.File["image"])
	fh := form.File["image"][0]
	fh.Size = size
	return fh
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"png under limit", "coach.png", 128, ""},
		{"uppercase extension", "coach.PNG", 128, ""},
		{"exactly at limit", "coach.png", MaxFileSize, ""},
		{"too large", "coach.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
		{"jpg", "coach.jpg", 128, "INVALID_FILE_FORMAT"},
		{"gif", "coach.gif", 128, "INVALID_FILE_FORMAT"},
		{"no extension", "coach", 128, "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageFile(newFileHeader(t, tt.filename, tt.size, []byte("png bytes")))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var uploadErr *FileUploadError
			require.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantCode, uploadErr.Code)
		})
	}
}

func TestStoredImageName(t *testing.T) {
	name := StoredImageName("../My Photo (1).png")

	assert.True(t, IsSafeFilename(name), "stored name %q must be safe", name)
	assert.True(t, strings.HasSuffix(name, "_My_Photo_1_.png"), name)
	assert.NotEqual(t, name, StoredImageName("../My Photo (1).png"))
}

func TestIsSafeFilename(t *testing.T) {
	assert.True(t, IsSafeFilename("123_coach.png"))
	assert.False(t, IsSafeFilename(""))
	assert.False(t, IsSafeFilename("../secret.png"))
	assert.False(t, IsSafeFilename("a/b.png"))
	assert.False(t, IsSafeFilename(`a\b.png`))
}

func TestSaveUploadedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	content := []byte("\x89PNG fake image")

	name, err := SaveUploadedFile(newFileHeader(t, "coach.png", int64(len(content)), content), dir)
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestLocalImagePath(t *testing.T) {
	assert.Equal(t, "", LocalImagePath(""))
	assert.Equal(t, "/api/uploads/1_coach.png", LocalImagePath("1_coach.png"))
}
