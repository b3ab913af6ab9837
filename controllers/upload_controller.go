package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/coach-booking-api/utils"
)

// UploadController serves coach photos kept on local disk
type UploadController struct {
	dir string
}

func NewUploadController(dir string) *UploadController {
	return &UploadController{dir: dir}
}

// GetUploadedImage handles GET /api/uploads/:filename
func (ctl *UploadController) GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename", nil)
		return
	}
	if strings.ToLower(filepath.Ext(filename)) != utils.AllowedImageFormat {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG files are supported", nil)
		return
	}

	path := filepath.Join(ctl.dir, filename)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found", nil)
		return
	}

	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
