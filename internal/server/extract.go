package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expenselens/expense-tracker/constants"
)

// Extract accepts a receipt image upload and returns the extracted record.
// The caller always receives either a complete record (fields possibly null)
// or a diagnostic payload carrying whatever raw text was recovered — the raw
// text is the only debugging signal the caller gets, so it is never dropped.
func (s *Server) Extract(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty filename"})
		return
	}

	ext := filepath.Ext(file.Filename)
	if !constants.IsAllowedExt(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	// Collision-resistant temp name; the file is removed on every exit path.
	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		s.Logger.Error("save upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload", "raw_text": ""})
		return
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			s.Logger.Warn("temp file cleanup failed", "path", tempPath, "error", err)
		}
	}()

	ctx := c.Request.Context()

	text, err := s.OCR.Extract(ctx, tempPath)
	if err != nil {
		s.Logger.Error("ocr failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "text extraction failed: " + err.Error(), "raw_text": text})
		return
	}

	record := s.Extractor.Run(ctx, text)
	c.JSON(http.StatusOK, record)
}
