package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/jielong/internal/backup"
)

// ExportBackup streams the whole-state snapshot as a downloadable JSON
// document with a date-stamped filename.
func (s *Server) ExportBackup(c *gin.Context) {
	doc := s.backupSvc.Export(c.Request.Context())
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(s.backupSvc.ExportFilename())))
	c.JSON(http.StatusOK, doc)
}

// maxImportBytes bounds an uploaded backup document. Real exports are a
// few hundred KB at most.
const maxImportBytes = 10 << 20

// ImportBackup replaces all stores from an uploaded document. The overwrite
// is destructive, so it is gated behind an explicit confirm=true query
// parameter; without it nothing is read or mutated.
func (s *Server) ImportBackup(c *gin.Context) {
	if c.Query("confirm") != "true" {
		AbortWithError(c, ErrConfirmationRequired)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		AbortWithError(c, backup.ErrInvalidDocument)
		return
	}

	if err := s.backupSvc.Import(c.Request.Context(), raw); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

func (s *Server) ListActionLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.recorder.Entries()})
}
