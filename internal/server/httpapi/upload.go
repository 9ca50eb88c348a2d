package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/filex"
)

// stageUpload copies one multipart file into the staging directory and
// returns the staged path. The asset relay owns deletion of the staged file;
// handlers additionally RemoveQuietly on their error paths so an abort before
// the relay runs does not leak the file.
func (s *Server) stageUpload(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", validationErrorf("file %q is required", field)
	}
	return s.stage(c, fh, field)
}

// stageOptionalUpload is stageUpload for fields the route does not require.
// A missing file (or a non-multipart request) stages nothing.
func (s *Server) stageOptionalUpload(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", validationError(err)
	}
	return s.stage(c, fh, field)
}

func (s *Server) stage(c *gin.Context, fh *multipart.FileHeader, field string) (string, error) {
	if fh.Size > s.cfg.MaxUploadSize {
		return "", validationErrorf("file %q exceeds the %d byte limit", field, s.cfg.MaxUploadSize)
	}

	dst := filex.StagingPath(s.uploadDir, fh.Filename)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("%w: staging %s: %v", common.ErrorInternal, field, err)
	}
	return dst, nil
}

func cleanupStaged(paths ...string) {
	for _, p := range paths {
		if p != "" {
			filex.RemoveQuietly(p)
		}
	}
}
