package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/server/services"
)

type bookForm struct {
	Title       string `form:"title" binding:"required"`
	Genre       string `form:"genre" binding:"required"`
	Description string `form:"description" binding:"required"`
}

func (s *Server) handleCreateBook(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		s.respondError(c, validationError(err))
		return
	}

	coverPath, err := s.stageUpload(c, "coverImage")
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer cleanupStaged(coverPath)

	pdfPath, err := s.stageUpload(c, "pdfFile")
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer cleanupStaged(pdfPath)

	book, err := s.books.Create(c.Request.Context(), id.ID, services.BookInput{
		Title:       form.Title,
		Genre:       form.Genre,
		Description: form.Description,
		CoverPath:   coverPath,
		PDFPath:     pdfPath,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bookId": book.ID})
}

func (s *Server) handleUpdateBook(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		s.respondError(c, validationError(err))
		return
	}

	coverPath, err := s.stageOptionalUpload(c, "coverImage")
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer cleanupStaged(coverPath)

	pdfPath, err := s.stageOptionalUpload(c, "pdfFile")
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer cleanupStaged(pdfPath)

	book, err := s.books.Update(c.Request.Context(), id.ID, c.Param("bookId"), services.BookInput{
		Title:       form.Title,
		Genre:       form.Genre,
		Description: form.Description,
		CoverPath:   coverPath,
		PDFPath:     pdfPath,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookId": book.ID})
}

func (s *Server) handleAllBooks(c *gin.Context) {
	page, err := s.books.List(c.Request.Context(), "", intQuery(c, "currentPage"), intQuery(c, "perPage"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleUserBooks(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	page, err := s.books.List(c.Request.Context(), id.ID, intQuery(c, "currentPage"), intQuery(c, "perPage"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetBook(c *gin.Context) {
	book, err := s.books.Get(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) handleDeleteBook(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	if err := s.books.Delete(c.Request.Context(), id.ID, c.Param("bookId")); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// intQuery parses a paging query parameter. Absent or non-numeric values come
// back as 0, which the service replaces with its defaults.
func intQuery(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
