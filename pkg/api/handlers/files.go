package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/files"
	"github.com/coweringg/LawCaseAI/pkg/metrics"
)

// FileHandler serves file upload and retrieval endpoints.
type FileHandler struct {
	files *files.Service
}

// NewFileHandler creates the file handler.
func NewFileHandler(fileSvc *files.Service) *FileHandler {
	return &FileHandler{files: fileSvc}
}

// Upload handles POST /api/files/upload with multipart "file" and "caseId"
// parts.
func (h *FileHandler) Upload(c echo.Context) error {
	user := middleware.CurrentUser(c)

	caseID, err := primitive.ObjectIDFromHex(c.FormValue("caseId"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "missing or invalid caseId")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "missing file")
	}

	if fileHeader.Size > files.MaxFileSize {
		return respondError(c, http.StatusRequestEntityTooLarge, files.ErrFileTooLarge.Error())
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !files.AllowedType(contentType) {
		return respondError(c, http.StatusUnsupportedMediaType, files.ErrTypeNotAllowed.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, files.MaxFileSize+1))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "unreadable file")
	}
	if int64(len(data)) > files.MaxFileSize {
		return respondError(c, http.StatusRequestEntityTooLarge, files.ErrFileTooLarge.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	uploaded, err := h.files.Upload(ctx, caseID, user.ID, fileHeader.Filename, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrFileTooLarge):
			return respondError(c, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, files.ErrTypeNotAllowed):
			return respondError(c, http.StatusUnsupportedMediaType, err.Error())
		default:
			return respondError(c, http.StatusNotFound, "case not found")
		}
	}

	metrics.FilesUploaded.Inc()

	return respondCreated(c, "file uploaded", uploaded)
}

// ListByCase handles GET /api/files/case/:caseId.
func (h *FileHandler) ListByCase(c echo.Context) error {
	user := middleware.CurrentUser(c)

	caseID, err := primitive.ObjectIDFromHex(c.Param("caseId"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.files.ListByCase(ctx, caseID, user.ID)
	if err != nil {
		return respondError(c, http.StatusNotFound, "case not found")
	}

	return respondOK(c, "files", list)
}

// ListMine handles GET /api/files.
func (h *FileHandler) ListMine(c echo.Context) error {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.files.ListByUser(ctx, user.ID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to list files")
	}

	return respondOK(c, "files", list)
}

// Get handles GET /api/files/:id.
func (h *FileHandler) Get(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "file not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	file, err := h.files.Get(ctx, id, user.ID)
	if err != nil {
		return respondError(c, http.StatusNotFound, "file not found")
	}

	return respondOK(c, "file", file)
}

// Delete handles DELETE /api/files/:id.
func (h *FileHandler) Delete(c echo.Context) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusNotFound, "file not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.files.Delete(ctx, id, user.ID); err != nil {
		return respondError(c, http.StatusNotFound, "file not found")
	}

	return respondOK(c, "file deleted", nil)
}
