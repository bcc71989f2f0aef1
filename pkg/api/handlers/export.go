package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/export"
)

// ExportHandler serves case list downloads.
type ExportHandler struct {
	export *export.Service
}

// NewExportHandler creates the export handler.
func NewExportHandler(exportSvc *export.Service) *ExportHandler {
	return &ExportHandler{export: exportSvc}
}

// Cases handles GET /api/cases/export?format=csv|xlsx.
func (h *ExportHandler) Cases(c echo.Context) error {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	filename := fmt.Sprintf("cases-%s", time.Now().Format("2006-01-02"))

	switch c.QueryParam("format") {
	case "", "xlsx":
		out, err := h.export.XLSX(ctx, user.ID)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "failed to export cases")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
	case "csv":
		out, err := h.export.CSV(ctx, user.ID)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "failed to export cases")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.csv", filename))
		return c.Blob(http.StatusOK, "text/csv", out)
	default:
		return respondError(c, http.StatusBadRequest, "unsupported format")
	}
}
