package quarantine

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthpipe/healthpipe/pkg/pagination"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/errors", h.ListErrorRecords)
}

func (h *Handler) ListErrorRecords(c echo.Context) error {
	source := c.QueryParam("source_table")
	switch source {
	case "", SourcePatients, SourceReadings:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid source_table")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.repo.List(c.Request().Context(), source, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
