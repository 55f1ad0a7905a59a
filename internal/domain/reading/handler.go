package reading

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthpipe/healthpipe/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/readings", h.ListPatientReadings)
	api.GET("/readings/:id", h.GetReading)
	api.PUT("/readings/:id", h.UpsertReading)
	api.DELETE("/readings/:id", h.DeleteReading)
}

func (h *Handler) ListPatientReadings(c echo.Context) error {
	filter, ok := ParseBiometric(c.QueryParam("biometric_type"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid biometric_type")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListReadingsByPatient(c.Request().Context(), c.Param("id"), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetReading(c echo.Context) error {
	dr, err := h.svc.GetReading(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "reading not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dr)
}

func (h *Handler) UpsertReading(c echo.Context) error {
	var dr DeviceReading
	if err := c.Bind(&dr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dr.ID = c.Param("id")
	created, err := h.svc.UpsertReading(c.Request().Context(), &dr)
	if err != nil {
		if errors.Is(err, ErrUnknownPatient) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if created {
		return c.JSON(http.StatusCreated, dr)
	}
	return c.JSON(http.StatusOK, dr)
}

func (h *Handler) DeleteReading(c echo.Context) error {
	deleted, err := h.svc.DeleteReading(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "reading not found")
	}
	return c.NoContent(http.StatusNoContent)
}
