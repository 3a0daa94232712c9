package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gardencare/entities"
	"gardencare/pkg/insight/service"
)

type InsightCtrl struct{ svc service.InsightService }

func New(svc service.InsightService) *InsightCtrl { return &InsightCtrl{svc} }

func (h *InsightCtrl) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	rep, err := h.svc.Evaluate(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rep)
}
