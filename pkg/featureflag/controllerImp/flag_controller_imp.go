package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gardencare/pkg/featureflag"
)

type FlagCtrl struct{ gate *featureflag.Gate }

func New(gate *featureflag.Gate) *FlagCtrl { return &FlagCtrl{gate} }

func (h *FlagCtrl) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.gate.Snapshot())
}

func (h *FlagCtrl) Enable(c echo.Context) error  { return h.set(c, true) }
func (h *FlagCtrl) Disable(c echo.Context) error { return h.set(c, false) }

func (h *FlagCtrl) set(c echo.Context, enabled bool) error {
	name := c.Param("name")
	if err := h.gate.Set(c.Request().Context(), name, enabled); err != nil {
		if errors.Is(err, featureflag.ErrUnknownFlag) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"name": name, "enabled": enabled})
}

func (h *FlagCtrl) Reload(c echo.Context) error {
	if err := h.gate.Reload(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.gate.Snapshot())
}
