package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	repo "gardencare/pkg/catalog/repository"
)

type VarietyCtrl struct{ repo repo.VarietyRepository }

func New(r repo.VarietyRepository) *VarietyCtrl { return &VarietyCtrl{r} }

func (h *VarietyCtrl) List(c echo.Context) error {
	out, err := h.repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
