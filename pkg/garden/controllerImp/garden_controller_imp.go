package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"gardencare/entities"
	repo "gardencare/pkg/garden/repository"
)

type GardenCtrl struct{ repo repo.GardenRepository }

func New(r repo.GardenRepository) *GardenCtrl { return &GardenCtrl{r} }

func (h *GardenCtrl) Create(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		IsIndoor bool   `json:"is_indoor"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g := entities.Garden{Name: strings.TrimSpace(body.Name), Location: body.Location, IsIndoor: body.IsIndoor}
	if err := h.repo.Create(c.Request().Context(), &g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GardenCtrl) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	g, err := h.repo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GardenCtrl) List(c echo.Context) error {
	out, err := h.repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
