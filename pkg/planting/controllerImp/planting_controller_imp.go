package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gardencare/entities"
	catalogRepo "gardencare/pkg/catalog/repository"
	gardenRepo "gardencare/pkg/garden/repository"
	genSvc "gardencare/pkg/generator/service"
	repo "gardencare/pkg/planting/repository"
	"gardencare/pkg/rulecontext"
)

type PlantingCtrl struct {
	plantings repo.PlantingRepository
	gardens   gardenRepo.GardenRepository
	varieties catalogRepo.VarietyRepository
	gen       genSvc.GeneratorService
	log       *zap.Logger
}

func New(p repo.PlantingRepository, g gardenRepo.GardenRepository, v catalogRepo.VarietyRepository, gen genSvc.GeneratorService, log *zap.Logger) *PlantingCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlantingCtrl{plantings: p, gardens: g, varieties: v, gen: gen, log: log}
}

type createResp struct {
	Planting            entities.PlantingEvent `json:"planting"`
	TaskIDs             []uint                 `json:"task_ids"`
	TaskGenerationError string                 `json:"task_generation_error,omitempty"`
}

// Create stores the planting first; task generation runs afterwards and a
// failure there is reported without undoing the planting.
func (h *PlantingCtrl) Create(c echo.Context) error {
	ctx := c.Request().Context()
	gid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	var body struct {
		VarietyID    uint                  `json:"variety_id"`
		PlantingDate string                `json:"planting_date"`
		PlantCount   int                   `json:"plant_count"`
		HealthStatus entities.HealthStatus `json:"health_status"`
		Notes        string                `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	date, err := time.Parse("2006-01-02", body.PlantingDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "planting_date must be YYYY-MM-DD"})
	}
	if body.HealthStatus == "" {
		body.HealthStatus = entities.HealthHealthy
	}
	p := entities.PlantingEvent{
		GardenID: uint(gid), VarietyID: body.VarietyID, PlantingDate: date,
		PlantCount: body.PlantCount, HealthStatus: body.HealthStatus, Notes: body.Notes,
	}
	if err := rulecontext.CheckPlanting(p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.gardens.FindByID(ctx, p.GardenID); err != nil {
		return notFoundOr500(c, err)
	}
	if _, err := h.varieties.FindByID(ctx, p.VarietyID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if err := h.plantings.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := createResp{Planting: p, TaskIDs: []uint{}}
	out, err := h.gen.OnPlantingCreated(ctx, p.PlantingID)
	if err != nil {
		h.log.Warn("task generation failed", zap.Uint("planting_id", p.PlantingID), zap.Error(err))
		resp.TaskGenerationError = err.Error()
	} else {
		resp.TaskIDs = out.TaskIDs()
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *PlantingCtrl) List(c echo.Context) error {
	gid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	out, err := h.plantings.ListByGarden(c.Request().Context(), uint(gid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PlantingCtrl) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad planting id"})
	}
	if err := h.plantings.Delete(c.Request().Context(), uint(id)); err != nil {
		return notFoundOr500(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func notFoundOr500(c echo.Context, err error) error {
	if errors.Is(err, entities.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
