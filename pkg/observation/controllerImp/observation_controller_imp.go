package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gardencare/entities"
	gardenRepo "gardencare/pkg/garden/repository"
	genSvc "gardencare/pkg/generator/service"
	repo "gardencare/pkg/observation/repository"
	"gardencare/pkg/rulecontext"
)

type ObservationCtrl struct {
	obs     repo.ObservationRepository
	gardens gardenRepo.GardenRepository
	gen     genSvc.GeneratorService
	log     *zap.Logger
	now     func() time.Time
}

func New(o repo.ObservationRepository, g gardenRepo.GardenRepository, gen genSvc.GeneratorService, log *zap.Logger) *ObservationCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ObservationCtrl{obs: o, gardens: g, gen: gen, log: log, now: time.Now}
}

// garden resolves :id and writes the error response itself when it fails.
func (h *ObservationCtrl) garden(c echo.Context) (uint, bool, error) {
	gid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	if _, err := h.gardens.FindByID(c.Request().Context(), uint(gid)); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return 0, false, c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return 0, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return uint(gid), true, nil
}

func (h *ObservationCtrl) CreateSoilSample(c echo.Context) error {
	gid, ok, err := h.garden(c)
	if !ok {
		return err
	}
	var s entities.SoilSample
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	s.SampleID, s.GardenID = 0, gid
	if s.SampledAt.IsZero() {
		s.SampledAt = h.now().UTC()
	}
	if err := rulecontext.CheckSoilSample(s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.obs.CreateSoilSample(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

// CreateSensorReading stores the reading, then lets the generator react to it.
func (h *ObservationCtrl) CreateSensorReading(c echo.Context) error {
	gid, ok, err := h.garden(c)
	if !ok {
		return err
	}
	ctx := c.Request().Context()
	var r entities.SensorReading
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	r.ReadingID, r.GardenID = 0, gid
	if r.RecordedAt.IsZero() {
		r.RecordedAt = h.now().UTC()
	}
	if err := rulecontext.CheckSensorReading(r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.obs.CreateSensorReading(ctx, &r); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := echo.Map{"reading": r, "task_ids": []uint{}}
	out, err := h.gen.OnSensorReading(ctx, r)
	if err != nil {
		h.log.Warn("task generation failed", zap.Uint("garden_id", gid), zap.Error(err))
		resp["task_generation_error"] = err.Error()
	} else {
		resp["task_ids"] = out.TaskIDs()
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *ObservationCtrl) CreateIrrigation(c echo.Context) error {
	gid, ok, err := h.garden(c)
	if !ok {
		return err
	}
	var e entities.IrrigationEvent
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	e.IrrigationID, e.GardenID = 0, gid
	if e.IrrigatedAt.IsZero() {
		e.IrrigatedAt = h.now().UTC()
	}
	if err := rulecontext.CheckIrrigation(e); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.obs.CreateIrrigation(c.Request().Context(), &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, e)
}
