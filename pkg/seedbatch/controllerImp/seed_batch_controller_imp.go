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
	"gardencare/pkg/rulecontext"
	repo "gardencare/pkg/seedbatch/repository"
)

type SeedBatchCtrl struct {
	batches repo.SeedBatchRepository
	gardens gardenRepo.GardenRepository
	gen     genSvc.GeneratorService
	log     *zap.Logger
	now     func() time.Time
}

func New(b repo.SeedBatchRepository, g gardenRepo.GardenRepository, gen genSvc.GeneratorService, log *zap.Logger) *SeedBatchCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &SeedBatchCtrl{batches: b, gardens: g, gen: gen, log: log, now: time.Now}
}

func (h *SeedBatchCtrl) Create(c echo.Context) error {
	ctx := c.Request().Context()
	gid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	var b entities.SeedBatch
	if err := c.Bind(&b); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	b.BatchID = 0
	b.GardenID = uint(gid)
	if err := rulecontext.CheckSeedBatch(b, h.now()); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.gardens.FindByID(ctx, b.GardenID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if err := h.batches.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := echo.Map{"seed_batch": b, "task_ids": []uint{}}
	out, err := h.gen.OnSeedBatchCreated(ctx, b)
	if err != nil {
		h.log.Warn("task generation failed", zap.Uint("batch_id", b.BatchID), zap.Error(err))
		resp["task_generation_error"] = err.Error()
	} else {
		resp["task_ids"] = out.TaskIDs()
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *SeedBatchCtrl) List(c echo.Context) error {
	gid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	out, err := h.batches.ListByGarden(c.Request().Context(), uint(gid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
