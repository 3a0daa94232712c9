package controllerImp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gardencare/entities"
	gardenRepo "gardencare/pkg/garden/repository"
	plantingRepo "gardencare/pkg/planting/repository"
	"gardencare/pkg/recurrence"
	repo "gardencare/pkg/task/repository"
)

type Completer interface {
	Complete(ctx context.Context, id uint, at time.Time, note string) (*recurrence.Result, error)
}

type TaskCtrl struct {
	tasks     repo.TaskRepository
	gardens   gardenRepo.GardenRepository
	plantings plantingRepo.PlantingRepository
	rec       Completer
	now       func() time.Time
}

func New(tasks repo.TaskRepository, gardens gardenRepo.GardenRepository, plantings plantingRepo.PlantingRepository, rec Completer) *TaskCtrl {
	return &TaskCtrl{tasks: tasks, gardens: gardens, plantings: plantings, rec: rec, now: time.Now}
}

func param(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(v), err
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repo.ErrNotPending):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, entities.ErrInvalidRecurrence):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

func (h *TaskCtrl) List(c echo.Context) error {
	gid, err := param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	status := entities.TaskStatus(c.QueryParam("status"))
	switch status {
	case "", entities.StatusPending, entities.StatusCompleted, entities.StatusSkipped:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, completed or skipped"})
	}
	out, err := h.tasks.ListByGarden(c.Request().Context(), gid, status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a manual task. Recurring tasks must name a frequency, and a
// planting_id must belong to the garden in the path.
func (h *TaskCtrl) Create(c echo.Context) error {
	gid, err := param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad garden id"})
	}
	var body struct {
		PlantingID          *uint               `json:"planting_id"`
		Type                entities.TaskType   `json:"type"`
		Title               string              `json:"title"`
		Description         string              `json:"description"`
		DueDate             string              `json:"due_date"`
		Priority            entities.Priority   `json:"priority"`
		IsRecurring         bool                `json:"is_recurring"`
		RecurrenceFrequency *entities.Frequency `json:"recurrence_frequency"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	due, err := time.Parse("2006-01-02", body.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be YYYY-MM-DD"})
	}
	if body.Type == "" {
		body.Type = entities.TaskGeneral
	}
	if !body.Type.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("unknown task type %q", body.Type)})
	}
	switch body.Priority {
	case "":
		body.Priority = entities.PriorityMedium
	case entities.PriorityLow, entities.PriorityMedium, entities.PriorityHigh:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priority must be low, medium or high"})
	}
	ctx := c.Request().Context()
	if _, err := h.gardens.FindByID(ctx, gid); err != nil {
		return fail(c, err)
	}
	if body.PlantingID != nil {
		p, err := h.plantings.FindByID(ctx, *body.PlantingID)
		switch {
		case errors.Is(err, entities.ErrNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case err != nil:
			return fail(c, err)
		case p.GardenID != gid:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("planting %d belongs to garden %d", p.PlantingID, p.GardenID)})
		}
	}
	t := entities.CareTask{
		GardenID: gid, PlantingID: body.PlantingID, Type: body.Type, Title: body.Title,
		Description: body.Description, DueDate: due, Priority: body.Priority,
		Status: entities.StatusPending, Source: entities.SourceManual,
		IsRecurring: body.IsRecurring, RecurrenceFrequency: body.RecurrenceFrequency,
	}
	if err := h.tasks.Create(ctx, &t); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TaskCtrl) Complete(c echo.Context) error {
	id, err := param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad task id"})
	}
	var body struct {
		CompletedAt *time.Time `json:"completed_at"`
		Note        string     `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	at := h.now().UTC()
	if body.CompletedAt != nil {
		at = body.CompletedAt.UTC()
	}
	res, err := h.rec.Complete(c.Request().Context(), id, at, body.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TaskCtrl) Skip(c echo.Context) error {
	id, err := param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad task id"})
	}
	var body struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	t, err := h.tasks.Skip(c.Request().Context(), id, body.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskCtrl) Delete(c echo.Context) error {
	id, err := param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad task id"})
	}
	if err := h.tasks.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
