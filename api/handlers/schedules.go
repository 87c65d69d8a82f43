package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/liliang-cn/datacron/pkg/schedule"
)

// ScheduleHandler exposes CRUD over persisted task schedules.
type ScheduleHandler struct {
	service      *schedule.Service
	previewCount int
	now          func() time.Time
}

func NewScheduleHandler(service *schedule.Service, previewCount int) *ScheduleHandler {
	return &ScheduleHandler{
		service:      service,
		previewCount: previewCount,
		now:          time.Now,
	}
}

type ScheduleListResponse struct {
	Schedules []*schedule.Schedule `json:"schedules"`
	Count     int                  `json:"count"`
}

type SchedulePreviewResponse struct {
	Schedule *schedule.Schedule `json:"schedule"`
	Runs     []time.Time        `json:"runs"`
}

// List handles GET /api/schedules?task_kind=&task_id=&all=true.
func (h *ScheduleHandler) List(c echo.Context) error {
	filter := schedule.Filter{
		TaskKind: schedule.TaskKind(c.QueryParam("task_kind")),
		TaskID:   c.QueryParam("task_id"),
	}
	if all := c.QueryParam("all"); all != "" {
		v, err := strconv.ParseBool(all)
		if err != nil {
			return badRequest("all must be a boolean")
		}
		filter.IncludeDisabled = v
	}

	schedules, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	if schedules == nil {
		schedules = []*schedule.Schedule{}
	}
	return c.JSON(http.StatusOK, ScheduleListResponse{Schedules: schedules, Count: len(schedules)})
}

// Create handles POST /api/schedules.
func (h *ScheduleHandler) Create(c echo.Context) error {
	var in schedule.Input
	if err := c.Bind(&in); err != nil {
		return badRequest("invalid request body")
	}
	sch, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sch)
}

// Get handles GET /api/schedules/:id.
func (h *ScheduleHandler) Get(c echo.Context) error {
	sch, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sch)
}

// Update handles PUT /api/schedules/:id.
func (h *ScheduleHandler) Update(c echo.Context) error {
	var in schedule.Input
	if err := c.Bind(&in); err != nil {
		return badRequest("invalid request body")
	}
	sch, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sch)
}

// Delete handles DELETE /api/schedules/:id.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetEnabled returns the handler for POST /api/schedules/:id/enable and
// /disable.
func (h *ScheduleHandler) SetEnabled(enabled bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		sch, err := h.service.SetEnabled(c.Request().Context(), c.Param("id"), enabled)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, sch)
	}
}

// Preview handles GET /api/schedules/:id/preview?count=.
func (h *ScheduleHandler) Preview(c echo.Context) error {
	count := h.previewCount
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			return badRequest("count must be between 1 and 100")
		}
		count = n
	}

	ctx := c.Request().Context()
	sch, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	runs, err := h.service.Preview(ctx, sch.ID, h.now(), count)
	if err != nil {
		return httpError(err)
	}
	if runs == nil {
		runs = []time.Time{}
	}
	return c.JSON(http.StatusOK, SchedulePreviewResponse{Schedule: sch, Runs: runs})
}
