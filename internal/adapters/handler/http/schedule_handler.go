package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/services"
)

const defaultCalendarSpan = 30 * 24 * time.Hour

type ScheduleHandler struct {
	svc *services.ScheduleService
}

func NewScheduleHandler(svc *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

type createScheduleRequest struct {
	Subject string    `json:"subject" binding:"required"`
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
	Notes   string    `json:"notes"`
	Color   string    `json:"color" example:"#3b82f6"`
}

type updateScheduleRequest struct {
	Subject string    `json:"subject"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Notes   string    `json:"notes"`
	Color   string    `json:"color"`
	Version int       `json:"version" binding:"required"`
}

func (h *ScheduleHandler) RegisterRoutes(router *gin.RouterGroup) {
	schedule := router.Group("/schedule")
	{
		schedule.GET("", h.List)
		schedule.POST("", h.Create)
		schedule.GET("/:id", h.Get)
		schedule.PUT("/:id", h.Update)
		schedule.DELETE("/:id", h.Delete)
	}
}

func calendarEvents(list []*domain.ScheduledSession) []domain.CalendarEvent {
	events := make([]domain.CalendarEvent, 0, len(list))
	for _, s := range list {
		events = append(events, s.CalendarEvent())
	}
	return events
}

// List godoc
// @Summary      List planned sessions as calendar events
// @Tags         schedule
// @Produce      json
// @Param        start  query     string  false  "Window start (RFC3339)"
// @Param        end    query     string  false  "Window end, exclusive (RFC3339)"
// @Success      200    {array}   domain.CalendarEvent
// @Security     BearerAuth
// @Router       /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	from := now.Add(-defaultCalendarSpan)
	to := now.Add(defaultCalendarSpan)

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format (use RFC3339)"})
			return
		}
		from = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse(time.RFC3339, e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end format (use RFC3339)"})
			return
		}
		to = parsed
	}

	list, err := h.svc.ListInRange(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, calendarEvents(list))
}

// Create godoc
// @Summary      Plan a study session
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        session  body      createScheduleRequest  true  "Planned session"
// @Success      201      {object}  domain.CalendarEvent
// @Security     BearerAuth
// @Router       /schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	scheduled, err := h.svc.Create(c.Request.Context(), services.CreateScheduleInput{
		UserID:  userID,
		Subject: req.Subject,
		Notes:   req.Notes,
		Color:   req.Color,
		Start:   req.Start,
		End:     req.End,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, scheduled.CalendarEvent())
}

// Get godoc
// @Summary      Get a planned session
// @Tags         schedule
// @Produce      json
// @Param        id   path      string  true  "Planned session ID"
// @Success      200  {object}  domain.CalendarEvent
// @Security     BearerAuth
// @Router       /schedule/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	scheduled, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, scheduled.CalendarEvent())
}

// Update godoc
// @Summary      Move or edit a planned session
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Planned session ID"
// @Param        session  body      updateScheduleRequest  true  "Changed fields"
// @Success      200      {object}  domain.CalendarEvent
// @Security     BearerAuth
// @Router       /schedule/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	scheduled, err := h.svc.Update(c.Request.Context(), services.UpdateScheduleInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Subject: req.Subject,
		Notes:   req.Notes,
		Color:   req.Color,
		Start:   req.Start,
		End:     req.End,
		Version: req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, scheduled.CalendarEvent())
}

// Delete godoc
// @Summary      Remove a planned session
// @Tags         schedule
// @Param        id   path  string  true  "Planned session ID"
// @Success      204
// @Security     BearerAuth
// @Router       /schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
