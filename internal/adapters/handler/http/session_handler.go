package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/services"
)

const dateLayout = "2006-01-02"

type SessionHandler struct {
	svc *services.SessionService
}

func NewSessionHandler(svc *services.SessionService) *SessionHandler {
	return &SessionHandler{
		svc: svc,
	}
}

type createSessionRequest struct {
	Subject      string            `json:"subject" binding:"required"`
	Duration     float64           `json:"duration"`
	Date         string            `json:"date" binding:"required" example:"2026-03-10"`
	StartTime    *domain.TimeOfDay `json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime      *domain.TimeOfDay `json:"end_time" swaggertype:"string" example:"10:30"`
	Notes        string            `json:"notes"`
	Mood         string            `json:"mood"`
	FocusLevel   *int              `json:"focus_level"`
	Distractions int               `json:"distractions"`
}

type updateSessionRequest struct {
	Subject      string            `json:"subject"`
	Duration     float64           `json:"duration"`
	Date         string            `json:"date" example:"2026-03-10"`
	StartTime    *domain.TimeOfDay `json:"start_time" swaggertype:"string" example:"09:00"`
	EndTime      *domain.TimeOfDay `json:"end_time" swaggertype:"string" example:"10:30"`
	Notes        string            `json:"notes"`
	Mood         string            `json:"mood"`
	FocusLevel   *int              `json:"focus_level"`
	Distractions int               `json:"distractions"`
	Version      int               `json:"version" binding:"required"`
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.Create)
		sessions.GET("", h.List)
		sessions.GET("/:id", h.Get)
		sessions.PUT("/:id", h.Update)
		sessions.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Log a study session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        session  body      createSessionRequest  true  "Session"
// @Success      201      {object}  domain.StudySession
// @Failure      400      {object}  map[string]string
// @Security     BearerAuth
// @Router       /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	session, err := h.svc.Create(c.Request.Context(), services.CreateSessionInput{
		UserID:       userID,
		Subject:      req.Subject,
		Duration:     req.Duration,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
		Mood:         req.Mood,
		FocusLevel:   req.FocusLevel,
		Distractions: req.Distractions,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// List godoc
// @Summary      List study sessions in an inclusive date range
// @Tags         sessions
// @Produce      json
// @Param        from  query     string  false  "First day (YYYY-MM-DD), defaults to 30 days ago"
// @Param        to    query     string  false  "Last day (YYYY-MM-DD), defaults to today"
// @Success      200   {array}   domain.StudySession
// @Security     BearerAuth
// @Router       /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -domain.DefaultAnalyticsDays)

	if t := c.Query("to"); t != "" {
		parsed, err := time.Parse(dateLayout, t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}
	if f := c.Query("from"); f != "" {
		parsed, err := time.Parse(dateLayout, f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from cannot be after to"})
		return
	}

	list, err := h.svc.ListInRange(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	if list == nil {
		list = []*domain.StudySession{}
	}

	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary      Get a study session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  domain.StudySession
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	session, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Update godoc
// @Summary      Update a study session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Session ID"
// @Param        session  body      updateSessionRequest  true  "Session"
// @Success      200      {object}  domain.StudySession
// @Failure      409      {object}  map[string]string
// @Security     BearerAuth
// @Router       /sessions/{id} [put]
func (h *SessionHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	session, err := h.svc.Update(c.Request.Context(), services.UpdateSessionInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Subject:      req.Subject,
		Duration:     req.Duration,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
		Mood:         req.Mood,
		FocusLevel:   req.FocusLevel,
		Distractions: req.Distractions,
		Version:      req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Delete godoc
// @Summary      Delete a study session
// @Tags         sessions
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Security     BearerAuth
// @Router       /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
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
