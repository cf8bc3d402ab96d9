package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

const maxAnalyticsDays = 366

type Analyzer interface {
	Analyze(ctx context.Context, userID string, days int) (*domain.AnalyticsReport, error)
}

type AnalyticsHandler struct {
	svc Analyzer
}

func NewAnalyticsHandler(svc Analyzer) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analytics", h.GetReport)
}

// GetReport godoc
// @Summary      Study analytics for the trailing window
// @Description  Returns status "no_data" with a message when the window holds no sessions.
// @Tags         analytics
// @Produce      json
// @Param        days  query     int  false  "Window length in days (1-366)"  default(30)
// @Success      200   {object}  domain.AnalyticsReport
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /analytics [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	days := domain.DefaultAnalyticsDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxAnalyticsDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 366"})
			return
		}
		days = parsed
	}

	report, err := h.svc.Analyze(c.Request.Context(), userID, days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
