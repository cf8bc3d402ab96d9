package domain

import "errors"

var ErrInvalidAnalyticsWindow = errors.New("analytics window must be at least one day")

const (
	ReportStatusNoData  = "no_data"
	ReportStatusSuccess = "success"

	NoDataMessage = "No study data available for analysis"

	DefaultAnalyticsDays = 30
)

// AnalyticsReport is the result of one analytics run. A no_data report
// carries only Status and Message; the embedded summary is nil and
// therefore omitted when serialized.
type AnalyticsReport struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	*AnalyticsSummary
}

type AnalyticsSummary struct {
	TotalHours          float64            `json:"total_hours"`
	AvgHoursPerDay      float64            `json:"avg_hours_per_day"`
	SessionsCount       int                `json:"sessions_count"`
	SubjectDistribution map[string]float64 `json:"subject_distribution"`
	MostProductiveTime  *string            `json:"most_productive_time"`
	// WeeklyProgress is keyed by ISO week number only, so weeks with the
	// same number in different years share a bucket.
	WeeklyProgress map[int]float64 `json:"weekly_progress"`
	Moods          map[string]int  `json:"moods"`
	AverageFocus   *float64        `json:"average_focus"`
	Insights       []string        `json:"insights"`
}

func NewNoDataReport() *AnalyticsReport {
	return &AnalyticsReport{
		Status:  ReportStatusNoData,
		Message: NoDataMessage,
	}
}

func NewSuccessReport(summary *AnalyticsSummary) *AnalyticsReport {
	return &AnalyticsReport{
		Status:           ReportStatusSuccess,
		AnalyticsSummary: summary,
	}
}

// FocusSummary backs the focus-level diagnostic.
type FocusSummary struct {
	Count        int             `json:"count"`
	Sample       []*StudySession `json:"sample"`
	AverageFocus *float64        `json:"average_focus"`
}
