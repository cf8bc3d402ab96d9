package services

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

// summarize expects at least one session.
func summarize(sessions []*domain.StudySession, days int) *domain.AnalyticsSummary {
	var totalHours float64
	subjectHours := make(map[string]float64)
	timeSlots := make(map[string]float64)
	weeklyHours := make(map[int]float64)
	moods := make(map[string]int)

	focusTotal, focusCount := 0, 0

	for _, s := range sessions {
		totalHours += s.Duration
		subjectHours[s.Subject] += s.Duration

		if s.StartTime != nil {
			timeSlots[slotLabel(s.StartTime.Hour)] += s.Duration
		}

		if s.Mood != nil && *s.Mood != "" {
			moods[strings.ToLower(*s.Mood)]++
		}

		if s.FocusLevel != nil {
			focusTotal += *s.FocusLevel
			focusCount++
		}

		_, week := s.Date.ISOWeek()
		weeklyHours[week] += s.Duration
	}

	summary := &domain.AnalyticsSummary{
		TotalHours:          round1(totalHours),
		AvgHoursPerDay:      round1(totalHours / float64(days)),
		SessionsCount:       len(sessions),
		SubjectDistribution: subjectHours,
		WeeklyProgress:      weeklyHours,
		Moods:               moods,
	}

	if slot, _, ok := topEntry(timeSlots); ok {
		summary.MostProductiveTime = &slot
	}

	if focusCount > 0 {
		avg := round1(float64(focusTotal) / float64(focusCount))
		summary.AverageFocus = &avg
	}

	summary.Insights = buildInsights(summary, totalHours)

	return summary
}

func buildInsights(summary *domain.AnalyticsSummary, totalHours float64) []string {
	insights := []string{}

	if summary.MostProductiveTime != nil {
		insights = append(insights, fmt.Sprintf("You are most productive between %s", *summary.MostProductiveTime))
	}

	if subject, hours, ok := topEntry(summary.SubjectDistribution); ok && totalHours != 0 {
		percentage := int(hours / totalHours * 100)
		insights = append(insights, fmt.Sprintf("You spent %d%% of your time on %s", percentage, subject))
	}

	if len(summary.WeeklyProgress) > 1 {
		weeks := slices.Sorted(maps.Keys(summary.WeeklyProgress))
		lastWeek := summary.WeeklyProgress[weeks[len(weeks)-1]]
		previousWeek := summary.WeeklyProgress[weeks[len(weeks)-2]]

		if lastWeek > previousWeek && previousWeek > 0 {
			improvement := int((lastWeek - previousWeek) / previousWeek * 100)
			insights = append(insights, fmt.Sprintf("Your study time increased by %d%% compared to the previous week!", improvement))
		}
	}

	if mood, count, ok := topEntry(summary.Moods); ok {
		insights = append(insights, fmt.Sprintf("You were most %s during %d study sessions", mood, count))
	}

	return insights
}

// slotLabel does not wrap at midnight: hour 23 yields "23:00-24:00".
func slotLabel(hour int) string {
	return fmt.Sprintf("%02d:00-%02d:00", hour, hour+1)
}

// topEntry returns the entry with the largest value. Ties go to the
// lexicographically smallest key so the result does not depend on map order.
func topEntry[V cmp.Ordered](m map[string]V) (string, V, bool) {
	var (
		bestKey string
		best    V
		found   bool
	)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !found || m[k] > best {
			bestKey, best, found = k, m[k], true
		}
	}
	return bestKey, best, found
}

// round1 rounds to one decimal place on the exact binary value, ties to even.
func round1(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
