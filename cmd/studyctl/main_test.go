package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-study/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

func memoryOpener(repo domain.StudySessionRepository) openFunc {
	return func(context.Context) (domain.StudySessionRepository, func(), error) {
		return repo, func() {}, nil
	}
}

func run(t *testing.T, open openFunc, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, repo *repository.InMemoryStudySessionRepository, userID, subject string, focus *int, date time.Time) *domain.StudySession {
	t.Helper()
	s := domain.NewStudySession(userID, subject, 1, date)
	s.FocusLevel = focus
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func focus(v int) *int { return &v }

func TestFocusCommand(t *testing.T) {
	t.Run("No focus data", func(t *testing.T) {
		repo := repository.NewInMemoryStudySessionRepository()
		seed(t, repo, "u1", "Math", nil, time.Now().UTC())

		out, err := run(t, memoryOpener(repo), "focus")

		require.NoError(t, err)
		assert.Equal(t, "No sessions with focus level found in the database.\n", out)
	})

	t.Run("Lists at most five and averages all", func(t *testing.T) {
		repo := repository.NewInMemoryStudySessionRepository()
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		var first *domain.StudySession
		for i := 0; i < 6; i++ {
			s := seed(t, repo, "u1", fmt.Sprintf("Subject %d", i), focus(i%5+1), day.AddDate(0, 0, i))
			if i == 0 {
				first = s
			}
		}

		out, err := run(t, memoryOpener(repo), "focus")

		require.NoError(t, err)
		assert.Contains(t, out, "Found 6 sessions with focus levels:\n")
		assert.Contains(t, out, fmt.Sprintf("1. Session ID: %s, Subject: Subject 0, Focus: 1\n", first.ID))
		assert.Contains(t, out, "5. Session ID:")
		assert.NotContains(t, out, "6. Session ID:")
		assert.Contains(t, out, "\nAverage focus level: 2.7/5\n")
	})

	t.Run("Filters by user", func(t *testing.T) {
		repo := repository.NewInMemoryStudySessionRepository()
		seed(t, repo, "u1", "Math", focus(4), time.Now().UTC())
		seed(t, repo, "u2", "Art", focus(2), time.Now().UTC())

		out, err := run(t, memoryOpener(repo), "focus", "--user", "u2")

		require.NoError(t, err)
		assert.Contains(t, out, "Found 1 sessions with focus levels:")
		assert.Contains(t, out, "Average focus level: 2.0/5")
	})
}

func TestAnalyticsCommand(t *testing.T) {
	t.Run("Prints the report as JSON", func(t *testing.T) {
		repo := repository.NewInMemoryStudySessionRepository()
		seed(t, repo, "u1", "Math", focus(5), time.Now().UTC())

		out, err := run(t, memoryOpener(repo), "analytics", "--user", "u1", "--days", "10")
		require.NoError(t, err)

		var report map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, "success", report["status"])
		assert.Equal(t, 0.1, report["avg_hours_per_day"])
		assert.Contains(t, out, "\n  \"status\"")
	})

	t.Run("No data", func(t *testing.T) {
		out, err := run(t, memoryOpener(repository.NewInMemoryStudySessionRepository()), "analytics", "--user", "u1")

		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"no_data","message":"No study data available for analysis"}`, out)
	})

	t.Run("Requires a user", func(t *testing.T) {
		_, err := run(t, memoryOpener(repository.NewInMemoryStudySessionRepository()), "analytics")

		assert.ErrorContains(t, err, "user")
	})

	t.Run("Rejects a non-positive window", func(t *testing.T) {
		_, err := run(t, memoryOpener(repository.NewInMemoryStudySessionRepository()), "analytics", "--user", "u1", "--days", "0")

		assert.ErrorIs(t, err, domain.ErrInvalidAnalyticsWindow)
	})

	t.Run("Open failure is returned", func(t *testing.T) {
		boom := errors.New("db down")
		open := func(context.Context) (domain.StudySessionRepository, func(), error) { return nil, nil, boom }

		_, err := run(t, open, "analytics", "--user", "u1")

		assert.ErrorIs(t, err, boom)
	})
}
