package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

type mockLister struct {
	sessions []domain.TrainingSession
	err      error
	limits   []int
}

func (m *mockLister) ListClosedSessions(_ context.Context, _ int64, limit int) ([]domain.TrainingSession, error) {
	m.limits = append(m.limits, limit)
	return m.sessions, m.err
}

func closedSession(id uint, started time.Time, exercises ...domain.Exercise) domain.TrainingSession {
	ended := started.Add(time.Hour)
	return domain.TrainingSession{ID: id, StartedAt: started, EndedAt: &ended, Exercises: exercises}
}

func strength(name string, sets ...domain.Set) domain.Exercise {
	return domain.Exercise{Name: name, Payload: domain.StrengthPayload{Sets: sets}}
}

func cardio(name string, minutes int) domain.Exercise {
	return domain.Exercise{Name: name, Payload: domain.CardioPayload{DurationMin: minutes, Format: domain.CardioDistance, Value: 1000}}
}

func TestComputeStatistics_Empty(t *testing.T) {
	snapshot := ComputeStatistics(nil)

	assert.Equal(t, domain.Totals{}, snapshot.Totals)
	assert.NotNil(t, snapshot.Weekly)
	assert.Empty(t, snapshot.Weekly)
	assert.Empty(t, snapshot.Monthly)
	assert.Empty(t, snapshot.Yearly)
	assert.Empty(t, snapshot.PerExercise)
	assert.Empty(t, TopExercises(&snapshot, 10))
}

func TestComputeStatistics_Buckets(t *testing.T) {
	sessions := []domain.TrainingSession{
		closedSession(3, time.Date(2026, time.October, 14, 18, 0, 0, 0, time.UTC),
			strength("Присед", domain.Set{Weight: 60, Reps: 8}),
			cardio("Бег", 20)),
		closedSession(2, time.Date(2026, time.October, 12, 18, 0, 0, 0, time.UTC),
			strength("Присед", domain.Set{Weight: 50, Reps: 12}, domain.Set{Weight: 55, Reps: 10})),
		closedSession(1, time.Date(2025, time.December, 30, 18, 0, 0, 0, time.UTC),
			cardio("Бег", 40)),
	}

	snapshot := ComputeStatistics(sessions)

	assert.Equal(t, domain.Totals{Sessions: 3, Exercises: 4, ByKind: domain.KindSplit{Strength: 2, Cardio: 2}}, snapshot.Totals)

	week := snapshot.Weekly["2026-W42"]
	assert.Equal(t, 2, week.Sessions)
	assert.Equal(t, 3, week.Exercises)
	assert.Equal(t, domain.KindSplit{Strength: 2, Cardio: 1}, week.ByKind)

	// 2025-12-30 falls into ISO week 1 of 2026
	assert.Equal(t, 1, snapshot.Weekly["2026-W01"].Sessions)
	assert.Equal(t, 2, snapshot.Monthly["2026-10"].Sessions)
	assert.Equal(t, 1, snapshot.Yearly["2025"].Sessions)
	assert.Equal(t, 2, snapshot.Yearly["2026"].Sessions)

	squat := snapshot.PerExercise[domain.ExerciseKey{Name: "Присед", Kind: domain.KindStrength}]
	assert.Equal(t, 2, squat.Occurrences)
	assert.Equal(t, 60.0, squat.MaxWeight)
	assert.InDelta(t, 10.0, squat.MeanRepsPerSet(), 1e-9)

	run := snapshot.PerExercise[domain.ExerciseKey{Name: "Бег", Kind: domain.KindCardio}]
	assert.Equal(t, 40, run.MaxDuration)
	assert.Equal(t, 20, run.MinDuration)
	assert.InDelta(t, 30.0, run.MeanDuration(), 1e-9)

	counts := MonthlyCounts(&snapshot, 2026)
	assert.Equal(t, 2, counts[9])
	assert.Zero(t, counts[0])
}

func TestComputeStatistics_SameNameDifferentKindNotMerged(t *testing.T) {
	snapshot := ComputeStatistics([]domain.TrainingSession{
		closedSession(1, time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC),
			strength("Скакалка", domain.Set{Weight: 0, Reps: 100}),
			cardio("Скакалка", 10)),
	})

	require.Len(t, snapshot.PerExercise, 2)
	assert.Equal(t, 1, snapshot.PerExercise[domain.ExerciseKey{Name: "Скакалка", Kind: domain.KindStrength}].Occurrences)
	assert.Equal(t, 1, snapshot.PerExercise[domain.ExerciseKey{Name: "Скакалка", Kind: domain.KindCardio}].Occurrences)

	top := TopExercises(&snapshot, 0)
	require.Len(t, top, 2)
	assert.Equal(t, domain.KindCardio, top[0].Key.Kind)
}

func TestTopInPeriod(t *testing.T) {
	snapshot := ComputeStatistics([]domain.TrainingSession{
		closedSession(2, time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), cardio("Бег", 20), strength("A", domain.Set{Weight: 1, Reps: 1})),
		closedSession(1, time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC), strength("B", domain.Set{Weight: 1, Reps: 1})),
	})

	from := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	assert.Len(t, SessionsSince(&snapshot, from), 1)

	top := TopInPeriod(&snapshot, from, 3)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Key.Name)
}

func TestStatsService_Snapshot(t *testing.T) {
	lister := &mockLister{sessions: []domain.TrainingSession{
		closedSession(1, time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC), cardio("Бег", 10)),
	}}
	svc := NewStatsService(lister)

	snapshot, err := svc.Snapshot(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Totals.Sessions)
	assert.Equal(t, []int{0}, lister.limits)

	lister.err = errors.New("boom")
	_, err = svc.Snapshot(context.Background(), 7)
	assert.ErrorIs(t, err, lister.err)
}
