package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	"github.com/vladimiradmaev/fitness-helper/internal/utils"
)

// SessionLister is the read side of the repository used by statistics and export
type SessionLister interface {
	ListClosedSessions(ctx context.Context, userID int64, limit int) ([]domain.TrainingSession, error)
}

type StatsService struct {
	sessions SessionLister
}

func NewStatsService(sessions SessionLister) *StatsService {
	return &StatsService{sessions: sessions}
}

// Snapshot recomputes statistics from the user's full closed history
func (s *StatsService) Snapshot(ctx context.Context, userID int64) (*domain.StatisticsSnapshot, error) {
	sessions, err := s.sessions.ListClosedSessions(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions for statistics: %w", err)
	}
	snapshot := ComputeStatistics(sessions)
	return &snapshot, nil
}

// ComputeStatistics is a pure rollup over closed sessions
func ComputeStatistics(sessions []domain.TrainingSession) domain.StatisticsSnapshot {
	snapshot := domain.StatisticsSnapshot{
		Weekly:      make(map[string]domain.PeriodBucket),
		Monthly:     make(map[string]domain.PeriodBucket),
		Yearly:      make(map[string]domain.PeriodBucket),
		PerExercise: make(map[domain.ExerciseKey]domain.ExerciseRollup),
		Sessions:    sessions,
	}

	for i := range sessions {
		session := &sessions[i]
		snapshot.Totals.AddSession(session)

		addToBucket(snapshot.Weekly, utils.WeekKey(session.StartedAt), session)
		addToBucket(snapshot.Monthly, utils.MonthKey(session.StartedAt), session)
		addToBucket(snapshot.Yearly, utils.YearKey(session.StartedAt), session)

		for _, exercise := range session.Exercises {
			key := domain.ExerciseKey{Name: exercise.Name, Kind: exercise.Kind()}
			rollup := snapshot.PerExercise[key]
			rollup.Key = key
			rollup.Add(exercise)
			snapshot.PerExercise[key] = rollup
		}
	}

	return snapshot
}

func addToBucket(buckets map[string]domain.PeriodBucket, key string, session *domain.TrainingSession) {
	bucket := buckets[key]
	bucket.Key = key
	bucket.AddSession(session)
	buckets[key] = bucket
}

// TopExercises orders rollups by occurrences, then name, then kind
func TopExercises(snapshot *domain.StatisticsSnapshot, limit int) []domain.ExerciseRollup {
	rollups := make([]domain.ExerciseRollup, 0, len(snapshot.PerExercise))
	for _, r := range snapshot.PerExercise {
		rollups = append(rollups, r)
	}
	sort.Slice(rollups, func(i, j int) bool {
		a, b := rollups[i], rollups[j]
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		if a.Key.Name != b.Key.Name {
			return a.Key.Name < b.Key.Name
		}
		return a.Key.Kind < b.Key.Kind
	})
	if limit > 0 && len(rollups) > limit {
		rollups = rollups[:limit]
	}
	return rollups
}

// SessionsSince returns sessions started at or after from, newest first
func SessionsSince(snapshot *domain.StatisticsSnapshot, from time.Time) []domain.TrainingSession {
	var out []domain.TrainingSession
	for _, s := range snapshot.Sessions {
		if !s.StartedAt.Before(from) {
			out = append(out, s)
		}
	}
	return out
}

// TopInPeriod ranks exercises by occurrence among sessions started at or after from
func TopInPeriod(snapshot *domain.StatisticsSnapshot, from time.Time, limit int) []domain.ExerciseRollup {
	period := ComputeStatistics(SessionsSince(snapshot, from))
	return TopExercises(&period, limit)
}

// MonthlyCounts returns session counts for each month of year, January first
func MonthlyCounts(snapshot *domain.StatisticsSnapshot, year int) [12]int {
	var counts [12]int
	for m := 0; m < 12; m++ {
		key := fmt.Sprintf("%04d-%02d", year, m+1)
		counts[m] = snapshot.Monthly[key].Sessions
	}
	return counts
}
