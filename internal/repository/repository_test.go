package repository

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitness-helper/internal/database/dbtest"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

const testUser int64 = 1001

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo := New(dbtest.New(t))
	clock := time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return repo
}

func strengthExercise(name string, sets ...domain.Set) domain.Exercise {
	return domain.Exercise{Name: name, Payload: domain.StrengthPayload{Sets: sets}}
}

func TestCreateUser_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, testUser, "Anna"))
	require.NoError(t, repo.CreateUser(ctx, testUser, "Renamed"))

	user, err := repo.GetUser(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.DisplayName)

	_, err = repo.GetUser(ctx, 42)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestOpenSession_ConflictWhileOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	none, err := repo.GetOpenSession(ctx, testUser)
	require.NoError(t, err)
	assert.Nil(t, none)

	session, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, session.IsOpen())

	_, err = repo.OpenSession(ctx, testUser)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSessionOpen))

	other, err := repo.OpenSession(ctx, testUser+1)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, other.ID)
}

func TestOpenClose_AtMostOneOpenSession(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 60; i++ {
		open, err := repo.GetOpenSession(ctx, testUser)
		require.NoError(t, err)

		switch rng.Intn(3) {
		case 0:
			_, err := repo.OpenSession(ctx, testUser)
			if open != nil {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
			} else {
				assert.NoError(t, err)
			}
		case 1:
			if open == nil {
				continue
			}
			_, err := repo.AppendExercise(ctx, open.ID, strengthExercise("Присед", domain.Set{Weight: 40, Reps: 10}))
			require.NoError(t, err)
		case 2:
			if open == nil {
				continue
			}
			err := repo.CloseSession(ctx, open.ID, "")
			if len(open.Exercises) == 0 {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		}

		var count int64
		require.NoError(t, repo.db.Table("trainings").Where("user_id = ? AND ended_at IS NULL", testUser).Count(&count).Error)
		require.LessOrEqual(t, count, int64(1))
	}
}

func TestStrengthRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	session, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)
	require.NoError(t, repo.SetSessionMeasurements(ctx, session.ID, "талия 70"))

	sets := []domain.Set{{Weight: 50, Reps: 12}, {Weight: 55, Reps: 10}, {Weight: 52.25, Reps: 8}}
	stored, err := repo.AppendExercise(ctx, session.ID, strengthExercise("Румынская тяга", sets...))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.DraftID)

	_, err = repo.AppendExercise(ctx, session.ID, domain.Exercise{
		Name:    "Бег на дорожке",
		Payload: domain.CardioPayload{DurationMin: 30, Format: domain.CardioDistance, Value: 3000},
	})
	require.NoError(t, err)

	require.NoError(t, repo.CloseSession(ctx, session.ID, "хорошо"))

	closed, err := repo.ListClosedSessions(ctx, testUser, 0)
	require.NoError(t, err)
	require.Len(t, closed, 1)

	got := closed[0]
	assert.False(t, got.IsOpen())
	assert.Equal(t, "талия 70", got.Measurements)
	assert.Equal(t, "хорошо", got.Comment)
	require.Len(t, got.Exercises, 2)

	strength, ok := got.Exercises[0].Payload.(domain.StrengthPayload)
	require.True(t, ok)
	assert.Equal(t, sets, strength.Sets)

	cardio, ok := got.Exercises[1].Payload.(domain.CardioPayload)
	require.True(t, ok)
	meters, isDistance := cardio.Distance()
	assert.True(t, isDistance)
	assert.Equal(t, 3000.0, meters)
	assert.Equal(t, 30, cardio.DurationMin)
}

func TestClosedSessionIsImmutable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	session, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)

	err = repo.CloseSession(ctx, session.ID, "")
	assert.True(t, errors.Is(err, apperrors.ErrEmptySession))

	_, err = repo.AppendExercise(ctx, session.ID, strengthExercise("Присед", domain.Set{Weight: 60, Reps: 5}))
	require.NoError(t, err)
	require.NoError(t, repo.CloseSession(ctx, session.ID, ""))

	_, err = repo.AppendExercise(ctx, session.ID, strengthExercise("Присед", domain.Set{Weight: 60, Reps: 5}))
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))

	err = repo.CloseSession(ctx, session.ID, "again")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	err = repo.SetSessionMeasurements(ctx, session.ID, "x")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestAppendExercise_RejectsInvalidAndDeduplicatesDraft(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	session, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)

	_, err = repo.AppendExercise(ctx, session.ID, strengthExercise("Пусто"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	exercise := strengthExercise("Присед", domain.Set{Weight: 70, Reps: 6})
	exercise.DraftID = "9b1d3f0e-6a7c-4d35-9a51-2c1f0b7d7e11"

	first, err := repo.AppendExercise(ctx, session.ID, exercise)
	require.NoError(t, err)
	second, err := repo.AppendExercise(ctx, session.ID, exercise)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	open, err := repo.GetOpenSession(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, open.Exercises, 1)
}

func TestRemoveAndDiscard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	session, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)
	a, err := repo.AppendExercise(ctx, session.ID, strengthExercise("A", domain.Set{Weight: 1, Reps: 1}))
	require.NoError(t, err)
	b, err := repo.AppendExercise(ctx, session.ID, strengthExercise("B", domain.Set{Weight: 2, Reps: 2}))
	require.NoError(t, err)

	require.NoError(t, repo.RemoveExercise(ctx, session.ID, a.ID))
	err = repo.RemoveExercise(ctx, session.ID, a.ID)
	assert.True(t, errors.Is(err, apperrors.ErrExerciseNotFound))

	c, err := repo.AppendExercise(ctx, session.ID, strengthExercise("C", domain.Set{Weight: 3, Reps: 3}))
	require.NoError(t, err)

	open, err := repo.GetOpenSession(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, open.Exercises, 2)
	assert.Equal(t, b.ID, open.Exercises[0].ID)
	assert.Equal(t, c.ID, open.Exercises[1].ID)

	require.NoError(t, repo.DiscardSession(ctx, session.ID))
	open, err = repo.GetOpenSession(ctx, testUser)
	require.NoError(t, err)
	assert.Nil(t, open)

	_, err = repo.OpenSession(ctx, testUser)
	assert.NoError(t, err)
}

func TestListClosedSessions_NewestFirstWithLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 3; i++ {
		session, err := repo.OpenSession(ctx, testUser)
		require.NoError(t, err)
		_, err = repo.AppendExercise(ctx, session.ID, strengthExercise("A", domain.Set{Weight: 10, Reps: 10}))
		require.NoError(t, err)
		require.NoError(t, repo.CloseSession(ctx, session.ID, ""))
		ids = append(ids, session.ID)
	}
	_, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)

	all, err := repo.ListClosedSessions(ctx, testUser, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	limited, err := repo.ListClosedSessions(ctx, testUser, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMeasurements(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordMeasurement(ctx, testUser, "first"))
	require.NoError(t, repo.RecordMeasurement(ctx, testUser, "second"))
	require.NoError(t, repo.RecordMeasurement(ctx, testUser+1, "other"))

	records, err := repo.ListMeasurements(ctx, testUser, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Text)
	assert.Equal(t, "first", records[1].Text)
}

func TestCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddCatalogEntry(ctx, testUser, domain.KindStrength, "Жим лежа"))
	require.NoError(t, repo.AddCatalogEntry(ctx, testUser, domain.KindCardio, "Жим лежа"))
	require.NoError(t, repo.AddCatalogEntry(ctx, testUser, domain.KindStrength, "жим лежа"))

	err := repo.AddCatalogEntry(ctx, testUser, domain.KindStrength, "Жим лежа")
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateEntry))

	err = repo.AddCatalogEntry(ctx, testUser, domain.KindStrength, "  ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	catalog, err := repo.GetCatalog(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"Жим лежа", "жим лежа"}, catalog.Strength)
	assert.Equal(t, []string{"Жим лежа"}, catalog.Cardio)

	other, err := repo.GetCatalog(ctx, testUser+1)
	require.NoError(t, err)
	assert.Empty(t, other.Strength)
}

func TestRemoveCatalogEntry_DefaultsProtected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	const builtin = "Румынская тяга"

	err := repo.RemoveCatalogEntry(ctx, testUser, domain.KindStrength, builtin)
	assert.True(t, errors.Is(err, apperrors.ErrDefaultEntry))

	err = repo.RemoveCatalogEntry(ctx, testUser, domain.KindStrength, "nothing")
	assert.True(t, errors.Is(err, apperrors.ErrEntryNotFound))

	require.NoError(t, repo.AddCatalogEntry(ctx, testUser, domain.KindStrength, builtin))
	require.NoError(t, repo.AddCatalogEntry(ctx, testUser+1, domain.KindStrength, builtin))
	require.NoError(t, repo.RemoveCatalogEntry(ctx, testUser, domain.KindStrength, builtin))

	mine, err := repo.GetCatalog(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, mine.Strength)
	assert.Contains(t, domain.Choices(mine, domain.KindStrength), builtin)

	theirs, err := repo.GetCatalog(ctx, testUser+1)
	require.NoError(t, err)
	assert.Equal(t, []string{builtin}, theirs.Strength)
}

func TestWipeUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, testUser, "Anna"))
	session, err := repo.OpenSession(ctx, testUser)
	require.NoError(t, err)
	_, err = repo.AppendExercise(ctx, session.ID, strengthExercise("A", domain.Set{Weight: 1, Reps: 1}))
	require.NoError(t, err)
	require.NoError(t, repo.CloseSession(ctx, session.ID, ""))
	require.NoError(t, repo.RecordMeasurement(ctx, testUser, "m"))
	require.NoError(t, repo.AddCatalogEntry(ctx, testUser, domain.KindCardio, "Велотренажер"))

	require.NoError(t, repo.WipeUser(ctx, testUser))

	sessions, err := repo.ListClosedSessions(ctx, testUser, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	records, err := repo.ListMeasurements(ctx, testUser, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	catalog, err := repo.GetCatalog(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, catalog.Cardio)

	var exercises int64
	require.NoError(t, repo.db.Table("training_exercises").Count(&exercises).Error)
	assert.Zero(t, exercises)

	_, err = repo.GetUser(ctx, testUser)
	assert.NoError(t, err)
}

func TestStorageErrorOnCancelledContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListClosedSessions(ctx, testUser, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
}

func TestTimeoutErrorOnExpiredDeadline(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.ListClosedSessions(ctx, testUser, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout))
}
