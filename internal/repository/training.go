package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/fitness-helper/internal/database"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

func orderedExercises(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// GetOpenSession returns the open session with exercises in insertion order, or nil
func (r *Repository) GetOpenSession(ctx context.Context, userID int64) (*domain.TrainingSession, error) {
	var training database.Training
	err := r.db.WithContext(ctx).
		Preload("Exercises", orderedExercises).
		Where("user_id = ? AND ended_at IS NULL", userID).
		Take(&training).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "get open session")
	}

	session := toDomainSession(training)
	return &session, nil
}

// OpenSession starts a session; fails with a conflict when one is already open
func (r *Repository) OpenSession(ctx context.Context, userID int64) (*domain.TrainingSession, error) {
	var created database.Training
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&database.Training{}).
			Where("user_id = ? AND ended_at IS NULL", userID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return errSessionOpen(userID)
		}

		created = database.Training{UserID: userID, StartedAt: r.now()}
		return tx.Create(&created).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, errSessionOpen(userID)
		}
		return nil, storageErr(err, "open session")
	}

	session := toDomainSession(created)
	return &session, nil
}

// lockOpen fails with not found unless the session exists and is still open
func lockOpen(tx *gorm.DB, sessionID uint) error {
	var training database.Training
	err := tx.Select("id").Where("id = ? AND ended_at IS NULL", sessionID).Take(&training).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errSessionNotFound(sessionID)
	}
	return err
}

func (r *Repository) SetSessionMeasurements(ctx context.Context, sessionID uint, text string) error {
	res := r.db.WithContext(ctx).Model(&database.Training{}).
		Where("id = ? AND ended_at IS NULL", sessionID).
		Update("measurements", text)
	if res.Error != nil {
		return storageErr(res.Error, "set session measurements")
	}
	if res.RowsAffected == 0 {
		return errSessionNotFound(sessionID)
	}
	return nil
}

// AppendExercise adds a validated exercise at the end of an open session.
// Repeating a DraftID returns the exercise stored the first time.
func (r *Repository) AppendExercise(ctx context.Context, sessionID uint, exercise domain.Exercise) (*domain.Exercise, error) {
	if err := exercise.Validate(); err != nil {
		return nil, err
	}
	if exercise.DraftID == "" {
		exercise.DraftID = uuid.NewString()
	}

	var stored database.TrainingExercise
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOpen(tx, sessionID); err != nil {
			return err
		}

		res := tx.Where("training_id = ? AND draft_id = ?", sessionID, exercise.DraftID).Limit(1).Find(&stored)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var last int
		if err := tx.Model(&database.TrainingExercise{}).
			Where("training_id = ?", sessionID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return err
		}

		stored = toExerciseRow(sessionID, last+1, exercise)
		stored.CreatedAt = r.now()
		return tx.Create(&stored).Error
	})
	if err != nil {
		return nil, storageErr(err, "append exercise")
	}

	result := toDomainExercise(stored)
	return &result, nil
}

// RemoveExercise deletes one exercise from an open session
func (r *Repository) RemoveExercise(ctx context.Context, sessionID, exerciseID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOpen(tx, sessionID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND training_id = ?", exerciseID, sessionID).Delete(&database.TrainingExercise{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewNotFoundError(apperrors.ErrExerciseNotFound.Code, "exercise not found").
				WithContext("exercise_id", exerciseID)
		}
		return nil
	})
	if err != nil {
		return storageErr(err, "remove exercise")
	}
	return nil
}

// CloseSession sets the end timestamp; empty sessions are rejected
func (r *Repository) CloseSession(ctx context.Context, sessionID uint, comment string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOpen(tx, sessionID); err != nil {
			return err
		}

		var exercises int64
		if err := tx.Model(&database.TrainingExercise{}).Where("training_id = ?", sessionID).Count(&exercises).Error; err != nil {
			return err
		}
		if exercises == 0 {
			return apperrors.New(apperrors.ErrorTypeValidation, apperrors.ErrEmptySession.Code, "session has no exercises").
				WithContext("session_id", sessionID)
		}

		res := tx.Model(&database.Training{}).
			Where("id = ? AND ended_at IS NULL", sessionID).
			Updates(map[string]interface{}{"ended_at": r.now(), "comment": comment})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errSessionNotFound(sessionID)
		}
		return nil
	})
	if err != nil {
		return storageErr(err, "close session")
	}
	return nil
}

// DiscardSession deletes an open session together with its exercises
func (r *Repository) DiscardSession(ctx context.Context, sessionID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOpen(tx, sessionID); err != nil {
			return err
		}
		if err := tx.Where("training_id = ?", sessionID).Delete(&database.TrainingExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Training{}, sessionID).Error
	})
	if err != nil {
		return storageErr(err, "discard session")
	}
	return nil
}

// ListClosedSessions returns closed sessions newest first; limit <= 0 returns all
func (r *Repository) ListClosedSessions(ctx context.Context, userID int64, limit int) ([]domain.TrainingSession, error) {
	query := r.db.WithContext(ctx).
		Preload("Exercises", orderedExercises).
		Where("user_id = ? AND ended_at IS NOT NULL", userID).
		Order("started_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var trainings []database.Training
	if err := query.Find(&trainings).Error; err != nil {
		return nil, storageErr(err, "list closed sessions")
	}

	sessions := make([]domain.TrainingSession, 0, len(trainings))
	for _, t := range trainings {
		sessions = append(sessions, toDomainSession(t))
	}
	return sessions, nil
}
