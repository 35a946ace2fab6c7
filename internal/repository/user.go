package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/fitness-helper/internal/database"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

// CreateUser inserts the user unless it already exists
func (r *Repository) CreateUser(ctx context.Context, id int64, displayName string) error {
	var user database.User
	err := r.db.WithContext(ctx).
		Where(database.User{TelegramID: id}).
		Attrs(database.User{DisplayName: displayName}).
		FirstOrCreate(&user).Error
	if err != nil && !isDuplicate(err) {
		return storageErr(err, "create user")
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("USER_NOT_FOUND", "user not found").WithContext("user_id", id)
	}
	if err != nil {
		return nil, storageErr(err, "get user")
	}
	return &domain.User{ID: user.TelegramID, DisplayName: user.DisplayName, CreatedAt: user.CreatedAt}, nil
}

// WipeUser removes sessions, measurements and the custom catalog of a user
func (r *Repository) WipeUser(ctx context.Context, userID int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trainings := tx.Model(&database.Training{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("training_id IN (?)", trainings).Delete(&database.TrainingExercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&database.Training{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&database.Measurement{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&database.CustomExercise{}).Error
	})
	if err != nil {
		return storageErr(err, "wipe user data")
	}
	return nil
}
