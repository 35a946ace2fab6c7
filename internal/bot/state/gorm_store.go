package state

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladimiradmaev/fitness-helper/internal/database"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

// GormStore keeps one conversation_states row per user
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, userID int64) (Conversation, bool, error) {
	var row database.ConversationState
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewConversation(userID), false, nil
	}
	if err != nil {
		return Conversation{}, false, apperrors.NewStorageError(err, "load conversation")
	}

	conv := Conversation{UserID: userID, State: ID(row.State), UpdatedAt: row.UpdatedAt}
	if len(row.Context) > 0 {
		if err := json.Unmarshal(row.Context, &conv.Context); err != nil {
			return NewConversation(userID), false, nil
		}
	}
	return conv, true, nil
}

func (s *GormStore) Save(ctx context.Context, conv Conversation) error {
	payload, err := json.Marshal(conv.Context)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	updatedAt := conv.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	row := database.ConversationState{
		UserID:    conv.UserID,
		State:     string(conv.State),
		Context:   datatypes.JSON(payload),
		UpdatedAt: updatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "context", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.NewStorageError(err, "save conversation")
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, userID int64) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&database.ConversationState{}).Error; err != nil {
		return apperrors.NewStorageError(err, "delete conversation")
	}
	return nil
}
