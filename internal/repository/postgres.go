package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

// Repository is the gorm backed domain.Repository
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ domain.Repository = (*Repository)(nil)

// New creates a repository over an already migrated database
func New(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// GetDB returns the underlying GORM database instance
func (r *Repository) GetDB() *gorm.DB {
	return r.db
}

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// storageErr passes AppErrors through and wraps everything else as a storage failure
func storageErr(err error, operation string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(operation).WithContext("cause", err.Error())
	}
	return apperrors.NewStorageError(err, operation)
}

func errSessionNotFound(sessionID uint) error {
	return apperrors.NewNotFoundError(apperrors.ErrSessionNotFound.Code, "open session not found").
		WithContext("session_id", sessionID)
}

func errSessionOpen(userID int64) error {
	return apperrors.NewConflictError(apperrors.ErrSessionOpen.Code, "an open session already exists").
		WithContext("user_id", userID)
}
