package domain

import (
	"context"
)

// Repository persists users, sessions, measurements and custom catalogs.
// All failures are *errors.AppError values.
type Repository interface {
	CreateUser(ctx context.Context, id int64, displayName string) error
	GetUser(ctx context.Context, id int64) (*User, error)

	// GetOpenSession returns nil without error when the user has no open session
	GetOpenSession(ctx context.Context, userID int64) (*TrainingSession, error)
	OpenSession(ctx context.Context, userID int64) (*TrainingSession, error)
	SetSessionMeasurements(ctx context.Context, sessionID uint, text string) error
	AppendExercise(ctx context.Context, sessionID uint, exercise Exercise) (*Exercise, error)
	RemoveExercise(ctx context.Context, sessionID, exerciseID uint) error
	CloseSession(ctx context.Context, sessionID uint, comment string) error
	DiscardSession(ctx context.Context, sessionID uint) error
	// ListClosedSessions returns newest first; limit <= 0 means all
	ListClosedSessions(ctx context.Context, userID int64, limit int) ([]TrainingSession, error)

	RecordMeasurement(ctx context.Context, userID int64, text string) error
	ListMeasurements(ctx context.Context, userID int64, limit int) ([]MeasurementRecord, error)

	GetCatalog(ctx context.Context, userID int64) (Catalog, error)
	AddCatalogEntry(ctx context.Context, userID int64, kind Kind, name string) error
	RemoveCatalogEntry(ctx context.Context, userID int64, kind Kind, name string) error

	// WipeUser deletes every record owned by the user except the user row
	WipeUser(ctx context.Context, userID int64) error
}
