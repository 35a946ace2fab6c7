package repository

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/fitness-helper/internal/database"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

// GetCatalog returns the user's custom names only; defaults are merged by domain.Choices
func (r *Repository) GetCatalog(ctx context.Context, userID int64) (domain.Catalog, error) {
	var rows []database.CustomExercise
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return domain.Catalog{}, storageErr(err, "get catalog")
	}

	var catalog domain.Catalog
	for _, row := range rows {
		switch domain.Kind(row.Kind) {
		case domain.KindStrength:
			catalog.Strength = append(catalog.Strength, row.Name)
		case domain.KindCardio:
			catalog.Cardio = append(catalog.Cardio, row.Name)
		}
	}
	return catalog, nil
}

// AddCatalogEntry stores a custom name; names are case-sensitive and unique per user and kind
func (r *Repository) AddCatalogEntry(ctx context.Context, userID int64, kind domain.Kind, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("exercise name is empty")
	}
	if !kind.Valid() {
		return apperrors.NewValidationError("unknown exercise kind")
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&database.CustomExercise{}).
		Where("user_id = ? AND kind = ? AND name = ?", userID, string(kind), name).
		Count(&existing).Error; err != nil {
		return storageErr(err, "add catalog entry")
	}
	if existing > 0 {
		return errDuplicateEntry(name)
	}

	entry := database.CustomExercise{UserID: userID, Kind: string(kind), Name: name, CreatedAt: r.now()}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isDuplicate(err) {
			return errDuplicateEntry(name)
		}
		return storageErr(err, "add catalog entry")
	}
	return nil
}

// RemoveCatalogEntry deletes a custom name. Built-in names are never removed.
func (r *Repository) RemoveCatalogEntry(ctx context.Context, userID int64, kind domain.Kind, name string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND name = ?", userID, string(kind), name).
		Delete(&database.CustomExercise{})
	if res.Error != nil {
		return storageErr(res.Error, "remove catalog entry")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if domain.IsDefault(kind, name) {
		return apperrors.NewNotFoundError(apperrors.ErrDefaultEntry.Code, "built-in exercises cannot be removed").
			WithContext("name", name)
	}
	return apperrors.NewNotFoundError(apperrors.ErrEntryNotFound.Code, "catalog entry not found").
		WithContext("name", name)
}

func errDuplicateEntry(name string) error {
	return apperrors.NewConflictError(apperrors.ErrDuplicateEntry.Code, "exercise already exists").
		WithContext("name", name)
}
