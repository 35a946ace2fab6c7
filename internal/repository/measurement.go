package repository

import (
	"context"

	"github.com/vladimiradmaev/fitness-helper/internal/database"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

func (r *Repository) RecordMeasurement(ctx context.Context, userID int64, text string) error {
	record := database.Measurement{UserID: userID, RecordedAt: r.now(), Text: text}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return storageErr(err, "record measurement")
	}
	return nil
}

// ListMeasurements returns the newest records first
func (r *Repository) ListMeasurements(ctx context.Context, userID int64, limit int) ([]domain.MeasurementRecord, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []database.Measurement
	if err := query.Find(&rows).Error; err != nil {
		return nil, storageErr(err, "list measurements")
	}

	records := make([]domain.MeasurementRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.MeasurementRecord{
			ID:         row.ID,
			UserID:     row.UserID,
			RecordedAt: row.RecordedAt,
			Text:       row.Text,
		})
	}
	return records, nil
}
