package interfaces

import (
	"context"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	"github.com/vladimiradmaev/fitness-helper/internal/services"
)

// StatsServiceInterface defines the contract for statistics operations
type StatsServiceInterface interface {
	Snapshot(ctx context.Context, userID int64) (*domain.StatisticsSnapshot, error)
}

// ExportServiceInterface defines the contract for export operations
type ExportServiceInterface interface {
	Export(ctx context.Context, userID int64, period services.ExportPeriod) (*services.Document, error)
}
