package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
	"github.com/vladimiradmaev/fitness-helper/internal/utils"
)

type ExportPeriod string

const (
	ExportAllTime      ExportPeriod = "all"
	ExportCurrentMonth ExportPeriod = "month"
)

// CodeNothingToExport is the not_found code returned for an empty export period
const CodeNothingToExport = "NOTHING_TO_EXPORT"

// Document is a generated file ready to be sent to the user
type Document struct {
	FileName string
	Data     []byte
}

var exportHeader = []string{"date", "type", "name", "weight", "reps", "minutes", "distance", "speed", "details"}

type ExportService struct {
	sessions SessionLister
	now      func() time.Time
}

func NewExportService(sessions SessionLister) *ExportService {
	return &ExportService{sessions: sessions, now: time.Now}
}

// Export renders closed sessions as CSV, oldest first, one row per set or cardio entry
func (s *ExportService) Export(ctx context.Context, userID int64, period ExportPeriod) (*Document, error) {
	sessions, err := s.sessions.ListClosedSessions(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions for export: %w", err)
	}

	now := s.now()
	if period == ExportCurrentMonth {
		from := utils.StartOfMonth(now)
		filtered := sessions[:0:0]
		for _, session := range sessions {
			if !session.StartedAt.Before(from) {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}
	if len(sessions) == 0 {
		return nil, apperrors.NewNotFoundError(CodeNothingToExport, "no closed sessions to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		for _, record := range sessionRecords(&sessions[i]) {
			if err := w.Write(record); err != nil {
				return nil, apperrors.NewInternalError(err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &Document{
		FileName: fmt.Sprintf("trainings_%s_%s.csv", period, now.Format("20060102")),
		Data:     buf.Bytes(),
	}, nil
}

func sessionRecords(session *domain.TrainingSession) [][]string {
	date := utils.FormatDate(session.StartedAt)
	var records [][]string
	for _, exercise := range session.Exercises {
		switch p := exercise.Payload.(type) {
		case domain.StrengthPayload:
			for _, set := range p.Sets {
				records = append(records, []string{
					date, "Силовое", exercise.Name,
					formatFloat(set.Weight), strconv.Itoa(set.Reps),
					"", "", "", "",
				})
			}
		case domain.CardioPayload:
			var distance, speed string
			if v, ok := p.Distance(); ok {
				distance = formatFloat(v)
			}
			if v, ok := p.Speed(); ok {
				speed = formatFloat(v)
			}
			records = append(records, []string{
				date, "Кардио", exercise.Name,
				"", "", strconv.Itoa(p.DurationMin), distance, speed, p.Details(),
			})
		}
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
