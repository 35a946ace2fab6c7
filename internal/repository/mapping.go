package repository

import (
	"github.com/vladimiradmaev/fitness-helper/internal/database"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

func toDomainSession(t database.Training) domain.TrainingSession {
	session := domain.TrainingSession{
		ID:           t.ID,
		UserID:       t.UserID,
		StartedAt:    t.StartedAt,
		EndedAt:      t.EndedAt,
		Measurements: t.Measurements,
		Comment:      t.Comment,
		Exercises:    make([]domain.Exercise, 0, len(t.Exercises)),
	}
	for _, row := range t.Exercises {
		session.Exercises = append(session.Exercises, toDomainExercise(row))
	}
	return session
}

func toDomainExercise(row database.TrainingExercise) domain.Exercise {
	exercise := domain.Exercise{
		ID:        row.ID,
		Name:      row.Name,
		DraftID:   row.DraftID,
		CreatedAt: row.CreatedAt,
	}

	switch domain.Kind(row.Kind) {
	case domain.KindStrength:
		sets := make([]domain.Set, 0, len(row.Sets))
		for _, s := range row.Sets {
			sets = append(sets, domain.Set{Weight: s.Weight, Reps: s.Reps})
		}
		exercise.Payload = domain.StrengthPayload{Sets: sets}
	case domain.KindCardio:
		p := domain.CardioPayload{}
		if row.DurationMin != nil {
			p.DurationMin = *row.DurationMin
		}
		if row.CardioFormat != nil {
			p.Format = domain.CardioFormat(*row.CardioFormat)
		}
		switch {
		case row.DistanceMeters != nil:
			p.Value = *row.DistanceMeters
		case row.SpeedKmh != nil:
			p.Value = *row.SpeedKmh
		}
		exercise.Payload = p
	}
	return exercise
}

func toExerciseRow(trainingID uint, position int, e domain.Exercise) database.TrainingExercise {
	row := database.TrainingExercise{
		TrainingID: trainingID,
		DraftID:    e.DraftID,
		Position:   position,
		Kind:       string(e.Kind()),
		Name:       e.Name,
	}

	switch p := e.Payload.(type) {
	case domain.StrengthPayload:
		row.Sets = make([]database.SetRow, 0, len(p.Sets))
		for _, s := range p.Sets {
			row.Sets = append(row.Sets, database.SetRow{Weight: s.Weight, Reps: s.Reps})
		}
	case domain.CardioPayload:
		duration := p.DurationMin
		format := string(p.Format)
		value := p.Value
		row.DurationMin = &duration
		row.CardioFormat = &format
		if p.Format == domain.CardioSpeed {
			row.SpeedKmh = &value
		} else {
			row.DistanceMeters = &value
		}
		row.Details = p.Details()
	}
	return row
}
