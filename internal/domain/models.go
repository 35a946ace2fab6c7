package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"

	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

// Kind discriminates exercise variants
type Kind string

const (
	KindStrength Kind = "strength"
	KindCardio   Kind = "cardio"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k == KindStrength || k == KindCardio
}

// User represents a telegram user in the system
type User struct {
	ID          int64
	DisplayName string
	CreatedAt   time.Time
}

// Set is one weighted strength set
type Set struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// CardioFormat selects the meaning of the second cardio value
type CardioFormat string

const (
	CardioDistance CardioFormat = "min_meters"
	CardioSpeed    CardioFormat = "km_h"
)

func (f CardioFormat) Valid() bool {
	return f == CardioDistance || f == CardioSpeed
}

// Payload is the kind-specific part of an Exercise.
// Implemented only by StrengthPayload and CardioPayload.
type Payload interface {
	Kind() Kind
	validate() error
}

type StrengthPayload struct {
	Sets []Set
}

func (StrengthPayload) Kind() Kind { return KindStrength }

func (p StrengthPayload) validate() error {
	if len(p.Sets) == 0 {
		return apperrors.NewValidationError("strength exercise needs at least one set")
	}
	for i, s := range p.Sets {
		if !finite(s.Weight) || s.Weight < 0 || s.Reps <= 0 {
			return apperrors.NewValidationError(fmt.Sprintf("set %d is out of range", i+1))
		}
	}
	return nil
}

// TotalReps sums reps across all sets
func (p StrengthPayload) TotalReps() int {
	total := 0
	for _, s := range p.Sets {
		total += s.Reps
	}
	return total
}

type CardioPayload struct {
	DurationMin int
	Format      CardioFormat
	Value       float64
}

func (CardioPayload) Kind() Kind { return KindCardio }

func (p CardioPayload) validate() error {
	if p.DurationMin <= 0 {
		return apperrors.NewValidationError("cardio duration must be positive")
	}
	if !p.Format.Valid() {
		return apperrors.NewValidationError("cardio format is not chosen")
	}
	if !finite(p.Value) || p.Value <= 0 {
		return apperrors.NewValidationError("cardio value must be a positive number")
	}
	return nil
}

// Distance returns meters when the entry was recorded as duration+distance
func (p CardioPayload) Distance() (float64, bool) {
	return p.Value, p.Format == CardioDistance
}

// Speed returns km/h when the entry was recorded as duration+speed
func (p CardioPayload) Speed() (float64, bool) {
	return p.Value, p.Format == CardioSpeed
}

// Details renders the human readable summary stored alongside the entry
func (p CardioPayload) Details() string {
	value := strconv.FormatFloat(p.Value, 'f', -1, 64)
	if p.Format == CardioSpeed {
		return fmt.Sprintf("%d минут, %s км/ч", p.DurationMin, value)
	}
	return fmt.Sprintf("%d минут, %s метров", p.DurationMin, value)
}

// Exercise is one logged movement within a session
type Exercise struct {
	ID        uint
	Name      string
	DraftID   string
	Payload   Payload
	CreatedAt time.Time
}

func (e Exercise) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// Validate checks the exercise is complete enough to be committed
func (e Exercise) Validate() error {
	if e.Name == "" {
		return apperrors.NewValidationError("exercise name is empty")
	}
	if e.Payload == nil {
		return apperrors.NewValidationError("exercise has no details")
	}
	return e.Payload.validate()
}

// TrainingSession is one workout record; open while EndedAt is nil
type TrainingSession struct {
	ID           uint
	UserID       int64
	StartedAt    time.Time
	EndedAt      *time.Time
	Measurements string
	Comment      string
	Exercises    []Exercise
}

func (s *TrainingSession) IsOpen() bool {
	return s.EndedAt == nil
}

// CountByKind returns the number of strength and cardio exercises
func (s *TrainingSession) CountByKind() (strength, cardio int) {
	for _, e := range s.Exercises {
		switch e.Payload.(type) {
		case StrengthPayload:
			strength++
		case CardioPayload:
			cardio++
		}
	}
	return strength, cardio
}

// MeasurementRecord is one entry of the append-only body measurement history
type MeasurementRecord struct {
	ID         uint
	UserID     int64
	RecordedAt time.Time
	Text       string
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
