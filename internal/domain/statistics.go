package domain

// KindSplit counts exercises per kind
type KindSplit struct {
	Strength int
	Cardio   int
}

func (k *KindSplit) add(kind Kind) {
	switch kind {
	case KindStrength:
		k.Strength++
	case KindCardio:
		k.Cardio++
	}
}

// Totals are the all-time counters of a user
type Totals struct {
	Sessions  int
	Exercises int
	ByKind    KindSplit
}

// PeriodBucket aggregates sessions that started in one week, month or year
type PeriodBucket struct {
	Key       string
	Sessions  int
	Exercises int
	ByKind    KindSplit
}

// AddSession counts s into the bucket
func (b *PeriodBucket) AddSession(s *TrainingSession) {
	b.Sessions++
	for _, e := range s.Exercises {
		b.Exercises++
		b.ByKind.add(e.Kind())
	}
}

// ExerciseKey identifies a per-exercise rollup; same name under both kinds stays separate
type ExerciseKey struct {
	Name string
	Kind Kind
}

// ExerciseRollup tracks one exercise across the whole history
type ExerciseRollup struct {
	Key         ExerciseKey
	Occurrences int

	MaxWeight float64
	TotalSets int
	TotalReps int

	MaxDuration   int
	MinDuration   int
	TotalDuration int
}

// MeanRepsPerSet is zero for exercises without sets
func (r ExerciseRollup) MeanRepsPerSet() float64 {
	if r.TotalSets == 0 {
		return 0
	}
	return float64(r.TotalReps) / float64(r.TotalSets)
}

// MeanDuration is zero for exercises without cardio entries
func (r ExerciseRollup) MeanDuration() float64 {
	if r.Key.Kind != KindCardio || r.Occurrences == 0 {
		return 0
	}
	return float64(r.TotalDuration) / float64(r.Occurrences)
}

// Add folds one occurrence of the exercise into the rollup
func (r *ExerciseRollup) Add(e Exercise) {
	r.Occurrences++
	switch p := e.Payload.(type) {
	case StrengthPayload:
		for _, s := range p.Sets {
			if s.Weight > r.MaxWeight {
				r.MaxWeight = s.Weight
			}
			r.TotalSets++
			r.TotalReps += s.Reps
		}
	case CardioPayload:
		if p.DurationMin > r.MaxDuration {
			r.MaxDuration = p.DurationMin
		}
		if r.Occurrences == 1 || p.DurationMin < r.MinDuration {
			r.MinDuration = p.DurationMin
		}
		r.TotalDuration += p.DurationMin
	}
}

// StatisticsSnapshot is derived on demand from closed sessions and never stored
type StatisticsSnapshot struct {
	Totals      Totals
	Weekly      map[string]PeriodBucket
	Monthly     map[string]PeriodBucket
	Yearly      map[string]PeriodBucket
	PerExercise map[ExerciseKey]ExerciseRollup
	// Sessions holds the closed sessions the snapshot was built from, newest first
	Sessions []TrainingSession
}

// AddSession counts s into the all-time totals
func (t *Totals) AddSession(s *TrainingSession) {
	t.Sessions++
	for _, e := range s.Exercises {
		t.Exercises++
		t.ByKind.add(e.Kind())
	}
}
