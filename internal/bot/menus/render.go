package menus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	"github.com/vladimiradmaev/fitness-helper/internal/utils"
)

const (
	strengthMarker = "💪 "
	cardioMarker   = "🏃 "
)

var monthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

func KindTitle(kind domain.Kind) string {
	if kind == domain.KindCardio {
		return "кардио"
	}
	return "силовое"
}

// ExerciseLabel prefixes a name with its kind marker
func ExerciseLabel(kind domain.Kind, name string) string {
	if kind == domain.KindCardio {
		return cardioMarker + name
	}
	return strengthMarker + name
}

// ParseExerciseLabel reverses ExerciseLabel
func ParseExerciseLabel(label string) (domain.Kind, string, bool) {
	switch {
	case strings.HasPrefix(label, strengthMarker):
		return domain.KindStrength, strings.TrimPrefix(label, strengthMarker), true
	case strings.HasPrefix(label, cardioMarker):
		return domain.KindCardio, strings.TrimPrefix(label, cardioMarker), true
	}
	return "", "", false
}

// NumberedLabel renders "1. name" for a zero-based index
func NumberedLabel(index int, name string) string {
	return fmt.Sprintf("%d. %s", index+1, name)
}

// ParseNumberedLabel returns the zero-based index of a "N. name" label
func ParseNumberedLabel(label string) (int, bool) {
	head, _, found := strings.Cut(label, ".")
	if !found {
		head = label
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n - 1, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatSets(sets []domain.Set) string {
	lines := make([]string, 0, len(sets))
	for i, s := range sets {
		lines = append(lines, fmt.Sprintf("%d) %s кг × %d", i+1, formatNumber(s.Weight), s.Reps))
	}
	return strings.Join(lines, "\n")
}

func FormatExercise(e domain.Exercise) string {
	switch p := e.Payload.(type) {
	case domain.StrengthPayload:
		return strengthMarker + e.Name + "\n" + indent(FormatSets(p.Sets))
	case domain.CardioPayload:
		return cardioMarker + e.Name + ": " + p.Details()
	}
	return e.Name
}

func indent(text string) string {
	return "   " + strings.ReplaceAll(text, "\n", "\n   ")
}

// FormatSessionSummary renders the review shown before closing a session
func FormatSessionSummary(s *domain.TrainingSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Тренировка от %s", utils.FormatDateTime(s.StartedAt))
	if s.Measurements != "" {
		fmt.Fprintf(&b, "\n📏 Замеры: %s", s.Measurements)
	}
	b.WriteString("\n")
	for _, e := range s.Exercises {
		b.WriteString("\n" + FormatExercise(e))
	}
	strength, cardio := s.CountByKind()
	fmt.Fprintf(&b, "\n\nИтого: %d упр. (силовых %d, кардио %d)", len(s.Exercises), strength, cardio)
	return b.String()
}

// FormatTrainingStatus is the header of the training menu
func FormatTrainingStatus(s *domain.TrainingSession) string {
	if len(s.Exercises) == 0 {
		return fmt.Sprintf("🏋️ Тренировка от %s\nПока нет упражнений. Выберите тип:", utils.FormatDateTime(s.StartedAt))
	}
	return fmt.Sprintf("🏋️ Тренировка от %s\nЗаписано упражнений: %d. Что дальше?", utils.FormatDateTime(s.StartedAt), len(s.Exercises))
}

func FormatHistory(sessions []domain.TrainingSession) string {
	if len(sessions) == 0 {
		return "📋 У вас пока нет завершённых тренировок."
	}
	var b strings.Builder
	b.WriteString("📋 Последние тренировки:")
	for _, s := range sessions {
		fmt.Fprintf(&b, "\n• %s — %d упр.", utils.FormatDate(s.StartedAt), len(s.Exercises))
		if s.Comment != "" {
			fmt.Fprintf(&b, " (%s)", s.Comment)
		}
	}
	return b.String()
}

func FormatMeasurements(records []domain.MeasurementRecord) string {
	if len(records) == 0 {
		return "📏 Замеров пока нет."
	}
	var b strings.Builder
	b.WriteString("📏 История замеров:")
	for _, r := range records {
		fmt.Fprintf(&b, "\n• %s: %s", utils.FormatDate(r.RecordedAt), r.Text)
	}
	return b.String()
}

func FormatGeneralStats(s *domain.StatisticsSnapshot) string {
	if s.Totals.Sessions == 0 {
		return "📈 Статистика пока пуста: завершите первую тренировку."
	}
	return fmt.Sprintf("📈 Общая статистика\n\nТренировок: %d\nУпражнений: %d\n💪 Силовых: %d\n🏃 Кардио: %d",
		s.Totals.Sessions, s.Totals.Exercises, s.Totals.ByKind.Strength, s.Totals.ByKind.Cardio)
}

func formatBucket(title string, b domain.PeriodBucket) string {
	return fmt.Sprintf("%s\n\nТренировок: %d\nУпражнений: %d (💪 %d, 🏃 %d)",
		title, b.Sessions, b.Exercises, b.ByKind.Strength, b.ByKind.Cardio)
}

func FormatWeekStats(b domain.PeriodBucket, from time.Time, sessions []domain.TrainingSession) string {
	text := formatBucket("📅 Неделя с "+utils.FormatDate(from), b)
	if len(sessions) > 5 {
		sessions = sessions[:5]
	}
	for _, s := range sessions {
		text += fmt.Sprintf("\n• %s — %d упр.", utils.FormatDate(s.StartedAt), len(s.Exercises))
	}
	return text
}

func FormatMonthStats(b domain.PeriodBucket, month time.Time, top []domain.ExerciseRollup) string {
	text := formatBucket(fmt.Sprintf("🗓 %s %d", monthNames[month.Month()-1], month.Year()), b)
	if len(top) > 0 {
		text += "\n\nЧаще всего:"
		for i, r := range top {
			text += fmt.Sprintf("\n%d. %s — %d раз", i+1, ExerciseLabel(r.Key.Kind, r.Key.Name), r.Occurrences)
		}
	}
	return text
}

func FormatYearStats(b domain.PeriodBucket, year int, counts [12]int) string {
	text := formatBucket(fmt.Sprintf("📆 %d год", year), b)
	for i, n := range counts {
		if n > 0 {
			text += fmt.Sprintf("\n%s: %d", monthNames[i], n)
		}
	}
	return text
}

func FormatExerciseTop(rollups []domain.ExerciseRollup) string {
	if len(rollups) == 0 {
		return "🏅 Упражнений в истории пока нет."
	}
	var b strings.Builder
	b.WriteString("🏅 Самые частые упражнения:")
	for i, r := range rollups {
		fmt.Fprintf(&b, "\n%d. %s — %d раз", i+1, ExerciseLabel(r.Key.Kind, r.Key.Name), r.Occurrences)
	}
	b.WriteString("\n\nВыберите упражнение для подробностей.")
	return b.String()
}

func FormatExerciseDetail(r domain.ExerciseRollup) string {
	header := ExerciseLabel(r.Key.Kind, r.Key.Name)
	if r.Key.Kind == domain.KindCardio {
		return fmt.Sprintf("%s\n\nВыполнено: %d раз\nДлительность: мин %d, макс %d, средняя %.1f мин",
			header, r.Occurrences, r.MinDuration, r.MaxDuration, r.MeanDuration())
	}
	return fmt.Sprintf("%s\n\nВыполнено: %d раз\nПодходов: %d\nМаксимальный вес: %s кг\nСреднее повторений за подход: %.1f",
		header, r.Occurrences, r.TotalSets, formatNumber(r.MaxWeight), r.MeanRepsPerSet())
}
