package menus

import (
	"strings"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

// Attachment is a file delivered together with a prompt
type Attachment struct {
	FileName string
	Data     []byte
}

// Prompt is one outbound message: plain text plus suggested replies.
// Nil Options leave the user's current keyboard untouched.
type Prompt struct {
	Text       string
	Options    [][]string
	Attachment *Attachment
}

// Text builds a prompt that keeps the current keyboard
func Text(text string) Prompt {
	return Prompt{Text: text}
}

func rows(labels ...[]string) [][]string {
	return labels
}

func row(labels ...string) []string {
	return labels
}

const HelpText = `🏋️ Дневник тренировок

Как записать тренировку:
1. «Начать тренировку», при желании введите замеры
2. Выберите силовое или кардио упражнение
3. Силовые: вводите подходы строками «вес повторения», например
   50 12
   52,5x10
4. Кардио: «минуты метры» или «минуты км/ч», например 30 3000
5. «Завершить тренировку», проверьте итог и подтвердите

Команды: /start — главное меню, /help — эта справка`

func IdlePrompt() Prompt {
	return Prompt{
		Text:    "👋 Привет! Я помогу вести дневник тренировок. Нажмите «Начать».",
		Options: rows(row(LabelBegin)),
	}
}

func MainMenuOptions() [][]string {
	return rows(
		row(LabelStartTraining),
		row(LabelHistory, LabelMeasurementsHistory),
		row(LabelMyExercises, LabelStatistics),
		row(LabelExport, LabelHelp),
	)
}

func MainMenu(text string) Prompt {
	if text == "" {
		text = "🏠 Главное меню. Выберите действие:"
	}
	return Prompt{Text: text, Options: MainMenuOptions()}
}

// WelcomeWithOpenSession offers to resume or replace an unfinished session
func WelcomeWithOpenSession(text string) Prompt {
	return Prompt{
		Text: text,
		Options: rows(
			row(LabelContinueTraining),
			row(LabelNewTraining),
			row(LabelClearHistory),
			row(LabelToMainMenu),
		),
	}
}

func WipeConfirm() Prompt {
	return Prompt{
		Text:    "⚠️ Удалить все тренировки, замеры и свои упражнения? Это действие нельзя отменить.",
		Options: rows(row(LabelConfirmWipe), row(LabelCancel)),
	}
}

func MeasurementChoice() Prompt {
	return Prompt{
		Text:    "📏 Хотите записать замеры перед тренировкой?",
		Options: rows(row(LabelEnterMeasurements), row(LabelSkip), row(LabelToMainMenu)),
	}
}

func MeasurementInput() Prompt {
	return Prompt{
		Text:    "Введите замеры одним сообщением, например: вес 60, талия 70, бедра 95",
		Options: rows(row(LabelSkip), row(LabelBack)),
	}
}

func TrainingMenu(text string) Prompt {
	return Prompt{
		Text: text,
		Options: rows(
			row(LabelStrength, LabelCardio),
			row(LabelAddCustom),
			row(LabelFinish),
			row(LabelToMainMenu),
		),
	}
}

// ExerciseList shows one button per selectable name
func ExerciseList(kind domain.Kind, names []string) Prompt {
	options := make([][]string, 0, len(names)+2)
	for _, name := range names {
		options = append(options, row(name))
	}
	options = append(options, row(LabelAddCustom), row(LabelBack))

	text := "💪 Выберите силовое упражнение:"
	if kind == domain.KindCardio {
		text = "🏃 Выберите кардио упражнение:"
	}
	return Prompt{Text: text, Options: options}
}

func SetInput(name string, sets []domain.Set) Prompt {
	if len(sets) == 0 {
		return Prompt{
			Text:    "«" + name + "»\nВведите подходы: вес и повторения, по одному на строку.\nНапример:\n50 12\n55,5 10",
			Options: rows(row(LabelCancel)),
		}
	}
	return Prompt{
		Text:    "«" + name + "»\n" + FormatSets(sets) + "\n\nМожно добавить ещё подходы или сохранить упражнение.",
		Options: rows(row(LabelAddMoreSets), row(LabelSaveExercise), row(LabelCancel)),
	}
}

func CardioFormatChoice(name string) Prompt {
	return Prompt{
		Text:    "«" + name + "»\nКак будете вводить результат?",
		Options: rows(row(LabelDistanceFormat), row(LabelSpeedFormat), row(LabelBack)),
	}
}

func CardioDetailInput(name string, format domain.CardioFormat) Prompt {
	hint := "Введите минуты и метры, например: 30 3000"
	if format == domain.CardioSpeed {
		hint = "Введите минуты и скорость в км/ч, например: 30 9,5"
	}
	return Prompt{
		Text:    "«" + name + "»\n" + hint,
		Options: rows(row(LabelCancel)),
	}
}

func ExerciseTypeChoice() Prompt {
	return Prompt{
		Text:    "Какой тип упражнения добавить?",
		Options: rows(row(LabelStrength, LabelCardio), row(LabelBack)),
	}
}

func NameInput(kind domain.Kind) Prompt {
	text := "Введите название нового силового упражнения:"
	if kind == domain.KindCardio {
		text = "Введите название нового кардио упражнения:"
	}
	return Prompt{Text: text, Options: rows(row(LabelBack))}
}

func FinishSummary(summary string) Prompt {
	return Prompt{
		Text:    summary + "\n\nЗавершить тренировку?",
		Options: rows(row(LabelContinueTraining), row(LabelCorrect), row(LabelConfirmFinish)),
	}
}

func CommentInput() Prompt {
	return Prompt{
		Text:    "💬 Оставьте комментарий к тренировке или пропустите.",
		Options: rows(row(LabelSkip), row(LabelBack)),
	}
}

func EditMenu() Prompt {
	return Prompt{
		Text:    "✏️ Что скорректировать?",
		Options: rows(row(LabelAppendMore), row(LabelDeleteExercise), row(LabelBack)),
	}
}

// DeleteExerciseChoice lists exercises as numbered buttons
func DeleteExerciseChoice(exercises []domain.Exercise) Prompt {
	options := make([][]string, 0, len(exercises)+1)
	for i, e := range exercises {
		options = append(options, row(NumberedLabel(i, e.Name)))
	}
	options = append(options, row(LabelBack))
	return Prompt{Text: "Какое упражнение удалить из тренировки?", Options: options}
}

func CatalogMenu(catalog domain.Catalog) Prompt {
	var b strings.Builder
	b.WriteString("📝 Ваши упражнения\n")
	if len(catalog.Strength) == 0 && len(catalog.Cardio) == 0 {
		b.WriteString("\nСвоих упражнений пока нет.")
	}
	for _, name := range catalog.Strength {
		b.WriteString("\n" + ExerciseLabel(domain.KindStrength, name))
	}
	for _, name := range catalog.Cardio {
		b.WriteString("\n" + ExerciseLabel(domain.KindCardio, name))
	}
	return Prompt{
		Text:    b.String(),
		Options: rows(row(LabelAddCustom), row(LabelDeleteCustom), row(LabelToMainMenu)),
	}
}

func CatalogDeleteChoice(catalog domain.Catalog) Prompt {
	var options [][]string
	for _, name := range catalog.Strength {
		options = append(options, row(ExerciseLabel(domain.KindStrength, name)))
	}
	for _, name := range catalog.Cardio {
		options = append(options, row(ExerciseLabel(domain.KindCardio, name)))
	}
	options = append(options, row(LabelBack))
	return Prompt{Text: "Какое упражнение удалить? Упражнения по умолчанию удалить нельзя.", Options: options}
}

func CatalogDeleteConfirm(kind domain.Kind, name string) Prompt {
	return Prompt{
		Text:    "Удалить «" + name + "» (" + KindTitle(kind) + ")?",
		Options: rows(row(LabelYes, LabelNo)),
	}
}

func StatsMenuOptions() [][]string {
	return rows(
		row(LabelGeneralStats, LabelWeekStats),
		row(LabelMonthStats, LabelYearStats),
		row(LabelExerciseStats),
		row(LabelToMainMenu),
	)
}

func StatsMenu(text string) Prompt {
	if text == "" {
		text = "📊 Какую статистику показать?"
	}
	return Prompt{Text: text, Options: StatsMenuOptions()}
}

func ExerciseStatsChoice(text string, rollups []domain.ExerciseRollup) Prompt {
	options := make([][]string, 0, len(rollups)+1)
	for _, r := range rollups {
		options = append(options, row(ExerciseLabel(r.Key.Kind, r.Key.Name)))
	}
	options = append(options, row(LabelBack))
	return Prompt{Text: text, Options: options}
}

func ExportMenu() Prompt {
	return Prompt{
		Text:    "📤 Какие тренировки выгрузить в CSV?",
		Options: rows(row(LabelExportMonth, LabelExportAll), row(LabelToMainMenu)),
	}
}
