package menus

import "strings"

// Token is the closed set of inputs the state machine reacts to
type Token int

const (
	Unrecognized Token = iota
	Begin
	Help
	StartTraining
	ContinueTraining
	NewTraining
	ClearHistory
	ConfirmWipe
	History
	MeasurementsHistory
	MyExercises
	Statistics
	Export
	EnterMeasurements
	Skip
	Strength
	Cardio
	AddCustom
	DeleteCustom
	Finish
	AddMoreSets
	SaveExercise
	Cancel
	DistanceFormat
	SpeedFormat
	Correct
	ConfirmFinish
	AppendMore
	DeleteExercise
	Yes
	No
	Back
	ToMainMenu
	GeneralStats
	WeekStats
	MonthStats
	YearStats
	ExerciseStats
	ExportMonth
	ExportAll
)

// Reply keyboard labels
const (
	LabelBegin               = "🚀 Начать"
	LabelHelp                = "❓ Помощь"
	LabelStartTraining       = "🏋️ Начать тренировку"
	LabelContinueTraining    = "▶️ Продолжить тренировку"
	LabelNewTraining         = "🆕 Начать новую тренировку"
	LabelClearHistory        = "🧹 Очистить историю"
	LabelConfirmWipe         = "⚠️ Да, удалить всё"
	LabelHistory             = "📋 История тренировок"
	LabelMeasurementsHistory = "📏 История замеров"
	LabelMyExercises         = "📝 Мои упражнения"
	LabelStatistics          = "📊 Статистика"
	LabelExport              = "📤 Экспорт"
	LabelEnterMeasurements   = "📐 Ввести замеры"
	LabelSkip                = "⏭ Пропустить"
	LabelStrength            = "💪 Силовые"
	LabelCardio              = "🏃 Кардио"
	LabelAddCustom           = "➕ Добавить упражнение"
	LabelDeleteCustom        = "🗑 Удалить упражнение"
	LabelFinish              = "🏁 Завершить тренировку"
	LabelAddMoreSets         = "➕ Ещё подходы"
	LabelSaveExercise        = "✅ Сохранить упражнение"
	LabelCancel              = "❌ Отмена"
	LabelDistanceFormat      = "⏱ Минуты и метры"
	LabelSpeedFormat         = "🚀 Минуты и км/ч"
	LabelCorrect             = "✏️ Скорректировать"
	LabelConfirmFinish       = "✅ Точно завершить"
	LabelAppendMore          = "➕ Добавить упражнения"
	LabelDeleteExercise      = "➖ Удалить из тренировки"
	LabelYes                 = "✅ Да"
	LabelNo                  = "❌ Нет"
	LabelBack                = "🔙 Назад"
	LabelToMainMenu          = "🏠 Главное меню"
	LabelGeneralStats        = "📈 Общая"
	LabelWeekStats           = "📅 Неделя"
	LabelMonthStats          = "🗓 Месяц"
	LabelYearStats           = "📆 Год"
	LabelExerciseStats       = "🏅 По упражнениям"
	LabelExportMonth         = "📄 Текущий месяц"
	LabelExportAll           = "📦 За всё время"
)

var labels = map[string]Token{
	LabelBegin:               Begin,
	LabelHelp:                Help,
	LabelStartTraining:       StartTraining,
	LabelContinueTraining:    ContinueTraining,
	LabelNewTraining:         NewTraining,
	LabelClearHistory:        ClearHistory,
	LabelConfirmWipe:         ConfirmWipe,
	LabelHistory:             History,
	LabelMeasurementsHistory: MeasurementsHistory,
	LabelMyExercises:         MyExercises,
	LabelStatistics:          Statistics,
	LabelExport:              Export,
	LabelEnterMeasurements:   EnterMeasurements,
	LabelSkip:                Skip,
	LabelStrength:            Strength,
	LabelCardio:              Cardio,
	LabelAddCustom:           AddCustom,
	LabelDeleteCustom:        DeleteCustom,
	LabelFinish:              Finish,
	LabelAddMoreSets:         AddMoreSets,
	LabelSaveExercise:        SaveExercise,
	LabelCancel:              Cancel,
	LabelDistanceFormat:      DistanceFormat,
	LabelSpeedFormat:         SpeedFormat,
	LabelCorrect:             Correct,
	LabelConfirmFinish:       ConfirmFinish,
	LabelAppendMore:          AppendMore,
	LabelDeleteExercise:      DeleteExercise,
	LabelYes:                 Yes,
	LabelNo:                  No,
	LabelBack:                Back,
	LabelToMainMenu:          ToMainMenu,
	LabelGeneralStats:        GeneralStats,
	LabelWeekStats:           WeekStats,
	LabelMonthStats:          MonthStats,
	LabelYearStats:           YearStats,
	LabelExerciseStats:       ExerciseStats,
	LabelExportMonth:         ExportMonth,
	LabelExportAll:           ExportAll,
}

var commands = map[string]Token{
	"start": Begin,
	"help":  Help,
	"menu":  ToMainMenu,
}

// typed words accepted in place of a button
var aliases = map[string]Token{
	"пропустить": Skip,
	"отмена":     Cancel,
	"назад":      Back,
	"меню":       ToMainMenu,
}

// Input is a normalized inbound message
type Input struct {
	Token Token
	// Text is the trimmed raw message, used by free-text handlers
	Text    string
	Command bool
}

// FreeText returns the message text when it is not a button, alias or command
func (in Input) FreeText() (string, bool) {
	if in.Token != Unrecognized || in.Command || in.Text == "" {
		return "", false
	}
	return in.Text, true
}

// Normalize maps raw text to a token; anything else is Unrecognized
func Normalize(raw string) Input {
	text := strings.TrimSpace(raw)
	in := Input{Token: Unrecognized, Text: text}

	if strings.HasPrefix(text, "/") {
		in.Command = true
		name := strings.TrimPrefix(strings.Fields(text + " ")[0], "/")
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		if token, ok := commands[strings.ToLower(name)]; ok {
			in.Token = token
		}
		return in
	}

	if token, ok := labels[text]; ok {
		in.Token = token
		return in
	}
	if token, ok := aliases[strings.ToLower(text)]; ok {
		in.Token = token
	}
	return in
}
