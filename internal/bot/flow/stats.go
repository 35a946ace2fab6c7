package flow

import (
	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
	"github.com/vladimiradmaev/fitness-helper/internal/services"
	"github.com/vladimiradmaev/fitness-helper/internal/utils"
)

const monthTopLimit = 3

func (m *Machine) handleStatsMenu(t *turn) error {
	if t.in.Token == menus.Back {
		return t.enter(state.MainMenu)
	}

	switch t.in.Token {
	case menus.GeneralStats, menus.WeekStats, menus.MonthStats, menus.YearStats, menus.ExerciseStats:
	default:
		return t.enter(state.StatsMenu)
	}

	snapshot, err := t.stats()
	if err != nil {
		return err
	}
	now := m.opts.Now()

	var text string
	switch t.in.Token {
	case menus.GeneralStats:
		text = menus.FormatGeneralStats(snapshot)
	case menus.WeekStats:
		from := utils.StartOfWeek(now)
		text = menus.FormatWeekStats(snapshot.Weekly[utils.WeekKey(now)], from, services.SessionsSince(snapshot, from))
	case menus.MonthStats:
		from := utils.StartOfMonth(now)
		text = menus.FormatMonthStats(snapshot.Monthly[utils.MonthKey(now)], from, services.TopInPeriod(snapshot, from, monthTopLimit))
	case menus.YearStats:
		text = menus.FormatYearStats(snapshot.Yearly[utils.YearKey(now)], now.Year(), services.MonthlyCounts(snapshot, now.Year()))
	case menus.ExerciseStats:
		if len(snapshot.PerExercise) == 0 {
			text = menus.FormatExerciseTop(nil)
			break
		}
		return t.enter(state.ExerciseStatsChoice)
	}
	t.reply(menus.StatsMenu(text))
	return nil
}

func (m *Machine) handleExerciseStatsChoice(t *turn) error {
	if t.in.Token == menus.Back {
		return t.enter(state.StatsMenu)
	}

	label, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.ExerciseStatsChoice)
	}
	kind, name, ok := menus.ParseExerciseLabel(label)
	if !ok {
		return reject("Выберите упражнение из списка.")
	}
	snapshot, err := t.stats()
	if err != nil {
		return err
	}
	rollup, found := snapshot.PerExercise[domain.ExerciseKey{Name: name, Kind: kind}]
	if !found {
		return apperrors.NewNotFoundError(apperrors.ErrExerciseNotFound.Code, "no history for exercise")
	}

	top := services.TopExercises(snapshot, topExercisesLimit)
	t.reply(menus.ExerciseStatsChoice(menus.FormatExerciseDetail(rollup), top))
	return nil
}

func (m *Machine) handleExportMenu(t *turn) error {
	var period services.ExportPeriod
	switch t.in.Token {
	case menus.ExportMonth:
		period = services.ExportCurrentMonth
	case menus.ExportAll:
		period = services.ExportAllTime
	case menus.Back:
		return t.enter(state.MainMenu)
	default:
		return t.enter(state.ExportMenu)
	}

	doc, err := m.deps.Exporter.Export(t.ctx, t.ev.UserID, period)
	if err != nil {
		return err
	}
	prompt := menus.ExportMenu()
	prompt.Text = "📤 Ваши тренировки в CSV."
	prompt.Attachment = &menus.Attachment{FileName: doc.FileName, Data: doc.Data}
	t.reply(prompt)
	return nil
}
