package flow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
)

func (h *harness) completeTraining(name, sets string) {
	h.t.Helper()
	h.send(menus.LabelStartTraining)
	h.send(menus.LabelSkip)
	h.addStrength(name, sets)
	h.send(menus.LabelFinish)
	h.send(menus.LabelConfirmFinish)
	h.send(menus.LabelSkip)
	h.requireState(state.MainMenu)
}

func TestStats_EmptyHistory(t *testing.T) {
	h := newHarness(t)
	h.send("/start")
	h.send(menus.LabelStatistics)
	h.requireState(state.StatsMenu)

	prompts := h.send(menus.LabelGeneralStats)
	assert.Contains(t, prompts[0].Text, "пока пуста")

	prompts = h.send(menus.LabelExerciseStats)
	h.requireState(state.StatsMenu)
	assert.Contains(t, prompts[0].Text, "пока нет")
}

func TestStats_Views(t *testing.T) {
	h := newHarness(t)
	h.send("/start")
	h.completeTraining("Румынская тяга", "50 12\n60 8")
	h.completeTraining("Румынская тяга", "70 5")

	h.send(menus.LabelStatistics)

	prompts := h.send(menus.LabelGeneralStats)
	assert.Contains(t, prompts[0].Text, "Тренировок: 2")
	assert.Equal(t, menus.StatsMenuOptions(), prompts[0].Options)

	prompts = h.send(menus.LabelWeekStats)
	assert.Contains(t, prompts[0].Text, "Тренировок: 2")

	prompts = h.send(menus.LabelMonthStats)
	assert.Contains(t, prompts[0].Text, "💪 Румынская тяга — 2 раз")

	prompts = h.send(menus.LabelYearStats)
	assert.Contains(t, prompts[0].Text, "Тренировок: 2")

	prompts = h.send(menus.LabelExerciseStats)
	h.requireState(state.ExerciseStatsChoice)
	assert.Equal(t, []string{"💪 Румынская тяга"}, prompts[0].Options[0])

	prompts = h.send("💪 Румынская тяга")
	h.requireState(state.ExerciseStatsChoice)
	assert.Contains(t, prompts[0].Text, "Максимальный вес: 70 кг")
	assert.Contains(t, prompts[0].Text, "Подходов: 3")

	prompts = h.send("🏃 Румынская тяга")
	assert.Contains(t, prompts[0].Text, "не найдено")

	h.send(menus.LabelBack)
	h.requireState(state.StatsMenu)
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.send("/start")
	h.send(menus.LabelExport)
	h.requireState(state.ExportMenu)

	prompts := h.send(menus.LabelExportAll)
	assert.Nil(t, prompts[len(prompts)-1].Attachment)
	assert.Contains(t, prompts[0].Text, "Нет завершённых")

	h.send(menus.LabelToMainMenu)
	h.completeTraining("Болгарский выпад", "20 15")
	h.send(menus.LabelExport)

	prompts = h.send(menus.LabelExportAll)
	h.requireState(state.ExportMenu)
	doc := last(prompts).Attachment
	require.NotNil(t, doc)
	assert.True(t, strings.HasPrefix(doc.FileName, "trainings_"))

	lines := strings.Split(strings.TrimSpace(string(doc.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Болгарский выпад")
}
