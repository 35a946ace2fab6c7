package flow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	"github.com/vladimiradmaev/fitness-helper/internal/parser"
)

func (m *Machine) handleMeasurementChoice(t *turn) error {
	switch t.in.Token {
	case menus.EnterMeasurements:
		return t.enter(state.MeasurementInput)
	case menus.Skip:
		return t.enter(state.TrainingMenu)
	}
	return t.enter(state.MeasurementChoice)
}

func (m *Machine) handleMeasurementInput(t *turn) error {
	switch t.in.Token {
	case menus.Skip:
		return t.enter(state.TrainingMenu)
	case menus.Back:
		return t.enter(state.MeasurementChoice)
	}

	text, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.MeasurementInput)
	}
	session, err := t.requireSession()
	if err != nil {
		return err
	}
	if err := m.deps.Repo.SetSessionMeasurements(t.ctx, session.ID, text); err != nil {
		return err
	}
	if err := m.deps.Repo.RecordMeasurement(t.ctx, t.ev.UserID, text); err != nil {
		return err
	}
	t.sessionChanged()
	t.say("✅ Замеры сохранены.")
	return t.enter(state.TrainingMenu)
}

func (m *Machine) handleTrainingMenu(t *turn) error {
	switch t.in.Token {
	case menus.Strength:
		return t.enter(state.StrengthList)
	case menus.Cardio:
		return t.enter(state.CardioList)
	case menus.AddCustom:
		t.conv.Context.ReturnTo = state.TrainingMenu
		return t.enter(state.ExerciseTypeChoice)
	case menus.Finish:
		session, err := t.requireSession()
		if err != nil {
			return err
		}
		if len(session.Exercises) == 0 {
			return reject("⚠️ Нельзя завершить тренировку без упражнений. Добавьте хотя бы одно.")
		}
		t.conv.Context.AfterCommit = ""
		return t.enter(state.FinishSummary)
	case menus.Back:
		t.conv.Context.AfterCommit = ""
		return t.enter(state.MainMenu)
	}
	return t.enter(state.TrainingMenu)
}

func (m *Machine) handleExerciseList(t *turn) error {
	kind := listKind(t.conv.State)

	switch t.in.Token {
	case menus.AddCustom:
		t.conv.Context.ReturnTo = t.conv.State
		t.conv.Context.NewKind = kind
		return t.enter(state.NameInput)
	case menus.Back:
		return t.enter(t.landing())
	}

	name, ok := t.in.FreeText()
	if !ok {
		return t.enter(t.conv.State)
	}
	catalog, err := t.userCatalog()
	if err != nil {
		return err
	}
	if !contains(domain.Choices(catalog, kind), name) {
		return reject("Выберите упражнение из списка или добавьте своё.")
	}

	t.conv.Context.Draft = &state.Draft{
		ID:   uuid.NewString(),
		Name: name,
		Kind: kind,
	}
	if kind == domain.KindCardio {
		return t.enter(state.CardioFormatChoice)
	}
	return t.enter(state.SetInput)
}

func (m *Machine) handleSetInput(t *turn) error {
	draft := t.conv.Context.Draft
	if draft == nil {
		return errNoDraft()
	}

	switch t.in.Token {
	case menus.Cancel, menus.Back:
		return m.dropDraft(t)
	case menus.AddMoreSets:
		t.reply(menus.Prompt{
			Text:    "Введите следующие подходы:",
			Options: [][]string{{menus.LabelSaveExercise}, {menus.LabelCancel}},
		})
		return nil
	case menus.SaveExercise:
		if len(draft.Sets) == 0 {
			return reject("Добавьте хотя бы один подход, например: 50 12")
		}
		return m.commitDraft(t, domain.StrengthPayload{Sets: append([]domain.Set(nil), draft.Sets...)})
	}

	text, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.SetInput)
	}

	batch := parser.ParseStrengthSets(text)
	if len(batch.Sets) == 0 {
		return reject("%s\n\nНе удалось распознать ни одного подхода. Формат: вес повторения, например 50 12", lineErrors(batch.Errors))
	}
	draft.Sets = append(draft.Sets, batch.Sets...)

	if err := t.enter(state.SetInput); err != nil {
		return err
	}
	if len(batch.Errors) > 0 {
		t.say("⚠️ Часть строк пропущена:\n" + lineErrors(batch.Errors))
	}
	return nil
}

func (m *Machine) handleCardioFormatChoice(t *turn) error {
	draft := t.conv.Context.Draft
	if draft == nil {
		return errNoDraft()
	}

	switch t.in.Token {
	case menus.DistanceFormat:
		draft.CardioFormat = domain.CardioDistance
		return t.enter(state.CardioDetailInput)
	case menus.SpeedFormat:
		draft.CardioFormat = domain.CardioSpeed
		return t.enter(state.CardioDetailInput)
	case menus.Back, menus.Cancel:
		t.conv.Context.Draft = nil
		return t.enter(state.CardioList)
	}
	return t.enter(state.CardioFormatChoice)
}

func (m *Machine) handleCardioDetailInput(t *turn) error {
	draft := t.conv.Context.Draft
	if draft == nil {
		return errNoDraft()
	}

	switch t.in.Token {
	case menus.Cancel:
		return m.dropDraft(t)
	case menus.Back:
		draft.CardioFormat = ""
		return t.enter(state.CardioFormatChoice)
	}

	text, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.CardioDetailInput)
	}
	payload, err := parser.ParseCardio(text, draft.CardioFormat)
	if err != nil {
		return reject("⚠️ %s", err.Error())
	}
	return m.commitDraft(t, payload)
}

// commitDraft appends the draft to the open session under the draft's id,
// so a turn retried after a failed state save does not store it twice
func (m *Machine) commitDraft(t *turn, payload domain.Payload) error {
	draft := t.conv.Context.Draft
	session, err := t.requireSession()
	if err != nil {
		return err
	}

	exercise, err := m.deps.Repo.AppendExercise(t.ctx, session.ID, domain.Exercise{
		Name:    draft.Name,
		DraftID: draft.ID,
		Payload: payload,
	})
	if err != nil {
		return err
	}
	m.deps.Metrics.CounterExercisesAppended.WithLabelValues(string(exercise.Kind())).Inc()

	next := t.landing()
	t.conv.Context.Draft = nil
	t.conv.Context.AfterCommit = ""
	t.sessionChanged()
	t.say(fmt.Sprintf("✅ Упражнение «%s» сохранено.", exercise.Name))
	return t.enter(next)
}

func (m *Machine) dropDraft(t *turn) error {
	next := t.landing()
	t.conv.Context.Draft = nil
	t.conv.Context.AfterCommit = ""
	t.say("Упражнение не сохранено.")
	return t.enter(next)
}

func (m *Machine) handleExerciseTypeChoice(t *turn) error {
	switch t.in.Token {
	case menus.Strength:
		t.conv.Context.NewKind = domain.KindStrength
		return t.enter(state.NameInput)
	case menus.Cardio:
		t.conv.Context.NewKind = domain.KindCardio
		return t.enter(state.NameInput)
	case menus.Back:
		return t.enter(m.returnTarget(t))
	}
	return t.enter(state.ExerciseTypeChoice)
}

func (m *Machine) handleNameInput(t *turn) error {
	sc := &t.conv.Context
	if t.in.Token == menus.Back {
		if sc.ReturnTo == state.StrengthList || sc.ReturnTo == state.CardioList {
			return t.enter(m.returnTarget(t))
		}
		return t.enter(state.ExerciseTypeChoice)
	}

	name, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.NameInput)
	}
	kind := sc.NewKind
	if !kind.Valid() {
		return t.enter(state.ExerciseTypeChoice)
	}
	if len([]rune(name)) > maxExerciseName {
		return reject("⚠️ Слишком длинное название, не больше %d символов.", maxExerciseName)
	}
	if domain.IsDefault(kind, name) {
		return reject("⚠️ «%s» уже есть в списке по умолчанию.", name)
	}
	if err := m.deps.Repo.AddCatalogEntry(t.ctx, t.ev.UserID, kind, name); err != nil {
		return err
	}
	t.catalog = nil

	next := listState(kind)
	if sc.ReturnTo == state.CatalogMenu {
		next = state.CatalogMenu
	}
	sc.ReturnTo = ""
	sc.NewKind = ""
	t.say(fmt.Sprintf("✅ Упражнение «%s» добавлено (%s).", name, menus.KindTitle(kind)))
	return t.enter(next)
}

const maxExerciseName = 64

// returnTarget is the menu that started the add-exercise sub-flow
func (m *Machine) returnTarget(t *turn) state.ID {
	target := t.conv.Context.ReturnTo
	t.conv.Context.ReturnTo = ""
	t.conv.Context.NewKind = ""
	if target == "" {
		return state.TrainingMenu
	}
	return target
}

func (m *Machine) handleFinishSummary(t *turn) error {
	switch t.in.Token {
	case menus.ContinueTraining, menus.Back:
		return t.enter(state.TrainingMenu)
	case menus.Correct:
		return t.enter(state.EditMenu)
	case menus.ConfirmFinish:
		return t.enter(state.CommentInput)
	}
	return t.enter(state.FinishSummary)
}

func (m *Machine) handleCommentInput(t *turn) error {
	switch t.in.Token {
	case menus.Skip:
		return m.closeTraining(t, "")
	case menus.Back:
		return t.enter(state.FinishSummary)
	}
	text, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.CommentInput)
	}
	return m.closeTraining(t, text)
}

func (m *Machine) closeTraining(t *turn, comment string) error {
	session, err := t.requireSession()
	if err != nil {
		return err
	}
	summary := menus.FormatSessionSummary(session)
	if err := m.deps.Repo.CloseSession(t.ctx, session.ID, comment); err != nil {
		return err
	}
	m.deps.Metrics.CounterSessionsClosed.Inc()
	t.sessionChanged()
	t.conv.Context.Reset()

	text := "🎉 Тренировка сохранена!\n\n" + summary
	if comment != "" {
		text += "\n💬 " + comment
	}
	t.say(text)
	return t.enter(state.MainMenu)
}

func (m *Machine) handleEditMenu(t *turn) error {
	switch t.in.Token {
	case menus.AppendMore:
		t.conv.Context.AfterCommit = state.FinishSummary
		return t.enter(state.TrainingMenu)
	case menus.DeleteExercise:
		return t.enter(state.DeleteExerciseChoice)
	case menus.Back:
		return t.enter(state.FinishSummary)
	}
	return t.enter(state.EditMenu)
}

func (m *Machine) handleDeleteExerciseChoice(t *turn) error {
	if t.in.Token == menus.Back {
		return t.enter(state.EditMenu)
	}

	label, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.DeleteExerciseChoice)
	}
	session, err := t.requireSession()
	if err != nil {
		return err
	}
	index, ok := menus.ParseNumberedLabel(label)
	if !ok || index >= len(session.Exercises) {
		return reject("Выберите упражнение из списка.")
	}
	exercise := session.Exercises[index]
	if err := m.deps.Repo.RemoveExercise(t.ctx, session.ID, exercise.ID); err != nil {
		return err
	}
	t.sessionChanged()
	t.say(fmt.Sprintf("🗑 Упражнение «%s» удалено из тренировки.", exercise.Name))

	if len(session.Exercises) == 1 {
		t.say("В тренировке не осталось упражнений.")
		t.conv.Context.AfterCommit = ""
		return t.enter(state.TrainingMenu)
	}
	return t.enter(state.FinishSummary)
}

func lineErrors(errs []parser.LineError) string {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
