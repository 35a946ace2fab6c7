package flow

import (
	"errors"
	"fmt"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
	"github.com/vladimiradmaev/fitness-helper/internal/utils"
)

const (
	historyLimit      = 5
	measurementsLimit = 10

	autoCloseComment = "Автозавершена"
)

// welcome registers the user and greets them according to what they already have
func (m *Machine) welcome(t *turn) error {
	_, err := m.deps.Repo.GetUser(t.ctx, t.ev.UserID)
	isNew := apperrors.IsType(err, apperrors.ErrorTypeNotFound)
	if err != nil && !isNew {
		return err
	}
	if isNew {
		if err := m.deps.Repo.CreateUser(t.ctx, t.ev.UserID, t.ev.DisplayName); err != nil {
			return err
		}
	}

	t.conv.Context.Reset()
	t.conv.State = state.MainMenu

	session, err := t.openSession()
	if err != nil {
		return err
	}

	switch {
	case session != nil:
		t.reply(menus.WelcomeWithOpenSession(fmt.Sprintf(
			"👋 С возвращением! У вас есть незавершённая тренировка от %s (упражнений: %d).\n\nПродолжить её или начать новую?",
			utils.FormatDateTime(session.StartedAt), len(session.Exercises))))
	case isNew:
		t.reply(menus.MainMenu("👋 Добро пожаловать! Я помогу записывать тренировки и следить за прогрессом.\n\n" + menus.HelpText))
	default:
		t.reply(menus.MainMenu("👋 С возвращением! Выберите действие:"))
	}
	return nil
}

func (m *Machine) handleIdle(t *turn) error {
	return t.enter(state.Idle)
}

func (m *Machine) handleWipeConfirm(t *turn) error {
	switch t.in.Token {
	case menus.ConfirmWipe:
		if err := m.deps.Repo.WipeUser(t.ctx, t.ev.UserID); err != nil {
			return err
		}
		logger.WithContext(t.ctx).Info("User data wiped")
		t.conv = state.NewConversation(t.ev.UserID)
		t.resetCache()
		t.say("🧹 Все тренировки, замеры и ваши упражнения удалены.")
		return t.enter(state.Idle)
	case menus.Cancel, menus.No, menus.Back:
		return t.enter(state.MainMenu)
	}
	return t.enter(state.WipeConfirm)
}

func (m *Machine) handleMainMenu(t *turn) error {
	switch t.in.Token {
	case menus.StartTraining:
		return m.startTraining(t)
	case menus.ContinueTraining:
		session, err := t.openSession()
		if err != nil {
			return err
		}
		if session == nil {
			t.say("Незавершённых тренировок нет.")
			return t.enter(state.MainMenu)
		}
		return t.enter(state.TrainingMenu)
	case menus.NewTraining:
		return m.replaceTraining(t)
	case menus.ClearHistory:
		return t.enter(state.WipeConfirm)
	case menus.History:
		sessions, err := m.deps.Repo.ListClosedSessions(t.ctx, t.ev.UserID, historyLimit)
		if err != nil {
			return err
		}
		t.reply(menus.MainMenu(menus.FormatHistory(sessions)))
		return nil
	case menus.MeasurementsHistory:
		records, err := m.deps.Repo.ListMeasurements(t.ctx, t.ev.UserID, measurementsLimit)
		if err != nil {
			return err
		}
		t.reply(menus.MainMenu(menus.FormatMeasurements(records)))
		return nil
	case menus.MyExercises:
		return t.enter(state.CatalogMenu)
	case menus.Statistics:
		return t.enter(state.StatsMenu)
	case menus.Export:
		return t.enter(state.ExportMenu)
	}
	return t.enter(state.MainMenu)
}

// startTraining opens a session or resumes the one already open
func (m *Machine) startTraining(t *turn) error {
	session, err := t.openSession()
	if err != nil {
		return err
	}
	if session != nil {
		t.say("У вас уже есть незавершённая тренировка, продолжаем её.")
		return t.enter(state.TrainingMenu)
	}

	if _, err := m.deps.Repo.OpenSession(t.ctx, t.ev.UserID); err != nil {
		if errors.Is(err, apperrors.ErrSessionOpen) {
			t.sessionChanged()
			t.say("У вас уже есть незавершённая тренировка, продолжаем её.")
			return t.enter(state.TrainingMenu)
		}
		return err
	}
	t.sessionChanged()
	m.deps.Metrics.CounterSessionsOpened.Inc()
	t.conv.Context.Reset()
	return t.enter(state.MeasurementChoice)
}

// replaceTraining finishes the open session and starts another; an empty one is dropped
func (m *Machine) replaceTraining(t *turn) error {
	session, err := t.openSession()
	if err != nil {
		return err
	}
	if session != nil {
		if len(session.Exercises) > 0 {
			if err := m.deps.Repo.CloseSession(t.ctx, session.ID, autoCloseComment); err != nil {
				return err
			}
			m.deps.Metrics.CounterSessionsClosed.Inc()
			t.say("Предыдущая тренировка сохранена с пометкой «" + autoCloseComment + "».")
		} else if err := m.deps.Repo.DiscardSession(t.ctx, session.ID); err != nil {
			return err
		}
		t.sessionChanged()
	}
	return m.startTraining(t)
}
