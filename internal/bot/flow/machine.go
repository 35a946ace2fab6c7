// Package flow implements the guided workout-authoring conversation.
// Each inbound message is one turn: the user's conversation is loaded, the
// handler of its current state runs, and the next state is saved.
package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
	"github.com/vladimiradmaev/fitness-helper/internal/interfaces"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
	"github.com/vladimiradmaev/fitness-helper/internal/metrics"
	"github.com/vladimiradmaev/fitness-helper/internal/services"
)

const (
	defaultTurnTimeout = 5 * time.Second

	RetryText = "⚠️ Не удалось сохранить данные, попробуйте ещё раз."

	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Event is one normalized inbound message
type Event struct {
	UserID      int64
	DisplayName string
	Text        string
}

// Dependencies holds the collaborators of the machine
type Dependencies struct {
	Repo     domain.Repository
	Store    state.Store
	Stats    interfaces.StatsServiceInterface
	Exporter interfaces.ExportServiceInterface
	Metrics  *metrics.Manager
}

type Options struct {
	// TurnTimeout bounds all storage calls of a single turn
	TurnTimeout time.Duration
	Now         func() time.Time
}

type handlerFunc func(t *turn) error

// Machine processes turns; turns of one user are serialized, different users run in parallel
type Machine struct {
	deps     Dependencies
	opts     Options
	locks    *userLocks
	handlers map[state.ID]handlerFunc
}

func NewMachine(deps Dependencies, opts Options) *Machine {
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = defaultTurnTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewTestManager()
	}

	m := &Machine{
		deps:  deps,
		opts:  opts,
		locks: newUserLocks(),
	}
	m.handlers = map[state.ID]handlerFunc{
		state.Idle:                 m.handleIdle,
		state.WipeConfirm:          m.handleWipeConfirm,
		state.MainMenu:             m.handleMainMenu,
		state.MeasurementChoice:    m.handleMeasurementChoice,
		state.MeasurementInput:     m.handleMeasurementInput,
		state.TrainingMenu:         m.handleTrainingMenu,
		state.StrengthList:         m.handleExerciseList,
		state.CardioList:           m.handleExerciseList,
		state.SetInput:             m.handleSetInput,
		state.CardioFormatChoice:   m.handleCardioFormatChoice,
		state.CardioDetailInput:    m.handleCardioDetailInput,
		state.ExerciseTypeChoice:   m.handleExerciseTypeChoice,
		state.NameInput:            m.handleNameInput,
		state.FinishSummary:        m.handleFinishSummary,
		state.CommentInput:         m.handleCommentInput,
		state.EditMenu:             m.handleEditMenu,
		state.DeleteExerciseChoice: m.handleDeleteExerciseChoice,
		state.CatalogMenu:          m.handleCatalogMenu,
		state.CatalogDeleteChoice:  m.handleCatalogDeleteChoice,
		state.CatalogDeleteConfirm: m.handleCatalogDeleteConfirm,
		state.StatsMenu:            m.handleStatsMenu,
		state.ExerciseStatsChoice:  m.handleExerciseStatsChoice,
		state.ExportMenu:           m.handleExportMenu,
	}
	return m
}

// Handle runs one turn and returns the prompts to deliver, in order.
// A non-nil error means the turn was not committed; the prompts then carry the retry message.
func (m *Machine) Handle(ctx context.Context, ev Event) ([]menus.Prompt, error) {
	unlock := m.locks.Lock(ev.UserID)
	defer unlock()

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, m.opts.TurnTimeout)
	defer cancel()
	ctx = logger.ContextWithFields(ctx, "user_id", ev.UserID, "turn_id", uuid.NewString())
	log := logger.WithContext(ctx)

	conv, found, err := m.deps.Store.Load(ctx, ev.UserID)
	if err != nil {
		m.observe(state.ID("unknown"), outcomeFailed, start)
		log.Error("Failed to load conversation", "error", err)
		return retryPrompts(), err
	}

	t := &turn{
		ctx:   ctx,
		m:     m,
		ev:    ev,
		conv:  conv.Clone(),
		in:    menus.Normalize(ev.Text),
		fresh: !found,
	}
	from := conv.State

	errHandler := apperrors.NewHandler(log.With("state", from))
	outcome := outcomeOK
	if err := m.dispatch(t); err != nil {
		errHandler.Handle(ctx, err)
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeNotFound, apperrors.ErrorTypeConflict:
			outcome = outcomeRejected
			if rerr := m.rejectTurn(t, conv, err); rerr != nil {
				errHandler.Handle(ctx, rerr)
				err = rerr
			} else {
				err = nil
			}
		}
		if err != nil {
			m.observe(from, outcomeFailed, start)
			return retryPrompts(), err
		}
	}

	t.conv.UpdatedAt = m.opts.Now()
	if err := m.deps.Store.Save(ctx, t.conv); err != nil {
		m.observe(from, outcomeFailed, start)
		log.Error("Failed to save conversation", "state", from, "next_state", t.conv.State, "error", err)
		return retryPrompts(), err
	}

	m.observe(from, outcome, start)
	log.Info("Turn processed",
		"state", from,
		"next_state", t.conv.State,
		"outcome", outcome,
		"duration", time.Since(start),
	)
	return t.replies, nil
}

func (m *Machine) dispatch(t *turn) error {
	switch t.in.Token {
	case menus.Begin:
		return m.welcome(t)
	case menus.Help:
		t.say(menus.HelpText)
		return t.enter(t.conv.State)
	case menus.ToMainMenu:
		if t.conv.State == state.Idle {
			return m.welcome(t)
		}
		t.conv.Context.Reset()
		return t.enter(state.MainMenu)
	}

	handler, ok := m.handlers[t.conv.State]
	if !ok {
		logger.WithContext(t.ctx).Warn("Unknown conversation state, restarting", "state", t.conv.State)
		t.conv = state.NewConversation(t.ev.UserID)
		return m.welcome(t)
	}
	return handler(t)
}

// rejectTurn turns a rejected turn into a user-visible message while keeping the
// conversation where it was before the turn
func (m *Machine) rejectTurn(t *turn, original state.Conversation, cause error) error {
	t.conv = original.Clone()
	t.replies = nil
	t.resetCache()
	t.say(userMessage(cause))

	next := t.conv.State
	var appErr *apperrors.AppError
	if errors.As(cause, &appErr) {
		switch appErr.Code {
		case apperrors.ErrSessionNotFound.Code:
			t.conv.Context.Reset()
			next = state.MainMenu
		case apperrors.ErrSessionOpen.Code:
			t.conv.Context.Reset()
			next = state.TrainingMenu
		case codeDraftNotFound:
			t.conv.Context.Draft = nil
			next = t.landing()
		}
	}

	if err := t.enter(next); err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return err
		}
		t.conv.Context.Reset()
		return t.enter(state.MainMenu)
	}
	return nil
}

func (m *Machine) observe(from state.ID, outcome string, start time.Time) {
	m.deps.Metrics.CounterTurns.WithLabelValues(string(from), outcome).Inc()
	m.deps.Metrics.HistTurnDuration.Observe(time.Since(start).Seconds())
}

func retryPrompts() []menus.Prompt {
	return []menus.Prompt{menus.Text(RetryText)}
}

const (
	codeUserInput     = "USER_INPUT"
	codeDraftNotFound = "DRAFT_NOT_FOUND"
)

func errNoOpenSession() error {
	return apperrors.NewNotFoundError(apperrors.ErrSessionNotFound.Code, "no open session")
}

func errNoDraft() error {
	return apperrors.NewNotFoundError(codeDraftNotFound, "no exercise draft")
}

// reject fails the turn with a message shown verbatim to the user
func reject(format string, args ...any) error {
	return apperrors.New(apperrors.ErrorTypeValidation, codeUserInput, fmt.Sprintf(format, args...))
}

var rejectionMessages = map[string]string{
	apperrors.ErrEmptySession.Code:     "⚠️ Нельзя завершить тренировку без упражнений. Добавьте хотя бы одно.",
	apperrors.ErrSessionOpen.Code:      "У вас уже есть незавершённая тренировка, продолжаем её.",
	apperrors.ErrDuplicateEntry.Code:   "⚠️ Такое упражнение уже есть в вашем списке.",
	apperrors.ErrSessionNotFound.Code:  "Активная тренировка не найдена.",
	apperrors.ErrExerciseNotFound.Code: "Упражнение не найдено.",
	apperrors.ErrEntryNotFound.Code:    "Такого упражнения нет в вашем списке.",
	apperrors.ErrDefaultEntry.Code:     "⚠️ Упражнения по умолчанию удалить нельзя.",
	codeDraftNotFound:                  "Упражнение не выбрано, выберите его заново.",
	services.CodeNothingToExport:      "Нет завершённых тренировок за выбранный период.",
}

func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == codeUserInput {
			return appErr.Message
		}
		if msg, ok := rejectionMessages[appErr.Code]; ok {
			return msg
		}
	}
	return "⚠️ Некорректный ввод, попробуйте ещё раз."
}
