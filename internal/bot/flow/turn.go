package flow

import (
	"context"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	"github.com/vladimiradmaev/fitness-helper/internal/services"
)

// turn is the scratch state of one Handle call
type turn struct {
	ctx     context.Context
	m       *Machine
	ev      Event
	conv    state.Conversation
	in      menus.Input
	fresh   bool
	replies []menus.Prompt

	session       *domain.TrainingSession
	sessionLoaded bool
	catalog       *domain.Catalog
	snapshot      *domain.StatisticsSnapshot
}

func (t *turn) say(text string) {
	t.replies = append(t.replies, menus.Text(text))
}

func (t *turn) reply(p menus.Prompt) {
	t.replies = append(t.replies, p)
}

// enter moves the conversation to id and renders its prompt
func (t *turn) enter(id state.ID) error {
	t.conv.State = id
	p, err := t.m.render(t, id)
	if err != nil {
		return err
	}
	t.reply(p)
	return nil
}

func (t *turn) resetCache() {
	t.session, t.sessionLoaded = nil, false
	t.catalog = nil
	t.snapshot = nil
}

// openSession returns the user's open session or nil, loading it at most once per turn
func (t *turn) openSession() (*domain.TrainingSession, error) {
	if t.sessionLoaded {
		return t.session, nil
	}
	session, err := t.m.deps.Repo.GetOpenSession(t.ctx, t.ev.UserID)
	if err != nil {
		return nil, err
	}
	t.session, t.sessionLoaded = session, true
	return session, nil
}

// requireSession is openSession that treats "no open session" as not found
func (t *turn) requireSession() (*domain.TrainingSession, error) {
	session, err := t.openSession()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errNoOpenSession()
	}
	return session, nil
}

func (t *turn) sessionChanged() {
	t.session, t.sessionLoaded = nil, false
}

func (t *turn) userCatalog() (domain.Catalog, error) {
	if t.catalog != nil {
		return *t.catalog, nil
	}
	catalog, err := t.m.deps.Repo.GetCatalog(t.ctx, t.ev.UserID)
	if err != nil {
		return domain.Catalog{}, err
	}
	t.catalog = &catalog
	return catalog, nil
}

func (t *turn) stats() (*domain.StatisticsSnapshot, error) {
	if t.snapshot != nil {
		return t.snapshot, nil
	}
	snapshot, err := t.m.deps.Stats.Snapshot(t.ctx, t.ev.UserID)
	if err != nil {
		return nil, err
	}
	t.snapshot = snapshot
	return snapshot, nil
}

// landing is where a committed or cancelled draft returns to
func (t *turn) landing() state.ID {
	if t.conv.Context.AfterCommit != "" {
		return t.conv.Context.AfterCommit
	}
	return state.TrainingMenu
}

const topExercisesLimit = 10

// render builds the prompt of a state from the current conversation and storage
func (m *Machine) render(t *turn, id state.ID) (menus.Prompt, error) {
	sc := &t.conv.Context

	switch id {
	case state.Idle:
		return menus.IdlePrompt(), nil
	case state.WipeConfirm:
		return menus.WipeConfirm(), nil
	case state.MainMenu:
		return menus.MainMenu(""), nil
	case state.MeasurementChoice:
		return menus.MeasurementChoice(), nil
	case state.MeasurementInput:
		return menus.MeasurementInput(), nil
	case state.TrainingMenu:
		session, err := t.requireSession()
		if err != nil {
			return menus.Prompt{}, err
		}
		return menus.TrainingMenu(menus.FormatTrainingStatus(session)), nil
	case state.StrengthList, state.CardioList:
		catalog, err := t.userCatalog()
		if err != nil {
			return menus.Prompt{}, err
		}
		kind := listKind(id)
		return menus.ExerciseList(kind, domain.Choices(catalog, kind)), nil
	case state.SetInput:
		if sc.Draft == nil {
			return menus.Prompt{}, errNoDraft()
		}
		return menus.SetInput(sc.Draft.Name, sc.Draft.Sets), nil
	case state.CardioFormatChoice:
		if sc.Draft == nil {
			return menus.Prompt{}, errNoDraft()
		}
		return menus.CardioFormatChoice(sc.Draft.Name), nil
	case state.CardioDetailInput:
		if sc.Draft == nil {
			return menus.Prompt{}, errNoDraft()
		}
		return menus.CardioDetailInput(sc.Draft.Name, sc.Draft.CardioFormat), nil
	case state.ExerciseTypeChoice:
		return menus.ExerciseTypeChoice(), nil
	case state.NameInput:
		return menus.NameInput(sc.NewKind), nil
	case state.FinishSummary:
		session, err := t.requireSession()
		if err != nil {
			return menus.Prompt{}, err
		}
		return menus.FinishSummary(menus.FormatSessionSummary(session)), nil
	case state.CommentInput:
		return menus.CommentInput(), nil
	case state.EditMenu:
		return menus.EditMenu(), nil
	case state.DeleteExerciseChoice:
		session, err := t.requireSession()
		if err != nil {
			return menus.Prompt{}, err
		}
		return menus.DeleteExerciseChoice(session.Exercises), nil
	case state.CatalogMenu:
		catalog, err := t.userCatalog()
		if err != nil {
			return menus.Prompt{}, err
		}
		return menus.CatalogMenu(catalog), nil
	case state.CatalogDeleteChoice:
		catalog, err := t.userCatalog()
		if err != nil {
			return menus.Prompt{}, err
		}
		return menus.CatalogDeleteChoice(catalog), nil
	case state.CatalogDeleteConfirm:
		if sc.PendingDelete == nil {
			return menus.CatalogMenu(domain.Catalog{}), nil
		}
		return menus.CatalogDeleteConfirm(sc.PendingDelete.Kind, sc.PendingDelete.Name), nil
	case state.StatsMenu:
		return menus.StatsMenu(""), nil
	case state.ExerciseStatsChoice:
		snapshot, err := t.stats()
		if err != nil {
			return menus.Prompt{}, err
		}
		top := services.TopExercises(snapshot, topExercisesLimit)
		return menus.ExerciseStatsChoice(menus.FormatExerciseTop(top), top), nil
	case state.ExportMenu:
		return menus.ExportMenu(), nil
	}
	return menus.IdlePrompt(), nil
}

func listKind(id state.ID) domain.Kind {
	if id == state.CardioList {
		return domain.KindCardio
	}
	return domain.KindStrength
}

func listState(kind domain.Kind) state.ID {
	if kind == domain.KindCardio {
		return state.CardioList
	}
	return state.StrengthList
}
