package flow

import (
	"fmt"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/state"
	"github.com/vladimiradmaev/fitness-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/fitness-helper/internal/errors"
)

func (m *Machine) handleCatalogMenu(t *turn) error {
	switch t.in.Token {
	case menus.AddCustom:
		t.conv.Context.ReturnTo = state.CatalogMenu
		return t.enter(state.ExerciseTypeChoice)
	case menus.DeleteCustom:
		catalog, err := t.userCatalog()
		if err != nil {
			return err
		}
		if len(catalog.Strength) == 0 && len(catalog.Cardio) == 0 {
			return reject("Своих упражнений пока нет, удалять нечего.")
		}
		return t.enter(state.CatalogDeleteChoice)
	case menus.Back:
		return t.enter(state.MainMenu)
	}
	return t.enter(state.CatalogMenu)
}

func (m *Machine) handleCatalogDeleteChoice(t *turn) error {
	if t.in.Token == menus.Back {
		return t.enter(state.CatalogMenu)
	}

	label, ok := t.in.FreeText()
	if !ok {
		return t.enter(state.CatalogDeleteChoice)
	}
	kind, name, ok := menus.ParseExerciseLabel(label)
	if !ok {
		return reject("Выберите упражнение из списка.")
	}
	catalog, err := t.userCatalog()
	if err != nil {
		return err
	}
	if !contains(catalog.Names(kind), name) {
		if domain.IsDefault(kind, name) {
			return apperrors.NewNotFoundError(apperrors.ErrDefaultEntry.Code, "default entry selected")
		}
		return apperrors.NewNotFoundError(apperrors.ErrEntryNotFound.Code, "catalog entry not found")
	}

	t.conv.Context.PendingDelete = &state.CatalogRef{Kind: kind, Name: name}
	return t.enter(state.CatalogDeleteConfirm)
}

func (m *Machine) handleCatalogDeleteConfirm(t *turn) error {
	ref := t.conv.Context.PendingDelete

	switch t.in.Token {
	case menus.Yes:
		if ref == nil {
			return t.enter(state.CatalogMenu)
		}
		if err := m.deps.Repo.RemoveCatalogEntry(t.ctx, t.ev.UserID, ref.Kind, ref.Name); err != nil {
			return err
		}
		t.conv.Context.PendingDelete = nil
		t.catalog = nil
		t.say(fmt.Sprintf("🗑 Упражнение «%s» удалено.", ref.Name))
		return t.enter(state.CatalogMenu)
	case menus.No, menus.Back, menus.Cancel:
		t.conv.Context.PendingDelete = nil
		return t.enter(state.CatalogMenu)
	}
	return t.enter(state.CatalogDeleteConfirm)
}
