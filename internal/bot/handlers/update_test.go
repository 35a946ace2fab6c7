package handlers

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/flow"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeMachine struct {
	events  []flow.Event
	prompts []menus.Prompt
	err     error
}

func (f *fakeMachine) Handle(_ context.Context, ev flow.Event) ([]menus.Prompt, error) {
	f.events = append(f.events, ev)
	return f.prompts, f.err
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID, FirstName: "Анна", LastName: "К"},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestUpdateHandler_TextMessage(t *testing.T) {
	sender := &fakeSender{}
	machine := &fakeMachine{prompts: []menus.Prompt{
		menus.Text("первый"),
		menus.MainMenu("второй"),
	}}
	h := NewUpdateHandler(sender, machine)

	require.NoError(t, h.Handle(context.Background(), textUpdate(42, "50 12")))

	require.Len(t, machine.events, 1)
	assert.Equal(t, flow.Event{UserID: 42, DisplayName: "Анна К", Text: "50 12"}, machine.events[0])

	require.Len(t, sender.sent, 2)
	first := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "первый", first.Text)
	assert.Nil(t, first.ReplyMarkup)

	second := sender.sent[1].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), second.ChatID)
	keyboard, ok := second.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, keyboard.ResizeKeyboard)
	assert.Equal(t, menus.LabelStartTraining, keyboard.Keyboard[0][0].Text)
}

func TestUpdateHandler_Callback(t *testing.T) {
	sender := &fakeSender{}
	machine := &fakeMachine{prompts: []menus.Prompt{menus.Text("ok")}}
	h := NewUpdateHandler(sender, machine)

	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 7, UserName: "runner"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 70}},
		Data:    menus.LabelHelp,
	}}
	require.NoError(t, h.Handle(context.Background(), update))

	require.Len(t, sender.requests, 1)
	require.Len(t, machine.events, 1)
	assert.Equal(t, "runner", machine.events[0].DisplayName)
	assert.Equal(t, menus.LabelHelp, machine.events[0].Text)
	assert.Equal(t, int64(70), sender.sent[0].(tgbotapi.MessageConfig).ChatID)
}

func TestUpdateHandler_NonTextMessage(t *testing.T) {
	sender := &fakeSender{}
	machine := &fakeMachine{}
	h := NewUpdateHandler(sender, machine)

	require.NoError(t, h.Handle(context.Background(), textUpdate(1, "")))
	assert.Empty(t, machine.events)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, nonTextReply, sender.sent[0].(tgbotapi.MessageConfig).Text)
}

func TestUpdateHandler_Attachment(t *testing.T) {
	sender := &fakeSender{}
	machine := &fakeMachine{prompts: []menus.Prompt{{
		Text:       "csv",
		Options:    [][]string{},
		Attachment: &menus.Attachment{FileName: "trainings.csv", Data: []byte("a,b\n")},
	}}}
	h := NewUpdateHandler(sender, machine)

	require.NoError(t, h.Handle(context.Background(), textUpdate(1, menus.LabelExportAll)))
	require.Len(t, sender.sent, 1)
	doc, ok := sender.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "csv", doc.Caption)
	_, removes := doc.ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, removes)
}

func TestUpdateHandler_TurnErrorStillSendsPrompts(t *testing.T) {
	sender := &fakeSender{}
	machine := &fakeMachine{
		prompts: []menus.Prompt{menus.Text("retry")},
		err:     errors.New("storage down"),
	}
	h := NewUpdateHandler(sender, machine)

	err := h.Handle(context.Background(), textUpdate(1, "x"))
	require.Error(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestUpdateHandler_SendError(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("blocked")}
	machine := &fakeMachine{prompts: []menus.Prompt{menus.Text("hi")}}
	h := NewUpdateHandler(sender, machine)

	assert.Error(t, h.Handle(context.Background(), textUpdate(1, "x")))
}

func TestUpdateHandler_Busy(t *testing.T) {
	sender := &fakeSender{}
	machine := &fakeMachine{}
	h := NewUpdateHandler(sender, machine)

	require.NoError(t, h.Busy(textUpdate(3, "50 12")))
	assert.Empty(t, machine.events)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(3), msg.ChatID)
	assert.Equal(t, busyReply, msg.Text)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestUserID(t *testing.T) {
	id, ok := UserID(textUpdate(5, "hi"))
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	_, ok = UserID(tgbotapi.Update{})
	assert.False(t, ok)
}
