package bot

import (
	"context"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
	"github.com/vladimiradmaev/fitness-helper/internal/metrics"
)

// UpdateHandler processes a single telegram update
type UpdateHandler interface {
	Handle(ctx context.Context, update tgbotapi.Update) error
}

// BusyNotifier is optionally implemented by an UpdateHandler to answer updates dropped on overflow
type BusyNotifier interface {
	Busy(update tgbotapi.Update) error
}

type mailbox struct {
	pending []tgbotapi.Update
}

// Dispatcher fans updates out to one worker per user.
// Updates of a single user are handled in arrival order, different users run in parallel.
// Dispatch never blocks: a user with mailboxSize updates already waiting loses the extra ones.
type Dispatcher struct {
	handler     UpdateHandler
	metrics     *metrics.Manager
	mailboxSize int

	mu        sync.Mutex
	mailboxes map[int64]*mailbox
	wg        sync.WaitGroup
}

func NewDispatcher(handler UpdateHandler, metricsManager *metrics.Manager, mailboxSize int) *Dispatcher {
	if mailboxSize <= 0 {
		mailboxSize = 1
	}
	return &Dispatcher{
		handler:     handler,
		metrics:     metricsManager,
		mailboxSize: mailboxSize,
		mailboxes:   make(map[int64]*mailbox),
	}
}

// Dispatch queues the update for its author
func (d *Dispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) {
	userID, ok := handlers.UserID(update)
	if !ok {
		return
	}

	d.mu.Lock()
	box, exists := d.mailboxes[userID]
	if exists && len(box.pending) >= d.mailboxSize {
		d.mu.Unlock()
		d.drop(userID, update)
		return
	}
	if !exists {
		box = &mailbox{}
		d.mailboxes[userID] = box
		d.metrics.GaugeActiveMailboxes.Inc()
		d.wg.Add(1)
		go d.run(context.WithoutCancel(ctx), userID, box)
	}
	box.pending = append(box.pending, update)
	d.mu.Unlock()
}

func (d *Dispatcher) drop(userID int64, update tgbotapi.Update) {
	d.metrics.CounterDroppedUpdates.Inc()
	logger.Warn("Mailbox full, dropping update", "user_id", userID, "update_id", update.UpdateID)

	notifier, ok := d.handler.(BusyNotifier)
	if !ok {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := notifier.Busy(update); err != nil {
			logger.Warn("Failed to send busy reply", "user_id", userID, "error", err)
		}
	}()
}

func (d *Dispatcher) run(ctx context.Context, userID int64, box *mailbox) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(box.pending) == 0 {
			delete(d.mailboxes, userID)
			d.metrics.GaugeActiveMailboxes.Dec()
			d.mu.Unlock()
			return
		}
		update := box.pending[0]
		box.pending[0] = tgbotapi.Update{}
		box.pending = box.pending[1:]
		d.mu.Unlock()

		d.process(ctx, update)
	}
}

func (d *Dispatcher) process(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.CounterHandleUpdatePanics.Inc()
			logger.Error("Panic while handling update",
				"update_id", update.UpdateID,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	if err := d.handler.Handle(ctx, update); err != nil {
		logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
	}
}

// Wait blocks until every queued update has been handled
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.mailboxes)
}
