package state

import (
	"context"
	"sync"
	"time"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

// ID names a node of the conversation graph
type ID string

// Onboarding
const (
	Idle        ID = "idle"
	WipeConfirm ID = "wipe_confirm"
	MainMenu    ID = "main_menu"
)

// Training authoring
const (
	MeasurementChoice    ID = "measurement_choice"
	MeasurementInput     ID = "measurement_input"
	TrainingMenu         ID = "training_menu"
	StrengthList         ID = "strength_list"
	SetInput             ID = "set_input"
	CardioList           ID = "cardio_list"
	CardioFormatChoice   ID = "cardio_format_choice"
	CardioDetailInput    ID = "cardio_detail_input"
	ExerciseTypeChoice   ID = "exercise_type_choice"
	NameInput            ID = "name_input"
	FinishSummary        ID = "finish_summary"
	CommentInput         ID = "comment_input"
	EditMenu             ID = "edit_menu"
	DeleteExerciseChoice ID = "delete_exercise_choice"
)

// Catalog management
const (
	CatalogMenu          ID = "catalog_menu"
	CatalogDeleteChoice  ID = "catalog_delete_choice"
	CatalogDeleteConfirm ID = "catalog_delete_confirm"
)

// Statistics and export
const (
	StatsMenu           ID = "stats_menu"
	ExerciseStatsChoice ID = "exercise_stats_choice"
	ExportMenu          ID = "export_menu"
)

// Draft is the exercise being entered, not yet committed
type Draft struct {
	// ID doubles as the idempotency key of the commit
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Kind         domain.Kind         `json:"kind"`
	Sets         []domain.Set        `json:"sets,omitempty"`
	CardioFormat domain.CardioFormat `json:"cardio_format,omitempty"`
}

// CatalogRef points at a custom catalog entry
type CatalogRef struct {
	Kind domain.Kind `json:"kind"`
	Name string      `json:"name"`
}

// SessionContext is the per-user scratch space bridging turns
type SessionContext struct {
	Draft *Draft `json:"draft,omitempty"`
	// NewKind is the kind chosen in ExerciseTypeChoice for NameInput
	NewKind domain.Kind `json:"new_kind,omitempty"`
	// ReturnTo is the menu that started the shared add-exercise sub-flow
	ReturnTo ID `json:"return_to,omitempty"`
	// AfterCommit is where a committed exercise lands; set by EditMenu
	AfterCommit   ID          `json:"after_commit,omitempty"`
	PendingDelete *CatalogRef `json:"pending_delete,omitempty"`
}

// Conversation is a user's position in the graph plus the session context
type Conversation struct {
	UserID    int64          `json:"user_id"`
	State     ID             `json:"state"`
	Context   SessionContext `json:"context"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewConversation returns the initial conversation of a user
func NewConversation(userID int64) Conversation {
	return Conversation{UserID: userID, State: Idle}
}

// Clone deep-copies the conversation so stores never share draft slices
func (c Conversation) Clone() Conversation {
	out := c
	if c.Context.Draft != nil {
		draft := *c.Context.Draft
		draft.Sets = append([]domain.Set(nil), c.Context.Draft.Sets...)
		out.Context.Draft = &draft
	}
	if c.Context.PendingDelete != nil {
		ref := *c.Context.PendingDelete
		out.Context.PendingDelete = &ref
	}
	return out
}

// Reset drops everything except the routing state
func (c *SessionContext) Reset() {
	*c = SessionContext{}
}

// Store keeps one conversation per user
type Store interface {
	// Load reports found=false and a fresh Idle conversation for unknown users
	Load(ctx context.Context, userID int64) (conv Conversation, found bool, err error)
	Save(ctx context.Context, conv Conversation) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStore keeps conversations in process memory
type MemoryStore struct {
	conversations map[int64]Conversation
	mu            sync.RWMutex
}

// NewMemoryStore creates a new in-memory conversation store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[int64]Conversation),
	}
}

func (m *MemoryStore) Load(_ context.Context, userID int64) (Conversation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, exists := m.conversations[userID]
	if !exists {
		return NewConversation(userID), false, nil
	}
	return conv.Clone(), true, nil
}

func (m *MemoryStore) Save(_ context.Context, conv Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conv.UserID] = conv.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, userID)
	return nil
}
