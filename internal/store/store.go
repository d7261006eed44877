// Package store provides the in-memory conversation store.
//
// The store exclusively owns all Conversation and Message values. Every
// operation is a total function over possibly-absent ids: operations on an
// unknown conversation or message id are silent no-ops, never errors. State
// is volatile; nothing survives a restart.
package store

import (
	"sync"
	"time"

	"github.com/diogo/omnichat/internal/models"
)

// MessagePatch is a partial update merged into an existing message.
// Nil fields are left unchanged.
type MessagePatch struct {
	Content *string
	Sources []models.Source
	Status  *models.Status
}

// Store holds the conversation list and the active selection.
type Store struct {
	mu            sync.RWMutex
	conversations []*models.Conversation
	activeID      string
	now           func() time.Time
}

// New creates a store with one empty conversation auto-created and selected.
func New() *Store {
	s := &Store{now: time.Now}
	s.CreateConversation()
	return s
}

// NewEmpty creates a store with no conversations and no selection.
// Used when seeding from an import.
func NewEmpty() *Store {
	return &Store{now: time.Now}
}

// CreateConversation inserts a new empty conversation at the front of the
// collection, marks it active, and returns its id.
func (s *Store) CreateConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &models.Conversation{
		ID:        models.NewID(),
		Title:     models.DefaultTitle,
		Messages:  []models.Message{},
		UpdatedAt: s.now(),
	}
	s.conversations = append([]*models.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	return conv.ID
}

// DeleteConversation removes the conversation with the given id. If it was
// active, the selection is cleared; the caller handles the empty-selection
// state, no fallback is chosen.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, conv := range s.conversations {
		if conv.ID == id {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			if s.activeID == id {
				s.activeID = ""
			}
			return
		}
	}
}

// SelectConversation sets the active id. Unknown ids are ignored.
func (s *Store) SelectConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) != nil {
		s.activeID = id
	}
}

// AppendMessages appends messages to the target conversation in the given
// order and bumps its UpdatedAt. If this is the conversation's first
// content, the title is derived from the first user message.
func (s *Store) AppendMessages(conversationID string, messages ...models.Message) {
	if len(messages) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return
	}

	wasEmpty := len(conv.Messages) == 0
	conv.Messages = append(conv.Messages, messages...)
	conv.UpdatedAt = s.now()

	if wasEmpty {
		for _, msg := range messages {
			if msg.Role == models.RoleUser {
				conv.Title = models.DeriveTitle(msg.Content)
				break
			}
		}
	}
}

// UpdateMessage merges a patch into the message matching messageID by
// replacing it with a new record carrying the same id. A no-op when either
// id is absent.
func (s *Store) UpdateMessage(conversationID, messageID string, patch MessagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return
	}

	for i, msg := range conv.Messages {
		if msg.ID != messageID {
			continue
		}
		updated := msg
		if patch.Content != nil {
			updated.Content = *patch.Content
		}
		if patch.Sources != nil {
			updated.Sources = patch.Sources
		}
		if patch.Status != nil {
			updated.Status = *patch.Status
		}
		conv.Messages[i] = updated
		conv.UpdatedAt = s.now()
		return
	}
}

// Conversations returns the conversation list in display order.
// The returned slice is a copy; the conversations it points at are owned by
// the store and must be treated as read-only.
func (s *Store) Conversations() []*models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// ActiveID returns the id of the active conversation, or "" when none is
// selected.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns the active conversation, or nil when none is selected.
func (s *Store) Active() *models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(s.activeID)
}

// Get returns the conversation with the given id, or nil.
func (s *Store) Get(id string) *models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// History returns the role+content projection of all messages strictly
// before the message with beforeID. When beforeID is not found the whole
// thread is returned.
func (s *Store) History(conversationID, beforeID string) []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return nil
	}

	turns := make([]models.Turn, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.ID == beforeID {
			break
		}
		turns = append(turns, models.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}

// findLocked looks up a conversation by id. Callers hold s.mu.
func (s *Store) findLocked(id string) *models.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}
