// Package models contains the core data types for omnichat conversations.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/diogo/omnichat/internal/attachment"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status tracks the lifecycle of a message.
type Status string

const (
	// StatusSending marks an assistant placeholder awaiting resolution.
	StatusSending Status = "sending"
	// StatusDone marks a settled message.
	StatusDone Status = "done"
	// StatusError marks a placeholder whose turn failed.
	StatusError Status = "error"
)

// Title derivation constants
const (
	// TitleMaxLen bounds the title derived from a conversation's first message.
	TitleMaxLen = 30
	// FallbackTitle is used when the first message carries only an image.
	FallbackTitle = "Image Query"
	// DefaultTitle is the label for a conversation with no content yet.
	DefaultTitle = "New Conversation"
)

// Source is a citation attached to a grounded answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Message is one turn in a conversation.
//
// A user message is always created with StatusDone; an assistant message is
// created with StatusSending and transitions exactly once to StatusDone or
// StatusError.
type Message struct {
	ID        string                 `json:"id"`
	Role      Role                   `json:"role"`
	Content   string                 `json:"content"`
	Image     *attachment.Attachment `json:"image,omitempty"`
	Sources   []Source               `json:"sources,omitempty"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
}

// Conversation is a titled, ordered thread of messages.
// Message order is insertion order and never changes.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Turn is the role+text projection of a message replayed to the gateway.
// Images and citations are never replayed.
type Turn struct {
	Role    Role
	Content string
}

// NewID returns an opaque unique identifier.
func NewID() string {
	return uuid.NewString()
}

// NewUserMessage builds a settled user message.
func NewUserMessage(content string, image *attachment.Attachment, at time.Time) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   content,
		Image:     image,
		Status:    StatusDone,
		Timestamp: at,
	}
}

// NewPlaceholder builds a pending assistant message.
func NewPlaceholder(at time.Time) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleAssistant,
		Status:    StatusSending,
		Timestamp: at,
	}
}

// DeriveTitle produces a conversation title from its first user message:
// the text truncated to TitleMaxLen runes, or FallbackTitle when the
// message carries only an image.
func DeriveTitle(content string) string {
	if content == "" {
		return FallbackTitle
	}
	runes := []rune(content)
	if len(runes) > TitleMaxLen {
		return string(runes[:TitleMaxLen])
	}
	return content
}
