package store

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/diogo/omnichat/internal/attachment"
	apierrors "github.com/diogo/omnichat/internal/errors"
	"github.com/diogo/omnichat/internal/models"
)

// ImportJSON seeds the store with conversations from a JSON export in the
// web app's shape: an array of {id, title, messages[], updatedAt} objects
// with millisecond timestamps. Parsing is lenient: missing fields default,
// entries without an id are skipped, and unknown roles or statuses fall
// back to sane values. Returns the number of conversations imported.
//
// Imported conversations are appended behind any existing ones and the
// active selection is left untouched. Nothing is ever written back.
func (s *Store) ImportJSON(data []byte) (int, error) {
	if !gjson.ValidBytes(data) {
		return 0, apierrors.NewParseError("invalid JSON")
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return 0, apierrors.NewParseError("expected a JSON array of conversations")
	}

	var imported []*models.Conversation
	parsed.ForEach(func(_, entry gjson.Result) bool {
		conv := importConversation(entry)
		if conv != nil {
			imported = append(imported, conv)
		}
		return true
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append(s.conversations, imported...)

	return len(imported), nil
}

func importConversation(entry gjson.Result) *models.Conversation {
	id := entry.Get("id").String()
	if id == "" {
		return nil
	}

	title := entry.Get("title").String()
	if title == "" {
		title = models.DefaultTitle
	}

	conv := &models.Conversation{
		ID:        id,
		Title:     title,
		Messages:  []models.Message{},
		UpdatedAt: millisToTime(entry.Get("updatedAt").Int()),
	}

	entry.Get("messages").ForEach(func(_, m gjson.Result) bool {
		if msg, ok := importMessage(m); ok {
			conv.Messages = append(conv.Messages, msg)
		}
		return true
	})

	return conv
}

func importMessage(m gjson.Result) (models.Message, bool) {
	id := m.Get("id").String()
	if id == "" {
		return models.Message{}, false
	}

	role := models.RoleAssistant
	if m.Get("role").String() == "user" {
		role = models.RoleUser
	}

	status := models.StatusDone
	switch m.Get("status").String() {
	case "error":
		status = models.StatusError
	case "sending":
		// A pending message from a dead session can never resolve.
		status = models.StatusError
	}

	msg := models.Message{
		ID:        id,
		Role:      role,
		Content:   m.Get("content").String(),
		Status:    status,
		Timestamp: millisToTime(m.Get("timestamp").Int()),
	}

	if img := m.Get("image").String(); img != "" {
		if att, err := attachment.ParseDataURL(img); err == nil {
			msg.Image = att
		}
	}

	m.Get("sources").ForEach(func(_, src gjson.Result) bool {
		uri := src.Get("uri").String()
		if uri == "" {
			return true
		}
		title := src.Get("title").String()
		if title == "" {
			title = "Reference"
		}
		msg.Sources = append(msg.Sources, models.Source{Title: title, URI: uri})
		return true
	})

	return msg, true
}

func millisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
