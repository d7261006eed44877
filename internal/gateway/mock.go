package gateway

import (
	"context"

	"github.com/diogo/omnichat/internal/attachment"
	"github.com/diogo/omnichat/internal/models"
)

// Mock is a scripted gateway implementation for tests.
type Mock struct {
	// Mock return values
	Reply *Reply
	Err   error

	// Call recorders
	Calls       int
	LastPrompt  string
	LastImage   *attachment.Attachment
	LastHistory []models.Turn
}

// Ensure Mock implements Interface
var _ Interface = (*Mock)(nil)

func (m *Mock) Send(_ context.Context, prompt string, image *attachment.Attachment, history []models.Turn) (*Reply, error) {
	m.Calls++
	m.LastPrompt = prompt
	m.LastImage = image
	m.LastHistory = history

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Reply != nil {
		return m.Reply, nil
	}
	return &Reply{Text: FallbackText, Sources: []models.Source{}}, nil
}
