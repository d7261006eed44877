// Package chat implements the message lifecycle controller.
//
// The controller turns one user submission into an eventually-resolved
// exchange: it appends the user message together with a pending assistant
// placeholder, invokes the gateway, and resolves the placeholder to success
// or failure. At most one submission is in flight at a time.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/omnichat/internal/attachment"
	"github.com/diogo/omnichat/internal/gateway"
	"github.com/diogo/omnichat/internal/models"
	"github.com/diogo/omnichat/internal/store"
)

// Turn captures one submission between Begin and Resolve.
type Turn struct {
	ConversationID string
	PlaceholderID  string
	Prompt         string
	Image          *attachment.Attachment
	// History is the conversation as it existed strictly before this turn,
	// role and content only.
	History []models.Turn
}

// Controller orchestrates user submissions against the store and gateway.
type Controller struct {
	store   *store.Store
	gw      gateway.Interface
	logger  *zap.Logger
	mu      sync.Mutex
	pending bool
	now     func() time.Time
}

// NewController creates a lifecycle controller.
func NewController(s *store.Store, gw gateway.Interface, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: s, gw: gw, logger: logger, now: time.Now}
}

// InFlight reports whether a submission is currently awaiting resolution.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Begin validates and opens a turn. Preconditions: non-empty trimmed text
// or an attached image, no submission in flight, and an active
// conversation. Any violation returns (nil, false) with no side effects;
// the UI simply keeps the send affordance disabled.
//
// On success the user message (settled) and the assistant placeholder
// (pending) are appended atomically in one store call, so the thread never
// shows a user message without its pending reply.
func (c *Controller) Begin(text string, image *attachment.Attachment) (*Turn, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && image == nil {
		return nil, false
	}

	convID := c.store.ActiveID()
	if convID == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return nil, false
	}
	c.pending = true
	c.mu.Unlock()

	// Snapshot the history before this turn is appended.
	history := c.store.History(convID, "")

	at := c.now()
	userMsg := models.NewUserMessage(text, image, at)
	placeholder := models.NewPlaceholder(at)
	c.store.AppendMessages(convID, userMsg, placeholder)

	c.logger.Debug("turn opened",
		zap.String("conversation", convID),
		zap.Int("history_turns", len(history)),
		zap.Bool("has_image", image != nil))

	return &Turn{
		ConversationID: convID,
		PlaceholderID:  placeholder.ID,
		Prompt:         text,
		Image:          image,
		History:        history,
	}, true
}

// Send invokes the gateway for an open turn. This is the single suspension
// point of a submission.
func (c *Controller) Send(ctx context.Context, turn *Turn) (*gateway.Reply, error) {
	return c.gw.Send(ctx, turn.Prompt, turn.Image, turn.History)
}

// Resolve settles the placeholder. On success its content, sources, and
// done status are applied; on failure only the status flips to error and
// the content stays empty, so no partial text is ever shown for a failed
// call. The in-flight flag clears on both paths.
func (c *Controller) Resolve(turn *Turn, reply *gateway.Reply, err error) {
	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}()

	if err != nil {
		status := models.StatusError
		c.store.UpdateMessage(turn.ConversationID, turn.PlaceholderID, store.MessagePatch{
			Status: &status,
		})
		c.logger.Warn("turn failed",
			zap.String("conversation", turn.ConversationID),
			zap.Error(err))
		return
	}

	status := models.StatusDone
	c.store.UpdateMessage(turn.ConversationID, turn.PlaceholderID, store.MessagePatch{
		Content: &reply.Text,
		Sources: reply.Sources,
		Status:  &status,
	})
	c.logger.Debug("turn resolved",
		zap.String("conversation", turn.ConversationID),
		zap.Int("sources", len(reply.Sources)))
}

// Submit runs a full turn synchronously: Begin, Send, Resolve. Used by the
// one-shot CLI path; the TUI drives the phases itself so the optimistic
// append renders before the call settles.
func (c *Controller) Submit(ctx context.Context, text string, image *attachment.Attachment) (*gateway.Reply, error) {
	turn, ok := c.Begin(text, image)
	if !ok {
		return nil, nil
	}

	reply, err := c.Send(ctx, turn)
	c.Resolve(turn, reply, err)
	return reply, err
}
