// Package gateway wraps the single outbound call to the Gemini API.
//
// It translates local conversation state into a generate request (prompt,
// optional inline image, replayed history, fixed persona and sampling
// parameters, web grounding enabled) and extracts plain text plus citation
// sources from the response. It does not retry, cache, or rate-limit;
// transport and provider errors propagate unchanged to the caller.
package gateway

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/diogo/omnichat/internal/attachment"
	apierrors "github.com/diogo/omnichat/internal/errors"
	"github.com/diogo/omnichat/internal/models"
)

// ModelName is the fixed provider model. Not user-configurable.
const ModelName = "gemini-3-pro-preview"

// SystemInstruction is the fixed persona for every request.
const SystemInstruction = "You are OmniChat, a world-class AI assistant with deep expertise in all subjects. " +
	"Provide accurate, helpful, and concise answers. If appropriate, use Markdown to format your response. " +
	"When providing technical or factual information, ensure high precision."

// FallbackText masks an empty provider response.
const FallbackText = "I'm sorry, I couldn't process that request."

// Fixed sampling configuration.
const (
	Temperature float32 = 0.7
	TopP        float32 = 0.95
	TopK        float32 = 40
)

// Reply is the gateway's view of one provider response.
type Reply struct {
	Text    string
	Sources []models.Source
}

// Interface is the gateway contract consumed by the lifecycle controller.
type Interface interface {
	Send(ctx context.Context, prompt string, image *attachment.Attachment, history []models.Turn) (*Reply, error)
}

// Client talks to the Gemini API through the official SDK.
type Client struct {
	gc     *genai.Client
	logger *zap.Logger
}

// Ensure Client implements Interface
var _ Interface = (*Client)(nil)

// NewClient creates a gateway client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}

	return &Client{gc: gc, logger: logger}, nil
}

// Send performs one generate call and extracts text plus citations.
func (c *Client) Send(ctx context.Context, prompt string, image *attachment.Attachment, history []models.Turn) (*Reply, error) {
	contents := buildContents(prompt, image, history)
	config := buildConfig()

	start := time.Now()
	resp, err := c.gc.Models.GenerateContent(ctx, ModelName, contents, config)
	if err != nil {
		c.logger.Warn("generate call failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	reply := extractReply(resp)
	c.logger.Debug("generate call completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("history_turns", len(history)),
		zap.Int("sources", len(reply.Sources)))
	return reply, nil
}

// buildContents assembles the ordered turn list: replayed history first
// (role+text only), then the current turn's parts.
func buildContents(prompt string, image *attachment.Attachment, history []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)

	for _, turn := range history {
		var role genai.Role = genai.RoleModel
		if turn.Role == models.RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if image != nil {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIMEType))
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	return contents
}

func buildConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(Temperature),
		TopP:              genai.Ptr(TopP),
		TopK:              genai.Ptr(TopK),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
}

// extractReply pulls text and citations out of a provider response,
// treating missing grounding metadata as an empty citation list.
func extractReply(resp *genai.GenerateContentResponse) *Reply {
	text := resp.Text()
	if text == "" {
		text = FallbackText
	}

	return &Reply{
		Text:    text,
		Sources: extractSources(resp),
	}
}

func extractSources(resp *genai.GenerateContentResponse) []models.Source {
	sources := []models.Source{}
	if len(resp.Candidates) == 0 {
		return sources
	}

	metadata := resp.Candidates[0].GroundingMetadata
	if metadata == nil {
		return sources
	}

	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Reference"
		}
		sources = append(sources, models.Source{Title: title, URI: chunk.Web.URI})
	}
	return sources
}
