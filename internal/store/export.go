package store

import (
	"fmt"
	"strings"

	"github.com/diogo/omnichat/internal/models"
)

// ExportMarkdown renders a conversation as a Markdown transcript.
// Returns "" when the conversation does not exist.
func (s *Store) ExportMarkdown(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := s.findLocked(id)
	if conv == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(conv.Title)
	sb.WriteString("\n\n")

	sb.WriteString("**Updated:** ")
	sb.WriteString(conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(conv.Messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range conv.Messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if msg.Image != nil {
			sb.WriteString(fmt.Sprintf("*[attached image: %s, %d bytes]*\n\n", msg.Image.MIMEType, msg.Image.Size()))
		}

		switch msg.Status {
		case models.StatusError:
			sb.WriteString("*[response failed]*\n")
		case models.StatusSending:
			sb.WriteString("*[response pending]*\n")
		default:
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
		}

		if len(msg.Sources) > 0 {
			sb.WriteString("\nSources:\n")
			for _, src := range msg.Sources {
				sb.WriteString(fmt.Sprintf("- [%s](%s)\n", src.Title, src.URI))
			}
		}

		if i < len(conv.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}
