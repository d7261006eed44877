package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/omnichat/internal/models"
	"github.com/diogo/omnichat/internal/store"
)

// listModel is the conversation picker overlay.
type listModel struct {
	store  *store.Store
	items  []*models.Conversation
	cursor int

	// Pending delete confirmation, empty when none.
	confirmDeleteID string
}

func newListModel(s *store.Store) listModel {
	l := listModel{store: s}
	l.reload()
	return l
}

// reload re-reads conversations and clamps the cursor onto the active one.
func (l *listModel) reload() {
	l.items = l.store.Conversations()
	l.cursor = 0
	for i, conv := range l.items {
		if conv.ID == l.store.ActiveID() {
			l.cursor = i
			break
		}
	}
}

// Update handles overlay keys. The second return value reports whether
// the overlay is done and the chat view should take over again.
func (l listModel) Update(msg tea.Msg) (listModel, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, false
	}

	// A delete confirmation swallows every key until answered.
	if l.confirmDeleteID != "" {
		switch key.String() {
		case "y", "Y":
			l.store.DeleteConversation(l.confirmDeleteID)
			l.confirmDeleteID = ""
			l.reload()
			if len(l.items) == 0 {
				return l, true
			}
		default:
			l.confirmDeleteID = ""
		}
		return l, false
	}

	switch key.String() {
	case "esc", "q", "ctrl+l":
		return l, true

	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}

	case "down", "j":
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}

	case "enter":
		if l.cursor < len(l.items) {
			l.store.SelectConversation(l.items[l.cursor].ID)
		}
		return l, true

	case "n":
		l.store.CreateConversation()
		return l, true

	case "d":
		if l.cursor < len(l.items) {
			l.confirmDeleteID = l.items[l.cursor].ID
		}
	}

	return l, false
}

// View renders the overlay.
func (l listModel) View(width int) string {
	var sb strings.Builder

	sb.WriteString(listTitleStyle.Render("Conversations"))
	sb.WriteString("\n\n")

	if len(l.items) == 0 {
		sb.WriteString(listMetaStyle.Render("No conversations yet. Press n to start one."))
		sb.WriteString("\n")
	}

	for i, conv := range l.items {
		cursor := "  "
		style := listItemStyle
		if i == l.cursor {
			cursor = listCursorStyle.Render("❯ ")
			style = listSelectedStyle
		}

		marker := " "
		if conv.ID == l.store.ActiveID() {
			marker = "•"
		}

		line := fmt.Sprintf("%s%s %s", cursor, marker, style.Render(conv.Title))
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString("      " + listMetaStyle.Render(fmt.Sprintf(
			"%d messages  %s", len(conv.Messages), conv.UpdatedAt.Format("Jan 2 15:04"),
		)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if l.confirmDeleteID != "" {
		sb.WriteString(errorStyle.Render("Delete this conversation? (y/N)"))
	} else {
		sb.WriteString(hintStyle.Render("↑/↓ Navigate  •  Enter Select  •  n New  •  d Delete  •  Esc Back"))
	}

	box := listBoxStyle.Render(sb.String())
	if width > 0 {
		return lipgloss.Place(width, lipgloss.Height(box)+2, lipgloss.Center, lipgloss.Top, box)
	}
	return box
}
