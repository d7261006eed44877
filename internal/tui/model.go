package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/omnichat/internal/attachment"
	"github.com/diogo/omnichat/internal/chat"
	"github.com/diogo/omnichat/internal/config"
	apierrors "github.com/diogo/omnichat/internal/errors"
	"github.com/diogo/omnichat/internal/gateway"
	"github.com/diogo/omnichat/internal/models"
	"github.com/diogo/omnichat/internal/render"
	"github.com/diogo/omnichat/internal/store"
)

// errorNotice is the fixed inline failure text for a failed turn.
const errorNotice = "Failed to get response. Please try again."

// turnResolvedMsg is sent when a gateway call settles.
type turnResolvedMsg struct {
	turn  *chat.Turn
	reply *gateway.Reply
	err   error
}

// Model represents the chat TUI state.
type Model struct {
	store *store.Store
	ctrl  *chat.Controller
	cfg   config.Config

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Pending attachment slot: filled before submission, cleared at submit.
	pendingImage     *attachment.Attachment
	pendingImagePath string

	// Conversation list overlay
	selecting bool
	list      listModel

	// State
	err      error
	feedback string
	ready    bool

	// Dimensions
	width  int
	height int
}

// NewModel creates the chat TUI model.
func NewModel(s *store.Store, ctrl *chat.Controller, cfg config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask OmniChat anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = loadingStyle

	return Model{
		store:    s,
		ctrl:     ctrl,
		cfg:      cfg,
		textarea: ta,
		spinner:  sp,
		list:     newListModel(s),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selecting {
		return m.updateSelecting(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 5
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		m.feedback = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			return m, tea.Quit

		case "ctrl+n":
			m.store.CreateConversation()
			m.updateViewport()

		case "ctrl+l":
			m.selecting = true
			m.list = newListModel(m.store)

		case "ctrl+y":
			m.copyLastReply()

		case "enter":
			return m.handleSubmit()
		}

	case turnResolvedMsg:
		m.ctrl.Resolve(msg.turn, msg.reply, msg.err)
		if msg.err != nil {
			m.err = msg.err
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.ctrl.InFlight() {
			// Keep the inline pending indicator animated.
			m.updateViewport()
		}
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleSubmit processes the composer content: slash commands first,
// otherwise a turn submission.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())

	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m, tea.Quit

	case input == "/new":
		m.textarea.Reset()
		m.store.CreateConversation()
		m.updateViewport()
		return m, nil

	case input == "/chats":
		m.textarea.Reset()
		m.selecting = true
		m.list = newListModel(m.store)
		return m, nil

	case input == "/export":
		m.textarea.Reset()
		m.exportActive()
		return m, nil

	case strings.HasPrefix(input, "/image"):
		m.textarea.Reset()
		m.handleImageCommand(strings.TrimSpace(strings.TrimPrefix(input, "/image")))
		return m, nil
	}

	// Snapshot and clear the composer before the network call.
	text := m.textarea.Value()
	image := m.pendingImage

	turn, ok := m.ctrl.Begin(text, image)
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.pendingImage = nil
	m.pendingImagePath = ""
	m.err = nil
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendTurn(turn),
		m.spinner.Tick,
	)
}

// sendTurn creates a command that runs the gateway call.
func (m Model) sendTurn(turn *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.ctrl.Send(context.Background(), turn)
		return turnResolvedMsg{turn: turn, reply: reply, err: err}
	}
}

// handleImageCommand fills or clears the pending attachment slot.
func (m *Model) handleImageCommand(path string) {
	if path == "" {
		m.pendingImage = nil
		m.pendingImagePath = ""
		m.feedback = "Attachment cleared"
		return
	}

	att, err := attachment.FromFile(path)
	if err != nil {
		m.err = err
		return
	}
	m.pendingImage = att
	m.pendingImagePath = path
	m.err = nil
	m.feedback = fmt.Sprintf("Attached %s (%s, %d bytes)", filepath.Base(path), att.MIMEType, att.Size())
}

// copyLastReply copies the most recent settled assistant message.
func (m *Model) copyLastReply() {
	conv := m.store.Active()
	if conv == nil {
		return
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Role == models.RoleAssistant && msg.Status == models.StatusDone {
			if err := clipboard.WriteAll(msg.Content); err != nil {
				m.err = err
				return
			}
			m.feedback = "Response copied to clipboard"
			return
		}
	}
}

// exportActive writes the active conversation's transcript to the export dir.
func (m *Model) exportActive() {
	conv := m.store.Active()
	if conv == nil {
		m.feedback = "No conversation to export"
		return
	}

	transcript := m.store.ExportMarkdown(conv.ID)
	dir, err := config.GetExportDir(m.cfg)
	if err != nil {
		m.err = err
		return
	}

	name := fmt.Sprintf("%s-%s.md", sanitizeFilename(conv.Title), time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		m.err = err
		return
	}
	m.feedback = "Exported to " + path
}

func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

// updateSelecting routes messages to the conversation list overlay.
func (m Model) updateSelecting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	var done bool
	m.list, done = m.list.Update(msg)
	if done {
		m.selecting = false
		m.updateViewport()
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selecting {
		return m.list.View(m.width)
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	conv := m.store.Active()
	switch {
	case conv == nil:
		messagesContent = m.renderNoSelection()
	case len(conv.Messages) == 0:
		messagesContent = m.renderWelcome()
	default:
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	sections = append(sections, m.renderComposer(contentWidth))
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}
	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	title := "OmniChat"
	if conv := m.store.Active(); conv != nil {
		title = conv.Title
	}

	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ "+title),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(gateway.ModelName),
	)
	return headerStyle.Width(width).Render(headerContent)
}

func (m Model) renderComposer(width int) string {
	var lines []string

	if m.pendingImage != nil {
		lines = append(lines, attachmentStyle.Render(fmt.Sprintf(
			"📎 %s (%s, %d bytes)  /image to remove",
			filepath.Base(m.pendingImagePath), m.pendingImage.MIMEType, m.pendingImage.Size(),
		)))
	}

	lines = append(lines,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
	)

	return inputPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+N", "New chat"},
		{"Ctrl+L", "Chats"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("How can I help you today?"),
		"",
		welcomeStyle.Width(width).Render("Answers are grounded with real-time web search."),
		welcomeStyle.Width(width).Render("Attach an image with /image <path>."),
		"",
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderNoSelection() string {
	width := m.viewport.Width - 4

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeTitleStyle.Width(width).Render("No conversation selected"),
		"",
		welcomeStyle.Width(width).Render("Press Ctrl+N for a new chat or Ctrl+L to pick one."),
		"",
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// updateViewport refreshes the viewport content with styled messages.
func (m *Model) updateViewport() {
	conv := m.store.Active()
	if conv == nil {
		m.viewport.SetContent("")
		return
	}

	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	var content strings.Builder

	for i, msg := range conv.Messages {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderMessage(msg, bubbleWidth))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderMessage(msg models.Message, width int) string {
	var sb strings.Builder

	if msg.Role == models.RoleUser {
		sb.WriteString(userLabelStyle.Render("⬤ You"))
		sb.WriteString("\n")
		if msg.Image != nil {
			sb.WriteString(attachmentStyle.Render(fmt.Sprintf("📎 image (%s, %d bytes)", msg.Image.MIMEType, msg.Image.Size())))
			sb.WriteString("\n")
		}
		if msg.Content != "" {
			sb.WriteString(userBubbleStyle.Width(width).Render(msg.Content))
			sb.WriteString("\n")
		}
		sb.WriteString(timestampStyle.Render(msg.Timestamp.Format("15:04")))
		return sb.String()
	}

	sb.WriteString(assistantLabelStyle.Render("✦ OmniChat"))
	sb.WriteString("\n")

	switch msg.Status {
	case models.StatusSending:
		sb.WriteString(assistantBubbleStyle.Render(m.spinner.View() + loadingStyle.Render(" Thinking...")))

	case models.StatusError:
		sb.WriteString(errorNoticeStyle.Render("⚠ " + errorNotice))

	default:
		rendered, err := render.Markdown(msg.Content, render.DefaultOptions().
			WithWidth(width-4).
			WithStyle(m.cfg.Markdown.Style))
		if err != nil {
			rendered = msg.Content
		}
		rendered = strings.TrimRight(rendered, "\n")
		sb.WriteString(assistantBubbleStyle.Width(width).Render(rendered))

		for _, src := range msg.Sources {
			title := src.Title
			if runes := []rune(title); len(runes) > 25 {
				title = string(runes[:25]) + "..."
			}
			sb.WriteString("\n")
			sb.WriteString(sourceChipStyle.Render(fmt.Sprintf("↗ %s  %s", title, src.URI)))
		}
	}

	// The timestamp footer shows regardless of status.
	sb.WriteString("\n")
	sb.WriteString(timestampStyle.Render(msg.Timestamp.Format("15:04")))

	return sb.String()
}

// formatError renders an error with a contextual hint.
func (m Model) formatError(err error) string {
	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("  ⚠ Error: %v", err)))

	hint := ""
	switch {
	case apierrors.IsAuthError(err):
		hint = "Set GEMINI_API_KEY or run 'omnichat config set api_key <key>'"
	case apierrors.IsRateLimitError(err):
		hint = "Usage limit reached. Try again later"
	case apierrors.IsTimeoutError(err):
		hint = "Request timed out. Try again"
	case apierrors.IsNetworkError(err):
		hint = "Check your internet connection"
	}
	if hint != "" {
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("    💡 " + hint))
	}
	return sb.String()
}

// Run starts the chat TUI.
func Run(s *store.Store, ctrl *chat.Controller, cfg config.Config) error {
	p := tea.NewProgram(
		NewModel(s, ctrl, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
