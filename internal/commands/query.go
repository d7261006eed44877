package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/omnichat/internal/attachment"
	"github.com/diogo/omnichat/internal/chat"
	"github.com/diogo/omnichat/internal/config"
	apierrors "github.com/diogo/omnichat/internal/errors"
	"github.com/diogo/omnichat/internal/gateway"
	"github.com/diogo/omnichat/internal/logging"
	"github.com/diogo/omnichat/internal/render"
	"github.com/diogo/omnichat/internal/store"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#6366f1"), // Indigo
	lipgloss.Color("#818cf8"),
	lipgloss.Color("#a5b4fc"),
	lipgloss.Color("#c7d2fe"),
	lipgloss.Color("#a5b4fc"),
	lipgloss.Color("#818cf8"),
}

var (
	colorText     = lipgloss.Color("#e2e8f0")
	colorTextDim  = lipgloss.Color("#94a3b8")
	colorTextMute = lipgloss.Color("#475569")
	colorSuccess  = lipgloss.Color("#4ade80")
	colorPrimary  = lipgloss.Color("#6366f1")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	sourceStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// spinner handles the animated loading indicator
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Animated trailing dots
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(os.Stderr, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// newLogger builds the file logger, falling back to a no-op on failure.
func newLogger(verbose bool) *zap.Logger {
	path, err := logging.DefaultPath()
	if err != nil {
		return logging.Nop()
	}
	logger, err := logging.New(path, verbose)
	if err != nil {
		return logging.Nop()
	}
	return logger
}

// runQuery executes a single query and outputs the response.
// If rawOutput is true, only the raw response text is printed without decoration.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && imageFlag == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, _ := config.LoadConfig()
	if verboseFlag {
		cfg.Verbose = true
	}

	logger := newLogger(cfg.Verbose)
	defer logger.Sync()

	ctx := context.Background()

	gw, err := gateway.NewClient(ctx, config.ResolveAPIKey(cfg), logger)
	if err != nil {
		if !rawOutput {
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to create client"))
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	// Load image if provided
	var image *attachment.Attachment
	if imageFlag != "" {
		image, err = attachment.FromFile(imageFlag)
		if err != nil {
			if !rawOutput {
				fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to load image"))
			}
			return fmt.Errorf("failed to load image: %w", err)
		}
		if cfg.Verbose && !rawOutput {
			fmt.Fprintf(os.Stderr, "[verbose] Image: %s (%s, %d bytes)\n", imageFlag, image.MIMEType, image.Size())
		}
	}

	if cfg.Verbose && !rawOutput {
		fmt.Fprintf(os.Stderr, "[verbose] Model: %s\n", gateway.ModelName)
	}

	// Generate content
	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Generating response")
		spin.start()
	}

	s := store.New()
	ctrl := chat.NewController(s, gw, logger)

	startTime := time.Now()
	reply, err := ctrl.Submit(ctx, prompt, image)
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Generation failed"))
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	if cfg.Verbose && !rawOutput {
		fmt.Fprintf(os.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
		fmt.Fprintf(os.Stderr, "[verbose] Response cites %d sources\n", len(reply.Sources))
	}

	text := reply.Text

	// Raw output mode: output only the raw text
	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Print(text)
		return nil
	}

	// Decorated output mode (TTY)
	fmt.Fprintln(os.Stderr)

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	bubbleWidth := clampWidth(getTerminalWidth() - 4)
	contentWidth := bubbleWidth - 4

	label := assistantLabelStyle.Render("✦ OmniChat")
	fmt.Println(label)

	renderOpts := render.DefaultOptions().
		WithWidth(contentWidth).
		WithStyle(cfg.Markdown.Style)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
	fmt.Println(bubble)

	for _, src := range reply.Sources {
		fmt.Println(sourceStyle.Render(fmt.Sprintf("  ↗ %s  %s", src.Title, src.URI)))
	}
	if len(reply.Sources) > 0 {
		fmt.Println()
	}

	return nil
}

// clampWidth bounds the output width to a readable range.
func clampWidth(width int) int {
	if width < 40 {
		return 40
	}
	if width > 120 {
		return 120
	}
	return width
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Set GEMINI_API_KEY or run 'omnichat config set api_key <key>'"))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or check your connection"))
	}

	return sb.String()
}
