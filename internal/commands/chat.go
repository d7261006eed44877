package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/omnichat/internal/chat"
	"github.com/diogo/omnichat/internal/config"
	"github.com/diogo/omnichat/internal/gateway"
	"github.com/diogo/omnichat/internal/store"
	"github.com/diogo/omnichat/internal/tui"
)

var importFlag string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with Gemini.

Each conversation maintains context across messages, and responses
cite the web sources they were grounded on. Type 'exit', 'quit', or
press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	chatCmd.Flags().StringVar(&importFlag, "import", "", "Seed conversations from a JSON export file")
}

func runChat() error {
	cfg, _ := config.LoadConfig()
	if verboseFlag {
		cfg.Verbose = true
	}

	logger := newLogger(cfg.Verbose)
	defer logger.Sync()

	gw, err := gateway.NewClient(context.Background(), config.ResolveAPIKey(cfg), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to create client"))
		return fmt.Errorf("failed to create client: %w", err)
	}

	s := store.New()

	if importFlag != "" {
		data, err := os.ReadFile(importFlag)
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}
		imported, err := s.ImportJSON(data)
		if err != nil {
			return fmt.Errorf("failed to import conversations: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Imported %d conversations\n", imported)
	}

	ctrl := chat.NewController(s, gw, logger)
	return tui.Run(s, ctrl, cfg)
}
