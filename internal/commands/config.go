package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/omnichat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show or change omnichat settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		apiKey := "(not set)"
		if cfg.APIKey != "" {
			apiKey = maskKey(cfg.APIKey)
		}

		fmt.Printf("api_key            %s\n", apiKey)
		fmt.Printf("verbose            %t\n", cfg.Verbose)
		fmt.Printf("copy_to_clipboard  %t\n", cfg.CopyToClipboard)
		fmt.Printf("export_dir         %s\n", cfg.ExportDir)
		fmt.Printf("markdown_style     %s\n", cfg.Markdown.Style)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and persist it.

Keys:
  api_key            Gemini API key (GEMINI_API_KEY env overrides)
  verbose            true/false
  copy_to_clipboard  true/false
  export_dir         Directory for exported transcripts
  markdown_style     dark, light, or path to a glamour theme`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if err := applySetting(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}

		fmt.Printf("Set %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// applySetting mutates one config field by key name.
func applySetting(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "api_key":
		cfg.APIKey = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = b
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		cfg.CopyToClipboard = b
	case "export_dir":
		cfg.ExportDir = value
	case "markdown_style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// maskKey hides all but the last four characters of a key.
func maskKey(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
