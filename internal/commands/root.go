// Package commands provides CLI commands for omnichat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	outputFlag  string
	fileFlag    string
	imageFlag   string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "omnichat [prompt]",
	Short: "Chat with Gemini, grounded with web search",
	Long: `omnichat is a command-line client for Google Gemini. Responses are
grounded with real-time web search and cite their sources.

Examples:
  omnichat chat                        Start interactive chat
  omnichat config show                 Show current settings
  omnichat "What is Go?"               Send a single query
  omnichat -f prompt.md                Read prompt from file
  cat prompt.md | omnichat             Read prompt from stdin
  omnichat "Describe this" -i cat.png  Include an image
  omnichat "Hello" -o response.md      Save response to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("omnichat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		rawOutput := !isStdoutTTY()

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), rawOutput)
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), rawOutput)
		}

		if len(args) > 0 {
			return runQuery(args[0], rawOutput)
		}

		// An image alone is a valid query
		if imageFlag != "" {
			return runQuery("", rawOutput)
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Path to image file to include")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}
