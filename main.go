package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/strategy-ai/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "strategy-ai",
		Short: "Multi-phase strategic analysis for startups",
		Long: `strategy-ai turns a startup assessment into a strategic profile, sends it to
the analysis service and presents the selected frameworks: where the company
stands now, where it should go and how to get there.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: strategy-ai.yaml in ., ./configs or ~/.config/strategy-ai)")
	flags.String("api-url", "", "Base URL of the analysis service")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(),
		cmd.NewTUICmd(),
		cmd.NewProfileCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("strategy-ai version %s\n", version)
		},
	}
}
