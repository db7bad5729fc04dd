package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/strategy-ai/pkg/logger"
	"github.com/helmcode/strategy-ai/pkg/tui"
	"github.com/helmcode/strategy-ai/pkg/workflow"
)

func NewTUICmd() *cobra.Command {
	var (
		src           sourceOptions
		autoStart     bool
		markdownStyle string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive phase screen",
		Long: `Open a full-screen view of the three analysis phases. Phase 1 is
started from the screen; later phases unlock as their predecessor completes.

Logs are written to log.file (--log-file) when set and discarded otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log, err := logger.NewForScreen(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			source, desc, err := src.source()
			if err != nil {
				return err
			}
			log.Info("Starting interactive screen",
				zap.String("endpoint", cfg.API.BaseURL+cfg.API.Phase1Path),
				zap.String("assessment", desc),
			)

			runner := workflow.NewRunner(workflow.NewController(), source, newAPIClient(cfg, log), log)

			opts := []tui.Option{tui.WithLogger(log), tui.WithMarkdownStyle(markdownStyle)}
			if autoStart {
				opts = append(opts, tui.WithAutoStart())
			}
			m := tui.New(cmd.Context(), runner, opts...)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("interactive screen failed: %w", err)
			}
			return nil
		},
	}

	src.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&autoStart, "auto-start", false, "Start the phase 1 analysis immediately")
	cmd.Flags().StringVar(&markdownStyle, "markdown-style", "auto", "Glamour style for narratives (auto, dark, light, notty)")
	cmd.Flags().String("log-file", "", "Write logs to this file")
	return cmd
}
