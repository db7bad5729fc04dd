package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/strategy-ai/pkg/formatter"
	"github.com/helmcode/strategy-ai/pkg/logger"
	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/presenter"
	"github.com/helmcode/strategy-ai/pkg/workflow"
)

type analyzeOptions struct {
	source   sourceOptions
	collapse bool
	expand   []string
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the phase 1 analysis and print the result",
		Long: `Build the startup profile from the assessment, send it to the analysis
service and print where the company stands today.

Examples:
  # Analyse the assessment in a local file
  strategy-ai analyze -a assessment.yaml

  # Read the assessment from a ConfigMap and print only the card headers
  strategy-ai analyze --configmap strategy/acme --collapse

  # Expand a single framework card
  strategy-ai analyze -a assessment.yaml --expand bcg_matrix

  # Machine-readable output
  strategy-ai analyze -a assessment.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	opts.source.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.collapse, "collapse", false, "Show framework card headers only")
	cmd.Flags().StringSliceVar(&opts.expand, "expand", nil, "Expand only these framework ids (default: all)")
	cmd.Flags().StringP("output", "o", "", "Output format (human, json, yaml)")
	cmd.Flags().Duration("timeout", 0, "Request timeout (0 waits indefinitely)")
	cmd.MarkFlagsMutuallyExclusive("collapse", "expand")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	src, desc, err := opts.source.source()
	if err != nil {
		return err
	}

	apiClient := newAPIClient(cfg, log)
	ctrl := workflow.NewController()
	runner := workflow.NewRunner(ctrl, src, apiClient, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	human := cfg.Output.Format == "human"
	if human {
		printHeader(out, apiClient.Phase1URL(), desc)
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " Analyzing current position..."
	if human {
		s.Start()
	}
	err = runner.Advance(ctx, workflow.PhaseCurrentPosition)
	s.Stop()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("analysis interrupted")
		}
		msg := ctrl.ErrorMessage()
		if msg == "" {
			msg = err.Error()
		}
		if !human {
			return errors.New(msg)
		}
		printError(out, msg)
		if detail := ctrl.ErrorDetail(); detail != "" {
			fmt.Fprintf(out, "  %s\n", detail)
		}
		return ErrReported
	}

	report := ctrl.Report()
	if human {
		printSuccess(out, fmt.Sprintf("Analysis complete: %d frameworks selected", len(report.Phase1.FrameworksAnalysis)))
	}

	expanded := expandedCards(report, opts)
	if human {
		for _, id := range unknownIDs(report, opts.expand) {
			printWarning(out, fmt.Sprintf("No framework with id %q in this analysis", id))
		}
	}

	return formatter.DisplayResults(out, report, expanded, cfg.Output.Format)
}

// expandedCards opens every card unless --collapse or --expand narrows it.
func expandedCards(report *model.Report, opts *analyzeOptions) presenter.ExpandedSet {
	switch {
	case opts.collapse:
		return presenter.ExpandedSet{}
	case len(opts.expand) > 0:
		return presenter.NewExpandedSet(opts.expand...)
	default:
		return presenter.NewExpandedSet(report.FrameworkIDs()...)
	}
}

func unknownIDs(report *model.Report, ids []string) []string {
	known := presenter.NewExpandedSet(report.FrameworkIDs()...)
	var out []string
	for _, id := range ids {
		if !known.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

func printHeader(w io.Writer, endpoint, source string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	cyan.Fprintln(w, "🧭 Dynamic Strategic Analysis")
	fmt.Fprintf(w, "📍 Phase 1: %s\n", workflow.PhaseCurrentPosition.Title())
	fmt.Fprintf(w, "📂 Assessment: %s\n", source)
	fmt.Fprintf(w, "🌐 Service: %s\n", endpoint)
	fmt.Fprintln(w)
}
