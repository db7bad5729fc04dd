package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/strategy-ai/pkg/profile"
)

func NewProfileCmd() *cobra.Command {
	var (
		src    sourceOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the request payload built from the assessment",
		Long: `Build the startup profile exactly as analyze would send it, with every
missing assessment field replaced by its default, and print it without
contacting the analysis service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := src.source()
			if err != nil {
				return err
			}
			data, err := source.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load assessment: %w", err)
			}
			req := profile.NewPhase1Request(data)

			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(req, "", "  ")
				out = append(out, '\n')
			case "yaml":
				out, err = yaml.Marshal(req)
			default:
				return fmt.Errorf("unsupported format %q (json, yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to encode profile: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	src.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Payload format (json, yaml)")
	return cmd
}
