package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/helmcode/strategy-ai/pkg/client"
	"github.com/helmcode/strategy-ai/pkg/config"
	"github.com/helmcode/strategy-ai/pkg/k8s"
	"github.com/helmcode/strategy-ai/pkg/store"
)

// ErrReported marks a failure that was already printed to the user; main
// exits non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// sourceOptions selects where the assessment is read from.
type sourceOptions struct {
	assessment   string
	configMap    string
	configMapKey string
	kubeconfig   string
	kubeContext  string
}

func (o *sourceOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.assessment, "assessment", "a", "", "Path to the assessment file (YAML or JSON)")
	fs.StringVar(&o.configMap, "configmap", "", "Read the assessment from a ConfigMap (namespace/name)")
	fs.StringVar(&o.configMapKey, "configmap-key", k8s.DefaultConfigMapKey, "ConfigMap data key holding the assessment")
	fs.StringVar(&o.kubeconfig, "kubeconfig", "", "Path to kubeconfig file (defaults to $KUBECONFIG or ~/.kube/config)")
	fs.StringVar(&o.kubeContext, "context", "", "Kubeconfig context to use")
}

// source builds the configured assessment source and a short description of
// it. With neither flag set every field falls back to its default.
func (o *sourceOptions) source() (store.Source, string, error) {
	switch {
	case o.assessment != "" && o.configMap != "":
		return nil, "", fmt.Errorf("--assessment and --configmap are mutually exclusive")

	case o.assessment != "":
		return store.NewFileSource(o.assessment), o.assessment, nil

	case o.configMap != "":
		ref, err := k8s.ParseConfigMapRef(o.configMap, o.configMapKey)
		if err != nil {
			return nil, "", err
		}
		kc, err := k8s.NewClient(o.kubeconfig, o.kubeContext)
		if err != nil {
			return nil, "", fmt.Errorf("failed to connect to cluster: %w", err)
		}
		return kc.ConfigMapSource(ref), ref.String(), nil

	default:
		return store.Static{}, "none (defaults)", nil
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newAPIClient(cfg *config.Config, logger *zap.Logger) *client.Client {
	return client.New(cfg.API.BaseURL,
		client.WithPhase1Path(cfg.API.Phase1Path),
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(logger),
	)
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "✗ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "! %s\n", msg)
}
