// Package cli is the command line entry point: it serves the web UI or
// classifies a single local file.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/observability/logging"
)

type rootOptions struct {
	version string

	artifactDir string
	logLevel    string
	logFormat   string

	cfg config.Config
}

// NewRootCommand builds the command tree. Environment configuration is read
// when a command runs; persistent flags override it.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "resume-classifier",
		Short: "Classify resumes into job categories",
		Long: `Loads a pre-fit tf-idf vectorizer and classifier, extracts text from a
PDF or DOCX resume and reports the predicted job category with a confidence score.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.load(cmd)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.artifactDir, "artifacts", "", "directory holding the model artifacts (overrides ARTIFACT_DIR)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: json or text (overrides LOG_FORMAT)")

	cmd.AddCommand(
		newServeCommand(opts),
		newClassifyCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("artifacts") {
		cfg.ArtifactDir = o.artifactDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	o.cfg = cfg

	slog.SetDefault(logging.New(cmd.ErrOrStderr(), bootstrap.ServiceName, cfg.LogLevel, cfg.LogFormat))
}
