package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func newClassifyCommand(opts *rootOptions) *cobra.Command {
	var (
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify one PDF or DOCX resume",
		Long: `Extracts the text of a single resume, cleans it and prints the predicted
job category with its confidence score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			app, err := bootstrap.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			result, err := app.ClassifyUC.Classify(cmd.Context(), filepath.Base(path), "", f)
			if err != nil {
				return fmt.Errorf("classify %s: %w", path, err)
			}

			if asJSON {
				return outputClassifyJSON(cmd, result)
			}
			outputClassifyText(cmd, result, top)
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 0, "also print the N most likely categories")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the result as JSON")
	return cmd
}

func outputClassifyJSON(cmd *cobra.Command, result *domain.ClassificationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func outputClassifyText(cmd *cobra.Command, result *domain.ClassificationResult, top int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Predicted Category: %s\n", result.Label)
	fmt.Fprintf(out, "Confidence Score: %.2f%%\n", result.Confidence)

	if top <= 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Top categories:")
	for i, p := range result.Distribution.Top(top) {
		fmt.Fprintf(out, "  [%d] %s (%.2f%%)\n", i+1, p.Label, p.Probability*100)
	}
}
