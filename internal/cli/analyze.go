package cli

import (
	"context"
	"fmt"

	"resumefit/internal/common"
	"resumefit/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Analyze how well a resume matches a job description and produce an
explainable match score.

The analysis includes:
- Structured extraction of job requirements and resume content
- A calibrated 0-100 match score with a full component breakdown
- Deterministic ATS readability checks on the raw resume text
- Missing keywords ranked by importance
- ATS optimization suggestions and improvement recommendations`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeConfig.Language, "language", "", "Analysis language as ISO 639-1 code (default: auto-detect)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipe, client, store, prompts, err := buildPipeline(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := prompts.Close(); err != nil {
			logger.Warn("Failed to close prompt watcher", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close oracle client", "error", err)
		}
	}()

	analyzeOperation := func(ctx context.Context, resumeText, jobDescription, language string) (*types.AnalysisResult, error) {
		return pipe.Analyze(ctx, resumeText, jobDescription, language)
	}

	err = common.RunAnalysisCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args[0],
		args[1],
		analyzeOperation,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
