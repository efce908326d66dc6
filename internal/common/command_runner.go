package common

import (
	"context"

	"resumefit/internal/errors"
	"resumefit/internal/types"
)

// AnalysisFunc runs one resume-versus-job analysis. The language argument is
// empty when the caller wants automatic detection.
type AnalysisFunc func(ctx context.Context, resumeText, jobDescription, language string) (*types.AnalysisResult, error)

// RunAnalysisCommand encapsulates the common logic for file-based analysis
// commands: read and validate the input files, run the pipeline, format and
// write the result.
func RunAnalysisCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumeFile, jobFile string,
	analyze AnalysisFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(resumeFile, jobFile)
	if err != nil {
		return err
	}

	logger.Info("Starting resume analysis",
		"resume_chars", len(contents[0]),
		"job_chars", len(contents[1]),
		"language", cmdConfig.Language,
		"output_format", cmdConfig.OutputFormat)

	result, err := analyze(ctx, contents[0], contents[1], cmdConfig.Language)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
