package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tempohub/tempohub-service/internal/config"
	"github.com/tempohub/tempohub-service/internal/generator"
	"github.com/tempohub/tempohub-service/internal/logger"
)

func newGenerateCmd() *cobra.Command {
	var title, eventContext string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an event description, tags and cover image",
		Long: `Ask the configured Gemini models for event details.

Without an API key, or when generation fails, the fallback details are
printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// stdout carries the result, so diagnostics go to stderr.
			log := zap.New(zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(cmd.ErrOrStderr()),
				logger.ParseLevel(cfg.LogLevel),
			))
			defer log.Sync()

			gen := generator.New(cmd.Context(), generator.Config{
				APIKey:     cfg.Gemini.APIKey,
				TextModel:  cfg.Gemini.TextModel,
				ImageModel: cfg.Gemini.ImageModel,
			}, log)

			return printGeneration(cmd, gen, title, eventContext)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "event title")
	cmd.Flags().StringVarP(&eventContext, "context", "c", "", "optional notes for the generator")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func printGeneration(cmd *cobra.Command, gen *generator.Generator, title, eventContext string) error {
	result := gen.Generate(cmd.Context(), title, eventContext)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
