package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-pathfinder/internal/config"
	"github.com/jonathan/career-pathfinder/internal/logging"
	"github.com/jonathan/career-pathfinder/internal/observability"
	"github.com/jonathan/career-pathfinder/internal/telemetry"
	"github.com/jonathan/career-pathfinder/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a career path for a target role",
	Long:  "Run one generation and print the career path, or the profile guidance returned when no answer passes the checks.",
	RunE:  runGenerate,
}

var (
	generateRole    string
	generateRegion  string
	generateUserID  string
	generateAPIKey  string
	generateJSON    bool
	generateVerbose bool
	generateTimeout time.Duration
)

func init() {
	generateCmd.Flags().StringVarP(&generateRole, "role", "r", "", "Target role (required)")
	generateCmd.Flags().StringVar(&generateRegion, "region", "", "Region or market to tailor salaries to")
	generateCmd.Flags().StringVar(&generateUserID, "user", "", "User id used for profile guidance and stored results")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Model API key (overrides llm.api_key)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the result as JSON")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print every attempt")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 0, "Overall timeout (default server.request_timeout)")
	_ = generateCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if generateAPIKey != "" {
		cfg.LLM.APIKey = generateAPIKey
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("API key is required (set CAREERPATH_LLM_API_KEY, GEMINI_API_KEY or use --api-key)")
	}
	// The CLI prints attempts itself; only warnings go to the log.
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "console"

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	timeout := generateTimeout
	if timeout <= 0 {
		timeout = cfg.Server.RequestTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	return generate(ctx, cfg, logger, cmd.OutOrStdout())
}

func generate(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	attempts := &telemetry.MemorySink{}
	a, err := buildApp(ctx, cfg, logger, attempts)
	if err != nil {
		return err
	}

	body, err := json.Marshal(types.GenerationRequest{TargetRole: generateRole, Region: generateRegion})
	if err != nil {
		return err
	}
	result, genErr := a.orchestrator.Generate(ctx, generateUserID, body)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.close(closeCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	if genErr != nil {
		return genErr
	}

	if generateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printer := observability.NewPrinter(out)
	if generateVerbose {
		printer.PrintEvents(attempts.Events())
	}
	printer.PrintResult(result)
	return nil
}
