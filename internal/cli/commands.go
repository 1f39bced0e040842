// Package cli implements the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/stocksensei/stocksensei/internal/agents"
	"github.com/stocksensei/stocksensei/internal/config"
	"github.com/stocksensei/stocksensei/internal/dataflows"
	"github.com/stocksensei/stocksensei/internal/debug"
	"github.com/stocksensei/stocksensei/internal/graph"
	"github.com/stocksensei/stocksensei/internal/llm"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/internal/prompts"
	"github.com/stocksensei/stocksensei/internal/server"
	"github.com/stocksensei/stocksensei/internal/storage"
	"github.com/stocksensei/stocksensei/internal/voice"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// Version is stamped by the build.
var Version = "dev"

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stocksensei",
		Short: "Multi-agent NSE stock analysis with voice narration",
		Long: "StockSensei runs four analyst agents over live NSE data to pick,\n" +
			"price and recommend stocks. Without a subcommand it starts the web UI.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newConfigCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [query]",
		Short: "Run one analysis in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				var err error
				if query, err = promptForQuery(); err != nil {
					return err
				}
			}
			return runAnalyze(cmd.Context(), query)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect runtime configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration (secrets redacted)",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				printConfig(cfg)
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check that the required settings are present",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				fmt.Println("configuration OK")
				return nil
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stocksensei %s\n", Version)
		},
	}
}

// bootstrap loads config, sets up logging and wires the supervisor.
func bootstrap(ctx context.Context) (*config.Config, *graph.Supervisor, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	// The devops plugin must be up before the graph compiles.
	if err := debug.Init(ctx, cfg.App.EinoDebug); err != nil {
		return nil, nil, err
	}

	model, err := llm.NewGroqModel(ctx, cfg.Groq)
	if err != nil {
		return nil, nil, err
	}

	collector := dataflows.NewDataFlow(
		cfg.BrightData.APIToken,
		cfg.BrightData.UnlockerZone,
		cfg.Data.CacheDir,
		time.Duration(cfg.Data.CacheTTLMins)*time.Minute,
	)

	synth := voice.NewSynthesizer(cfg.Murf, cfg.Data.ResultsDir)
	if synth.Enabled() {
		logger.Info("voice narration enabled")
	} else {
		logger.Info("voice narration disabled (no MURF_API_KEY)")
	}

	recorder := storage.NewRunRecorder(cfg.Data.ResultsDir)

	supervisor, err := graph.NewSupervisor(ctx, &agents.Deps{Model: model, Data: collector}, synth, recorder)
	if err != nil {
		return nil, nil, err
	}
	return cfg, supervisor, nil
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, supervisor, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := server.New(supervisor, cfg.Data.ResultsDir)
	srv.SetInfo(server.Info{Version: Version, Voice: cfg.VoiceEnabled()})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Server.Addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runAnalyze(ctx context.Context, query string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, supervisor, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	state, err := supervisor.Run(ctx, query, func(m models.AgentMessage) {
		fmt.Println(renderMessage(m))
	})
	if err != nil {
		return err
	}

	fmt.Println(renderVerdict(state))
	return nil
}

// promptForQuery asks interactively, offering the canned queries plus a
// free-form option.
func promptForQuery() (string, error) {
	const custom = "Type my own query"
	options := append(append([]string{}, prompts.QuickQueries...), custom)

	var choice string
	if err := survey.AskOne(&survey.Select{
		Message: "What should the analysts look at?",
		Options: options,
	}, &choice); err != nil {
		return "", err
	}
	if choice != custom {
		return choice, nil
	}

	var query string
	err := survey.AskOne(&survey.Input{Message: "Query:"}, &query,
		survey.WithValidator(survey.Required))
	return strings.TrimSpace(query), err
}

func printConfig(cfg *config.Config) {
	redact := func(s string) string {
		if s == "" {
			return "(unset)"
		}
		return "(set)"
	}
	fmt.Printf("app.env            = %s\n", cfg.App.Env)
	fmt.Printf("app.log_level      = %s\n", cfg.App.LogLevel)
	fmt.Printf("groq.api_key       = %s\n", redact(cfg.Groq.APIKey))
	fmt.Printf("groq.model         = %s\n", cfg.Groq.Model)
	fmt.Printf("brightdata.token   = %s\n", redact(cfg.BrightData.APIToken))
	fmt.Printf("brightdata.zone    = %s\n", cfg.BrightData.UnlockerZone)
	fmt.Printf("murf.api_key       = %s\n", redact(cfg.Murf.APIKey))
	fmt.Printf("server.addr        = %s\n", cfg.Server.Addr)
	fmt.Printf("data.cache_dir     = %s\n", cfg.Data.CacheDir)
	fmt.Printf("data.results_dir   = %s\n", cfg.Data.ResultsDir)
}
