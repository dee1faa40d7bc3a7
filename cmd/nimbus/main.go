// Nimbus is a conversational weather assistant.
//
// It exposes a small HTTP API (plus a websocket) for chat turns, and a
// CLI for one-shot questions. Configuration is loaded from a single
// YAML file discovered automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	nimbus serve             Start the API server
//	nimbus init [dir]        Initialize a working directory with defaults
//	nimbus ask <question>    Ask a single question (for testing)
//	nimbus version           Print version and build information
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimbus-assistant/nimbus/internal/agent"
	"github.com/nimbus-assistant/nimbus/internal/api"
	"github.com/nimbus-assistant/nimbus/internal/buildinfo"
	"github.com/nimbus-assistant/nimbus/internal/config"
	"github.com/nimbus-assistant/nimbus/internal/intent"
	"github.com/nimbus-assistant/nimbus/internal/session"
	"github.com/nimbus-assistant/nimbus/internal/timezone"
	"github.com/nimbus-assistant/nimbus/internal/tools"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

// defaultSessionID is the session the CLI and any client that does not
// manage its own IDs converse under.
const defaultSessionID = "s_00001"

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run]. This keeps
// os.Exit, os.Stdout, and os.Args out of the application logic so that
// the full startup-to-shutdown lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point for the nimbus command. All OS-level
// dependencies are injected as parameters:
//
//   - ctx controls the lifetime of the process. Cancelling it triggers
//     graceful shutdown of the server.
//   - stdout and stderr receive all program output.
//   - args is os.Args[1:]. We parse these manually rather than using
//     the flag package to avoid global state that interferes with
//     parallel tests.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++ // skip the value
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command != "" {
				cmdArgs = append(cmdArgs, args[i])
			} else {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
		}
	}

	switch command {
	case "serve":
		return runServe(ctx, stdout, configPath)
	case "init":
		dir := "."
		if len(cmdArgs) > 0 {
			dir = cmdArgs[0]
		}
		return runInit(stdout, dir)
	case "ask":
		if len(cmdArgs) == 0 {
			return fmt.Errorf("usage: nimbus ask <question>")
		}
		return runAsk(ctx, stdout, configPath, cmdArgs)
	case "version":
		return runVersion(stdout)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runVersion prints build metadata.
func runVersion(w io.Writer) error {
	fmt.Fprintln(w, buildinfo.String())
	for _, k := range []string{"version", "git_commit", "build_time", "go_version", "os", "arch"} {
		if v, ok := buildinfo.Info()[k]; ok {
			fmt.Fprintf(w, "  %-12s %s\n", k+":", v)
		}
	}
	return nil
}

// printUsage writes the top-level help text to w.
func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Nimbus - Conversational Weather Assistant")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: nimbus [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve        Start the API server")
	fmt.Fprintln(w, "  init [dir]   Initialize working directory with defaults (default: .)")
	fmt.Fprintln(w, "  ask          Ask a single question (for testing)")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>    Path to config file (default: auto-discover)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./config.yaml, ~/.config/nimbus/config.yaml, /etc/nimbus/config.yaml")
	return nil
}

// runAsk handles the "nimbus ask <question>" subcommand. It boots the
// assistant without the HTTP server and processes a single question
// against the default session, printing the response to stdout.
func runAsk(ctx context.Context, stdout io.Writer, configPath string, args []string) error {
	logger := newLogger(stdout, slog.LevelWarn)

	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ag := buildAgent(cfg, logger)
	question := strings.Join(args, " ")

	reply := ag.HandleTurn(ctx, question, defaultSessionID)
	fmt.Fprintln(stdout, reply.Response)
	return nil
}

// runServe handles the "nimbus serve" subcommand. It loads config,
// assembles the assistant, starts the API server, and blocks until a
// shutdown signal arrives or the server fails.
func runServe(ctx context.Context, stdout io.Writer, configPath string) error {
	logger := newLogger(stdout, slog.LevelInfo)
	logger.Info("starting Nimbus", "version", buildinfo.Version, "commit", buildinfo.GitCommit)

	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Reconfigure the logger now that the desired level is known.
	if cfg.LogLevel != "" {
		level, err := config.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = newLogger(stdout, level)
	}

	logger.Info("config loaded",
		"path", cfgPath,
		"port", cfg.Listen.Port,
		"classifier", cfg.Classifier.Provider,
	)
	if cfg.Weather.APIKey == "" {
		logger.Warn("no weather API key configured, provider requests will fail")
	}

	ag := buildAgent(cfg, logger)

	// The default session exists from startup so the first turn over
	// any surface lands on warm state.
	ag.Sessions().Get(defaultSessionID)

	server := api.NewServer(cfg.Listen.Address, cfg.Listen.Port, ag, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = server.Shutdown(context.Background())
	}()

	if err := server.Start(ctx); err != nil {
		if ctx.Err() == nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info("Nimbus stopped")
	return nil
}

// loadConfig locates and parses the YAML configuration file. If explicit
// is non-empty, that exact path is used (and must exist). Otherwise,
// [config.FindConfig] searches the default locations. Returns the parsed
// config, the path that was loaded, and any error.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfgPath, err := config.FindConfig(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	return cfg, cfgPath, nil
}

// buildAgent wires the classifier, weather provider, timezone table,
// tool registry and session store into an agent.
func buildAgent(cfg *config.Config, logger *slog.Logger) *agent.Agent {
	provider := weather.NewClient(cfg.Weather.APIKey, logger,
		weather.WithEndpoints(cfg.Weather.GeocodeURL, cfg.Weather.ForecastURL))

	var classifier intent.Classifier
	switch cfg.Classifier.Provider {
	case "ollama":
		classifier = intent.NewOllamaClassifier(cfg.Classifier.OllamaURL, cfg.Classifier.Model, logger)
	default:
		classifier = intent.NewKeywordClassifier()
	}

	registry := tools.NewRegistry(logger, provider, timezone.NewResolver())
	sessions := session.NewManager(logger, session.Defaults{
		City:            cfg.Defaults.City,
		TemperatureUnit: cfg.Defaults.TemperatureUnit,
	})

	return agent.New(logger, classifier, registry, sessions)
}

// newLogger creates a structured text logger writing to w at the given
// level. All log output goes through slog; this helper standardizes the
// handler configuration across subcommands.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
