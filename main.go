package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/areibman/vibeshift/config"
	"github.com/areibman/vibeshift/generator"
	"github.com/areibman/vibeshift/logging"
	"github.com/areibman/vibeshift/registry"
	"github.com/areibman/vibeshift/report"
	"github.com/areibman/vibeshift/validator"
)

// errReported means the failure was already shown to the user.
var errReported = errors.New("generation failed")

var (
	configPath   string
	verbose      bool
	provider     string
	maxAttempts  int
	registryMode string
	reportDir    string
	flagReq      generator.Request
)

var rootCmd = &cobra.Command{
	Use:   "vibeshift",
	Short: "Generate a VibeWare microgame with an LLM",
	Long: `vibeshift asks a language model to write a new microgame scene, registers it
in src/scenes/microgames/registry.ts and runs the project's validator. When
validation fails the errors are fed back to the model and it tries again.

Fields not given as flags are asked for interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath, "path to config file (.json, .yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logs on stderr")
	pf.StringVar(&provider, "provider", "", "llm provider: openai, gemini, ollama, mock (default: from model)")

	f := rootCmd.Flags()
	f.StringVar(&flagReq.Name, "name", "", "game class name, e.g. ClickGame")
	f.StringVar(&flagReq.Prompt, "prompt", "", "player prompt, e.g. CLICK!")
	f.StringVar(&flagReq.Description, "description", "", "game description")
	f.StringVar(&flagReq.Controls, "controls", "", "controls, e.g. \"Mouse: Click on targets\"")
	f.StringVar(&flagReq.Concept, "concept", "", "detailed game concept")
	f.StringVar(&flagReq.Model, "model", "", "model identifier (default from config)")
	f.IntVar(&maxAttempts, "max-attempts", 0, "maximum generation attempts (default from config)")
	f.StringVar(&registryMode, "registry-mode", "", "accumulate or replace earlier registry lines on retry")
	f.StringVar(&reportDir, "report", "", "directory for an HTML run report")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig merges flags over the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.Log.Verbose = true
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if f := cmd.Flags().Lookup("max-attempts"); f != nil && f.Changed {
		cfg.MaxAttempts = maxAttempts
	}
	if f := cmd.Flags().Lookup("registry-mode"); f != nil && f.Changed {
		cfg.RegistryMode = registryMode
	}
	if reportDir != "" {
		cfg.Report.Dir = reportDir
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "VibeWare Microgame Generator")
	fmt.Fprintln(out, "========================================")
	if !config.HasCredentialEnv() {
		printCredentialWarning(out)
	}

	req, err := collectRequest(newAsker(cmd.InOrStdin(), out), flagReq, cfg.LLM.Model)
	if err != nil {
		return err
	}
	logger.Info("request collected", zap.String("game", req.Name), zap.String("model", req.Model))

	llm, err := buildLLM(cfg, req.Model)
	if err != nil {
		if generator.IsCredentialError(err) {
			fmt.Fprintf(out, "Error: %v\n", err)
			printCredentialTip(out)
			return errReported
		}
		return err
	}
	orch, err := newOrchestrator(cfg, llm, logger, out)
	if err != nil {
		return err
	}

	run, err := orch.Run(context.Background(), req)
	if run != nil && cfg.Report.Dir != "" {
		if path, rerr := report.Write(cfg.Report.Dir, run); rerr != nil {
			logger.Warn("report not written", zap.Error(rerr))
		} else {
			fmt.Fprintf(out, "Report written to %s\n", path)
		}
	}
	if err != nil {
		if run == nil {
			return err
		}
		if errors.Is(err, generator.ErrCredential) {
			printCredentialTip(out)
		}
		return errReported
	}

	fmt.Fprintln(out, "\nYou can now test your game by running: npm run dev")
	fmt.Fprintln(out, "   Then press 'D' on the title screen to access the debug menu")
	return nil
}

func buildLLM(cfg config.Config, model string) (generator.LLMClient, error) {
	p := cfg.LLM.Provider
	if p == "" {
		p = generator.ProviderForModel(model)
	}
	return generator.NewLLM(llmSettings(cfg, p, model))
}

func llmSettings(cfg config.Config, provider, model string) *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider:    provider,
		Model:       model,
		APIKey:      cfg.LLM.ResolveAPIKey(provider),
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}

func newOrchestrator(cfg config.Config, llm generator.LLMClient, logger *zap.Logger, out io.Writer) (*generator.Orchestrator, error) {
	mode, err := registry.ParseMode(cfg.RegistryMode)
	if err != nil {
		return nil, err
	}
	bundle := generator.LoadContextBundle(cfg.ProjectDir, generator.DefaultContextFiles, logger)
	return generator.NewOrchestrator(generator.Deps{
		LLM:       llm,
		Artifacts: generator.FileArtifacts{Dir: cfg.MicrogamesDir(), Ext: ".ts"},
		Registry:  &registry.File{Path: cfg.RegistryPath(), Mode: mode, Logger: logger},
		Validator: &validator.Command{
			Name:   cfg.Validator.Command,
			Args:   cfg.Validator.Args,
			Dir:    cfg.ProjectDir,
			Logger: logger,
		},
		Bundle: bundle,
	}, generator.Options{
		MaxAttempts: cfg.MaxAttempts,
		Logger:      logger,
		Out:         out,
	})
}

func printCredentialWarning(out io.Writer) {
	fmt.Fprintln(out, "\nWarning: No API key found in environment variables.")
	fmt.Fprintln(out, "Set one of the following:")
	for _, name := range config.CredentialEnvVars {
		fmt.Fprintf(out, "  export %s='your-key-here'\n", name)
	}
	fmt.Fprintln(out, "\nOr you can set a custom model that doesn't require these keys.")
}

func printCredentialTip(out io.Writer) {
	fmt.Fprintln(out, "\nTip: Make sure you have set your API key as an environment variable:")
	fmt.Fprintln(out, "   export OPENAI_API_KEY='your-key-here'")
}
