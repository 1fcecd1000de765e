package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/areibman/vibeshift/config"
	"github.com/areibman/vibeshift/generator"
	"github.com/areibman/vibeshift/logging"
	"github.com/areibman/vibeshift/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation HTTP API",
	Long: `Starts an HTTP server exposing:

  POST /api/generations              run one generation (JSON request body)
  GET  /api/generations/{id}         fetch a finished run
  GET  /api/generations/{id}/report  HTML report for a run

Generations run one at a time because they all patch the same registry file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "http listen address (overrides config server_addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	llm, err := newLLMRouter(cfg)
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(cfg, llm, logger, nil)
	if err != nil {
		return err
	}
	srv, err := server.New(orch, server.Options{DefaultModel: cfg.LLM.Model, Logger: logger})
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if serveAddr != "" {
		listen = serveAddr
	}
	logger.Info("starting web server", zap.String("addr", listen))
	fmt.Fprintf(cmd.OutOrStdout(), "Starting web server on %s\n", listen)
	return http.ListenAndServe(listen, srv.Routes())
}

// newLLMRouter builds backends lazily, so each request's model reaches its own
// provider. A configured llm.provider pins every request to that provider.
func newLLMRouter(cfg config.Config) (*generator.LLMRouter, error) {
	return generator.NewLLMRouter(cfg.LLM.Provider, func(provider string) (generator.LLMClient, error) {
		return generator.NewLLM(llmSettings(cfg, provider, cfg.LLM.Model))
	})
}
