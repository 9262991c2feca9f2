package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/houtini-ai/brevo-mcp/internal/app"
	"github.com/houtini-ai/brevo-mcp/internal/config"
	"github.com/houtini-ai/brevo-mcp/internal/tools"
)

var (
	cfgFile   string
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brevo-mcp",
	Short: "Brevo MCP server",
	Long:  `Model Context Protocol server exposing the Brevo email platform as tools.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long:  `Start the MCP server. The protocol runs on stdin/stdout; logs go to stderr.`,
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	RunE:  runConfigValidate,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalogue as JSON",
	RunE:  runTools,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brevo-mcp version %s\n", version)
		if commit != "unknown" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if buildTime != "unknown" {
			fmt.Printf("  built:  %s\n", buildTime)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional, environment variables suffice)")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(serveCmd, configCmd, toolsCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.New(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return application.Run(context.Background())
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	fmt.Printf("Configuration is valid\n")
	fmt.Printf("  Base URL: %s\n", cfg.Brevo.BaseURL)
	fmt.Printf("  Timeout:  %s\n", cfg.Brevo.RequestTimeout)
	fmt.Printf("  Metrics:  %v\n", cfg.Metrics.Enabled)

	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	data, err := json.MarshalIndent(tools.Catalogue(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
