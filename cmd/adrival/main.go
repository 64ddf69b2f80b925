package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marden/adrival/internal/app"
	"github.com/marden/adrival/internal/config"
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
	Use:   "adrival",
	Short: "AdRival - competitor ad campaign generator",
	Long:  `AdRival generates competitor-targeted ad campaigns and dispatches them over SMS and email.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and background worker",
	RunE:  runServe,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker only",
	Long:  `Start only the job worker, for deployments that scale dispatch separately from the API.`,
	RunE:  runWorker,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("adrival version %s\n", version)
		if commit != "unknown" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if buildTime != "unknown" {
			fmt.Printf("  built:  %s\n", buildTime)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, configCmd, versionCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("config file is required (use -c flag)")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cfg, app.Options{API: true, Worker: true})
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return application.Run(context.Background())
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Worker.Enabled {
		return fmt.Errorf("worker is disabled in configuration")
	}

	application, err := app.New(cfg, app.Options{Worker: true})
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return application.Run(context.Background())
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return app.Migrate(cfg)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Printf("Configuration is valid\n")
	fmt.Printf("  API:    %s\n", cfg.Server.ListenAddr)
	fmt.Printf("  AI:     %v\n", cfg.AIConfigured())
	fmt.Printf("  SMS:    %v\n", cfg.SMSConfigured())
	fmt.Printf("  Email:  %v\n", cfg.EmailConfigured())
	fmt.Printf("  Worker: %v\n", cfg.Worker.Enabled)
	fmt.Printf("  Cache:  %v\n", cfg.Redis.Enabled)

	return nil
}
