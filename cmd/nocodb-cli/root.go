package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/internal/logger"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/config"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/nocodb"
)

// cliContext carries the components shared by every subcommand.
type cliContext struct {
	cfg    *config.Config
	client *nocodb.Client
	files  *nocodb.FileManager

	// stopMetrics shuts down the metrics server started in the
	// persistent pre-run hook. Nil when metrics are disabled.
	stopMetrics func()
}

func newRootCommand() *cobra.Command {
	var configPath string
	cli := &cliContext{}

	root := &cobra.Command{
		Use:   "nocodb-cli",
		Short: "Command line interface for NocoDB tables and attachments",
		Long: `nocodb-cli talks to the NocoDB v2 REST API: record CRUD, attachment
upload and download, and schema inspection.

Connection settings come from a config file (default:
` + config.GetDefaultConfigPath() + `) or NOCODB_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// "init" must work without a loadable config.
			if cmd.Name() == "init" {
				return nil
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if _, err := config.InitializeLogging(cfg); err != nil {
				return err
			}

			m := config.InitializeMetrics(cfg)
			if m.Server != nil {
				serverCtx, cancel := context.WithCancel(context.Background())
				done := make(chan error, 1)
				go func() { done <- m.Server.Start(serverCtx) }()
				cli.stopMetrics = func() {
					cancel()
					if err := <-done; err != nil {
						logger.Error("Metrics server error: %v", err)
					}
				}
			}

			cli.cfg = cfg
			cli.client = config.NewClient(cfg, m.Client)
			cli.files = config.NewFileManager(cfg, cli.client)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cli.stopMetrics != nil {
				cli.stopMetrics()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(
		newInitCommand(),
		newRecordsCommand(cli),
		newFilesCommand(cli),
		newTablesCommand(cli),
	)
	return root
}

// newInitCommand writes a starter config file to the default location.
func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetDefaultConfigPath()
			if config.ConfigExists() && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(config.GetConfigDir(), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			cfg := config.GetDefaultConfig()
			content := fmt.Sprintf(`connection:
  base_url: %s
  api_token: %s
  timeout: %s

logging:
  level: %s
  format: %s
  output: %s

cache:
  enabled: false
  type: %s
  ttl: %s
`,
				cfg.Connection.BaseURL, cfg.Connection.APIToken, cfg.Connection.Timeout,
				cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output,
				cfg.Cache.Type, cfg.Cache.TTL)

			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			logger.Info("Wrote starter config to %s", path)
			fmt.Printf("Config written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
