package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrijr/blockflow/internal/config"
	"github.com/petrijr/blockflow/internal/logging"
)

// globals are the persistent flags and the config they resolve to.
type globals struct {
	configPath  string
	catalogPath string
	logLevel    string
	logFormat   string
	debug       bool
	plain       bool

	cfg *config.Config
}

func main() {
	if err := logging.Configure(logging.Options{Level: logging.LevelWarn}); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "blockflow",
		Short:         "Assemble and simulate laboratory step sequences",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if g.catalogPath != "" {
				cfg.CatalogPath = g.catalogPath
			}
			if g.logLevel != "" {
				cfg.LogLevel = g.logLevel
			}
			if g.logFormat != "" {
				cfg.LogFormat = g.logFormat
			}
			if g.debug {
				cfg.LogLevel = logging.LevelDebug
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := logging.Configure(logging.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Output: cmd.ErrOrStderr(),
			}); err != nil {
				return err
			}
			configureColor(g.plain)

			g.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/blockflow/config.yaml)")
	root.PersistentFlags().StringVar(&g.catalogPath, "catalog", "", "YAML palette replacing the built-in one")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: text, json")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&g.plain, "plain", false, "Disable colors and in-place redraws")

	root.AddCommand(catalogCmd(g))
	root.AddCommand(simulateCmd(g))
	return root
}
