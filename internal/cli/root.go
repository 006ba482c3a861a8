package cli

import (
	"os"

	"github.com/spf13/cobra"
	"patent-checker/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command; without a subcommand it serves the API
var rootCmd = &cobra.Command{
	Use:   "patent-checker",
	Short: "Patent infringement assessment service",
	Long: `patent-checker assesses whether a company's products infringe a patent.

It looks up the patent and the company's products in the reference assets,
asks an LLM to assess each product, and reports the products whose cited
claims exceed the likelihood threshold together with a summary.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (overrides "+config.FileEnv+")")
}

// loadConfig reads configuration and sets up logging before any command runs
func loadConfig(cmd *cobra.Command, _ []string) error {
	if cfgFile != "" {
		if err := os.Setenv(config.FileEnv, cfgFile); err != nil {
			return err
		}
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	setupLogging(cfg.Server.Debug)
	return nil
}
