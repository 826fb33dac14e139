package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/docindex/internal/config"
	"github.com/Bitlatte/docindex/internal/logging"
	"github.com/Bitlatte/docindex/internal/metrics"
	"github.com/Bitlatte/docindex/internal/site"
)

var cfgFile string
var appConfig config.Config
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "docindex",
	Short: "docindex builds the content indexes of the plugin documentation site",
	Long: `docindex scans the documentation content, writes the JSON listing
artifacts the site's components read, composes the versioned sidebar and
renders documents with their version placeholders resolved.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	// .env is optional
	_ = godotenv.Load()

	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if used != "" {
		logger.Debug("using config file", slog.String("file", used))
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

// newSite builds the site for a command, registering its collectors on reg.
func newSite(reg prometheus.Registerer) (*site.Site, error) {
	return site.New(appConfig, logger, metrics.New(reg))
}
