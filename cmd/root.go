package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vcePortalApi/internal/config"
	"vcePortalApi/internal/logging"
)

var (
	flagConfig string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:          "vceportal",
	Short:        "VCE student portal API",
	Long:         "Serve the college ERP to the student SPA, and plan attendance against a target percentage.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		config.LoadEnv()
		c, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = c
		log = logging.New(c.Log.Level, c.Log.Format, cmd.ErrOrStderr())
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $HOME/.vceportal/config.yaml or ./config.yaml)")
}
