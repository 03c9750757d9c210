package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datacanary/datacanary/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "datacanary",
	Short: "Data quality checks for tabular files",
	Long: `DataCanary assesses the quality of tabular datasets: per-column
statistics, configurable quality rules, a weighted health score, and a
plain-text report`,
}

func Execute() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.datacanary.yaml)")
}

// initConfig layers defaults < config file < DATACANARY_* environment.
func initConfig() {
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("null_threshold", 5.0)
	viper.SetDefault("unique_threshold", 90.0)
	viper.SetDefault("range_min", 0.0)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".datacanary")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("DATACANARY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: failed to read config: %v\n", err)
		}
	}
}

func newLogger() *logging.Logger {
	return logging.New(logging.ParseLevel(viper.GetString("log_level")))
}
