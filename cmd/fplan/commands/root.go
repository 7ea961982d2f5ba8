package commands

import (
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/goblinsan/fplan/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	log     = logger.Discard()
	rootCmd = &cobra.Command{
		Use:   "fplan",
		Short: "A CLI tool to convert plan files into structured project plans",
		Long: `fplan converts a plan folder (plan-header.toml + plan.fplan) into a
JSON or YAML document listing features, tasks, efforts and dependencies.
It can rebuild on every change and export the plan to GitHub issues.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log = newLogger()
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			// Default action when no subcommand is specified
			cmd.Help()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fplan.yaml)")
	rootCmd.PersistentFlags().StringP("source", "i", "", "Input folder holding plan-header.toml and plan.fplan")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().String("token", "", "GitHub personal access token")

	// Bind flags to viper
	for _, name := range []string{"source", "log-level", "log-json", "token"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory with name ".fplan" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fplan")
	}

	// Read in environment variables that match, e.g. FPLAN_LOG_LEVEL
	viper.SetEnvPrefix("FPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() *charmlog.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = viper.GetString("log-level")
	cfg.JSON = viper.GetBool("log-json")
	return logger.New(cfg)
}
