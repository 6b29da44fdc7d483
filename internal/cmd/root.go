package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFmt    string
	levelFilter  string
	moduleFilter string
	searchText   string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "autopilotlogviewer",
	Short: "Autopilot Log Viewer — inspect and filter deployment logs",
	Long: `Autopilot Log Viewer reads log files written in the Standard or CMTrace
line encoding, auto-detects the format, and presents the records through
level, module, and free-text filters — in the terminal or over a local
web dashboard.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.autopilotlogviewer.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVarP(&levelFilter, "level", "l", "", "show only these levels (comma-separated, e.g. Error,Warning)")
	rootCmd.PersistentFlags().StringVarP(&moduleFilter, "module", "m", "", "show only these modules (comma-separated)")
	rootCmd.PersistentFlags().StringVarP(&searchText, "search", "s", "", "free-text search across message, module, and context")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".autopilotlogviewer")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
