package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/config"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/model"
)

var (
	cfgFile string
	cfg     config.Config

	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "cslogstats",
	Short: "CS server log statistics tool",
	Long: `Parse Counter-Strike server logs and compute cumulative per-round player stats:
kills, deaths, assists, damage, team damage and their per-round rates.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var malformed *model.MalformedLogError
		if errors.As(err, &malformed) {
			fmt.Fprintf(os.Stderr, "cannot score this log: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		closeLog()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.cslogstats/config.yaml)")
	flags.String("db", "", "path to SQLite log library (default $HOME/.cslogstats/logs.db)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default warn)")
	flags.String("log-file", "", "also write logs to this file")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Read(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	closeLog = log.MustCreateLogger(log.Level(cfg.LogLevel), cfg.LogFile)
	return nil
}
