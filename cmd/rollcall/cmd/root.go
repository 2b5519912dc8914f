// Package cmd implements the rollcall command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eventstack/rollcall"
	"github.com/eventstack/rollcall/pkg/constants"
	"github.com/eventstack/rollcall/pkg/logging"
)

var (
	configFile string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Participant batch reconciliation service",
	Long: `Rollcall reconciles batches of participant records into a durable
keyed store: each incoming record is matched against existing records
(by participantId, then by the name/email composite key), classified as
a creation, an unchanged duplicate, or an update, and persisted.

Batches can be submitted over HTTP (rollcall serve) or from files on
disk (rollcall apply).`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.rollcall.yaml)")
	rootCmd.PersistentFlags().String("data", constants.DefaultStorePath, "path of the participant store file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "auto", "log format (auto, console, json)")

	if err := viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data")); err != nil {
		panic(fmt.Sprintf("Failed to bind data flag: %v", err))
	}
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(fmt.Sprintf("Failed to bind log-level flag: %v", err))
	}
	if err := viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		panic(fmt.Sprintf("Failed to bind log-format flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rollcall")
	}

	// Load .env before Viper env binding so both see the same values
	_ = godotenv.Load()

	viper.SetEnvPrefix("ROLLCALL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Config file is optional
	_ = viper.ReadInConfig()
}

// setupCommand applies global configuration before any subcommand runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", viper.GetString("log-level"), err)
	}
	zerolog.SetGlobalLevel(level)

	switch format := viper.GetString("log-format"); format {
	case "console":
		logging.SetDefault(logging.NewConsole())
	case "json":
		logging.SetDefault(logging.NewJSON(nil))
	case "auto", "":
		// Keep the terminal-detecting default.
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

// newRollcall opens the engine over the configured store path.
func newRollcall() (rollcall.Rollcall, error) {
	return rollcall.New(
		rollcall.WithPath(viper.GetString("data")),
		rollcall.WithLogger(logging.Default()),
	)
}
