package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KittyHawkCorp/stripzip/internal/config"
	"github.com/KittyHawkCorp/stripzip/internal/logging"
	"github.com/KittyHawkCorp/stripzip/internal/sanitizer"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stripzip <archive.zip>",
	Short: "Strip timestamps and UID/GID metadata from a ZIP archive in place",
	Long: `stripzip rewrites a ZIP archive in place, zeroing every modification
time/date field and blanking the extended-timestamp and Unix UID/GID
extra-field records. Compressed data, filenames, checksums, and file
length are left untouched. Archives with extra-field records it does not
recognize are refused rather than guessed at.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stdout and file)")
	rootCmd.Flags().BoolP("dry-run", "n", false, "walk and validate the archive without writing anything back")

	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log_output_dir", rootCmd.Flags().Lookup("log-output-dir"))
	viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "stripzip"))
		}
		viper.AddConfigPath("/etc/stripzip")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("STRIPZIP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// run sanitizes the archive given as the positional argument
func run(cmd *cobra.Command, args []string) error {
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg.ArchiveFile = args[0]

	if err := logging.Setup(cfg.LogLevel, cfg.LogOutputDir); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	slog.Info("sanitizing archive", "archive", cfg.ArchiveFile, "dry_run", cfg.DryRun)

	mode := os.O_RDWR
	if cfg.DryRun {
		mode = os.O_RDONLY
	}
	file, err := os.OpenFile(cfg.ArchiveFile, mode, 0)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	if _, err := sanitizer.New(file, info.Size(), cfg).Run(); err != nil {
		return fmt.Errorf("failed to sanitize %s: %w", cfg.ArchiveFile, err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
