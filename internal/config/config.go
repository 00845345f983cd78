package config

// Config holds app configuration
type Config struct {
	// ArchiveFile is the path to the ZIP archive to sanitize in place
	ArchiveFile string `mapstructure:"archive"`

	// DryRun walks and validates the archive without writing anything back
	DryRun bool `mapstructure:"dry_run"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
