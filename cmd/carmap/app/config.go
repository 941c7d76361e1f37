package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Dataset
	DataDir            string
	ReadmePath         string
	FromYear           int
	ToYear             int
	ClassificationFile string

	// vPIC client
	VPICBaseURL string
	HTTPTimeout time.Duration
	MaxRetries  int

	// Sinks
	SQLitePath    string
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string

	// Events
	NATSURL           string
	NATSSubjectPrefix string

	// Logging configuration. LogLevel is the --log-level flag, EnvLogLevel is LOG_LEVEL.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (--config, or .carmap.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".carmap")
	}

	// A missing or unreadable default config is ignored, an explicit one must load
	if err := v.ReadInConfig(); err != nil && configFile != "" {
		return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:            v.GetString("data_dir"),
		ReadmePath:         v.GetString("readme_path"),
		FromYear:           v.GetInt("from_year"),
		ToYear:             v.GetInt("to_year"),
		ClassificationFile: v.GetString("classification_file"),

		VPICBaseURL: v.GetString("vpic_base_url"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		MaxRetries:  v.GetInt("max_retries"),

		SQLitePath:    v.GetString("sqlite_path"),
		Neo4jURI:      v.GetString("neo4j_uri"),
		Neo4jUsername: v.GetString("neo4j_username"),
		Neo4jPassword: v.GetString("neo4j_password"),

		NATSURL:           v.GetString("nats_url"),
		NATSSubjectPrefix: v.GetString("nats_subject_prefix"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	if config.SQLitePath == "" {
		config.SQLitePath = filepath.Join(config.DataDir, "carmap.db")
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("readme_path", constants.DefaultReadmePath)
	v.SetDefault("from_year", constants.FirstModelYear)
	v.SetDefault("to_year", time.Now().Year()+constants.FutureModelYears)
	v.SetDefault("vpic_base_url", constants.VPICBaseURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("max_retries", constants.MaxRetries)
	v.SetDefault("nats_subject_prefix", constants.DefaultSubjectPrefix)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over the config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded last but godotenv never overrides, so it only fills gaps.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
