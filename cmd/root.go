package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jd-matcher"
)

type Config struct {
	JobDescription string         `mapstructure:"job-description"`
	Candidates     string         `mapstructure:"candidates"`
	ExcludeFile    string         `mapstructure:"exclude-file"`
	Filters        *FiltersConfig `mapstructure:"filters"`
	AI             *AIConfig      `mapstructure:"ai"`
}

type FiltersConfig struct {
	MinimumScore int `mapstructure:"minimum-score" validate:"gte=0,lte=100"`
	Top          int `mapstructure:"top" validate:"gte=0"`
	// StrictSkills drops every candidate missing a required skill.
	StrictSkills bool `mapstructure:"strict-skills"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	APIKey       string `mapstructure:"api-key"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jd-matcher ranks candidate profiles against a job description",
	}

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jd-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("job-description", "", "a text file with the job description")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("job-description", rootCmd.PersistentFlags().Lookup("job-description"))
}

func initConfig() {
	// Only the match command reads the config file.
	if matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Flags may carry everything when there is no default config file.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	normalizeConfig(config)

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func normalizeConfig(config *Config) {
	config.JobDescription = strings.TrimSpace(config.JobDescription)
	config.Candidates = strings.TrimSpace(config.Candidates)
	config.ExcludeFile = strings.TrimSpace(config.ExcludeFile)

	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}

	if config.AI != nil {
		config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
		if config.AI.Gemini == nil {
			config.AI.Gemini = &GeminiConfig{}
		}
	}
}
