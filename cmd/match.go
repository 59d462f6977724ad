package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/ai/gemini"
	"github.com/spigell/jd-matcher/internal/candidates"
	"github.com/spigell/jd-matcher/internal/filtering"
	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/matching"
	"github.com/spigell/jd-matcher/internal/secrets"
	"github.com/spigell/jd-matcher/internal/shortlist"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptReportByRole        = "Report by role"
	PromptShortlistToFile     = "Dump shortlist to file"
	PromptAppendToExcludeFile = "Append shortlist to exclude file"
	PromptExit                = "Exit"

	excludeReason = "shortlisted"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score candidates against a job description and build a shortlist",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("candidates", "", "a JSON or YAML file with candidate profiles")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking without interactive prompts")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	matchCmd.Flags().Int("top", 0, "keep only the N best candidates (0 keeps everyone)")
	matchCmd.Flags().Int("minimum-score", 0, "drop candidates scoring below this percentage")

	viper.BindPFlag("candidates", matchCmd.Flags().Lookup("candidates"))
	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.top", matchCmd.Flags().Lookup("top"))
	viper.BindPFlag("filters.minimum-score", matchCmd.Flags().Lookup("minimum-score"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer base.Sync()

	logger := logger.WithRunID(base, uuid.NewString())

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jd-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	jd, err := readJobDescription(config.JobDescription)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err),
			zap.String("hint", "set --job-description or the 'job-description' key in the configuration file"),
		)
	}

	if config.Candidates == "" {
		logger.Fatal("candidates file is required",
			zap.String("hint", "set --candidates or the 'candidates' key in the configuration file"),
		)
	}

	profiles, err := candidates.Load(config.Candidates)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	logger.Info("loaded candidates", zap.Int("count", len(profiles)), zap.String("path", config.Candidates))

	matcher := newMatcher(ctx, config.AI, logger)

	results, err := matcher.ScoreAll(ctx, jd, profiles)
	if err != nil {
		var inputErr *matching.InputError
		if errors.As(err, &inputErr) {
			logger.Fatal("invalid input", zap.String("field", inputErr.Field), zap.String("reason", inputErr.Message))
		}
		logger.Fatal("scoring candidates", zap.Error(err))
	}

	list := shortlist.New(profiles, results)

	filters := prepareFilters(config, logger)
	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	list, err = filters.RunFilters(ctx, list)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		printRanking(list)
		return
	}

	items := []string{PromptShowRanking, PromptReportByRole, PromptShortlistToFile}
	if config.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	prompt := promptui.Select{
		Label: "What next?",
		Items: append(items, PromptExit),
	}

	for {
		logger.Info("current shortlist", zap.Int("count", list.Len()))

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, list); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, list *shortlist.Shortlist) error {
	switch action {
	case PromptShowRanking:
		printRanking(list)
		return nil
	case PromptReportByRole:
		pretty, _ := json.MarshalIndent(list.ReportByRole(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", list.Len()))
		return nil
	case PromptShortlistToFile:
		filename, err := list.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump shortlist to file: %w", err)
		}
		logger.Info("dumping shortlist to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.ExcludeFile, list)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// appendToExcludeFile records the shortlist so later runs skip it and drops the recorded entries.
func appendToExcludeFile(logger *zap.Logger, path string, list *shortlist.Shortlist) error {
	if path == "" {
		return errors.New("exclude file is not configured")
	}

	excluded, err := shortlist.LoadExcluded(path)
	if err != nil {
		return fmt.Errorf("reading exclude file: %w", err)
	}

	added := list.ToExcluded(excludeReason)
	excluded.Append(added)

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("writing exclude file: %w", err)
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", len(added.Items)))

	list.Exclude(excluded.Emails())
	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "shortlist is empty"))
		return errExit
	}
	return nil
}

func printRanking(list *shortlist.Shortlist) {
	for i, line := range list.Ranking() {
		fmt.Println(line)
		if explanation := list.Items[i].Result.Explanation; explanation != "" {
			fmt.Printf("       %s\n", explanation)
		}
	}
}

func readJobDescription(path string) (string, error) {
	if path == "" {
		return "", errors.New("job description file is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// newMatcher returns the rule engine, guarded by an LLM primary when AI is enabled.
// A primary that cannot be built is logged and skipped.
func newMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ai.Matcher {
	if cfg == nil || !cfg.Enabled {
		logger.Info("AI scoring disabled; using rule-based scoring")
		return ai.NewGuarded(nil, logger)
	}

	primary, err := newGeminiMatcher(ctx, cfg, logger)
	if err != nil {
		logger.Warn("skipping AI scoring", zap.Error(err))
		return ai.NewGuarded(nil, logger)
	}

	return ai.NewGuarded(primary, logger)
}

func newGeminiMatcher(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (*gemini.Matcher, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, baseLogger)
	if err != nil {
		return nil, err
	}

	aiLogger := logger.WithCommonFields(baseLogger, "gemini", generator.Model())

	return gemini.NewMatcher(generator, cfg.Gemini.MaxLogLength, aiLogger), nil
}

func prepareFilters(config *Config, logger *zap.Logger) *filtering.Filtering {
	steps := []filtering.Filter{
		filtering.NewExcludeFile(config.ExcludeFile, logger),
		filtering.NewMinimumScore(config.Filters.MinimumScore),
		filtering.NewRequiredSkills(logger),
		filtering.NewTop(config.Filters.Top),
	}

	f := filtering.New(steps, logger)

	if config.ExcludeFile == "" {
		f.DisableByName("exclude_file", "exclude file is not configured")
	}
	if !config.Filters.StrictSkills {
		f.DisableByName("required_skills", "strict skills mode is off")
	}

	return f
}

// redacted returns a copy of config that is safe to log.
func redacted(config *Config) *Config {
	c := *config
	if c.AI != nil && c.AI.Gemini != nil {
		aiCfg := *c.AI
		gem := *aiCfg.Gemini
		if strings.TrimSpace(gem.APIKey) != "" {
			gem.APIKey = "***"
		}
		aiCfg.Gemini = &gem
		c.AI = &aiCfg
	}
	return &c
}
