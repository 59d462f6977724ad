package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/matching"
)

var extractCmd = &cobra.Command{
	Use:   "extract [job-description-file]",
	Short: "Print the constraints extracted from a job description as JSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		extract(args)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extract(args []string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	path := viper.GetString("job-description")
	if len(args) == 1 {
		path = args[0]
	}

	jd, err := readJobDescription(path)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	if strings.TrimSpace(jd) == "" {
		logger.Fatal("invalid input", zap.Error(&matching.InputError{Field: "job description", Message: "must not be empty"}))
	}

	constraints := matching.Extract(jd)
	logger.Debug("extracted constraints",
		zap.Int("required_skills", len(constraints.RequiredSkills)),
		zap.Int("mentioned_skills", len(constraints.MentionedSkills)),
		zap.Strings("roles", constraints.RoleKeywords),
	)

	pretty, err := json.MarshalIndent(constraints, "", "  ")
	if err != nil {
		logger.Fatal("encoding constraints", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
