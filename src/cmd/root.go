package cmd

import (
	"fmt"
	"os"

	"QuestionnaireAnalysis/src/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	flagData      string
	flagEncoding  string
	flagMaxAbsent int
	flagAge       float64
	flagReport    string
	flagLog       string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "questionnaire",
	Short:         "Clean and summarize questionnaire survey results",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute 由main.main调用
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (json or yaml)")
	f.StringVar(&flagData, "data", "", "questionnaire results JSON file (overrides config)")
	f.StringVar(&flagEncoding, "encoding", "", "charset of the data file (overrides config)")
	f.IntVar(&flagMaxAbsent, "max-absent", 0, "absent answers allowed per subject (overrides config)")
	f.Float64Var(&flagAge, "age-threshold", 0, "age splitting the gender/age groups (overrides config)")
	f.StringVar(&flagReport, "report", "", "xlsx file to render charts into (overrides config)")
	f.StringVar(&flagLog, "log", "", "log file (overrides config)")

	rootCmd.AddCommand(analyzeCmd, watchCmd, scheduleCmd)
}

func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("data") {
		c.DataFile = flagData
	}
	if f.Changed("encoding") {
		c.Encoding = flagEncoding
	}
	if f.Changed("max-absent") {
		c.MaxAbsentPerSubject = flagMaxAbsent
	}
	if f.Changed("age-threshold") {
		c.AgeThreshold = flagAge
	}
	if f.Changed("report") {
		c.ReportPath = flagReport
	}
	if f.Changed("log") {
		c.LogName = flagLog
	}

	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}
