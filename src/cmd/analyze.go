package cmd

import (
	"fmt"
	"strings"

	"QuestionnaireAnalysis/src/config"
	"QuestionnaireAnalysis/src/processor"
	"QuestionnaireAnalysis/src/report"
	"QuestionnaireAnalysis/src/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Load the results file once and run every analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := storage.NewLogger(cfg.LogName, cfg.LogMaxSize)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Close()

		run, err := runAnalysis(cfg, logger)
		if err != nil {
			return err
		}
		printRun(cmd, run)
		return nil
	},
}

// analysisRun 一次完整分析的结果
type analysisRun struct {
	ID          string
	Rows        int
	Questions   []string
	Histogram   processor.AgeHistogram
	Emails      processor.ValidEmails
	Imputed     processor.Imputed
	Scored      processor.Scored
	Correlation processor.GenderAgeSummary
}

// runAnalysis 构造数据集、加载并依次执行所有分析
// 每次调用都重新读取文件
func runAnalysis(c *config.Config, logger *storage.Logger) (*analysisRun, error) {
	run := &analysisRun{ID: uuid.NewString()}
	logger.Info(fmt.Sprintf("run %s: analyzing %s", run.ID, c.DataFile))

	ds, err := processor.New(c.DataFile,
		processor.WithEncoding(c.Encoding),
		processor.WithAgeThreshold(c.AgeThreshold),
	)
	if err != nil {
		logger.Error(fmt.Sprintf("run %s: %v", run.ID, err))
		return nil, err
	}
	if err := ds.Load(); err != nil {
		logger.Error(fmt.Sprintf("run %s: %v", run.ID, err))
		return nil, err
	}

	schema, err := ds.Schema()
	if err != nil {
		return nil, err
	}
	run.Rows = ds.Rows()
	run.Questions = schema.Questions
	logger.Info(fmt.Sprintf("run %s: %d rows, question columns [%s]",
		run.ID, run.Rows, strings.Join(schema.Questions, ", ")))

	if run.Histogram, err = ds.ComputeAgeHistogram(); err != nil {
		return nil, fail(logger, run.ID, "age histogram", err)
	}
	logger.Info(fmt.Sprintf("run %s: age histogram %v", run.ID, run.Histogram.Counts))

	if run.Emails, err = ds.FilterValidEmails(); err != nil {
		return nil, fail(logger, run.ID, "email filter", err)
	}
	logger.Info(fmt.Sprintf("run %s: %d/%d valid emails", run.ID, run.Emails.Len(), run.Rows))

	if run.Imputed, err = ds.ImputeQuestionMeans(); err != nil {
		return nil, fail(logger, run.ID, "imputation", err)
	}
	logger.Info(fmt.Sprintf("run %s: imputed rows %v", run.ID, run.Imputed.NARows))

	if run.Scored, err = ds.ScoreSubjects(c.MaxAbsentPerSubject); err != nil {
		return nil, fail(logger, run.ID, "scoring", err)
	}
	logger.Info(fmt.Sprintf("run %s: %d subjects scored", run.ID, countValid(run.Scored.Scores)))

	if run.Correlation, err = ds.CorrelateGenderAge(); err != nil {
		return nil, fail(logger, run.ID, "gender/age correlation", err)
	}
	logger.Info(fmt.Sprintf("run %s: %d gender/age groups", run.ID, len(run.Correlation.Groups)))

	if err := present(c, run); err != nil {
		return nil, fail(logger, run.ID, "report", err)
	}
	if c.ReportPath != "" {
		logger.Info(fmt.Sprintf("run %s: report written to %s", run.ID, c.ReportPath))
	}

	if _, err := logger.CheckRotate(); err != nil {
		logger.Warning("log rotation failed: " + err.Error())
	}
	return run, nil
}

func present(c *config.Config, run *analysisRun) error {
	var p report.Presenter = report.NopPresenter{}
	var wb *report.Workbook
	if c.ReportPath != "" {
		wb = report.NewWorkbook(c.ReportPath, run.ID)
		p = wb
	}

	if err := p.AgeDistribution(run.Histogram); err != nil {
		return err
	}
	if err := p.GenderAge(run.Correlation); err != nil {
		return err
	}
	if wb != nil {
		return wb.Save()
	}
	return nil
}

func fail(logger *storage.Logger, id, op string, err error) error {
	logger.Error(fmt.Sprintf("run %s: %s failed: %v", id, op, err))
	return fmt.Errorf("%s: %w", op, err)
}

func countValid(scores []processor.Score) int {
	n := 0
	for _, s := range scores {
		if s.Valid {
			n++
		}
	}
	return n
}

func printRun(cmd *cobra.Command, run *analysisRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d rows\n", run.ID, run.Rows)
	fmt.Fprintf(out, "age histogram: counts=%v edges=%v\n", run.Histogram.Counts, run.Histogram.Edges)
	fmt.Fprintf(out, "valid emails: %d\n", run.Emails.Len())
	fmt.Fprintf(out, "rows with imputed answers: %v\n", run.Imputed.NARows)
	fmt.Fprintf(out, "scores: %v\n", run.Scored.Scores)
	fmt.Fprintln(out, run.Correlation.Frame)
}
