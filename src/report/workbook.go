package report

import (
	"fmt"

	"QuestionnaireAnalysis/src/processor"
	"QuestionnaireAnalysis/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const (
	AgeSheet       = "age_distribution"
	GenderAgeSheet = "gender_age"

	defaultSheet = "Sheet1"
	chartCell    = "H2"
)

// Workbook 将直方图和分组柱状图渲染到xlsx文件
type Workbook struct {
	path  string
	runID string
	f     *excelize.File
}

func NewWorkbook(path, runID string) *Workbook {
	return &Workbook{
		path:  path,
		runID: runID,
		f:     excelize.NewFile(),
	}
}

// AgeDistribution 写入年龄分布表并添加柱状图
func (w *Workbook) AgeDistribution(h processor.AgeHistogram) error {
	n := len(h.Counts)
	labels := make([]string, n)
	starts := make([]float64, n)
	ends := make([]float64, n)
	for i := 0; i < n; i++ {
		starts[i], ends[i] = h.Edges[i], h.Edges[i+1]
		labels[i] = fmt.Sprintf("%g-%g", starts[i], ends[i])
	}
	df := dataframe.New(
		series.New(labels, series.String, "bin"),
		series.New(starts, series.Float, "bin_start"),
		series.New(ends, series.Float, "bin_end"),
		series.New(h.Counts, series.Int, "count"),
	)

	rows, err := w.sheet(AgeSheet, df)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	return w.f.AddChart(AgeSheet, chartCell, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$D$1", AgeSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", AgeSheet, rows+1),
			Values:     fmt.Sprintf("%s!$D$2:$D$%d", AgeSheet, rows+1),
		}},
		Title: []excelize.RichTextRun{{Text: "age distribution of the participants"}},
	})
}

// GenderAge 写入分组均值表，每个问题列一组柱子
func (w *Workbook) GenderAge(s processor.GenderAgeSummary) error {
	labels := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		labels[i] = fmt.Sprintf("%s, age > %g: %t", g.Key.Gender, s.AgeThreshold, g.Key.AboveAge)
	}
	df := dataframe.New(series.New(labels, series.String, "group"))
	if s.Frame.Ncol() > 0 {
		df = df.CBind(s.Frame)
	}

	rows, err := w.sheet(GenderAgeSheet, df)
	if err != nil {
		return err
	}
	if rows == 0 || len(s.Questions) == 0 {
		return nil
	}

	// 列: group, gender, above, 问题列...
	const firstQuestionCol = 4
	chart := &excelize.Chart{
		Type:  excelize.Col,
		Title: []excelize.RichTextRun{{Text: "mean answer by gender and age"}},
	}
	for j := range s.Questions {
		col, err := excelize.ColumnNumberToName(firstQuestionCol + j)
		if err != nil {
			return err
		}
		chart.Series = append(chart.Series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", GenderAgeSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", GenderAgeSheet, rows+1),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", GenderAgeSheet, col, col, rows+1),
		})
	}
	return w.f.AddChart(GenderAgeSheet, chartCell, chart)
}

func (w *Workbook) sheet(name string, df dataframe.DataFrame) (int, error) {
	if df.Err != nil {
		return 0, fmt.Errorf("%s: %w", name, df.Err)
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return 0, fmt.Errorf("创建工作表%s失败: %w", name, err)
	}
	return utils.WriteSheet(w.f, name, df)
}

// Save 删除默认工作表并保存文件
func (w *Workbook) Save() error {
	defer w.f.Close()

	if len(w.f.GetSheetList()) > 1 {
		if err := w.f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("删除默认工作表失败: %w", err)
		}
		w.f.SetActiveSheet(0)
	}
	if err := w.f.SetDocProps(&excelize.DocProperties{
		Title:      "questionnaire analysis",
		Identifier: w.runID,
	}); err != nil {
		return err
	}

	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}
