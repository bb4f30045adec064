package processor

import (
	"fmt"
	"math"
	"strconv"

	"QuestionnaireAnalysis/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// DefaultMaxAbsentPerSubject 每个受试者默认允许的缺失答案数
const DefaultMaxAbsentPerSubject = 1

// Score 可缺失的uint8得分
type Score struct {
	Value uint8
	Valid bool
}

func (s Score) String() string {
	if !s.Valid {
		return "<NA>"
	}
	return strconv.Itoa(int(s.Value))
}

// Scored 带score列的表副本
type Scored struct {
	Frame  dataframe.DataFrame
	Scores []Score
}

// ScoreSubjects 计算每个受试者答案均值的向下取整作为得分
// 缺失答案数超过maxAbsentPerSubject或没有任何答案时得分缺失
func (d *Dataset) ScoreSubjects(maxAbsentPerSubject int) (Scored, error) {
	if err := d.check("ScoreSubjects"); err != nil {
		return Scored{}, err
	}
	if maxAbsentPerSubject < 0 {
		return Scored{}, fmt.Errorf("%w: %d", ErrInvalidThreshold, maxAbsentPerSubject)
	}

	nrow := d.df.Nrow()
	answers := make([][]float64, nrow)
	absent := make([]int, nrow)
	for _, q := range d.schema.Questions {
		values, present := d.column(q)
		for i, v := range values {
			if present[i] {
				answers[i] = append(answers[i], v)
			} else {
				absent[i]++
			}
		}
	}

	scores := make([]Score, nrow)
	cells := make([]string, nrow)
	for i := range scores {
		cells[i] = file.NaN
		if absent[i] > maxAbsentPerSubject || len(answers[i]) == 0 {
			continue
		}
		score, err := toScore(stat.Mean(answers[i], nil))
		if err != nil {
			return Scored{}, fmt.Errorf("row %d: %w", i, err)
		}
		scores[i] = score
		cells[i] = score.String()
	}

	frame := cloneFrame(d.df)
	if frame.Ncol() == 0 {
		frame = dataframe.New(series.New(cells, series.Int, ScoreColumn))
	} else {
		frame = frame.Mutate(series.New(cells, series.Int, ScoreColumn))
	}
	if frame.Err != nil {
		return Scored{}, fmt.Errorf("add score column: %w", frame.Err)
	}
	return Scored{Frame: frame, Scores: scores}, nil
}

// toScore 向下取整并检查范围，不依赖类型转换截断
func toScore(mean float64) (Score, error) {
	v := math.Floor(mean)
	if math.IsNaN(v) || v < 0 || v > math.MaxUint8 {
		return Score{}, fmt.Errorf("%w: %v", ErrScoreOutOfRange, mean)
	}
	return Score{Value: uint8(v), Valid: true}, nil
}
