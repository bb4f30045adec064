package processor

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Imputed 填补缺失答案后的问题列
type Imputed struct {
	Frame  dataframe.DataFrame // 只包含问题列
	Means  map[string]float64  // 每列非缺失值的均值
	NARows []int               // 原表中至少有一个缺失答案的行号，升序
}

// ImputeQuestionMeans 用每个问题列的均值替换该列的缺失值
// 整列缺失时均值为NaN，填补后仍为缺失
func (d *Dataset) ImputeQuestionMeans() (Imputed, error) {
	if err := d.check("ImputeQuestionMeans"); err != nil {
		return Imputed{}, err
	}

	out := Imputed{Means: make(map[string]float64), NARows: []int{}}
	missing := make([]bool, d.df.Nrow())
	cols := make([]series.Series, 0, len(d.schema.Questions))

	for _, q := range d.schema.Questions {
		values, present := d.column(q)
		mean := stat.Mean(presentValues(values, present), nil)
		out.Means[q] = mean

		filled := make([]float64, len(values))
		for i, v := range values {
			if present[i] {
				filled[i] = v
				continue
			}
			missing[i] = true
			filled[i] = mean
		}
		cols = append(cols, floatSeries(filled, q))
	}

	for i, m := range missing {
		if m {
			out.NARows = append(out.NARows, i)
		}
	}
	if len(cols) > 0 {
		out.Frame = dataframe.New(cols...)
	}
	return out, nil
}

func presentValues(values []float64, present []bool) []float64 {
	out := make([]float64, 0, len(values))
	for i, v := range values {
		if present[i] {
			out = append(out, v)
		}
	}
	return out
}
