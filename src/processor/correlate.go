package processor

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// GroupKey (性别, 是否超过年龄界限)
type GroupKey struct {
	Gender   string
	AboveAge bool
}

func (k GroupKey) String() string {
	return k.Gender + "/" + strconv.FormatBool(k.AboveAge)
}

// GroupMeans 一个分组内各问题列的均值，顺序与GenderAgeSummary.Questions一致
type GroupMeans struct {
	Key   GroupKey
	Size  int
	Means []float64
}

// GenderAgeSummary 按性别和年龄分组的问题均值
type GenderAgeSummary struct {
	AgeThreshold float64
	Questions    []string
	Groups       []GroupMeans
	Frame        dataframe.DataFrame // 列: gender, above_<界限>, 问题列
}

// AboveColumn 分组标志列的列名
func (s GenderAgeSummary) AboveColumn() string {
	return fmt.Sprintf("above_%g", s.AgeThreshold)
}

// CorrelateGenderAge 按(gender, age > 界限)分组求每个问题列的均值
// 年龄缺失视为未超过界限，性别缺失的行不参与分组
// 分组按性别升序、false在前排列
func (d *Dataset) CorrelateGenderAge() (GenderAgeSummary, error) {
	if err := d.check("CorrelateGenderAge", GenderColumn, AgeColumn); err != nil {
		return GenderAgeSummary{}, err
	}

	out := GenderAgeSummary{
		AgeThreshold: d.ageThreshold,
		Questions:    append([]string(nil), d.schema.Questions...),
		Groups:       []GroupMeans{},
	}

	ages, agePresent := d.column(AgeColumn)
	genders := d.df.Col(GenderColumn)

	rows := make(map[GroupKey][]int)
	for i := 0; i < genders.Len(); i++ {
		g := genders.Elem(i)
		if g.IsNA() {
			continue
		}
		key := GroupKey{
			Gender:   g.String(),
			AboveAge: agePresent[i] && ages[i] > d.ageThreshold,
		}
		rows[key] = append(rows[key], i)
	}

	keys := make([]GroupKey, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Gender != keys[j].Gender {
			return keys[i].Gender < keys[j].Gender
		}
		return !keys[i].AboveAge && keys[j].AboveAge
	})

	questions := make([][]float64, len(out.Questions))
	present := make([][]bool, len(out.Questions))
	for j, q := range out.Questions {
		questions[j], present[j] = d.column(q)
	}

	for _, k := range keys {
		group := GroupMeans{Key: k, Size: len(rows[k]), Means: make([]float64, len(out.Questions))}
		for j := range out.Questions {
			vals := make([]float64, 0, len(rows[k]))
			for _, r := range rows[k] {
				if present[j][r] {
					vals = append(vals, questions[j][r])
				}
			}
			group.Means[j] = stat.Mean(vals, nil)
		}
		out.Groups = append(out.Groups, group)
	}

	out.Frame = out.frame()
	return out, nil
}

func (s GenderAgeSummary) frame() dataframe.DataFrame {
	genders := make([]string, len(s.Groups))
	above := make([]bool, len(s.Groups))
	for i, g := range s.Groups {
		genders[i] = g.Key.Gender
		above[i] = g.Key.AboveAge
	}

	cols := []series.Series{
		series.New(genders, series.String, GenderColumn),
		series.New(above, series.Bool, s.AboveColumn()),
	}
	for j, q := range s.Questions {
		means := make([]float64, len(s.Groups))
		for i, g := range s.Groups {
			means[i] = g.Means[j]
		}
		cols = append(cols, floatSeries(means, q))
	}
	return dataframe.New(cols...)
}
