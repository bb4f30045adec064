// dataset.go
package processor

import (
	"errors"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"

	"QuestionnaireAnalysis/src/datasource/file"
	"QuestionnaireAnalysis/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 固定列名
const (
	AgeColumn    = "age"
	GenderColumn = "gender"
	EmailColumn  = "email"
	ScoreColumn  = "score"
	IndexColumn  = "index"
)

// DefaultAgeThreshold 年龄分组的默认界限
const DefaultAgeThreshold = 40.0

var questionPattern = regexp.MustCompile(`^q(\d+)$`)

// Schema 加载时从列名推断出的表结构
type Schema struct {
	Columns   []string
	Questions []string // 按题号排序的问题列
}

// Dataset 问卷数据集
// 状态只有两种: 未加载 -> 已加载，分析操作不修改已加载的表
type Dataset struct {
	source       *file.Source
	ageThreshold float64

	df     dataframe.DataFrame
	schema Schema
	loaded bool
}

// Option 数据集构造选项
type Option func(*Dataset) error

// WithEncoding 指定数据文件字符集
func WithEncoding(name string) Option {
	return func(d *Dataset) error {
		d.source.Encoding = name
		return nil
	}
}

// WithAgeThreshold 指定CorrelateGenderAge使用的年龄界限
func WithAgeThreshold(age float64) Option {
	return func(d *Dataset) error {
		if math.IsNaN(age) {
			return errors.New("age threshold must be a number")
		}
		d.ageThreshold = age
		return nil
	}
}

// New 创建数据集，文件不存在时返回NotFoundError
// 此时并不读取文件内容
func New(path string, opts ...Option) (*Dataset, error) {
	src, err := file.NewSource(path, "")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, err
	}

	d := &Dataset{source: src, ageThreshold: DefaultAgeThreshold}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Path 数据文件路径
func (d *Dataset) Path() string { return d.source.Path }

// Load 读取并解析数据文件，替换之前加载的表
func (d *Dataset) Load() error {
	df, err := d.source.ReadJSON()
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return &NotFoundError{Path: d.source.Path, Err: err}
		case errors.Is(err, file.ErrMalformed):
			return &ParseError{Path: d.source.Path, Err: err}
		}
		return err
	}

	d.df = df
	d.schema = discoverSchema(df.Names())
	d.loaded = true
	return nil
}

// Loaded 是否已成功加载
func (d *Dataset) Loaded() bool { return d.loaded }

// Schema 返回加载时推断的表结构
func (d *Dataset) Schema() (Schema, error) {
	if !d.loaded {
		return Schema{}, &NotLoadedError{Op: "Schema"}
	}
	return Schema{
		Columns:   append([]string(nil), d.schema.Columns...),
		Questions: append([]string(nil), d.schema.Questions...),
	}, nil
}

// Table 返回已加载表的副本
func (d *Dataset) Table() (dataframe.DataFrame, error) {
	if !d.loaded {
		return dataframe.DataFrame{}, &NotLoadedError{Op: "Table"}
	}
	return cloneFrame(d.df), nil
}

// cloneFrame 复制DataFrame，空表直接返回零值
func cloneFrame(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Ncol() == 0 {
		return dataframe.DataFrame{}
	}
	return df.Copy()
}

// Rows 已加载表的行数
func (d *Dataset) Rows() int { return d.df.Nrow() }

func (d *Dataset) check(op string, columns ...string) error {
	if !d.loaded {
		return &NotLoadedError{Op: op}
	}
	for _, col := range columns {
		if !utils.HasColumn(d.df, col) {
			return &MissingColumnError{Column: col}
		}
	}
	return nil
}

// discoverSchema 找出q<数字>形式的问题列
func discoverSchema(names []string) Schema {
	schema := Schema{Columns: append([]string(nil), names...)}
	for _, name := range names {
		if questionPattern.MatchString(name) {
			schema.Questions = append(schema.Questions, name)
		}
	}
	sort.SliceStable(schema.Questions, func(i, j int) bool {
		a, b := questionNumber(schema.Questions[i]), questionNumber(schema.Questions[j])
		if a != b {
			return a < b
		}
		return schema.Questions[i] < schema.Questions[j]
	})
	return schema
}

func questionNumber(name string) int {
	m := questionPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// column 取出一列的数值，present[i]为false表示缺失
func (d *Dataset) column(name string) (values []float64, present []bool) {
	s := d.df.Col(name)
	values = make([]float64, s.Len())
	present = make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			values[i] = math.NaN()
			continue
		}
		v := e.Float()
		values[i] = v
		present[i] = !math.IsNaN(v)
	}
	return values, present
}

// floatSeries 由float64构造Float列，NaN写为缺失
func floatSeries(values []float64, name string) series.Series {
	strs := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			strs[i] = file.NaN
			continue
		}
		strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return series.New(strs, series.Float, name)
}
