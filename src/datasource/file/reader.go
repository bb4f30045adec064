// reader.go
package file

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// NaN gota中表示缺失值的字符串
const NaN = "NaN"

// ErrMalformed 文件内容不是扁平JSON记录列表
var ErrMalformed = errors.New("content is not a list of JSON records")

// Source 问卷结果文件
type Source struct {
	Path     string
	Encoding string // 文件字符集，空值或utf-8时不做转换
}

// NewSource 创建数据源，文件必须已经存在
// 参数:
//
//	path: 数据文件路径
//	encoding: 文件字符集名称(如 gbk、gb18030)，可为空
func NewSource(path, encoding string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, os.ErrNotExist)
	}
	return &Source{Path: path, Encoding: encoding}, nil
}

// ReadJSON 读取整个文件并转换为DataFrame
// 数值列为series.Float，其它列为series.String，null记为NaN
func (s *Source) ReadJSON() (dataframe.DataFrame, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	r, err := decodeCharset(bufio.NewReader(f), s.Encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	records, err := decodeRecords(r)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return buildDataFrame(records)
}

// decodeCharset 按配置的字符集将输入转换为UTF-8
func decodeCharset(r io.Reader, name string) (io.Reader, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func decodeRecords(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrMalformed)
	}

	items, ok := top.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %s", ErrMalformed, kindOf(top))
	}

	records := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %s", ErrMalformed, i, kindOf(item))
		}
		for k, v := range rec {
			switch v.(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("%w: item %d field %q is nested", ErrMalformed, i, k)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildDataFrame 按列组装DataFrame，列名按字母排序
func buildDataFrame(records []map[string]any) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return dataframe.DataFrame{}, nil
	}

	columns := make([]series.Series, len(names))
	for i, name := range names {
		values := make([]string, len(records))
		numeric := true
		for j, rec := range records {
			switch v := rec[name].(type) {
			case nil:
				values[j] = NaN
			case json.Number:
				values[j] = v.String()
			default:
				numeric = false
				values[j] = fmt.Sprint(v)
			}
		}
		t := series.String
		if numeric {
			t = series.Float
		}
		columns[i] = series.New(values, t, name)
	}

	df := dataframe.New(columns...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
