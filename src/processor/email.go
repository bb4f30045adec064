package processor

import (
	"regexp"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 宽松的邮箱格式: 域名第一段只匹配一个字符
var emailPattern = regexp.MustCompile(`\w+@\w.\w+`)

// ValidEmails 过滤后的邮箱列
// Index为重新编号的0..n-1，Positions为原表中的行号
type ValidEmails struct {
	Index     []int
	Positions []int
	Emails    []string
	Frame     dataframe.DataFrame // 列: index(原行号), email
}

// Len 保留的行数
func (v ValidEmails) Len() int { return len(v.Emails) }

// FilterValidEmails 保留邮箱格式有效的行，只返回email列
func (d *Dataset) FilterValidEmails() (ValidEmails, error) {
	if err := d.check("FilterValidEmails", EmailColumn); err != nil {
		return ValidEmails{}, err
	}

	col := d.df.Col(EmailColumn)
	out := ValidEmails{
		Index:     []int{},
		Positions: []int{},
		Emails:    []string{},
	}
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		email := e.String()
		if !emailPattern.MatchString(email) {
			continue
		}
		out.Index = append(out.Index, len(out.Emails))
		out.Positions = append(out.Positions, i)
		out.Emails = append(out.Emails, email)
	}

	out.Frame = dataframe.New(
		series.New(out.Positions, series.Int, IndexColumn),
		series.New(out.Emails, series.String, EmailColumn),
	)
	return out, nil
}
