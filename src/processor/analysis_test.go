package processor

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAgeHistogram(t *testing.T) {
	ds := loadResults(t, sampleResults)

	h, err := ds.ComputeAgeHistogram()
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, h.Edges)
	assert.Equal(t, []int{0, 0, 1, 0, 2, 0, 0, 0, 0, 1}, h.Counts)
}

func TestComputeAgeHistogramBounds(t *testing.T) {
	ds := loadResults(t, `[{"age": 0}, {"age": 9.99}, {"age": 10}, {"age": 99.5}, {"age": -1}, {"age": 100.5}, {"age": null}]`)

	h, err := ds.ComputeAgeHistogram()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0, 0, 0, 0, 0, 0, 0, 1}, h.Counts)
}

func TestComputeAgeHistogramAllAbsent(t *testing.T) {
	ds := loadResults(t, `[{"age": null}, {"age": null}]`)

	h, err := ds.ComputeAgeHistogram()
	require.NoError(t, err)
	assert.Equal(t, make([]int, 10), h.Counts)
	assert.Len(t, h.Edges, 11)
}

func TestComputeAgeHistogramCountsPresentAges(t *testing.T) {
	var rows []string
	present := 0
	for i := 0; i < 57; i++ {
		if i%4 == 0 {
			rows = append(rows, `{"age": null}`)
			continue
		}
		rows = append(rows, fmt.Sprintf(`{"age": %d}`, (i*7)%101))
		present++
	}
	ds := loadResults(t, "["+strings.Join(rows, ",")+"]")

	h, err := ds.ComputeAgeHistogram()
	require.NoError(t, err)
	sum := 0
	for _, c := range h.Counts {
		sum += c
	}
	assert.Equal(t, present, sum)
}

func TestFilterValidEmails(t *testing.T) {
	ds := loadResults(t, sampleResults)

	got, err := ds.FilterValidEmails()
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, got.Index)
	assert.Equal(t, []int{0, 2, 4}, got.Positions)
	assert.Equal(t, []string{"a@b.com", "x@y.z", "ok@c.org"}, got.Emails)
	assert.Equal(t, []string{IndexColumn, EmailColumn}, got.Frame.Names())
	assert.Equal(t, got.Emails, got.Frame.Col(EmailColumn).Records())
	for _, e := range got.Emails {
		assert.Contains(t, e, "@")
	}
}

func TestFilterValidEmailsPattern(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{"bad-email", false},
		{"x@y.z", true},
		{"first.last@e.org", true},
		{"first.last@ex.org", false},
		{"a@bcd", true},
		{"@b.com", false},
		{"a@.com", false},
		{"a@b", false},
		{"a@bc", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, emailPattern.MatchString(tc.email), tc.email)
	}
}

func TestFilterValidEmailsExample(t *testing.T) {
	ds := loadResults(t, `[{"email": "a@b.com"}, {"email": "bad-email"}, {"email": "x@y.z"}]`)

	got, err := ds.FilterValidEmails()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got.Positions)
	assert.Equal(t, []int{0, 1}, got.Index)
}

func TestImputeQuestionMeans(t *testing.T) {
	ds := loadResults(t, sampleResults)

	got, err := ds.ImputeQuestionMeans()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, got.NARows)
	assert.Equal(t, []string{"q1", "q2", "q3"}, got.Frame.Names())
	assert.Equal(t, []float64{2, 2.5, 4, 3, 1}, got.Frame.Col("q1").Float())
	assert.Equal(t, []float64{5, 5, 5, 4, 1}, got.Frame.Col("q2").Float())
	assert.Equal(t, []float64{5, 2.75, 4, 1, 1}, got.Frame.Col("q3").Float())
	assert.InDelta(t, 2.5, got.Means["q1"], 1e-12)
}

func TestImputeQuestionMeansExample(t *testing.T) {
	ds := loadResults(t, `[{"q1": 2}, {"q1": null}, {"q1": 4}]`)

	got, err := ds.ImputeQuestionMeans()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, got.Frame.Col("q1").Float())
	assert.Equal(t, []int{1}, got.NARows)
}

func TestImputeQuestionMeansAllAbsentColumn(t *testing.T) {
	ds := loadResults(t, `[{"q1": 1, "q2": null}, {"q1": 3, "q2": null}]`)

	got, err := ds.ImputeQuestionMeans()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.Means["q2"]))
	q2 := got.Frame.Col("q2")
	for i := 0; i < q2.Len(); i++ {
		assert.True(t, q2.Elem(i).IsNA())
	}
	assert.Equal(t, []int{0, 1}, got.NARows)
}

func TestScoreSubjects(t *testing.T) {
	ds := loadResults(t, sampleResults)

	got, err := ds.ScoreSubjects(DefaultMaxAbsentPerSubject)
	require.NoError(t, err)

	assert.Equal(t, []Score{
		{Value: 4, Valid: true},
		{},
		{Value: 4, Valid: true},
		{Value: 2, Valid: true},
		{Value: 1, Valid: true},
	}, got.Scores)

	score := got.Frame.Col(ScoreColumn)
	assert.Equal(t, 4.0, score.Elem(0).Float())
	assert.True(t, score.Elem(1).IsNA())
	assert.Equal(t, 7, got.Frame.Ncol())

	table, err := ds.Table()
	require.NoError(t, err)
	assert.Equal(t, 6, table.Ncol(), "loaded table must not gain a score column")
}

func TestScoreSubjectsThreshold(t *testing.T) {
	ds := loadResults(t, `[{"q1": 5, "q2": 5, "q3": null}, {"q1": 5, "q2": null, "q3": null}]`)

	got, err := ds.ScoreSubjects(1)
	require.NoError(t, err)
	assert.Equal(t, Score{Value: 5, Valid: true}, got.Scores[0])
	assert.Equal(t, Score{}, got.Scores[1])
	assert.Equal(t, "<NA>", got.Scores[1].String())

	got, err = ds.ScoreSubjects(2)
	require.NoError(t, err)
	assert.Equal(t, Score{Value: 5, Valid: true}, got.Scores[1])

	got, err = ds.ScoreSubjects(0)
	require.NoError(t, err)
	assert.False(t, got.Scores[0].Valid)
}

func TestScoreSubjectsFloor(t *testing.T) {
	ds := loadResults(t, `[{"q1": 1, "q2": 2}, {"q1": 254.9, "q2": 255}, {"q1": null, "q2": null}]`)

	got, err := ds.ScoreSubjects(5)
	require.NoError(t, err)
	assert.Equal(t, Score{Value: 1, Valid: true}, got.Scores[0])
	assert.Equal(t, Score{Value: 254, Valid: true}, got.Scores[1])
	assert.False(t, got.Scores[2].Valid, "no answers at all scores absent")
}

func TestScoreSubjectsRange(t *testing.T) {
	var rows []string
	for i := 0; i < 40; i++ {
		rows = append(rows, fmt.Sprintf(`{"q1": %d, "q2": %d, "q3": null}`, (i*37)%256, (i*91)%256))
	}
	ds := loadResults(t, "["+strings.Join(rows, ",")+"]")

	got, err := ds.ScoreSubjects(1)
	require.NoError(t, err)
	for i, s := range got.Scores {
		require.True(t, s.Valid)
		assert.LessOrEqual(t, int(s.Value), 255, "row %d", i)
	}
}

func TestScoreSubjectsErrors(t *testing.T) {
	ds := loadResults(t, `[{"q1": 300, "q2": 300}]`)
	_, err := ds.ScoreSubjects(1)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	ds = loadResults(t, `[{"q1": -3, "q2": 1}]`)
	_, err = ds.ScoreSubjects(1)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = ds.ScoreSubjects(-1)
	assert.True(t, errors.Is(err, ErrInvalidThreshold))
}

func TestCorrelateGenderAge(t *testing.T) {
	ds := loadResults(t, sampleResults)

	got, err := ds.CorrelateGenderAge()
	require.NoError(t, err)

	require.Len(t, got.Groups, 2)
	assert.Equal(t, GroupKey{Gender: "F", AboveAge: false}, got.Groups[0].Key)
	assert.Equal(t, 2, got.Groups[0].Size)
	assert.Equal(t, []float64{3, 5, 4.5}, got.Groups[0].Means)
	assert.Equal(t, GroupKey{Gender: "M", AboveAge: true}, got.Groups[1].Key)
	assert.Equal(t, []float64{3, 5, 1}, got.Groups[1].Means)

	assert.Equal(t, []string{GenderColumn, "above_40", "q1", "q2", "q3"}, got.Frame.Names())
	assert.Equal(t, []string{"F", "M"}, got.Frame.Col(GenderColumn).Records())
	assert.Equal(t, []float64{4.5, 1}, got.Frame.Col("q3").Float())
}

func TestCorrelateGenderAgeOrdering(t *testing.T) {
	ds := loadResults(t, `[
		{"age": 50, "gender": "M", "q1": 1},
		{"age": 20, "gender": "M", "q1": 2},
		{"age": 60, "gender": "F", "q1": 3},
		{"age": 40, "gender": "F", "q1": 4},
		{"age": 30, "gender": "F", "q1": null}
	]`)

	got, err := ds.CorrelateGenderAge()
	require.NoError(t, err)

	var keys []string
	for _, g := range got.Groups {
		keys = append(keys, g.Key.String())
	}
	assert.Equal(t, []string{"F/false", "F/true", "M/false", "M/true"}, keys)
	assert.Equal(t, []float64{4}, got.Groups[0].Means, "age 40 is not above 40 and absent answers are skipped")
}

func TestCorrelateGenderAgeThreshold(t *testing.T) {
	ds := loadResults(t, `[{"age": 25, "gender": "F", "q1": 1}, {"age": 35, "gender": "F", "q1": 3}]`,
		WithAgeThreshold(30))

	got, err := ds.CorrelateGenderAge()
	require.NoError(t, err)
	require.Len(t, got.Groups, 2)
	assert.Equal(t, "above_30", got.AboveColumn())
	assert.True(t, got.Groups[1].Key.AboveAge)
}

func TestAnalysesAreIdempotent(t *testing.T) {
	ds := loadResults(t, sampleResults)

	h1, err := ds.ComputeAgeHistogram()
	require.NoError(t, err)
	e1, err := ds.FilterValidEmails()
	require.NoError(t, err)
	i1, err := ds.ImputeQuestionMeans()
	require.NoError(t, err)
	s1, err := ds.ScoreSubjects(1)
	require.NoError(t, err)
	c1, err := ds.CorrelateGenderAge()
	require.NoError(t, err)

	h2, err := ds.ComputeAgeHistogram()
	require.NoError(t, err)
	e2, err := ds.FilterValidEmails()
	require.NoError(t, err)
	i2, err := ds.ImputeQuestionMeans()
	require.NoError(t, err)
	s2, err := ds.ScoreSubjects(1)
	require.NoError(t, err)
	c2, err := ds.CorrelateGenderAge()
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, e1.Positions, e2.Positions)
	assert.Equal(t, i1.NARows, i2.NARows)
	assert.Equal(t, i1.Frame.Records(), i2.Frame.Records())
	assert.Equal(t, s1.Scores, s2.Scores)
	assert.Equal(t, c1.Groups, c2.Groups)
	assert.Equal(t, c1.Frame.Records(), c2.Frame.Records())
}
