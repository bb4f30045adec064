package processor

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	histogramBins  = 10
	histogramWidth = 10.0
)

// AgeHistogram 年龄分布，Edges比Counts多一个元素
type AgeHistogram struct {
	Counts []int
	Edges  []float64
}

// ComputeAgeHistogram 统计[0,100]内的年龄分布，每10岁一个区间
// 最后一个区间包含100，缺失值和区间外的值不计入
func (d *Dataset) ComputeAgeHistogram() (AgeHistogram, error) {
	if err := d.check("ComputeAgeHistogram", AgeColumn); err != nil {
		return AgeHistogram{}, err
	}

	edges := make([]float64, histogramBins+1)
	for i := range edges {
		edges[i] = float64(i) * histogramWidth
	}
	lo, hi := edges[0], edges[histogramBins]

	values, present := d.column(AgeColumn)
	ages := make([]float64, 0, len(values))
	for i, v := range values {
		if present[i] && v >= lo && v <= hi {
			ages = append(ages, v)
		}
	}
	sort.Float64s(ages)

	// stat.Histogram要求所有值严格小于最后一个边界
	n := sort.SearchFloat64s(ages, hi)
	counts := make([]int, histogramBins)
	for i, c := range stat.Histogram(nil, edges, ages[:n], nil) {
		counts[i] = int(c)
	}
	counts[histogramBins-1] += len(ages) - n

	return AgeHistogram{Counts: counts, Edges: edges}, nil
}
