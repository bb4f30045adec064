package report

import "QuestionnaireAnalysis/src/processor"

// Presenter 分析结果的展示层，与计算解耦
type Presenter interface {
	AgeDistribution(h processor.AgeHistogram) error
	GenderAge(s processor.GenderAgeSummary) error
}

// NopPresenter 不做任何展示
type NopPresenter struct{}

func (NopPresenter) AgeDistribution(processor.AgeHistogram) error { return nil }

func (NopPresenter) GenderAge(processor.GenderAgeSummary) error { return nil }
