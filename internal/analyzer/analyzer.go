// Package analyzer is the stateful entry point over the generation and
// analysis engines.
package analyzer

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/route-profitability/internal/insight"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/profit"
	"github.com/sells-group/route-profitability/internal/recommend"
)

// DatasetGenerator produces a dataset for a seed.
type DatasetGenerator interface {
	Generate(seed int64) (*model.Dataset, error)
}

// Analyzer holds one generated dataset and the results derived from it.
// It is not safe for concurrent use.
type Analyzer struct {
	gen        DatasetGenerator
	thresholds recommend.Thresholds
	topN       int

	dataset  *model.Dataset
	table    *model.ProfitabilityTable
	insights *model.InsightReport
}

// New creates an Analyzer.
func New(gen DatasetGenerator, th recommend.Thresholds, topN int) *Analyzer {
	return &Analyzer{gen: gen, thresholds: th, topN: topN}
}

// GenerateSampleData generates a fresh dataset and discards any results
// derived from a previous one.
func (a *Analyzer) GenerateSampleData(seed int64) (*model.Dataset, error) {
	ds, err := a.gen.Generate(seed)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: generate sample data")
	}
	a.dataset = ds
	a.table = nil
	a.insights = nil
	return ds, nil
}

// Dataset returns the current dataset.
func (a *Analyzer) Dataset() (*model.Dataset, error) {
	if !a.dataset.Ready() {
		return nil, eris.Wrap(model.ErrNotInitialized, "analyzer: no dataset")
	}
	return a.dataset, nil
}

// CalculateProfitability computes and caches the profitability table.
func (a *Analyzer) CalculateProfitability() (*model.ProfitabilityTable, error) {
	if a.table != nil {
		return a.table, nil
	}
	table, err := profit.Calculate(a.dataset)
	if err != nil {
		return nil, err
	}
	a.table = table
	return table, nil
}

// GenerateInsights builds the insight report, calculating profitability
// first if needed.
func (a *Analyzer) GenerateInsights() (*model.InsightReport, error) {
	if a.insights != nil {
		return a.insights, nil
	}
	table, err := a.CalculateProfitability()
	if err != nil {
		return nil, err
	}
	report, err := insight.Generate(table, a.topN)
	if err != nil {
		return nil, err
	}
	a.insights = report
	return report, nil
}

// GenerateRecommendations buckets every route by action, calculating
// profitability first if needed.
func (a *Analyzer) GenerateRecommendations() (*model.RecommendationSet, error) {
	table, err := a.CalculateProfitability()
	if err != nil {
		return nil, err
	}
	return recommend.Generate(table, a.thresholds)
}
