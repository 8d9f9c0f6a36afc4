// Package aggregate computes per-submission score aggregates from judge
// scorecards.
package aggregate

import (
	"sort"

	"github.com/okian/judged/internal/domain/model"
)

// Weights maps criterion name to its relative weight. Weights are treated as
// shares of the configured total (e.g. percentages summing to 100); the
// aggregate normalizes by the sum, so any positive scale works.
type Weights map[string]float64

// Result is the aggregate of all scorecards for one submission.
type Result struct {
	AverageScore        float64
	ScoreCount          int
	PerCriterionAverage map[string]float64
}

// Compute aggregates the scorecards of one submission.
//
// Each judge's weighted total is the weight-normalized sum of their criterion
// values, so a full-marks card is 10.0 regardless of the weight table scale.
// AverageScore is the mean of judge totals. Zero scorecards yields a zero
// average, never an error; submissions without scores rank last.
//
// Criterion values are validated in [0,10] on the write path and are assumed
// in range here. Iteration goes through sorted criterion names so the result
// is bit-identical for identical input.
func Compute(scores []model.Score, weights Weights) Result {
	res := Result{
		ScoreCount:          len(scores),
		PerCriterionAverage: make(map[string]float64),
	}
	if len(scores) == 0 {
		return res
	}

	var weightSum float64
	names := make([]string, 0, len(weights))
	for name, w := range weights {
		if w <= 0 {
			continue
		}
		names = append(names, name)
		weightSum += w
	}
	sort.Strings(names)
	if weightSum == 0 {
		return res
	}

	criterionTotals := make(map[string]float64, len(names))
	criterionCounts := make(map[string]int, len(names))

	var totalOfJudgeTotals float64
	for _, score := range scores {
		var judgeTotal float64
		for _, name := range names {
			value, ok := score.Criteria[name]
			if !ok {
				continue
			}
			judgeTotal += value * weights[name]
			criterionTotals[name] += value
			criterionCounts[name]++
		}
		totalOfJudgeTotals += judgeTotal / weightSum
	}
	res.AverageScore = totalOfJudgeTotals / float64(len(scores))

	for _, name := range names {
		if n := criterionCounts[name]; n > 0 {
			res.PerCriterionAverage[name] = criterionTotals[name] / float64(n)
		}
	}
	return res
}
