package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// aggregator folds audit records into report totals one batch at a time.
// Only the bounded at-risk list and the improvement candidates are kept.
type aggregator struct {
	previous    map[string]float64
	atRiskLimit int

	total    int
	ready    int
	sum      decimal.Decimal
	bands    map[domain.ScoreBand]int
	rules    map[string]int
	atRisk   []domain.ProductScore
	improved []domain.ImprovedProduct
}

func newAggregator(previous map[string]float64, atRiskLimit int) *aggregator {
	return &aggregator{
		previous:    previous,
		atRiskLimit: atRiskLimit,
		sum:         decimal.Zero,
		bands:       make(map[domain.ScoreBand]int),
		rules:       make(map[string]int),
	}
}

// add folds r into the totals and returns the score row stored with the report.
func (a *aggregator) add(r domain.AuditRecord) domain.ProductScore {
	score := r.Score()
	row := domain.ProductScore{ProductID: r.ProductID, Score: score, IssueCount: r.FailedCount}

	a.total++
	a.sum = a.sum.Add(decimal.NewFromFloat(score))
	if r.Status == domain.AuditStatusReady {
		a.ready++
	} else {
		a.atRisk = append(a.atRisk, row)
		if len(a.atRisk) > 4*a.atRiskLimit {
			a.trimAtRisk()
		}
	}
	if band, ok := domain.BandForScore(score); ok {
		a.bands[band]++
	}
	for _, key := range r.FailedKeys() {
		a.rules[key]++
	}

	if prev, ok := a.previous[r.ProductID]; ok && score > prev {
		a.improved = append(a.improved, domain.ImprovedProduct{
			ProductID:     r.ProductID,
			PreviousScore: prev,
			CurrentScore:  score,
			Delta:         decimal.NewFromFloat(score).Sub(decimal.NewFromFloat(prev)).Round(2).InexactFloat64(),
		})
	}
	return row
}

func (a *aggregator) trimAtRisk() {
	slices.SortFunc(a.atRisk, compareAtRisk)
	if len(a.atRisk) > a.atRiskLimit {
		a.atRisk = slices.Clip(a.atRisk[:a.atRiskLimit])
	}
}

// fill writes the aggregate fields of rep.
func (a *aggregator) fill(rep *domain.CatalogReport, improvedLimit int) {
	rep.TotalProducts = a.total
	rep.ReadyProducts = a.ready
	rep.AverageScore = 0
	if a.total > 0 {
		rep.AverageScore = a.sum.Div(decimal.NewFromInt(int64(a.total))).Round(2).InexactFloat64()
	}

	rep.TopIssues = make([]domain.IssueCount, 0, len(a.bands))
	for _, band := range domain.ScoreBands {
		if n := a.bands[band]; n > 0 {
			rep.TopIssues = append(rep.TopIssues, domain.IssueCount{Issue: string(band), Count: n})
		}
	}
	// ScoreBands is ordered by severity, so a stable sort keeps ties severe-first.
	slices.SortStableFunc(rep.TopIssues, func(x, y domain.IssueCount) int { return y.Count - x.Count })

	rep.FailingRules = make([]domain.IssueCount, 0, len(a.rules))
	for key, n := range a.rules {
		rep.FailingRules = append(rep.FailingRules, domain.IssueCount{Issue: key, Count: n})
	}
	slices.SortFunc(rep.FailingRules, func(x, y domain.IssueCount) int {
		if c := y.Count - x.Count; c != 0 {
			return c
		}
		return cmp.Compare(x.Issue, y.Issue)
	})

	a.trimAtRisk()
	rep.ProductsAtRisk = slices.Clone(a.atRisk)
	if rep.ProductsAtRisk == nil {
		rep.ProductsAtRisk = []domain.ProductScore{}
	}

	slices.SortFunc(a.improved, func(x, y domain.ImprovedProduct) int {
		if c := cmp.Compare(y.Delta, x.Delta); c != 0 {
			return c
		}
		return cmp.Compare(x.ProductID, y.ProductID)
	})
	rep.MostImproved = make([]domain.ImprovedProduct, 0, min(len(a.improved), improvedLimit))
	rep.MostImproved = append(rep.MostImproved, a.improved[:min(len(a.improved), improvedLimit)]...)
}

// compareAtRisk orders lowest score first, then by product id.
func compareAtRisk(x, y domain.ProductScore) int {
	if c := cmp.Compare(x.Score, y.Score); c != 0 {
		return c
	}
	return cmp.Compare(x.ProductID, y.ProductID)
}
