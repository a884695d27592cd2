package gaps

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// StatisticsMinGapSize is the gap threshold used for project-wide statistics.
// Lines whose gaps all fall below it never enter a severity bucket.
const StatisticsMinGapSize = 5

// Severity thresholds on total gap points per line. Comparisons are
// strictly greater: a line totalling exactly 50 is high, not critical.
const (
	criticalThreshold = 50
	highThreshold     = 20
	mediumThreshold   = 10
)

// Classify buckets a per-line gap total into a severity level.
func Classify(totalGapPoints int64) model.Severity {
	switch {
	case totalGapPoints > criticalThreshold:
		return model.SeverityCritical
	case totalGapPoints > highThreshold:
		return model.SeverityHigh
	case totalGapPoints > mediumThreshold:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// CoverageSource supplies ordered coverage sequences per line. The store
// satisfies this; tests supply fixtures directly.
type CoverageSource interface {
	LineCoverage(ctx context.Context, line int64) ([]model.CoverageRecord, error)
}

// maxConcurrentScans bounds parallel coverage fetches in AnalyzeLines.
const maxConcurrentScans = 8

// AnalyzeLines runs gap detection over each line and returns the lines that
// have gaps, sorted descending by total gap points for priority reporting.
// Lines are scanned concurrently; coverage fetch order does not affect output
// order.
func AnalyzeLines(ctx context.Context, src CoverageSource, lines []int64, minGapSize int64) ([]model.LineGaps, error) {
	results := make([][]model.Gap, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScans)
	for i, line := range lines {
		g.Go(func() error {
			coverage, err := src.LineCoverage(ctx, line)
			if err != nil {
				return err
			}
			gaps, err := Detect(line, coverage, minGapSize)
			if err != nil {
				return err
			}
			results[i] = gaps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var withGaps []model.LineGaps
	for i, line := range lines {
		if len(results[i]) == 0 {
			continue
		}
		var total int64
		for _, gap := range results[i] {
			total += gap.Size
		}
		withGaps = append(withGaps, model.LineGaps{
			Line:           line,
			GapCount:       len(results[i]),
			TotalGapPoints: total,
			Gaps:           results[i],
		})
	}

	sort.SliceStable(withGaps, func(a, b int) bool {
		return withGaps[a].TotalGapPoints > withGaps[b].TotalGapPoints
	})
	return withGaps, nil
}

// Statistics computes the project-wide gap summary over lines already
// analyzed with StatisticsMinGapSize.
func Statistics(linesWithGaps []model.LineGaps) model.GapStatistics {
	stats := model.GapStatistics{
		LinesBySeverity: map[model.Severity][]int64{
			model.SeverityCritical: {},
			model.SeverityHigh:     {},
			model.SeverityMedium:   {},
			model.SeverityLow:      {},
		},
	}

	for _, lg := range linesWithGaps {
		stats.TotalLinesWithGaps++
		stats.TotalGaps += lg.GapCount
		stats.TotalGapPoints += lg.TotalGapPoints

		severity := Classify(lg.TotalGapPoints)
		stats.LinesBySeverity[severity] = append(stats.LinesBySeverity[severity], lg.Line)
	}

	return stats
}
