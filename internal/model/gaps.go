package model

// CoverageRecord is one shotpoint on a line together with whether any
// deployment exists for it. Sequences are ordered ascending by shotpoint.
type CoverageRecord struct {
	Shotpoint     int64 `json:"shotpoint"`
	HasDeployment bool  `json:"has_deployment"`
}

// Gap is a maximal run of consecutive shotpoints on a line with no deployment.
// Size counts shotpoint records in the run as given in the input sequence, not
// physical distance; non-unit station numbering still counts one per record.
type Gap struct {
	Line           int64 `json:"line"`
	StartShotpoint int64 `json:"start_shotpoint"`
	EndShotpoint   int64 `json:"end_shotpoint"`
	Size           int64 `json:"size"`
}

// LineGaps aggregates the gaps found on a single line.
type LineGaps struct {
	Line           int64 `json:"line"`
	GapCount       int   `json:"gap_count"`
	TotalGapPoints int64 `json:"total_gap_points"`
	Gaps           []Gap `json:"gaps"`
}

// Severity buckets for per-line gap totals.
type Severity string

const (
	SeverityCritical Severity = "critical" // >50 gap points
	SeverityHigh     Severity = "high"     // >20 gap points
	SeverityMedium   Severity = "medium"   // >10 gap points
	SeverityLow      Severity = "low"
)

// GapStatistics is the project-wide gap summary.
type GapStatistics struct {
	TotalLinesWithGaps int                  `json:"total_lines_with_gaps"`
	TotalGaps          int                  `json:"total_gaps"`
	TotalGapPoints     int64                `json:"total_gap_points"`
	LinesBySeverity    map[Severity][]int64 `json:"lines_by_severity"`
}
