// Package gaps detects and aggregates runs of undeployed shotpoints over
// ordered per-line coverage sequences.
package gaps

import (
	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// ErrInvalidInput is returned for coverage sequences that are not strictly
// ascending by shotpoint.
var ErrInvalidInput = eris.New("gaps: invalid coverage sequence")

// Detect scans an ordered coverage sequence for one line and returns maximal
// runs of consecutive undeployed shotpoints of at least minGapSize records.
// A run still open at the end of the sequence is emitted with the last
// shotpoint seen as its end. Runs below the threshold are dropped whole.
// Gaps come back in scan order, ascending by start shotpoint.
func Detect(line int64, coverage []model.CoverageRecord, minGapSize int64) ([]model.Gap, error) {
	if minGapSize < 1 {
		minGapSize = 1
	}
	if len(coverage) == 0 {
		return nil, nil
	}

	var gaps []model.Gap
	var gapStart int64
	var gapSize int64
	gapOpen := false

	prev := coverage[0].Shotpoint - 1
	for i, rec := range coverage {
		if i > 0 && rec.Shotpoint <= prev {
			return nil, eris.Wrapf(ErrInvalidInput, "line %d: shotpoint %d after %d", line, rec.Shotpoint, prev)
		}

		if !rec.HasDeployment {
			if !gapOpen {
				gapStart = rec.Shotpoint
				gapOpen = true
			}
			gapSize++
		} else {
			if gapOpen && gapSize >= minGapSize {
				gaps = append(gaps, model.Gap{
					Line:           line,
					StartShotpoint: gapStart,
					EndShotpoint:   prev,
					Size:           gapSize,
				})
			}
			gapOpen = false
			gapSize = 0
		}
		prev = rec.Shotpoint
	}

	// Gap still open at end of line.
	if gapOpen && gapSize >= minGapSize {
		gaps = append(gaps, model.Gap{
			Line:           line,
			StartShotpoint: gapStart,
			EndShotpoint:   coverage[len(coverage)-1].Shotpoint,
			Size:           gapSize,
		})
	}

	return gaps, nil
}
