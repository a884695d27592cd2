package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enserv-geo/survey-cli/internal/config"
	"github.com/enserv-geo/survey-cli/internal/model"
)

func TestCommandTree(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "transform")
	assert.Contains(t, names, "gaps")
	assert.Contains(t, names, "controlpoints")
	assert.Contains(t, names, "acquisition")

	var transformSubs []string
	for _, c := range transformCmd.Commands() {
		transformSubs = append(transformSubs, c.Name())
	}
	assert.ElementsMatch(t, []string{"fit", "apply", "validate", "list", "export"}, transformSubs)

	var gapsSubs []string
	for _, c := range gapsCmd.Commands() {
		gapsSubs = append(gapsSubs, c.Name())
	}
	assert.ElementsMatch(t, []string{"line", "swath", "report"}, gapsSubs)
}

func TestParseLineArg(t *testing.T) {
	line, err := parseLineArg("2112")
	require.NoError(t, err)
	assert.Equal(t, int64(2112), line)

	_, err = parseLineArg("abc")
	assert.Error(t, err)
}

func TestFormatTransformList(t *testing.T) {
	var buf bytes.Buffer
	formatTransformList(&buf, []model.TransformInfo{
		{
			Name:              "west_belt",
			Description:       "swath 4 fit",
			RMSEMeters:        0.109,
			ControlPointCount: 100,
			CreatedBy:         "kmanis",
			CreatedAt:         time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "west_belt")
	assert.Contains(t, out, "0.109")
	assert.Contains(t, out, "2026-08-12 09:30")
}

func TestFormatGaps(t *testing.T) {
	var buf bytes.Buffer
	formatGaps(&buf, []model.Gap{
		{Line: 2112, StartShotpoint: 5232, EndShotpoint: 5234, Size: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "START")
	assert.Contains(t, out, "5232")
	assert.Contains(t, out, "5234")
}

func TestCountOutOfRange(t *testing.T) {
	points := []model.TransformedPoint{
		{Line: 2112, Shotpoint: 5232, Lat: 49.91, Lon: -99.63},
		{Line: 2112, Shotpoint: 5233, Lat: 91.2, Lon: -99.63},
		{Line: 2112, Shotpoint: 5234, Lat: 49.91, Lon: -181.0},
	}
	assert.Equal(t, 2, countOutOfRange(points))
	assert.Equal(t, 0, countOutOfRange(points[:1]))
}

func TestResolveControlPointCount(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })
	cfg = &config.Config{Loader: config.LoaderConfig{ControlPointCount: 100}}

	assert.Equal(t, 100, resolveControlPointCount(0))
	assert.Equal(t, 250, resolveControlPointCount(250))
}
