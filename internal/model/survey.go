// Package model defines the shared domain types for post-plot survey analytics.
package model

import "time"

// ControlPoint is a location with both local (Easting/Northing) and geographic
// coordinates known, used to fit a coordinate transformation. Line and
// Shotpoint identify where the point came from; they do not enter the fit.
type ControlPoint struct {
	Line      int64   `json:"line,omitempty"`
	Shotpoint int64   `json:"shotpoint,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// SourcePoint is a single shot location read from a .s01 source file,
// in local (Easting/Northing) coordinates.
type SourcePoint struct {
	Line      int64   `json:"line"`
	Shotpoint int64   `json:"shotpoint"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// TransformedPoint is a source point with fitted geographic coordinates attached.
type TransformedPoint struct {
	Line      int64   `json:"line"`
	Shotpoint int64   `json:"shotpoint"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// BasePoint is a shot location from a base-coordinate listing, in geographic
// coordinates. Matched against source points by (line, shotpoint) to build
// control points.
type BasePoint struct {
	Line      int64   `json:"line"`
	Shotpoint int64   `json:"shotpoint"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// AcquisitionRecord marks a shotpoint as acquired on a given line.
type AcquisitionRecord struct {
	Line    int64 `json:"line"`
	Station int64 `json:"station"`
}

// TransformRecord is a fitted transformation as persisted in the store.
// CoeffsLon and CoeffsLat each hold exactly ten values ordered
// [1, X, Y, X², XY, Y², X³, X²Y, XY², Y³].
type TransformRecord struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	CoeffsLon         []float64 `json:"coefficients_lon"`
	CoeffsLat         []float64 `json:"coefficients_lat"`
	RMSELon           float64   `json:"rmse_lon"`
	RMSELat           float64   `json:"rmse_lat"`
	RMSEMeters        float64   `json:"rmse_meters"`
	ControlPointCount int       `json:"control_point_count"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// TransformInfo summarizes a stored transformation for listings.
type TransformInfo struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	RMSEMeters        float64   `json:"rmse_meters"`
	ControlPointCount int       `json:"control_point_count"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}
