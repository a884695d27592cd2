// Package export writes survey analytics results to interchange formats
// consumed by GIS tooling and field crews.
package export

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// WritePointShapefile writes transformed source points as an ESRI point
// shapefile in WGS84 (X=lon, Y=lat), with LINE, STATION, LAT and LON
// attributes. The .dbf and .shx sidecars are created alongside path.
func WritePointShapefile(path string, points []model.TransformedPoint) error {
	if len(points) == 0 {
		return eris.New("export: no points to write")
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close()

	err = w.SetFields([]shp.Field{
		shp.NumberField("LINE", 10),
		shp.NumberField("STATION", 10),
		shp.FloatField("LAT", 13, 8),
		shp.FloatField("LON", 13, 8),
	})
	if err != nil {
		return eris.Wrapf(err, "export: set attribute fields for %s", path)
	}

	for n, p := range points {
		w.Write(&shp.Point{X: p.Lon, Y: p.Lat})
		// The dbf writer only accepts int, float64 and string values.
		attrs := []interface{}{int(p.Line), int(p.Shotpoint), p.Lat, p.Lon}
		for field, value := range attrs {
			if err := w.WriteAttribute(n, field, value); err != nil {
				return eris.Wrapf(err, "export: write attributes for point %d", n)
			}
		}
	}

	return nil
}
