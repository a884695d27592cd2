package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for single-user
// field deployments where no Postgres instance is available.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS coordinate_transforms (
	name                TEXT PRIMARY KEY,
	description         TEXT NOT NULL DEFAULT '',
	coefficients_lon    TEXT NOT NULL,
	coefficients_lat    TEXT NOT NULL,
	rmse_lon            REAL NOT NULL,
	rmse_lat            REAL NOT NULL,
	rmse_meters         REAL NOT NULL,
	control_point_count INTEGER NOT NULL,
	created_by          TEXT NOT NULL DEFAULT 'system',
	created_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS source_points (
	line        INTEGER NOT NULL,
	shotpoint   INTEGER NOT NULL,
	swath       INTEGER NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL,
	batch_id    TEXT NOT NULL,
	uploaded_by TEXT NOT NULL DEFAULT 'system',
	uploaded_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (line, shotpoint)
);

CREATE TABLE IF NOT EXISTS deployments (
	line        INTEGER NOT NULL,
	shotpoint   INTEGER NOT NULL,
	swath       INTEGER NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (line, shotpoint)
);

CREATE INDEX IF NOT EXISTS idx_source_points_swath ON source_points(swath);
CREATE INDEX IF NOT EXISTS idx_deployments_swath ON deployments(swath);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveTransform(ctx context.Context, rec *model.TransformRecord) error {
	coeffsLon, err := json.Marshal(rec.CoeffsLon)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lon coefficients")
	}
	coeffsLat, err := json.Marshal(rec.CoeffsLat)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lat coefficients")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO coordinate_transforms (
			name, description, coefficients_lon, coefficients_lat,
			rmse_lon, rmse_lat, rmse_meters, control_point_count, created_by, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			description = excluded.description,
			coefficients_lon = excluded.coefficients_lon,
			coefficients_lat = excluded.coefficients_lat,
			rmse_lon = excluded.rmse_lon,
			rmse_lat = excluded.rmse_lat,
			rmse_meters = excluded.rmse_meters,
			control_point_count = excluded.control_point_count,
			created_by = excluded.created_by,
			created_at = excluded.created_at`,
		rec.Name, rec.Description, string(coeffsLon), string(coeffsLat),
		rec.RMSELon, rec.RMSELat, rec.RMSEMeters, rec.ControlPointCount,
		rec.CreatedBy, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save transform %s", rec.Name)
}

func (s *SQLiteStore) GetTransform(ctx context.Context, name string) (*model.TransformRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, description, coefficients_lon, coefficients_lat,
		       rmse_lon, rmse_lat, rmse_meters, control_point_count,
		       created_by, created_at
		FROM coordinate_transforms
		WHERE name = ?`,
		name,
	)

	var rec model.TransformRecord
	var coeffsLon, coeffsLat string
	err := row.Scan(
		&rec.Name, &rec.Description, &coeffsLon, &coeffsLat,
		&rec.RMSELon, &rec.RMSELat, &rec.RMSEMeters, &rec.ControlPointCount,
		&rec.CreatedBy, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "transform %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get transform %s", name)
	}

	if err := json.Unmarshal([]byte(coeffsLon), &rec.CoeffsLon); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal lon coefficients")
	}
	if err := json.Unmarshal([]byte(coeffsLat), &rec.CoeffsLat); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal lat coefficients")
	}
	return &rec, nil
}

func (s *SQLiteStore) ListTransforms(ctx context.Context) ([]model.TransformInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, rmse_meters, control_point_count, created_by, created_at
		FROM coordinate_transforms
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list transforms")
	}
	defer rows.Close()

	var infos []model.TransformInfo
	for rows.Next() {
		var info model.TransformInfo
		if err := rows.Scan(
			&info.Name, &info.Description, &info.RMSEMeters,
			&info.ControlPointCount, &info.CreatedBy, &info.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan transform info")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "sqlite: iterate transforms")
}

func (s *SQLiteStore) InsertSourcePoints(ctx context.Context, swath int, points []model.TransformedPoint, uploadedBy string) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO source_points (line, shotpoint, swath, lat, lon, batch_id, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (line, shotpoint) DO UPDATE SET
			swath = excluded.swath,
			lat = excluded.lat,
			lon = excluded.lon,
			batch_id = excluded.batch_id,
			uploaded_by = excluded.uploaded_by`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare source point insert")
	}
	defer stmt.Close()

	batchID := uuid.New().String()
	var n int64
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Line, p.Shotpoint, swath, p.Lat, p.Lon, batchID, uploadedBy); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert source point %d/%d", p.Line, p.Shotpoint)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit source points")
	}
	return n, nil
}

func (s *SQLiteStore) InsertDeployments(ctx context.Context, swath int, recs []model.AcquisitionRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO deployments (line, shotpoint, swath)
		VALUES (?, ?, ?)
		ON CONFLICT (line, shotpoint) DO UPDATE SET swath = excluded.swath`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare deployment insert")
	}
	defer stmt.Close()

	var n int64
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.Line, r.Station, swath); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert deployment %d/%d", r.Line, r.Station)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit deployments")
	}
	return n, nil
}

func (s *SQLiteStore) LineCoverage(ctx context.Context, line int64) ([]model.CoverageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.shotpoint, d.shotpoint IS NOT NULL
		FROM source_points c
		LEFT JOIN deployments d ON c.line = d.line AND c.shotpoint = d.shotpoint
		WHERE c.line = ?
		ORDER BY c.shotpoint`,
		line,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: line coverage %d", line)
	}
	defer rows.Close()

	var coverage []model.CoverageRecord
	for rows.Next() {
		var rec model.CoverageRecord
		if err := rows.Scan(&rec.Shotpoint, &rec.HasDeployment); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan coverage row")
		}
		coverage = append(coverage, rec)
	}
	return coverage, eris.Wrapf(rows.Err(), "sqlite: iterate coverage for line %d", line)
}

func (s *SQLiteStore) Lines(ctx context.Context) ([]int64, error) {
	return s.scanLines(ctx, `SELECT DISTINCT line FROM source_points ORDER BY line`)
}

func (s *SQLiteStore) SwathLines(ctx context.Context, swath int) ([]int64, error) {
	return s.scanLines(ctx, `SELECT DISTINCT line FROM source_points WHERE swath = ? ORDER BY line`, swath)
}

func (s *SQLiteStore) scanLines(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query lines")
	}
	defer rows.Close()

	var lines []int64
	for rows.Next() {
		var line int64
		if err := rows.Scan(&line); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan line")
		}
		lines = append(lines, line)
	}
	return lines, eris.Wrap(rows.Err(), "sqlite: iterate lines")
}
