package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/db"
	"github.com/enserv-geo/survey-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	err = db.Do(ctx, db.DefaultRetryConfig(), "ping", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS coordinate_transforms (
	name                TEXT PRIMARY KEY,
	description         TEXT NOT NULL DEFAULT '',
	coefficients_lon    JSONB NOT NULL,
	coefficients_lat    JSONB NOT NULL,
	rmse_lon            DOUBLE PRECISION NOT NULL,
	rmse_lat            DOUBLE PRECISION NOT NULL,
	rmse_meters         DOUBLE PRECISION NOT NULL,
	control_point_count INTEGER NOT NULL,
	created_by          TEXT NOT NULL DEFAULT 'system',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS source_points (
	line        BIGINT NOT NULL,
	shotpoint   BIGINT NOT NULL,
	swath       INTEGER NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lon         DOUBLE PRECISION NOT NULL,
	batch_id    TEXT NOT NULL,
	uploaded_by TEXT NOT NULL DEFAULT 'system',
	uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (line, shotpoint)
);

CREATE TABLE IF NOT EXISTS deployments (
	line        BIGINT NOT NULL,
	shotpoint   BIGINT NOT NULL,
	swath       INTEGER NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (line, shotpoint)
);

CREATE INDEX IF NOT EXISTS idx_source_points_swath ON source_points(swath);
CREATE INDEX IF NOT EXISTS idx_deployments_swath ON deployments(swath);
CREATE INDEX IF NOT EXISTS idx_transforms_created_at ON coordinate_transforms(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveTransform(ctx context.Context, rec *model.TransformRecord) error {
	coeffsLon, err := json.Marshal(rec.CoeffsLon)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lon coefficients")
	}
	coeffsLat, err := json.Marshal(rec.CoeffsLat)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lat coefficients")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO coordinate_transforms (
			name, description, coefficients_lon, coefficients_lat,
			rmse_lon, rmse_lat, rmse_meters, control_point_count, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			coefficients_lon = EXCLUDED.coefficients_lon,
			coefficients_lat = EXCLUDED.coefficients_lat,
			rmse_lon = EXCLUDED.rmse_lon,
			rmse_lat = EXCLUDED.rmse_lat,
			rmse_meters = EXCLUDED.rmse_meters,
			control_point_count = EXCLUDED.control_point_count,
			created_by = EXCLUDED.created_by,
			created_at = now()`,
		rec.Name, rec.Description, string(coeffsLon), string(coeffsLat),
		rec.RMSELon, rec.RMSELat, rec.RMSEMeters, rec.ControlPointCount, rec.CreatedBy,
	)
	return eris.Wrapf(err, "postgres: save transform %s", rec.Name)
}

func (s *PostgresStore) GetTransform(ctx context.Context, name string) (*model.TransformRecord, error) {
	var rec model.TransformRecord
	var coeffsLon, coeffsLat []byte

	err := s.pool.QueryRow(ctx, `
		SELECT name, description, coefficients_lon, coefficients_lat,
		       rmse_lon, rmse_lat, rmse_meters, control_point_count,
		       created_by, created_at
		FROM coordinate_transforms
		WHERE name = $1`,
		name,
	).Scan(
		&rec.Name, &rec.Description, &coeffsLon, &coeffsLat,
		&rec.RMSELon, &rec.RMSELat, &rec.RMSEMeters, &rec.ControlPointCount,
		&rec.CreatedBy, &rec.CreatedAt,
	)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "transform %q", name)
		}
		return nil, eris.Wrapf(err, "postgres: get transform %s", name)
	}

	if err := json.Unmarshal(coeffsLon, &rec.CoeffsLon); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal lon coefficients")
	}
	if err := json.Unmarshal(coeffsLat, &rec.CoeffsLat); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal lat coefficients")
	}
	return &rec, nil
}

func (s *PostgresStore) ListTransforms(ctx context.Context) ([]model.TransformInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, description, rmse_meters, control_point_count, created_by, created_at
		FROM coordinate_transforms
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list transforms")
	}
	defer rows.Close()

	var infos []model.TransformInfo
	for rows.Next() {
		var info model.TransformInfo
		if err := rows.Scan(
			&info.Name, &info.Description, &info.RMSEMeters,
			&info.ControlPointCount, &info.CreatedBy, &info.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan transform info")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "postgres: iterate transforms")
}

func (s *PostgresStore) InsertSourcePoints(ctx context.Context, swath int, points []model.TransformedPoint, uploadedBy string) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	batchID := uuid.New().String()
	rows := make([][]any, len(points))
	for i, p := range points {
		rows[i] = []any{p.Line, p.Shotpoint, swath, p.Lat, p.Lon, batchID, uploadedBy}
	}

	var n int64
	err := db.Do(ctx, db.DefaultRetryConfig(), "insert source points", func(ctx context.Context) error {
		var err error
		n, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        "source_points",
			Columns:      []string{"line", "shotpoint", "swath", "lat", "lon", "batch_id", "uploaded_by"},
			ConflictKeys: []string{"line", "shotpoint"},
		}, rows)
		return err
	})
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: insert source points for swath %d", swath)
	}
	return n, nil
}

func (s *PostgresStore) InsertDeployments(ctx context.Context, swath int, recs []model.AcquisitionRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{r.Line, r.Station, swath}
	}

	var n int64
	err := db.Do(ctx, db.DefaultRetryConfig(), "insert deployments", func(ctx context.Context) error {
		var err error
		n, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        "deployments",
			Columns:      []string{"line", "shotpoint", "swath"},
			ConflictKeys: []string{"line", "shotpoint"},
		}, rows)
		return err
	})
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: insert deployments for swath %d", swath)
	}
	return n, nil
}

func (s *PostgresStore) LineCoverage(ctx context.Context, line int64) ([]model.CoverageRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.shotpoint, d.shotpoint IS NOT NULL AS has_deployment
		FROM source_points c
		LEFT JOIN deployments d ON c.line = d.line AND c.shotpoint = d.shotpoint
		WHERE c.line = $1
		ORDER BY c.shotpoint`,
		line,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: line coverage %d", line)
	}
	defer rows.Close()

	var coverage []model.CoverageRecord
	for rows.Next() {
		var rec model.CoverageRecord
		if err := rows.Scan(&rec.Shotpoint, &rec.HasDeployment); err != nil {
			return nil, eris.Wrap(err, "postgres: scan coverage row")
		}
		coverage = append(coverage, rec)
	}
	return coverage, eris.Wrapf(rows.Err(), "postgres: iterate coverage for line %d", line)
}

func (s *PostgresStore) Lines(ctx context.Context) ([]int64, error) {
	return s.scanLines(ctx, `SELECT DISTINCT line FROM source_points ORDER BY line`)
}

func (s *PostgresStore) SwathLines(ctx context.Context, swath int) ([]int64, error) {
	return s.scanLines(ctx, `SELECT DISTINCT line FROM source_points WHERE swath = $1 ORDER BY line`, swath)
}

func (s *PostgresStore) scanLines(ctx context.Context, sql string, args ...any) ([]int64, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query lines")
	}
	defer rows.Close()

	var lines []int64
	for rows.Next() {
		var line int64
		if err := rows.Scan(&line); err != nil {
			return nil, eris.Wrap(err, "postgres: scan line")
		}
		lines = append(lines, line)
	}
	return lines, eris.Wrap(rows.Err(), "postgres: iterate lines")
}
