package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"go.uber.org/zap"
)

const viewName = "bars"

// DuckDBLoader reads parquet or CSV files through an embedded DuckDB.
type DuckDBLoader struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBLoader opens a DuckDB database at dbPath (":memory:" for an
// in-process database).
func NewDuckDBLoader(dbPath string, log *logger.Logger) (Loader, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBLoader{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements Loader.
func (d *DuckDBLoader) Initialize(path string) error {
	d.logger.Debug("Initializing bar source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS ` + viewName + `;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	reader := "read_parquet"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		reader = "read_csv_auto"
	case ".parquet", "":
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file %s", path)
	}

	// Squirrel does not build CREATE VIEW.
	query := fmt.Sprintf(`CREATE VIEW %s AS SELECT * FROM %s('%s');`, viewName, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	return nil
}

func (d *DuckDBLoader) where(q Query) squirrel.And {
	conditions := squirrel.And{}

	if q.Symbol.IsSome() {
		conditions = append(conditions, squirrel.Eq{"symbol": q.Symbol.Unwrap()})
	}

	if q.Start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": q.Start.Unwrap()})
	}

	if q.End.IsSome() {
		// End is a calendar day; include every row on it.
		conditions = append(conditions, squirrel.Lt{"time": q.End.Unwrap().AddDate(0, 0, 1)})
	}

	return conditions
}

// Load implements Loader.
func (d *DuckDBLoader) Load(q Query) ([]types.Bar, error) {
	query, args, err := d.sq.
		Select(
			"time_bucket(INTERVAL '1 day', time) AS day",
			"arg_min(open, time) AS open",
			"max(high) AS high",
			"min(low) AS low",
			"arg_max(close, time) AS close",
			"sum(volume) AS volume",
		).
		From(viewName).
		Where(d.where(q)).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	bars := []types.Bar{}

	for rows.Next() {
		var (
			day                            time.Time
			open, high, low, close, volume sql.NullFloat64
		)

		if err := rows.Scan(&day, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		// NULL prices stay zero, which marks the bar as a gap.
		bars = append(bars, types.Bar{
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:   open.Float64,
			High:   high.Float64,
			Low:    low.Float64,
			Close:  close.Float64,
			Volume: volume.Float64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err)
	}

	if len(bars) == 0 {
		return bars, errors.New(errors.ErrCodeNoDataFound, "no bars match the query")
	}

	d.logger.Debug("Loaded bars",
		zap.Int("bars", len(bars)),
		zap.Time("first", bars[0].Date),
		zap.Time("last", bars[len(bars)-1].Date),
	)

	return bars, nil
}

// Count implements Loader.
func (d *DuckDBLoader) Count(q Query) (int, error) {
	query, args, err := d.sq.Select("COUNT(*)").From(viewName).Where(d.where(q)).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count rows", err)
	}

	return count, nil
}

// Symbols implements Loader.
func (d *DuckDBLoader) Symbols() ([]string, error) {
	query, args, err := d.sq.Select("DISTINCT symbol").From(viewName).OrderBy("symbol").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// Close implements Loader.
func (d *DuckDBLoader) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
