package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-walkforward/internal/logger"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"go.uber.org/zap"
)

// Writer persists bars to a file a Loader can read back.
type Writer interface {
	// Initialize creates the staging table and opens a transaction.
	Initialize() error
	// Write stages one bar for symbol.
	Write(symbol string, bar types.Bar) error
	// Finalize commits the staged bars and exports them to the output file.
	Finalize() (outputPath string, err error)
	// Close releases the database, rolling back anything not finalized.
	Close() error
	// OutputPath returns the configured output file path.
	OutputPath() string
}

// DuckDBWriter stages bars in an in-memory DuckDB table and exports them as
// parquet, or as CSV when the output path ends in .csv.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	logger     *logger.Logger
}

// NewDuckDBWriter creates a writer for outputPath.
func NewDuckDBWriter(outputPath string, log *logger.Logger) Writer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBWriter{
		outputPath: outputPath,
		logger:     log,
	}
}

// Initialize implements Writer.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO bars (time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// Write implements Writer.
func (w *DuckDBWriter) Write(symbol string, bar types.Bar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	_, err := w.stmt.Exec(bar.Date, symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert bar", err)
	}

	return nil
}

// Finalize implements Writer.
func (w *DuckDBWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	format := "(FORMAT PARQUET)"
	if strings.EqualFold(filepath.Ext(w.outputPath), ".csv") {
		format = "(FORMAT CSV, HEADER)"
	}

	query := fmt.Sprintf(`COPY (SELECT * FROM bars ORDER BY symbol, time) TO '%s' %s`,
		strings.ReplaceAll(w.outputPath, "'", "''"), format)
	if _, err := w.db.Exec(query); err != nil {
		return "", errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to export %s", w.outputPath)
	}

	w.logger.Info("Bars exported", zap.String("path", w.outputPath))

	return w.outputPath, nil
}

// Close implements Writer.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	// a transaction still open here was never finalized
	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.logger.Warn("Failed to roll back transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.New(errors.ErrCodeWriteFailed, "errors occurred during close:\n- "+strings.Join(closeErrors, "\n- "))
	}

	return nil
}

// OutputPath implements Writer.
func (w *DuckDBWriter) OutputPath() string {
	return w.outputPath
}
