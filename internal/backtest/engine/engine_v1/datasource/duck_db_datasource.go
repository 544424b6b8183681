package datasource

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/internal/logger"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBDataSource opens (or creates) a DuckDB database at path and
// ensures the price_bars table exists. Use ":memory:" for an ephemeral
// database.
func NewDuckDBDataSource(path string, logger *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB database", err)
	}

	d := &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	if err := d.createTable(); err != nil {
		db.Close()

		return nil, err
	}

	return d, nil
}

func (d *DuckDBDataSource) createTable() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_bars (
			time TIMESTAMP,
			symbol TEXT,
			timeframe TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create price_bars table", err)
	}

	return nil
}

// LoadParquet imports bars from a parquet file into the price_bars table.
// The file must carry the same column names as the table.
func (d *DuckDBDataSource) LoadParquet(path string) error {
	d.logger.Debug("Loading parquet file", zap.String("path", path))

	query := fmt.Sprintf(`INSERT INTO price_bars SELECT * FROM read_parquet('%s')`, path)
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to load parquet file", err)
	}

	return nil
}

// InsertBars appends bars to the price_bars table.
func (d *DuckDBDataSource) InsertBars(timeframe types.Timeframe, bars []types.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	insert := d.sq.
		Insert("price_bars").
		Columns("time", "symbol", "timeframe", "open", "high", "low", "close", "volume")

	for _, bar := range bars {
		insert = insert.Values(bar.Time, bar.Symbol, string(timeframe), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert query", err)
	}

	if _, err := d.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert bars", err)
	}

	return nil
}

// GetPriceSeries implements DataSource.
func (d *DuckDBDataSource) GetPriceSeries(symbol string, timeframe types.Timeframe, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.PriceBar, error) {
	builder := d.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From("price_bars").
		Where(squirrel.Eq{"symbol": symbol, "timeframe": string(timeframe)}).
		OrderBy("time ASC")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build select query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query price bars", err)
	}
	defer rows.Close()

	var bars []types.PriceBar

	for rows.Next() {
		var bar types.PriceBar
		if err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan price bar", err)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate price bars", err)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "no data for %s at %s in the requested range", symbol, timeframe)
	}

	return bars, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(symbol string, timeframe types.Timeframe, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	builder := d.sq.
		Select("COUNT(*)").
		From("price_bars").
		Where(squirrel.Eq{"symbol": symbol, "timeframe": string(timeframe)})

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count price bars", err)
	}

	return count, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
