package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	Schema []string
	Insert string // must return the new id
	Select string
}

var DialectSQLite = Dialect{
	Name: DriverSQLite,
	Schema: []string{`
	CREATE TABLE IF NOT EXISTS coordinate_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		cliente TEXT,
		texto_bruto TEXT NOT NULL DEFAULT ''
	);`, `
	CREATE INDEX IF NOT EXISTS idx_coordinate_records_taken_at
	ON coordinate_records(taken_at);`,
	},
	Insert: `
	INSERT INTO coordinate_records (taken_at, latitude, longitude, cliente, texto_bruto)
	VALUES (?, ?, ?, ?, ?)
	RETURNING id;`,
	Select: `
	SELECT id, taken_at, latitude, longitude, cliente, texto_bruto
	FROM coordinate_records
	ORDER BY id;`,
}

var DialectPostgres = Dialect{
	Name: DriverPostgres,
	Schema: []string{`
	CREATE TABLE IF NOT EXISTS coordinate_records (
		id BIGSERIAL PRIMARY KEY,
		taken_at TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		cliente TEXT,
		texto_bruto TEXT NOT NULL DEFAULT ''
	);`, `
	CREATE INDEX IF NOT EXISTS idx_coordinate_records_taken_at
	ON coordinate_records(taken_at);`,
	},
	Insert: `
	INSERT INTO coordinate_records (taken_at, latitude, longitude, cliente, texto_bruto)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;`,
	Select: DialectSQLite.Select,
}

type sqlRepository struct {
	db      *sql.DB
	dialect Dialect
	onClose func()
	logger  *slog.Logger
}

// NewSQLRepository initializes the schema and returns a repository over db.
// onClose runs after db is closed (e.g. to close an owning pool).
func NewSQLRepository(ctx context.Context, db *sql.DB, d Dialect, onClose func(), logger *slog.Logger) (RecordRepository, error) {
	if db == nil {
		return nil, errors.New("sql repository: DB is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := InitSchema(ctx, db, d); err != nil {
		_ = db.Close()
		if onClose != nil {
			onClose()
		}
		return nil, err
	}
	return &sqlRepository{db: db, dialect: d, onClose: onClose, logger: logger}, nil
}

// InitSchema creates the records table inside one transaction.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range d.Schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

func (r *sqlRepository) List(ctx context.Context) ([]entity.CoordinateRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Select)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	records := make([]entity.CoordinateRecord, 0, 64)
	for rows.Next() {
		var rec entity.CoordinateRecord
		var client sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Latitude, &rec.Longitude, &client, &rec.RawText); err != nil {
			return nil, fmt.Errorf("%w: list records: scan row: %v", common.ErrStorage, err)
		}
		if client.Valid {
			rec = rec.WithClient(client.String)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list records: row iteration: %v", common.ErrStorage, err)
	}
	return records, nil
}

func (r *sqlRepository) Append(ctx context.Context, rec entity.CoordinateRecord) (entity.CoordinateRecord, error) {
	var client sql.NullString
	if rec.Client != nil {
		client = sql.NullString{String: *rec.Client, Valid: true}
	}
	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.Insert,
		rec.Timestamp, rec.Latitude, rec.Longitude, client, rec.RawText,
	).Scan(&id)
	if err != nil {
		return entity.CoordinateRecord{}, fmt.Errorf("%w: insert record: %v", common.ErrStorage, err)
	}
	rec.ID = id
	r.logger.Debug("record inserted", "id", id, "driver", r.dialect.Name)
	return rec, nil
}

func (r *sqlRepository) Close() error {
	err := r.db.Close()
	if r.onClose != nil {
		r.onClose()
	}
	return err
}
