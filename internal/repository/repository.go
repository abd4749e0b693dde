package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/entity"
)

// RecordRepository is the persisted collection of accepted records.
// Records are append-only; Append assigns the identifier.
type RecordRepository interface {
	List(ctx context.Context) ([]entity.CoordinateRecord, error)
	Append(ctx context.Context, rec entity.CoordinateRecord) (entity.CoordinateRecord, error)
	Close() error
}

const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (RecordRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case DriverJSON, "":
		return NewJSONFileRepository(cfg.CoordsFile, logger)
	case DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLRepository(ctx, db, DialectSQLite, nil, logger)
	case DriverPostgres:
		db, pool, err := OpenPostgres(ctx, Config{
			DSN:             cfg.DSN,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
			DialTimeout:     cfg.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLRepository(ctx, db, DialectPostgres, pool.Close, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown store driver %q", cfg.Driver), common.ErrInvalidInput)
	}
}
