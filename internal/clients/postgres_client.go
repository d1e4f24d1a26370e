package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresPingTimeout = 5 * time.Second

type Postgres struct {
	DB *pgxpool.Pool
}

// NewPostgresClient opens a pool for dsn. An unreachable server is logged
// but not fatal: the pool dials lazily and queries report the failure.
func NewPostgresClient(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("[PostgresClient] invalid connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("[PostgresClient] failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, postgresPingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		slog.Warn("[PostgresClient] Failed to ping PostgreSQL, continuing",
			slog.String("host", cfg.ConnConfig.Host),
			slog.String("database", cfg.ConnConfig.Database),
			slog.String("error", err.Error()))
	} else {
		slog.Info("[PostgresClient] Connected to PostgreSQL successfully",
			slog.String("host", cfg.ConnConfig.Host),
			slog.String("database", cfg.ConnConfig.Database))
	}

	return &Postgres{DB: pool}, nil
}

func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		p.DB.Close()
	}
}
