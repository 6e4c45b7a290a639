package dedup

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "go-jobsift/internal/errors"
)

const createSeenTable = `
	CREATE TABLE IF NOT EXISTS seen_postings (
		id         TEXT PRIMARY KEY,
		first_seen TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// PostgresStore keeps the seen ids in the seen_postings table
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects, pings and makes sure the table exists
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, apperrors.StoreIO("unable to parse database url", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// poolers in transaction mode (PgBouncer, Supabase) reject cached prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, apperrors.StoreIO("unable to connect to database", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.StoreIO("database unreachable", err)
	}

	if _, err := pool.Exec(ctx, createSeenTable); err != nil {
		pool.Close()
		return nil, apperrors.StoreIO("create seen_postings table", err)
	}

	return &PostgresStore{db: pool}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (mapset.Set[string], error) {
	rows, err := p.db.Query(ctx, `SELECT id FROM seen_postings`)
	if err != nil {
		return nil, apperrors.StoreIO("query seen_postings", err)
	}
	defer rows.Close()

	seen := mapset.NewThreadUnsafeSet[string]()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.StoreIO("scan seen_postings", err)
		}
		seen.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreIO("iterate seen_postings", err)
	}
	return seen, nil
}

func (p *PostgresStore) Append(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`INSERT INTO seen_postings (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	}
	if err := p.db.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.StoreIO("insert seen_postings", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}
