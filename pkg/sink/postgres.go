package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// querier is the part of pgxpool.Pool used by PostgresStore
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps quads in a PostgreSQL table, one row per statement,
// each term in N-Triples syntax. The default graph is stored as an empty string.
type PostgresStore struct {
	db     querier
	table  string
	close  func()
	logger *zap.Logger
}

// OpenPostgres connects to dsn and makes sure table exists
func OpenPostgres(ctx context.Context, dsn, table string, logger *zap.Logger) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse PostgreSQL connection string")
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create PostgreSQL connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to PostgreSQL")
	}

	store, err := newPostgresStore(ctx, pool, table, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	store.close = pool.Close
	return store, nil
}

func newPostgresStore(ctx context.Context, db querier, table string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PostgresStore{
		db:     db,
		table:  pgx.Identifier{table}.Sanitize(),
		close:  func() {},
		logger: logger.With(zap.String("component", "postgres_store")),
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	subject   text NOT NULL,
	predicate text NOT NULL,
	object    text NOT NULL,
	graph     text NOT NULL DEFAULT ''
)`, s.table)
	if _, err := db.Exec(ctx, ddl); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create quad table").
			WithDetail("table", table)
	}
	return s, nil
}

// Size counts the rows of the table
func (s *PostgresStore) Size(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, "SELECT count(*) FROM "+s.table).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeConnection, "failed to count quads")
	}
	return n, nil
}

// Clear deletes every row
func (s *PostgresStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM "+s.table)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeConnection, "failed to clear quad table")
	}
	s.logger.Info("cleared quad table", zap.String("table", s.table), zap.Int64("deleted", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// Insert adds one row
func (s *PostgresStore) Insert(ctx context.Context, subj rdf.Subject, pred rdf.Predicate, obj rdf.Object, g rdf.Context) error {
	graph := ""
	if g != nil && g.String() != "" {
		graph = g.Serialize(rdf.NTriples)
	}

	_, err := s.db.Exec(ctx,
		"INSERT INTO "+s.table+" (subject, predicate, object, graph) VALUES ($1, $2, $3, $4)",
		subj.Serialize(rdf.NTriples), pred.Serialize(rdf.NTriples), obj.Serialize(rdf.NTriples), graph)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to insert quad")
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.close()
	return nil
}
