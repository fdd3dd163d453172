package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var entryColumns = []string{
	"id::text", "user_id", "to_char(entry_date, 'YYYY-MM-DD')", "transcript", "source",
	"emotion", "metrics", "score", "feedback", "created_at",
}

// querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Postgres struct {
	q     querier
	close func()
}

// NewPostgres connects, pings and, when cfg.AutoMigrate is set, applies the
// embedded goose migrations.
func NewPostgres(ctx context.Context, cfg config.Store, log logrus.FieldLogger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		n, err := Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.WithField("applied", n).Info("migrations applied")
	}
	return &Postgres{q: pool, close: pool.Close}, nil
}

func newPostgresWith(q querier) *Postgres {
	return &Postgres{q: q, close: func() {}}
}

// Migrate applies pending migrations and returns how many ran.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose new provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}

func (p *Postgres) Close() error {
	p.close()
	return nil
}

func (p *Postgres) SaveEntry(ctx context.Context, e model.DailyEntry) error {
	row, err := encodeEntry(e)
	if err != nil {
		return err
	}
	query, args, err := psql.Insert("entries").
		Columns("id", "user_id", "entry_date", "transcript", "source",
			"emotion", "metrics", "score", "feedback", "created_at").
		Values(
			squirrel.Expr("?::uuid", row.ID),
			row.UserID,
			squirrel.Expr("?::date", row.Date),
			row.Transcript,
			row.Source,
			row.Emotion,
			row.Metrics,
			row.Score,
			row.Feedback,
			row.CreatedAt,
		).
		Suffix(`ON CONFLICT (user_id, entry_date) DO UPDATE SET
			id = EXCLUDED.id,
			transcript = EXCLUDED.transcript,
			source = EXCLUDED.source,
			emotion = EXCLUDED.emotion,
			metrics = EXCLUDED.metrics,
			score = EXCLUDED.score,
			feedback = EXCLUDED.feedback,
			created_at = EXCLUDED.created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save entry: %w", err)
	}
	if _, err := p.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

func (p *Postgres) RecentEntries(ctx context.Context, userID string, max int) ([]model.DailyEntry, error) {
	out := make([]model.DailyEntry, 0)
	if max <= 0 {
		return out, nil
	}
	query, args, err := psql.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("entry_date DESC", "created_at DESC").
		Limit(uint64(max)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent entries: %w", err)
	}

	rows, err := p.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row entryRow
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Date,
			&row.Transcript,
			&row.Source,
			&row.Emotion,
			&row.Metrics,
			&row.Score,
			&row.Feedback,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e, err := row.decode()
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", row.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) AppendAlert(ctx context.Context, a model.AlertLog) error {
	decision, err := json.Marshal(a.Decision)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	query, args, err := psql.Insert("alerts").
		Columns("id", "user_id", "created_at", "decision", "sent").
		Values(squirrel.Expr("?::uuid", a.ID), a.UserID, a.Timestamp.UTC(), decision, a.Sent).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append alert: %w", err)
	}
	if _, err := p.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	return nil
}

func (p *Postgres) AlertHistory(ctx context.Context, userID string) ([]model.AlertLog, error) {
	query, args, err := psql.Select("id::text", "user_id", "created_at", "decision", "sent").
		From("alerts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build alert history: %w", err)
	}

	rows, err := p.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("alert history: %w", err)
	}
	defer rows.Close()

	out := make([]model.AlertLog, 0)
	for rows.Next() {
		var (
			a        model.AlertLog
			decision []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Timestamp, &decision, &a.Sent); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if err := json.Unmarshal(decision, &a.Decision); err != nil {
			return nil, fmt.Errorf("alert %s: decode decision: %w", a.ID, err)
		}
		a.Timestamp = a.Timestamp.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
