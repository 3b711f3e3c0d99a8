package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/clubin-web/internal/analytics"
)

// Postgres persists share funnel events. Schema lives in migrations/.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// SaveShortLinkCreated is idempotent per code, so redelivered messages are
// harmless.
func (p *Postgres) SaveShortLinkCreated(ctx context.Context, event *analytics.ShortLinkCreatedEvent) error {
	query := `
		INSERT INTO shortlink_created (code, entity_type, target_id, short_url, client_ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.Type,
		event.TargetID,
		event.ShortURL,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
		event.CreatedAt,
	)

	return err
}

func (p *Postgres) SaveShortLinkResolved(ctx context.Context, event *analytics.ShortLinkResolvedEvent) error {
	query := `
		INSERT INTO shortlink_resolved (code, entity_type, target_id, client_ip, user_agent, referrer, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.Type,
		event.TargetID,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
		nullable(event.Referrer),
		event.ResolvedAt,
	)

	return err
}

func (p *Postgres) SaveAppOpenAttempted(ctx context.Context, event *analytics.AppOpenAttemptedEvent) error {
	query := `
		INSERT INTO app_open_attempts (
			attempt_id, entity_type, target_id, platform, deep_link, fallback_url,
			client_ip, user_agent, referrer, attempted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (attempt_id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.AttemptID,
		event.Type,
		event.TargetID,
		event.Platform,
		event.DeepLink,
		event.FallbackURL,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
		nullable(event.Referrer),
		event.AttemptedAt,
	)

	return err
}

// CountResolutions returns how often a code has been resolved.
func (p *Postgres) CountResolutions(ctx context.Context, code string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shortlink_resolved WHERE code = $1`, code).Scan(&count)

	return count, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
