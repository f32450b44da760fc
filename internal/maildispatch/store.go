// README: Delivery audit trail backed by PostgreSQL.
package maildispatch

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store appends terminal delivery outcomes so failures stay visible after the
// in-memory queue forgets the job. Best-effort; the queue never blocks on it.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) RecordOutcome(ctx context.Context, job *Job, messageID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO email_delivery_events (
			job_id, recipients, subject, template, priority,
			status, attempts, last_error, message_id, created_at, delivered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(job.ID),
		strings.Join(job.Message.To, ","),
		job.Message.Subject,
		job.Message.Template,
		string(job.Priority),
		string(job.Status),
		job.Attempts,
		nullIfEmpty(job.LastError),
		nullIfEmpty(messageID),
		job.CreatedAt,
		job.LastAttemptAt,
	)
	return err
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
