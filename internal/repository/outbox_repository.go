package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

// OutboxRepository manages pending notification records.
type OutboxRepository interface {
	Enqueue(ctx context.Context, n *domain.PendingNotification) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingNotification, error)
	MarkDelivered(ctx context.Context, id string, status domain.OutboxStatus, at time.Time) error
	MarkFailed(ctx context.Context, id string, attempts int, nextAttempt time.Time, lastErr string, terminal bool) error
}

type outboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository constructs repository.
func NewOutboxRepository(pool *pgxpool.Pool) OutboxRepository {
	return &outboxRepository{pool: pool}
}

func (r *outboxRepository) Enqueue(ctx context.Context, n *domain.PendingNotification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	if err := insertOutbox(ctx, tx, n); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// insertOutbox writes a pending notification inside an existing transaction.
// The escalation repository uses it to enqueue atomically with the mutation.
func insertOutbox(ctx context.Context, tx pgx.Tx, n *domain.PendingNotification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO notification_outbox (id, kind, recipient, escalation_id, payload, status, attempts, next_attempt_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = tx.Exec(ctx, query,
		n.ID,
		n.Kind,
		n.Recipient,
		n.EscalationID,
		payload,
		n.Status,
		n.Attempts,
		n.NextAttemptAt,
	)
	return err
}

func (r *outboxRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingNotification, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, kind, recipient, escalation_id, payload, status, attempts, next_attempt_at, last_error, created_at, sent_at
        FROM notification_outbox
        WHERE status=$1 AND next_attempt_at <= $2
        ORDER BY next_attempt_at
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, domain.OutboxPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PendingNotification
	for rows.Next() {
		var (
			n       domain.PendingNotification
			payload []byte
		)
		if err := rows.Scan(
			&n.ID,
			&n.Kind,
			&n.Recipient,
			&n.EscalationID,
			&payload,
			&n.Status,
			&n.Attempts,
			&n.NextAttemptAt,
			&n.LastError,
			&n.CreatedAt,
			&n.SentAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id string, status domain.OutboxStatus, at time.Time) error {
	const query = `UPDATE notification_outbox SET status=$1, sent_at=$2 WHERE id=$3`
	_, err := r.pool.Exec(ctx, query, status, at, id)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, attempts int, nextAttempt time.Time, lastErr string, terminal bool) error {
	status := domain.OutboxPending
	if terminal {
		status = domain.OutboxFailed
	}
	const query = `
        UPDATE notification_outbox SET status=$1, attempts=$2, next_attempt_at=$3, last_error=$4
        WHERE id=$5`
	_, err := r.pool.Exec(ctx, query, status, attempts, nextAttempt, lastErr, id)
	return err
}
