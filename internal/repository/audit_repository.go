package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditEntry is one dispatched-stimulus record.
type AuditEntry struct {
	ID            string
	TicketID      string
	Stage         string
	StimulusKind  string
	Outcome       string
	CorrelationID string
	CreatedAt     time.Time
}

// AuditRepository stores the stage audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the Postgres-backed repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Record(ctx context.Context, entry *AuditEntry) error {
	const query = `
        INSERT INTO stage_audit (id, ticket_id, stage, stimulus_kind, outcome, correlation_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.TicketID,
		entry.Stage,
		entry.StimulusKind,
		entry.Outcome,
		entry.CorrelationID,
	).Scan(&entry.CreatedAt)
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]AuditEntry, error) {
	const query = `
        SELECT id, ticket_id, stage, stimulus_kind, outcome, correlation_id, created_at
        FROM stage_audit WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Stage,
			&entry.StimulusKind,
			&entry.Outcome,
			&entry.CorrelationID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// NoopAuditRepository is used when no Postgres pool is configured.
type NoopAuditRepository struct{}

func (NoopAuditRepository) Record(ctx context.Context, entry *AuditEntry) error {
	return nil
}

func (NoopAuditRepository) ListByTicket(ctx context.Context, ticketID string) ([]AuditEntry, error) {
	return nil, nil
}
