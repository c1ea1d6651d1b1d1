package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

// EscalationRepository encapsulates escalation persistence. Mutations that
// trigger a notification accept the pending record so both writes commit in
// one transaction.
type EscalationRepository interface {
	Create(ctx context.Context, esc *domain.Escalation, pending *domain.PendingNotification) error
	GetByID(ctx context.Context, id string) (*domain.Escalation, error)
	List(ctx context.Context) ([]domain.Escalation, error)
	UpdateStatus(ctx context.Context, id, status string, comment domain.Comment) error
	AssignTeamMember(ctx context.Context, id, email string, comment domain.Comment, pending *domain.PendingNotification) error
	AppendComment(ctx context.Context, id string, comment domain.Comment) error
	SetEndDate(ctx context.Context, id string, endDate time.Time) error
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository instantiates repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

const escalationColumns = `id, customer_name, customer_email, building_name, flat_or_office_number,
               department, description, status, start_date, end_date,
               assigned_to, hod_email, assigned_team_member_email,
               history, involved_users, created_by`

func (r *escalationRepository) Create(ctx context.Context, esc *domain.Escalation, pending *domain.PendingNotification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	history, err := marshalHistory(esc.History)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO escalations (id, customer_name, customer_email, building_name, flat_or_office_number,
            department, description, status, start_date, end_date,
            assigned_to, hod_email, assigned_team_member_email, history, involved_users, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	if _, err := tx.Exec(ctx, query,
		esc.ID,
		esc.CustomerName,
		esc.CustomerEmail,
		esc.BuildingName,
		esc.FlatOrOfficeNumber,
		esc.Department,
		esc.Description,
		esc.Status,
		esc.StartDate,
		esc.EndDate,
		esc.AssignedTo,
		esc.HODEmail,
		esc.AssignedTeamMemberEmail,
		history,
		esc.InvolvedUsers,
		esc.CreatedBy,
	); err != nil {
		return err
	}

	if pending != nil {
		if err := insertOutbox(ctx, tx, pending); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *escalationRepository) GetByID(ctx context.Context, id string) (*domain.Escalation, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanEscalation(row)
}

func (r *escalationRepository) List(ctx context.Context) ([]domain.Escalation, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations ORDER BY start_date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Escalation
	for rows.Next() {
		esc, err := scanEscalation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *esc)
	}
	return result, rows.Err()
}

// UpdateStatus sets the status and appends one history entry. The append is
// expressed in SQL so concurrent writers never overwrite each other's
// comments.
func (r *escalationRepository) UpdateStatus(ctx context.Context, id, status string, comment domain.Comment) error {
	entry, err := marshalHistory([]domain.Comment{comment})
	if err != nil {
		return err
	}
	const query = `
        UPDATE escalations SET status=$1, history = history || $2::jsonb
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, entry, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AssignTeamMember sets the delegate, appends one history entry and adds the
// email to involved_users with set-union semantics.
func (r *escalationRepository) AssignTeamMember(ctx context.Context, id, email string, comment domain.Comment, pending *domain.PendingNotification) error {
	entry, err := marshalHistory([]domain.Comment{comment})
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE escalations SET
            assigned_team_member_email=$1,
            history = history || $2::jsonb,
            involved_users = CASE WHEN $1 = ANY(involved_users)
                THEN involved_users
                ELSE array_append(involved_users, $1) END
        WHERE id=$3`
	cmd, err := tx.Exec(ctx, query, email, entry, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if pending != nil {
		if err := insertOutbox(ctx, tx, pending); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *escalationRepository) AppendComment(ctx context.Context, id string, comment domain.Comment) error {
	entry, err := marshalHistory([]domain.Comment{comment})
	if err != nil {
		return err
	}
	const query = `UPDATE escalations SET history = history || $1::jsonb WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, entry, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *escalationRepository) SetEndDate(ctx context.Context, id string, endDate time.Time) error {
	const query = `UPDATE escalations SET end_date=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, endDate, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEscalation(row rowScanner) (*domain.Escalation, error) {
	var (
		esc     domain.Escalation
		history []byte
	)
	if err := row.Scan(
		&esc.ID,
		&esc.CustomerName,
		&esc.CustomerEmail,
		&esc.BuildingName,
		&esc.FlatOrOfficeNumber,
		&esc.Department,
		&esc.Description,
		&esc.Status,
		&esc.StartDate,
		&esc.EndDate,
		&esc.AssignedTo,
		&esc.HODEmail,
		&esc.AssignedTeamMemberEmail,
		&history,
		&esc.InvolvedUsers,
		&esc.CreatedBy,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &esc.History); err != nil {
		return nil, err
	}
	return &esc, nil
}

func marshalHistory(comments []domain.Comment) ([]byte, error) {
	if comments == nil {
		comments = []domain.Comment{}
	}
	return json.Marshal(comments)
}
