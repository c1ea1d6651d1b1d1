package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

const settingsDocID = "system"

// SettingsRepository persists the single vocabularies record.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	const query = `SELECT departments, statuses, roles FROM settings WHERE id=$1`
	var s domain.Settings
	if err := r.pool.QueryRow(ctx, query, settingsDocID).Scan(&s.Departments, &s.Statuses, &s.Roles); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	const query = `
        INSERT INTO settings (id, departments, statuses, roles, updated_at)
        VALUES ($1,$2,$3,$4,NOW())
        ON CONFLICT (id) DO UPDATE SET
            departments=EXCLUDED.departments,
            statuses=EXCLUDED.statuses,
            roles=EXCLUDED.roles,
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, settingsDocID, settings.Departments, settings.Statuses, settings.Roles)
	return err
}
