package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/availability"
)

type AvailabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, p availability.Period) (*availability.Period, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO availability_periods (id, college_id, name, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.CollegeID, p.Name, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create availability period", err)
	}
	return &p, nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id common.UUID) (*availability.Period, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, college_id, name, start_date, end_date, created_at, updated_at FROM availability_periods WHERE id = $1`, id)
	var p availability.Period
	if err := row.Scan(&p.ID, &p.CollegeID, &p.Name, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "availability period not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load availability period", err)
	}
	return &p, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM availability_periods WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete availability period", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "availability period not found", sql.ErrNoRows)
	}
	return nil
}

func (r *AvailabilityRepository) ListByCollege(ctx context.Context, collegeID common.UUID) ([]availability.Period, error) {
	grouped, err := r.ListByColleges(ctx, []common.UUID{collegeID})
	if err != nil {
		return nil, err
	}
	items := grouped[collegeID]
	if items == nil {
		items = []availability.Period{}
	}
	return items, nil
}

func (r *AvailabilityRepository) ListByColleges(ctx context.Context, collegeIDs []common.UUID) (map[common.UUID][]availability.Period, error) {
	out := make(map[common.UUID][]availability.Period, len(collegeIDs))
	if len(collegeIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, college_id, name, start_date, end_date, created_at, updated_at FROM availability_periods
		WHERE college_id = ANY($1::uuid[]) ORDER BY start_date ASC, created_at ASC`, pq.Array(uuidStrings(collegeIDs)))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list availability periods", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p availability.Period
		if err := rows.Scan(&p.ID, &p.CollegeID, &p.Name, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan availability period", err)
		}
		out[p.CollegeID] = append(out[p.CollegeID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list availability periods", err)
	}
	return out, nil
}
