package availability

import (
	"context"
	"time"

	"internsaathi/internal/common"
)

// Period is a date range in which a college's students are open to internships.
type Period struct {
	ID        common.UUID `json:"id"`
	CollegeID common.UUID `json:"college_id"`
	Name      string      `json:"name"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, period Period) (*Period, error)
	GetByID(ctx context.Context, id common.UUID) (*Period, error)
	Delete(ctx context.Context, id common.UUID) error
	ListByCollege(ctx context.Context, collegeID common.UUID) ([]Period, error)
	ListByColleges(ctx context.Context, collegeIDs []common.UUID) (map[common.UUID][]Period, error)
}
