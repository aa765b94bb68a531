package internship

import (
	"context"
	"time"

	"internsaathi/internal/common"
)

type Repository interface {
	Create(ctx context.Context, internship Internship) (*Internship, error)
	Update(ctx context.Context, internship Internship) (*Internship, error)
	Delete(ctx context.Context, id common.UUID) error
	GetByID(ctx context.Context, id common.UUID) (*Internship, error)
	// GetDetailed loads the posting joined with its owning company profile.
	GetDetailed(ctx context.Context, id common.UUID) (*Internship, error)
	Search(ctx context.Context, filter SearchFilter, now time.Time) ([]Internship, int, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Internship, error)
	AddApplicant(ctx context.Context, id, applicantID common.UUID) error
}
