package account

import (
	"context"

	"internsaathi/internal/common"
)

type Repository interface {
	Create(ctx context.Context, account Account) (*Account, error)
	Update(ctx context.Context, account Account) (*Account, error)
	GetByID(ctx context.Context, id common.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// FindCollegeByName returns the earliest-registered college whose name
	// matches exactly, or a not_found error.
	FindCollegeByName(ctx context.Context, collegeName string) (*Account, error)
	SetVerificationStatus(ctx context.Context, companyID common.UUID, status VerificationStatus) error
	ListPendingCompanies(ctx context.Context) ([]PendingCompany, error)
	ListColleges(ctx context.Context, keyword, location string) ([]CollegeListing, error)
	ListCompanies(ctx context.Context, keyword string) ([]CompanyListing, error)
	ListStudentsByCollege(ctx context.Context, collegeName string) ([]Account, error)
}
