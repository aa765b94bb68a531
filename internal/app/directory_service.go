package app

import (
	"context"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/availability"
)

type DirectoryService struct {
	accounts account.Repository
	periods  availability.Repository
}

func NewDirectoryService(accounts account.Repository, periods availability.Repository) *DirectoryService {
	return &DirectoryService{accounts: accounts, periods: periods}
}

// CollegeEntry is a college listing together with its availability windows.
type CollegeEntry struct {
	account.CollegeListing
	AvailabilityPeriods []availability.Period `json:"availability_periods"`
}

func (s *DirectoryService) ListColleges(ctx context.Context, caller account.Account, keyword, location string) ([]CollegeEntry, error) {
	if err := requireRole(caller, account.RoleCompany, "only companies can browse colleges"); err != nil {
		return nil, err
	}
	colleges, err := s.accounts.ListColleges(ctx, keyword, location)
	if err != nil {
		return nil, err
	}
	ids := make([]common.UUID, 0, len(colleges))
	for _, college := range colleges {
		ids = append(ids, college.ID)
	}
	periods, err := s.periods.ListByColleges(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]CollegeEntry, 0, len(colleges))
	for _, college := range colleges {
		entry := CollegeEntry{CollegeListing: college, AvailabilityPeriods: periods[college.ID]}
		if entry.AvailabilityPeriods == nil {
			entry.AvailabilityPeriods = []availability.Period{}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *DirectoryService) ListCompanies(ctx context.Context, caller account.Account, keyword string) ([]account.CompanyListing, error) {
	if err := requireRole(caller, account.RoleCollege, "only colleges can browse companies"); err != nil {
		return nil, err
	}
	return s.accounts.ListCompanies(ctx, keyword)
}

// ListCollegeStudents returns students whose free-text college name equals the caller's.
func (s *DirectoryService) ListCollegeStudents(ctx context.Context, caller account.Account) ([]account.Projection, error) {
	college, ok := caller.College()
	if !ok {
		return nil, common.NewError(common.CodeForbidden, "not authorized to view this resource", nil)
	}
	students, err := s.accounts.ListStudentsByCollege(ctx, college.CollegeName)
	if err != nil {
		return nil, err
	}
	out := make([]account.Projection, 0, len(students))
	for _, student := range students {
		out = append(out, account.ProjectForRole(student))
	}
	return out, nil
}
