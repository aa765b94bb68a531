package app

import (
	"context"
	"strings"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
)

type VerificationService struct {
	accounts account.Repository
	logger   Logger
}

func NewVerificationService(accounts account.Repository, logger Logger) *VerificationService {
	return &VerificationService{accounts: accounts, logger: loggerOrNop(logger)}
}

func (s *VerificationService) ListPending(ctx context.Context, caller account.Account) ([]account.PendingCompany, error) {
	if err := requireRole(caller, account.RoleAdmin, "admin access required"); err != nil {
		return nil, err
	}
	return s.accounts.ListPendingCompanies(ctx)
}

// SetStatus approves or rejects a company. Approval is what unlocks posting internships.
func (s *VerificationService) SetStatus(ctx context.Context, caller account.Account, companyID common.UUID, status account.VerificationStatus) error {
	if err := requireRole(caller, account.RoleAdmin, "admin access required"); err != nil {
		return err
	}
	status = account.VerificationStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if status != account.VerificationApproved && status != account.VerificationRejected {
		return common.NewValidationError("invalid status", map[string]string{"status": "status must be approved or rejected"})
	}
	target, err := s.accounts.GetByID(ctx, companyID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return common.NewError(common.CodeNotFound, "company not found", err)
		}
		return err
	}
	if target.Role() != account.RoleCompany {
		return common.NewError(common.CodeNotFound, "company not found", nil)
	}
	if err := s.accounts.SetVerificationStatus(ctx, companyID, status); err != nil {
		return err
	}
	s.logger.Info("company verification updated", "company_id", companyID.String(), "status", string(status), "admin_id", caller.ID.String())
	return nil
}
