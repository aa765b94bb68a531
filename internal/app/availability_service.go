package app

import (
	"context"
	"strings"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/availability"
)

type AvailabilityService struct {
	periods availability.Repository
}

func NewAvailabilityService(periods availability.Repository) *AvailabilityService {
	return &AvailabilityService{periods: periods}
}

type PeriodInput struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

func (s *AvailabilityService) Create(ctx context.Context, caller account.Account, input PeriodInput) (*availability.Period, error) {
	if err := requireRole(caller, account.RoleCollege, "only colleges can manage availability"); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	start, ok := parseDate(input.StartDate)
	if !ok {
		fields["start_date"] = "invalid date"
	}
	end, ok := parseDate(input.EndDate)
	if !ok {
		fields["end_date"] = "invalid date"
	}
	if len(fields) == 0 && end.Before(start) {
		fields["end_date"] = "end_date must not be before start_date"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid availability period", fields)
	}
	return s.periods.Create(ctx, availability.Period{CollegeID: caller.ID, Name: input.Name, StartDate: start, EndDate: end})
}

func (s *AvailabilityService) List(ctx context.Context, caller account.Account) ([]availability.Period, error) {
	if err := requireRole(caller, account.RoleCollege, "only colleges can manage availability"); err != nil {
		return nil, err
	}
	return s.periods.ListByCollege(ctx, caller.ID)
}

func (s *AvailabilityService) Delete(ctx context.Context, caller account.Account, id common.UUID) error {
	if err := requireRole(caller, account.RoleCollege, "only colleges can manage availability"); err != nil {
		return err
	}
	period, err := s.periods.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if period.CollegeID != caller.ID {
		return common.NewError(common.CodeForbidden, "not authorized to delete this availability period", nil)
	}
	return s.periods.Delete(ctx, id)
}
