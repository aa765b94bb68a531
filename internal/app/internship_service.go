package app

import (
	"context"
	"strings"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/internship"
)

type InternshipService struct {
	internships internship.Repository
	logger      Logger
	now         func() time.Time
}

func NewInternshipService(internships internship.Repository, logger Logger) *InternshipService {
	return &InternshipService{internships: internships, logger: loggerOrNop(logger), now: time.Now}
}

type InternshipInput struct {
	CompanyName         string            `json:"company_name"`
	Title               string            `json:"title" validate:"required"`
	Description         string            `json:"description" validate:"required"`
	Location            string            `json:"location" validate:"required"`
	WorkType            string            `json:"work_type" validate:"required"`
	Stipend             string            `json:"stipend"`
	Duration            string            `json:"duration" validate:"required"`
	Domain              string            `json:"internship_domain" validate:"required"`
	ApplicationDeadline string            `json:"application_deadline" validate:"required"`
	SkillsRequired      common.StringList `json:"skills_required"`
	Responsibilities    common.StringList `json:"responsibilities"`
	WhoCanApply         common.StringList `json:"who_can_apply"`
	Perks               common.StringList `json:"perks"`
	Positions           int               `json:"positions" validate:"required,min=1"`
	Status              string            `json:"status"`
}

func (in *InternshipInput) trim() {
	for _, field := range []*string{&in.CompanyName, &in.Title, &in.Description, &in.Location, &in.WorkType, &in.Stipend, &in.Duration, &in.Domain, &in.ApplicationDeadline, &in.Status} {
		*field = strings.TrimSpace(*field)
	}
}

func (s *InternshipService) Create(ctx context.Context, caller account.Account, input InternshipInput) (*internship.Internship, error) {
	company, ok := caller.Company()
	if !ok {
		return nil, common.NewError(common.CodeForbidden, "only company users can post internships", nil)
	}
	if company.VerificationStatus != account.VerificationApproved {
		return nil, common.NewError(common.CodeForbidden, "your company account must be approved before posting internships", nil)
	}
	input.trim()
	if input.CompanyName == "" {
		input.CompanyName = company.CompanyName
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	workType, ok := internship.ParseWorkType(input.WorkType)
	if !ok {
		fields["work_type"] = "work_type must be Remote, Hybrid or In-office"
	}
	deadline, ok := parseDate(input.ApplicationDeadline)
	if !ok {
		fields["application_deadline"] = "invalid date"
	}
	status := internship.StatusActive
	if input.Status != "" {
		if status, ok = internship.ParseStatus(input.Status); !ok {
			fields["status"] = "status must be active, closed, filled or draft"
		}
	}
	if input.CompanyName == "" {
		fields["company_name"] = "company_name is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid internship", fields)
	}
	stipend := input.Stipend
	if stipend == "" {
		stipend = internship.DefaultStipend
	}
	created, err := s.internships.Create(ctx, internship.Internship{
		CompanyID:           caller.ID,
		CompanyName:         input.CompanyName,
		Title:               input.Title,
		Description:         input.Description,
		Location:            input.Location,
		WorkType:            workType,
		Stipend:             stipend,
		Duration:            input.Duration,
		Domain:              input.Domain,
		ApplicationDeadline: deadline,
		SkillsRequired:      common.CleanList(input.SkillsRequired),
		Responsibilities:    common.CleanList(input.Responsibilities),
		WhoCanApply:         common.CleanList(input.WhoCanApply),
		Perks:               common.CleanList(input.Perks),
		Positions:           input.Positions,
		Status:              status,
		Applicants:          []common.UUID{},
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("internship created", "internship_id", created.ID.String(), "company_id", caller.ID.String())
	return created, nil
}

// InternshipPatch carries the fields present in an update request.
type InternshipPatch struct {
	CompanyName         *string            `json:"company_name"`
	Title               *string            `json:"title"`
	Description         *string            `json:"description"`
	Location            *string            `json:"location"`
	WorkType            *string            `json:"work_type"`
	Stipend             *string            `json:"stipend"`
	Duration            *string            `json:"duration"`
	Domain              *string            `json:"internship_domain"`
	ApplicationDeadline *string            `json:"application_deadline"`
	SkillsRequired      *common.StringList `json:"skills_required"`
	Responsibilities    *common.StringList `json:"responsibilities"`
	WhoCanApply         *common.StringList `json:"who_can_apply"`
	Perks               *common.StringList `json:"perks"`
	Positions           *int               `json:"positions"`
	Status              *string            `json:"status"`
}

func (s *InternshipService) Update(ctx context.Context, caller account.Account, id common.UUID, patch InternshipPatch) (*internship.Internship, error) {
	existing, err := s.owned(ctx, caller, id, "update")
	if err != nil {
		return nil, err
	}
	updated := *existing
	fields := map[string]string{}
	setText := func(name string, target *string, value *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			fields[name] = name + " cannot be empty"
			return
		}
		*target = trimmed
	}
	setText("company_name", &updated.CompanyName, patch.CompanyName)
	setText("title", &updated.Title, patch.Title)
	setText("description", &updated.Description, patch.Description)
	setText("location", &updated.Location, patch.Location)
	setText("duration", &updated.Duration, patch.Duration)
	setText("internship_domain", &updated.Domain, patch.Domain)
	if patch.Stipend != nil {
		updated.Stipend = strings.TrimSpace(*patch.Stipend)
		if updated.Stipend == "" {
			updated.Stipend = internship.DefaultStipend
		}
	}
	if patch.WorkType != nil {
		workType, ok := internship.ParseWorkType(*patch.WorkType)
		if !ok {
			fields["work_type"] = "work_type must be Remote, Hybrid or In-office"
		}
		updated.WorkType = workType
	}
	if patch.Status != nil {
		status, ok := internship.ParseStatus(*patch.Status)
		if !ok {
			fields["status"] = "status must be active, closed, filled or draft"
		}
		updated.Status = status
	}
	if patch.ApplicationDeadline != nil {
		deadline, ok := parseDate(*patch.ApplicationDeadline)
		if !ok {
			fields["application_deadline"] = "invalid date"
		}
		updated.ApplicationDeadline = deadline
	}
	if patch.Positions != nil {
		if *patch.Positions < 1 {
			fields["positions"] = "positions must be at least 1"
		}
		updated.Positions = *patch.Positions
	}
	if patch.SkillsRequired != nil {
		updated.SkillsRequired = common.CleanList(*patch.SkillsRequired)
	}
	if patch.Responsibilities != nil {
		updated.Responsibilities = common.CleanList(*patch.Responsibilities)
	}
	if patch.WhoCanApply != nil {
		updated.WhoCanApply = common.CleanList(*patch.WhoCanApply)
	}
	if patch.Perks != nil {
		updated.Perks = common.CleanList(*patch.Perks)
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid internship", fields)
	}
	return s.internships.Update(ctx, updated)
}

func (s *InternshipService) Delete(ctx context.Context, caller account.Account, id common.UUID) error {
	if _, err := s.owned(ctx, caller, id, "delete"); err != nil {
		return err
	}
	if err := s.internships.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("internship deleted", "internship_id", id.String(), "company_id", caller.ID.String())
	return nil
}

func (s *InternshipService) owned(ctx context.Context, caller account.Account, id common.UUID, action string) (*internship.Internship, error) {
	existing, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.OwnedBy(caller.ID) {
		return nil, common.NewError(common.CodeForbidden, "user not authorized to "+action+" this internship", nil)
	}
	if err := requireRole(caller, account.RoleCompany, "only company users can "+action+" internships"); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *InternshipService) Search(ctx context.Context, filter internship.SearchFilter) (*internship.SearchResult, error) {
	page := filter.NormalizedPage()
	filter.Page = page
	items, count, err := s.internships.Search(ctx, filter, s.now())
	if err != nil {
		return nil, err
	}
	return &internship.SearchResult{Internships: items, Page: page, Pages: internship.TotalPages(count)}, nil
}

func (s *InternshipService) Get(ctx context.Context, id common.UUID) (*internship.Internship, error) {
	return s.internships.GetDetailed(ctx, id)
}

func (s *InternshipService) ListMine(ctx context.Context, caller account.Account) ([]internship.Internship, error) {
	if err := requireRole(caller, account.RoleCompany, "only company users can list their internships"); err != nil {
		return nil, err
	}
	return s.internships.ListByCompany(ctx, caller.ID)
}
