package app

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/application"
	"internsaathi/internal/domain/internship"
	"internsaathi/internal/storage"
)

const resumeFolder = "internsaathi_resumes"

type ApplicationService struct {
	repo        application.Repository
	internships internship.Repository
	accounts    account.Repository
	storage     ObjectStorage
	logger      Logger
	clock       func() time.Time
}

func NewApplicationService(repo application.Repository, internships internship.Repository, accounts account.Repository, files ObjectStorage, logger Logger) *ApplicationService {
	return &ApplicationService{
		repo:        repo,
		internships: internships,
		accounts:    accounts,
		storage:     files,
		logger:      loggerOrNop(logger),
		clock:       time.Now,
	}
}

type SubmitInput struct {
	CoverLetter string `json:"cover_letter" validate:"required"`
	LinkedinURL string `json:"linkedin_url" validate:"omitempty,url"`
	GithubURL   string `json:"github_url" validate:"omitempty,url"`
	Resume      *File  `json:"-"`
}

// Submit files a student's application. Nothing is persisted when the resume upload fails.
func (s *ApplicationService) Submit(ctx context.Context, caller account.Account, internshipID common.UUID, input SubmitInput) (*application.Application, error) {
	student, ok := caller.Student()
	if !ok {
		return nil, common.NewError(common.CodeForbidden, "only student users can apply for internships", nil)
	}
	input.CoverLetter = strings.TrimSpace(input.CoverLetter)
	input.LinkedinURL = strings.TrimSpace(input.LinkedinURL)
	input.GithubURL = strings.TrimSpace(input.GithubURL)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Resume.empty() {
		return nil, common.NewValidationError("please upload a resume file", map[string]string{"resume": "resume is required"})
	}
	posting, err := s.internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByInternshipAndApplicant(ctx, internshipID, caller.ID); err == nil {
		return nil, common.NewError(common.CodeConflict, "you have already applied to this internship", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	collegeID := s.resolveCollege(ctx, student.CollegeName)

	uploaded, err := s.storage.Upload(ctx, storage.UploadRequest{
		Data:         input.Resume.Data,
		Filename:     input.Resume.Name,
		Folder:       resumeFolder,
		PublicID:     resumePublicID(internshipID, caller.ID),
		ResourceType: "auto",
	})
	if err != nil {
		s.logger.Error("resume upload failed", "internship_id", internshipID.String(), "applicant_id", caller.ID.String(), "error", err)
		return nil, common.NewError(common.CodeUploadFailed, "file upload failed", err)
	}

	created, err := s.repo.Create(ctx, application.Application{
		InternshipID: internshipID,
		ApplicantID:  caller.ID,
		CompanyID:    posting.CompanyID,
		CollegeID:    collegeID,
		CoverLetter:  input.CoverLetter,
		ResumeURL:    uploaded.URL,
		LinkedinURL:  input.LinkedinURL,
		GithubURL:    input.GithubURL,
		Status:       application.StatusPending,
		AppliedAt:    s.clock().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.internships.AddApplicant(ctx, internshipID, caller.ID); err != nil {
		s.logger.Error("failed to record applicant on internship", "internship_id", internshipID.String(), "applicant_id", caller.ID.String(), "error", err)
	}
	s.logger.Info("application submitted", "application_id", created.ID.String(), "internship_id", internshipID.String())
	return created, nil
}

// resumePublicID is unique per upload so a rejected duplicate submission
// never replaces a stored resume.
func resumePublicID(internshipID, applicantID common.UUID) string {
	return fmt.Sprintf("resume_%s_%s_%s", internshipID, applicantID, common.NewUUID())
}

// resolveCollege links the application to the earliest registered college
// whose name matches exactly. Lookup failures leave the link empty.
func (s *ApplicationService) resolveCollege(ctx context.Context, collegeName string) *common.UUID {
	collegeName = strings.TrimSpace(collegeName)
	if collegeName == "" {
		return nil
	}
	college, err := s.accounts.FindCollegeByName(ctx, collegeName)
	if err != nil {
		if !common.Is(err, common.CodeNotFound) {
			s.logger.Error("college lookup failed", "college_name", collegeName, "error", err)
		}
		return nil
	}
	id := college.ID
	return &id
}

// UpdateStatus sets any valid status. Accepting is refused once the deadline has passed.
func (s *ApplicationService) UpdateStatus(ctx context.Context, caller account.Account, applicationID common.UUID, status application.Status) (*application.Application, error) {
	if err := requireRole(caller, account.RoleCompany, "only company users can update application status"); err != nil {
		return nil, err
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	posting, err := s.internships.GetByID(ctx, app.InternshipID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "the internship associated with this application no longer exists", err)
		}
		return nil, err
	}
	if app.CompanyID != caller.ID {
		return nil, common.NewError(common.CodeForbidden, "not authorized to update this application", nil)
	}
	status = application.Status(strings.TrimSpace(string(status)))
	if !application.IsKnownStatus(status) {
		return nil, common.NewValidationError("invalid application status provided", map[string]string{"status": "status must be Pending, Reviewed, Accepted, Rejected or Withdrawn"})
	}
	if status == application.StatusAccepted && posting.DeadlinePassed(s.clock()) {
		return nil, common.NewError(common.CodeDeadlinePassed, "the application deadline has passed, you can no longer accept this application", nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application status changed", "application_id", applicationID.String(), "status", string(status))
	return updated, nil
}

func (s *ApplicationService) ListForStudent(ctx context.Context, caller account.Account) ([]application.View, error) {
	if err := requireRole(caller, account.RoleStudent, "only student users can view their submitted applications"); err != nil {
		return nil, err
	}
	return s.repo.ListByApplicant(ctx, caller.ID)
}

func (s *ApplicationService) ListForCompany(ctx context.Context, caller account.Account) ([]application.View, error) {
	if err := requireRole(caller, account.RoleCompany, "only company users can view applications for their internships"); err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, caller.ID)
}

func (s *ApplicationService) ListForCollege(ctx context.Context, caller account.Account) ([]application.View, error) {
	if err := requireRole(caller, account.RoleCollege, "only college users can view applications for their students"); err != nil {
		return nil, err
	}
	return s.repo.ListByCollege(ctx, caller.ID)
}

func (s *ApplicationService) ListForInternship(ctx context.Context, caller account.Account, internshipID common.UUID) ([]application.View, error) {
	if err := requireRole(caller, account.RoleCompany, "only company users can view applicants"); err != nil {
		return nil, err
	}
	posting, err := s.internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if !posting.OwnedBy(caller.ID) {
		return nil, common.NewError(common.CodeForbidden, "not authorized to view applicants for this internship", nil)
	}
	return s.repo.ListByInternship(ctx, internshipID)
}

// Resume is where a stored resume can be fetched and the filename to offer.
type Resume struct {
	URL      string
	Filename string
}

func (s *ApplicationService) ResumeURL(ctx context.Context, caller account.Account, applicationID common.UUID) (*Resume, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CompanyID != caller.ID || caller.Role() != account.RoleCompany {
		return nil, common.NewError(common.CodeForbidden, "not authorized to view this application", nil)
	}
	if strings.TrimSpace(app.ResumeURL) == "" {
		return nil, common.NewError(common.CodeNotFound, "resume file not found for this application", nil)
	}
	return &Resume{URL: app.ResumeURL, Filename: resumeFilename(app.ResumeURL)}, nil
}

func resumeFilename(raw string) string {
	name := ""
	if parsed, err := url.Parse(raw); err == nil {
		name = path.Base(parsed.Path)
	} else {
		name = path.Base(strings.SplitN(raw, "?", 2)[0])
	}
	if name == "" || name == "." || name == "/" {
		return "resume"
	}
	return name
}
