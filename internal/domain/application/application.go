package application

import (
	"context"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/internship"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusReviewed  Status = "Reviewed"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

var Statuses = []Status{StatusPending, StatusReviewed, StatusAccepted, StatusRejected, StatusWithdrawn}

func IsKnownStatus(status Status) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Application struct {
	ID           common.UUID  `json:"id"`
	InternshipID common.UUID  `json:"internship_id"`
	ApplicantID  common.UUID  `json:"applicant_id"`
	CompanyID    common.UUID  `json:"company_id"`
	CollegeID    *common.UUID `json:"college_id"`
	CoverLetter  string       `json:"cover_letter"`
	ResumeURL    string       `json:"resume_url"`
	LinkedinURL  string       `json:"linkedin_url,omitempty"`
	GithubURL    string       `json:"github_url,omitempty"`
	Status       Status       `json:"status"`
	AppliedAt    time.Time    `json:"applied_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// View is an application joined with its related entities. Internship is nil
// when the posting has been deleted since the student applied.
type View struct {
	Application
	Internship *internship.Summary       `json:"internship"`
	Applicant  *account.ApplicantSummary `json:"applicant,omitempty"`
	Company    *account.CompanySummary   `json:"company,omitempty"`
}

type Repository interface {
	// Create fails with a conflict error when (internship, applicant) already exists.
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByInternshipAndApplicant(ctx context.Context, internshipID, applicantID common.UUID) (*Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID common.UUID) ([]View, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]View, error)
	ListByCollege(ctx context.Context, collegeID common.UUID) ([]View, error)
	ListByInternship(ctx context.Context, internshipID common.UUID) ([]View, error)
}
