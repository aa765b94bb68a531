package internship

import (
	"strings"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusFilled Status = "filled"
	StatusDraft  Status = "draft"
)

type WorkType string

const (
	WorkRemote   WorkType = "Remote"
	WorkHybrid   WorkType = "Hybrid"
	WorkInOffice WorkType = "In-office"
)

const DefaultStipend = "Unpaid"

type Internship struct {
	ID                  common.UUID   `json:"id"`
	CompanyID           common.UUID   `json:"company_id"`
	CompanyName         string        `json:"company_name"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Location            string        `json:"location"`
	WorkType            WorkType      `json:"work_type"`
	Stipend             string        `json:"stipend"`
	Duration            string        `json:"duration"`
	Domain              string        `json:"internship_domain"`
	ApplicationDeadline time.Time     `json:"application_deadline"`
	SkillsRequired      []string      `json:"skills_required"`
	Responsibilities    []string      `json:"responsibilities"`
	WhoCanApply         []string      `json:"who_can_apply"`
	Perks               []string      `json:"perks"`
	Positions           int           `json:"positions"`
	Status              Status        `json:"status"`
	Applicants          []common.UUID `json:"applicants"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`

	CompanyLogo string                  `json:"company_logo"`
	Company     *account.CompanySummary `json:"company,omitempty"`
}

func (i Internship) OwnedBy(id common.UUID) bool {
	return i.CompanyID == id
}

// DeadlinePassed reports whether now is strictly after the application deadline.
func (i Internship) DeadlinePassed(now time.Time) bool {
	return now.After(i.ApplicationDeadline)
}

// Summary is the internship view joined into application listings.
type Summary struct {
	ID                  common.UUID `json:"id"`
	Title               string      `json:"title"`
	CompanyName         string      `json:"company_name"`
	Location            string      `json:"location"`
	ApplicationDeadline time.Time   `json:"application_deadline"`
}

func ParseWorkType(value string) (WorkType, bool) {
	trimmed := strings.TrimSpace(value)
	for _, wt := range []WorkType{WorkRemote, WorkHybrid, WorkInOffice} {
		if strings.EqualFold(trimmed, string(wt)) {
			return wt, true
		}
	}
	return "", false
}

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusActive, StatusClosed, StatusFilled, StatusDraft:
		return status, true
	default:
		return "", false
	}
}
