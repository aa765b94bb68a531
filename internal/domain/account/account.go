package account

import (
	"strings"
	"time"

	"internsaathi/internal/common"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
	RoleCollege Role = "college"
	RoleAdmin   Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleStudent, RoleCompany, RoleCollege, RoleAdmin:
		return role, true
	default:
		return "", false
	}
}

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationApproved   VerificationStatus = "approved"
	VerificationRejected   VerificationStatus = "rejected"
)

// Account is any registered party. The role is carried by the concrete Profile.
type Account struct {
	ID           common.UUID
	Name         string
	Email        string
	PasswordHash string
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Account) Role() Role {
	if a.Profile == nil {
		return ""
	}
	return a.Profile.Role()
}

// Company returns the company profile when the account is a company.
func (a Account) Company() (*CompanyProfile, bool) {
	p, ok := a.Profile.(*CompanyProfile)
	return p, ok
}

func (a Account) Student() (*StudentProfile, bool) {
	p, ok := a.Profile.(*StudentProfile)
	return p, ok
}

func (a Account) College() (*CollegeProfile, bool) {
	p, ok := a.Profile.(*CollegeProfile)
	return p, ok
}

// IsApprovedCompany is the gate consulted before a company may publish postings.
func (a Account) IsApprovedCompany() bool {
	company, ok := a.Company()
	return ok && company.VerificationStatus == VerificationApproved
}

// Clone returns a deep copy so callers may mutate the result freely.
func (a Account) Clone() Account {
	out := a
	switch p := a.Profile.(type) {
	case *StudentProfile:
		cp := *p
		out.Profile = &cp
	case *CompanyProfile:
		cp := *p
		out.Profile = &cp
	case *CollegeProfile:
		cp := *p
		out.Profile = &cp
	case *AdminProfile:
		out.Profile = &AdminProfile{}
	}
	return out
}
