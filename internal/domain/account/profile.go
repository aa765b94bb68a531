package account

import (
	"fmt"
	"strings"

	"internsaathi/internal/common"
)

// Profile is the role-specific half of an Account. Exactly one of the
// variants below implements it; switches over Profile must cover all four.
type Profile interface {
	Role() Role
	validate(fields map[string]string)
}

type StudentProfile struct {
	StudentID      string
	Major          string
	CollegeName    string
	Resume         string
	ProfilePicture string
}

type CompanyProfile struct {
	CompanyName          string
	Description          string
	Logo                 string
	VerificationStatus   VerificationStatus
	VerificationDocument string
}

type CollegeProfile struct {
	CollegeName string
	Location    string
	Logo        string
}

type AdminProfile struct{}

func (*StudentProfile) Role() Role { return RoleStudent }
func (*CompanyProfile) Role() Role { return RoleCompany }
func (*CollegeProfile) Role() Role { return RoleCollege }
func (*AdminProfile) Role() Role   { return RoleAdmin }

func (p *StudentProfile) validate(fields map[string]string) {
	requireField(fields, "student_id", p.StudentID)
	requireField(fields, "major", p.Major)
}

func (p *CompanyProfile) validate(fields map[string]string) {
	requireField(fields, "company_name", p.CompanyName)
	requireField(fields, "company_description", p.Description)
	switch p.VerificationStatus {
	case VerificationUnverified, VerificationPending, VerificationApproved, VerificationRejected:
	default:
		fields["verification_status"] = "invalid verification status"
	}
}

func (p *CollegeProfile) validate(fields map[string]string) {
	requireField(fields, "college_name", p.CollegeName)
	requireField(fields, "college_location", p.Location)
}

func (*AdminProfile) validate(map[string]string) {}

// Validate checks the base fields and the fields required by the account's role.
func Validate(a Account) error {
	return fieldsError(collect(a))
}

// ValidateNew additionally enforces fields only required at registration.
func ValidateNew(a Account) error {
	fields := collect(a)
	if company, ok := a.Company(); ok {
		requireField(fields, "verification_document", company.VerificationDocument)
	}
	return fieldsError(fields)
}

func collect(a Account) map[string]string {
	fields := map[string]string{}
	requireField(fields, "name", a.Name)
	requireField(fields, "email", a.Email)
	if a.Profile == nil {
		fields["role"] = "role is required"
	} else {
		a.Profile.validate(fields)
	}
	return fields
}

func fieldsError(fields map[string]string) error {
	if len(fields) > 0 {
		return common.NewValidationError("invalid account", fields)
	}
	return nil
}

// NewProfile builds the profile variant for role from raw registration attributes.
func NewProfile(role Role, attrs Attributes) (Profile, error) {
	switch role {
	case RoleStudent:
		return &StudentProfile{
			StudentID:   strings.TrimSpace(attrs.StudentID),
			Major:       strings.TrimSpace(attrs.Major),
			CollegeName: strings.TrimSpace(attrs.CollegeName),
		}, nil
	case RoleCompany:
		return &CompanyProfile{
			CompanyName:          strings.TrimSpace(attrs.CompanyName),
			Description:          strings.TrimSpace(attrs.CompanyDescription),
			Logo:                 strings.TrimSpace(attrs.CompanyLogo),
			VerificationStatus:   VerificationPending,
			VerificationDocument: strings.TrimSpace(attrs.VerificationDocument),
		}, nil
	case RoleCollege:
		return &CollegeProfile{
			CollegeName: strings.TrimSpace(attrs.CollegeName),
			Location:    strings.TrimSpace(attrs.CollegeLocation),
			Logo:        strings.TrimSpace(attrs.CollegeLogo),
		}, nil
	case RoleAdmin:
		return &AdminProfile{}, nil
	default:
		return nil, common.NewValidationError("invalid role", map[string]string{"role": fmt.Sprintf("role must be %s, %s, %s or %s", RoleStudent, RoleCompany, RoleCollege, RoleAdmin)})
	}
}

// Attributes is the flat attribute bundle accepted at registration.
type Attributes struct {
	StudentID            string
	Major                string
	CollegeName          string
	CollegeLocation      string
	CollegeLogo          string
	CompanyName          string
	CompanyDescription   string
	CompanyLogo          string
	VerificationDocument string
}

func requireField(fields map[string]string, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields[name] = name + " is required"
	}
}
