package account

import "internsaathi/internal/common"

// Projection is the "who am I" view of an account. Only the embedded block
// matching the account's role is set; encoding/json flattens it. CollegeName
// is shared by students and colleges, so it lives at the top level.
type Projection struct {
	ID          common.UUID `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	CollegeName *string     `json:"college_name,omitempty"`
	*StudentFields
	*CompanyFields
	*CollegeFields
}

type StudentFields struct {
	StudentID      string `json:"student_id"`
	Major          string `json:"major"`
	Resume         string `json:"resume"`
	ProfilePicture string `json:"profile_picture"`
}

type CompanyFields struct {
	CompanyName        string             `json:"company_name"`
	CompanyDescription string             `json:"company_description"`
	CompanyLogo        string             `json:"company_logo"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

type CollegeFields struct {
	CollegeLocation string `json:"college_location"`
	CollegeLogo     string `json:"college_logo"`
}

func ProjectForRole(a Account) Projection {
	out := Projection{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role()}
	switch p := a.Profile.(type) {
	case *StudentProfile:
		collegeName := p.CollegeName
		out.CollegeName = &collegeName
		out.StudentFields = &StudentFields{
			StudentID:      p.StudentID,
			Major:          p.Major,
			Resume:         p.Resume,
			ProfilePicture: p.ProfilePicture,
		}
	case *CompanyProfile:
		out.CompanyFields = &CompanyFields{
			CompanyName:        p.CompanyName,
			CompanyDescription: p.Description,
			CompanyLogo:        p.Logo,
			VerificationStatus: p.VerificationStatus,
		}
	case *CollegeProfile:
		collegeName := p.CollegeName
		out.CollegeName = &collegeName
		out.CollegeFields = &CollegeFields{
			CollegeLocation: p.Location,
			CollegeLogo:     p.Logo,
		}
	case *AdminProfile, nil:
	}
	return out
}

// CompanySummary is the company view joined into postings and applications.
type CompanySummary struct {
	ID                 common.UUID `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	CompanyName        string      `json:"company_name"`
	CompanyDescription string      `json:"company_description,omitempty"`
	CompanyLogo        string      `json:"company_logo"`
}

// ApplicantSummary is the student view joined into applications.
type ApplicantSummary struct {
	ID        common.UUID `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	StudentID string      `json:"student_id"`
	Major     string      `json:"major"`
}

// PendingCompany is what an administrator reviews before approval.
type PendingCompany struct {
	ID                   common.UUID `json:"id"`
	Name                 string      `json:"name"`
	Email                string      `json:"email"`
	CompanyName          string      `json:"company_name"`
	VerificationDocument string      `json:"verification_document"`
}

// CollegeListing is a college as seen by companies browsing the directory.
type CollegeListing struct {
	ID          common.UUID `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	CollegeLogo string      `json:"college_logo"`
	Location    string      `json:"location"`
}

// CompanyListing is a company as seen by colleges browsing the directory.
type CompanyListing struct {
	ID                 common.UUID `json:"id"`
	Email              string      `json:"email"`
	CompanyName        string      `json:"company_name"`
	CompanyDescription string      `json:"company_description"`
	CompanyLogo        string      `json:"company_logo"`
}
