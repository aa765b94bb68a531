package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/application"
	"internsaathi/internal/domain/internship"
)

const applicationColumns = `ap.id, ap.internship_id, ap.applicant_id, ap.company_id, ap.college_id, ap.cover_letter, ap.resume_url, ap.linkedin_url, ap.github_url,
	ap.status, ap.applied_at, ap.created_at, ap.updated_at`

// Applications whose internship has been deleted drop out of the inner join.
const applicationViewQuery = `SELECT ` + applicationColumns + `,
	i.id, i.title, i.company_name, i.location, i.application_deadline,
	s.id, s.name, s.email, COALESCE(s.student_id, ''), s.major,
	c.id, c.name, c.email, c.company_name, c.company_logo
	FROM applications ap
	JOIN internships i ON i.id = ap.internship_id
	JOIN accounts s ON s.id = ap.applicant_id
	JOIN accounts c ON c.id = ap.company_id`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func scanApplication(scanner rowScanner, extra ...interface{}) (*application.Application, error) {
	var app application.Application
	dest := []interface{}{&app.ID, &app.InternshipID, &app.ApplicantID, &app.CompanyID, &app.CollegeID, &app.CoverLetter, &app.ResumeURL, &app.LinkedinURL, &app.GithubURL,
		&app.Status, &app.AppliedAt, &app.CreatedAt, &app.UpdatedAt}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, internship_id, applicant_id, company_id, college_id, cover_letter, resume_url, linkedin_url, github_url, status, applied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		app.ID, app.InternshipID, app.ApplicantID, app.CompanyID, app.CollegeID, app.CoverLetter, app.ResumeURL, app.LinkedinURL, app.GithubURL,
		app.Status, app.AppliedAt, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return nil, common.NewError(common.CodeConflict, "you have already applied to this internship", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications ap WHERE ap.id = $1`, id)
	return scanOneApplication(row)
}

func (r *ApplicationRepository) FindByInternshipAndApplicant(ctx context.Context, internshipID, applicantID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications ap WHERE ap.internship_id = $1 AND ap.applicant_id = $2`, internshipID, applicantID)
	return scanOneApplication(row)
}

func scanOneApplication(row *sql.Row) (*application.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE applications ap SET status = $1, updated_at = $2 WHERE ap.id = $3 RETURNING `+applicationColumns,
		status, time.Now().UTC(), id)
	return scanOneApplication(row)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.View, error) {
	return r.listViews(ctx, ` WHERE ap.applicant_id = $1`, applicantID)
}

func (r *ApplicationRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]application.View, error) {
	return r.listViews(ctx, ` WHERE ap.company_id = $1`, companyID)
}

func (r *ApplicationRepository) ListByCollege(ctx context.Context, collegeID common.UUID) ([]application.View, error) {
	return r.listViews(ctx, ` WHERE ap.college_id = $1`, collegeID)
}

func (r *ApplicationRepository) ListByInternship(ctx context.Context, internshipID common.UUID) ([]application.View, error) {
	return r.listViews(ctx, ` WHERE ap.internship_id = $1`, internshipID)
}

func (r *ApplicationRepository) listViews(ctx context.Context, where string, arg interface{}) ([]application.View, error) {
	rows, err := r.db.QueryContext(ctx, applicationViewQuery+where+` ORDER BY ap.applied_at DESC`, arg)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := []application.View{}
	for rows.Next() {
		var summary internship.Summary
		var applicant account.ApplicantSummary
		var company account.CompanySummary
		app, err := scanApplication(rows,
			&summary.ID, &summary.Title, &summary.CompanyName, &summary.Location, &summary.ApplicationDeadline,
			&applicant.ID, &applicant.Name, &applicant.Email, &applicant.StudentID, &applicant.Major,
			&company.ID, &company.Name, &company.Email, &company.CompanyName, &company.CompanyLogo)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, application.View{Application: *app, Internship: &summary, Applicant: &applicant, Company: &company})
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}
