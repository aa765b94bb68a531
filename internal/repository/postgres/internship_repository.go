package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/internship"
)

const internshipColumns = `i.id, i.company_id, i.company_name, i.title, i.description, i.location, i.work_type, i.stipend, i.duration, i.internship_domain,
	i.application_deadline, i.skills_required, i.responsibilities, i.who_can_apply, i.perks, i.positions, i.status, i.applicants, i.created_at, i.updated_at`

type InternshipRepository struct {
	db *sql.DB
}

func NewInternshipRepository(db *sql.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

func scanInternship(scanner rowScanner, extra ...interface{}) (*internship.Internship, error) {
	var item internship.Internship
	var applicants []string
	dest := []interface{}{&item.ID, &item.CompanyID, &item.CompanyName, &item.Title, &item.Description, &item.Location, &item.WorkType, &item.Stipend, &item.Duration, &item.Domain,
		&item.ApplicationDeadline, pq.Array(&item.SkillsRequired), pq.Array(&item.Responsibilities), pq.Array(&item.WhoCanApply), pq.Array(&item.Perks), &item.Positions, &item.Status, pq.Array(&applicants), &item.CreatedAt, &item.UpdatedAt}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	item.Applicants = make([]common.UUID, 0, len(applicants))
	for _, id := range applicants {
		item.Applicants = append(item.Applicants, common.UUID(id))
	}
	return &item, nil
}

func uuidStrings(ids []common.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (r *InternshipRepository) Create(ctx context.Context, item internship.Internship) (*internship.Internship, error) {
	item.ID = common.NewUUID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Applicants == nil {
		item.Applicants = []common.UUID{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO internships (id, company_id, company_name, title, description, location, work_type, stipend, duration, internship_domain,
		application_deadline, skills_required, responsibilities, who_can_apply, perks, positions, status, applicants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		item.ID, item.CompanyID, item.CompanyName, item.Title, item.Description, item.Location, item.WorkType, item.Stipend, item.Duration, item.Domain,
		item.ApplicationDeadline, pq.Array(nonNil(item.SkillsRequired)), pq.Array(nonNil(item.Responsibilities)), pq.Array(nonNil(item.WhoCanApply)), pq.Array(nonNil(item.Perks)),
		item.Positions, item.Status, pq.Array(uuidStrings(item.Applicants)), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create internship", err)
	}
	return &item, nil
}

func (r *InternshipRepository) Update(ctx context.Context, item internship.Internship) (*internship.Internship, error) {
	item.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE internships SET company_name = $1, title = $2, description = $3, location = $4, work_type = $5, stipend = $6, duration = $7,
		internship_domain = $8, application_deadline = $9, skills_required = $10, responsibilities = $11, who_can_apply = $12, perks = $13, positions = $14, status = $15, updated_at = $16
		WHERE id = $17 AND company_id = $18`,
		item.CompanyName, item.Title, item.Description, item.Location, item.WorkType, item.Stipend, item.Duration,
		item.Domain, item.ApplicationDeadline, pq.Array(nonNil(item.SkillsRequired)), pq.Array(nonNil(item.Responsibilities)), pq.Array(nonNil(item.WhoCanApply)), pq.Array(nonNil(item.Perks)),
		item.Positions, item.Status, item.UpdatedAt, item.ID, item.CompanyID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update internship", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "internship not found", sql.ErrNoRows)
	}
	return &item, nil
}

func (r *InternshipRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM internships WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete internship", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "internship not found", sql.ErrNoRows)
	}
	return nil
}

func (r *InternshipRepository) GetByID(ctx context.Context, id common.UUID) (*internship.Internship, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+internshipColumns+` FROM internships i WHERE i.id = $1`, id)
	item, err := scanInternship(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "internship not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load internship", err)
	}
	return item, nil
}

func (r *InternshipRepository) GetDetailed(ctx context.Context, id common.UUID) (*internship.Internship, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+internshipColumns+`,
		a.id, COALESCE(a.name, ''), COALESCE(a.email, ''), COALESCE(a.company_name, ''), COALESCE(a.company_description, ''), COALESCE(a.company_logo, '')
		FROM internships i LEFT JOIN accounts a ON a.id = i.company_id WHERE i.id = $1`, id)
	var companyID sql.NullString
	var company account.CompanySummary
	item, err := scanInternship(row, &companyID, &company.Name, &company.Email, &company.CompanyName, &company.CompanyDescription, &company.CompanyLogo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "internship not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load internship", err)
	}
	if companyID.Valid {
		company.ID = common.UUID(companyID.String)
		item.Company = &company
		item.CompanyLogo = company.CompanyLogo
	}
	return item, nil
}

func (r *InternshipRepository) Search(ctx context.Context, filter internship.SearchFilter, now time.Time) ([]internship.Internship, int, error) {
	c := searchConditions(filter, now)

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM internships i`+c.where(), c.args...).Scan(&count); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count internships", err)
	}

	page := filter.NormalizedPage()
	limit := c.arg(internship.PageSize)
	offset := c.arg((page - 1) * internship.PageSize)
	rows, err := r.db.QueryContext(ctx, `SELECT `+internshipColumns+`, COALESCE(a.company_logo, '')
		FROM internships i LEFT JOIN accounts a ON a.id = i.company_id`+c.where()+`
		ORDER BY i.created_at DESC, i.id DESC LIMIT `+limit+` OFFSET `+offset, c.args...)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to search internships", err)
	}
	defer rows.Close()
	items := []internship.Internship{}
	for rows.Next() {
		var logo string
		item, err := scanInternship(rows, &logo)
		if err != nil {
			return nil, 0, common.NewError(common.CodeInternal, "failed to scan internship", err)
		}
		item.CompanyLogo = logo
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to search internships", err)
	}
	return items, count, nil
}

func searchConditions(filter internship.SearchFilter, now time.Time) *conditions {
	c := &conditions{}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		p := c.arg(containsPattern(keyword))
		c.add("(i.title ILIKE " + p + " OR i.description ILIKE " + p + " OR i.location ILIKE " + p + " OR i.internship_domain ILIKE " + p + " OR i.company_name ILIKE " + p + ")")
	}
	if stipend := strings.TrimSpace(filter.Stipend); stipend != "" {
		if floor, ok := internship.StipendFloor(stipend); ok {
			c.add("substring(replace(i.stipend, ',', '') from '[0-9]+')::numeric >= " + c.arg(strconv.FormatInt(floor, 10)) + "::numeric")
		} else {
			c.add("i.stipend ILIKE " + c.arg(containsPattern(stipend)))
		}
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		c.add("i.location ILIKE " + c.arg(containsPattern(location)))
	}
	if duration := strings.TrimSpace(filter.Duration); duration != "" {
		c.add("i.duration ILIKE " + c.arg(containsPattern(duration)))
	}
	if workType := strings.TrimSpace(filter.WorkType); workType != "" {
		c.add("i.work_type ILIKE " + c.arg(containsPattern(workType)))
	}
	if skills := common.CleanList(filter.Skills); len(skills) > 0 {
		patterns := make([]string, 0, len(skills))
		for _, skill := range skills {
			patterns = append(patterns, containsPattern(skill))
		}
		c.add("EXISTS (SELECT 1 FROM unnest(i.skills_required) AS skill WHERE skill ILIKE ANY(" + c.arg(pq.Array(patterns)) + "::text[]))")
	}
	if since, ok := filter.PostedSince(now); ok {
		c.add("i.created_at >= " + c.arg(since))
	}
	return c
}

func (r *InternshipRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]internship.Internship, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+internshipColumns+` FROM internships i WHERE i.company_id = $1 ORDER BY i.created_at DESC`, companyID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list company internships", err)
	}
	defer rows.Close()
	items := []internship.Internship{}
	for rows.Next() {
		item, err := scanInternship(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan internship", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list company internships", err)
	}
	return items, nil
}

// AddApplicant records the applicant on the posting once; repeated calls are no-ops.
func (r *InternshipRepository) AddApplicant(ctx context.Context, id, applicantID common.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE internships SET applicants = array_append(applicants, $1::uuid), updated_at = $2
		WHERE id = $3 AND NOT ($1::uuid = ANY(applicants))`, applicantID, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to record applicant", err)
	}
	return nil
}
