package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
)

const accountColumns = `id, name, email, password_hash, role, student_id, major, college_name, resume, profile_picture,
	company_name, company_description, company_logo, verification_status, verification_document,
	college_location, college_logo, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// accountRow is the flat column layout of an account; fields of other roles stay empty.
type accountRow struct {
	studentID            sql.NullString
	major                string
	collegeName          string
	resume               string
	profilePicture       string
	companyName          string
	companyDescription   string
	companyLogo          string
	verificationStatus   string
	verificationDocument string
	collegeLocation      string
	collegeLogo          string
}

func flatten(a account.Account) accountRow {
	row := accountRow{verificationStatus: string(account.VerificationUnverified)}
	switch p := a.Profile.(type) {
	case *account.StudentProfile:
		row.studentID = sql.NullString{String: p.StudentID, Valid: p.StudentID != ""}
		row.major = p.Major
		row.collegeName = p.CollegeName
		row.resume = p.Resume
		row.profilePicture = p.ProfilePicture
	case *account.CompanyProfile:
		row.companyName = p.CompanyName
		row.companyDescription = p.Description
		row.companyLogo = p.Logo
		row.verificationStatus = string(p.VerificationStatus)
		row.verificationDocument = p.VerificationDocument
	case *account.CollegeProfile:
		row.collegeName = p.CollegeName
		row.collegeLocation = p.Location
		row.collegeLogo = p.Logo
	case *account.AdminProfile:
	}
	return row
}

func (row accountRow) profile(role account.Role) (account.Profile, error) {
	switch role {
	case account.RoleStudent:
		return &account.StudentProfile{
			StudentID:      row.studentID.String,
			Major:          row.major,
			CollegeName:    row.collegeName,
			Resume:         row.resume,
			ProfilePicture: row.profilePicture,
		}, nil
	case account.RoleCompany:
		return &account.CompanyProfile{
			CompanyName:          row.companyName,
			Description:          row.companyDescription,
			Logo:                 row.companyLogo,
			VerificationStatus:   account.VerificationStatus(row.verificationStatus),
			VerificationDocument: row.verificationDocument,
		}, nil
	case account.RoleCollege:
		return &account.CollegeProfile{
			CollegeName: row.collegeName,
			Location:    row.collegeLocation,
			Logo:        row.collegeLogo,
		}, nil
	case account.RoleAdmin:
		return &account.AdminProfile{}, nil
	default:
		return nil, errors.New("unknown role " + string(role))
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(scanner rowScanner) (*account.Account, error) {
	var a account.Account
	var role string
	var row accountRow
	if err := scanner.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &row.studentID, &row.major, &row.collegeName, &row.resume, &row.profilePicture,
		&row.companyName, &row.companyDescription, &row.companyLogo, &row.verificationStatus, &row.verificationDocument,
		&row.collegeLocation, &row.collegeLogo, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	profile, err := row.profile(account.Role(role))
	if err != nil {
		return nil, err
	}
	a.Profile = profile
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a account.Account) (*account.Account, error) {
	a.ID = common.NewUUID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	row := flatten(a)
	_, err := r.db.ExecContext(ctx, `INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Role(), row.studentID, row.major, row.collegeName, row.resume, row.profilePicture,
		row.companyName, row.companyDescription, row.companyLogo, row.verificationStatus, row.verificationDocument,
		row.collegeLocation, row.collegeLogo, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			return nil, duplicateAccount(constraint, err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create account", err)
	}
	return &a, nil
}

func duplicateAccount(constraint string, err error) error {
	if strings.Contains(constraint, "student_id") {
		return &common.Error{Code: common.CodeConflict, Message: "student id already registered", Fields: map[string]string{"student_id": "already registered"}, Err: err}
	}
	return &common.Error{Code: common.CodeConflict, Message: "email already registered", Fields: map[string]string{"email": "already registered"}, Err: err}
}

func (r *AccountRepository) Update(ctx context.Context, a account.Account) (*account.Account, error) {
	a.UpdatedAt = time.Now().UTC()
	row := flatten(a)
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET name = $1, email = $2, password_hash = $3, student_id = $4, major = $5, college_name = $6, resume = $7, profile_picture = $8,
		company_name = $9, company_description = $10, company_logo = $11, verification_status = $12, verification_document = $13,
		college_location = $14, college_logo = $15, updated_at = $16
		WHERE id = $17`,
		a.Name, a.Email, a.PasswordHash, row.studentID, row.major, row.collegeName, row.resume, row.profilePicture,
		row.companyName, row.companyDescription, row.companyLogo, row.verificationStatus, row.verificationDocument,
		row.collegeLocation, row.collegeLogo, a.UpdatedAt, a.ID)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			return nil, duplicateAccount(constraint, err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update account", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "account not found", sql.ErrNoRows)
	}
	return &a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id common.UUID) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return r.scanOne(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	return r.scanOne(row)
}

func (r *AccountRepository) FindCollegeByName(ctx context.Context, collegeName string) (*account.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE role = $1 AND college_name = $2 ORDER BY created_at ASC, id ASC LIMIT 1`, account.RoleCollege, collegeName)
	return r.scanOne(row)
}

func (r *AccountRepository) scanOne(row *sql.Row) (*account.Account, error) {
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "account not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load account", err)
	}
	return a, nil
}

func (r *AccountRepository) SetVerificationStatus(ctx context.Context, companyID common.UUID, status account.VerificationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET verification_status = $1, updated_at = $2 WHERE id = $3 AND role = $4`,
		status, time.Now().UTC(), companyID, account.RoleCompany)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update verification status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "company not found", sql.ErrNoRows)
	}
	return nil
}

func (r *AccountRepository) ListPendingCompanies(ctx context.Context) ([]account.PendingCompany, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, company_name, verification_document FROM accounts
		WHERE role = $1 AND verification_status = $2 ORDER BY created_at ASC`, account.RoleCompany, account.VerificationPending)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list pending companies", err)
	}
	defer rows.Close()
	items := []account.PendingCompany{}
	for rows.Next() {
		var item account.PendingCompany
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.CompanyName, &item.VerificationDocument); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan pending company", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list pending companies", err)
	}
	return items, nil
}

func (r *AccountRepository) ListColleges(ctx context.Context, keyword, location string) ([]account.CollegeListing, error) {
	var c conditions
	c.add("role = " + c.arg(account.RoleCollege))
	if strings.TrimSpace(keyword) != "" {
		p := c.arg(containsPattern(keyword))
		c.add("(college_name ILIKE " + p + " OR college_location ILIKE " + p + ")")
	}
	if strings.TrimSpace(location) != "" {
		c.add("college_location ILIKE " + c.arg(containsPattern(location)))
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, college_name, email, college_logo, college_location FROM accounts`+c.where()+` ORDER BY college_name ASC`, c.args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list colleges", err)
	}
	defer rows.Close()
	items := []account.CollegeListing{}
	for rows.Next() {
		var item account.CollegeListing
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.CollegeLogo, &item.Location); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan college", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list colleges", err)
	}
	return items, nil
}

func (r *AccountRepository) ListCompanies(ctx context.Context, keyword string) ([]account.CompanyListing, error) {
	var c conditions
	c.add("role = " + c.arg(account.RoleCompany))
	if strings.TrimSpace(keyword) != "" {
		p := c.arg(containsPattern(keyword))
		c.add("(company_name ILIKE " + p + " OR company_description ILIKE " + p + ")")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, company_name, company_description, company_logo FROM accounts`+c.where()+` ORDER BY company_name ASC`, c.args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	defer rows.Close()
	items := []account.CompanyListing{}
	for rows.Next() {
		var item account.CompanyListing
		if err := rows.Scan(&item.ID, &item.Email, &item.CompanyName, &item.CompanyDescription, &item.CompanyLogo); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan company", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	return items, nil
}

func (r *AccountRepository) ListStudentsByCollege(ctx context.Context, collegeName string) ([]account.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE role = $1 AND college_name = $2 ORDER BY name ASC`, account.RoleStudent, collegeName)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list students", err)
	}
	defer rows.Close()
	items := []account.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan student", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list students", err)
	}
	return items, nil
}
