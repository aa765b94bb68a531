package app

import (
	"context"
	"strings"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
)

type AuthService struct {
	accounts account.Repository
	hasher   PasswordHasher
	tokens   TokenProvider
	logger   Logger
}

func NewAuthService(accounts account.Repository, hasher PasswordHasher, tokens TokenProvider, logger Logger) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens, logger: loggerOrNop(logger)}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student company college"`

	Attributes account.Attributes `json:"-"`
}

// AuthResult is the caller's projection plus a freshly issued token.
type AuthResult struct {
	account.Projection
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if err := validateInput(input); err != nil {
		return nil, err
	}
	role, _ := account.ParseRole(input.Role)
	profile, err := account.NewProfile(role, input.Attributes)
	if err != nil {
		return nil, err
	}
	candidate := account.Account{Name: input.Name, Email: input.Email, Profile: profile}
	if err := account.ValidateNew(candidate); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return nil, &common.Error{Code: common.CodeConflict, Message: "user already exists", Fields: map[string]string{"email": "already registered"}}
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	candidate.PasswordHash = digest
	created, err := s.accounts.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account registered", "account_id", created.ID.String(), "role", string(role))
	return s.result(*created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	invalid := common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid
	}
	found, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	ok, err := s.hasher.Verify(password, found.PasswordHash)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to verify password", err)
	}
	if !ok {
		return nil, invalid
	}
	return s.result(*found)
}

// Authenticate resolves a bearer token to the current state of its account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*account.Account, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "not authorized, token failed", err)
	}
	found, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "not authorized, account not found", err)
		}
		return nil, err
	}
	return found, nil
}

func (s *AuthService) Me(caller account.Account) account.Projection {
	return account.ProjectForRole(caller)
}

// ProfilePatch merges non-empty fields into the caller's account. Pointer
// fields are applied whenever present, so they can be cleared.
type ProfilePatch struct {
	Name               string  `json:"name"`
	Email              string  `json:"email" validate:"omitempty,email"`
	Password           string  `json:"password" validate:"omitempty,min=6"`
	StudentID          string  `json:"student_id"`
	Major              string  `json:"major"`
	CollegeName        string  `json:"college_name"`
	CollegeLocation    string  `json:"college_location"`
	CompanyName        string  `json:"company_name"`
	CompanyDescription string  `json:"company_description"`
	Resume             *string `json:"resume"`
	ProfilePicture     *string `json:"profile_picture"`
	CompanyLogo        *string `json:"company_logo"`
	CollegeLogo        *string `json:"college_logo"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller account.Account, patch ProfilePatch) (*AuthResult, error) {
	patch.Email = normalizeEmail(patch.Email)
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	current, err := s.accounts.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	updated := current.Clone()
	updated.Name = merge(updated.Name, patch.Name)
	updated.Email = merge(updated.Email, patch.Email)
	switch p := updated.Profile.(type) {
	case *account.StudentProfile:
		p.StudentID = merge(p.StudentID, patch.StudentID)
		p.Major = merge(p.Major, patch.Major)
		p.CollegeName = merge(p.CollegeName, patch.CollegeName)
		p.Resume = mergeClearable(p.Resume, patch.Resume)
		p.ProfilePicture = mergeClearable(p.ProfilePicture, patch.ProfilePicture)
	case *account.CompanyProfile:
		p.CompanyName = merge(p.CompanyName, patch.CompanyName)
		p.Description = merge(p.Description, patch.CompanyDescription)
		p.Logo = mergeClearable(p.Logo, patch.CompanyLogo)
	case *account.CollegeProfile:
		p.CollegeName = merge(p.CollegeName, patch.CollegeName)
		p.Location = merge(p.Location, patch.CollegeLocation)
		p.Logo = mergeClearable(p.Logo, patch.CollegeLogo)
	case *account.AdminProfile:
	}
	if patch.Password != "" {
		digest, err := s.hasher.Hash(patch.Password)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
		}
		updated.PasswordHash = digest
	}
	if err := account.Validate(updated); err != nil {
		return nil, err
	}
	saved, err := s.accounts.Update(ctx, updated)
	if err != nil {
		return nil, err
	}
	return s.result(*saved)
}

// EnsureAdmin creates the administrator account if no account uses email yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	existing, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role() != account.RoleAdmin {
			return common.NewError(common.CodeConflict, "admin email belongs to a non-admin account", nil)
		}
		return nil
	}
	if !common.Is(err, common.CodeNotFound) {
		return err
	}
	if len(password) < 6 {
		return common.NewValidationError("invalid admin", map[string]string{"password": "password must be at least 6"})
	}
	admin := account.Account{Name: strings.TrimSpace(name), Email: email, Profile: &account.AdminProfile{}}
	if admin.Name == "" {
		admin.Name = "Administrator"
	}
	if err := account.Validate(admin); err != nil {
		return err
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	admin.PasswordHash = digest
	created, err := s.accounts.Create(ctx, admin)
	if err != nil {
		return err
	}
	s.logger.Info("admin account created", "account_id", created.ID.String())
	return nil
}

func (s *AuthService) result(a account.Account) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to issue token", err)
	}
	return &AuthResult{Projection: account.ProjectForRole(a), Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func merge(current, next string) string {
	if trimmed := strings.TrimSpace(next); trimmed != "" {
		return trimmed
	}
	return current
}

func mergeClearable(current string, next *string) string {
	if next == nil {
		return current
	}
	return strings.TrimSpace(*next)
}
