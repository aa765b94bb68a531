package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/application"
	"internsaathi/internal/domain/availability"
	"internsaathi/internal/domain/internship"
	"internsaathi/internal/storage"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[common.UUID]account.Account
	seq      int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[common.UUID]account.Account)}
}

// add stores a fixed account, with creation order following insertion order.
func (r *fakeAccountRepo) add(a account.Account) account.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = common.NewUUID()
	}
	r.seq++
	a.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	r.accounts[a.ID] = a.Clone()
	return a
}

func (r *fakeAccountRepo) Create(ctx context.Context, a account.Account) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}
	a.ID = common.NewUUID()
	r.seq++
	a.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	a.UpdatedAt = a.CreatedAt
	r.accounts[a.ID] = a.Clone()
	out := a.Clone()
	return &out, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, a account.Account) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "account not found", nil)
	}
	r.accounts[a.ID] = a.Clone()
	out := a.Clone()
	return &out, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id common.UUID) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "account not found", nil)
	}
	out := a.Clone()
	return &out, nil
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			out := a.Clone()
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "account not found", nil)
}

func (r *fakeAccountRepo) sorted() []account.Account {
	items := make([]account.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		items = append(items, a.Clone())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items
}

func (r *fakeAccountRepo) FindCollegeByName(ctx context.Context, collegeName string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.sorted() {
		if college, ok := a.College(); ok && college.CollegeName == collegeName {
			return &a, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "account not found", nil)
}

func (r *fakeAccountRepo) SetVerificationStatus(ctx context.Context, companyID common.UUID, status account.VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[companyID]
	if !ok {
		return common.NewError(common.CodeNotFound, "company not found", nil)
	}
	company, ok := a.Company()
	if !ok {
		return common.NewError(common.CodeNotFound, "company not found", nil)
	}
	company.VerificationStatus = status
	r.accounts[companyID] = a
	return nil
}

func (r *fakeAccountRepo) ListPendingCompanies(ctx context.Context) ([]account.PendingCompany, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []account.PendingCompany{}
	for _, a := range r.sorted() {
		if company, ok := a.Company(); ok && company.VerificationStatus == account.VerificationPending {
			items = append(items, account.PendingCompany{ID: a.ID, Name: a.Name, Email: a.Email, CompanyName: company.CompanyName, VerificationDocument: company.VerificationDocument})
		}
	}
	return items, nil
}

func (r *fakeAccountRepo) ListColleges(ctx context.Context, keyword, location string) ([]account.CollegeListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []account.CollegeListing{}
	for _, a := range r.sorted() {
		college, ok := a.College()
		if !ok {
			continue
		}
		if keyword != "" && !containsFold(college.CollegeName, keyword) && !containsFold(college.Location, keyword) {
			continue
		}
		if location != "" && !containsFold(college.Location, location) {
			continue
		}
		items = append(items, account.CollegeListing{ID: a.ID, Name: college.CollegeName, Email: a.Email, CollegeLogo: college.Logo, Location: college.Location})
	}
	return items, nil
}

func (r *fakeAccountRepo) ListCompanies(ctx context.Context, keyword string) ([]account.CompanyListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []account.CompanyListing{}
	for _, a := range r.sorted() {
		company, ok := a.Company()
		if !ok {
			continue
		}
		if keyword != "" && !containsFold(company.CompanyName, keyword) && !containsFold(company.Description, keyword) {
			continue
		}
		items = append(items, account.CompanyListing{ID: a.ID, Email: a.Email, CompanyName: company.CompanyName, CompanyDescription: company.Description, CompanyLogo: company.Logo})
	}
	return items, nil
}

func (r *fakeAccountRepo) ListStudentsByCollege(ctx context.Context, collegeName string) ([]account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []account.Account{}
	for _, a := range r.sorted() {
		if student, ok := a.Student(); ok && student.CollegeName == collegeName {
			items = append(items, a)
		}
	}
	return items, nil
}

func containsFold(value, sub string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

type fakeInternshipRepo struct {
	mu    sync.Mutex
	items map[common.UUID]internship.Internship
}

func newFakeInternshipRepo() *fakeInternshipRepo {
	return &fakeInternshipRepo{items: make(map[common.UUID]internship.Internship)}
}

func (r *fakeInternshipRepo) Create(ctx context.Context, item internship.Internship) (*internship.Internship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = common.NewUUID()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = item
	return &item, nil
}

func (r *fakeInternshipRepo) Update(ctx context.Context, item internship.Internship) (*internship.Internship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[item.ID]
	if !ok || existing.CompanyID != item.CompanyID {
		return nil, common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	r.items[item.ID] = item
	return &item, nil
}

func (r *fakeInternshipRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeInternshipRepo) GetByID(ctx context.Context, id common.UUID) (*internship.Internship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	item.Applicants = append([]common.UUID(nil), item.Applicants...)
	return &item, nil
}

func (r *fakeInternshipRepo) GetDetailed(ctx context.Context, id common.UUID) (*internship.Internship, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInternshipRepo) Search(ctx context.Context, filter internship.SearchFilter, now time.Time) ([]internship.Internship, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []internship.Internship{}
	for _, item := range r.items {
		if filter.Keyword != "" && !containsFold(item.Title, filter.Keyword) {
			continue
		}
		items = append(items, item)
	}
	return items, len(items), nil
}

func (r *fakeInternshipRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]internship.Internship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []internship.Internship{}
	for _, item := range r.items {
		if item.CompanyID == companyID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeInternshipRepo) AddApplicant(ctx context.Context, id, applicantID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil
	}
	for _, existing := range item.Applicants {
		if existing == applicantID {
			return nil
		}
	}
	item.Applicants = append(item.Applicants, applicantID)
	r.items[id] = item
	return nil
}

type fakeApplicationRepo struct {
	mu          sync.Mutex
	items       map[common.UUID]application.Application
	internships *fakeInternshipRepo
}

func newFakeApplicationRepo(internships *fakeInternshipRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{items: make(map[common.UUID]application.Application), internships: internships}
}

// Create enforces the (internship, applicant) uniqueness like the database index.
func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.InternshipID == app.InternshipID && existing.ApplicantID == app.ApplicantID {
			return nil, common.NewError(common.CodeConflict, "you have already applied to this internship", nil)
		}
	}
	app.ID = common.NewUUID()
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt
	r.items[app.ID] = app
	return &app, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return &app, nil
}

func (r *fakeApplicationRepo) FindByInternshipAndApplicant(ctx context.Context, internshipID, applicantID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.items {
		if app.InternshipID == internshipID && app.ApplicantID == applicantID {
			return &app, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	r.items[id] = app
	return &app, nil
}

func (r *fakeApplicationRepo) list(ctx context.Context, keep func(application.Application) bool) ([]application.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	views := []application.View{}
	for _, app := range r.items {
		if !keep(app) {
			continue
		}
		posting, err := r.internships.GetByID(ctx, app.InternshipID)
		if err != nil {
			continue
		}
		views = append(views, application.View{Application: app, Internship: &internship.Summary{ID: posting.ID, Title: posting.Title}})
	}
	return views, nil
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.View, error) {
	return r.list(ctx, func(a application.Application) bool { return a.ApplicantID == applicantID })
}

func (r *fakeApplicationRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]application.View, error) {
	return r.list(ctx, func(a application.Application) bool { return a.CompanyID == companyID })
}

func (r *fakeApplicationRepo) ListByCollege(ctx context.Context, collegeID common.UUID) ([]application.View, error) {
	return r.list(ctx, func(a application.Application) bool { return a.CollegeID != nil && *a.CollegeID == collegeID })
}

func (r *fakeApplicationRepo) ListByInternship(ctx context.Context, internshipID common.UUID) ([]application.View, error) {
	return r.list(ctx, func(a application.Application) bool { return a.InternshipID == internshipID })
}

func (r *fakeApplicationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakePeriodRepo struct {
	mu    sync.Mutex
	items map[common.UUID]availability.Period
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{items: make(map[common.UUID]availability.Period)}
}

func (r *fakePeriodRepo) Create(ctx context.Context, p availability.Period) (*availability.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = common.NewUUID()
	r.items[p.ID] = p
	return &p, nil
}

func (r *fakePeriodRepo) GetByID(ctx context.Context, id common.UUID) (*availability.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "availability period not found", nil)
	}
	return &p, nil
}

func (r *fakePeriodRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.NewError(common.CodeNotFound, "availability period not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakePeriodRepo) ListByCollege(ctx context.Context, collegeID common.UUID) ([]availability.Period, error) {
	grouped, _ := r.ListByColleges(ctx, []common.UUID{collegeID})
	if grouped[collegeID] == nil {
		return []availability.Period{}, nil
	}
	return grouped[collegeID], nil
}

func (r *fakePeriodRepo) ListByColleges(ctx context.Context, collegeIDs []common.UUID) (map[common.UUID][]availability.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[common.UUID]bool{}
	for _, id := range collegeIDs {
		wanted[id] = true
	}
	out := map[common.UUID][]availability.Period{}
	for _, p := range r.items {
		if wanted[p.CollegeID] {
			out[p.CollegeID] = append(out[p.CollegeID], p)
		}
	}
	for id := range out {
		periods := out[id]
		sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
	}
	return out, nil
}

type fakeStorage struct {
	mu       sync.Mutex
	err      error
	requests []storage.UploadRequest
}

func (s *fakeStorage) Upload(ctx context.Context, req storage.UploadRequest) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &storage.UploadResult{URL: "https://cdn.test/" + req.Folder + "/" + req.PublicID + ".pdf", PublicID: req.PublicID}, nil
}

func (s *fakeStorage) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Verify(plaintext, digest string) (bool, error) {
	return digest == "hashed:"+plaintext, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID common.UUID) (string, time.Time, error) {
	return "token:" + userID.String(), time.Now().Add(time.Hour), nil
}

func (fakeTokens) Verify(token string) (common.UUID, error) {
	if !strings.HasPrefix(token, "token:") {
		return "", common.NewError(common.CodeUnauthorized, "bad token", nil)
	}
	return common.UUID(strings.TrimPrefix(token, "token:")), nil
}

func student(collegeName string) account.Account {
	return account.Account{ID: common.NewUUID(), Name: "Sam", Email: "sam@example.com", Profile: &account.StudentProfile{StudentID: "S-1", Major: "CS", CollegeName: collegeName}}
}

func company(status account.VerificationStatus) account.Account {
	return account.Account{ID: common.NewUUID(), Name: "Acme HR", Email: "hr@acme.test", Profile: &account.CompanyProfile{CompanyName: "Acme", Description: "Widgets", VerificationStatus: status, VerificationDocument: "doc.pdf"}}
}

func college(name string) account.Account {
	return account.Account{ID: common.NewUUID(), Name: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@college.test", Profile: &account.CollegeProfile{CollegeName: name, Location: "Delhi"}}
}

func admin() account.Account {
	return account.Account{ID: common.NewUUID(), Name: "Root", Email: "root@example.com", Profile: &account.AdminProfile{}}
}
