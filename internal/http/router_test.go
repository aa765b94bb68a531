package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internsaathi/internal/app"
	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/application"
	"internsaathi/internal/http/handlers"
	"internsaathi/internal/http/metrics"
	httpmw "internsaathi/internal/http/middleware"
	"internsaathi/internal/storage"
)

// memoryAccounts implements the subset of account.Repository the routes below touch.
type memoryAccounts struct {
	account.Repository
	mu       sync.Mutex
	accounts map[common.UUID]account.Account
}

func (m *memoryAccounts) Create(ctx context.Context, a account.Account) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = common.NewUUID()
	m.accounts[a.ID] = a
	return &a, nil
}

func (m *memoryAccounts) GetByID(ctx context.Context, id common.UUID) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "account not found", nil)
	}
	return &a, nil
}

func (m *memoryAccounts) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "account not found", nil)
}

type singleApplication struct {
	application.Repository
	item application.Application
}

func (s singleApplication) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	if id != s.item.ID {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	item := s.item
	return &item, nil
}

type staticStorage struct{}

func (staticStorage) Upload(ctx context.Context, req storage.UploadRequest) (*storage.UploadResult, error) {
	return &storage.UploadResult{URL: "https://cdn.test/" + req.Folder + "/" + req.Filename}, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Verify(p, digest string) (bool, error) { return digest == "h:"+p, nil }

type idTokens struct{}

func (idTokens) Issue(id common.UUID) (string, time.Time, error) {
	return id.String(), time.Now().Add(time.Hour), nil
}

func (idTokens) Verify(token string) (common.UUID, error) {
	return common.ParseUUID(token)
}

type fixture struct {
	router   http.Handler
	accounts *memoryAccounts
	company  account.Account
	student  account.Account
	app      application.Application
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts := &memoryAccounts{accounts: map[common.UUID]account.Account{}}
	company := account.Account{ID: common.NewUUID(), Name: "Acme HR", Email: "hr@acme.test", Profile: &account.CompanyProfile{CompanyName: "Acme", Description: "d", VerificationStatus: account.VerificationApproved}}
	student := account.Account{ID: common.NewUUID(), Name: "Sam", Email: "sam@example.com", Profile: &account.StudentProfile{StudentID: "S-1", Major: "CS"}}
	accounts.accounts[company.ID] = company
	accounts.accounts[student.ID] = student
	submitted := application.Application{ID: common.NewUUID(), CompanyID: company.ID, ApplicantID: student.ID, ResumeURL: "https://cdn.test/internsaathi_resumes/resume_1.pdf?v=2"}

	auth := app.NewAuthService(accounts, plainHasher{}, idTokens{}, nil)
	directory := app.NewDirectoryService(accounts, nil)
	applications := app.NewApplicationService(singleApplication{item: submitted}, nil, accounts, staticStorage{}, nil)
	limiter := httpmw.NewRateLimiter()

	router := NewRouter(RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(auth, directory, limiter),
		InternshipHandler:   handlers.NewInternshipHandler(app.NewInternshipService(nil, nil)),
		ApplicationHandler:  handlers.NewApplicationHandler(applications, limiter),
		AvailabilityHandler: handlers.NewAvailabilityHandler(app.NewAvailabilityService(nil)),
		DirectoryHandler:    handlers.NewDirectoryHandler(directory),
		AdminHandler:        handlers.NewAdminHandler(app.NewVerificationService(accounts, nil)),
		UploadHandler:       handlers.NewUploadHandler(app.NewUploadService(staticStorage{}, nil), limiter),
		AuthMiddleware:      httpmw.NewAuthMiddleware(auth),
		Metrics:             metrics.NewCollector(),
		RequestTimeout:      5 * time.Second,
	})
	return &fixture{router: router, accounts: accounts, company: company, student: student, app: submitted}
}

func (f *fixture) do(method, path string, body []byte, contentType string, caller *account.Account) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if caller != nil {
		req.Header.Set("Authorization", "Bearer "+caller.ID.String())
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, data []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes(), writer.FormDataContentType()
}

func TestPublicRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", nil, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(httpmw.RequestIDHeader))

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nope", nil, "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/internships/not-a-uuid", nil, "", nil).Code)

	rec = f.do(http.MethodGet, "/metrics", nil, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "internsaathi_http_requests_total")
}

func TestProtectedRoutesCheckTokenAndRole(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/auth/me", nil, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/internships/my-internships", nil, "", &f.student).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/admin/pending-companies", nil, "", &f.company).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/colleges", nil, "", &f.student).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPatch, "/api/auth/me", nil, "", &f.student).Code)

	rec := f.do(http.MethodGet, "/api/auth/me", nil, "", &f.student)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "student", me["role"])
	assert.Equal(t, "S-1", me["student_id"])
}

func TestRegisterReturnsTokenAndProjection(t *testing.T) {
	f := newFixture(t)
	body := []byte(`{"name":"Acme","email":"jobs@acme.test","password":"secret1","role":"company","company_name":"Acme","company_description":"Widgets","verification_document":"https://cdn.test/doc.pdf"}`)

	rec := f.do(http.MethodPost, "/api/auth/register", body, "application/json", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result["token"])
	assert.Equal(t, "pending", result["verification_status"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = f.do(http.MethodPost, "/api/auth/register", body, "application/json", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/register", []byte(`{"name":`), "application/json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadResumeRedirects(t *testing.T) {
	f := newFixture(t)
	path := "/api/applications/" + f.app.ID.String() + "/download"

	rec := f.do(http.MethodGet, path, nil, "", &f.company)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, f.app.ResumeURL, rec.Header().Get("Location"))
	assert.Equal(t, `attachment; filename="resume_1.pdf"`, rec.Header().Get("Content-Disposition"))

	other := account.Account{ID: common.NewUUID(), Name: "Other", Email: "o@o.test", Profile: &account.CompanyProfile{CompanyName: "O", Description: "d"}}
	f.accounts.accounts[other.ID] = other
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, path, nil, "", &other).Code)
}

func TestSubmitRequiresResumeFile(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartBody(t, map[string]string{"coverLetter": "Hire me"}, "", "", nil)

	rec := f.do(http.MethodPost, "/api/applications/"+common.NewUUID().String(), body, contentType, &f.student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume")
}

func TestPublicUploadReturnsURL(t *testing.T) {
	f := newFixture(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 16)...)
	body, contentType := multipartBody(t, nil, "image", "logo.png", png)

	rec := f.do(http.MethodPost, "/api/upload/register", body, contentType, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "File uploaded successfully", result["message"])
	assert.True(t, strings.HasSuffix(result["image_url"], "/logo.png"))

	body, contentType = multipartBody(t, nil, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/upload/register", body, contentType, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/upload", body, contentType, nil).Code)
}

func TestSegments(t *testing.T) {
	assert.True(t, segments("/api/applications/abc/status", "api", "applications", "*", "status"))
	assert.False(t, segments("/api/applications/abc", "api", "applications", "*", "status"))
	assert.False(t, segments("/api/applications//status", "api", "applications", "*", "status"))
}
