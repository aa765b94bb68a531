package http

import (
	"net/http"
	"strings"
	"time"

	"internsaathi/internal/domain/account"
	"internsaathi/internal/http/handlers"
	"internsaathi/internal/http/metrics"
	httpmw "internsaathi/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	InternshipHandler   *handlers.InternshipHandler
	ApplicationHandler  *handlers.ApplicationHandler
	AvailabilityHandler *handlers.AvailabilityHandler
	DirectoryHandler    *handlers.DirectoryHandler
	AdminHandler        *handlers.AdminHandler
	UploadHandler       *handlers.UploadHandler
	AuthMiddleware      *httpmw.AuthMiddleware
	Metrics             *metrics.Collector
	RequestTimeout      time.Duration
	CORSOrigins         []string
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

// Multipart uploads carry a file of up to handlers.MaxUploadBytes plus form fields.
const maxBodyBytes = handlers.MaxUploadBytes + 1<<20

func NewRouter(deps RouterDependencies) http.Handler {
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(http.HandlerFunc(r.route),
		httpmw.RequestID,
		httpmw.Logging,
		httpmw.Recover,
		httpmw.Metrics(deps.Metrics),
		httpmw.CORS(deps.CORSOrigins),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) route(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimSuffix(req.URL.Path, "/")
	if path == "" {
		path = "/"
	}
	method := req.Method

	switch {
	case method == http.MethodGet && path == "/health":
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	case method == http.MethodGet && path == "/metrics" && r.deps.Metrics != nil:
		r.deps.Metrics.Handler().ServeHTTP(w, req)
		return
	case method == http.MethodPost && path == "/api/auth/register":
		r.deps.AuthHandler.Register(w, req)
		return
	case method == http.MethodPost && path == "/api/auth/login":
		r.deps.AuthHandler.Login(w, req)
		return
	case method == http.MethodGet && path == "/api/internships":
		r.deps.InternshipHandler.Search(w, req)
		return
	case method == http.MethodGet && path != "/api/internships/my-internships" && segments(path, "api", "internships", "*"):
		r.deps.InternshipHandler.Get(w, req)
		return
	case method == http.MethodPost && path == "/api/upload/register":
		r.deps.UploadHandler.Upload(w, req)
		return
	}

	if strings.HasPrefix(path, "/api/") {
		r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.protected(w, req, path)
		})).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

func (r *Router) protected(w http.ResponseWriter, req *http.Request, path string) {
	method := req.Method
	only := func(role account.Role, h http.HandlerFunc) {
		httpmw.RequireRole(role)(h).ServeHTTP(w, req)
	}

	switch {
	case method == http.MethodGet && path == "/api/auth/me":
		r.deps.AuthHandler.Me(w, req)
	case method == http.MethodPut && path == "/api/auth/profile":
		r.deps.AuthHandler.UpdateProfile(w, req)
	case method == http.MethodGet && path == "/api/auth/college/students":
		only(account.RoleCollege, r.deps.AuthHandler.CollegeStudents)

	case method == http.MethodGet && path == "/api/internships/my-internships":
		only(account.RoleCompany, r.deps.InternshipHandler.ListMine)
	case method == http.MethodPost && path == "/api/internships":
		only(account.RoleCompany, r.deps.InternshipHandler.Create)
	case method == http.MethodPut && segments(path, "api", "internships", "*"):
		only(account.RoleCompany, r.deps.InternshipHandler.Update)
	case method == http.MethodDelete && segments(path, "api", "internships", "*"):
		only(account.RoleCompany, r.deps.InternshipHandler.Delete)

	case method == http.MethodGet && path == "/api/applications/student/my-applications":
		only(account.RoleStudent, r.deps.ApplicationHandler.ListStudent)
	case method == http.MethodGet && path == "/api/applications/company/my-applications":
		only(account.RoleCompany, r.deps.ApplicationHandler.ListCompany)
	case method == http.MethodGet && path == "/api/applications/college/my-applications":
		only(account.RoleCollege, r.deps.ApplicationHandler.ListCollege)
	case method == http.MethodGet && segments(path, "api", "applications", "internship", "*"):
		only(account.RoleCompany, r.deps.ApplicationHandler.ListInternship)
	case method == http.MethodPut && segments(path, "api", "applications", "*", "status"):
		only(account.RoleCompany, r.deps.ApplicationHandler.UpdateStatus)
	case method == http.MethodGet && segments(path, "api", "applications", "*", "download"):
		only(account.RoleCompany, r.deps.ApplicationHandler.DownloadResume)
	case method == http.MethodPost && segments(path, "api", "applications", "*"):
		only(account.RoleStudent, r.deps.ApplicationHandler.Submit)

	case method == http.MethodGet && path == "/api/availability":
		only(account.RoleCollege, r.deps.AvailabilityHandler.List)
	case method == http.MethodPost && path == "/api/availability":
		only(account.RoleCollege, r.deps.AvailabilityHandler.Create)
	case method == http.MethodDelete && segments(path, "api", "availability", "*"):
		only(account.RoleCollege, r.deps.AvailabilityHandler.Delete)

	case method == http.MethodGet && path == "/api/colleges":
		only(account.RoleCompany, r.deps.DirectoryHandler.Colleges)
	case method == http.MethodGet && path == "/api/companies":
		only(account.RoleCollege, r.deps.DirectoryHandler.Companies)

	case method == http.MethodPost && path == "/api/upload":
		r.deps.UploadHandler.Upload(w, req)

	case method == http.MethodGet && path == "/api/admin/pending-companies":
		only(account.RoleAdmin, r.deps.AdminHandler.PendingCompanies)
	case method == http.MethodPut && segments(path, "api", "admin", "verify-company", "*"):
		only(account.RoleAdmin, r.deps.AdminHandler.VerifyCompany)

	default:
		http.NotFound(w, req)
	}
}

// segments reports whether path has exactly the given segments, where "*"
// matches any single non-empty segment.
func segments(path string, pattern ...string) bool {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != len(pattern) {
		return false
	}
	for i, want := range pattern {
		if parts[i] == "" || (want != "*" && parts[i] != want) {
			return false
		}
	}
	return true
}
