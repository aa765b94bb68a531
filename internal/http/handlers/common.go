package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"internsaathi/internal/app"
	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/http/middleware"
)

// MaxUploadBytes bounds a single uploaded file.
const MaxUploadBytes = 10 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return common.NewValidationError("request body is required", nil)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.NewValidationError("request body too large", nil)
		case errors.Is(err, io.EOF):
			return common.NewValidationError("request body is required", nil)
		default:
			return common.NewValidationError("invalid json body", nil)
		}
	}
	return nil
}

// idFromPath parses the path segment at index, counting from the first
// segment after the leading slash.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index < 0 || index >= len(parts) {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "id is required"})
	}
	id, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "not authorized", nil)
}

func callerFrom(r *http.Request) (account.Account, error) {
	caller, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		return account.Account{}, errUnauthorized()
	}
	return caller, nil
}

// formFile reads the multipart file stored under field. A missing file is
// reported as nil so services can apply their own required-ness rules.
func formFile(r *http.Request, field string) (*app.File, error) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, common.NewValidationError("file too large", map[string]string{field: "file must be at most 10MB"})
		}
		return nil, common.NewValidationError("invalid multipart form", nil)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, common.NewValidationError("invalid file", map[string]string{field: err.Error()})
	}
	defer file.Close()
	return readFile(file, header, field)
}

func readFile(file multipart.File, header *multipart.FileHeader, field string) (*app.File, error) {
	if header.Size > MaxUploadBytes {
		return nil, common.NewValidationError("file too large", map[string]string{field: "file must be at most 10MB"})
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read upload", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, common.NewValidationError("file too large", map[string]string{field: "file must be at most 10MB"})
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &app.File{Name: header.Filename, ContentType: contentType, Data: data}, nil
}

// formValue returns the first non-empty multipart value among keys.
func formValue(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(r.FormValue(key)); value != "" {
			return value
		}
	}
	return ""
}
