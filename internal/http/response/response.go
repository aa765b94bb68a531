package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"internsaathi/internal/common"
)

// ErrorCollector counts responses that ended in a server error.
type ErrorCollector interface {
	IncErrors()
}

var (
	collectorMu sync.RWMutex
	collector   ErrorCollector
)

func SetErrorCollector(c ErrorCollector) {
	collectorMu.Lock()
	defer collectorMu.Unlock()
	collector = c
}

func countError() {
	collectorMu.RLock()
	defer collectorMu.RUnlock()
	if collector != nil {
		collector.IncErrors()
	}
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes err as a JSON error body. Causes of internal errors are logged
// and replaced by a generic message.
func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	status := Status(code)
	payload := errorPayload{Code: code, Message: "internal server error"}
	var ce *common.Error
	if errors.As(err, &ce) && code != common.CodeInternal {
		payload.Message = ce.Message
		payload.Fields = ce.Fields
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", string(code), "error", err)
		countError()
	}
	JSON(w, status, errorBody{Error: payload})
}

func Status(code common.Code) int {
	switch code {
	case common.CodeValidation, common.CodeDeadlinePassed:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
