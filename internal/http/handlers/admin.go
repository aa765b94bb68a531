package handlers

import (
	"net/http"
	"strings"

	"internsaathi/internal/app"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/http/response"
)

type AdminHandler struct {
	verification *app.VerificationService
}

func NewAdminHandler(verification *app.VerificationService) *AdminHandler {
	return &AdminHandler{verification: verification}
}

type verifyCompanyRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) PendingCompanies(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.verification.ListPending(r.Context(), caller)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *AdminHandler) VerifyCompany(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	companyID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req verifyCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	status := account.VerificationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := h.verification.SetStatus(r.Context(), caller, companyID, status); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, messageResponse{Message: "Company has been " + string(status) + "."})
}
