package handlers

import (
	"net/http"
	"strings"

	"internsaathi/internal/app"
	"internsaathi/internal/http/response"
)

type DirectoryHandler struct {
	directory *app.DirectoryService
}

func NewDirectoryHandler(directory *app.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

func (h *DirectoryHandler) Colleges(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	q := r.URL.Query()
	items, err := h.directory.ListColleges(r.Context(), caller, strings.TrimSpace(q.Get("keyword")), strings.TrimSpace(q.Get("location")))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *DirectoryHandler) Companies(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.directory.ListCompanies(r.Context(), caller, strings.TrimSpace(r.URL.Query().Get("keyword")))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
