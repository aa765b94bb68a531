package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"internsaathi/internal/app"
	"internsaathi/internal/common"
	"internsaathi/internal/domain/internship"
	"internsaathi/internal/http/response"
)

type InternshipHandler struct {
	internships *app.InternshipService
}

func NewInternshipHandler(internships *app.InternshipService) *InternshipHandler {
	return &InternshipHandler{internships: internships}
}

func (h *InternshipHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.internships.Search(r.Context(), searchFilter(r.URL.Query()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// searchFilter accepts both the camelCase names used by the web client and
// their snake_case equivalents. Unparseable numbers are ignored.
func searchFilter(q url.Values) internship.SearchFilter {
	first := func(keys ...string) string {
		for _, key := range keys {
			if value := strings.TrimSpace(q.Get(key)); value != "" {
				return value
			}
		}
		return ""
	}
	filter := internship.SearchFilter{
		Keyword:  first("keyword"),
		Stipend:  first("stipend"),
		Location: first("location"),
		Duration: first("duration"),
		WorkType: first("workType", "work_type"),
		Skills:   common.SplitList(first("skills")),
	}
	if page, err := strconv.Atoi(first("pageNumber", "page")); err == nil {
		filter.Page = page
	}
	if days, err := strconv.Atoi(first("postedDate", "posted_within_days")); err == nil {
		filter.PostedWithinDays = days
	}
	return filter
}

func (h *InternshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.internships.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *InternshipHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.internships.ListMine(r.Context(), caller)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *InternshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.InternshipInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.internships.Create(r.Context(), caller, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *InternshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var patch app.InternshipPatch
	if err := decodeJSON(r, &patch); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.internships.Update(r.Context(), caller, id, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InternshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.internships.Delete(r.Context(), caller, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, messageResponse{Message: "Internship removed"})
}
