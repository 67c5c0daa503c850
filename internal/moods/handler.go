package moods

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/moodlog/pkg/handlers"
	"github.com/JaimeStill/moodlog/pkg/pagination"
	"github.com/JaimeStill/moodlog/pkg/routes"
)

// Handler provides HTTP endpoints for mood record operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "moods"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for mood endpoints. The archive
// route is only mounted when export storage is configured.
func (h *Handler) Routes() routes.Group {
	rs := []routes.Route{
		{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: ops.create},
		{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: ops.list},
		{Method: "GET", Pattern: "/stats", Handler: h.Stats, OpenAPI: ops.stats},
		{Method: "GET", Pattern: "/export", Handler: h.Export, OpenAPI: ops.export},
		{Method: "GET", Pattern: "/search", Handler: h.Query, OpenAPI: ops.query},
		{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: ops.search},
		{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: ops.delete},
	}

	if h.sys.ArchiveEnabled() {
		rs = append(rs, routes.Route{
			Method: "POST", Pattern: "/export/archive", Handler: h.Archive, OpenAPI: ops.archive,
		})
	}

	return routes.Group{
		Prefix:      "/moods",
		Tags:        []string{"Moods"},
		Description: "Mood record logging, statistics, and export",
		Routes:      rs,
		Schemas:     schemas,
	}
}

// Create stores a manually entered mood record.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	rec, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, rec)
}

// List returns records newest first, optionally bounded by start_date and end_date.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rng, err := RangeFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	records, err := h.sys.List(r.Context(), rng)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	if records == nil {
		records = []Record{}
	}
	handlers.RespondJSON(w, http.StatusOK, records)
}

// Stats returns per-mood counts and the chronological timeline.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Export serves every record as a CSV or JSON attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	file, err := h.sys.Export(r.Context(), format)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondAttachment(w, file.Filename, file.ContentType, file.Data)
}

// Archive writes CSV and JSON exports to blob storage.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Archive(r.Context())
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching records.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	result, err := h.sys.Search(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Query is the query-string form of Search: page, page_size, search, sort,
// mood, detection_method, start_date, and end_date.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	filters, err := FiltersFromQuery(values)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	page := pagination.PageRequestFromQuery(values, h.pagination)

	result, err := h.sys.Search(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete removes a record by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	n, err := h.sys.Delete(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	if n == 0 {
		handlers.RespondError(w, r, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, DeleteResult{
		Deleted: n,
		Message: "Mood entry deleted successfully",
	})
}
