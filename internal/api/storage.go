package api

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/moodlog/pkg/handlers"
	"github.com/JaimeStill/moodlog/pkg/openapi"
	"github.com/JaimeStill/moodlog/pkg/routes"
	"github.com/JaimeStill/moodlog/pkg/storage"
)

// storageHandler browses archived exports in blob storage.
type storageHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newStorageHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *storageHandler {
	return &storageHandler{
		store:       store,
		logger:      logger.With("handler", "storage"),
		maxListSize: maxListSize,
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix:      "/storage",
		Tags:        []string{"Storage"},
		Description: "Archived mood exports",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: storageOps.list},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download, OpenAPI: storageOps.download},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find, OpenAPI: storageOps.find},
		},
		Schemas: storageSchemas,
	}
}

func (h *storageHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	marker := r.URL.Query().Get("marker")

	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(r.Context(), prefix, marker, maxResults)
	if err != nil {
		handlers.RespondError(w, r, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *storageHandler) find(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.Find(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, r, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	handlers.Attachment(w, path.Base(key))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("archive download interrupted", "key", key, "error", err)
	}
}

var keyParam = &openapi.Parameter{
	Name:        "key",
	In:          "path",
	Required:    true,
	Description: "Blob key, e.g. exports/20260314/093000/mood_export_20260314.csv",
	Schema:      &openapi.Schema{Type: "string"},
}

var storageSchemas = map[string]*openapi.Schema{
	"BlobMeta": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"key":            {Type: "string"},
			"content_type":   {Type: "string"},
			"content_length": {Type: "integer"},
			"last_modified":  {Type: "string", Format: "date-time"},
		},
	},
	"BlobList": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"blobs":       openapi.ArrayOf("BlobMeta"),
			"next_marker": {Type: "string"},
		},
	},
}

var storageOps = struct {
	list     *openapi.Operation
	find     *openapi.Operation
	download *openapi.Operation
}{
	list: &openapi.Operation{
		OperationID: "listArchives",
		Summary: "List archived exports",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("prefix", "string", "Key prefix, e.g. exports/20260314/", false),
			openapi.QueryParam("marker", "string", "Continuation marker from a previous page", false),
			openapi.QueryParam("max_results", "integer", "Page size", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of blobs", "BlobList"),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	find: &openapi.Operation{
		OperationID: "findArchive",
		Summary:    "Archived export metadata",
		Parameters: []*openapi.Parameter{keyParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Blob metadata", "BlobMeta"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	download: &openapi.Operation{
		OperationID: "downloadArchive",
		Summary:    "Download an archived export",
		Parameters: []*openapi.Parameter{keyParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Export file", "text/csv", "application/json"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
}
