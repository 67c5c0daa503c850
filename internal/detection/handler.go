package detection

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/moodlog/pkg/formatting"
	"github.com/JaimeStill/moodlog/pkg/handlers"
	"github.com/JaimeStill/moodlog/pkg/openapi"
	"github.com/JaimeStill/moodlog/pkg/routes"
)

// Handler provides the HTTP endpoint for image emotion detection.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "detection"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for detection endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/moods",
		Tags:        []string{"Detection"},
		Description: "Facial expression classification",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/detect", Handler: h.Detect, OpenAPI: detectOp},
		},
		Schemas: schemas,
	}
}

// Detect classifies an uploaded image. With ?record=true the detected mood
// is also stored as a camera entry.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	record := false
	if v := r.URL.Query().Get("record"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid record flag %q", v))
			return
		}
		record = b
	}

	data, err := h.readUpload(w, r)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.logger.Debug("image received", "size", formatting.FormatBytes(int64(len(data)), 1))

	det, err := h.sys.Detect(r.Context(), data)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	result := Result{Detection: *det}
	if record {
		rec, err := h.sys.Record(r.Context(), *det)
		if err != nil {
			handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
			return
		}
		result.Record = rec
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 1))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field", ErrInvalidImage)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return data, nil
}

var schemas = map[string]*openapi.Schema{
	"Detection": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"emotion":    {Type: "string", Enum: []any{"happy", "sad", "angry", "anxious", "neutral"}},
			"confidence": {Type: "number", Description: "Score of the classifier's dominant label"},
			"all_emotions": {
				Type:                 "object",
				Description:          "Raw score per classifier label",
				AdditionalProperties: &openapi.Schema{Type: "number"},
			},
			"record": openapi.SchemaRef("MoodRecord"),
		},
	},
}

var detectOp = &openapi.Operation{
	OperationID: "detectMood",
	Summary:     "Detect mood from a facial image",
	Description: "Classifies the expression of the most prominent face. Set record=true to also store the result as a camera entry.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("record", "boolean", "Store the detected mood", false),
	},
	RequestBody: openapi.RequestBodyMultipart("file", "Image (jpeg, png, gif, webp, bmp, tiff)"),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Detected mood", "Detection"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}
