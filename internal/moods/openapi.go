package moods

import "github.com/JaimeStill/moodlog/pkg/openapi"

var moodEnum = []any{string(Happy), string(Sad), string(Angry), string(Anxious), string(Neutral)}

var schemas = map[string]*openapi.Schema{
	"MoodRecord": {
		Type:     "object",
		Required: []string{"id", "mood", "note", "detection_method", "timestamp"},
		Properties: map[string]*openapi.Schema{
			"id":               {Type: "string", Format: "uuid"},
			"mood":             {Type: "string", Enum: moodEnum},
			"note":             {Type: "string", Description: "Null when no note was given"},
			"detection_method": {Type: "string", Enum: []any{string(Manual), string(Camera)}},
			"timestamp":        {Type: "string", Format: "date-time"},
		},
	},
	"CreateMoodRecord": {
		Type:     "object",
		Required: []string{"mood"},
		Properties: map[string]*openapi.Schema{
			"mood":             {Type: "string", Description: "Unrecognized values are stored as neutral", Example: "happy"},
			"note":             {Type: "string"},
			"detection_method": {Type: "string", Default: string(Manual)},
			"timestamp":        {Type: "string", Format: "date-time", Description: "Defaults to the current time"},
		},
	},
	"MoodStats": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"mood_counts": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"happy":   {Type: "integer"},
					"sad":     {Type: "integer"},
					"angry":   {Type: "integer"},
					"anxious": {Type: "integer"},
					"neutral": {Type: "integer"},
				},
			},
			"timeline": {
				Type: "array",
				Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"date":      {Type: "string", Format: "date"},
						"mood":      {Type: "string", Enum: moodEnum},
						"timestamp": {Type: "string", Format: "date-time"},
					},
				},
			},
		},
	},
	"MoodSearchRequest": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":             {Type: "integer", Example: 1},
			"page_size":        {Type: "integer", Example: 20},
			"search":           {Type: "string", Description: "Matches within notes"},
			"sort":             {Type: "string", Example: "-timestamp"},
			"mood":             {Type: "string", Enum: moodEnum},
			"detection_method": {Type: "string", Enum: []any{string(Manual), string(Camera)}},
			"start":            {Type: "string", Format: "date-time"},
			"end":              {Type: "string", Format: "date-time"},
		},
	},
	"MoodPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":         openapi.ArrayOf("MoodRecord"),
			"total":        {Type: "integer"},
			"page":         {Type: "integer"},
			"page_size":    {Type: "integer"},
			"total_pages":  {Type: "integer"},
			"has_next":     {Type: "boolean"},
			"has_previous": {Type: "boolean"},
		},
	},
	"DeleteResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"deleted": {Type: "integer", Example: 1},
			"message": {Type: "string"},
		},
	},
	"ArchiveResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"records":    {Type: "integer"},
			"created_at": {Type: "string", Format: "date-time"},
			"files": {
				Type: "array",
				Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"key":          {Type: "string"},
						"format":       {Type: "string", Enum: []any{string(FormatCSV), string(FormatJSON)}},
						"content_type": {Type: "string"},
						"size_bytes":   {Type: "integer"},
					},
				},
			},
		},
	},
}

var ops = struct {
	create  *openapi.Operation
	list    *openapi.Operation
	stats   *openapi.Operation
	export  *openapi.Operation
	archive *openapi.Operation
	query   *openapi.Operation
	search  *openapi.Operation
	delete  *openapi.Operation
}{
	create: &openapi.Operation{
		OperationID: "createMood",
		Summary:     "Log a mood",
		RequestBody: openapi.RequestBodyJSON("CreateMoodRecord", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Mood record created", "MoodRecord"),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	list: &openapi.Operation{
		OperationID: "listMoods",
		Summary:     "List mood records",
		Description: "Returns records newest first. Bounds accept RFC 3339 timestamps or YYYY-MM-DD dates; an end date covers the whole day.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("start_date", "string", "Inclusive lower bound", false),
			openapi.QueryParam("end_date", "string", "Inclusive upper bound", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseSchema("Mood records", openapi.ArrayOf("MoodRecord")),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	stats: &openapi.Operation{
		OperationID: "moodStats",
		Summary: "Mood counts and timeline",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Mood statistics", "MoodStats"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	export: &openapi.Operation{
		OperationID: "exportMoods",
		Summary: "Download all mood records",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("format", "string", "csv (default) or json", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Export attachment", "text/csv", "application/json"),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	archive: &openapi.Operation{
		OperationID: "archiveMoods",
		Summary: "Archive CSV and JSON exports to blob storage",
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Archive written", "ArchiveResult"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	query: &openapi.Operation{
		OperationID: "queryMoods",
		Summary: "Search mood records by query string",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Substring match on note", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -timestamp,mood", false),
			openapi.QueryParam("mood", "string", "happy, sad, angry, anxious, or neutral", false),
			openapi.QueryParam("detection_method", "string", "manual or camera", false),
			openapi.QueryParam("start_date", "string", "RFC 3339 timestamp or YYYY-MM-DD", false),
			openapi.QueryParam("end_date", "string", "RFC 3339 timestamp or YYYY-MM-DD (inclusive)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of mood records", "MoodPage"),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	search: &openapi.Operation{
		OperationID: "searchMoods",
		Summary:     "Search mood records",
		RequestBody: openapi.RequestBodyJSON("MoodSearchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of mood records", "MoodPage"),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	delete: &openapi.Operation{
		OperationID: "deleteMood",
		Summary:    "Delete a mood record",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Mood record id")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Mood record deleted", "DeleteResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
}
