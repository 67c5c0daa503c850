package openapi

import "maps"

// errorSchema is the body every handler error response carries.
var errorSchema = &Schema{
	Type:     "object",
	Required: []string{"error"},
	Properties: map[string]*Schema{
		"error": {Type: "string", Example: "invalid mood: elated"},
	},
}

// NewComponents returns the shared Error schema and one error response per
// status the API uses.
func NewComponents() *Components {
	c := &Components{
		Schemas:   map[string]*Schema{"Error": errorSchema},
		Responses: make(map[string]*Response),
	}

	for name, desc := range map[string]string{
		"BadRequest":         "Invalid request",
		"NotFound":           "Resource not found",
		"PayloadTooLarge":    "Request body exceeds the upload limit",
		"ServiceUnavailable": "A backing service is unavailable",
	} {
		c.Responses[name] = ResponseJSON(desc, "Error")
	}
	return c
}

// AddSchemas merges schemas, replacing any with the same name.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}
