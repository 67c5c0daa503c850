package openapi

const (
	schemaPrefix   = "#/components/schemas/"
	responsePrefix = "#/components/responses/"
)

func SchemaRef(name string) *Schema {
	return &Schema{Ref: schemaPrefix + name}
}

// ArrayOf returns an array schema of the named component.
func ArrayOf(name string) *Schema {
	return &Schema{Type: "array", Items: SchemaRef(name)}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: responsePrefix + name}
}

func content(mediaType string, schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{mediaType: {Schema: schema}}
}

func binary() *Schema {
	return &Schema{Type: "string", Format: "binary"}
}

// RequestBodyJSON references the named component as a JSON body.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{
		Required: required,
		Content:  content("application/json", SchemaRef(schemaName)),
	}
}

// RequestBodyMultipart describes a multipart/form-data upload carrying a
// single required file under field.
func RequestBodyMultipart(field, description string) *RequestBody {
	form := &Schema{
		Type:       "object",
		Required:   []string{field},
		Properties: map[string]*Schema{field: binary()},
	}
	return &RequestBody{
		Description: description,
		Required:    true,
		Content:     content("multipart/form-data", form),
	}
}

func ResponseJSON(description, schemaName string) *Response {
	return ResponseSchema(description, SchemaRef(schemaName))
}

// ResponseSchema is a JSON response with an inline schema.
func ResponseSchema(description string, schema *Schema) *Response {
	return &Response{
		Description: description,
		Content:     content("application/json", schema),
	}
}

// ResponseFile is a binary download offered in any of contentTypes.
func ResponseFile(description string, contentTypes ...string) *Response {
	resp := &Response{
		Description: description,
		Content:     make(map[string]*MediaType, len(contentTypes)),
	}
	for _, ct := range contentTypes {
		resp.Content[ct] = &MediaType{Schema: binary()}
	}
	return resp
}

// PathParam is a required UUID path segment.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

func QueryParam(name, typ, description string, required bool) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "query",
		Required:    required,
		Description: description,
		Schema:      &Schema{Type: typ},
	}
}
