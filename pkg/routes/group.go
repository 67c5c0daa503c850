package routes

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/moodlog/pkg/openapi"
)

// Group organizes routes under a common prefix. Children inherit the
// prefix and, when they declare none of their own, the tags.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register mounts every route on mux. When spec is non-nil, documented
// routes are published under basePath and group tags are declared with
// the group description. Publishing errors are joined; the mux is fully
// populated either way.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) error {
	r := registrar{mux: mux, base: basePath, spec: spec}
	for _, g := range groups {
		r.group(g, "", nil)
	}
	return errors.Join(r.errs...)
}

type registrar struct {
	mux  *http.ServeMux
	base string
	spec *openapi.Spec
	errs []error
}

func (r *registrar) group(g Group, parent string, inherited []string) {
	prefix := parent + g.Prefix
	tags := inherited
	if len(g.Tags) > 0 {
		tags = g.Tags
	}

	if r.spec != nil {
		for _, t := range g.Tags {
			r.spec.AddTag(t, g.Description)
		}
		if len(g.Schemas) > 0 {
			r.spec.Components.AddSchemas(g.Schemas)
		}
	}

	for _, route := range g.Routes {
		r.mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
		r.publish(route, prefix, tags)
	}

	for _, child := range g.Children {
		r.group(child, prefix, tags)
	}
}

func (r *registrar) publish(route Route, prefix string, tags []string) {
	op := route.OpenAPI
	if r.spec == nil || op == nil {
		return
	}
	if len(op.Tags) == 0 {
		op.Tags = tags
	}
	if err := r.spec.AddOperation(r.base+prefix+route.Pattern, route.Method, op); err != nil {
		r.errs = append(r.errs, err)
	}
}
