// Package openapi describes the content editing API as an OpenAPI 3
// document. Schemas are derived from the Go types the API serves, so the
// document tracks content.Document as it changes.
package openapi

import (
	"encoding/json"
	"fmt"
	"reflect"

	overlay "github.com/goliatone/go-overlay"
	"github.com/goliatone/go-overlay/content"
)

// PathEdit is the body of PATCH /content.
type PathEdit struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// ValueEdit is the body of PUT /content/value.
type ValueEdit struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type EditModeRequest struct {
	Enabled bool `json:"enabled"`
}

type SavedDocument struct {
	Document content.Document `json:"document"`
}

type Explanation struct {
	Path       string               `json:"path"`
	Layers     []overlay.Provenance `json:"layers"`
	Unsaved    bool                 `json:"unsaved"`
	Customized bool                 `json:"customized"`
}

// SaveFailure is returned with 502 when the local save succeeded but the
// remote publish did not, and with 500 when nothing was saved.
type SaveFailure struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	SavedLocally bool   `json:"saved_locally"`
	SnapshotID   string `json:"snapshot_id,omitempty"`
}

type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type PublishResult struct {
	OK      bool   `json:"ok,omitempty"`
	Bytes   int    `json:"bytes,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type operation struct {
	method  string
	path    string
	id      string
	summary string
	query   string
	request any
	replies []reply
}

type reply struct {
	status string
	desc   string
	body   any
}

func operations() []operation {
	state := overlay.State{}
	apiErr := APIError{}
	return []operation{
		{method: "get", path: "/content", id: "getContent", summary: "Current draft and editor flags",
			replies: []reply{{"200", "Editor state", state}}},
		{method: "patch", path: "/content", id: "setPath", summary: "Assign a string at a dot path of the draft",
			request: PathEdit{},
			replies: []reply{{"200", "Editor state", state}, {"400", "Invalid path or body", apiErr}, {"422", "Value does not fit the document", apiErr}}},
		{method: "put", path: "/content/value", id: "setValue", summary: "Replace a value, typically a section order list",
			request: ValueEdit{},
			replies: []reply{{"200", "Editor state", state}, {"400", "Invalid path or body", apiErr}, {"422", "Value does not fit the document", apiErr}}},
		{method: "get", path: "/content/saved", id: "getSaved", summary: "Last saved document",
			replies: []reply{{"200", "Saved document", SavedDocument{}}}},
		{method: "get", path: "/content/fields", id: "listFields", summary: "Editable paths and their types",
			replies: []reply{{"200", "Field descriptors", []content.FieldDescriptor{}}}},
		{method: "get", path: "/content/explain", id: "explainPath", summary: "Where the value at a path comes from",
			query:   "path",
			replies: []reply{{"200", "Provenance across draft, saved and base", Explanation{}}, {"400", "Missing path", apiErr}}},
		{method: "post", path: "/content/save", id: "save", summary: "Save the draft locally and publish it",
			replies: []reply{{"200", "Saved and published", state}, {"500", "Local save failed", SaveFailure{}}, {"502", "Saved locally, publish failed", SaveFailure{}}}},
		{method: "post", path: "/content/discard", id: "discard", summary: "Reset the draft to the saved document",
			replies: []reply{{"200", "Editor state", state}}},
		{method: "post", path: "/edit-mode", id: "setEditMode", summary: "Toggle inline editing on the rendered page",
			request: EditModeRequest{},
			replies: []reply{{"200", "Editor state", state}, {"400", "Invalid body", apiErr}}},
		{method: "post", path: "/publish", id: "publish", summary: "Durable write of a full document",
			request: map[string]any{},
			replies: []reply{{"200", "Written", PublishResult{}}, {"400", "Not a JSON object", PublishResult{}}, {"403", "Refused by environment guard", PublishResult{}}}},
	}
}

// Generate builds the OpenAPI document for the content API.
func Generate(opts ...GeneratorOption) (map[string]any, error) {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	registry := newComponentRegistry()
	paths := map[string]any{}
	for _, op := range operations() {
		item, _ := paths[cfg.basePath+op.path].(map[string]any)
		if item == nil {
			item = map[string]any{}
			paths[cfg.basePath+op.path] = item
		}
		built, err := buildOperation(registry, op)
		if err != nil {
			return nil, err
		}
		item[op.method] = built
	}

	info := map[string]any{"title": cfg.info.Title, "version": cfg.info.Version}
	if cfg.info.Description != "" {
		info["description"] = cfg.info.Description
	}
	return map[string]any{
		"openapi":    cfg.openAPIVersion,
		"info":       info,
		"paths":      paths,
		"components": map[string]any{"schemas": registry.schemas},
	}, nil
}

// GenerateJSON is Generate marshalled with indentation.
func GenerateJSON(opts ...GeneratorOption) ([]byte, error) {
	doc, err := Generate(opts...)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

func buildOperation(registry *componentRegistry, op operation) (map[string]any, error) {
	out := map[string]any{"operationId": op.id, "summary": op.summary}
	if op.query != "" {
		out["parameters"] = []any{map[string]any{
			"name":     op.query,
			"in":       "query",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		}}
	}
	if op.request != nil {
		schema, err := registry.schemaFor(reflect.TypeOf(op.request))
		if err != nil {
			return nil, fmt.Errorf("openapi: %s request: %w", op.id, err)
		}
		out["requestBody"] = map[string]any{
			"required": true,
			"content":  map[string]any{"application/json": map[string]any{"schema": schema}},
		}
	}
	responses := map[string]any{}
	for _, r := range op.replies {
		schema, err := registry.schemaFor(reflect.TypeOf(r.body))
		if err != nil {
			return nil, fmt.Errorf("openapi: %s %s response: %w", op.id, r.status, err)
		}
		responses[r.status] = map[string]any{
			"description": r.desc,
			"content":     map[string]any{"application/json": map[string]any{"schema": schema}},
		}
	}
	out["responses"] = responses
	return out, nil
}
