package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	overlay "github.com/goliatone/go-overlay"
	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/pkg/publish"
	"github.com/goliatone/go-overlay/pkg/site"
	"github.com/goliatone/go-overlay/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	editor  *overlay.Editor
	handler http.Handler
}

func newFixture(t *testing.T, opts ...overlay.Option) fixture {
	t.Helper()
	renderer, err := site.New()
	require.NoError(t, err)
	editor := overlay.New(content.Base(), opts...)
	return fixture{editor: editor, handler: New(editor, renderer).Handler()}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPatchContentMarksDirty(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPatch, "/api/content", `{"path":"contact.badge","value":"Call Today"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["dirty"])
	assert.Equal(t, "Call Today", f.editor.Lookup("contact.badge"))

	rec = f.do(t, http.MethodGet, "/api/content/saved", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"badge":"Call Now"`)
}

func TestPatchContentValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing value", `{"path":"contact.badge"}`, http.StatusBadRequest},
		{"empty path", `{"path":"","value":"x"}`, http.StatusBadRequest},
		{"value does not fit", `{"path":"navigation","value":"x"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPatch, "/api/content", tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
	assert.False(t, f.editor.Dirty())
}

func TestPutValueReordersSections(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/content/value", `{"path":"landing.sections","value":["warehouse","hero"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"warehouse", "hero"}, f.editor.Document().Landing.Sections)

	page := f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, page.Code)
	html := page.Body.String()
	assert.Less(t, strings.Index(html, `id="warehouse"`), strings.Index(html, `id="hero"`))
	assert.NotContains(t, html, `id="services"`)
}

func TestEditModeRendersEditablePage(t *testing.T) {
	f := newFixture(t)

	page := f.do(t, http.MethodGet, "/", "")
	assert.NotContains(t, page.Body.String(), "data-edit-path")

	rec := f.do(t, http.MethodPost, "/api/edit-mode", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["editMode"])

	page = f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, "text/html; charset=utf-8", page.Header().Get("Content-Type"))
	assert.Contains(t, page.Body.String(), `data-edit-path="hero.title"`)

	rec = f.do(t, http.MethodPost, "/api/edit-mode", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveAndDiscard(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPatch, "/api/content", `{"path":"contact.phone","value":"222"}`)
	rec := f.do(t, http.MethodPost, "/api/content/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["dirty"])

	f.do(t, http.MethodPatch, "/api/content", `{"path":"contact.phone","value":"333"}`)
	rec = f.do(t, http.MethodPost, "/api/content/discard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "222", f.editor.Lookup("contact.phone"))
	assert.False(t, f.editor.Dirty())
}

func TestSaveReportsGuardedPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	f := newFixture(t, overlay.WithPublisher(publish.FilePublisher{Path: path, Environment: "production"}))

	f.do(t, http.MethodPatch, "/api/content", `{"path":"contact.badge","value":"Call Today"}`)
	rec := f.do(t, http.MethodPost, "/api/content/save", "")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, publish.GuardCode, body["error"])
	assert.Equal(t, true, body["saved_locally"])
	assert.False(t, f.editor.Dirty())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveReportsLocalFailure(t *testing.T) {
	f := newFixture(t, overlay.WithStore(brokenStore{}))

	f.do(t, http.MethodPatch, "/api/content", `{"path":"contact.badge","value":"Call Today"}`)
	rec := f.do(t, http.MethodPost, "/api/content/save", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["saved_locally"])
	assert.True(t, f.editor.Dirty())
}

func TestFieldsAndExplain(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/content/fields", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fields []content.FieldDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Contains(t, fields, content.FieldDescriptor{Path: "contact.badge", Type: "string"})

	f.do(t, http.MethodPatch, "/api/content", `{"path":"contact.badge","value":"Call Today"}`)
	rec = f.do(t, http.MethodGet, "/api/content/explain?path=contact.badge", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["unsaved"])
	assert.Equal(t, false, body["customized"])

	rec = f.do(t, http.MethodGet, "/api/content/explain", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishEndpointIsMountedWhenConfigured(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/publish", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	renderer, err := site.New()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "content.json")
	handler := New(overlay.New(content.Base()), renderer,
		WithPublishHandler(publish.Handler{Path: path, Environment: "development"}),
	).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/publish", strings.NewReader(`{"contact":{"phone":"222"}}`))
	out := httptest.NewRecorder()
	handler.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code, out.Body.String())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contact":{"phone":"222"}}`, string(raw))
}

func TestOpenAPIDocument(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/api/content/save")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodDelete, "/api/content", "").Code)
}

type brokenStore struct{}

func (brokenStore) Load(context.Context, state.Ref) ([]byte, state.Meta, bool, error) {
	return nil, state.Meta{}, false, nil
}

func (brokenStore) Save(context.Context, state.Ref, []byte, state.Meta) (state.Meta, error) {
	return state.Meta{}, errors.New("read-only filesystem")
}
