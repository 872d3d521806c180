// Package site renders the landing page from a content document. Blocks
// follow landing.sections; in edit mode every editable element is tagged
// with its document path and the inline edit script is included.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/goliatone/go-overlay/content"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html templates/*.js
var templateFS embed.FS

// Blocks maps landing section ids to the template rendering them.
var Blocks = map[string]string{
	"hero":          "block-hero",
	"services":      "block-services",
	"partnerships":  "block-partnerships",
	"service-areas": "block-service-areas",
	"warehouse":     "block-warehouse",
	"calendar":      "block-calendar",
	"carousel":      "block-carousel",
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for skipped sections.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer renders documents to HTML. It is safe for concurrent use.
type Renderer struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
	logger   *zap.Logger
}

// New parses the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	script, err := templateFS.ReadFile("templates/edit.js")
	if err != nil {
		return nil, fmt.Errorf("site: read edit script: %w", err)
	}
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"markdown":   r.renderMarkdown,
		"editScript": func() template.JS { return template.JS(script) },
		"path":       func(format string, args ...any) string { return fmt.Sprintf(format, args...) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Page is the data handed to every template.
type Page struct {
	Doc      content.Document
	EditMode bool
	Blocks   []Block
}

// Block is one rendered landing section.
type Block struct {
	ID      string
	Heading string
	HTML    template.HTML
}

// Edit returns the attributes marking path as editable, or nothing outside
// edit mode.
func (p Page) Edit(path string) template.HTMLAttr {
	if !p.EditMode {
		return ""
	}
	return template.HTMLAttr(`data-edit-path="` + template.HTMLEscapeString(path) + `" contenteditable="true"`)
}

// Render writes the landing page for doc.
func (r *Renderer) Render(w io.Writer, doc content.Document, editMode bool) error {
	page := Page{Doc: doc, EditMode: editMode}
	seen := map[string]struct{}{}
	for _, id := range doc.Landing.Sections {
		name, ok := Blocks[id]
		if !ok {
			r.logger.Warn("skipping unknown landing section", zap.String("section", id))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		block := Block{ID: id, Heading: heading(doc, id)}
		var buf bytes.Buffer
		if err := r.tmpl.ExecuteTemplate(&buf, name, struct {
			Page
			Block Block
		}{page, block}); err != nil {
			return fmt.Errorf("site: render section %s: %w", id, err)
		}
		block.HTML = template.HTML(buf.String())
		page.Blocks = append(page.Blocks, block)
	}

	if err := r.tmpl.ExecuteTemplate(w, "page", page); err != nil {
		return fmt.Errorf("site: render page: %w", err)
	}
	return nil
}

// heading returns the section's own title, falling back to its id.
func heading(doc content.Document, id string) string {
	var title string
	switch id {
	case "hero":
		title = doc.Hero.Title
	case "services":
		title = doc.Services.Title
	case "partnerships":
		title = doc.Partnerships.Title
	case "service-areas":
		title = doc.ServiceAreas.Title
	case "warehouse":
		title = doc.Warehouse.Title
	case "calendar":
		title = doc.Contact.Calendar.Title
	}
	if strings.TrimSpace(title) != "" {
		return title
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

func (r *Renderer) renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("site: markdown: %w", err)
	}
	// goldmark escapes raw HTML unless WithUnsafe is set
	return template.HTML(buf.String()), nil
}
