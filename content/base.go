package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// CurrentSchemaVersion is the version of the compiled-in document shape.
// Bump it together with a new entry in Migrations.
const CurrentSchemaVersion = 4

// ErrUnsupportedFormat is returned by LoadBase for unknown file extensions.
var ErrUnsupportedFormat = errors.New("content: unsupported base format")

//go:embed base.yaml
var baseYAML []byte

var embeddedBase = mustDecodeEmbedded()

func mustDecodeEmbedded() Document {
	doc, err := DecodeYAML(baseYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded base document: %v", err))
	}
	return doc
}

// Base returns a copy of the compiled-in base document.
func Base() Document {
	return embeddedBase.Clone()
}

// DecodeYAML decodes a YAML base document. A missing schemaVersion defaults
// to CurrentSchemaVersion.
func DecodeYAML(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("content: decode yaml base: %w", err)
	}
	return withVersion(doc), nil
}

// DecodeJSON decodes a JSON base document.
func DecodeJSON(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("content: decode json base: %w", err)
	}
	return withVersion(doc), nil
}

// DecodeMarkdown decodes a markdown base document: the front matter holds the
// document and the body becomes the footer about text.
func DecodeMarkdown(raw []byte) (Document, error) {
	var doc Document
	body, err := frontmatter.Parse(bytes.NewReader(raw), &doc)
	if err != nil {
		return Document{}, fmt.Errorf("content: decode markdown base: %w", err)
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		doc.Footer.About = text
	}
	return withVersion(doc), nil
}

// LoadBase reads a base document from path, picking the decoder by extension.
func LoadBase(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("content: read base %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	case ".json":
		return DecodeJSON(raw)
	case ".md", ".markdown":
		return DecodeMarkdown(raw)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func withVersion(doc Document) Document {
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = CurrentSchemaVersion
	}
	return doc
}
