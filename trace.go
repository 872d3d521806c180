package overlay

import (
	"encoding/json"

	"github.com/goliatone/go-overlay/content"
)

// Layer names reported by Explain, strongest first.
const (
	LayerDraft = "draft"
	LayerSaved = "saved"
	LayerBase  = "base"
)

// Trace captures where the value at a path comes from across the draft, the
// saved overlay and the base document.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance details one layer's value for a traced path.
type Provenance struct {
	Layer      string `json:"layer"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Value      any    `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// Unsaved reports whether the draft differs from the saved document at the
// traced path.
func (t Trace) Unsaved() bool {
	return !t.layer(LayerDraft).equal(t.layer(LayerSaved))
}

// Customized reports whether the saved document differs from base at the
// traced path.
func (t Trace) Customized() bool {
	return !t.layer(LayerSaved).equal(t.layer(LayerBase))
}

func (t Trace) layer(name string) Provenance {
	for _, layer := range t.Layers {
		if layer.Layer == name {
			return layer
		}
	}
	return Provenance{Layer: name}
}

func (p Provenance) equal(other Provenance) bool {
	if p.Found != other.Found {
		return false
	}
	a, errA := json.Marshal(p.Value)
	b, errB := json.Marshal(other.Value)
	return errA == nil && errB == nil && string(a) == string(b)
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// Explain traces path across the draft, saved and base documents.
func (e *Editor) Explain(path string) Trace {
	e.mu.Lock()
	current, saved, base := e.current, e.saved, e.base
	snapshotID := e.savedMeta.SnapshotID
	e.mu.Unlock()

	trace := Trace{Path: path}
	for _, layer := range []struct {
		name       string
		doc        content.Document
		snapshotID string
	}{
		{LayerDraft, current, ""},
		{LayerSaved, saved, snapshotID},
		{LayerBase, base, ""},
	} {
		value, found := content.Lookup(layer.doc, path)
		trace.Layers = append(trace.Layers, Provenance{
			Layer:      layer.name,
			SnapshotID: layer.snapshotID,
			Value:      value,
			Found:      found,
		})
	}
	return trace
}
