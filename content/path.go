package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned for empty paths, empty segments, and paths that
// cannot be traversed.
var ErrInvalidPath = errors.New("content: invalid path")

// SetPath assigns a string at a dot-delimited path ("contact.calendar.title")
// and returns the updated copy. doc is never modified.
func SetPath(doc Document, path, value string) (Document, error) {
	return SetValue(doc, path, value)
}

// SetValue assigns any JSON-compatible value at path, typically a full list
// replacement such as landing.sections. Missing intermediate objects are
// created; numeric segments index into lists. Keys the schema does not know
// are dropped when the result is decoded.
func SetValue(doc Document, path string, value any) (Document, error) {
	segments, err := splitPath(path)
	if err != nil {
		return Document{}, err
	}
	tree, err := toTree(doc)
	if err != nil {
		return Document{}, err
	}
	if _, err := assign(tree, segments, value, path); err != nil {
		return Document{}, err
	}
	return fromTree(tree)
}

// Lookup resolves path against doc.
func Lookup(doc Document, path string) (any, bool) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	tree, err := toTree(doc)
	if err != nil {
		return nil, false
	}
	return resolve(tree, segments)
}

// LookupString resolves path to a string, or "" when the path is missing or
// does not hold a string.
func LookupString(doc Document, path string) string {
	value, ok := Lookup(doc, path)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

func splitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

func toTree(doc Document) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("content: encode document: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("content: decode document tree: %w", err)
	}
	return tree, nil
}

func fromTree(tree map[string]any) (Document, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return Document{}, fmt.Errorf("content: encode document tree: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("content: value does not fit the document: %w", err)
	}
	return doc, nil
}

func assign(node any, segments []string, value any, path string) (any, error) {
	head, rest := segments[0], segments[1:]

	switch typed := node.(type) {
	case map[string]any:
		if len(rest) == 0 {
			typed[head] = value
			return typed, nil
		}
		child := typed[head]
		if child == nil {
			child = map[string]any{}
		}
		next, err := assign(child, rest, value, path)
		if err != nil {
			return nil, err
		}
		typed[head] = next
		return typed, nil
	case []any:
		index, err := strconv.Atoi(head)
		if err != nil || index < 0 || index >= len(typed) {
			return nil, fmt.Errorf("%w: %q has no element %q", ErrInvalidPath, path, head)
		}
		if len(rest) == 0 {
			typed[index] = value
			return typed, nil
		}
		child := typed[index]
		if child == nil {
			child = map[string]any{}
		}
		next, err := assign(child, rest, value, path)
		if err != nil {
			return nil, err
		}
		typed[index] = next
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: cannot descend into %q of %q", ErrInvalidPath, head, path)
	}
}

func resolve(node any, segments []string) (any, bool) {
	current := node
	for _, segment := range segments {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}
			current = typed[index]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}
