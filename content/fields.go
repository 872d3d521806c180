package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldDescriptor describes an editable path and its inferred type.
type FieldDescriptor struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Fields lists every leaf path of doc in sorted order. List items are
// expanded so inline editors can address them ("navigation.0.label"); string
// lists are reported once as "[]string".
func Fields(doc Document) []FieldDescriptor {
	tree, err := toTree(doc)
	if err != nil {
		return []FieldDescriptor{}
	}
	fields := deriveFieldDescriptors(tree, "")
	if fields == nil {
		return []FieldDescriptor{}
	}
	return fields
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			fields = append(fields, deriveFieldDescriptors(typed[key], joinPath(prefix, key))...)
		}
		return fields
	case []any:
		if len(typed) == 0 {
			return []FieldDescriptor{{Path: prefix, Type: "[]any"}}
		}
		if _, scalar := typed[0].(string); scalar {
			return []FieldDescriptor{{Path: prefix, Type: "[]string"}}
		}
		var fields []FieldDescriptor
		for i, item := range typed {
			fields = append(fields, deriveFieldDescriptors(item, joinPath(prefix, strconv.Itoa(i)))...)
		}
		return fields
	case nil:
		return []FieldDescriptor{{Path: prefix, Type: "nil"}}
	case float64:
		return []FieldDescriptor{{Path: prefix, Type: "number"}}
	default:
		return []FieldDescriptor{{Path: prefix, Type: fmt.Sprintf("%T", typed)}}
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
