package openapi

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// componentRegistry turns Go types into schemas. Named structs become
// components and are referenced by $ref.
type componentRegistry struct {
	schemas map[string]any
	owners  map[string]reflect.Type
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		schemas: map[string]any{},
		owners:  map[string]reflect.Type{},
	}
}

func (r *componentRegistry) schemaFor(t reflect.Type) (map[string]any, error) {
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := r.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		if _, isRef := inner["$ref"]; isRef {
			return map[string]any{"allOf": []any{inner}, "nullable": true}, nil
		}
		inner["nullable"] = true
		return inner, nil
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Interface:
		return map[string]any{}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return map[string]any{"type": "string", "format": "byte"}, nil
		}
		items, err := r.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("openapi: map key type %s unsupported", t.Key())
		}
		values, err := r.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "object", "additionalProperties": values}, nil
	case reflect.Struct:
		if t == timeType {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		if t.Name() == "" {
			return r.structSchema(t)
		}
		return r.reference(t)
	default:
		return nil, fmt.Errorf("openapi: type %s unsupported", t)
	}
}

func (r *componentRegistry) reference(t reflect.Type) (map[string]any, error) {
	name := t.Name()
	ref := map[string]any{"$ref": "#/components/schemas/" + name}
	if owner, ok := r.owners[name]; ok {
		if owner != t {
			return nil, fmt.Errorf("openapi: component %s is claimed by %s and %s", name, owner, t)
		}
		return ref, nil
	}
	// claim first so recursive types terminate
	r.owners[name] = t
	schema, err := r.structSchema(t)
	if err != nil {
		return nil, err
	}
	r.schemas[name] = schema
	return ref, nil
}

func (r *componentRegistry) structSchema(t reflect.Type) (map[string]any, error) {
	properties := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omit := jsonName(field)
		if omit {
			continue
		}
		child, err := r.schemaFor(field.Type)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", t.Name(), field.Name, err)
		}
		properties[name] = child
	}
	return map[string]any{"type": "object", "properties": properties}, nil
}

func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, false
}
