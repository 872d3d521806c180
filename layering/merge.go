// Package layering holds the typed merge primitives used when an overlay
// snapshot is applied on top of a base snapshot.
package layering

import "reflect"

// String returns override when present, otherwise base.
func String(base string, override *string) string {
	if override == nil {
		return base
	}
	return *override
}

// List returns a copy of override when the overlay supplied one (an empty but
// non-nil slice counts as supplied), otherwise a copy of base. Items are never
// merged one by one.
func List[T any](base, override []T) []T {
	if override != nil {
		return Clone(override)
	}
	if base == nil {
		return nil
	}
	return Clone(base)
}

// Prune keeps the override entries whose key also exists in base, in override
// order and without duplicates, then appends base entries the override lacks.
// A nil override yields a copy of base.
func Prune[T any](override, base []T, key func(T) string) []T {
	if override == nil {
		return List(base, nil)
	}

	allowed := make(map[string]struct{}, len(base))
	for _, item := range base {
		allowed[key(item)] = struct{}{}
	}

	out := make([]T, 0, len(base))
	seen := make(map[string]struct{}, len(base))
	for _, item := range override {
		k := key(item)
		if _, ok := allowed[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Clone(item))
	}
	for _, item := range base {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Clone(item))
	}
	return out
}

// Identity is the Prune key for string lists.
func Identity(s string) string { return s }

// Clone returns a deep copy of value. Unexported struct fields are left at
// their zero value.
func Clone[T any](value T) T {
	cloned := cloneValue(reflect.ValueOf(&value).Elem())
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	return cloned.Interface().(T)
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
