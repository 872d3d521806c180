package rules

import (
	"fmt"
	"sort"
)

// Function is a helper callable from guard expressions.
type Function func(args ...any) (any, error)

// Functions maps helper names to their implementation. Names are matched
// exactly so a guard reads the same in every engine.
type Functions map[string]Function

// Register adds fn under name and rejects duplicates.
func (f Functions) Register(name string, fn Function) error {
	switch {
	case name == "":
		return fmt.Errorf("rules: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("rules: function %q is nil", name)
	}
	if _, exists := f[name]; exists {
		return fmt.Errorf("rules: function %q already registered", name)
	}
	f[name] = fn
	return nil
}

// Names returns the registered names in sorted order.
func (f Functions) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Functions) clone() Functions {
	if f == nil {
		return nil
	}
	out := make(Functions, len(f))
	for name, fn := range f {
		out[name] = fn
	}
	return out
}
