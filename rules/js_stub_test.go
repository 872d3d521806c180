//go:build !js_eval

package rules

import (
	"errors"
	"testing"
)

func TestJSEngineNeedsBuildTag(t *testing.T) {
	if _, err := New(EngineJS); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}
