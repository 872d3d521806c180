package state_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-overlay/pkg/state"
)

func TestRefIdentifier(t *testing.T) {
	cases := []struct {
		name    string
		ref     state.Ref
		want    string
		wantErr bool
	}{
		{name: "site content", ref: state.Ref{Domain: "site", Key: "content"}, want: "site/content"},
		{name: "missing domain", ref: state.Ref{Key: "content"}, wantErr: true},
		{name: "missing key", ref: state.Ref{Domain: "site"}, wantErr: true},
		{name: "separator in key", ref: state.Ref{Domain: "site", Key: "a/b"}, wantErr: true},
		{name: "backslash in domain", ref: state.Ref{Domain: `si\te`, Key: "content"}, wantErr: true},
		{name: "dot dot", ref: state.Ref{Domain: "..", Key: "content"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.ref.Identifier()
			if tc.wantErr {
				if !errors.Is(err, state.ErrInvalidRef) {
					t.Fatalf("expected ErrInvalidRef, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestETagIsStable(t *testing.T) {
	a := state.ETag([]byte(`{"a":1}`))
	b := state.ETag([]byte(`{"a":1}`))
	c := state.ETag([]byte(`{"a":2}`))
	if a != b {
		t.Fatalf("expected equal etags, got %q and %q", a, b)
	}
	if a == c {
		t.Fatalf("expected different payloads to hash differently")
	}
}
