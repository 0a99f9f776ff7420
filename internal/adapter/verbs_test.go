package adapter

import (
	"errors"
	"testing"
)

func TestClassifyVerb(t *testing.T) {
	cases := []struct {
		method string
		verb   Verb
		safety ChangeSafety
	}{
		{"get", VerbGet, ReadOnlySafety()},
		{"GET", VerbGet, ReadOnlySafety()},
		{" Head ", VerbHead, ReadOnlySafety()},
		{"options", VerbOptions, ReadOnlySafety()},
		{"put", VerbPut, UpdateSafety(true)},
		{"PATCH", VerbPatch, UpdateSafety(true)},
		{"post", VerbPost, UpdateSafety(false)},
		{"delete", VerbDelete, DeleteSafety()},
	}
	for _, tc := range cases {
		verb, safety, err := ClassifyVerb(tc.method)
		if err != nil {
			t.Fatalf("ClassifyVerb(%q) failed: %v", tc.method, err)
		}
		if verb != tc.verb {
			t.Fatalf("ClassifyVerb(%q) verb = %q, want %q", tc.method, verb, tc.verb)
		}
		if safety != tc.safety {
			t.Fatalf("ClassifyVerb(%q) safety = %+v, want %+v", tc.method, safety, tc.safety)
		}
	}
}

func TestClassifyVerb_Unsupported(t *testing.T) {
	_, _, err := ClassifyVerb("trace")
	if err == nil {
		t.Fatalf("expected error for trace")
	}
	var unsupported *UnsupportedVerbError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedVerbError, got %T", err)
	}
	if unsupported.Method != "trace" {
		t.Fatalf("unexpected method in error: %q", unsupported.Method)
	}
}

func TestMethodIsUpperCase(t *testing.T) {
	if VerbGet.Method() != "GET" {
		t.Fatalf("unexpected wire form %q", VerbGet.Method())
	}
	if VerbDelete.Method() != "DELETE" {
		t.Fatalf("unexpected wire form %q", VerbDelete.Method())
	}
}

func TestHints(t *testing.T) {
	h := ReadOnlySafety().Hints(true)
	if !h.ReadOnly || !h.Idempotent || h.Destructive || !h.OpenWorld {
		t.Fatalf("unexpected readonly hints %+v", h)
	}

	h = UpdateSafety(true).Hints(true)
	if h.ReadOnly || h.Destructive || !h.Idempotent {
		t.Fatalf("unexpected idempotent update hints %+v", h)
	}

	h = UpdateSafety(false).Hints(true)
	if h.Idempotent {
		t.Fatalf("non-idempotent update must not claim idempotence")
	}

	h = DeleteSafety().Hints(false)
	if !h.Destructive || h.ReadOnly || h.Idempotent || h.OpenWorld {
		t.Fatalf("unexpected delete hints %+v", h)
	}
}
