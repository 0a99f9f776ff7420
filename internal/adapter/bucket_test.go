package adapter

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestBucketArguments_ByLocation(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/items/{id}",
		OperationID: "get_item",
		Parameters: []Parameter{
			{Name: "id", Location: LocationPath},
			{Name: "limit", Location: LocationQuery},
			{Name: "X-Trace", Location: LocationHeader},
			{Name: "session", Location: LocationCookie},
		},
	})

	b := view.BucketArguments(map[string]any{
		"id":      float64(7),
		"limit":   float64(25),
		"X-Trace": "abc",
		"session": "s1",
		"noise":   "dropped",
	}, testLogger())

	if b.Path["id"] != "7" {
		t.Fatalf("path values must be stringified, got %q", b.Path["id"])
	}
	if b.Query["limit"] != float64(25) {
		t.Fatalf("query values keep their raw form, got %v", b.Query["limit"])
	}
	if b.Header["X-Trace"] != "abc" || b.Cookie["session"] != "s1" {
		t.Fatalf("header/cookie routing broken: %+v", b)
	}
	if b.Body != nil || b.Form != nil {
		t.Fatalf("no declared body means leftovers are dropped, got body=%v form=%v", b.Body, b.Form)
	}
}

func TestBucketArguments_NilValueConsumedNotSent(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		Parameters:  []Parameter{{Name: "limit", Location: LocationQuery}},
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeJSON: nil}},
	})

	b := view.BucketArguments(map[string]any{"limit": nil}, testLogger())
	if _, ok := b.Query["limit"]; ok {
		t.Fatalf("nil values must not reach the query bucket")
	}
	body, ok := b.Body.(map[string]any)
	if !ok || len(body) != 0 {
		t.Fatalf("consumed nil must not leak into the body, got %v", b.Body)
	}
}

func TestBucketArguments_LeftoversBecomeJSONBody(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeJSON: nil}},
	})

	b := view.BucketArguments(map[string]any{"name": "thing", "count": float64(2)}, testLogger())
	body, ok := b.Body.(map[string]any)
	if !ok {
		t.Fatalf("expected object body, got %T", b.Body)
	}
	if body["name"] != "thing" || body["count"] != float64(2) {
		t.Fatalf("unexpected body %v", body)
	}
	if b.Form != nil {
		t.Fatalf("JSON body and form are mutually exclusive")
	}
}

func TestBucketArguments_ExplicitBodyMergesLeftovers(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeJSON: nil}},
	})

	b := view.BucketArguments(map[string]any{
		"body":  map[string]any{"name": "explicit", "kept": true},
		"extra": "leftover",
		"name":  "winner",
	}, testLogger())

	body := b.Body.(map[string]any)
	if body["name"] != "winner" {
		t.Fatalf("leftover keys must win over explicit body keys, got %v", body["name"])
	}
	if body["kept"] != true || body["extra"] != "leftover" {
		t.Fatalf("unexpected merged body %v", body)
	}
}

func TestBucketArguments_ExplicitScalarBodyVerbatim(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{"text/plain": nil}},
	})

	b := view.BucketArguments(map[string]any{"body": "raw payload", "extra": "dropped"}, testLogger())
	if b.Body != "raw payload" {
		t.Fatalf("scalar body must pass through verbatim, got %v", b.Body)
	}
}

func TestBucketArguments_FormFlattening(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeForm: nil}},
	})

	b := view.BucketArguments(map[string]any{
		"user": map[string]any{"address": map[string]any{"city": "Oslo"}},
		"tags": []any{"a", "b"},
		"flag": true,
	}, testLogger())

	if b.Body != nil {
		t.Fatalf("form body and JSON body are mutually exclusive")
	}
	if got := b.Form.Get("user[address][city]"); got != "Oslo" {
		t.Fatalf("nested keys must use bracket notation, got %q", got)
	}
	if got := b.Form["tags"]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("array elements must repeat under one key, got %v", got)
	}
	if got := b.Form.Get("flag"); got != "true" {
		t.Fatalf("unexpected flag value %q", got)
	}
}

func TestBucketArguments_ExplicitFormDataMergesLeftovers(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeForm: nil}},
	})

	b := view.BucketArguments(map[string]any{
		"formData": map[string]any{"name": "explicit", "kept": "yes"},
		"name":     "winner",
		"extra":    "leftover",
	}, testLogger())

	if got := b.Form["name"]; !reflect.DeepEqual(got, []string{"winner"}) {
		t.Fatalf("leftover keys must win over explicit formData without duplicates, got %v", got)
	}
	if b.Form.Get("kept") != "yes" || b.Form.Get("extra") != "leftover" {
		t.Fatalf("unexpected merged form %v", b.Form)
	}
}

func TestBucketArguments_ReservedKeysNeverLeak(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/items",
		OperationID: "create_item",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeJSON: nil}},
	})

	b := view.BucketArguments(map[string]any{
		"auth":   "secret",
		"server": "https://elsewhere",
	}, testLogger())
	body := b.Body.(map[string]any)
	if _, ok := body["auth"]; ok {
		t.Fatalf("reserved key auth leaked into the body")
	}
	if _, ok := body["server"]; ok {
		t.Fatalf("reserved key server leaked into the body")
	}
}

func TestStringifyArg(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{true, "true"},
		{float64(3), "3"},
		{float64(3.5), "3.5"},
		{json.Number("12"), "12"},
		{map[string]any{"a": float64(1)}, `{"a":1}`},
		{[]any{"x", "y"}, `["x","y"]`},
	}
	for _, tc := range cases {
		if got := stringifyArg(tc.in); got != tc.want {
			t.Fatalf("stringifyArg(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
