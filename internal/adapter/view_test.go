package adapter

import (
	"encoding/json"
	"testing"
)

func mustView(t *testing.T, op Operation) *OperationView {
	t.Helper()
	view, err := NewOperationView(op, testLogger())
	if err != nil {
		t.Fatalf("NewOperationView failed: %v", err)
	}
	return view
}

func TestNewOperationView_ResourceClassification(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/widgets/{id}",
		BaseURL:     "https://api.example.com",
		OperationID: "get_widget",
		Parameters: []Parameter{
			{Name: "id", Location: LocationPath, Required: true, Schema: json.RawMessage(`{"type":"string"}`)},
		},
	})
	if !view.IsResource {
		t.Fatalf("GET with only path parameters should be a resource")
	}
	if view.ResourceURITemplate() != "https://api.example.com/widgets/{id}" {
		t.Fatalf("unexpected resource template %q", view.ResourceURITemplate())
	}
}

func TestNewOperationView_QueryParameterBlocksResource(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/widgets",
		OperationID: "list_widgets",
		Parameters: []Parameter{
			{Name: "limit", Location: LocationQuery},
		},
	})
	if view.IsResource {
		t.Fatalf("query parameter must block resource classification")
	}
}

func TestNewOperationView_BodyBlocksResource(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/search",
		OperationID: "search",
		RequestBody: &RequestBody{Content: map[string]json.RawMessage{ContentTypeJSON: json.RawMessage(`{"type":"object"}`)}},
	})
	if view.IsResource {
		t.Fatalf("declared body must block resource classification")
	}
	if !view.HasBody() {
		t.Fatalf("body declaration lost")
	}
}

func TestNewOperationView_IgnoreResourceExtension(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/widgets/{id}",
		OperationID: "get_widget",
		Parameters:  []Parameter{{Name: "id", Location: LocationPath}},
		Extensions:  map[string]any{"ignore": "resource"},
	})
	if view.IsResource {
		t.Fatalf("ignore:resource must demote the operation to a tool")
	}
}

func TestNewOperationView_AnnotationOverridesSafety(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/widgets/{id}",
		OperationID: "get_widget",
		Parameters:  []Parameter{{Name: "id", Location: LocationPath}},
		Extensions:  map[string]any{"annotations": map[string]any{"destructiveHint": true}},
	})
	if view.Safety.Kind != SafetyDelete {
		t.Fatalf("annotation should override verb safety, got %+v", view.Safety)
	}
	if view.IsResource {
		t.Fatalf("non-readonly safety must block resource classification")
	}
}

func TestNewOperationView_ExtensionOverridesIdentity(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "post",
		Path:        "/widgets",
		OperationID: "create_widget",
		Summary:     "summary text",
		Extensions:  map[string]any{"operationId": "make_widget", "description": "override text"},
	})
	if view.ID != "make_widget" {
		t.Fatalf("extension operationId should win, got %q", view.ID)
	}
	if view.Description != "override text" {
		t.Fatalf("extension description should win, got %q", view.Description)
	}
}

func TestNewOperationView_DescriptionFallsBackToSummary(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/widgets",
		OperationID: "list_widgets",
		Summary:     "List widgets",
	})
	if view.Description != "List widgets" {
		t.Fatalf("summary fallback missing, got %q", view.Description)
	}
}

func TestBuildViews_SkipsUnsupportedVerb(t *testing.T) {
	views := BuildViews([]Operation{
		{Method: "get", Path: "/a", OperationID: "a"},
		{Method: "trace", Path: "/b", OperationID: "b"},
	}, testLogger())
	if len(views) != 1 || views[0].ID != "a" {
		t.Fatalf("unsupported verbs should be skipped, got %d views", len(views))
	}
}

func TestMatchResourceURI(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/users/{user}/posts/{post}",
		BaseURL:     "https://api.example.com",
		OperationID: "get_post",
		Parameters: []Parameter{
			{Name: "user", Location: LocationPath},
			{Name: "post", Location: LocationPath},
		},
	})

	args, ok := view.MatchResourceURI("https://api.example.com/users/alice/posts/42")
	if !ok {
		t.Fatalf("expected match")
	}
	if args["user"] != "alice" || args["post"] != "42" {
		t.Fatalf("unexpected path arguments %v", args)
	}

	if _, ok := view.MatchResourceURI("https://api.example.com/users/alice"); ok {
		t.Fatalf("partial URI must not match")
	}
}

func TestPreferredResponse(t *testing.T) {
	view := mustView(t, Operation{
		Method:      "get",
		Path:        "/widgets",
		OperationID: "list_widgets",
		Responses: []ResponseHint{
			{Status: "200", ContentType: ContentTypeJSON},
		},
	})
	if view.ResponseContentType != ContentTypeJSON {
		t.Fatalf("declared JSON response should pick JSON, got %q", view.ResponseContentType)
	}

	view = mustView(t, Operation{
		Method:      "get",
		Path:        "/raw",
		OperationID: "get_raw",
		Responses: []ResponseHint{
			{Status: "200", ContentType: "application/octet-stream", SchemaFormat: "binary"},
		},
	})
	if view.ResponseContentType != "text/plain" {
		t.Fatalf("unknown content type should fall back to text/plain, got %q", view.ResponseContentType)
	}
	if !view.ResponseBinary {
		t.Fatalf("binary format on a success response should mark the view binary")
	}

	view = mustView(t, Operation{
		Method:      "get",
		Path:        "/err",
		OperationID: "get_err",
		Responses: []ResponseHint{
			{Status: "500", ContentType: ContentTypeJSON},
		},
	})
	if view.ResponseContentType == ContentTypeJSON {
		t.Fatalf("error-only JSON responses must not select JSON translation")
	}
}
