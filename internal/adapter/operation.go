package adapter

import "encoding/json"

// Location is the transport bucket a parameter is routed to.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
)

// Parameter describes one declared operation parameter. The schema is a
// fully dereferenced JSON schema fragment; nil means "unspecified".
type Parameter struct {
	Name     string
	Location Location
	Required bool
	Schema   json.RawMessage
}

// RequestBody describes a declared request body as a content-type keyed
// schema lookup. A nil *RequestBody on Operation means no body is declared.
type RequestBody struct {
	Required bool
	Content  map[string]json.RawMessage
}

// ResponseHint carries the slice of a declared response this adapter cares
// about: its status, a content type, and the schema format (for the
// text/binary decision on resource reads).
type ResponseHint struct {
	Status       string
	ContentType  string
	SchemaFormat string
}

// Operation is the raw record handed over by the spec loader. All schema
// references must already be resolved; this core never chases $ref markers.
type Operation struct {
	Method      string
	Path        string
	BaseURL     string
	OperationID string
	Summary     string
	Description string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []ResponseHint
	Extensions  any
}

// HasBody reports whether the operation declares a request body.
func (op Operation) HasBody() bool {
	return op.RequestBody != nil
}
