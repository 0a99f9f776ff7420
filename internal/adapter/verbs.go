package adapter

import (
	"fmt"
	"strings"
)

// Verb is a normalized HTTP method. The canonical form is lower case; use
// Method for the wire form.
type Verb string

const (
	VerbGet     Verb = "get"
	VerbPost    Verb = "post"
	VerbPut     Verb = "put"
	VerbPatch   Verb = "patch"
	VerbDelete  Verb = "delete"
	VerbHead    Verb = "head"
	VerbOptions Verb = "options"
)

// Method returns the transport form of the verb, always upper case.
func (v Verb) Method() string {
	return strings.ToUpper(string(v))
}

// SafetyKind discriminates the ChangeSafety variants.
type SafetyKind string

const (
	SafetyReadOnly SafetyKind = "readonly"
	SafetyUpdate   SafetyKind = "update"
	SafetyDelete   SafetyKind = "delete"
)

// ChangeSafety describes how an operation may alter remote state.
// Idempotent is only meaningful for the update kind.
type ChangeSafety struct {
	Kind       SafetyKind
	Idempotent bool
}

func ReadOnlySafety() ChangeSafety {
	return ChangeSafety{Kind: SafetyReadOnly}
}

func UpdateSafety(idempotent bool) ChangeSafety {
	return ChangeSafety{Kind: SafetyUpdate, Idempotent: idempotent}
}

func DeleteSafety() ChangeSafety {
	return ChangeSafety{Kind: SafetyDelete}
}

// UnsupportedVerbError reports an HTTP method this adapter does not handle.
// Callers skip the operation instead of failing the whole document load.
type UnsupportedVerbError struct {
	Method string
}

func (e *UnsupportedVerbError) Error() string {
	return fmt.Sprintf("unsupported HTTP verb %q", e.Method)
}

// ClassifyVerb normalizes a raw method string and derives its change safety.
// Input casing and surrounding whitespace are irrelevant.
func ClassifyVerb(method string) (Verb, ChangeSafety, error) {
	verb := Verb(strings.ToLower(strings.TrimSpace(method)))
	switch verb {
	case VerbGet, VerbHead, VerbOptions:
		return verb, ReadOnlySafety(), nil
	case VerbPut, VerbPatch:
		return verb, UpdateSafety(true), nil
	case VerbPost:
		return verb, UpdateSafety(false), nil
	case VerbDelete:
		return verb, DeleteSafety(), nil
	default:
		return "", ChangeSafety{}, &UnsupportedVerbError{Method: method}
	}
}

// Hints is the human-facing annotation tuple derived from a ChangeSafety.
// OpenWorld indicates whether the operation may reach unbounded external
// state; it is caller-configurable and defaults to true.
type Hints struct {
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
	OpenWorld   bool
}

// Hints derives the annotation tuple for the safety value.
func (s ChangeSafety) Hints(openWorld bool) Hints {
	h := Hints{OpenWorld: openWorld}
	switch s.Kind {
	case SafetyReadOnly:
		h.ReadOnly = true
		h.Idempotent = true
	case SafetyUpdate:
		h.Idempotent = s.Idempotent
	case SafetyDelete:
		h.Destructive = true
	}
	return h
}
