// Package core defines the shared types and collaborator interfaces of
// the relay: actor capability metadata, the transport and codec
// abstractions, error taxonomy, configuration, and the metadata stores.
package core

import (
	"strings"
	"time"
)

// ParameterType is the declared type of a handler parameter.
type ParameterType string

const (
	ParamString  ParameterType = "string"
	ParamNumber  ParameterType = "number"
	ParamBoolean ParameterType = "boolean"
	ParamAddress ParameterType = "address"
	ParamJSON    ParameterType = "json"
)

// IsPrimitive reports whether values of this type fit in a single tag
// without structural encoding.
func (t ParameterType) IsPrimitive() bool {
	switch t {
	case ParamString, ParamNumber, ParamBoolean, ParamAddress:
		return true
	}
	return false
}

// ValidationRule is an optional per-parameter constraint declared by the
// actor: a regex for string-like values, numeric bounds for numbers.
type ValidationRule struct {
	Pattern string   `json:"pattern,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// ParameterDescriptor describes one parameter a handler accepts.
type ParameterDescriptor struct {
	Name        string          `json:"name"`
	Type        ParameterType   `json:"type"`
	Required    bool            `json:"required"`
	Description string          `json:"description,omitempty"`
	Validation  *ValidationRule `json:"validation,omitempty"`
}

// HandlerDescriptor describes one operation an actor exposes.
type HandlerDescriptor struct {
	Action      string                `json:"action"`
	Description string                `json:"description,omitempty"`
	Parameters  []ParameterDescriptor `json:"parameters,omitempty"`
}

// Parameter returns the descriptor with the given name, matched
// case-insensitively, or nil.
func (h *HandlerDescriptor) Parameter(name string) *ParameterDescriptor {
	for i := range h.Parameters {
		if strings.EqualFold(h.Parameters[i].Name, name) {
			return &h.Parameters[i]
		}
	}
	return nil
}

// RequiredParameters returns the required parameters in declaration order.
func (h *HandlerDescriptor) RequiredParameters() []ParameterDescriptor {
	var out []ParameterDescriptor
	for _, p := range h.Parameters {
		if p.Required {
			out = append(out, p)
		}
	}
	return out
}

// ActorMetadata is the parsed capability document of one actor.
type ActorMetadata struct {
	ProtocolVersion string              `json:"protocolVersion"`
	Handlers        []HandlerDescriptor `json:"handlers"`
	Capabilities    map[string]bool     `json:"capabilities,omitempty"`
}

// Handler returns the handler with the given action, matched
// case-insensitively, or nil.
func (m *ActorMetadata) Handler(action string) *HandlerDescriptor {
	for i := range m.Handlers {
		if strings.EqualFold(m.Handlers[i].Action, action) {
			return &m.Handlers[i]
		}
	}
	return nil
}

// Tag is one name/value pair of a protocol message.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Response is a transport-level reply: the response tags plus an optional
// payload body.
type Response struct {
	Tags    []Tag  `json:"tags,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// TagValue returns the value of the named tag, matched case-insensitively,
// and whether it was present.
func (r *Response) TagValue(name string) (string, bool) {
	for _, t := range r.Tags {
		if strings.EqualFold(t.Name, name) {
			return t.Value, true
		}
	}
	return "", false
}

// Credential authenticates write dispatches. Opaque to the relay; the
// transport decides how to present it.
type Credential string

// Strategy is a transmission strategy for dispatch encoding.
type Strategy string

const (
	// StrategyTags encodes every parameter as a message tag.
	StrategyTags Strategy = "tags"
	// StrategyPayload carries parameters as a JSON body under a bare
	// Action tag.
	StrategyPayload Strategy = "payload"
	// StrategyHybrid carries both encodings on the same message.
	StrategyHybrid Strategy = "hybrid"
)

// DispatchMethod records which transport path a dispatch used.
type DispatchMethod string

const (
	DispatchRead  DispatchMethod = "read"
	DispatchWrite DispatchMethod = "write"
)

// ErrorCategory classifies a failed request by the stage that failed.
type ErrorCategory string

const (
	CategoryDiscovery     ErrorCategory = "discovery"
	CategoryMatching      ErrorCategory = "matching"
	CategoryExtraction    ErrorCategory = "extraction"
	CategoryValidation    ErrorCategory = "validation"
	CategoryExecution     ErrorCategory = "execution"
	CategoryNetwork       ErrorCategory = "network"
	CategoryConfiguration ErrorCategory = "configuration"
)

// ExtractionAttempt is the output of one extraction strategy run.
type ExtractionAttempt struct {
	Strategy   string                 `json:"strategy"`
	Parameters map[string]interface{} `json:"parameters"`
	Errors     []string               `json:"errors,omitempty"`
}

// Complete reports whether the attempt produced a non-nil value for every
// required parameter of the handler.
func (a *ExtractionAttempt) Complete(handler *HandlerDescriptor) bool {
	for _, p := range handler.Parameters {
		if !p.Required {
			continue
		}
		if v, ok := a.Parameters[p.Name]; !ok || v == nil {
			return false
		}
	}
	return true
}

// ValidationOutcome aggregates schema validation of a parameter map.
// Errors fail the request; warnings and fixes travel with the result.
type ValidationOutcome struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	SuggestedFixes []string `json:"suggestedFixes,omitempty"`
}

// FallbackInfo records that a request was recovered by the fallback
// orchestrator and how.
type FallbackInfo struct {
	Used            bool     `json:"used"`
	ParameterFormat string   `json:"parameterFormat,omitempty"`
	Strategy        Strategy `json:"strategy,omitempty"`
	Attempts        int      `json:"attempts,omitempty"`
}

// Diagnostics carries per-request timing and classification detail.
// Attached to results only when verbose diagnostics are enabled.
type Diagnostics struct {
	SessionID string         `json:"sessionId"`
	Category  ErrorCategory  `json:"category,omitempty"`
	StartedAt time.Time      `json:"startedAt"`
	Elapsed   time.Duration  `json:"elapsed"`
	Timings   map[string]int `json:"timings,omitempty"`
}

// CommunicationResult is the uniform outcome of ExecuteRequest. Success
// carries the response data; failure carries a category, an error string,
// and remediation suggestions. Never nil, never a raw error.
type CommunicationResult struct {
	Success     bool                   `json:"success"`
	Data        interface{}            `json:"data,omitempty"`
	Handler     string                 `json:"handler,omitempty"`
	Method      DispatchMethod         `json:"method,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Confidence  float64                `json:"confidence,omitempty"`
	Category    ErrorCategory          `json:"category,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Fallback    *FallbackInfo          `json:"fallback,omitempty"`
	Diagnostics *Diagnostics           `json:"diagnostics,omitempty"`
}
