package core

import (
	"context"
)

// Logger interface - minimal logging interface
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

// Telemetry interface - optional telemetry support
type Telemetry interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	RecordMetric(name string, value float64, labels map[string]string)
}

// Span represents a telemetry span
type Span interface {
	End()
	SetAttribute(key string, value interface{})
	RecordError(err error)
}

// Transport is the message-transport collaborator. Read issues a
// non-mutating query against an actor; Send delivers an authenticated
// message. Both suspend at an I/O boundary and may return a
// transport-level fault.
type Transport interface {
	Read(ctx context.Context, actorID string, tags []Tag) (*Response, error)
	Send(ctx context.Context, credential Credential, actorID string, tags []Tag, payload []byte) (*Response, error)
}

// ProtocolCodec is the metadata/protocol collaborator. It parses ADP Info
// responses into actor metadata, generates the tag encoding for a
// dispatch, and runs a legacy-compatible second validation pass.
type ProtocolCodec interface {
	ParseInfoResponse(raw *Response) (*ActorMetadata, error)
	GenerateMessageTags(handler *HandlerDescriptor, parameters map[string]interface{}) []Tag
	ValidateParameters(handler *HandlerDescriptor, parameters map[string]interface{}) (bool, []string)
}

// Default no-op implementations

// NoOpLogger provides a no-op logger implementation
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, fields map[string]interface{})  {}
func (n *NoOpLogger) Error(msg string, fields map[string]interface{}) {}
func (n *NoOpLogger) Warn(msg string, fields map[string]interface{})  {}
func (n *NoOpLogger) Debug(msg string, fields map[string]interface{}) {}

// NoOpTelemetry provides a no-op telemetry implementation
type NoOpTelemetry struct{}

func (n *NoOpTelemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, &NoOpSpan{}
}

func (n *NoOpTelemetry) RecordMetric(name string, value float64, labels map[string]string) {}

// NoOpSpan provides a no-op span implementation
type NoOpSpan struct{}

func (n *NoOpSpan) End()                                       {}
func (n *NoOpSpan) SetAttribute(key string, value interface{}) {}
func (n *NoOpSpan) RecordError(err error)                      {}
