package core

import (
	"context"
	"sync"
)

// MockTransport is an in-memory Transport for tests and local development.
// Responses are scripted per actor; calls are counted so tests can assert
// how many transport round trips a flow performed.
type MockTransport struct {
	mu sync.Mutex

	// ReadFunc and SendFunc, when set, override the scripted responses.
	ReadFunc func(ctx context.Context, actorID string, tags []Tag) (*Response, error)
	SendFunc func(ctx context.Context, credential Credential, actorID string, tags []Tag, payload []byte) (*Response, error)

	responses map[string]*Response
	readErr   error
	sendErr   error

	ReadCalls int
	SendCalls int

	// LastTags and LastPayload record the most recent dispatch for
	// assertions on encoding decisions.
	LastTags    []Tag
	LastPayload []byte
}

// NewMockTransport creates an empty mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[string]*Response)}
}

// Respond scripts the response returned for an actor.
func (m *MockTransport) Respond(actorID string, resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[actorID] = resp
}

// FailReads makes every Read return err.
func (m *MockTransport) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailSends makes every Send return err.
func (m *MockTransport) FailSends(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// Read implements Transport.
func (m *MockTransport) Read(ctx context.Context, actorID string, tags []Tag) (*Response, error) {
	m.mu.Lock()
	m.ReadCalls++
	m.LastTags = tags
	m.LastPayload = nil
	fn, err, resp := m.ReadFunc, m.readErr, m.responses[actorID]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, actorID, tags)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrActorUnreachable
	}
	return resp, nil
}

// Send implements Transport.
func (m *MockTransport) Send(ctx context.Context, credential Credential, actorID string, tags []Tag, payload []byte) (*Response, error) {
	m.mu.Lock()
	m.SendCalls++
	m.LastTags = tags
	m.LastPayload = payload
	fn, err, resp := m.SendFunc, m.sendErr, m.responses[actorID]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, credential, actorID, tags, payload)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrActorUnreachable
	}
	return resp, nil
}
