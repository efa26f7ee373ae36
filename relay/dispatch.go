package relay

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ALLiDoizCode/adp-relay/adp"
	"github.com/ALLiDoizCode/adp-relay/core"
	"github.com/ALLiDoizCode/adp-relay/resilience"
)

// readActions and writeActions classify handlers by action name. The read
// list is consulted first; an action on neither list defaults to read so
// unknown handlers never trigger an authenticated mutation.
var readActions = []string{
	"info", "balance", "get", "view", "check", "query", "list", "show",
	"ping", "pong", "status", "version", "details",
}

var writeActions = []string{
	"transfer", "send", "mint", "burn", "create", "update", "delete", "set",
	"add", "subtract", "multiply", "divide", "calculate", "remove",
	"approve", "vote", "stake", "unstake", "deposit", "withdraw", "swap",
	"execute",
}

// IsWriteHandler classifies a handler as read or write from its action
// name, checking the read list before the write list.
func IsWriteHandler(handler *core.HandlerDescriptor) bool {
	action := strings.ToLower(handler.Action)
	for _, r := range readActions {
		if action == r {
			return false
		}
	}
	for _, w := range writeActions {
		if action == w {
			return true
		}
	}
	return false
}

// Dispatcher sends a translated request through the transport: reads via
// the unauthenticated query path, writes via the authenticated send. The
// response payload is opportunistically JSON-parsed, kept raw on failure.
type Dispatcher struct {
	transport core.Transport
	codec     core.ProtocolCodec
	breaker   *resilience.CircuitBreaker
	logger    core.Logger
	pacing    time.Duration
}

// NewDispatcher creates a Dispatcher. breaker may be nil to dispatch
// without circuit protection.
func NewDispatcher(transport core.Transport, codec core.ProtocolCodec, breaker *resilience.CircuitBreaker, logger core.Logger, pacing time.Duration) *Dispatcher {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &Dispatcher{
		transport: transport,
		codec:     codec,
		breaker:   breaker,
		logger:    logger,
		pacing:    pacing,
	}
}

// Dispatch encodes the parameters per strategy and performs the transport
// call. Returns the parsed response data and the method used.
func (d *Dispatcher) Dispatch(ctx context.Context, actorID string, credential core.Credential, handler *core.HandlerDescriptor, parameters map[string]interface{}, strategy core.Strategy) (interface{}, core.DispatchMethod, error) {
	method := core.DispatchRead
	if IsWriteHandler(handler) {
		method = core.DispatchWrite
	}

	// The read path carries no payload channel, so payload-only encoding
	// would drop every parameter; reads fall back to tags.
	if method == core.DispatchRead && strategy == core.StrategyPayload {
		strategy = core.StrategyTags
	}

	tags, payload, err := d.encode(handler, parameters, strategy)
	if err != nil {
		return nil, method, core.NewCommError("dispatch.encode", core.CategoryExecution, err)
	}

	d.pace(ctx)

	var resp *core.Response
	call := func() error {
		var callErr error
		if method == core.DispatchWrite {
			resp, callErr = d.transport.Send(ctx, credential, actorID, tags, payload)
		} else {
			resp, callErr = d.transport.Read(ctx, actorID, tags)
		}
		return callErr
	}

	if d.breaker != nil {
		if !d.breaker.CanExecute() {
			return nil, method, core.NewCommError("dispatch", core.CategoryNetwork, core.ErrCircuitBreakerOpen)
		}
		if err := call(); err != nil {
			d.breaker.RecordFailure()
			return nil, method, core.NewCommError("dispatch", core.Categorize(err), err)
		}
		d.breaker.RecordSuccess()
	} else if err := call(); err != nil {
		return nil, method, core.NewCommError("dispatch", core.Categorize(err), err)
	}

	d.logger.Debug("Dispatch completed", map[string]interface{}{
		"actor_id": actorID,
		"action":   handler.Action,
		"method":   string(method),
		"strategy": string(strategy),
	})

	return parseResponseData(resp), method, nil
}

// encode produces the wire encoding for a transmission strategy: tags
// carries every parameter as a tag, payload carries only the action tag
// plus a JSON body, hybrid carries both.
func (d *Dispatcher) encode(handler *core.HandlerDescriptor, parameters map[string]interface{}, strategy core.Strategy) ([]core.Tag, []byte, error) {
	switch strategy {
	case core.StrategyPayload:
		payload, err := adp.EncodePayload(parameters)
		if err != nil {
			return nil, nil, err
		}
		return []core.Tag{{Name: "Action", Value: handler.Action}}, payload, nil
	case core.StrategyHybrid:
		payload, err := adp.EncodePayload(parameters)
		if err != nil {
			return nil, nil, err
		}
		return d.codec.GenerateMessageTags(handler, parameters), payload, nil
	default: // core.StrategyTags
		return d.codec.GenerateMessageTags(handler, parameters), nil, nil
	}
}

// parseResponseData best-effort-parses the response payload as JSON,
// falling back to the raw string.
func parseResponseData(resp *core.Response) interface{} {
	if resp == nil {
		return nil
	}
	if strings.TrimSpace(resp.Payload) == "" {
		return resp.Tags
	}
	var data interface{}
	if err := json.Unmarshal([]byte(resp.Payload), &data); err != nil {
		return resp.Payload
	}
	return data
}

func (d *Dispatcher) pace(ctx context.Context) {
	if d.pacing <= 0 {
		return
	}
	timer := time.NewTimer(d.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
