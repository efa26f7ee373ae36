package relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/ALLiDoizCode/adp-relay/core"
	"github.com/ALLiDoizCode/adp-relay/discovery"
	"github.com/ALLiDoizCode/adp-relay/resilience"
	"github.com/ALLiDoizCode/adp-relay/translate"
)

// Engine is the public entry point: it discovers actor capabilities,
// translates free-form request text into the actor's message protocol,
// dispatches, and interprets the response. Every ExecuteRequest path
// returns a tagged CommunicationResult; errors never escape.
type Engine struct {
	config      *core.Config
	transport   core.Transport
	codec       core.ProtocolCodec
	discovery   *discovery.MetadataCache
	matcher     *translate.Matcher
	validator   *translate.Validator
	dispatcher  *Dispatcher
	fallback    *FallbackOrchestrator
	preferences *preferenceCache
	logger      core.Logger
	telemetry   core.Telemetry
	now         func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*engineDeps)

type engineDeps struct {
	config    *core.Config
	logger    core.Logger
	telemetry core.Telemetry
	store     core.MetadataStore
	breaker   *resilience.CircuitBreaker
	now       func() time.Time
}

// WithConfig supplies a prepared configuration.
func WithConfig(cfg *core.Config) EngineOption {
	return func(d *engineDeps) { d.config = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger core.Logger) EngineOption {
	return func(d *engineDeps) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTelemetry sets the telemetry provider.
func WithTelemetry(t core.Telemetry) EngineOption {
	return func(d *engineDeps) {
		if t != nil {
			d.telemetry = t
		}
	}
}

// WithMetadataStore injects a prepared metadata store, overriding the
// config-driven default (in-memory, or Redis when RedisURL is set).
func WithMetadataStore(store core.MetadataStore) EngineOption {
	return func(d *engineDeps) { d.store = store }
}

// WithCircuitBreaker protects dispatch with a circuit breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) EngineOption {
	return func(d *engineDeps) { d.breaker = cb }
}

// WithClock replaces the engine's time source for deterministic tests.
func WithClock(now func() time.Time) EngineOption {
	return func(d *engineDeps) { d.now = now }
}

// NewEngine wires an Engine over the transport and protocol collaborators.
func NewEngine(transport core.Transport, codec core.ProtocolCodec, opts ...EngineOption) (*Engine, error) {
	deps := &engineDeps{
		logger:    &core.NoOpLogger{},
		telemetry: &core.NoOpTelemetry{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(deps)
	}

	if deps.config == nil {
		cfg, err := core.NewConfig()
		if err != nil {
			return nil, err
		}
		deps.config = cfg
	}
	if deps.store == nil {
		store, err := defaultStore(deps)
		if err != nil {
			return nil, err
		}
		deps.store = store
	}

	preferences := newPreferenceCache(deps.config.PreferenceTTL, deps.now)
	validator := translate.NewValidator()
	dispatcher := NewDispatcher(transport, codec, deps.breaker, deps.logger, deps.config.PacingDelay)

	e := &Engine{
		config:    deps.config,
		transport: transport,
		codec:     codec,
		discovery: discovery.New(transport, codec, deps.store,
			discovery.WithLogger(deps.logger),
			discovery.WithPacing(deps.config.PacingDelay)),
		matcher:     translate.NewMatcher(deps.config.MatchThreshold),
		validator:   validator,
		dispatcher:  dispatcher,
		preferences: preferences,
		logger:      deps.logger,
		telemetry:   deps.telemetry,
		now:         deps.now,
	}
	e.fallback = NewFallbackOrchestrator(dispatcher, validator, preferences, deps.logger)
	return e, nil
}

// defaultStore picks the metadata store when none was injected: Redis when
// the config names a URL so replicas share discovered capability documents,
// in-memory otherwise.
func defaultStore(deps *engineDeps) (core.MetadataStore, error) {
	if deps.config.RedisURL == "" {
		return core.NewMemoryStore(deps.config.MetadataTTL, core.WithClock(deps.now)), nil
	}
	redisOpts, err := redis.ParseURL(deps.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: redis url: %v", core.ErrInvalidConfiguration, err)
	}
	return core.NewRedisStore(redis.NewClient(redisOpts), deps.config.MetadataTTL,
		core.WithRedisPrefix(deps.config.RedisPrefix)), nil
}

// Discover returns the actor's capability metadata, cached per the
// metadata TTL.
func (e *Engine) Discover(ctx context.Context, actorID string) (*core.ActorMetadata, error) {
	ctx, span := e.telemetry.StartSpan(ctx, "relay.Discover")
	defer span.End()
	span.SetAttribute("actor.id", actorID)

	metadata, err := e.discovery.Discover(ctx, actorID)
	if err != nil {
		span.RecordError(err)
	}
	return metadata, err
}

// ClearCache evicts the named actors from the metadata cache, or every
// entry when called with no ids.
func (e *Engine) ClearCache(ctx context.Context, actorIDs ...string) error {
	return e.discovery.ClearCache(ctx, actorIDs...)
}

// ExecuteRequest translates and dispatches one request. cached, when
// non-nil, skips discovery. The returned result is always non-nil and
// carries either the response data or a categorized error with
// suggestions; no error or panic escapes.
func (e *Engine) ExecuteRequest(ctx context.Context, actorID, request string, credential core.Credential, cached *core.ActorMetadata) (result *core.CommunicationResult) {
	diag := &core.Diagnostics{
		SessionID: uuid.NewString(),
		StartedAt: e.now(),
		Timings:   make(map[string]int),
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic during request execution", map[string]interface{}{
				"actor_id": actorID,
				"panic":    fmt.Sprintf("%v", r),
				"session":  diag.SessionID,
			})
			result = &core.CommunicationResult{
				Success:  false,
				Category: core.CategoryExecution,
				Error:    fmt.Sprintf("internal failure: %v", r),
			}
		}
		e.finishDiagnostics(result, diag)
	}()

	ctx, span := e.telemetry.StartSpan(ctx, "relay.ExecuteRequest")
	defer span.End()
	span.SetAttribute("actor.id", actorID)

	// Stage 1: metadata.
	stageStart := e.now()
	metadata := cached
	if metadata == nil {
		var err error
		metadata, err = e.discovery.Discover(ctx, actorID)
		if err != nil {
			span.RecordError(err)
			diag.Category = core.CategoryDiscovery
			return &core.CommunicationResult{
				Success:  false,
				Category: core.CategoryDiscovery,
				Error:    fmt.Sprintf("could not discover actor %s: %v", actorID, err),
				Suggestions: []string{
					"verify the actor id is correct",
					"confirm the actor is running and answers Info queries",
					"retry after the actor becomes reachable; failures are not cached",
				},
			}
		}
	}
	diag.Timings["discovery"] = int(e.now().Sub(stageStart).Milliseconds())

	// Stage 2: handler matching.
	stageStart = e.now()
	match := e.matcher.Match(request, metadata.Handlers)
	diag.Timings["matching"] = int(e.now().Sub(stageStart).Milliseconds())
	if match == nil {
		diag.Category = core.CategoryMatching
		return &core.CommunicationResult{
			Success:     false,
			Category:    core.CategoryMatching,
			Error:       fmt.Sprintf("no handler matched request %q", request),
			Suggestions: availableHandlers(metadata),
		}
	}
	span.SetAttribute("handler.action", match.Handler.Action)

	// Stage 3: extraction with strategy rotation.
	stageStart = e.now()
	parameters, outcome := e.extractWithRetries(ctx, request, match.Handler)
	diag.Timings["extraction"] = int(e.now().Sub(stageStart).Milliseconds())

	// Stage 4: validation outcome decides the path.
	if outcome.Valid {
		// Legacy second-pass validation for defense in depth.
		if ok, errs := e.codec.ValidateParameters(match.Handler, parameters); !ok {
			outcome.Valid = false
			outcome.Errors = append(outcome.Errors, errs...)
		}
	}

	if !outcome.Valid {
		e.logger.Info("Validation failed, entering fallback", map[string]interface{}{
			"actor_id": actorID,
			"action":   match.Handler.Action,
			"errors":   strings.Join(outcome.Errors, "; "),
			"session":  diag.SessionID,
		})
		stageStart = e.now()
		result := e.fallback.Recover(ctx, actorID, credential, request, match.Handler, metadata, match.Confidence)
		diag.Timings["fallback"] = int(e.now().Sub(stageStart).Milliseconds())
		if !result.Success {
			diag.Category = result.Category
		}
		return result
	}

	// Stage 5: dispatch.
	stageStart = e.now()
	data, method, err := e.dispatcher.Dispatch(ctx, actorID, credential, match.Handler, parameters, core.StrategyTags)
	diag.Timings["dispatch"] = int(e.now().Sub(stageStart).Milliseconds())
	if err != nil {
		span.RecordError(err)
		category := classifyDispatchError(err)
		diag.Category = category
		return &core.CommunicationResult{
			Success:     false,
			Handler:     match.Handler.Action,
			Method:      method,
			Parameters:  parameters,
			Confidence:  match.Confidence,
			Category:    category,
			Error:       err.Error(),
			Suggestions: dispatchSuggestions(category),
		}
	}

	e.telemetry.RecordMetric("relay.request.success", 1, map[string]string{
		"action": match.Handler.Action,
		"method": string(method),
	})

	return &core.CommunicationResult{
		Success:    true,
		Data:       data,
		Handler:    match.Handler.Action,
		Method:     method,
		Parameters: parameters,
		Confidence: match.Confidence,
	}
}

// extractWithRetries runs the extraction strategy rotation sequentially,
// pausing the configured delay between attempts. It stops at the first
// strategy whose attempt is complete and validates, otherwise returns the
// last attempt's parameters and outcome.
func (e *Engine) extractWithRetries(ctx context.Context, request string, handler *core.HandlerDescriptor) (map[string]interface{}, *core.ValidationOutcome) {
	strategies := translate.Strategies()
	attempts := e.config.MaxAttempts
	if attempts > len(strategies) {
		attempts = len(strategies)
	}

	var lastParams map[string]interface{}
	var lastOutcome *core.ValidationOutcome

	for i := 0; i < attempts; i++ {
		strategy := strategies[i]
		attempt := strategy.Extract(request, handler)
		outcome := e.validator.Validate(attempt.Parameters, handler)

		e.logger.Debug("Extraction attempt", map[string]interface{}{
			"strategy": strategy.Name,
			"action":   handler.Action,
			"complete": attempt.Complete(handler),
			"valid":    outcome.Valid,
		})

		lastParams, lastOutcome = attempt.Parameters, outcome
		if attempt.Complete(handler) && outcome.Valid {
			return lastParams, lastOutcome
		}

		if i < attempts-1 {
			e.sleep(ctx, e.config.AttemptDelay)
		}
	}
	return lastParams, lastOutcome
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (e *Engine) finishDiagnostics(result *core.CommunicationResult, diag *core.Diagnostics) {
	if result == nil || !e.config.VerboseDiagnostics {
		return
	}
	diag.Elapsed = e.now().Sub(diag.StartedAt)
	if !result.Success && diag.Category == "" {
		diag.Category = result.Category
	}
	result.Diagnostics = diag
}

// classifyDispatchError maps dispatch faults to categories: parameter and
// shape-related faults are configuration errors, everything else is
// execution (network faults keep their network category).
func classifyDispatchError(err error) core.ErrorCategory {
	category := core.Categorize(err)
	if category == core.CategoryNetwork {
		return category
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "parameter") || strings.Contains(msg, "marshal") || strings.Contains(msg, "encode") {
		return core.CategoryConfiguration
	}
	return core.CategoryExecution
}

func dispatchSuggestions(category core.ErrorCategory) []string {
	switch category {
	case core.CategoryConfiguration:
		return []string{
			"check that every parameter value matches its declared type",
			"re-run discovery in case the actor's schema changed",
		}
	case core.CategoryNetwork:
		return []string{
			"the actor or gateway is unreachable; retry later",
		}
	default:
		return []string{
			"the actor rejected the message; inspect the error detail",
		}
	}
}

func availableHandlers(metadata *core.ActorMetadata) []string {
	out := make([]string, 0, len(metadata.Handlers)+1)
	out = append(out, "available handlers:")
	for _, h := range metadata.Handlers {
		desc := h.Description
		if desc != "" {
			desc = " - " + desc
		}
		out = append(out, fmt.Sprintf("  %s%s", h.Action, desc))
	}
	return out
}
