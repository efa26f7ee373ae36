package relay

import (
	"context"
	"fmt"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
	"github.com/ALLiDoizCode/adp-relay/translate"
)

// FallbackOrchestrator recovers requests whose primary translation failed
// validation. It reclassifies the request format, re-parses direct-format
// input, re-extracts aggressively, and selects a transmission strategy
// from the preference cache and metadata heuristics before dispatching.
type FallbackOrchestrator struct {
	dispatcher  *Dispatcher
	validator   *translate.Validator
	preferences *preferenceCache
	logger      core.Logger
}

// NewFallbackOrchestrator creates an orchestrator sharing the engine's
// dispatcher and preference cache.
func NewFallbackOrchestrator(dispatcher *Dispatcher, validator *translate.Validator, preferences *preferenceCache, logger core.Logger) *FallbackOrchestrator {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &FallbackOrchestrator{
		dispatcher:  dispatcher,
		validator:   validator,
		preferences: preferences,
		logger:      logger,
	}
}

// Recover runs the fallback sequence for a request that failed
// validation. Returns a CommunicationResult: success when any branch
// dispatched, otherwise an aggregated failure carrying remediation
// suggestions.
func (f *FallbackOrchestrator) Recover(ctx context.Context, actorID string, credential core.Credential, request string, handler *core.HandlerDescriptor, metadata *core.ActorMetadata, confidence float64) *core.CommunicationResult {
	format := translate.ClassifyFormat(request)

	f.logger.Info("Fallback recovery started", map[string]interface{}{
		"actor_id": actorID,
		"action":   handler.Action,
		"format":   string(format),
	})

	var failures []string

	// Direct-format requests get a re-parse and, on success, an immediate
	// dispatch that short-circuits the remaining steps.
	if format == translate.FormatDirect {
		if result := f.recoverDirect(ctx, actorID, credential, request, handler, confidence); result != nil {
			return result
		}
		failures = append(failures, "direct-format re-parse did not yield valid parameters")
	}

	// Re-extract with the aggressive strategy and dispatch under the
	// computed transmission strategy.
	attempt := translate.ByName("aggressive").Extract(request, handler)
	outcome := f.validator.Validate(attempt.Parameters, handler)
	if outcome.Valid {
		strategy := f.FallbackStrategy(actorID, handler, metadata)
		data, method, err := f.dispatcher.Dispatch(ctx, actorID, credential, handler, attempt.Parameters, strategy)
		if err == nil {
			return &core.CommunicationResult{
				Success:    true,
				Data:       data,
				Handler:    handler.Action,
				Method:     method,
				Parameters: attempt.Parameters,
				Confidence: confidence,
				Fallback: &core.FallbackInfo{
					Used:            true,
					ParameterFormat: string(format),
					Strategy:        strategy,
				},
			}
		}
		failures = append(failures, fmt.Sprintf("aggressive re-extraction dispatched but failed: %v", err))
	} else {
		failures = append(failures, fmt.Sprintf("aggressive re-extraction invalid: %s", strings.Join(outcome.Errors, "; ")))
	}

	suggestions := translate.Suggestions(handler)
	return &core.CommunicationResult{
		Success:     false,
		Handler:     handler.Action,
		Confidence:  confidence,
		Category:    core.CategoryValidation,
		Error:       fmt.Sprintf("all fallback attempts failed: %s", strings.Join(failures, "; ")),
		Suggestions: suggestions,
		Fallback: &core.FallbackInfo{
			Used:            true,
			ParameterFormat: string(format),
			Attempts:        len(failures),
		},
	}
}

// recoverDirect re-parses a direct-format request and dispatches when the
// re-parse validates. Returns nil when the branch cannot recover.
func (f *FallbackOrchestrator) recoverDirect(ctx context.Context, actorID string, credential core.Credential, request string, handler *core.HandlerDescriptor, confidence float64) *core.CommunicationResult {
	params := translate.ParseDirect(request, handler)
	if params == nil {
		return nil
	}
	outcome := f.validator.Validate(params, handler)
	if !outcome.Valid {
		return nil
	}

	data, method, err := f.dispatcher.Dispatch(ctx, actorID, credential, handler, params, core.StrategyTags)
	if err != nil {
		return nil
	}
	return &core.CommunicationResult{
		Success:    true,
		Data:       data,
		Handler:    handler.Action,
		Method:     method,
		Parameters: params,
		Confidence: confidence,
		Fallback: &core.FallbackInfo{
			Used:            true,
			ParameterFormat: string(translate.FormatDirect),
			Strategy:        core.StrategyTags,
		},
	}
}

// FallbackStrategy selects the transmission strategy for an actor: cached
// preference first, then metadata-derived heuristics, then static
// per-handler heuristics, defaulting to hybrid. The decision is cached.
func (f *FallbackOrchestrator) FallbackStrategy(actorID string, handler *core.HandlerDescriptor, metadata *core.ActorMetadata) core.Strategy {
	if cached, ok := f.preferences.get(actorID); ok {
		return cached
	}

	strategy := deriveStrategy(handler, metadata)
	f.preferences.set(actorID, strategy)

	f.logger.Debug("Transmission strategy derived", map[string]interface{}{
		"actor_id": actorID,
		"action":   handler.Action,
		"strategy": string(strategy),
	})
	return strategy
}

func deriveStrategy(handler *core.HandlerDescriptor, metadata *core.ActorMetadata) core.Strategy {
	if metadata != nil && len(metadata.Handlers) > 0 {
		if s, ok := strategyFromMetadata(metadata); ok {
			return s
		}
	}
	if s, ok := strategyFromHandler(handler); ok {
		return s
	}
	return core.StrategyHybrid
}

// strategyFromMetadata derives a strategy from actor-wide shape: few
// parameters on average point at tags, any non-primitive parameter type
// at payload, a large handler surface at hybrid.
func strategyFromMetadata(metadata *core.ActorMetadata) (core.Strategy, bool) {
	totalParams := 0
	nonPrimitive := false
	for _, h := range metadata.Handlers {
		totalParams += len(h.Parameters)
		for _, p := range h.Parameters {
			if !p.Type.IsPrimitive() {
				nonPrimitive = true
			}
		}
	}
	if float64(totalParams)/float64(len(metadata.Handlers)) <= 2 {
		return core.StrategyTags, true
	}
	if nonPrimitive {
		return core.StrategyPayload, true
	}
	if len(metadata.Handlers) > 5 {
		return core.StrategyHybrid, true
	}
	return "", false
}

// strategyFromHandler applies the static per-handler heuristics.
func strategyFromHandler(handler *core.HandlerDescriptor) (core.Strategy, bool) {
	if len(handler.Parameters) > 3 {
		return core.StrategyPayload, true
	}
	if translate.CanonicalArithmetic(handler.Action) != "" {
		return core.StrategyTags, true
	}
	if isTransferStyle(handler.Action) && len(handler.Parameters) > 2 {
		return core.StrategyPayload, true
	}
	return "", false
}

var transferStyle = map[string]bool{
	"transfer": true, "send": true, "pay": true,
	"withdraw": true, "deposit": true, "swap": true,
}

func isTransferStyle(action string) bool {
	return transferStyle[strings.ToLower(action)]
}
