package relay

import (
	"fmt"

	"github.com/ALLiDoizCode/adp-relay/core"
	"github.com/ALLiDoizCode/adp-relay/translate"
)

// TranslationReport is the result of a dry-run translation: everything
// ExecuteRequest would compute short of dispatching. Used by tooling and
// tests, not production dispatch.
type TranslationReport struct {
	Handler    string                   `json:"handler"`
	Confidence float64                  `json:"confidence"`
	Method     core.DispatchMethod      `json:"method"`
	Format     translate.RequestFormat  `json:"format"`
	Attempts   []core.ExtractionAttempt `json:"attempts"`
	Parameters map[string]interface{}   `json:"parameters"`
	Outcome    *core.ValidationOutcome  `json:"outcome"`
	Strategy   core.Strategy            `json:"strategy"`
}

// InspectTranslation runs matching, every extraction strategy, and
// validation against the given metadata without touching the transport.
func (e *Engine) InspectTranslation(request string, metadata *core.ActorMetadata) (*TranslationReport, error) {
	if metadata == nil || len(metadata.Handlers) == 0 {
		return nil, core.NewCommError("relay.InspectTranslation", core.CategoryConfiguration,
			fmt.Errorf("%w: metadata with handlers is required", core.ErrMissingConfiguration))
	}

	match := e.matcher.Match(request, metadata.Handlers)
	if match == nil {
		return nil, core.NewCommError("relay.InspectTranslation", core.CategoryMatching, core.ErrHandlerNotFound)
	}

	report := &TranslationReport{
		Handler:    match.Handler.Action,
		Confidence: match.Confidence,
		Method:     core.DispatchRead,
		Format:     translate.ClassifyFormat(request),
	}
	if IsWriteHandler(match.Handler) {
		report.Method = core.DispatchWrite
	}

	for _, strategy := range translate.Strategies() {
		attempt := strategy.Extract(request, match.Handler)
		report.Attempts = append(report.Attempts, *attempt)

		if report.Parameters == nil && attempt.Complete(match.Handler) {
			report.Parameters = attempt.Parameters
		}
	}
	if report.Parameters == nil && len(report.Attempts) > 0 {
		report.Parameters = report.Attempts[0].Parameters
	}

	report.Outcome = e.validator.Validate(report.Parameters, match.Handler)
	report.Strategy = deriveStrategy(match.Handler, metadata)
	return report, nil
}

// ValidateAgainstSchema validates a prepared parameter map against one
// handler's declared schema, including the legacy codec pass.
func (e *Engine) ValidateAgainstSchema(parameters map[string]interface{}, handler *core.HandlerDescriptor) *core.ValidationOutcome {
	outcome := e.validator.Validate(parameters, handler)
	if ok, errs := e.codec.ValidateParameters(handler, parameters); !ok {
		outcome.Valid = false
		outcome.Errors = append(outcome.Errors, errs...)
	}
	return outcome
}
