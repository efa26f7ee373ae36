package translate

import (
	"fmt"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// extractCoercion runs the primary strategy, then for every still-missing
// required parameter scans each whitespace-delimited token of the request
// and accepts the first one that type-coerces successfully and passes the
// parameter's own validation rule.
func extractCoercion(request string, handler *core.HandlerDescriptor) *core.ExtractionAttempt {
	attempt := extractPrimary(request, handler)
	attempt.Strategy = "coercion"
	attempt.Errors = nil

	tokens := strings.Fields(request)

	for _, p := range handler.Parameters {
		if !p.Required {
			continue
		}
		if v, ok := attempt.Parameters[p.Name]; ok && v != nil {
			continue
		}

		found := false
		for _, token := range tokens {
			v, ok := CoerceValue(token, p.Type)
			if !ok {
				continue
			}
			if err := ValidateValue(&p, v); err != nil {
				continue
			}
			attempt.Parameters[p.Name] = v
			found = true
			break
		}
		if !found {
			attempt.Errors = append(attempt.Errors,
				fmt.Sprintf("no token coerces to %s for required parameter %q", p.Type, p.Name))
		}
	}

	return attempt
}
