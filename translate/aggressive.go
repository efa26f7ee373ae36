package translate

import (
	"fmt"
	"regexp"

	"github.com/ALLiDoizCode/adp-relay/core"
)

var numericToken = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// extractAggressive is the aggressive-fallback strategy: it tokenizes the
// request once, then assigns tokens positionally. The n-th numeric token
// goes to the n-th declared numeric parameter, the n-th word token to the
// n-th declared string or address parameter, both in schema order.
func extractAggressive(request string, handler *core.HandlerDescriptor) *core.ExtractionAttempt {
	attempt := &core.ExtractionAttempt{
		Strategy:   "aggressive",
		Parameters: make(map[string]interface{}),
	}

	numbers := numericToken.FindAllString(request, -1)
	words := wordToken.FindAllString(request, -1)

	numIdx, wordIdx := 0, 0
	for _, p := range handler.Parameters {
		switch p.Type {
		case core.ParamNumber:
			if numIdx < len(numbers) {
				if v, ok := CoerceValue(numbers[numIdx], p.Type); ok {
					attempt.Parameters[p.Name] = v
				}
				numIdx++
			}
		case core.ParamString, core.ParamAddress:
			if wordIdx < len(words) {
				if v, ok := CoerceValue(words[wordIdx], p.Type); ok {
					attempt.Parameters[p.Name] = v
				}
				wordIdx++
			}
		}

		if p.Required {
			if _, ok := attempt.Parameters[p.Name]; !ok {
				attempt.Errors = append(attempt.Errors,
					fmt.Sprintf("no positional token for required parameter %q", p.Name))
			}
		}
	}

	return attempt
}
