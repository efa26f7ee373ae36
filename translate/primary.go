package translate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

var (
	firstNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	quotedToken = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	wordToken   = regexp.MustCompile(`\b[A-Za-z_][\w-]*\b`)

	// Role keyword patterns for common semantic roles.
	recipientAfterTo = regexp.MustCompile(`(?i)(?:send\s+to|transfer\s+to|pay\s+to|\bto)\s+([A-Za-z0-9_-]{1,43})`)
	amountKeyword    = regexp.MustCompile(`(?i)(?:send|transfer|pay|amount\s*[:=]?)\s*\$?(-?\d+(?:\.\d+)?)`)
)

// recipientNames and amountNames identify parameters eligible for the
// role-specific keyword patterns.
var recipientNames = map[string]bool{
	"recipient": true, "target": true, "to": true, "destination": true,
	"address": true, "receiver": true,
}

var amountNames = map[string]bool{
	"amount": true, "quantity": true, "value": true, "qty": true, "sum": true,
}

// extractPrimary is the primary extraction strategy. Per declared
// parameter it tries, in order: the arithmetic phrase table when the
// parameter is an operand of a binary arithmetic handler, a generic
// name[:=]value pattern, role-specific keyword patterns, and a last-resort
// per-type pattern. JSON-shaped fragments in the request are consulted
// throughout via the nested-structure parser.
func extractPrimary(request string, handler *core.HandlerDescriptor) *core.ExtractionAttempt {
	attempt := &core.ExtractionAttempt{
		Strategy:   "primary",
		Parameters: make(map[string]interface{}),
	}

	nested := ParseNested(request)

	var operands map[int]float64
	if canonical := CanonicalArithmetic(handler.Action); canonical != "" {
		operands, _ = matchArithmeticPhrase(canonical, request)
	}
	numericSlots := numericParameterSlots(handler)

	for _, p := range handler.Parameters {
		// Values recovered from embedded JSON fragments win outright.
		if v, ok := nestedValue(nested, p); ok {
			attempt.Parameters[p.Name] = v
			continue
		}

		// (a) arithmetic operand roles.
		if slot, isOperand := numericSlots[p.Name]; isOperand && operands != nil {
			if v, ok := operands[slot]; ok {
				attempt.Parameters[p.Name] = v
				continue
			}
		}

		// (b) generic name[:=]value and name value patterns.
		if v, ok := namedValue(request, p); ok {
			attempt.Parameters[p.Name] = v
			continue
		}

		// (c) role-specific keyword patterns.
		if v, ok := roleValue(request, p); ok {
			attempt.Parameters[p.Name] = v
			continue
		}

		// (d) last-resort per-type pattern.
		if v, ok := lastResortValue(request, p); ok {
			attempt.Parameters[p.Name] = v
			continue
		}

		if p.Required {
			attempt.Errors = append(attempt.Errors,
				fmt.Sprintf("could not extract required parameter %q", p.Name))
		}
	}

	return attempt
}

// numericParameterSlots maps the first two number-typed parameter names to
// operand slots 0 and 1 in schema order.
func numericParameterSlots(handler *core.HandlerDescriptor) map[string]int {
	slots := make(map[string]int, 2)
	next := 0
	for _, p := range handler.Parameters {
		if p.Type != core.ParamNumber {
			continue
		}
		if next >= 2 {
			break
		}
		slots[p.Name] = next
		next++
	}
	return slots
}

func nestedValue(nested map[string]interface{}, p core.ParameterDescriptor) (interface{}, bool) {
	if nested == nil {
		return nil, false
	}
	for k, v := range nested {
		if strings.EqualFold(k, p.Name) {
			if s, ok := v.(string); ok {
				if coerced, ok := CoerceValue(s, p.Type); ok {
					return coerced, true
				}
			}
			return v, true
		}
	}
	return nil, false
}

// namedValue matches `name=value`, `name: value`, and `name value`.
func namedValue(request string, p core.ParameterDescriptor) (interface{}, bool) {
	name := regexp.QuoteMeta(p.Name)
	for _, expr := range []string{
		`(?i)\b` + name + `\s*[:=]\s*("[^"]*"|\S+)`,
		`(?i)\b` + name + `\s+("[^"]*"|\S+)`,
	} {
		m := regexp.MustCompile(expr).FindStringSubmatch(request)
		if m == nil {
			continue
		}
		if v, ok := CoerceValue(m[1], p.Type); ok {
			return v, true
		}
	}
	return nil, false
}

// roleValue applies recipient/amount keyword patterns when the parameter
// name signals one of those roles.
func roleValue(request string, p core.ParameterDescriptor) (interface{}, bool) {
	lower := strings.ToLower(p.Name)
	switch {
	case recipientNames[lower] && (p.Type == core.ParamAddress || p.Type == core.ParamString):
		if m := recipientAfterTo.FindStringSubmatch(request); m != nil {
			if v, ok := CoerceValue(m[1], p.Type); ok {
				return v, true
			}
		}
	case amountNames[lower] && p.Type == core.ParamNumber:
		if m := amountKeyword.FindStringSubmatch(request); m != nil {
			if v, ok := CoerceValue(m[1], p.Type); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// lastResortValue falls back to the first token of the right shape: the
// first number for numeric parameters, the first quoted or word-like
// token for string and address parameters.
func lastResortValue(request string, p core.ParameterDescriptor) (interface{}, bool) {
	switch p.Type {
	case core.ParamNumber:
		if m := firstNumber.FindString(request); m != "" {
			return CoerceValue(m, p.Type)
		}
	case core.ParamBoolean:
		lower := strings.ToLower(request)
		for _, word := range []string{"true", "false", "yes", "no"} {
			if strings.Contains(lower, word) {
				return CoerceValue(word, p.Type)
			}
		}
	case core.ParamString, core.ParamAddress:
		if m := quotedToken.FindStringSubmatch(request); m != nil {
			token := m[1]
			if token == "" {
				token = m[2]
			}
			if v, ok := CoerceValue(token, p.Type); ok {
				return v, true
			}
		}
		if m := wordToken.FindString(request); m != "" {
			return CoerceValue(m, p.Type)
		}
	}
	return nil, false
}
