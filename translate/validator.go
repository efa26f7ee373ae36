package translate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

const (
	maxNumberMagnitude = 1e15
	// largeOperandWarning is the magnitude above which arithmetic operands
	// draw a warning without failing validation.
	largeOperandWarning = 1e12
	maxStringLength     = 10000
	maxAddressLength    = 43
)

var addressPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,43}$`)

// Validator checks extracted parameters against a handler's declared
// schema: per-parameter type and shape checks plus cross-parameter
// contract checks for the canonical arithmetic handlers. Stateless.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate produces the aggregate outcome for a parameter map. Missing
// required parameters and type violations are errors; parameters present
// but not declared are only warnings.
func (v *Validator) Validate(parameters map[string]interface{}, handler *core.HandlerDescriptor) *core.ValidationOutcome {
	outcome := &core.ValidationOutcome{Valid: true}

	for _, p := range handler.Parameters {
		value, ok := parameters[p.Name]
		if !ok || value == nil {
			if p.Required {
				outcome.Errors = append(outcome.Errors,
					fmt.Sprintf("missing required parameter %q (%s)", p.Name, p.Type))
				outcome.SuggestedFixes = append(outcome.SuggestedFixes,
					fmt.Sprintf("provide %s as %s=<%s>", p.Name, p.Name, p.Type))
			}
			continue
		}
		if err := ValidateValue(&p, value); err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			outcome.SuggestedFixes = append(outcome.SuggestedFixes, suggestedFix(&p))
		}
	}

	declared := make(map[string]bool, len(handler.Parameters))
	for _, p := range handler.Parameters {
		declared[strings.ToLower(p.Name)] = true
	}
	for name := range parameters {
		if !declared[strings.ToLower(name)] {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("parameter %q is not declared by handler %q", name, handler.Action))
		}
	}

	v.checkContracts(parameters, handler, outcome)

	outcome.Valid = len(outcome.Errors) == 0
	return outcome
}

// ValidateValue checks one value against one parameter descriptor: type
// shape first, then the descriptor's optional pattern/min/max rule.
func ValidateValue(p *core.ParameterDescriptor, value interface{}) error {
	switch p.Type {
	case core.ParamAddress:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("parameter %q: address must be a string", p.Name)
		}
		if strings.ContainsAny(s, " \t\n\r") {
			return fmt.Errorf("parameter %q: address must not contain whitespace", p.Name)
		}
		if !addressPattern.MatchString(s) {
			return fmt.Errorf("parameter %q: address must be 1-%d characters of [A-Za-z0-9_-]", p.Name, maxAddressLength)
		}
	case core.ParamBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("parameter %q: expected a boolean, got %T", p.Name, value)
		}
	case core.ParamNumber:
		n, ok := asNumber(value)
		if !ok {
			return fmt.Errorf("parameter %q: expected a number, got %T", p.Name, value)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("parameter %q: number must be finite", p.Name)
		}
		if math.Abs(n) > maxNumberMagnitude {
			return fmt.Errorf("parameter %q: magnitude exceeds %g", p.Name, float64(maxNumberMagnitude))
		}
	case core.ParamString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("parameter %q: expected a string, got %T", p.Name, value)
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("parameter %q: string must not be empty", p.Name)
		}
		if len(s) > maxStringLength {
			return fmt.Errorf("parameter %q: string exceeds %d characters", p.Name, maxStringLength)
		}
	}

	return validateRule(p, value)
}

// validateRule applies the descriptor's declared pattern/min/max rule.
func validateRule(p *core.ParameterDescriptor, value interface{}) error {
	rule := p.Validation
	if rule == nil {
		return nil
	}

	if rule.Pattern != "" {
		if s, ok := value.(string); ok {
			re, err := regexp.Compile(rule.Pattern)
			if err == nil && !re.MatchString(s) {
				return fmt.Errorf("parameter %q: value does not match pattern %q", p.Name, rule.Pattern)
			}
		}
	}
	if n, ok := asNumber(value); ok {
		if rule.Min != nil && n < *rule.Min {
			return fmt.Errorf("parameter %q: %g is below minimum %g", p.Name, n, *rule.Min)
		}
		if rule.Max != nil && n > *rule.Max {
			return fmt.Errorf("parameter %q: %g is above maximum %g", p.Name, n, *rule.Max)
		}
	}
	return nil
}

// checkContracts runs cross-parameter checks for the canonical arithmetic
// handlers: divide-by-zero is an error, very large operands a warning.
func (v *Validator) checkContracts(parameters map[string]interface{}, handler *core.HandlerDescriptor, outcome *core.ValidationOutcome) {
	canonical := CanonicalArithmetic(handler.Action)
	if canonical == "" {
		return
	}

	slots := numericParameterSlots(handler)
	for name, slot := range slots {
		n, ok := asNumber(parameters[name])
		if !ok {
			continue
		}
		if canonical == "divide" && slot == 1 && n == 0 {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("parameter %q: division by zero", name))
			outcome.SuggestedFixes = append(outcome.SuggestedFixes,
				fmt.Sprintf("use a non-zero value for %s", name))
		}
		if math.Abs(n) > largeOperandWarning && math.Abs(n) <= maxNumberMagnitude {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("parameter %q: very large operand %g", name, n))
		}
	}
}

func suggestedFix(p *core.ParameterDescriptor) string {
	switch p.Type {
	case core.ParamAddress:
		return fmt.Sprintf("use a 1-%d character address of letters, digits, _ or - for %s", maxAddressLength, p.Name)
	case core.ParamNumber:
		return fmt.Sprintf("use a finite number within ±%g for %s", float64(maxNumberMagnitude), p.Name)
	case core.ParamBoolean:
		return fmt.Sprintf("use true or false for %s", p.Name)
	default:
		return fmt.Sprintf("provide a non-empty value for %s", p.Name)
	}
}

func asNumber(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
