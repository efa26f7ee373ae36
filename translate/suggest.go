package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// Suggestions generates remediation examples for a handler after every
// translation attempt has failed: a literal direct-format example, a
// literal JSON example, and natural-language phrasing templates specific
// to the action.
func Suggestions(handler *core.HandlerDescriptor) []string {
	var out []string

	if direct := directExample(handler); direct != "" {
		out = append(out, fmt.Sprintf("direct format: %s", direct))
	}
	if jsonEx := jsonExample(handler); jsonEx != "" {
		out = append(out, fmt.Sprintf("JSON format: %s", jsonEx))
	}
	out = append(out, naturalTemplates(handler)...)
	return out
}

func directExample(handler *core.HandlerDescriptor) string {
	parts := []string{strings.ToLower(handler.Action)}
	for _, p := range handler.Parameters {
		if !p.Required {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", p.Name, sampleValue(p.Type)))
	}
	return strings.Join(parts, " ")
}

func jsonExample(handler *core.HandlerDescriptor) string {
	params := make(map[string]interface{}, len(handler.Parameters))
	for _, p := range handler.Parameters {
		if !p.Required {
			continue
		}
		switch p.Type {
		case core.ParamNumber:
			params[p.Name] = 10
		case core.ParamBoolean:
			params[p.Name] = true
		case core.ParamJSON:
			params[p.Name] = map[string]interface{}{"key": "value"}
		default:
			params[p.Name] = sampleValue(p.Type)
		}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return string(data)
}

func naturalTemplates(handler *core.HandlerDescriptor) []string {
	action := strings.ToLower(handler.Action)

	if canonical := CanonicalArithmetic(action); canonical != "" {
		switch canonical {
		case "add":
			return []string{`natural: "add 5 and 3" or "5 plus 3"`}
		case "subtract":
			return []string{`natural: "subtract 5 from 20" or "20 minus 5"`}
		case "multiply":
			return []string{`natural: "multiply 4 by 6" or "4 times 6"`}
		case "divide":
			return []string{`natural: "divide 10 by 2" or "10 / 2"`}
		}
	}

	if transferLike(action) {
		return []string{fmt.Sprintf(`natural: "%s 10 to <address>"`, action)}
	}

	return []string{fmt.Sprintf(`natural: "%s" followed by each parameter as name value`, action)}
}

func sampleValue(t core.ParameterType) string {
	switch t {
	case core.ParamNumber:
		return "10"
	case core.ParamBoolean:
		return "true"
	case core.ParamAddress:
		return "abc123_DEF-456"
	case core.ParamJSON:
		return `{"key":"value"}`
	default:
		return "example"
	}
}
