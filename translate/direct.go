package translate

import (
	"regexp"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// RequestFormat classifies how a request carries its parameters.
type RequestFormat string

const (
	FormatDirect  RequestFormat = "direct"
	FormatJSON    RequestFormat = "json"
	FormatNatural RequestFormat = "natural"
)

var (
	equalsPair = regexp.MustCompile(`(\w+)\s*=\s*("[^"]*"|\S+)`)
	colonPair  = regexp.MustCompile(`(\w+)\s*:\s*("[^"]*"|\S+)`)
)

// ClassifyFormat decides whether a request is bare k=v / k:v pairs
// (direct), JSON-shaped (json), or free text (natural). Pure JSON is not
// classified as direct even though it contains colons.
func ClassifyFormat(request string) RequestFormat {
	trimmed := strings.TrimSpace(request)
	if looksLikeJSON(trimmed) {
		return FormatJSON
	}
	if equalsPair.MatchString(trimmed) || colonPair.MatchString(trimmed) {
		return FormatDirect
	}
	return FormatNatural
}

// ParseDirect re-parses a direct-format request: JSON-shaped input goes
// straight to the nested parser, otherwise the equals pattern is tried
// first, then the colon pattern, then the nested parser. The first parser
// with at least one match wins. Values are coerced to the declared type
// when the handler declares the key.
func ParseDirect(request string, handler *core.HandlerDescriptor) map[string]interface{} {
	if looksLikeJSON(strings.TrimSpace(request)) {
		if nested := ParseNested(request); nested != nil {
			return nested
		}
	}

	for _, re := range []*regexp.Regexp{equalsPair, colonPair} {
		matches := re.FindAllStringSubmatch(request, -1)
		if len(matches) == 0 {
			continue
		}
		params := make(map[string]interface{}, len(matches))
		for _, m := range matches {
			key, raw := m[1], m[2]
			// Store under the declared name so key casing in the request
			// does not matter.
			if handler != nil {
				if p := handler.Parameter(key); p != nil {
					key = p.Name
				}
			}
			params[key] = coerceForHandler(key, raw, handler)
		}
		return params
	}

	if nested := ParseNested(request); nested != nil {
		return nested
	}
	return nil
}

// coerceForHandler coerces raw to the declared type of key, falling back
// to a generic scalar parse for undeclared keys. The direct format is
// more lenient than natural-language extraction: booleans may be written
// as 0/1.
func coerceForHandler(key, raw string, handler *core.HandlerDescriptor) interface{} {
	if handler != nil {
		if p := handler.Parameter(key); p != nil {
			if v, ok := CoerceValue(raw, p.Type); ok {
				return v
			}
			if p.Type == core.ParamBoolean {
				switch CleanToken(raw) {
				case "1":
					return true
				case "0":
					return false
				}
			}
		}
	}
	return parseScalar(CleanToken(raw))
}
