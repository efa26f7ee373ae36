package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// assignmentStart finds `name=[` / `name={` (or `:` in place of `=`)
// fragments whose bracketed span is parsed as a nested value.
var assignmentStart = regexp.MustCompile(`(\w+)\s*[:=]\s*([\[{])`)

// quotedKey is the heuristic for JSON-shaped text without outer braces.
var quotedKey = regexp.MustCompile(`"\w+"\s*:`)

// ParseNested recovers a parameter map from JSON-shaped input embedded in
// request text. It tries, in order: a direct parse of the whole input, a
// parse of each `name=[...]` / `name={...}` assignment span, a depth- and
// quote-aware manual split of a brace-wrapped body, and finally a
// balanced-brace scan that recovers the longest well-formed object
// substring. Returns nil when nothing JSON-shaped is found.
func ParseNested(input string) map[string]interface{} {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	// Direct parse for obviously JSON-shaped input.
	if looksLikeJSON(trimmed) {
		var out map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			return out
		}
	}

	// Assignment fragments: name=[...] or name={...}.
	if params := parseAssignments(trimmed); len(params) > 0 {
		return params
	}

	// Manual depth-aware split of a braced body.
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if params := splitObjectBody(trimmed[1 : len(trimmed)-1]); len(params) > 0 {
			return params
		}
	}

	// Last resort: recover the longest balanced object substring.
	if span, ok := balancedSpan(trimmed, strings.IndexByte(trimmed, '{')); ok {
		var out map[string]interface{}
		if err := json.Unmarshal([]byte(span), &out); err == nil {
			return out
		}
		if params := splitObjectBody(span[1 : len(span)-1]); len(params) > 0 {
			return params
		}
	}

	return nil
}

// looksLikeJSON applies the outer-brace and quoted-key heuristics.
func looksLikeJSON(s string) bool {
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return true
	}
	return quotedKey.MatchString(s)
}

// parseAssignments extracts every `name=[...]`/`name={...}` fragment,
// parsing the bracketed span as JSON and falling back to the manual
// splitter for objects JSON rejects.
func parseAssignments(input string) map[string]interface{} {
	params := make(map[string]interface{})
	for _, loc := range assignmentStart.FindAllStringSubmatchIndex(input, -1) {
		name := input[loc[2]:loc[3]]
		openAt := loc[4]
		span, ok := balancedSpan(input, openAt)
		if !ok {
			continue
		}
		var v interface{}
		if err := json.Unmarshal([]byte(span), &v); err == nil {
			params[name] = v
			continue
		}
		if span[0] == '{' {
			if obj := splitObjectBody(span[1 : len(span)-1]); obj != nil {
				params[name] = obj
			}
		}
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

// balancedSpan returns the substring from the opening bracket at start to
// its matching close bracket, tracking string and escape state so brackets
// inside quoted strings do not count.
func balancedSpan(s string, start int) (string, bool) {
	if start < 0 || start >= len(s) {
		return "", false
	}
	open := s[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// Brackets inside strings are literal.
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// splitObjectBody splits `k: v, k2: v2` object bodies on commas and
// colons at depth zero only, so nested braces, brackets and quoted
// strings stay intact. Values are parsed as JSON when possible, then as
// bare scalars.
func splitObjectBody(body string) map[string]interface{} {
	fields := splitTopLevel(body, ',')
	if len(fields) == 0 {
		return nil
	}

	params := make(map[string]interface{})
	for _, field := range fields {
		kv := splitTopLevel(field, ':')
		if len(kv) < 2 {
			continue
		}
		key := strings.Trim(strings.TrimSpace(kv[0]), `"'`)
		if key == "" {
			continue
		}
		// Re-join in case the value itself contained a top-level colon
		// that the split consumed (e.g. unquoted URLs).
		value := strings.TrimSpace(strings.Join(kv[1:], ":"))
		params[key] = parseScalar(value)
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

// splitTopLevel splits s on sep occurrences at bracket depth zero outside
// quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inString := false
	escaped := false
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// parseScalar interprets a field value: JSON first, then bare number,
// boolean, or string.
func parseScalar(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return strings.Trim(raw, `"'`)
}

// RecoverObject exposes the balanced-brace recovery scan for callers that
// need the raw span rather than the parsed map.
func RecoverObject(s string) (string, error) {
	span, ok := balancedSpan(s, strings.IndexByte(s, '{'))
	if !ok {
		return "", fmt.Errorf("no balanced object found")
	}
	return span, nil
}
