// Package translate turns free-form request text into typed parameter maps
// for a matched handler: handler matching, four extraction strategies, a
// nested-structure parser for JSON-like fragments, and schema validation.
package translate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// CoerceValue converts a raw token to the declared parameter type.
// Returns the typed value and whether the conversion succeeded. Tokens are
// unquoted and stripped of trailing punctuation first.
func CoerceValue(token string, t core.ParameterType) (interface{}, bool) {
	token = CleanToken(token)
	if token == "" {
		return nil, false
	}

	switch t {
	case core.ParamNumber:
		n, err := strconv.ParseFloat(token, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return n, true
	case core.ParamBoolean:
		switch strings.ToLower(token) {
		case "true", "yes", "on":
			return true, true
		case "false", "no", "off":
			return false, true
		}
		return nil, false
	case core.ParamAddress:
		if !addressPattern.MatchString(token) {
			return nil, false
		}
		return token, true
	case core.ParamJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(token), &v); err != nil {
			return nil, false
		}
		return v, true
	default: // core.ParamString
		return token, true
	}
}

// CleanToken strips surrounding quotes and trailing sentence punctuation
// from a whitespace-delimited token.
func CleanToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimRight(token, ".,;!?")
	if len(token) >= 2 {
		if (token[0] == '"' && token[len(token)-1] == '"') ||
			(token[0] == '\'' && token[len(token)-1] == '\'') {
			token = token[1 : len(token)-1]
		}
	}
	return token
}

// normalize lowercases and collapses whitespace for matching.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
