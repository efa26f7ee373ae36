package translate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// extractFuzzy is the fuzzy strategy. For each parameter it builds anchor
// variants of the name (lowercased, first letter only, capitals stripped)
// and, for the first anchor present in the request, captures the token
// immediately following it with a generated regex, then coerces the token
// to the declared type.
func extractFuzzy(request string, handler *core.HandlerDescriptor) *core.ExtractionAttempt {
	attempt := &core.ExtractionAttempt{
		Strategy:   "fuzzy",
		Parameters: make(map[string]interface{}),
	}

	for _, p := range handler.Parameters {
		found := false
		for _, anchor := range anchorVariants(p.Name) {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(anchor) + `\b\s*[:=]?\s*("[^"]*"|\S+)`)
			if err != nil {
				continue
			}
			m := re.FindStringSubmatch(request)
			if m == nil {
				continue
			}
			if v, ok := CoerceValue(m[1], p.Type); ok {
				attempt.Parameters[p.Name] = v
				found = true
			}
			break
		}
		if !found && p.Required {
			attempt.Errors = append(attempt.Errors,
				fmt.Sprintf("no anchor for required parameter %q found in request", p.Name))
		}
	}

	return attempt
}

// anchorVariants derives the name forms searched for in the request, most
// specific first. Single-letter anchors only make sense for short names
// like A or B on arithmetic handlers.
func anchorVariants(name string) []string {
	lower := strings.ToLower(name)
	variants := []string{lower}

	if stripped := stripCapitals(name); stripped != "" && stripped != lower {
		variants = append(variants, stripped)
	}
	if len(lower) > 0 {
		variants = append(variants, lower[:1])
	}
	return variants
}

// stripCapitals removes the uppercase runes from a mixed-case name,
// producing a looser anchor for names the request abbreviates.
func stripCapitals(name string) string {
	var b strings.Builder
	for _, r := range name {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}
