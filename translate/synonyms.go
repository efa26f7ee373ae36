package translate

import "strings"

// actionSynonyms maps lower-case action names to request words that signal
// the same intent. Multiple words can map to the same action. The table is
// literal data so individual entries are independently testable.
var actionSynonyms = map[string][]string{
	"add":      {"plus", "sum", "total", "combine", "addition"},
	"subtract": {"minus", "difference", "take away", "deduct", "subtraction"},
	"multiply": {"times", "product", "multiplied"},
	"divide":   {"divided", "quotient", "split", "over"},
	"transfer": {"send", "pay", "move", "give"},
	"balance":  {"funds", "holdings", "how much", "amount held"},
	"info":     {"describe", "about", "capabilities", "what can"},
	"mint":     {"create tokens", "issue"},
	"burn":     {"destroy", "remove tokens"},
	"stake":    {"lock", "delegate"},
	"swap":     {"exchange", "trade", "convert"},
}

// arithmeticCanonical maps action-name spellings to the four canonical
// binary arithmetic operations.
var arithmeticCanonical = map[string]string{
	"add":            "add",
	"sum":            "add",
	"plus":           "add",
	"addition":       "add",
	"subtract":       "subtract",
	"sub":            "subtract",
	"minus":          "subtract",
	"subtraction":    "subtract",
	"multiply":       "multiply",
	"mul":            "multiply",
	"times":          "multiply",
	"multiplication": "multiply",
	"divide":         "divide",
	"div":            "divide",
	"division":       "divide",
}

// CanonicalArithmetic returns the canonical arithmetic operation for an
// action name, or "" when the action is not arithmetic.
func CanonicalArithmetic(action string) string {
	return arithmeticCanonical[strings.ToLower(action)]
}

// synonymsFor returns the request-word synonyms declared for an action.
func synonymsFor(action string) []string {
	return actionSynonyms[strings.ToLower(action)]
}

// transferLike reports whether the action moves value between parties.
var transferActions = map[string]bool{
	"transfer": true,
	"send":     true,
	"pay":      true,
	"withdraw": true,
	"deposit":  true,
}

func transferLike(action string) bool {
	return transferActions[strings.ToLower(action)]
}
